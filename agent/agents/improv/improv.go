// Package improv implements the Improv Battle game show host. A game
// runs three rounds; each round draws a random scenario, waits for the
// player's performance, then records the host's reaction.
package improv

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	contractx "github.com/voxdesk/voxdesk/agent/contract"
	toolx "github.com/voxdesk/voxdesk/agent/tool"
	"github.com/voxdesk/voxdesk/agent/update"
	logx "github.com/voxdesk/voxdesk/pkg/logger"
)

const (
	ToolStartImprovBattle  = "start_improv_battle"
	ToolSetPlayerName      = "set_player_name"
	ToolStartNextRound     = "start_next_round"
	ToolReactToPerformance = "react_to_performance"
	ToolEndShow            = "end_show"
	ToolHandleEarlyExit    = "handle_early_exit"
	ToolGetGameStatus      = "get_game_status"
	ToolRestartGame        = "restart_game"
)

const (
	PhaseIntro          = "intro"
	PhaseAwaitingImprov = "awaiting_improv"
	PhaseReacting       = "reacting"
	PhaseDone           = "done"
)

const maxRounds = 3

var scenarios = []string{
	"You are a time-travelling tour guide explaining modern smartphones to someone from the 1800s.",
	"You are a restaurant waiter who must calmly tell a customer that their order has escaped the kitchen.",
	"You are a customer trying to return an obviously cursed object to a very skeptical shop owner.",
	"You are a barista who has to tell a customer that their latte is actually a portal to another dimension.",
	"You are a librarian trying to convince someone that the book they want to check out is actually alive and doesn't want to leave.",
	"You are a taxi driver whose car has just started flying, and you need to explain this to your very confused passenger.",
	"You are a museum security guard who has to tell visitors that one of the dinosaur skeletons has gone missing.",
	"You are a pizza delivery person who has arrived at the wrong century and must deliver to a medieval castle.",
	"You are a tech support representative helping someone whose computer has gained consciousness.",
	"You are a wedding planner explaining to the bride that the venue has been taken over by a family of bears.",
	"You are a dentist who has to inform your patient that their tooth is actually a tiny alien spaceship.",
	"You are a dog walker trying to explain to the owner why their pet has learned to speak French.",
}

var closingSummaries = []string{
	"What a performance, %s! You showed great character work and really committed to each scenario.",
	"Impressive stuff, %s! You've got a knack for finding the humor in absurd situations.",
	"Well done, %s! Your emotional range and quick thinking really stood out today.",
	"Great job, %s! You weren't afraid to take risks and really go for it in each scene.",
}

type round struct {
	Scenario     string `json:"scenario"`
	HostReaction string `json:"host_reaction"`
}

type gameState struct {
	PlayerName   string  `json:"player_name"`
	CurrentRound int     `json:"current_round"`
	MaxRounds    int     `json:"max_rounds"`
	Rounds       []round `json:"rounds"`
	Phase        string  `json:"phase"`
}

type Agent struct {
	game     gameState
	emitter  *update.Emitter
	fallback contractx.Executor
	logger   zerolog.Logger
}

func New(emitter *update.Emitter) *Agent {
	return &Agent{
		game:     gameState{MaxRounds: maxRounds, Phase: PhaseIntro},
		emitter:  emitter,
		fallback: toolx.DefaultExecutor(contractx.AgentTypeImprov),
		logger:   logx.Component("improv"),
	}
}

func (a *Agent) Tools() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolStartImprovBattle,
			Desc: "Begin a new Improv Battle game.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"player_name": {Type: schema.String, Desc: "The name of the contestant (optional)"},
			}),
		},
		{
			Name: ToolSetPlayerName,
			Desc: "Set the player's name for the game.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {Type: schema.String, Desc: "The contestant's name", Required: true},
			}),
		},
		{Name: ToolStartNextRound, Desc: "Start the next improv round with a new scenario."},
		{
			Name: ToolReactToPerformance,
			Desc: "Provide host reaction to the player's improv performance.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"reaction": {Type: schema.String, Desc: "The host's reaction and feedback to the performance", Required: true},
			}),
		},
		{Name: ToolEndShow, Desc: "Provide closing summary and end the improv battle."},
		{Name: ToolHandleEarlyExit, Desc: "Handle when a player wants to stop the game early."},
		{Name: ToolGetGameStatus, Desc: "Get the current status of the improv battle game."},
		{Name: ToolRestartGame, Desc: "Restart the improv battle with a fresh game."},
	}
}

func (a *Agent) Execute(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	switch tool {
	case ToolStartImprovBattle:
		return a.startBattle(ctx, toolx.StringArg(args, "player_name")), nil
	case ToolSetPlayerName:
		return a.setPlayerName(ctx, toolx.StringArg(args, "name")), nil
	case ToolStartNextRound:
		return a.startNextRound(ctx), nil
	case ToolReactToPerformance:
		return a.reactToPerformance(ctx, toolx.StringArg(args, "reaction")), nil
	case ToolEndShow:
		return a.endShow(ctx, ToolEndShow), nil
	case ToolHandleEarlyExit:
		return a.earlyExit(ctx), nil
	case ToolGetGameStatus:
		return a.gameStatus(), nil
	case ToolRestartGame:
		return a.restartGame(ctx), nil
	default:
		return a.fallback(ctx, tool, args)
	}
}

func (a *Agent) startBattle(ctx context.Context, playerName string) contractx.ToolResult {
	if playerName != "" {
		a.game.PlayerName = playerName
	}
	a.game.Phase = PhaseIntro
	a.emitGame(ctx)

	intro := fmt.Sprintf(`Welcome to IMPROV BATTLE! I'm your host, and you're about to become our star performer!

Here's how it works: I'll give you %d different improv scenarios.
For each one, I'll set the scene and tell you who you are and what's happening.
Then YOU get to act it out! When you're done with a scene, just say 'End scene' or 'Okay' and I'll give you my reaction.

Ready to show me what you've got? Let's start with round one!`, a.game.MaxRounds)
	return reply(ToolStartImprovBattle, intro)
}

func (a *Agent) setPlayerName(ctx context.Context, name string) contractx.ToolResult {
	a.game.PlayerName = name
	a.emitGame(ctx)
	return reply(ToolSetPlayerName, fmt.Sprintf("Great to meet you, %s! Let's get this improv battle started!", name))
}

func (a *Agent) startNextRound(ctx context.Context) contractx.ToolResult {
	if a.game.CurrentRound >= a.game.MaxRounds {
		return a.endShow(ctx, ToolStartNextRound)
	}

	a.game.CurrentRound++
	a.game.Phase = PhaseAwaitingImprov

	scenario := scenarios[rand.Intn(len(scenarios))]
	a.game.Rounds = append(a.game.Rounds, round{Scenario: scenario})
	a.emitGame(ctx)

	return reply(ToolStartNextRound, fmt.Sprintf("Round %d! Here's your scenario:\n\n%s\n\nAlright, the scene is set! Take it away - start improvising now!",
		a.game.CurrentRound, scenario))
}

func (a *Agent) reactToPerformance(ctx context.Context, reaction string) contractx.ToolResult {
	if len(a.game.Rounds) > 0 {
		a.game.Rounds[len(a.game.Rounds)-1].HostReaction = reaction
	}
	a.game.Phase = PhaseReacting
	a.emitGame(ctx)

	if a.game.CurrentRound >= a.game.MaxRounds {
		return reply(ToolReactToPerformance, reaction+"\n\nThat wraps up our final round! Let me give you my overall thoughts...")
	}
	return reply(ToolReactToPerformance, reaction+"\n\nAlright, ready for the next challenge?")
}

func (a *Agent) endShow(ctx context.Context, tool string) contractx.ToolResult {
	a.game.Phase = PhaseDone
	a.emitGame(ctx)

	var b strings.Builder
	fmt.Fprintf(&b, closingSummaries[rand.Intn(len(closingSummaries))], a.playerName())
	if len(a.game.Rounds) > 0 {
		fmt.Fprintf(&b, " That moment in round %d was particularly memorable!", 1+rand.Intn(len(a.game.Rounds)))
	}
	b.WriteString("\n\nThanks for playing Improv Battle! You've been a fantastic contestant. Until next time, keep improvising!")
	return reply(tool, b.String())
}

func (a *Agent) earlyExit(ctx context.Context) contractx.ToolResult {
	a.game.Phase = PhaseDone
	a.emitGame(ctx)

	var b strings.Builder
	fmt.Fprintf(&b, "No problem, %s! Thanks for playing Improv Battle with us today. ", a.playerName())
	if a.game.CurrentRound > 0 {
		plural := ""
		if a.game.CurrentRound > 1 {
			plural = "s"
		}
		fmt.Fprintf(&b, "You did great in the %d round%s we played! ", a.game.CurrentRound, plural)
	}
	b.WriteString("Hope to see you back on the improv stage soon!")
	return reply(ToolHandleEarlyExit, b.String())
}

func (a *Agent) gameStatus() contractx.ToolResult {
	player := a.game.PlayerName
	if player == "" {
		player = "Unknown"
	}

	var b strings.Builder
	b.WriteString("Improv Battle Status:\n")
	fmt.Fprintf(&b, "Player: %s\n", player)
	fmt.Fprintf(&b, "Round: %d/%d\n", a.game.CurrentRound, a.game.MaxRounds)
	fmt.Fprintf(&b, "Phase: %s\n", a.game.Phase)

	if len(a.game.Rounds) > 0 {
		completed := 0
		for _, r := range a.game.Rounds {
			if r.HostReaction != "" {
				completed++
			}
		}
		fmt.Fprintf(&b, "Scenarios completed: %d\n", completed)
	}
	return reply(ToolGetGameStatus, b.String())
}

// restartGame clears everything except the player's name, so a rematch
// doesn't re-ask who is playing.
func (a *Agent) restartGame(ctx context.Context) contractx.ToolResult {
	a.game = gameState{PlayerName: a.game.PlayerName, MaxRounds: maxRounds, Phase: PhaseIntro}
	a.emitGame(ctx)
	result := a.startBattle(ctx, a.game.PlayerName)
	result.Tool = ToolRestartGame
	return result
}

func (a *Agent) playerName() string {
	if a.game.PlayerName == "" {
		return "contestant"
	}
	return a.game.PlayerName
}

func (a *Agent) emitGame(ctx context.Context) {
	a.emitter.Emit(ctx, "improv_update", a.game)
	a.logger.Info().Int("round", a.game.CurrentRound).Str("phase", a.game.Phase).Msg("improv update")
}

func reply(tool, text string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Reply: text}
}
