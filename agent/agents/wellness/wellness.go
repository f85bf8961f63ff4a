// Package wellness implements the daily check-in companion. Completed
// check-ins append to a running log so later sessions can reference
// previous entries for continuity.
package wellness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	contractx "github.com/voxdesk/voxdesk/agent/contract"
	"github.com/voxdesk/voxdesk/agent/record"
	"github.com/voxdesk/voxdesk/agent/store"
	toolx "github.com/voxdesk/voxdesk/agent/tool"
	"github.com/voxdesk/voxdesk/agent/update"
	logx "github.com/voxdesk/voxdesk/pkg/logger"
)

const (
	ToolRecordMood           = "record_mood"
	ToolRecordEnergyLevel    = "record_energy_level"
	ToolAddStressFactor      = "add_stress_factor"
	ToolAddDailyObjective    = "add_daily_objective"
	ToolAddSelfCareIntention = "add_self_care_intention"
	ToolGetPreviousContext   = "get_previous_context"
	ToolCheckWellnessStatus  = "check_wellness_status"
	ToolCompleteCheckin      = "complete_checkin"
	ToolStartNewCheckin      = "start_new_checkin"
)

// Entry is one saved check-in in the wellness log.
type Entry struct {
	Mood               string   `json:"mood"`
	EnergyLevel        string   `json:"energy_level"`
	StressFactors      []string `json:"stress_factors"`
	DailyObjectives    []string `json:"daily_objectives"`
	SelfCareIntentions []string `json:"self_care_intentions"`
	CheckInComplete    bool     `json:"check_in_complete"`
	Date               string   `json:"date"`
	Time               string   `json:"time"`
	Timestamp          string   `json:"timestamp"`
	Summary            string   `json:"summary"`
}

func checkinSpecs() []record.FieldSpec {
	return []record.FieldSpec{
		{Name: "mood", Label: "mood", Required: true},
		{Name: "energy_level", Label: "energy level", Required: true},
		{Name: "stress_factors", Label: "stress factors", List: true},
		{Name: "daily_objectives", Label: "daily objectives", Required: true, List: true},
		{Name: "self_care_intentions", Label: "self-care intentions", List: true},
	}
}

type Agent struct {
	checkin  *record.Record
	complete bool
	log      *store.Log[Entry]
	emitter  *update.Emitter
	fallback contractx.Executor
	logger   zerolog.Logger
}

func New(emitter *update.Emitter, logPath string) *Agent {
	return &Agent{
		checkin:  record.New(checkinSpecs()),
		log:      store.NewLog[Entry](logPath, "entries"),
		emitter:  emitter,
		fallback: toolx.DefaultExecutor(contractx.AgentTypeWellness),
		logger:   logx.Component("wellness"),
	}
}

func (a *Agent) Tools() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolRecordMood,
			Desc: "Record the user's current mood.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"mood": {Type: schema.String, Desc: "Description of current mood (e.g., happy, stressed, tired, energetic, anxious, calm)", Required: true},
			}),
		},
		{
			Name: ToolRecordEnergyLevel,
			Desc: "Record the user's current energy level.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"energy_level": {Type: schema.String, Desc: "Description of energy level (e.g., high, low, moderate, drained, energized)", Required: true},
			}),
		},
		{
			Name: ToolAddStressFactor,
			Desc: "Add something that's causing stress or concern.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"stress_factor": {Type: schema.String, Desc: "Something causing stress (e.g., work deadline, family situation, health concern)", Required: true},
			}),
		},
		{
			Name: ToolAddDailyObjective,
			Desc: "Add a daily goal or objective the user wants to accomplish.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"objective": {Type: schema.String, Desc: "A goal or task for today (e.g., finish report, exercise, call family)", Required: true},
			}),
		},
		{
			Name: ToolAddSelfCareIntention,
			Desc: "Add a self-care activity or intention for the day.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"intention": {Type: schema.String, Desc: "Self-care activity (e.g., take a walk, read a book, meditate, rest)", Required: true},
			}),
		},
		{
			Name: ToolGetPreviousContext,
			Desc: "Get information from previous check-ins to provide continuity.",
		},
		{
			Name: ToolCheckWellnessStatus,
			Desc: "Check what information is still needed to complete the wellness check-in.",
		},
		{
			Name: ToolCompleteCheckin,
			Desc: "Complete and save the wellness check-in when all information is collected.",
		},
		{
			Name: ToolStartNewCheckin,
			Desc: "Start a fresh wellness check-in session.",
		},
	}
}

func (a *Agent) Execute(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	switch tool {
	case ToolRecordMood:
		mood := toolx.StringArg(args, "mood")
		a.checkin.Set("mood", record.Normalize(mood))
		a.emitState(ctx)
		return reply(tool, fmt.Sprintf("I hear that you're feeling %s. Thank you for sharing that with me.", mood)), nil

	case ToolRecordEnergyLevel:
		energy := toolx.StringArg(args, "energy_level")
		a.checkin.Set("energy_level", record.Normalize(energy))
		a.emitState(ctx)
		return reply(tool, fmt.Sprintf("Got it, your energy is %s today.", energy)), nil

	case ToolAddStressFactor:
		factors := toolx.StringSliceArg(args, "stress_factor")
		for _, f := range factors {
			a.checkin.Append("stress_factors", record.Normalize(f))
		}
		a.emitState(ctx)
		return reply(tool, fmt.Sprintf("I understand that %s is weighing on you right now.", strings.Join(factors, " and "))), nil

	case ToolAddDailyObjective:
		objectives := toolx.StringSliceArg(args, "objective")
		for _, o := range objectives {
			a.checkin.Append("daily_objectives", record.Normalize(o))
		}
		a.emitState(ctx)
		return reply(tool, fmt.Sprintf("That sounds like a great goal: %s.", strings.Join(objectives, ", "))), nil

	case ToolAddSelfCareIntention:
		intentions := toolx.StringSliceArg(args, "intention")
		for _, i := range intentions {
			a.checkin.Append("self_care_intentions", record.Normalize(i))
		}
		a.emitState(ctx)
		return reply(tool, fmt.Sprintf("That's wonderful - %s sounds like great self-care.", strings.Join(intentions, " and "))), nil

	case ToolGetPreviousContext:
		return reply(tool, a.previousContext()), nil

	case ToolCheckWellnessStatus:
		missing := a.checkin.Missing()
		if len(missing) == 0 {
			return reply(tool, "We've covered the main areas! Let me give you a recap of our check-in."), nil
		}
		return reply(tool, fmt.Sprintf("I'd still like to hear about: %s", strings.Join(missing, ", "))), nil

	case ToolCompleteCheckin:
		return a.completeCheckin(ctx)

	case ToolStartNewCheckin:
		a.checkin.Reset()
		a.complete = false
		a.emitState(ctx)
		return reply(tool, fmt.Sprintf("Hello! I'm here for your daily wellness check-in. %s How are you feeling today?", a.previousContext())), nil

	default:
		return a.fallback(ctx, tool, args)
	}
}

func (a *Agent) completeCheckin(ctx context.Context) (contractx.ToolResult, error) {
	if !a.checkin.Complete() {
		missing := a.checkin.Missing()
		return reply(ToolCompleteCheckin, fmt.Sprintf("Let's make sure we cover %s before we wrap up our check-in.", strings.Join(missing, ", "))), nil
	}

	mood, _ := a.checkin.Get("mood")
	energy, _ := a.checkin.Get("energy_level")
	objectives := a.checkin.List("daily_objectives")
	goalText := strings.Join(headOf(objectives, 3), ", ")

	now := time.Now()
	entry := Entry{
		Mood:               mood,
		EnergyLevel:        energy,
		StressFactors:      sliceOrEmpty(a.checkin.List("stress_factors")),
		DailyObjectives:    sliceOrEmpty(objectives),
		SelfCareIntentions: sliceOrEmpty(a.checkin.List("self_care_intentions")),
		CheckInComplete:    true,
		Date:               now.Format("2006-01-02"),
		Time:               now.Format("15:04:05"),
		Timestamp:          now.Format(time.RFC3339),
		Summary:            fmt.Sprintf("Feeling %s with %s energy. Goals: %s", mood, energy, goalText),
	}

	if err := a.log.Append(entry); err != nil {
		a.logger.Error().Err(err).Msg("save check-in")
		return reply(ToolCompleteCheckin, "I'm sorry, there was an issue saving our check-in. But I want you to know that I heard everything you shared with me today."), nil
	}

	a.emitter.Emit(ctx, "checkin_complete", entry)

	stressText := ""
	if factors := a.checkin.List("stress_factors"); len(factors) > 0 {
		stressText = fmt.Sprintf(" I also noted that %s is on your mind.", strings.Join(factors, ", "))
	}
	selfCareText := ""
	if intentions := a.checkin.List("self_care_intentions"); len(intentions) > 0 {
		selfCareText = fmt.Sprintf(" For self-care, you're planning to %s.", strings.Join(intentions, ", "))
	}

	summary := fmt.Sprintf("Thank you for sharing with me today. To recap: you're feeling %s with %s energy, and your main goals are %s.%s%s Does this sound right? I've saved our check-in and I'm here whenever you need to talk.",
		mood, energy, goalText, stressText, selfCareText)

	// Marked complete but not reset, so the user can still confirm.
	a.complete = true
	a.emitState(ctx)

	return reply(ToolCompleteCheckin, summary), nil
}

func (a *Agent) previousContext() string {
	entries := a.log.Entries()
	if len(entries) == 0 {
		return "This is our first check-in together."
	}

	last := entries[len(entries)-1]
	date := last.Date
	if date == "" {
		date = "recently"
	}
	mood := last.Mood
	if mood == "" {
		mood = "unknown"
	}
	energy := last.EnergyLevel
	if energy == "" {
		energy = "unknown"
	}

	context := fmt.Sprintf("Last time we talked on %s, you mentioned feeling %s with %s energy.", date, mood, energy)
	if len(last.DailyObjectives) > 0 {
		context += fmt.Sprintf(" You had goals like: %s.", strings.Join(headOf(last.DailyObjectives, 2), ", "))
	}
	return context
}

func (a *Agent) emitState(ctx context.Context) {
	snapshot := a.checkin.Snapshot()
	snapshot["check_in_complete"] = a.complete
	a.emitter.Emit(ctx, "wellness_update", snapshot)
}

func reply(tool, text string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Reply: text}
}

func headOf(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func sliceOrEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
