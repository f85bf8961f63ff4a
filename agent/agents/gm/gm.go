// Package gm implements the fantasy adventure game master. The agent
// tracks story state for a single session and mirrors every change to
// the frontend so the party sheet stays current.
package gm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	contractx "github.com/voxdesk/voxdesk/agent/contract"
	toolx "github.com/voxdesk/voxdesk/agent/tool"
	"github.com/voxdesk/voxdesk/agent/update"
	logx "github.com/voxdesk/voxdesk/pkg/logger"
)

const (
	ToolStartAdventure     = "start_adventure"
	ToolRecordLocation     = "record_location"
	ToolRecordNPCEncounter = "record_npc_encounter"
	ToolRecordItemFound    = "record_item_found"
	ToolRecordKeyEvent     = "record_key_event"
	ToolGetStorySummary    = "get_story_summary"
	ToolRestartStory       = "restart_story"
)

const openingLocation = "The Crossroads Inn"

const openingScene = `You awaken in a dimly lit tavern called the Crossroads Inn. The smell of ale and roasted meat fills the air.
A hooded figure at the corner table catches your eye - they seem to be watching you intently.
The innkeeper is wiping down the bar, and you hear urgent whispers from a group of travelers near the fireplace.
What do you do?`

// Entity is a named NPC or item with an optional description.
type Entity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type storyState struct {
	Location   string   `json:"location"`
	NPCsMet    []Entity `json:"npcs_met"`
	ItemsFound []Entity `json:"items_found"`
	KeyEvents  []string `json:"key_events"`
	TurnCount  int      `json:"turn_count"`
}

type Agent struct {
	story    storyState
	emitter  *update.Emitter
	fallback contractx.Executor
	logger   zerolog.Logger
}

func New(emitter *update.Emitter) *Agent {
	return &Agent{
		emitter:  emitter,
		fallback: toolx.DefaultExecutor(contractx.AgentTypeGameMaster),
		logger:   logx.Component("gm"),
	}
}

func (a *Agent) Tools() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{Name: ToolStartAdventure, Desc: "Begin a new adventure story."},
		{
			Name: ToolRecordLocation,
			Desc: "Record when the player moves to a new location.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"location": {Type: schema.String, Desc: "The name of the location the player has moved to", Required: true},
			}),
		},
		{
			Name: ToolRecordNPCEncounter,
			Desc: "Record when the player meets a new NPC.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"npc_name":        {Type: schema.String, Desc: "The name of the NPC", Required: true},
				"npc_description": {Type: schema.String, Desc: "Brief description of the NPC (optional)"},
			}),
		},
		{
			Name: ToolRecordItemFound,
			Desc: "Record when the player finds or receives an item.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"item_name":        {Type: schema.String, Desc: "The name of the item", Required: true},
				"item_description": {Type: schema.String, Desc: "Brief description of the item (optional)"},
			}),
		},
		{
			Name: ToolRecordKeyEvent,
			Desc: "Record a significant story event.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"event_description": {Type: schema.String, Desc: "Description of the important event that occurred", Required: true},
			}),
		},
		{Name: ToolGetStorySummary, Desc: "Get a summary of the adventure so far."},
		{Name: ToolRestartStory, Desc: "Restart the adventure with a fresh story."},
	}
}

func (a *Agent) Execute(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	switch tool {
	case ToolStartAdventure, ToolRestartStory:
		return a.startAdventure(ctx, tool), nil
	case ToolRecordLocation:
		return a.recordLocation(ctx, toolx.StringArg(args, "location")), nil
	case ToolRecordNPCEncounter:
		return a.recordNPC(ctx, toolx.StringArg(args, "npc_name"), toolx.StringArg(args, "npc_description")), nil
	case ToolRecordItemFound:
		return a.recordItem(ctx, toolx.StringArg(args, "item_name"), toolx.StringArg(args, "item_description")), nil
	case ToolRecordKeyEvent:
		return a.recordEvent(ctx, toolx.StringArg(args, "event_description")), nil
	case ToolGetStorySummary:
		return a.storySummary(), nil
	default:
		return a.fallback(ctx, tool, args)
	}
}

func (a *Agent) startAdventure(ctx context.Context, tool string) contractx.ToolResult {
	a.story = storyState{
		Location:  openingLocation,
		KeyEvents: []string{"Adventure begins"},
	}
	a.emitStory(ctx)
	return reply(tool, openingScene)
}

func (a *Agent) recordLocation(ctx context.Context, location string) contractx.ToolResult {
	a.story.Location = location
	a.story.KeyEvents = append(a.story.KeyEvents, "Traveled to "+location)
	a.emitStory(ctx)
	return reply(ToolRecordLocation, fmt.Sprintf("You are now at %s.", location))
}

func (a *Agent) recordNPC(ctx context.Context, name, description string) contractx.ToolResult {
	entry := Entity{Name: name, Description: description}
	if !containsEntity(a.story.NPCsMet, entry) {
		a.story.NPCsMet = append(a.story.NPCsMet, entry)
		a.story.KeyEvents = append(a.story.KeyEvents, "Met "+name)
	}
	a.emitStory(ctx)
	return reply(ToolRecordNPCEncounter, fmt.Sprintf("You've encountered %s.", name))
}

func (a *Agent) recordItem(ctx context.Context, name, description string) contractx.ToolResult {
	entry := Entity{Name: name, Description: description}
	if !containsEntity(a.story.ItemsFound, entry) {
		a.story.ItemsFound = append(a.story.ItemsFound, entry)
		a.story.KeyEvents = append(a.story.KeyEvents, "Found "+name)
	}
	a.emitStory(ctx)
	return reply(ToolRecordItemFound, fmt.Sprintf("You've acquired %s.", name))
}

func (a *Agent) recordEvent(ctx context.Context, description string) contractx.ToolResult {
	a.story.KeyEvents = append(a.story.KeyEvents, description)
	a.story.TurnCount++
	a.emitStory(ctx)
	return reply(ToolRecordKeyEvent, fmt.Sprintf("Event recorded: %s", description))
}

func (a *Agent) storySummary() contractx.ToolResult {
	var b strings.Builder
	fmt.Fprintf(&b, "Adventure Summary (Turn %d):\n", a.story.TurnCount)
	fmt.Fprintf(&b, "Current Location: %s\n", a.story.Location)

	if len(a.story.NPCsMet) > 0 {
		fmt.Fprintf(&b, "NPCs Met: %s\n", strings.Join(entityNames(a.story.NPCsMet), ", "))
	}
	if len(a.story.ItemsFound) > 0 {
		fmt.Fprintf(&b, "Items Found: %s\n", strings.Join(entityNames(a.story.ItemsFound), ", "))
	}
	if len(a.story.KeyEvents) > 0 {
		recent := a.story.KeyEvents
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		fmt.Fprintf(&b, "Key Events: %s\n", strings.Join(recent, ", "))
	}
	return reply(ToolGetStorySummary, b.String())
}

func (a *Agent) emitStory(ctx context.Context) {
	a.emitter.Emit(ctx, "story_update", a.story)
	a.logger.Info().Int("turn", a.story.TurnCount).Str("location", a.story.Location).Msg("story update")
}

func containsEntity(list []Entity, e Entity) bool {
	for _, have := range list {
		if have == e {
			return true
		}
	}
	return false
}

func entityNames(list []Entity) []string {
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name)
	}
	return names
}

func reply(tool, text string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Reply: text}
}
