// Package persona maps each agent type to its display identity,
// voice, update topic, and system instructions.
package persona

import (
	_ "embed"
	"strings"

	"github.com/voxdesk/voxdesk/agent/contract"
)

var (
	//go:embed template/coffee.txt
	coffeeRaw string

	//go:embed template/wellness.txt
	wellnessRaw string

	//go:embed template/sdr.txt
	sdrRaw string

	//go:embed template/fraud.txt
	fraudRaw string

	//go:embed template/grocery.txt
	groceryRaw string

	//go:embed template/commerce.txt
	commerceRaw string

	//go:embed template/tutor.txt
	tutorRaw string

	//go:embed template/gm.txt
	gmRaw string

	//go:embed template/improv.txt
	improvRaw string
)

type Persona struct {
	Type         contract.AgentType
	DisplayName  string
	Voice        string
	Topic        string
	Instructions string
}

var table = map[contract.AgentType]Persona{
	contract.AgentTypeCoffee: {
		Type:         contract.AgentTypeCoffee,
		DisplayName:  "Maya",
		Voice:        "en-US-matthew",
		Topic:        "coffee",
		Instructions: strings.TrimSpace(coffeeRaw),
	},
	contract.AgentTypeWellness: {
		Type:         contract.AgentTypeWellness,
		DisplayName:  "Alex",
		Voice:        "en-US-matthew",
		Topic:        "wellness",
		Instructions: strings.TrimSpace(wellnessRaw),
	},
	contract.AgentTypeSDR: {
		Type:         contract.AgentTypeSDR,
		DisplayName:  "Razorpay SDR",
		Voice:        "en-US-matthew",
		Topic:        "sdr",
		Instructions: strings.TrimSpace(sdrRaw),
	},
	contract.AgentTypeFraud: {
		Type:         contract.AgentTypeFraud,
		DisplayName:  "SecureBank Fraud Desk",
		Voice:        "en-US-matthew",
		Topic:        "fraud",
		Instructions: strings.TrimSpace(fraudRaw),
	},
	contract.AgentTypeGrocery: {
		Type:         contract.AgentTypeGrocery,
		DisplayName:  "Alex",
		Voice:        "en-US-matthew",
		Topic:        "grocery",
		Instructions: strings.TrimSpace(groceryRaw),
	},
	contract.AgentTypeCommerce: {
		Type:         contract.AgentTypeCommerce,
		DisplayName:  "Sam",
		Voice:        "en-US-matthew",
		Topic:        "commerce",
		Instructions: strings.TrimSpace(commerceRaw),
	},
	contract.AgentTypeTutor: {
		Type:         contract.AgentTypeTutor,
		DisplayName:  "Active Recall Coach",
		Voice:        VoiceForTutorMode("learn"),
		Topic:        "tutor",
		Instructions: strings.TrimSpace(tutorRaw),
	},
	contract.AgentTypeGameMaster: {
		Type:         contract.AgentTypeGameMaster,
		DisplayName:  "Game Master",
		Voice:        "en-US-matthew",
		Topic:        "gm",
		Instructions: strings.TrimSpace(gmRaw),
	},
	contract.AgentTypeImprov: {
		Type:         contract.AgentTypeImprov,
		DisplayName:  "Improv Battle Host",
		Voice:        "en-US-matthew",
		Topic:        "improv",
		Instructions: strings.TrimSpace(improvRaw),
	},
}

// For returns the persona for the agent type.
func For(agentType contract.AgentType) (Persona, bool) {
	p, ok := table[agentType]
	return p, ok
}

// All returns every registered persona.
func All() []Persona {
	out := make([]Persona, 0, len(table))
	for _, agentType := range contract.AgentTypes() {
		if p, ok := table[agentType]; ok {
			out = append(out, p)
		}
	}
	return out
}

// VoiceForTutorMode maps a tutor learning mode to its dedicated voice.
// Unknown modes fall back to the learn voice.
func VoiceForTutorMode(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "quiz":
		return "en-US-alicia"
	case "teach_back":
		return "en-US-ken"
	default:
		return "en-US-matthew"
	}
}
