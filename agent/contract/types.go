package contract

// AgentType identifies one of the voice personas the worker can run.
type AgentType string

const (
	AgentTypeCoffee     AgentType = "coffee"
	AgentTypeWellness   AgentType = "wellness"
	AgentTypeSDR        AgentType = "sdr"
	AgentTypeFraud      AgentType = "fraud"
	AgentTypeGrocery    AgentType = "grocery"
	AgentTypeCommerce   AgentType = "commerce"
	AgentTypeTutor      AgentType = "tutor"
	AgentTypeGameMaster AgentType = "gm"
	AgentTypeImprov     AgentType = "improv"
)

// AgentTypes returns every known agent type in declaration order.
func AgentTypes() []AgentType {
	return []AgentType{
		AgentTypeCoffee,
		AgentTypeWellness,
		AgentTypeSDR,
		AgentTypeFraud,
		AgentTypeGrocery,
		AgentTypeCommerce,
		AgentTypeTutor,
		AgentTypeGameMaster,
		AgentTypeImprov,
	}
}

// ParseAgentType validates a raw agent name from config or CLI input.
func ParseAgentType(raw string) (AgentType, bool) {
	for _, t := range AgentTypes() {
		if string(t) == raw {
			return t, true
		}
	}
	return "", false
}

// ToolRequest is a single named tool invocation decoded from the model.
type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult carries the conversational reply of a tool back to the model.
// Reply is always a natural-language string: tools in this system never
// fail the conversation, they answer it (lookup misses and precondition
// violations are corrective prompts, not errors).
type ToolResult struct {
	Tool  string `json:"tool"`
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// Update is the envelope pushed to listening frontends on every state
// mutation. Type is the discriminator ("order_update", "lead_update",
// "cart_update", "mode_change", and the *_complete variants).
type Update struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
