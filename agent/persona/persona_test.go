package persona

import (
	"testing"

	"github.com/voxdesk/voxdesk/agent/contract"
)

func TestEveryAgentTypeHasAPersona(t *testing.T) {
	t.Parallel()

	for _, agentType := range contract.AgentTypes() {
		p, ok := For(agentType)
		if !ok {
			t.Fatalf("no persona for %q", agentType)
		}
		if p.Instructions == "" {
			t.Fatalf("empty instructions for %q", agentType)
		}
		if p.Topic == "" {
			t.Fatalf("empty topic for %q", agentType)
		}
	}

	if got := len(All()); got != len(contract.AgentTypes()) {
		t.Fatalf("All() = %d personas", got)
	}
}

func TestVoiceForTutorMode(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"learn":      "en-US-matthew",
		"quiz":       "en-US-alicia",
		"teach_back": "en-US-ken",
		"TEACH_BACK": "en-US-ken",
		"unknown":    "en-US-matthew",
	}
	for mode, want := range cases {
		if got := VoiceForTutorMode(mode); got != want {
			t.Fatalf("VoiceForTutorMode(%q) = %q, want %q", mode, got, want)
		}
	}
}
