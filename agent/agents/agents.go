// Package agents assembles a runnable session for each agent type:
// persona, tool declarations, and the executor bound to its data files.
package agents

import (
	"fmt"
	"path/filepath"

	"github.com/cloudwego/eino/schema"

	"github.com/voxdesk/voxdesk/agent/agents/coffee"
	"github.com/voxdesk/voxdesk/agent/agents/commerce"
	"github.com/voxdesk/voxdesk/agent/agents/fraud"
	"github.com/voxdesk/voxdesk/agent/agents/gm"
	"github.com/voxdesk/voxdesk/agent/agents/grocery"
	"github.com/voxdesk/voxdesk/agent/agents/improv"
	"github.com/voxdesk/voxdesk/agent/agents/sdr"
	"github.com/voxdesk/voxdesk/agent/agents/tutor"
	"github.com/voxdesk/voxdesk/agent/agents/wellness"
	"github.com/voxdesk/voxdesk/agent/catalog"
	contractx "github.com/voxdesk/voxdesk/agent/contract"
	"github.com/voxdesk/voxdesk/agent/persona"
	"github.com/voxdesk/voxdesk/agent/update"
)

// Config locates the shared reference data and the directories agents
// write into.
type Config struct {
	DataDir   string `envconfig:"DATA_DIR" default:"shared-data"`
	OrdersDir string `envconfig:"ORDERS_DIR" default:"orders"`
}

// Session is one ready-to-run agent: the persona to speak as, the tools
// to bind to the model, and the executor that runs them.
type Session struct {
	Persona persona.Persona
	Tools   []*schema.ToolInfo
	Execute contractx.Executor
}

// Build constructs the session for agentType, emitting state updates on
// the persona's topic through sink.
func Build(agentType contractx.AgentType, sink contractx.Sink, cfg Config) (*Session, error) {
	p, ok := persona.For(agentType)
	if !ok {
		return nil, fmt.Errorf("%w: no persona for agent=%s", contractx.ErrValidation, agentType)
	}
	emitter := update.NewEmitter(sink, p.Topic)
	data := func(name string) string { return filepath.Join(cfg.DataDir, name) }

	switch agentType {
	case contractx.AgentTypeCoffee:
		a := coffee.New(emitter, cfg.OrdersDir)
		return &Session{Persona: p, Tools: a.Tools(), Execute: a.Execute}, nil
	case contractx.AgentTypeWellness:
		a := wellness.New(emitter, data("wellness_log.json"))
		return &Session{Persona: p, Tools: a.Tools(), Execute: a.Execute}, nil
	case contractx.AgentTypeSDR:
		a := sdr.New(emitter, catalog.LoadFAQ(data("sdr_company_faq.json")), data("sdr_leads.json"))
		return &Session{Persona: p, Tools: a.Tools(), Execute: a.Execute}, nil
	case contractx.AgentTypeFraud:
		a := fraud.New(emitter, data("fraud_cases.json"))
		return &Session{Persona: p, Tools: a.Tools(), Execute: a.Execute}, nil
	case contractx.AgentTypeGrocery:
		a := grocery.New(emitter, catalog.LoadGrocery(data("food_catalog.json")), cfg.OrdersDir)
		return &Session{Persona: p, Tools: a.Tools(), Execute: a.Execute}, nil
	case contractx.AgentTypeCommerce:
		a := commerce.New(emitter, catalog.LoadProducts(data("commerce_catalog.json")), cfg.OrdersDir)
		return &Session{Persona: p, Tools: a.Tools(), Execute: a.Execute}, nil
	case contractx.AgentTypeTutor:
		a := tutor.New(emitter, catalog.LoadContent(data("tutor_content.json")))
		return &Session{Persona: p, Tools: a.Tools(), Execute: a.Execute}, nil
	case contractx.AgentTypeGameMaster:
		a := gm.New(emitter)
		return &Session{Persona: p, Tools: a.Tools(), Execute: a.Execute}, nil
	case contractx.AgentTypeImprov:
		a := improv.New(emitter)
		return &Session{Persona: p, Tools: a.Tools(), Execute: a.Execute}, nil
	default:
		return nil, fmt.Errorf("%w: unknown agent=%s", contractx.ErrValidation, agentType)
	}
}
