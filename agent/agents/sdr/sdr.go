// Package sdr implements the sales development agent: FAQ-backed
// question answering plus progressive lead capture saved to a leads log.
package sdr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/voxdesk/voxdesk/agent/catalog"
	contractx "github.com/voxdesk/voxdesk/agent/contract"
	"github.com/voxdesk/voxdesk/agent/record"
	"github.com/voxdesk/voxdesk/agent/store"
	toolx "github.com/voxdesk/voxdesk/agent/tool"
	"github.com/voxdesk/voxdesk/agent/update"
	logx "github.com/voxdesk/voxdesk/pkg/logger"
)

const (
	ToolAnswerCompanyQuestion   = "answer_company_question"
	ToolGetCompanyOverview      = "get_company_overview"
	ToolRecordLeadName          = "record_lead_name"
	ToolRecordLeadCompany       = "record_lead_company"
	ToolRecordLeadEmail         = "record_lead_email"
	ToolRecordLeadRole          = "record_lead_role"
	ToolRecordUseCase           = "record_use_case"
	ToolRecordTeamSize          = "record_team_size"
	ToolRecordTimeline          = "record_timeline"
	ToolCheckLeadCompleteness   = "check_lead_completeness"
	ToolCompleteCallAndSaveLead = "complete_call_and_save_lead"
)

// Lead is one saved prospect in the leads log.
type Lead struct {
	Name                string   `json:"name"`
	Company             string   `json:"company"`
	Email               string   `json:"email"`
	Role                string   `json:"role"`
	UseCase             string   `json:"use_case"`
	TeamSize            string   `json:"team_size"`
	Timeline            string   `json:"timeline"`
	QuestionsAsked      []string `json:"questions_asked"`
	ConversationSummary string   `json:"conversation_summary"`
	CallComplete        bool     `json:"call_complete"`
	Date                string   `json:"date"`
	Time                string   `json:"time"`
	Timestamp           string   `json:"timestamp"`
	QuestionsCount      int      `json:"questions_count"`
}

func leadSpecs() []record.FieldSpec {
	return []record.FieldSpec{
		{Name: "name", Label: "name"},
		{Name: "company", Label: "company"},
		{Name: "email", Label: "email"},
		{Name: "role", Label: "role"},
		{Name: "use_case", Label: "use case"},
		{Name: "team_size", Label: "team size"},
		{Name: "timeline", Label: "timeline"},
	}
}

type Agent struct {
	lead *record.Record
	// questions_asked keeps duplicates: asking twice is a signal, not noise.
	questions []string
	summary   string
	complete  bool
	faq       *catalog.FAQ
	leads     *store.Log[Lead]
	emitter   *update.Emitter
	fallback  contractx.Executor
	logger    zerolog.Logger
}

func New(emitter *update.Emitter, faq *catalog.FAQ, leadsPath string) *Agent {
	return &Agent{
		lead:     record.New(leadSpecs()),
		faq:      faq,
		leads:    store.NewLog[Lead](leadsPath, "leads"),
		emitter:  emitter,
		fallback: toolx.DefaultExecutor(contractx.AgentTypeSDR),
		logger:   logx.Component("sdr"),
	}
}

func (a *Agent) Tools() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolAnswerCompanyQuestion,
			Desc: "Answer a question about Razorpay using the FAQ knowledge base.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"question": {Type: schema.String, Desc: "The prospect's question about the company, products, pricing, or features", Required: true},
			}),
		},
		{
			Name: ToolGetCompanyOverview,
			Desc: "Provide an overview of Razorpay and what we do.",
		},
		{
			Name: ToolRecordLeadName,
			Desc: "Record the prospect's name.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {Type: schema.String, Desc: "The prospect's full name", Required: true},
			}),
		},
		{
			Name: ToolRecordLeadCompany,
			Desc: "Record the prospect's company name.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"company": {Type: schema.String, Desc: "The name of the prospect's company", Required: true},
			}),
		},
		{
			Name: ToolRecordLeadEmail,
			Desc: "Record the prospect's email address.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"email": {Type: schema.String, Desc: "The prospect's email address", Required: true},
			}),
		},
		{
			Name: ToolRecordLeadRole,
			Desc: "Record the prospect's role or position.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"role": {Type: schema.String, Desc: "The prospect's job title or role (e.g., founder, CTO, product manager)", Required: true},
			}),
		},
		{
			Name: ToolRecordUseCase,
			Desc: "Record what the prospect wants to use Razorpay for.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"use_case": {Type: schema.String, Desc: "Description of how they plan to use Razorpay (e.g., ecommerce payments, subscription billing)", Required: true},
			}),
		},
		{
			Name: ToolRecordTeamSize,
			Desc: "Record the prospect's team size.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"team_size": {Type: schema.String, Desc: "Size of the team (e.g., 1-10, 10-50, 50+, just me)", Required: true},
			}),
		},
		{
			Name: ToolRecordTimeline,
			Desc: "Record when the prospect is looking to get started.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"timeline": {Type: schema.String, Desc: "When they want to start (now, soon, later, exploring, urgent)", Required: true},
			}),
		},
		{
			Name: ToolCheckLeadCompleteness,
			Desc: "Check what lead information is still needed.",
		},
		{
			Name: ToolCompleteCallAndSaveLead,
			Desc: "Complete the call, provide a summary, and save the lead information.",
		},
	}
}

func (a *Agent) Execute(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	switch tool {
	case ToolAnswerCompanyQuestion:
		question := toolx.StringArg(args, "question")
		a.questions = append(a.questions, question)
		if entry, ok := a.faq.Search(question); ok {
			return reply(tool, fmt.Sprintf("%s Is there anything else you'd like to know about this?", entry.Answer)), nil
		}
		return reply(tool, fmt.Sprintf("That's a great question! Let me share what I know. %s Would you like me to connect you with our team for more specific details about that?", a.faq.CompanyOverview())), nil

	case ToolGetCompanyOverview:
		return reply(tool, fmt.Sprintf("%s %s What specifically are you interested in learning about?", a.faq.CompanyOverview(), a.faq.ProductsSummary())), nil

	case ToolRecordLeadName:
		name := toolx.StringArg(args, "name")
		a.lead.Set("name", name)
		a.emitLead(ctx)
		return reply(tool, fmt.Sprintf("Great to meet you, %s!", name)), nil

	case ToolRecordLeadCompany:
		company := toolx.StringArg(args, "company")
		a.lead.Set("company", company)
		a.emitLead(ctx)
		return reply(tool, fmt.Sprintf("Thanks! Tell me more about what %s does.", company)), nil

	case ToolRecordLeadEmail:
		email := toolx.StringArg(args, "email")
		a.lead.Set("email", email)
		a.emitLead(ctx)
		return reply(tool, fmt.Sprintf("Perfect, I've got your email as %s.", email)), nil

	case ToolRecordLeadRole:
		role := toolx.StringArg(args, "role")
		a.lead.Set("role", role)
		a.emitLead(ctx)
		return reply(tool, fmt.Sprintf("Got it, you're the %s.", role)), nil

	case ToolRecordUseCase:
		useCase := toolx.StringArg(args, "use_case")
		a.lead.Set("use_case", useCase)
		a.emitLead(ctx)
		return reply(tool, fmt.Sprintf("That's a great use case! %s is something we handle really well.", useCase)), nil

	case ToolRecordTeamSize:
		a.lead.Set("team_size", toolx.StringArg(args, "team_size"))
		a.emitLead(ctx)
		return reply(tool, "Thanks for sharing that!"), nil

	case ToolRecordTimeline:
		timeline := NormalizeTimeline(toolx.StringArg(args, "timeline"))
		a.lead.Set("timeline", timeline)
		a.emitLead(ctx)
		switch timeline {
		case "now":
			return reply(tool, "That's great! We can get you set up very quickly. Our onboarding typically takes less than 15 minutes."), nil
		case "soon":
			return reply(tool, "Perfect! We'll make sure you have all the information you need to get started when you're ready."), nil
		default:
			return reply(tool, "No problem! It's great that you're exploring options early. I'm here to answer any questions."), nil
		}

	case ToolCheckLeadCompleteness:
		missing := a.missingFields()
		if len(missing) == 0 {
			return reply(tool, "I have all the key information I need! Would you like me to summarize what we discussed?"), nil
		}
		return reply(tool, fmt.Sprintf("I'd love to get a bit more information: %s. This will help me provide better assistance.", strings.Join(missing, ", "))), nil

	case ToolCompleteCallAndSaveLead:
		return a.completeCall(ctx)

	default:
		return a.fallback(ctx, tool, args)
	}
}

// NormalizeTimeline collapses a free-text answer to now/soon/later.
// "now" words win over "soon" words; anything else is "later".
func NormalizeTimeline(timeline string) string {
	lower := strings.ToLower(timeline)
	for _, word := range []string{"now", "immediate", "urgent", "asap", "today"} {
		if strings.Contains(lower, word) {
			return "now"
		}
	}
	for _, word := range []string{"soon", "week", "month", "next"} {
		if strings.Contains(lower, word) {
			return "soon"
		}
	}
	return "later"
}

// missingFields lists the fields worth chasing. Note the asymmetry
// with isComplete: company and timeline are asked for but a lead can
// be saved without them.
func (a *Agent) missingFields() []string {
	var missing []string
	for _, field := range []struct{ name, label string }{
		{"name", "name"},
		{"email", "email"},
		{"company", "company"},
		{"use_case", "use case"},
		{"timeline", "timeline"},
	} {
		if _, ok := a.lead.Get(field.name); !ok {
			missing = append(missing, field.label)
		}
	}
	return missing
}

func (a *Agent) isComplete() bool {
	for _, field := range []string{"name", "email", "use_case"} {
		if _, ok := a.lead.Get(field); !ok {
			return false
		}
	}
	return true
}

func (a *Agent) completeCall(ctx context.Context) (contractx.ToolResult, error) {
	if !a.isComplete() {
		missing := a.missingFields()
		return reply(ToolCompleteCallAndSaveLead, fmt.Sprintf("Before we wrap up, I'd like to make sure I have your %s. This will help our team follow up with you properly.", strings.Join(missing, ", "))), nil
	}

	name, _ := a.lead.Get("name")
	company, _ := a.lead.Get("company")
	email, _ := a.lead.Get("email")
	role, _ := a.lead.Get("role")
	useCase, _ := a.lead.Get("use_case")
	teamSize, _ := a.lead.Get("team_size")
	timeline, _ := a.lead.Get("timeline")

	a.summary = buildConversationSummary(name, company, role, useCase, timeline)

	now := time.Now()
	lead := Lead{
		Name:                name,
		Company:             company,
		Email:               email,
		Role:                role,
		UseCase:             useCase,
		TeamSize:            teamSize,
		Timeline:            timeline,
		QuestionsAsked:      sliceOrEmpty(a.questions),
		ConversationSummary: a.summary,
		CallComplete:        true,
		Date:                now.Format("2006-01-02"),
		Time:                now.Format("15:04:05"),
		Timestamp:           now.Format(time.RFC3339),
		QuestionsCount:      len(a.questions),
	}

	if err := a.leads.Append(lead); err != nil {
		a.logger.Error().Err(err).Msg("save lead")
		return reply(ToolCompleteCallAndSaveLead, fmt.Sprintf("Thank you for your time, %s! I've noted all your information and our team will be in touch at %s. Is there anything else I can help with?", name, email)), nil
	}

	a.emitter.Emit(ctx, "call_complete", lead)

	var summary strings.Builder
	fmt.Fprintf(&summary, "Thank you so much for your time today, %s! ", name)
	if role != "" {
		fmt.Fprintf(&summary, "Let me quickly recap: You're %s at %s, ", role, company)
	} else {
		fmt.Fprintf(&summary, "You're from %s, ", company)
	}
	fmt.Fprintf(&summary, "and you're interested in using Razorpay for %s. ", useCase)

	switch timeline {
	case "now":
		fmt.Fprintf(&summary, "Since you're looking to get started right away, our team will reach out to you at %s within the next few hours to help you get set up. ", email)
	case "soon":
		fmt.Fprintf(&summary, "We'll send you detailed information to %s and our team will follow up with you soon. ", email)
	default:
		fmt.Fprintf(&summary, "We'll send you some helpful resources to %s and you can reach out whenever you're ready. ", email)
	}
	summary.WriteString("Is there anything else I can help you with today?")

	a.complete = true
	a.emitLead(ctx)

	return reply(ToolCompleteCallAndSaveLead, summary.String()), nil
}

func buildConversationSummary(name, company, role, useCase, timeline string) string {
	var parts []string
	if name != "" {
		parts = append(parts, name)
	}
	switch {
	case role != "" && company != "":
		parts = append(parts, fmt.Sprintf("%s at %s", role, company))
	case company != "":
		parts = append(parts, "from "+company)
	}
	if useCase != "" {
		parts = append(parts, "interested in "+useCase)
	}
	switch timeline {
	case "now":
		parts = append(parts, "looking to start immediately")
	case "soon":
		parts = append(parts, "planning to start soon")
	case "later":
		parts = append(parts, "exploring options for the future")
	}
	return strings.Join(parts, " - ")
}

func (a *Agent) emitLead(ctx context.Context) {
	snapshot := a.lead.Snapshot()
	snapshot["questions_asked"] = sliceOrEmpty(a.questions)
	snapshot["conversation_summary"] = a.summary
	snapshot["call_complete"] = a.complete
	a.emitter.Emit(ctx, "lead_update", snapshot)
}

func reply(tool, text string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Reply: text}
}

func sliceOrEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
