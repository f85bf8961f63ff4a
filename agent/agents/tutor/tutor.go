// Package tutor implements the active recall coach. A session moves
// between three modes, each fronted by a different voice: learn
// (explanations), quiz (questions with keyword scoring), and teach_back
// (the user explains and gets coverage feedback).
package tutor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/voxdesk/voxdesk/agent/catalog"
	contractx "github.com/voxdesk/voxdesk/agent/contract"
	toolx "github.com/voxdesk/voxdesk/agent/tool"
	"github.com/voxdesk/voxdesk/agent/update"
	logx "github.com/voxdesk/voxdesk/pkg/logger"
)

const (
	ToolSwitchToLearnMode     = "switch_to_learn_mode"
	ToolSwitchToQuizMode      = "switch_to_quiz_mode"
	ToolSwitchToTeachBackMode = "switch_to_teach_back_mode"
	ToolExplainLearningModes  = "explain_learning_modes"
	ToolGetCurrentMode        = "get_current_mode"
	ToolExplainConcept        = "explain_concept"
	ToolListConcepts          = "list_available_concepts"
	ToolAskQuestion           = "ask_question_about_concept"
	ToolEvaluateAnswer        = "evaluate_answer"
	ToolRequestExplanation    = "request_explanation"
	ToolProvideFeedback       = "provide_feedback"
)

const (
	ModeCoordinator = "coordinator"
	ModeLearn       = "learn"
	ModeQuiz        = "quiz"
	ModeTeachBack   = "teach_back"
)

// quizKeywords score quiz answers; teachBackKeywords score teach-back
// explanations. The teach-back sets are wider, so a passing quiz answer
// is not automatically a passing explanation.
var quizKeywords = map[string][]string{
	"variables":    {"store", "container", "data", "value", "reuse"},
	"loops":        {"repeat", "iteration", "for", "while", "condition"},
	"functions":    {"reusable", "parameters", "return", "organize", "block"},
	"conditionals": {"decision", "if", "condition", "true", "false"},
}

var teachBackKeywords = map[string][]string{
	"variables":    {"store", "data", "value", "container", "reuse", "name"},
	"loops":        {"repeat", "iteration", "for", "while", "condition", "multiple"},
	"functions":    {"reusable", "parameters", "return", "organize", "input", "output"},
	"conditionals": {"decision", "if", "condition", "true", "false", "branch"},
}

type Agent struct {
	mode     string
	concept  *catalog.Concept
	content  *catalog.Content
	emitter  *update.Emitter
	fallback contractx.Executor
	logger   zerolog.Logger
}

func New(emitter *update.Emitter, content *catalog.Content) *Agent {
	return &Agent{
		mode:     ModeCoordinator,
		content:  content,
		emitter:  emitter,
		fallback: toolx.DefaultExecutor(contractx.AgentTypeTutor),
		logger:   logx.Component("tutor"),
	}
}

// Mode reports the current learning mode, used by the session layer to
// pick the matching voice.
func (a *Agent) Mode() string { return a.mode }

func (a *Agent) Tools() []*schema.ToolInfo {
	conceptParam := func(desc string) *schema.ParamsOneOf {
		return schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"concept_id": {Type: schema.String, Desc: desc, Required: true},
		})
	}
	return []*schema.ToolInfo{
		{Name: ToolSwitchToLearnMode, Desc: "Switch to LEARN mode where Matthew explains concepts."},
		{Name: ToolSwitchToQuizMode, Desc: "Switch to QUIZ mode where Alicia tests your understanding."},
		{Name: ToolSwitchToTeachBackMode, Desc: "Switch to TEACH_BACK mode where Ken listens to your explanations."},
		{Name: ToolExplainLearningModes, Desc: "Explain the three available learning modes."},
		{Name: ToolGetCurrentMode, Desc: "Get the current learning mode."},
		{
			Name:        ToolExplainConcept,
			Desc:        "Explain a specific programming concept in detail (LEARN mode).",
			ParamsOneOf: conceptParam("The ID of the concept to explain (variables, loops, functions, conditionals)"),
		},
		{Name: ToolListConcepts, Desc: "List all available programming concepts that can be learned."},
		{
			Name:        ToolAskQuestion,
			Desc:        "Ask a quiz question about a specific programming concept (QUIZ mode).",
			ParamsOneOf: conceptParam("The ID of the concept to quiz about (variables, loops, functions, conditionals)"),
		},
		{
			Name: ToolEvaluateAnswer,
			Desc: "Evaluate the user's answer to the current quiz question (QUIZ mode).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_answer": {Type: schema.String, Desc: "The user's response to the quiz question", Required: true},
			}),
		},
		{
			Name:        ToolRequestExplanation,
			Desc:        "Ask the user to explain a programming concept back (TEACH_BACK mode).",
			ParamsOneOf: conceptParam("The ID of the concept for the user to explain (variables, loops, functions, conditionals)"),
		},
		{
			Name: ToolProvideFeedback,
			Desc: "Provide feedback on the user's explanation of a concept (TEACH_BACK mode).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_explanation": {Type: schema.String, Desc: "The user's explanation of the programming concept", Required: true},
			}),
		},
	}
}

func (a *Agent) Execute(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	switch tool {
	case ToolSwitchToLearnMode:
		a.switchMode(ctx, ModeLearn)
		return reply(tool, "Switching to LEARN mode! Matthew will now explain programming concepts to you. What would you like to learn about? Available concepts: variables, loops, functions, conditionals."), nil
	case ToolSwitchToQuizMode:
		a.switchMode(ctx, ModeQuiz)
		return reply(tool, "Switching to QUIZ mode! Alicia will now test your understanding with questions. Which concept would you like to be quizzed on? Available concepts: variables, loops, functions, conditionals."), nil
	case ToolSwitchToTeachBackMode:
		a.switchMode(ctx, ModeTeachBack)
		return reply(tool, "Switching to TEACH_BACK mode! Ken is ready to listen as you explain programming concepts. Which concept would you like to teach back? Available concepts: variables, loops, functions, conditionals."), nil
	case ToolExplainLearningModes:
		return reply(tool, modeOverview), nil
	case ToolGetCurrentMode:
		return a.currentMode(), nil
	case ToolExplainConcept:
		return a.explainConcept(ctx, toolx.StringArg(args, "concept_id")), nil
	case ToolListConcepts:
		return a.listConcepts(), nil
	case ToolAskQuestion:
		return a.askQuestion(ctx, toolx.StringArg(args, "concept_id")), nil
	case ToolEvaluateAnswer:
		return a.evaluateAnswer(ctx, toolx.StringArg(args, "user_answer")), nil
	case ToolRequestExplanation:
		return a.requestExplanation(ctx, toolx.StringArg(args, "concept_id")), nil
	case ToolProvideFeedback:
		return a.provideFeedback(ctx, toolx.StringArg(args, "user_explanation")), nil
	default:
		return a.fallback(ctx, tool, args)
	}
}

const modeOverview = `Welcome to the Teach-the-Tutor Active Recall Coach! I offer three learning modes:

🎓 LEARN Mode (Matthew): I'll explain programming concepts clearly with examples and analogies. Perfect for learning new topics.

🧠 QUIZ Mode (Alicia): I'll test your understanding with questions and provide feedback. Great for checking what you know.

👨‍🏫 TEACH_BACK Mode (Ken): You explain concepts back to me, and I'll listen and provide feedback. The best way to solidify your learning!

Which mode would you like to start with? Just say 'learn', 'quiz', or 'teach back' followed by the concept you're interested in.`

func (a *Agent) switchMode(ctx context.Context, newMode string) {
	previous := a.mode
	a.mode = newMode

	conceptID := any(nil)
	if a.concept != nil {
		conceptID = a.concept.ID
	}
	a.emitter.Emit(ctx, "mode_change", map[string]any{
		"new_mode":      newMode,
		"previous_mode": previous,
		"concept_id":    conceptID,
		"activity":      fmt.Sprintf("Switched to %s mode", newMode),
		"timestamp":     time.Now().Format(time.RFC3339),
	})
	a.logger.Info().Str("from", previous).Str("to", newMode).Msg("mode changed")
}

func (a *Agent) emitActivity(ctx context.Context, activity string, score any) {
	var conceptID any
	var concept any
	if a.concept != nil {
		conceptID = a.concept.ID
		concept = a.concept
	}
	a.emitter.Emit(ctx, "tutor_update", map[string]any{
		"mode":            a.mode,
		"activity":        activity,
		"score":           score,
		"concept_id":      conceptID,
		"current_concept": concept,
		"timestamp":       time.Now().Format(time.RFC3339),
	})
}

func (a *Agent) currentMode() contractx.ToolResult {
	if a.mode != ModeCoordinator {
		return reply(ToolGetCurrentMode, fmt.Sprintf("You're currently in %s mode. You can switch modes anytime by saying 'switch to learn', 'switch to quiz', or 'switch to teach back'.", strings.ToUpper(a.mode)))
	}
	return reply(ToolGetCurrentMode, "You haven't selected a learning mode yet. Would you like me to explain the available modes?")
}

func (a *Agent) conceptIDs() string {
	var ids []string
	for _, c := range a.content.All() {
		ids = append(ids, c.ID)
	}
	return strings.Join(ids, ", ")
}

func (a *Agent) explainConcept(ctx context.Context, conceptID string) contractx.ToolResult {
	concept, ok := a.content.Concept(conceptID)
	if !ok {
		return reply(ToolExplainConcept, fmt.Sprintf("I don't have information about '%s'. Available concepts are: %s", conceptID, a.conceptIDs()))
	}

	a.concept = &concept
	a.switchMode(ctx, ModeLearn)
	a.emitActivity(ctx, fmt.Sprintf("Started learning %s", concept.Title), nil)

	return reply(ToolExplainConcept, fmt.Sprintf("Let me explain %s for you. %s This is a fundamental concept in programming that you'll use constantly. Would you like me to go deeper into any aspect of %s, or are you ready to test your understanding?",
		concept.Title, concept.Summary, concept.Title))
}

func (a *Agent) listConcepts() contractx.ToolResult {
	var entries []string
	for _, c := range a.content.All() {
		entries = append(entries, fmt.Sprintf("%s (%s)", c.Title, c.ID))
	}
	return reply(ToolListConcepts, fmt.Sprintf("I can teach you about these programming concepts: %s. Which one would you like to learn about?", strings.Join(entries, ", ")))
}

func (a *Agent) askQuestion(ctx context.Context, conceptID string) contractx.ToolResult {
	concept, ok := a.content.Concept(conceptID)
	if !ok {
		return reply(ToolAskQuestion, fmt.Sprintf("I don't have quiz questions about '%s'. Available concepts are: %s", conceptID, a.conceptIDs()))
	}

	a.concept = &concept
	a.switchMode(ctx, ModeQuiz)
	a.emitActivity(ctx, fmt.Sprintf("Started quiz on %s", concept.Title), nil)

	return reply(ToolAskQuestion, fmt.Sprintf("Great! Let's test your understanding of %s. Here's your question: %s", concept.Title, concept.SampleQuestion))
}

func matchKeywords(text string, keywords []string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func (a *Agent) evaluateAnswer(ctx context.Context, answer string) contractx.ToolResult {
	if a.concept == nil {
		return reply(ToolEvaluateAnswer, "I haven't asked a question yet. Would you like me to ask you about a specific concept?")
	}

	keywords := quizKeywords[a.concept.ID]
	matched := matchKeywords(answer, keywords)
	var score float64
	if len(keywords) > 0 {
		score = float64(len(matched)) / float64(len(keywords))
	}

	a.emitActivity(ctx, fmt.Sprintf("Answered question about %s", a.concept.Title), score)

	switch {
	case score >= 0.5:
		return reply(ToolEvaluateAnswer, fmt.Sprintf("Excellent answer! You mentioned key points like %s. You clearly understand %s. Would you like to try another question or switch to teach-back mode to explain a concept to me?",
			strings.Join(matched, ", "), a.concept.Title))
	case score >= 0.25:
		return reply(ToolEvaluateAnswer, fmt.Sprintf("Good start! You got some important points like %s. Let me give you a hint: %s... Would you like to try answering again or move on to another concept?",
			strings.Join(matched, ", "), truncate(a.concept.Summary, 100)))
	default:
		return reply(ToolEvaluateAnswer, fmt.Sprintf("That's a good attempt! Let me help you understand %s better. %s Now that you have more context, would you like to try the question again?",
			a.concept.Title, a.concept.Summary))
	}
}

func (a *Agent) requestExplanation(ctx context.Context, conceptID string) contractx.ToolResult {
	concept, ok := a.content.Concept(conceptID)
	if !ok {
		return reply(ToolRequestExplanation, fmt.Sprintf("I don't have information about '%s'. Available concepts are: %s", conceptID, a.conceptIDs()))
	}

	a.concept = &concept
	a.switchMode(ctx, ModeTeachBack)
	a.emitActivity(ctx, fmt.Sprintf("Started teach-back session for %s", concept.Title), nil)

	return reply(ToolRequestExplanation, fmt.Sprintf("Perfect! I'd love to hear you explain %s to me. Pretend I'm a complete beginner - can you teach me what %s are and why they're important in programming? Take your time and explain it in your own words.",
		concept.Title, strings.ToLower(concept.Title)))
}

func (a *Agent) provideFeedback(ctx context.Context, explanation string) contractx.ToolResult {
	if a.concept == nil {
		return reply(ToolProvideFeedback, "I haven't asked you to explain anything yet. Would you like me to ask you to explain a specific concept?")
	}

	keywords := teachBackKeywords[a.concept.ID]
	covered := matchKeywords(explanation, keywords)
	var score float64
	if len(keywords) > 0 {
		score = float64(len(covered)) / float64(len(keywords))
	}

	a.emitActivity(ctx, fmt.Sprintf("Explained %s in teach-back mode", a.concept.Title), score)

	var b strings.Builder
	b.WriteString("Thank you for that explanation! ")
	switch {
	case score >= 0.7:
		fmt.Fprintf(&b, "You did an excellent job explaining %s! You covered the key concepts like %s. Your explanation shows you really understand this topic. Would you like to explain another concept or try a different learning mode?",
			a.concept.Title, strings.Join(covered, ", "))
	case score >= 0.4:
		fmt.Fprintf(&b, "That's a good explanation! You mentioned important points like %s. Can you also tell me about how %s help with organizing code or making it more efficient? What examples can you think of?",
			strings.Join(covered, ", "), strings.ToLower(a.concept.Title))
	default:
		fmt.Fprintf(&b, "I can see you're thinking about %s! Let me ask you this: %s Try to think about the main purpose and benefits. What problem do they solve?",
			a.concept.Title, a.concept.SampleQuestion)
	}
	return reply(ToolProvideFeedback, b.String())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func reply(tool, text string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Reply: text}
}
