package sdr

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voxdesk/voxdesk/agent/catalog"
	"github.com/voxdesk/voxdesk/agent/update"
)

const faqJSON = `{
  "company": {"name": "Razorpay", "tagline": "Power your finance", "description": "India's payment gateway."},
  "products": [{"name": "Payment Gateway"}, {"name": "Payment Links"}, {"name": "Payroll"}, {"name": "Capital"}],
  "faq": [
    {"question": "What are your fees and pricing?", "answer": "We charge 2% per transaction.", "keywords": ["pricing", "fees"]},
    {"question": "How does onboarding work?", "answer": "Onboarding takes 15 minutes.", "keywords": ["onboarding", "setup"]}
  ]
}`

func newTestAgent(t *testing.T) (*Agent, string) {
	t.Helper()
	dir := t.TempDir()
	faqPath := filepath.Join(dir, "faq.json")
	if err := os.WriteFile(faqPath, []byte(faqJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	leadsPath := filepath.Join(dir, "leads.json")
	a := New(update.NewEmitter(update.NewMemorySink(), "sdr"), catalog.LoadFAQ(faqPath), leadsPath)
	return a, leadsPath
}

func call(t *testing.T, a *Agent, tool string, args map[string]any) string {
	t.Helper()
	result, err := a.Execute(context.Background(), tool, args)
	if err != nil {
		t.Fatalf("%s: %v", tool, err)
	}
	return result.Reply
}

func TestAnswerCompanyQuestionHitsFAQ(t *testing.T) {
	t.Parallel()

	a, _ := newTestAgent(t)
	got := call(t, a, ToolAnswerCompanyQuestion, map[string]any{"question": "what are your fees"})
	if !strings.Contains(got, "We charge 2% per transaction.") {
		t.Fatalf("reply = %q", got)
	}
	if len(a.questions) != 1 {
		t.Fatalf("questions tracked = %d", len(a.questions))
	}
}

func TestAnswerCompanyQuestionFallsBackToOverview(t *testing.T) {
	t.Parallel()

	a, _ := newTestAgent(t)
	got := call(t, a, ToolAnswerCompanyQuestion, map[string]any{"question": "tell me a joke"})
	if !strings.Contains(got, "Razorpay - Power your finance") {
		t.Fatalf("reply = %q", got)
	}
}

func TestNormalizeTimeline(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"we need this ASAP":      "now",
		"maybe next month":       "soon",
		"sometime in the future": "later",
		"urgent, starting today": "now",
		"within a week or so":    "soon",
		"just exploring for fun": "later",
	}
	for input, want := range cases {
		if got := NormalizeTimeline(input); got != want {
			t.Fatalf("NormalizeTimeline(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCompleteCallRequiresCoreFields(t *testing.T) {
	t.Parallel()

	a, _ := newTestAgent(t)
	call(t, a, ToolRecordLeadName, map[string]any{"name": "Priya"})

	got := call(t, a, ToolCompleteCallAndSaveLead, nil)
	if !strings.Contains(got, "email") || !strings.Contains(got, "use case") {
		t.Fatalf("reply = %q", got)
	}
}

func TestCompleteCallSavesLead(t *testing.T) {
	t.Parallel()

	a, leadsPath := newTestAgent(t)
	call(t, a, ToolRecordLeadName, map[string]any{"name": "Priya"})
	call(t, a, ToolRecordLeadCompany, map[string]any{"company": "Acme"})
	call(t, a, ToolRecordLeadEmail, map[string]any{"email": "priya@acme.io"})
	call(t, a, ToolRecordLeadRole, map[string]any{"role": "CTO"})
	call(t, a, ToolRecordUseCase, map[string]any{"use_case": "subscription billing"})
	call(t, a, ToolRecordTimeline, map[string]any{"timeline": "right now"})

	if got := call(t, a, ToolCheckLeadCompleteness, nil); !strings.Contains(got, "all the key information") {
		t.Fatalf("completeness = %q", got)
	}

	summary := call(t, a, ToolCompleteCallAndSaveLead, nil)
	if !strings.Contains(summary, "You're CTO at Acme") {
		t.Fatalf("summary = %q", summary)
	}
	if !strings.Contains(summary, "within the next few hours") {
		t.Fatalf("summary should use the now-timeline wording: %q", summary)
	}

	raw, err := os.ReadFile(leadsPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"leads"`, `"Priya"`, `"subscription billing"`, `"conversation_summary"`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("leads file missing %s: %s", want, raw)
		}
	}
	if !a.complete {
		t.Fatal("call should be flagged complete")
	}
}
