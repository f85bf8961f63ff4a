// Package fraud implements the bank verification agent. A case is
// loaded from the case file by customer name, identity is verified
// against the stored security answer, and every terminal outcome is
// written back to the case file mid-call so a dropped line never
// loses the decision.
package fraud

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	contractx "github.com/voxdesk/voxdesk/agent/contract"
	"github.com/voxdesk/voxdesk/agent/store"
	toolx "github.com/voxdesk/voxdesk/agent/tool"
	"github.com/voxdesk/voxdesk/agent/update"
	logx "github.com/voxdesk/voxdesk/pkg/logger"
)

const (
	ToolLoadFraudCaseByUsername       = "load_fraud_case_by_username"
	ToolVerifyCustomerIdentity        = "verify_customer_identity"
	ToolRecordTransactionConfirmation = "record_transaction_confirmation"
	ToolGetCaseStatus                 = "get_case_status"
	ToolEndFraudCall                  = "end_fraud_call"
)

const (
	StatusPendingReview      = "pending_review"
	StatusVerificationFailed = "verification_failed"
	StatusConfirmedSafe      = "confirmed_safe"
	StatusConfirmedFraud     = "confirmed_fraud"
)

// Case mirrors one entry of the fraud case file.
type Case struct {
	UserName            string `json:"userName"`
	SecurityIdentifier  string `json:"securityIdentifier"`
	CardEnding          string `json:"cardEnding"`
	TransactionAmount   string `json:"transactionAmount"`
	TransactionName     string `json:"transactionName"`
	TransactionTime     string `json:"transactionTime"`
	TransactionCategory string `json:"transactionCategory"`
	TransactionSource   string `json:"transactionSource"`
	TransactionLocation string `json:"transactionLocation"`
	SecurityQuestion    string `json:"securityQuestion"`
	SecurityAnswer      string `json:"securityAnswer"`
	Status              string `json:"status"`
	Outcome             string `json:"outcome,omitempty"`
}

type Agent struct {
	current  Case
	loaded   bool
	verified bool
	cases    *store.Log[Case]
	emitter  *update.Emitter
	fallback contractx.Executor
	logger   zerolog.Logger
}

func New(emitter *update.Emitter, casesPath string) *Agent {
	return &Agent{
		cases:    store.NewLog[Case](casesPath, "fraud_cases"),
		emitter:  emitter,
		fallback: toolx.DefaultExecutor(contractx.AgentTypeFraud),
		logger:   logx.Component("fraud"),
	}
}

func (a *Agent) Tools() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolLoadFraudCaseByUsername,
			Desc: "Load a fraud case from the database by username.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_name": {Type: schema.String, Desc: "The customer's name to look up their fraud case", Required: true},
			}),
		},
		{
			Name: ToolVerifyCustomerIdentity,
			Desc: "Verify the customer's identity using their security answer.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"answer": {Type: schema.String, Desc: "The customer's answer to the security question", Required: true},
			}),
		},
		{
			Name: ToolRecordTransactionConfirmation,
			Desc: "Record whether the customer confirms they made the transaction.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"customer_made_transaction": {Type: schema.Boolean, Desc: "True if customer confirms they made the transaction, False if they deny it", Required: true},
			}),
		},
		{
			Name: ToolGetCaseStatus,
			Desc: "Get the current status of the fraud case.",
		},
		{
			Name: ToolEndFraudCall,
			Desc: "End the fraud alert call with a professional closing.",
		},
	}
}

func (a *Agent) Execute(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
	switch tool {
	case ToolLoadFraudCaseByUsername:
		return a.loadCase(ctx, toolx.StringArg(args, "user_name"))
	case ToolVerifyCustomerIdentity:
		return a.verifyIdentity(ctx, toolx.StringArg(args, "answer"))
	case ToolRecordTransactionConfirmation:
		return a.recordConfirmation(ctx, toolx.BoolArg(args, "customer_made_transaction", false))
	case ToolGetCaseStatus:
		return a.caseStatus(), nil
	case ToolEndFraudCall:
		return a.endCall(), nil
	default:
		return a.fallback(ctx, tool, args)
	}
}

func (a *Agent) loadCase(ctx context.Context, userName string) (contractx.ToolResult, error) {
	var found *Case
	for _, c := range a.cases.Entries() {
		if strings.EqualFold(c.UserName, userName) {
			matched := c
			found = &matched
			break
		}
	}
	if found == nil {
		return reply(ToolLoadFraudCaseByUsername, fmt.Sprintf("I'm sorry, I don't have a fraud case on file for %s. Could you please verify your name?", userName)), nil
	}

	a.current = *found
	if a.current.Status == "" {
		a.current.Status = StatusPendingReview
	}
	a.loaded = true
	a.verified = false

	a.logger.Info().Str("user", a.current.UserName).Msg("fraud case loaded")
	a.emitCase(ctx)

	return reply(ToolLoadFraudCaseByUsername, fmt.Sprintf("Thank you, %s. I have your case pulled up. For security purposes, I need to verify your identity before we proceed. %s", userName, a.current.SecurityQuestion)), nil
}

// verifyIdentity compares the spoken answer against the stored one.
// A failed attempt is persisted immediately; the case stays loaded, so
// a later correct answer can still pass. That looseness matches the
// deployed call flow.
func (a *Agent) verifyIdentity(ctx context.Context, answer string) (contractx.ToolResult, error) {
	if !a.loaded {
		return reply(ToolVerifyCustomerIdentity, "I need to load your fraud case first. Can you please provide your name?"), nil
	}

	if strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(a.current.SecurityAnswer)) {
		a.verified = true
		a.logger.Info().Str("user", a.current.UserName).Msg("identity verification passed")
		a.emitCase(ctx)

		return reply(ToolVerifyCustomerIdentity, fmt.Sprintf("Thank you for verifying your identity. Now, let me tell you about the suspicious transaction we detected. On %s, we noticed a charge of %s to %s from %s. The transaction was made through %s for %s. Did you make this purchase?",
			a.current.TransactionTime, a.current.TransactionAmount, a.current.TransactionName,
			a.current.TransactionLocation, a.current.TransactionSource, a.current.TransactionCategory)), nil
	}

	a.verified = false
	a.current.Status = StatusVerificationFailed
	a.current.Outcome = "Customer failed identity verification. Advised to contact bank directly."
	a.logger.Warn().Str("user", a.current.UserName).Msg("identity verification failed")

	a.persistCase()
	a.emitCase(ctx)

	return reply(ToolVerifyCustomerIdentity, "I'm sorry, but that answer doesn't match our records. For your security, I cannot proceed with this call. Please contact SecureBank directly at 1-800-SECURE-BANK or visit your nearest branch with a valid ID. Your account security is our top priority."), nil
}

func (a *Agent) recordConfirmation(ctx context.Context, madeTransaction bool) (contractx.ToolResult, error) {
	if !a.verified {
		return reply(ToolRecordTransactionConfirmation, "I need to verify your identity first before we can discuss the transaction details."), nil
	}

	if madeTransaction {
		a.current.Status = StatusConfirmedSafe
		a.current.Outcome = "Customer confirmed the transaction as legitimate. No action required."
		a.logger.Info().Str("user", a.current.UserName).Msg("transaction confirmed safe")

		a.persistCase()
		a.emitCase(ctx)

		return reply(ToolRecordTransactionConfirmation, fmt.Sprintf("Excellent! Thank you for confirming that you made this purchase. I've marked this transaction as legitimate in our system, and no further action is needed. Your card ending in %s remains active and secure. Is there anything else I can help you with today?", a.current.CardEnding)), nil
	}

	a.current.Status = StatusConfirmedFraud
	a.current.Outcome = "Customer denied making the transaction. Card blocked, dispute initiated, new card being issued."
	a.logger.Info().Str("user", a.current.UserName).Msg("transaction confirmed fraudulent")

	a.persistCase()
	a.emitCase(ctx)

	return reply(ToolRecordTransactionConfirmation, fmt.Sprintf("I understand, and I'm sorry this happened to you. For your protection, I'm taking immediate action. I've blocked your card ending in %s to prevent any further unauthorized charges. We're initiating a dispute for the %s charge, and you should see that amount credited back to your account within 5-7 business days. A new card will be sent to your address on file within 3-5 business days. You will not be held responsible for this fraudulent charge. Is there anything else you'd like me to clarify?",
		a.current.CardEnding, a.current.TransactionAmount)), nil
}

func (a *Agent) caseStatus() contractx.ToolResult {
	if !a.loaded {
		return reply(ToolGetCaseStatus, "I don't have a fraud case loaded yet. Can you please provide your name so I can look up your case?")
	}

	switch a.current.Status {
	case StatusPendingReview:
		return reply(ToolGetCaseStatus, "Your case is currently under review. We detected a suspicious transaction and need to verify it with you.")
	case StatusVerificationFailed:
		return reply(ToolGetCaseStatus, "Identity verification was not successful. Please contact the bank directly.")
	case StatusConfirmedSafe:
		return reply(ToolGetCaseStatus, "The transaction has been confirmed as legitimate. No action needed.")
	case StatusConfirmedFraud:
		return reply(ToolGetCaseStatus, "The transaction has been confirmed as fraudulent. Your card has been blocked and a new one is being issued.")
	default:
		return reply(ToolGetCaseStatus, "Case status unknown.")
	}
}

func (a *Agent) endCall() contractx.ToolResult {
	if !a.loaded {
		return reply(ToolEndFraudCall, "Thank you for your time. If you have any concerns about your account, please contact SecureBank at 1-800-SECURE-BANK. Have a great day!")
	}

	switch a.current.Status {
	case StatusConfirmedSafe:
		return reply(ToolEndFraudCall, fmt.Sprintf("Thank you for your time, %s. Your account is secure, and we'll continue monitoring for any suspicious activity. If you notice anything unusual in the future, please don't hesitate to contact us immediately. Have a wonderful day!", a.current.UserName))
	case StatusConfirmedFraud:
		return reply(ToolEndFraudCall, fmt.Sprintf("Thank you for your patience, %s. We've taken all necessary steps to protect your account. You'll receive email confirmation of these actions shortly. If you have any questions, our fraud department is available 24/7 at 1-800-SECURE-BANK. Stay safe!", a.current.UserName))
	case StatusVerificationFailed:
		return reply(ToolEndFraudCall, "For your security, please visit a SecureBank branch with valid identification or call our customer service line. Thank you for understanding. Goodbye.")
	default:
		return reply(ToolEndFraudCall, fmt.Sprintf("Thank you for your time, %s. If you have any questions, please contact us at 1-800-SECURE-BANK. Have a great day!", a.current.UserName))
	}
}

func (a *Agent) persistCase() {
	err := a.cases.UpdateWhere(
		func(c Case) bool { return strings.EqualFold(c.UserName, a.current.UserName) },
		func(c *Case) {
			c.Status = a.current.Status
			c.Outcome = a.current.Outcome
		},
	)
	if err != nil && !errors.Is(err, store.ErrNoMatch) {
		a.logger.Error().Err(err).Str("user", a.current.UserName).Msg("persist fraud case")
	}
}

func (a *Agent) emitCase(ctx context.Context) {
	a.emitter.Emit(ctx, "fraud_update", a.current)
}

func reply(tool, text string) contractx.ToolResult {
	return contractx.ToolResult{Tool: tool, Reply: text}
}
