package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentProposal is an AI-generated payment record awaiting human
// confirmation. Amounts travel as strings so the model cannot emit float
// noise; Validate parses them with decimal.
type PaymentProposal struct {
	DealerCode  string  `json:"dealer_code" jsonschema_description:"The exact dealer code from the provided dealer list"`
	Amount      string  `json:"amount" jsonschema_description:"The payment amount as a positive decimal string, e.g. '1500.00'"`
	Method      string  `json:"method" jsonschema_description:"One of: cash, bank_transfer, credit_card, check, other"`
	PaymentDate string  `json:"payment_date" jsonschema_description:"The date the money was received, YYYY-MM-DD. Use today's date if unspecified."`
	Description string  `json:"description" jsonschema_description:"Free-text reference for the payment"`
	Confidence  float64 `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning   string  `json:"reasoning" jsonschema_description:"Explanation for the proposed payment record"`
}

// ClarificationRequest is returned by the AI when the input is ambiguous or
// missing critical information.
type ClarificationRequest struct {
	Message string `json:"message" jsonschema_description:"A message asking the user for missing details (e.g. 'Which dealer paid, and how much?')."`
}

// AgentResponse wraps the AI output to handle branching between a valid
// PaymentProposal and a ClarificationRequest. Exactly one is set.
type AgentResponse struct {
	IsClarificationRequest bool                  `json:"is_clarification_request" jsonschema_description:"Set to true ONLY if you lack enough information to propose a payment record."`
	Clarification          *ClarificationRequest `json:"clarification,omitempty" jsonschema_description:"Required if is_clarification_request is true."`
	Proposal               *PaymentProposal      `json:"proposal,omitempty" jsonschema_description:"Required if is_clarification_request is false."`
}

var paymentMethods = map[string]bool{
	PaymentMethodCash:         true,
	PaymentMethodBankTransfer: true,
	PaymentMethodCreditCard:   true,
	PaymentMethodCheck:        true,
	PaymentMethodOther:        true,
}

// Normalize cleans up model output: trims whitespace, canonicalizes the
// method spelling, and fills an empty date with today.
func (p *PaymentProposal) Normalize() {
	p.DealerCode = strings.ToUpper(strings.TrimSpace(p.DealerCode))
	p.Amount = strings.TrimSpace(p.Amount)
	p.Description = strings.TrimSpace(p.Description)
	p.PaymentDate = strings.TrimSpace(p.PaymentDate)

	method := strings.ToLower(strings.TrimSpace(p.Method))
	method = strings.ReplaceAll(method, " ", "_")
	method = strings.ReplaceAll(method, "-", "_")
	switch method {
	case "wire", "transfer", "bank", "eft":
		method = PaymentMethodBankTransfer
	case "card", "credit", "visa", "mastercard":
		method = PaymentMethodCreditCard
	case "cheque":
		method = PaymentMethodCheck
	}
	p.Method = method

	if p.PaymentDate == "" {
		p.PaymentDate = time.Now().Format("2006-01-02")
	}
	if strings.ToLower(p.Amount) == "null" {
		p.Amount = ""
	}
}

// Validate enforces that the proposal can be recorded as-is.
func (p *PaymentProposal) Validate() error {
	if p.DealerCode == "" {
		return errors.New("proposal must specify a dealer code")
	}
	amt, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %v", p.Amount, err)
	}
	if !amt.IsPositive() {
		return fmt.Errorf("amount must be > 0, got %s", p.Amount)
	}
	if !paymentMethods[p.Method] {
		return fmt.Errorf("unknown payment method %q", p.Method)
	}
	if _, err := time.Parse("2006-01-02", p.PaymentDate); err != nil {
		return fmt.Errorf("invalid payment date format: %w", err)
	}
	return nil
}
