package app

import "github.com/orhanozan33/baharat-sub000/internal/core"

// DealerResult is returned by single-dealer operations.
type DealerResult struct {
	Dealer *core.Dealer `json:"dealer"`
}

// DealerListResult is returned by ListDealers.
type DealerListResult struct {
	Dealers []core.Dealer `json:"dealers"`
}

// StatementResult is returned by GetDealerStatement.
type StatementResult struct {
	DealerCode string               `json:"dealer_code"`
	Lines      []core.StatementLine `json:"lines"`
}

// CategoryListResult is returned by ListCategories.
type CategoryListResult struct {
	Categories []core.Category `json:"categories"`
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product `json:"products"`
}

// OrderResult is returned by order operations.
type OrderResult struct {
	Order *core.Order `json:"order"`
}

// OrderListResult is returned by ListOrders.
type OrderListResult struct {
	Orders []core.Order `json:"orders"`
}

// PaymentResult is returned by payment operations.
type PaymentResult struct {
	Payment *core.Payment `json:"payment"`
}

// CheckResult is returned by check operations.
type CheckResult struct {
	Check *core.Check `json:"check"`
}

// PaymentListResult is returned by ListDealerPayments.
type PaymentListResult struct {
	Payments []core.Payment `json:"payments"`
}

// CheckListResult is returned by ListDealerChecks.
type CheckListResult struct {
	Checks []core.Check `json:"checks"`
}

// BalancesResult is returned by GetDealerBalances.
type BalancesResult struct {
	Balances []core.DealerBalance `json:"balances"`
}

// AIResult is returned by InterpretPayment.
type AIResult struct {
	Proposal             *core.PaymentProposal `json:"proposal,omitempty"`
	ClarificationMessage string                `json:"clarification_message,omitempty"`
	IsClarification      bool                  `json:"is_clarification"`
}
