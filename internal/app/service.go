package app

import (
	"context"

	"github.com/orhanozan33/baharat-sub000/internal/core"
)

// ApplicationService is the single interface all UI adapters (CLI, Web)
// call. It decouples presentation from business logic. Implementations must
// contain no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ── Dealers ──────────────────────────────────────────────────────────────

	// CreateDealer registers a new dealer account.
	CreateDealer(ctx context.Context, input core.CreateDealerInput) (*DealerResult, error)

	// GetDealer returns one dealer by code.
	GetDealer(ctx context.Context, code string) (*DealerResult, error)

	// ListDealers returns dealers ordered by code.
	ListDealers(ctx context.Context, activeOnly bool) (*DealerListResult, error)

	// UpdateDealer replaces a dealer's mutable fields.
	UpdateDealer(ctx context.Context, code string, input core.CreateDealerInput, isActive bool) (*DealerResult, error)

	// GetDealerSummary reconciles the dealer's full ledger: per-order paid
	// state plus debt/received/balance aggregates. Served from the summary
	// cache when one is configured and fresh.
	GetDealerSummary(ctx context.Context, code string) (*core.AccountSummary, error)

	// GetDealerStatement returns the dealer's chronological statement with
	// running balance.
	GetDealerStatement(ctx context.Context, code string) (*StatementResult, error)

	// ── Catalog ──────────────────────────────────────────────────────────────

	ListCategories(ctx context.Context) (*CategoryListResult, error)
	CreateCategory(ctx context.Context, name string) (*core.Category, error)
	ListProducts(ctx context.Context, activeOnly bool) (*ProductListResult, error)
	CreateProduct(ctx context.Context, input core.CreateProductInput) (*core.Product, error)

	// ── Orders ───────────────────────────────────────────────────────────────

	// CreateOrder creates a pending order: a storefront checkout when the
	// request has no dealer code, an admin dealer sale when it does.
	CreateOrder(ctx context.Context, input core.CreateOrderInput) (*OrderResult, error)

	GetOrder(ctx context.Context, orderID int) (*OrderResult, error)
	ListOrders(ctx context.Context, status *string) (*OrderListResult, error)

	// UpdateOrderStatus moves an order along its lifecycle; invalid
	// transitions are rejected.
	UpdateOrderStatus(ctx context.Context, orderID int, status string) (*OrderResult, error)

	// PurgeOrder hard-deletes an order. Administrative only.
	PurgeOrder(ctx context.Context, orderID int) error

	// ── Payments & checks ────────────────────────────────────────────────────

	RecordPayment(ctx context.Context, input core.RecordPaymentInput) (*PaymentResult, error)
	RecordCheck(ctx context.Context, input core.RecordCheckInput) (*CheckResult, error)
	UpdateCheckStatus(ctx context.Context, checkID int, status string) (*CheckResult, error)

	// ListDealerPayments returns a dealer's payments in ledger order.
	ListDealerPayments(ctx context.Context, dealerCode string) (*PaymentListResult, error)

	// ListDealerChecks returns a dealer's checks, all statuses included.
	ListDealerChecks(ctx context.Context, dealerCode string) (*CheckListResult, error)

	// ── Reports ──────────────────────────────────────────────────────────────

	// GetSalesReport returns trailing 7-day and 30-day sales totals.
	GetSalesReport(ctx context.Context) (*core.SalesReport, error)

	// GetDealerBalances returns the balance overview for all active dealers.
	GetDealerBalances(ctx context.Context) (*BalancesResult, error)

	// ── AI ───────────────────────────────────────────────────────────────────

	// InterpretPayment sends a natural-language payment note to the AI
	// agent and returns either a PaymentProposal or a clarification
	// request. Nothing is recorded by this call.
	InterpretPayment(ctx context.Context, text string) (*AIResult, error)

	// ConfirmPaymentProposal records a previously proposed payment. Must
	// only be called after explicit user approval.
	ConfirmPaymentProposal(ctx context.Context, proposal core.PaymentProposal) (*PaymentResult, error)
}
