package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/orhanozan33/baharat-sub000/internal/ai"
	"github.com/orhanozan33/baharat-sub000/internal/core"
	"github.com/orhanozan33/baharat-sub000/internal/redisx"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type appService struct {
	pool      *pgxpool.Pool
	dealers   core.DealerService
	catalog   core.CatalogService
	orders    core.OrderService
	payments  core.PaymentService
	checks    core.CheckService
	reporting core.ReportingService
	agent     *ai.Agent
	cache     *redisx.SummaryCache // nil when REDIS_ADDR is unset
}

// NewAppService constructs an appService that satisfies ApplicationService.
// cache may be nil; every read then reconciles from the database.
func NewAppService(
	pool *pgxpool.Pool,
	dealers core.DealerService,
	catalog core.CatalogService,
	orders core.OrderService,
	payments core.PaymentService,
	checks core.CheckService,
	reporting core.ReportingService,
	agent *ai.Agent,
	cache *redisx.SummaryCache,
) ApplicationService {
	return &appService{
		pool:      pool,
		dealers:   dealers,
		catalog:   catalog,
		orders:    orders,
		payments:  payments,
		checks:    checks,
		reporting: reporting,
		agent:     agent,
		cache:     cache,
	}
}

// invalidateSummary drops the dealer's cached summary after a write that
// changes its ledger.
func (s *appService) invalidateSummary(ctx context.Context, dealerCode string) {
	if s.cache != nil && dealerCode != "" {
		s.cache.Invalidate(ctx, dealerCode)
	}
}

// ── Dealers ──────────────────────────────────────────────────────────────────

func (s *appService) CreateDealer(ctx context.Context, input core.CreateDealerInput) (*DealerResult, error) {
	dealer, err := s.dealers.CreateDealer(ctx, input)
	if err != nil {
		return nil, err
	}
	return &DealerResult{Dealer: dealer}, nil
}

func (s *appService) GetDealer(ctx context.Context, code string) (*DealerResult, error) {
	dealer, err := s.dealers.GetDealer(ctx, code)
	if err != nil {
		return nil, err
	}
	return &DealerResult{Dealer: dealer}, nil
}

func (s *appService) ListDealers(ctx context.Context, activeOnly bool) (*DealerListResult, error) {
	dealers, err := s.dealers.GetDealers(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return &DealerListResult{Dealers: dealers}, nil
}

func (s *appService) UpdateDealer(ctx context.Context, code string, input core.CreateDealerInput, isActive bool) (*DealerResult, error) {
	dealer, err := s.dealers.UpdateDealer(ctx, code, input, isActive)
	if err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, code)
	return &DealerResult{Dealer: dealer}, nil
}

func (s *appService) GetDealerSummary(ctx context.Context, code string) (*core.AccountSummary, error) {
	if s.cache != nil {
		var cached core.AccountSummary
		if s.cache.GetSummary(ctx, code, &cached) {
			return &cached, nil
		}
	}

	summary, err := s.dealers.GetAccountSummary(ctx, code, s.orders, s.payments, s.checks)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetSummary(ctx, code, summary)
	}
	return summary, nil
}

func (s *appService) GetDealerStatement(ctx context.Context, code string) (*StatementResult, error) {
	lines, err := s.reporting.GetDealerStatement(ctx, code, s.orders, s.payments, s.checks)
	if err != nil {
		return nil, err
	}
	return &StatementResult{DealerCode: code, Lines: lines}, nil
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func (s *appService) ListCategories(ctx context.Context) (*CategoryListResult, error) {
	categories, err := s.catalog.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	return &CategoryListResult{Categories: categories}, nil
}

func (s *appService) CreateCategory(ctx context.Context, name string) (*core.Category, error) {
	return s.catalog.CreateCategory(ctx, name)
}

func (s *appService) ListProducts(ctx context.Context, activeOnly bool) (*ProductListResult, error) {
	products, err := s.catalog.GetProducts(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) CreateProduct(ctx context.Context, input core.CreateProductInput) (*core.Product, error) {
	return s.catalog.CreateProduct(ctx, input)
}

// ── Orders ───────────────────────────────────────────────────────────────────

func (s *appService) CreateOrder(ctx context.Context, input core.CreateOrderInput) (*OrderResult, error) {
	order, err := s.orders.CreateOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, input.DealerCode)
	return &OrderResult{Order: order}, nil
}

func (s *appService) GetOrder(ctx context.Context, orderID int) (*OrderResult, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order}, nil
}

func (s *appService) ListOrders(ctx context.Context, status *string) (*OrderListResult, error) {
	orders, err := s.orders.GetOrders(ctx, status)
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Orders: orders}, nil
}

func (s *appService) UpdateOrderStatus(ctx context.Context, orderID int, status string) (*OrderResult, error) {
	order, err := s.orders.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, order.DealerCode)
	return &OrderResult{Order: order}, nil
}

func (s *appService) PurgeOrder(ctx context.Context, orderID int) error {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.orders.PurgeOrder(ctx, orderID); err != nil {
		return err
	}
	s.invalidateSummary(ctx, order.DealerCode)
	return nil
}

// ── Payments & checks ────────────────────────────────────────────────────────

func (s *appService) RecordPayment(ctx context.Context, input core.RecordPaymentInput) (*PaymentResult, error) {
	payment, err := s.payments.RecordPayment(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, input.DealerCode)
	return &PaymentResult{Payment: payment}, nil
}

func (s *appService) RecordCheck(ctx context.Context, input core.RecordCheckInput) (*CheckResult, error) {
	check, err := s.checks.RecordCheck(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, input.DealerCode)
	return &CheckResult{Check: check}, nil
}

func (s *appService) UpdateCheckStatus(ctx context.Context, checkID int, status string) (*CheckResult, error) {
	check, err := s.checks.UpdateCheckStatus(ctx, checkID, status)
	if err != nil {
		return nil, err
	}

	var dealerCode string
	if err := s.pool.QueryRow(ctx,
		"SELECT code FROM dealers WHERE id = $1", check.DealerID,
	).Scan(&dealerCode); err == nil {
		s.invalidateSummary(ctx, dealerCode)
	}
	return &CheckResult{Check: check}, nil
}

func (s *appService) ListDealerPayments(ctx context.Context, dealerCode string) (*PaymentListResult, error) {
	dealer, err := s.dealers.GetDealer(ctx, dealerCode)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.GetDealerPayments(ctx, dealer.ID)
	if err != nil {
		return nil, err
	}
	return &PaymentListResult{Payments: payments}, nil
}

func (s *appService) ListDealerChecks(ctx context.Context, dealerCode string) (*CheckListResult, error) {
	dealer, err := s.dealers.GetDealer(ctx, dealerCode)
	if err != nil {
		return nil, err
	}
	checks, err := s.checks.GetDealerChecks(ctx, dealer.ID)
	if err != nil {
		return nil, err
	}
	return &CheckListResult{Checks: checks}, nil
}

// ── Reports ──────────────────────────────────────────────────────────────────

func (s *appService) GetSalesReport(ctx context.Context) (*core.SalesReport, error) {
	return s.reporting.GetSalesReport(ctx, time.Now())
}

func (s *appService) GetDealerBalances(ctx context.Context) (*BalancesResult, error) {
	balances, err := s.reporting.GetDealerBalances(ctx)
	if err != nil {
		return nil, err
	}
	return &BalancesResult{Balances: balances}, nil
}

// ── AI ───────────────────────────────────────────────────────────────────────

func (s *appService) InterpretPayment(ctx context.Context, text string) (*AIResult, error) {
	dealers, err := s.dealers.GetDealers(ctx, true)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, d := range dealers {
		fmt.Fprintf(&b, "%s — %s\n", d.Code, d.Name)
	}

	response, err := s.agent.InterpretPayment(ctx, text, b.String(), time.Now().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	if response.IsClarificationRequest {
		return &AIResult{
			IsClarification:      true,
			ClarificationMessage: response.Clarification.Message,
		}, nil
	}
	return &AIResult{Proposal: response.Proposal}, nil
}

func (s *appService) ConfirmPaymentProposal(ctx context.Context, proposal core.PaymentProposal) (*PaymentResult, error) {
	proposal.Normalize()
	if err := proposal.Validate(); err != nil {
		return nil, fmt.Errorf("proposal validation failed: %w", err)
	}

	amount, err := decimal.NewFromString(proposal.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid proposal amount %q: %w", proposal.Amount, err)
	}
	paymentDate, err := time.Parse("2006-01-02", proposal.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("invalid proposal date %q: %w", proposal.PaymentDate, err)
	}

	return s.RecordPayment(ctx, core.RecordPaymentInput{
		DealerCode:  proposal.DealerCode,
		Amount:      amount,
		Method:      proposal.Method,
		PaymentDate: paymentDate,
		Description: proposal.Description,
	})
}
