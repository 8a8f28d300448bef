package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// StatementLine is one row of a dealer statement: an order (debit) or a
// credit event (payment or cleared check). RunningBalance is cumulative
// debits minus credits after this line (positive = dealer owes).
type StatementLine struct {
	Date           time.Time       `json:"date"`
	Kind           string          `json:"kind"` // "order", "payment", "check"
	Reference      string          `json:"reference"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// DealerBalance is one row of the all-dealer overview.
type DealerBalance struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	TotalDebt     decimal.Decimal `json:"total_debt"`
	TotalReceived decimal.Decimal `json:"total_received"`
	Balance       decimal.Decimal `json:"balance"`
}

// SalesReport carries the trailing-window sales figures over all orders,
// dealer and guest alike, regardless of paid state.
type SalesReport struct {
	AsOf         time.Time       `json:"as_of"`
	WeeklySales  decimal.Decimal `json:"weekly_sales"`
	WeeklyCount  int             `json:"weekly_count"`
	MonthlySales decimal.Decimal `json:"monthly_sales"`
	MonthlyCount int             `json:"monthly_count"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only reporting over orders and credits.
type ReportingService interface {
	// GetDealerStatement returns the dealer's debits and credits merged
	// chronologically with a running balance, oldest first. The credit
	// timeline is the same one the allocation engine consumes: payments at
	// payment date, cleared checks at due date.
	GetDealerStatement(ctx context.Context, code string, orders OrderService, payments PaymentService, checks CheckService) ([]StatementLine, error)

	// GetDealerBalances returns the balance overview for every active
	// dealer, ordered by code.
	GetDealerBalances(ctx context.Context) ([]DealerBalance, error)

	// GetSalesReport returns trailing 7-day and 30-day sales totals as of now.
	GetSalesReport(ctx context.Context, now time.Time) (*SalesReport, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	pool *pgxpool.Pool
}

func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) GetDealerStatement(ctx context.Context, code string, orders OrderService, payments PaymentService, checks CheckService) ([]StatementLine, error) {
	var dealerID int
	err := s.pool.QueryRow(ctx, "SELECT id FROM dealers WHERE code = $1", code).Scan(&dealerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("dealer %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve dealer %s: %w", code, err)
	}

	dealerOrders, err := orders.GetDealerOrders(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	dealerPayments, err := payments.GetDealerPayments(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	dealerChecks, err := checks.GetDealerChecks(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	lines := make([]StatementLine, 0, len(dealerOrders)+len(dealerPayments)+len(dealerChecks))
	for _, o := range dealerOrders {
		if o.Status == OrderStatusCancelled {
			continue
		}
		lines = append(lines, StatementLine{
			Date:      o.CreatedAt,
			Kind:      "order",
			Reference: fmt.Sprintf("order #%d", o.ID),
			Debit:     clampAmount(o.Total),
			Credit:    decimal.Zero,
		})
	}
	for _, p := range dealerPayments {
		lines = append(lines, StatementLine{
			Date:      p.PaymentDate,
			Kind:      "payment",
			Reference: p.Method,
			Debit:     decimal.Zero,
			Credit:    clampAmount(p.Amount),
		})
	}
	for _, c := range dealerChecks {
		if c.Status != CheckStatusCleared {
			continue
		}
		ref := "check"
		if c.CheckNumber != "" {
			ref = "check " + c.CheckNumber
		}
		lines = append(lines, StatementLine{
			Date:      c.DueDate,
			Kind:      "check",
			Reference: ref,
			Debit:     decimal.Zero,
			Credit:    clampAmount(c.Amount),
		})
	}

	// Stable: same-date lines keep debit-before-credit, then input order,
	// matching the merger's tie policy.
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Date.Before(lines[j].Date)
	})

	running := decimal.Zero
	for i := range lines {
		running = running.Add(lines[i].Debit).Sub(lines[i].Credit)
		lines[i].RunningBalance = running
	}
	return lines, nil
}

func (s *reportingService) GetDealerBalances(ctx context.Context) ([]DealerBalance, error) {
	// SQL twin of the aggregator: open-order totals minus payments and
	// cleared checks, per dealer. Kept in one query so the overview page
	// does not reconcile every dealer's full history.
	rows, err := s.pool.Query(ctx, `
		SELECT d.code, d.name,
		       COALESCE((SELECT SUM(o.total) FROM orders o
		                 WHERE o.dealer_id = d.id
		                   AND o.status IN ('pending', 'confirmed', 'processing')), 0) AS total_debt,
		       COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.dealer_id = d.id), 0)
		       + COALESCE((SELECT SUM(c.amount) FROM checks c
		                   WHERE c.dealer_id = d.id AND c.status = 'cleared'), 0) AS total_received
		FROM dealers d
		WHERE d.is_active
		ORDER BY d.code
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query dealer balances: %w", err)
	}
	defer rows.Close()

	var balances []DealerBalance
	for rows.Next() {
		var b DealerBalance
		if err := rows.Scan(&b.Code, &b.Name, &b.TotalDebt, &b.TotalReceived); err != nil {
			return nil, fmt.Errorf("failed to scan dealer balance: %w", err)
		}
		b.Balance = b.TotalDebt.Sub(b.TotalReceived)
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (s *reportingService) GetSalesReport(ctx context.Context, now time.Time) (*SalesReport, error) {
	report := &SalesReport{AsOf: now}
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total) FILTER (WHERE created_at > $1 - INTERVAL '7 days'), 0),
		       COUNT(*) FILTER (WHERE created_at > $1 - INTERVAL '7 days'),
		       COALESCE(SUM(total) FILTER (WHERE created_at > $1 - INTERVAL '30 days'), 0),
		       COUNT(*) FILTER (WHERE created_at > $1 - INTERVAL '30 days')
		FROM orders
		WHERE created_at <= $1
	`, now).Scan(&report.WeeklySales, &report.WeeklyCount, &report.MonthlySales, &report.MonthlyCount)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales report: %w", err)
	}
	return report, nil
}
