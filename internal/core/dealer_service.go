package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a referenced entity does not exist. Wrapped
// with context via fmt.Errorf; check with errors.Is.
var ErrNotFound = errors.New("not found")

// SettledOrder pairs an order with its derived payment state.
type SettledOrder struct {
	Order
	PaidAmount decimal.Decimal `json:"paid_amount"`
	IsPaid     bool            `json:"is_paid"`
}

// AccountSummary is the full ledger view of one dealer: every order with
// its derived paid state, the raw credit records, and the aggregates.
type AccountSummary struct {
	Dealer        Dealer          `json:"dealer"`
	Orders        []SettledOrder  `json:"orders"`
	Payments      []Payment       `json:"payments"`
	Checks        []Check         `json:"checks"`
	TotalDebt     decimal.Decimal `json:"total_debt"`
	TotalReceived decimal.Decimal `json:"total_received"`
	Balance       decimal.Decimal `json:"balance"`
	UnpaidAmount  decimal.Decimal `json:"unpaid_amount"`
	WeeklySales   decimal.Decimal `json:"weekly_sales"`
	MonthlySales  decimal.Decimal `json:"monthly_sales"`
}

// CreateDealerInput carries the fields of a new dealer record.
type CreateDealerInput struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	ContactName string          `json:"contact_name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

// DealerService manages dealer master data and derives per-dealer ledger
// views. The ledger itself is never persisted: GetAccountSummary re-runs
// Reconcile over the raw entity lists on every call.
type DealerService interface {
	CreateDealer(ctx context.Context, input CreateDealerInput) (*Dealer, error)
	GetDealer(ctx context.Context, code string) (*Dealer, error)
	GetDealers(ctx context.Context, activeOnly bool) ([]Dealer, error)
	UpdateDealer(ctx context.Context, code string, input CreateDealerInput, isActive bool) (*Dealer, error)

	// GetAccountSummary loads the dealer's orders, payments, and checks and
	// reconciles them as of now. Collaborating services are method
	// arguments so callers can compose without constructor cycles.
	GetAccountSummary(ctx context.Context, code string, orders OrderService, payments PaymentService, checks CheckService) (*AccountSummary, error)
}

type dealerService struct {
	pool          *pgxpool.Pool
	reconcileOpts []ReconcileOption
}

// NewDealerService constructs a DealerService. reconcileOpts fix the
// ledger policy (e.g. SkipCancelled) for every summary this service
// produces.
func NewDealerService(pool *pgxpool.Pool, reconcileOpts ...ReconcileOption) DealerService {
	return &dealerService{pool: pool, reconcileOpts: reconcileOpts}
}

const dealerColumns = "id, code, name, contact_name, email, phone, address, discount_pct, is_active, created_at"

func scanDealer(row pgx.Row, d *Dealer) error {
	return row.Scan(&d.ID, &d.Code, &d.Name, &d.ContactName, &d.Email, &d.Phone,
		&d.Address, &d.DiscountPct, &d.IsActive, &d.CreatedAt)
}

func (s *dealerService) CreateDealer(ctx context.Context, input CreateDealerInput) (*Dealer, error) {
	if input.Code == "" {
		return nil, errors.New("dealer code is required")
	}
	if input.DiscountPct.IsNegative() || input.DiscountPct.GreaterThan(oneHundred) {
		return nil, fmt.Errorf("%w: dealer discount %s%% outside [0,100]", ErrInvalidPercentage, input.DiscountPct)
	}

	var d Dealer
	err := scanDealer(s.pool.QueryRow(ctx, `
		INSERT INTO dealers (code, name, contact_name, email, phone, address, discount_pct)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+dealerColumns,
		input.Code, input.Name, input.ContactName, input.Email, input.Phone, input.Address, input.DiscountPct,
	), &d)
	if err != nil {
		return nil, fmt.Errorf("failed to create dealer: %w", err)
	}
	return &d, nil
}

func (s *dealerService) GetDealer(ctx context.Context, code string) (*Dealer, error) {
	var d Dealer
	err := scanDealer(s.pool.QueryRow(ctx,
		"SELECT "+dealerColumns+" FROM dealers WHERE code = $1", code), &d)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("dealer %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch dealer %s: %w", code, err)
	}
	return &d, nil
}

func (s *dealerService) GetDealers(ctx context.Context, activeOnly bool) ([]Dealer, error) {
	query := "SELECT " + dealerColumns + " FROM dealers"
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY code"

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dealers: %w", err)
	}
	defer rows.Close()

	var dealers []Dealer
	for rows.Next() {
		var d Dealer
		if err := scanDealer(rows, &d); err != nil {
			return nil, fmt.Errorf("failed to scan dealer: %w", err)
		}
		dealers = append(dealers, d)
	}
	return dealers, rows.Err()
}

func (s *dealerService) UpdateDealer(ctx context.Context, code string, input CreateDealerInput, isActive bool) (*Dealer, error) {
	if input.DiscountPct.IsNegative() || input.DiscountPct.GreaterThan(oneHundred) {
		return nil, fmt.Errorf("%w: dealer discount %s%% outside [0,100]", ErrInvalidPercentage, input.DiscountPct)
	}

	var d Dealer
	err := scanDealer(s.pool.QueryRow(ctx, `
		UPDATE dealers
		SET name = $2, contact_name = $3, email = $4, phone = $5, address = $6,
		    discount_pct = $7, is_active = $8
		WHERE code = $1
		RETURNING `+dealerColumns,
		code, input.Name, input.ContactName, input.Email, input.Phone, input.Address,
		input.DiscountPct, isActive,
	), &d)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("dealer %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update dealer %s: %w", code, err)
	}
	return &d, nil
}

func (s *dealerService) GetAccountSummary(ctx context.Context, code string, orders OrderService, payments PaymentService, checks CheckService) (*AccountSummary, error) {
	dealer, err := s.GetDealer(ctx, code)
	if err != nil {
		return nil, err
	}

	dealerOrders, err := orders.GetDealerOrders(ctx, dealer.ID)
	if err != nil {
		return nil, err
	}
	dealerPayments, err := payments.GetDealerPayments(ctx, dealer.ID)
	if err != nil {
		return nil, err
	}
	dealerChecks, err := checks.GetDealerChecks(ctx, dealer.ID)
	if err != nil {
		return nil, err
	}

	view := Reconcile(dealerOrders, dealerPayments, dealerChecks, time.Now(), s.reconcileOpts...)

	settled := make([]SettledOrder, 0, len(dealerOrders))
	for _, o := range dealerOrders {
		st := view.PerOrder[o.ID]
		settled = append(settled, SettledOrder{Order: o, PaidAmount: st.PaidAmount, IsPaid: st.IsPaid})
	}

	return &AccountSummary{
		Dealer:        *dealer,
		Orders:        settled,
		Payments:      dealerPayments,
		Checks:        dealerChecks,
		TotalDebt:     view.TotalDebt,
		TotalReceived: view.TotalReceived,
		Balance:       view.Balance,
		UnpaidAmount:  view.UnpaidAmount,
		WeeklySales:   view.WeeklySales,
		MonthlySales:  view.MonthlySales,
	}, nil
}
