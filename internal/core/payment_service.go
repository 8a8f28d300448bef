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

// RecordPaymentInput carries the fields of a payment being recorded.
type RecordPaymentInput struct {
	DealerCode  string          `json:"dealer_code"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	PaymentDate time.Time       `json:"payment_date"`
	Description string          `json:"description"`
}

// PaymentService records money received from dealers. Payments are
// immutable once created: there is no update or delete, a mistaken entry
// is corrected by recording a compensating one.
type PaymentService interface {
	RecordPayment(ctx context.Context, input RecordPaymentInput) (*Payment, error)
	GetDealerPayments(ctx context.Context, dealerID int) ([]Payment, error)
}

type paymentService struct {
	pool *pgxpool.Pool
}

func NewPaymentService(pool *pgxpool.Pool) PaymentService {
	return &paymentService{pool: pool}
}

func (s *paymentService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be > 0, got %s", input.Amount)
	}
	if !paymentMethods[input.Method] {
		return nil, fmt.Errorf("unknown payment method %q", input.Method)
	}
	if input.PaymentDate.IsZero() {
		input.PaymentDate = time.Now()
	}

	var dealerID int
	err := s.pool.QueryRow(ctx, "SELECT id FROM dealers WHERE code = $1", input.DealerCode).Scan(&dealerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("dealer %s: %w", input.DealerCode, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve dealer %s: %w", input.DealerCode, err)
	}

	var p Payment
	err = s.pool.QueryRow(ctx, `
		INSERT INTO payments (dealer_id, amount, method, payment_date, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, dealer_id, amount, method, payment_date, description, created_at
	`, dealerID, input.Amount, input.Method, input.PaymentDate, input.Description).Scan(
		&p.ID, &p.DealerID, &p.Amount, &p.Method, &p.PaymentDate, &p.Description, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	return &p, nil
}

func (s *paymentService) GetDealerPayments(ctx context.Context, dealerID int) ([]Payment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, dealer_id, amount, method, payment_date, description, created_at
		FROM payments
		WHERE dealer_id = $1
		ORDER BY payment_date ASC, id ASC
	`, dealerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.DealerID, &p.Amount, &p.Method, &p.PaymentDate,
			&p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
