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

// RecordCheckInput carries the fields of a check being recorded.
type RecordCheckInput struct {
	DealerCode  string          `json:"dealer_code"`
	Amount      decimal.Decimal `json:"amount"`
	CheckNumber string          `json:"check_number"`
	BankName    string          `json:"bank_name"`
	IssueDate   time.Time       `json:"issue_date"`
	DueDate     time.Time       `json:"due_date"`
	Notes       string          `json:"notes"`
}

// CheckService records post-dated checks and tracks their bank state.
// Amount and dates are immutable; status is the only mutable column, and
// only along ValidCheckTransitions. A check becomes ledger credit the
// moment its status reaches cleared, dated at its due date.
type CheckService interface {
	RecordCheck(ctx context.Context, input RecordCheckInput) (*Check, error)
	UpdateCheckStatus(ctx context.Context, checkID int, status string) (*Check, error)
	GetDealerChecks(ctx context.Context, dealerID int) ([]Check, error)
}

type checkService struct {
	pool *pgxpool.Pool
}

func NewCheckService(pool *pgxpool.Pool) CheckService {
	return &checkService{pool: pool}
}

const checkColumns = "id, dealer_id, amount, check_number, bank_name, issue_date, due_date, status, notes, created_at"

func scanCheck(row pgx.Row, c *Check) error {
	return row.Scan(&c.ID, &c.DealerID, &c.Amount, &c.CheckNumber, &c.BankName,
		&c.IssueDate, &c.DueDate, &c.Status, &c.Notes, &c.CreatedAt)
}

func (s *checkService) RecordCheck(ctx context.Context, input RecordCheckInput) (*Check, error) {
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("check amount must be > 0, got %s", input.Amount)
	}
	if input.DueDate.IsZero() {
		return nil, errors.New("check due date is required")
	}
	if input.IssueDate.IsZero() {
		input.IssueDate = time.Now()
	}

	var dealerID int
	err := s.pool.QueryRow(ctx, "SELECT id FROM dealers WHERE code = $1", input.DealerCode).Scan(&dealerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("dealer %s: %w", input.DealerCode, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve dealer %s: %w", input.DealerCode, err)
	}

	var c Check
	err = scanCheck(s.pool.QueryRow(ctx, `
		INSERT INTO checks (dealer_id, amount, check_number, bank_name, issue_date, due_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+checkColumns,
		dealerID, input.Amount, input.CheckNumber, input.BankName,
		input.IssueDate, input.DueDate, CheckStatusPending, input.Notes,
	), &c)
	if err != nil {
		return nil, fmt.Errorf("failed to record check: %w", err)
	}
	return &c, nil
}

func (s *checkService) UpdateCheckStatus(ctx context.Context, checkID int, status string) (*Check, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, "SELECT status FROM checks WHERE id = $1 FOR UPDATE", checkID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("check %d: %w", checkID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock check %d: %w", checkID, err)
	}

	allowed := false
	for _, next := range ValidCheckTransitions[current] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("invalid check status transition %s → %s for check %d", current, status, checkID)
	}

	var c Check
	err = scanCheck(tx.QueryRow(ctx,
		"UPDATE checks SET status = $2 WHERE id = $1 RETURNING "+checkColumns,
		checkID, status), &c)
	if err != nil {
		return nil, fmt.Errorf("failed to update check status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit check status update: %w", err)
	}
	return &c, nil
}

func (s *checkService) GetDealerChecks(ctx context.Context, dealerID int) ([]Check, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+checkColumns+`
		FROM checks
		WHERE dealer_id = $1
		ORDER BY due_date ASC, id ASC
	`, dealerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query checks: %w", err)
	}
	defer rows.Close()

	var checks []Check
	for rows.Next() {
		var c Check
		if err := scanCheck(rows, &c); err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		checks = append(checks, c)
	}
	return checks, rows.Err()
}
