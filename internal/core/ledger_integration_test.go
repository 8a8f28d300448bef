package core_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/orhanozan33/baharat-sub000/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE order_items, orders, payments, checks, products, categories, dealers CASCADE;

		INSERT INTO dealers (id, code, name, contact_name, discount_pct) VALUES
		(1, 'ACME', 'Acme Trading', 'John Doe', 10);
		SELECT setval('dealers_id_seq', 1);

		INSERT INTO products (id, code, name, unit_price, unit, origin, heat_level) VALUES
		(1, 'TUR-001', 'Ground Turmeric', 18.00, 'kg', 'India', 0),
		(2, 'CHI-HOT', 'Hot Chili Flakes', 24.50, 'kg', 'Turkey', 4);
		SELECT setval('products_id_seq', 2);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func TestDealerLedger_EndToEnd(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	taxes := []core.TaxLine{{Name: "GST", Rate: dec("5")}, {Name: "PST", Rate: dec("8")}}
	orderService := core.NewOrderService(pool, "CAD", taxes)
	paymentService := core.NewPaymentService(pool)
	checkService := core.NewCheckService(pool)
	dealerService := core.NewDealerService(pool)

	// Dealer sale: 2 kg turmeric at catalog price with the dealer's 10%
	// discount and GST+PST. 36 − 3.60 = 32.40 base; +1.62 +2.59 = 36.61.
	zero := decimal.Zero
	order, err := orderService.CreateOrder(ctx, core.CreateOrderInput{
		DealerCode: "ACME",
		Items:      []core.OrderItemInput{{ProductCode: "TUR-001", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !order.Total.Equal(dec("36.61")) {
		t.Errorf("order total = %s, want 36.61", order.Total)
	}
	if order.Status != core.OrderStatusPending {
		t.Errorf("new order status = %s, want pending", order.Status)
	}

	// Guest checkout carries no dealer and no dealer discount.
	guest, err := orderService.CreateOrder(ctx, core.CreateOrderInput{
		Items:       []core.OrderItemInput{{ProductCode: "CHI-HOT", Quantity: 1}},
		DiscountPct: &zero,
	})
	if err != nil {
		t.Fatalf("CreateOrder (guest): %v", err)
	}
	if guest.DealerID != nil {
		t.Errorf("guest order has dealer ID %v", *guest.DealerID)
	}

	// Partial payment, then a check that clears.
	if _, err := paymentService.RecordPayment(ctx, core.RecordPaymentInput{
		DealerCode:  "ACME",
		Amount:      dec("20.00"),
		Method:      core.PaymentMethodCash,
		PaymentDate: time.Now(),
	}); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	chk, err := checkService.RecordCheck(ctx, core.RecordCheckInput{
		DealerCode: "ACME",
		Amount:     dec("16.61"),
		DueDate:    time.Now(),
	})
	if err != nil {
		t.Fatalf("RecordCheck: %v", err)
	}

	// A pending check is not credit yet.
	summary, err := dealerService.GetAccountSummary(ctx, "ACME", orderService, paymentService, checkService)
	if err != nil {
		t.Fatalf("GetAccountSummary: %v", err)
	}
	if !summary.TotalReceived.Equal(dec("20.00")) {
		t.Errorf("totalReceived with pending check = %s, want 20.00", summary.TotalReceived)
	}
	if summary.Orders[0].IsPaid {
		t.Errorf("order should not be paid with 20.00 of 36.61 received")
	}
	if !summary.Orders[0].PaidAmount.Equal(dec("20.00")) {
		t.Errorf("order paidAmount = %s, want 20.00", summary.Orders[0].PaidAmount)
	}

	if _, err := checkService.UpdateCheckStatus(ctx, chk.ID, core.CheckStatusCleared); err != nil {
		t.Fatalf("UpdateCheckStatus: %v", err)
	}

	summary, err = dealerService.GetAccountSummary(ctx, "ACME", orderService, paymentService, checkService)
	if err != nil {
		t.Fatalf("GetAccountSummary after clear: %v", err)
	}
	if !summary.TotalReceived.Equal(dec("36.61")) {
		t.Errorf("totalReceived = %s, want 36.61", summary.TotalReceived)
	}
	if !summary.Orders[0].IsPaid {
		t.Errorf("order should be fully paid after the check cleared")
	}
	if !summary.Balance.IsZero() {
		t.Errorf("balance = %s, want 0", summary.Balance)
	}
}

func TestCheckStatus_InvalidTransition(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	checkService := core.NewCheckService(pool)
	chk, err := checkService.RecordCheck(ctx, core.RecordCheckInput{
		DealerCode: "ACME",
		Amount:     dec("100"),
		DueDate:    time.Now(),
	})
	if err != nil {
		t.Fatalf("RecordCheck: %v", err)
	}

	if _, err := checkService.UpdateCheckStatus(ctx, chk.ID, core.CheckStatusCleared); err != nil {
		t.Fatalf("pending → cleared should be allowed: %v", err)
	}
	if _, err := checkService.UpdateCheckStatus(ctx, chk.ID, core.CheckStatusPending); err == nil {
		t.Errorf("cleared → pending should be rejected")
	}
}

func TestReporting_DealerStatement(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	orderService := core.NewOrderService(pool, "CAD", nil)
	paymentService := core.NewPaymentService(pool)
	checkService := core.NewCheckService(pool)
	reporting := core.NewReportingService(pool)

	zero := decimal.Zero
	if _, err := orderService.CreateOrder(ctx, core.CreateOrderInput{
		DealerCode:  "ACME",
		Items:       []core.OrderItemInput{{ProductCode: "TUR-001", Quantity: 5}},
		DiscountPct: &zero,
	}); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := paymentService.RecordPayment(ctx, core.RecordPaymentInput{
		DealerCode:  "ACME",
		Amount:      dec("50.00"),
		Method:      core.PaymentMethodBankTransfer,
		PaymentDate: time.Now(),
	}); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	lines, err := reporting.GetDealerStatement(ctx, "ACME", orderService, paymentService, checkService)
	if err != nil {
		t.Fatalf("GetDealerStatement: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("statement has %d lines, want 2", len(lines))
	}
	// 5 kg × 18.00 = 90.00 debit, then 50.00 credit.
	if !lines[0].Debit.Equal(dec("90.00")) || !lines[0].RunningBalance.Equal(dec("90.00")) {
		t.Errorf("line 0 = %+v, want debit 90.00 running 90.00", lines[0])
	}
	if !lines[1].Credit.Equal(dec("50.00")) || !lines[1].RunningBalance.Equal(dec("40.00")) {
		t.Errorf("line 1 = %+v, want credit 50.00 running 40.00", lines[1])
	}

	balances, err := reporting.GetDealerBalances(ctx)
	if err != nil {
		t.Fatalf("GetDealerBalances: %v", err)
	}
	if len(balances) != 1 || !balances[0].Balance.Equal(dec("40.00")) {
		t.Errorf("balances = %+v, want one ACME row with balance 40.00", balances)
	}
}
