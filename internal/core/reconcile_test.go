package core_test

import (
	"testing"
	"time"

	"github.com/orhanozan33/baharat-sub000/internal/core"

	"github.com/shopspring/decimal"
)

func day(n int) time.Time {
	return time.Date(2025, 6, n, 12, 0, 0, 0, time.UTC)
}

func order(id, createdDay int, total, status string) core.Order {
	dealerID := 1
	return core.Order{
		ID:        id,
		DealerID:  &dealerID,
		Status:    status,
		Total:     dec(total),
		CreatedAt: day(createdDay),
	}
}

func payment(dateDay int, amount string) core.Payment {
	return core.Payment{DealerID: 1, Amount: dec(amount), Method: core.PaymentMethodCash, PaymentDate: day(dateDay)}
}

func check(dueDay int, amount, status string) core.Check {
	return core.Check{DealerID: 1, Amount: dec(amount), DueDate: day(dueDay), Status: status}
}

func TestMergeCredits(t *testing.T) {
	payments := []core.Payment{payment(5, "100"), payment(2, "50")}
	checks := []core.Check{
		check(5, "70", core.CheckStatusCleared),
		check(1, "999", core.CheckStatusPending),
		check(3, "25", core.CheckStatusCleared),
		check(4, "999", core.CheckStatusBounced),
		check(6, "999", core.CheckStatusDeposited),
	}

	got := core.MergeCredits(payments, checks)

	wantAmounts := []string{"50", "25", "100", "70"}
	if len(got) != len(wantAmounts) {
		t.Fatalf("merged %d events, want %d", len(got), len(wantAmounts))
	}
	for i, w := range wantAmounts {
		if !got[i].Amount.Equal(dec(w)) {
			t.Errorf("event %d amount = %s, want %s", i, got[i].Amount, w)
		}
	}
	// Same-day tie (day 5): the payment must precede the cleared check.
	if !got[2].Amount.Equal(dec("100")) || !got[3].Amount.Equal(dec("70")) {
		t.Errorf("tie at day 5 broke payment-before-check order: %v", got)
	}
}

func TestReconcile_FIFOScenario(t *testing.T) {
	// O1 total 100 on day 1, O2 total 50 on day 2, one payment of 120 on
	// day 2: the payment settles the oldest debt first.
	orders := []core.Order{
		order(1, 1, "100", core.OrderStatusConfirmed),
		order(2, 2, "50", core.OrderStatusConfirmed),
	}
	payments := []core.Payment{payment(2, "120")}

	view := core.Reconcile(orders, payments, nil, day(10))

	o1 := view.PerOrder[1]
	if !o1.IsPaid || !o1.PaidAmount.Equal(dec("100")) {
		t.Errorf("O1 = {paid %s, isPaid %v}, want {100, true}", o1.PaidAmount, o1.IsPaid)
	}
	o2 := view.PerOrder[2]
	if o2.IsPaid || !o2.PaidAmount.Equal(dec("20")) {
		t.Errorf("O2 = {paid %s, isPaid %v}, want {20, false}", o2.PaidAmount, o2.IsPaid)
	}
	if !view.UnpaidAmount.Equal(dec("30")) {
		t.Errorf("unpaidAmount = %s, want 30", view.UnpaidAmount)
	}
	if !view.TotalDebt.Equal(dec("150")) {
		t.Errorf("totalDebt = %s, want 150", view.TotalDebt)
	}
	if !view.TotalReceived.Equal(dec("120")) {
		t.Errorf("totalReceived = %s, want 120", view.TotalReceived)
	}
	if !view.Balance.Equal(dec("30")) {
		t.Errorf("balance = %s, want 30", view.Balance)
	}
}

func TestReconcile_Determinism(t *testing.T) {
	orders := []core.Order{
		order(1, 1, "80", core.OrderStatusConfirmed),
		order(2, 1, "40", core.OrderStatusPending),
		order(3, 4, "60", core.OrderStatusShipped),
	}
	payments := []core.Payment{payment(3, "55"), payment(1, "10")}
	checks := []core.Check{check(4, "30", core.CheckStatusCleared)}

	a := core.Reconcile(orders, payments, checks, day(10))
	b := core.Reconcile(orders, payments, checks, day(10))

	for id, sa := range a.PerOrder {
		sb := b.PerOrder[id]
		if !sa.PaidAmount.Equal(sb.PaidAmount) || sa.IsPaid != sb.IsPaid {
			t.Errorf("order %d differs across runs: %+v vs %+v", id, sa, sb)
		}
	}
	if !a.Balance.Equal(b.Balance) || !a.UnpaidAmount.Equal(b.UnpaidAmount) {
		t.Errorf("aggregates differ across runs")
	}
}

func TestReconcile_Conservation(t *testing.T) {
	cases := []struct {
		name     string
		orders   []core.Order
		payments []core.Payment
		checks   []core.Check
	}{
		{
			name:     "credit exceeds debt",
			orders:   []core.Order{order(1, 1, "50", core.OrderStatusConfirmed)},
			payments: []core.Payment{payment(2, "500")},
		},
		{
			name:   "debt exceeds credit",
			orders: []core.Order{order(1, 1, "300", core.OrderStatusConfirmed), order(2, 2, "200", core.OrderStatusPending)},
			checks: []core.Check{check(2, "120", core.CheckStatusCleared)},
		},
		{
			name:     "credit dated before any order stays unallocated",
			orders:   []core.Order{order(1, 5, "100", core.OrderStatusConfirmed)},
			payments: []core.Payment{payment(1, "100")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := core.Reconcile(tc.orders, tc.payments, tc.checks, day(10))

			paidSum, totalSum, creditSum := decimal.Zero, decimal.Zero, decimal.Zero
			for _, o := range tc.orders {
				totalSum = totalSum.Add(o.Total)
				paidSum = paidSum.Add(view.PerOrder[o.ID].PaidAmount)
			}
			for _, p := range tc.payments {
				creditSum = creditSum.Add(p.Amount)
			}
			for _, c := range tc.checks {
				if c.Status == core.CheckStatusCleared {
					creditSum = creditSum.Add(c.Amount)
				}
			}
			if paidSum.GreaterThan(totalSum) {
				t.Errorf("Σ paid %s > Σ order totals %s", paidSum, totalSum)
			}
			if paidSum.GreaterThan(creditSum) {
				t.Errorf("Σ paid %s > Σ credit %s", paidSum, creditSum)
			}
		})
	}
}

func TestReconcile_Monotonicity(t *testing.T) {
	orders := []core.Order{
		order(1, 1, "100", core.OrderStatusConfirmed),
		order(2, 3, "50", core.OrderStatusConfirmed),
	}
	payments := []core.Payment{payment(2, "100")}

	before := core.Reconcile(orders, payments, nil, day(10))

	// A new credit dated after every existing order must never flip an
	// order from paid back to unpaid.
	payments = append(payments, payment(9, "10"))
	after := core.Reconcile(orders, payments, nil, day(10))

	for id, prev := range before.PerOrder {
		if prev.IsPaid && !after.PerOrder[id].IsPaid {
			t.Errorf("order %d regressed from paid to unpaid after new credit", id)
		}
		if after.PerOrder[id].PaidAmount.LessThan(prev.PaidAmount) {
			t.Errorf("order %d paid amount shrank from %s to %s", id, prev.PaidAmount, after.PerOrder[id].PaidAmount)
		}
	}
}

func TestReconcile_CancelledOrders(t *testing.T) {
	orders := []core.Order{
		order(1, 1, "200", core.OrderStatusCancelled),
		order(2, 2, "100", core.OrderStatusConfirmed),
	}
	payments := []core.Payment{payment(3, "250")}

	t.Run("default keeps cancelled in sequence", func(t *testing.T) {
		view := core.Reconcile(orders, payments, nil, day(10))
		if !view.TotalDebt.Equal(dec("100")) {
			t.Errorf("totalDebt = %s, want 100 (cancelled order must not count)", view.TotalDebt)
		}
		// The cancelled order still occupies its slot and consumes credit.
		if !view.PerOrder[1].PaidAmount.Equal(dec("200")) {
			t.Errorf("cancelled order consumed %s, want 200", view.PerOrder[1].PaidAmount)
		}
		if !view.PerOrder[2].PaidAmount.Equal(dec("50")) {
			t.Errorf("order 2 paid %s, want 50", view.PerOrder[2].PaidAmount)
		}
	})

	t.Run("SkipCancelled drops it from the sequence", func(t *testing.T) {
		view := core.Reconcile(orders, payments, nil, day(10), core.SkipCancelled(true))
		if !view.TotalDebt.Equal(dec("100")) {
			t.Errorf("totalDebt = %s, want 100", view.TotalDebt)
		}
		if !view.PerOrder[1].PaidAmount.IsZero() {
			t.Errorf("skipped cancelled order consumed %s, want 0", view.PerOrder[1].PaidAmount)
		}
		if s := view.PerOrder[2]; !s.IsPaid || !s.PaidAmount.Equal(dec("100")) {
			t.Errorf("order 2 = {paid %s, isPaid %v}, want {100, true}", s.PaidAmount, s.IsPaid)
		}
	})
}

func TestReconcile_EmptyState(t *testing.T) {
	view := core.Reconcile(nil, nil, nil, day(10))

	if len(view.PerOrder) != 0 {
		t.Errorf("perOrder has %d entries, want 0", len(view.PerOrder))
	}
	if !view.TotalDebt.IsZero() || !view.TotalReceived.IsZero() || !view.Balance.IsZero() || !view.UnpaidAmount.IsZero() {
		t.Errorf("empty state aggregates not all zero: %+v", view)
	}
}

func TestReconcile_OutOfOrderInsertion(t *testing.T) {
	// A payment recorded late (but dated early) still settles by date, not
	// by insertion order.
	orders := []core.Order{
		order(1, 1, "100", core.OrderStatusConfirmed),
		order(2, 5, "100", core.OrderStatusConfirmed),
	}
	// Dated day 2: eligible for O1 only; O2 did not exist yet.
	payments := []core.Payment{payment(2, "150")}

	view := core.Reconcile(orders, payments, nil, day(10))

	if s := view.PerOrder[1]; !s.IsPaid {
		t.Errorf("O1 should be fully settled, got %+v", s)
	}
	if s := view.PerOrder[2]; !s.PaidAmount.IsZero() {
		t.Errorf("O2 paid %s, want 0 (credit predates the order)", s.PaidAmount)
	}
}

func TestReconcile_ClampsNegativeAmounts(t *testing.T) {
	orders := []core.Order{order(1, 1, "-50", core.OrderStatusConfirmed)}
	payments := []core.Payment{payment(2, "-10")}

	view := core.Reconcile(orders, payments, nil, day(10))

	if !view.TotalDebt.IsZero() {
		t.Errorf("negative order total must clamp to zero debt, got %s", view.TotalDebt)
	}
	if !view.TotalReceived.IsZero() {
		t.Errorf("negative payment must clamp to zero received, got %s", view.TotalReceived)
	}
	if s := view.PerOrder[1]; !s.IsPaid || !s.PaidAmount.IsZero() {
		t.Errorf("clamped order = %+v, want zero-amount paid", s)
	}
}

func TestReconcile_SalesWindows(t *testing.T) {
	now := day(30)
	orders := []core.Order{
		order(1, 29, "100", core.OrderStatusDelivered), // within 7 days
		order(2, 20, "200", core.OrderStatusCancelled), // within 30 days only
		order(3, 1, "400", core.OrderStatusConfirmed),  // within 30 days only
	}

	view := core.Reconcile(orders, nil, nil, now)

	if !view.WeeklySales.Equal(dec("100")) {
		t.Errorf("weeklySales = %s, want 100", view.WeeklySales)
	}
	// Windowed sums use all orders regardless of status or paid state.
	if !view.MonthlySales.Equal(dec("700")) {
		t.Errorf("monthlySales = %s, want 700", view.MonthlySales)
	}
}
