package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// CreditEvent is one point on a dealer's credit timeline: a payment at its
// payment date or a cleared check at its due date. Derived, never persisted.
type CreditEvent struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// MergeCredits projects payments and cleared checks onto one credit stream
// sorted ascending by date. Ties keep payments before checks, then input
// order, so repeated runs allocate identically. Checks in any state other
// than cleared are silently excluded.
func MergeCredits(payments []Payment, checks []Check) []CreditEvent {
	events := make([]CreditEvent, 0, len(payments)+len(checks))
	for _, p := range payments {
		events = append(events, CreditEvent{Date: p.PaymentDate, Amount: p.Amount})
	}
	for _, c := range checks {
		if c.Status != CheckStatusCleared {
			continue
		}
		events = append(events, CreditEvent{Date: c.DueDate, Amount: c.Amount})
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events
}

// OrderSettlement is the derived payment state of one order.
type OrderSettlement struct {
	PaidAmount decimal.Decimal `json:"paid_amount"`
	IsPaid     bool            `json:"is_paid"`
}

// LedgerView is the full reconciliation result for one dealer. It is
// recomputed from scratch on every read; there is no persisted allocation.
type LedgerView struct {
	PerOrder      map[int]OrderSettlement `json:"per_order"`
	TotalDebt     decimal.Decimal         `json:"total_debt"`
	TotalReceived decimal.Decimal         `json:"total_received"`
	Balance       decimal.Decimal         `json:"balance"`
	UnpaidAmount  decimal.Decimal         `json:"unpaid_amount"`
	WeeklySales   decimal.Decimal         `json:"weekly_sales"`
	MonthlySales  decimal.Decimal         `json:"monthly_sales"`
}

type reconcileConfig struct {
	skipCancelled bool
}

// ReconcileOption adjusts a policy of the allocation walk.
type ReconcileOption func(*reconcileConfig)

// SkipCancelled removes cancelled orders from the chronological sequence
// entirely, so credit skips over them instead of being consumed by them.
// The default keeps cancelled orders in the sequence while still excluding
// them from all debt figures; which of the two a ledger should do is a
// policy question, hence the option.
func SkipCancelled(skip bool) ReconcileOption {
	return func(c *reconcileConfig) { c.skipCancelled = skip }
}

// Reconcile matches a dealer's credits (payments + cleared checks) against
// its orders oldest-first and derives per-order paid state plus the
// dealer-level aggregates. Pure: it never mutates its inputs, performs no
// I/O, and identical inputs always produce identical output. Malformed
// amounts (negative totals or credits) are clamped to zero rather than
// rejected; this is a read-only summary, not a system of record.
//
// Allocation rule: credits are consumed in merged chronological order, and
// each credit fills the oldest not-yet-covered order created on or before
// the credit's own date. A payment therefore settles older debt first
// (FIFO), and recording it late, after later orders already exist, does not
// disturb their allocation.
//
// now anchors the trailing 7-day and 30-day sales windows.
func Reconcile(orders []Order, payments []Payment, checks []Check, now time.Time, opts ...ReconcileOption) *LedgerView {
	var cfg reconcileConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	// Debit stream: chronological, optionally without cancelled orders.
	seq := make([]Order, 0, len(orders))
	for _, o := range orders {
		if cfg.skipCancelled && o.Status == OrderStatusCancelled {
			continue
		}
		seq = append(seq, o)
	}
	sort.SliceStable(seq, func(i, j int) bool {
		return seq[i].CreatedAt.Before(seq[j].CreatedAt)
	})

	totals := make([]decimal.Decimal, len(seq))
	paid := make([]decimal.Decimal, len(seq))
	for i, o := range seq {
		totals[i] = clampAmount(o.Total)
		paid[i] = decimal.Zero
	}

	// Credit walk. oldest tracks the first order not yet fully covered; an
	// order consumes credit only from events dated on or after its creation
	// day. Eligibility is day-granular so a payment recorded at 09:00 still
	// covers an order placed at 08:00 the same day.
	oldest := 0
	for _, ev := range MergeCredits(payments, checks) {
		remaining := clampAmount(ev.Amount)
		creditDay := dayOf(ev.Date)
		for k := oldest; k < len(seq) && remaining.IsPositive(); k++ {
			if dayOf(seq[k].CreatedAt).After(creditDay) {
				break
			}
			open := totals[k].Sub(paid[k])
			if !open.IsPositive() {
				continue
			}
			fill := decimal.Min(open, remaining)
			paid[k] = paid[k].Add(fill)
			remaining = remaining.Sub(fill)
		}
		for oldest < len(seq) && paid[oldest].GreaterThanOrEqual(totals[oldest]) {
			oldest++
		}
	}

	view := &LedgerView{
		PerOrder:      make(map[int]OrderSettlement, len(orders)),
		TotalDebt:     decimal.Zero,
		TotalReceived: decimal.Zero,
		Balance:       decimal.Zero,
		UnpaidAmount:  decimal.Zero,
		WeeklySales:   decimal.Zero,
		MonthlySales:  decimal.Zero,
	}

	for i, o := range seq {
		settled := OrderSettlement{
			PaidAmount: paid[i],
			IsPaid:     paid[i].GreaterThanOrEqual(totals[i]),
		}
		view.PerOrder[o.ID] = settled
		if o.Status != OrderStatusCancelled && !settled.IsPaid {
			view.UnpaidAmount = view.UnpaidAmount.Add(totals[i].Sub(paid[i]))
		}
	}

	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, 0, -30)
	for _, o := range orders {
		total := clampAmount(o.Total)
		if IsOpenOrderStatus(o.Status) {
			view.TotalDebt = view.TotalDebt.Add(total)
		}
		if _, ok := view.PerOrder[o.ID]; !ok {
			// Cancelled order dropped from the sequence by SkipCancelled:
			// chronologically absent, zero settlement.
			view.PerOrder[o.ID] = OrderSettlement{PaidAmount: decimal.Zero}
		}
		if o.CreatedAt.After(weekStart) && !o.CreatedAt.After(now) {
			view.WeeklySales = view.WeeklySales.Add(total)
		}
		if o.CreatedAt.After(monthStart) && !o.CreatedAt.After(now) {
			view.MonthlySales = view.MonthlySales.Add(total)
		}
	}

	for _, p := range payments {
		view.TotalReceived = view.TotalReceived.Add(clampAmount(p.Amount))
	}
	for _, c := range checks {
		if c.Status == CheckStatusCleared {
			view.TotalReceived = view.TotalReceived.Add(clampAmount(c.Amount))
		}
	}
	view.Balance = view.TotalDebt.Sub(view.TotalReceived)

	return view
}

// dayOf reduces a timestamp to its UTC calendar day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// clampAmount floors malformed negative amounts at zero.
func clampAmount(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
