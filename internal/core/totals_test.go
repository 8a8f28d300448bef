package core_test

import (
	"errors"
	"testing"

	"github.com/orhanozan33/baharat-sub000/internal/core"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeOrderTotals_TwoTaxExample(t *testing.T) {
	// Single line {10.00 × 3}, no discount, 5% + 8% tax.
	got, err := core.ComputeOrderTotals(
		[]core.LineItem{{UnitPrice: dec("10.00"), Quantity: 3}},
		decimal.Zero,
		[]core.TaxLine{{Name: "GST", Rate: dec("5")}, {Name: "PST", Rate: dec("8")}},
		decimal.Zero,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.Subtotal.Equal(dec("30.00")) {
		t.Errorf("subtotal = %s, want 30.00", got.Subtotal)
	}
	if !got.Taxes[0].Amount.Equal(dec("1.50")) {
		t.Errorf("tax1 = %s, want 1.50", got.Taxes[0].Amount)
	}
	if !got.Taxes[1].Amount.Equal(dec("2.40")) {
		t.Errorf("tax2 = %s, want 2.40", got.Taxes[1].Amount)
	}
	if !got.Total.Equal(dec("33.90")) {
		t.Errorf("total = %s, want 33.90", got.Total)
	}
}

func TestComputeOrderTotals(t *testing.T) {
	tests := []struct {
		name        string
		items       []core.LineItem
		discountPct string
		taxes       []core.TaxLine
		shipping    string
		wantErr     error
		wantTotal   string
	}{
		{
			name:        "discount applied before tax",
			items:       []core.LineItem{{UnitPrice: dec("50.00"), Quantity: 2}},
			discountPct: "10",
			taxes:       []core.TaxLine{{Name: "GST", Rate: dec("5")}},
			shipping:    "0",
			wantTotal:   "94.50", // 100 − 10 = 90 base, +4.50 GST
		},
		{
			name:        "shipping added after tax",
			items:       []core.LineItem{{UnitPrice: dec("20.00"), Quantity: 1}},
			discountPct: "0",
			taxes:       nil,
			shipping:    "12.50",
			wantTotal:   "32.50",
		},
		{
			name:        "no items yields zero total",
			items:       nil,
			discountPct: "0",
			taxes:       []core.TaxLine{{Name: "GST", Rate: dec("5")}},
			shipping:    "0",
			wantTotal:   "0",
		},
		{
			name:        "half-up rounding on tax",
			items:       []core.LineItem{{UnitPrice: dec("10.01"), Quantity: 1}},
			discountPct: "0",
			taxes:       []core.TaxLine{{Name: "GST", Rate: dec("5")}},
			shipping:    "0",
			// 10.01 × 5% = 0.5005 → 0.50
			wantTotal: "10.51",
		},
		{
			name:        "rounding at the edge not per line",
			items:       []core.LineItem{{UnitPrice: dec("1.004"), Quantity: 1}, {UnitPrice: dec("1.004"), Quantity: 1}},
			discountPct: "0",
			taxes:       nil,
			shipping:    "0",
			// 2.008 rounds once to 2.01; per-line rounding would drift to 2.00
			wantTotal: "2.01",
		},
		{
			name:        "zero quantity rejected",
			items:       []core.LineItem{{UnitPrice: dec("10"), Quantity: 0}},
			discountPct: "0",
			shipping:    "0",
			wantErr:     core.ErrInvalidQuantity,
		},
		{
			name:        "negative quantity rejected",
			items:       []core.LineItem{{UnitPrice: dec("10"), Quantity: -2}},
			discountPct: "0",
			shipping:    "0",
			wantErr:     core.ErrInvalidQuantity,
		},
		{
			name:        "discount above 100 rejected",
			items:       []core.LineItem{{UnitPrice: dec("10"), Quantity: 1}},
			discountPct: "101",
			shipping:    "0",
			wantErr:     core.ErrInvalidPercentage,
		},
		{
			name:        "negative discount rejected",
			items:       []core.LineItem{{UnitPrice: dec("10"), Quantity: 1}},
			discountPct: "-5",
			shipping:    "0",
			wantErr:     core.ErrInvalidPercentage,
		},
		{
			name:        "negative tax rate rejected",
			items:       []core.LineItem{{UnitPrice: dec("10"), Quantity: 1}},
			discountPct: "0",
			taxes:       []core.TaxLine{{Name: "GST", Rate: dec("-1")}},
			shipping:    "0",
			wantErr:     core.ErrInvalidPercentage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.ComputeOrderTotals(tt.items, dec(tt.discountPct), tt.taxes, dec(tt.shipping))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Total.Equal(dec(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", got.Total, tt.wantTotal)
			}
		})
	}
}

func TestComputeOrderTotals_RoundedIdentity(t *testing.T) {
	got, err := core.ComputeOrderTotals(
		[]core.LineItem{{UnitPrice: dec("3.337"), Quantity: 7}, {UnitPrice: dec("1.111"), Quantity: 13}},
		dec("12.5"),
		[]core.TaxLine{{Name: "GST", Rate: dec("5")}, {Name: "PST", Rate: dec("9.975")}},
		dec("9.99"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Total must equal subtotal − discount + taxes + shipping over the
	// rounded figures, so persisted rows always satisfy the order invariant.
	recomputed := got.Subtotal.Sub(got.DiscountAmount).Add(got.TaxTotal).Add(got.Shipping)
	if !got.Total.Equal(recomputed) {
		t.Errorf("total %s does not match recomputed identity %s", got.Total, recomputed)
	}
	for _, ta := range got.Taxes {
		if ta.Amount.Exponent() < -2 {
			t.Errorf("tax %s amount %s not rounded to 2 decimals", ta.Name, ta.Amount)
		}
	}
}
