package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Input validation errors raised by ComputeOrderTotals. Wrapped with line
// context via fmt.Errorf, so check with errors.Is.
var (
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidPercentage = errors.New("invalid percentage")
)

var oneHundred = decimal.NewFromInt(100)

// LineItem is one priced entry of an order being totalled.
type LineItem struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// TaxLine is one tax jurisdiction applied to the discounted subtotal,
// e.g. {"GST", 5} and {"PST", 8}. Taxes are independent of each other:
// each applies to the same taxable base, never to another tax.
type TaxLine struct {
	Name string          `json:"name"`
	Rate decimal.Decimal `json:"rate_percent"`
}

// TaxAmount is the computed amount for one TaxLine.
type TaxAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// OrderTotals carries every monetary figure of a priced order, already
// rounded for persistence. The identity
// Total = Subtotal − DiscountAmount + TaxTotal + Shipping holds exactly
// over these rounded figures.
type OrderTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Taxes          []TaxAmount     `json:"taxes"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	Shipping       decimal.Decimal `json:"shipping"`
	Total          decimal.Decimal `json:"total"`
}

// ComputeOrderTotals prices a set of line items: subtotal, percentage
// discount, per-jurisdiction taxes on the discounted base, optional
// shipping. It is the single pricing function for both storefront checkout
// and admin dealer sales, so the rounding policy cannot diverge between the
// two flows: amounts are rounded half-up to 2 decimals only at the edge,
// never per line item.
func ComputeOrderTotals(items []LineItem, discountPct decimal.Decimal, taxes []TaxLine, shipping decimal.Decimal) (*OrderTotals, error) {
	if discountPct.IsNegative() || discountPct.GreaterThan(oneHundred) {
		return nil, fmt.Errorf("%w: discount %s%% outside [0,100]", ErrInvalidPercentage, discountPct)
	}
	for _, t := range taxes {
		if t.Rate.IsNegative() || t.Rate.GreaterThan(oneHundred) {
			return nil, fmt.Errorf("%w: tax %s rate %s%% outside [0,100]", ErrInvalidPercentage, t.Name, t.Rate)
		}
	}

	subtotal := decimal.Zero
	for i, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d has quantity %d", ErrInvalidQuantity, i+1, it.Quantity)
		}
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	subtotal = subtotal.Round(2)
	discount := subtotal.Mul(discountPct).Div(oneHundred).Round(2)
	taxableBase := subtotal.Sub(discount)

	taxAmounts := make([]TaxAmount, 0, len(taxes))
	taxTotal := decimal.Zero
	for _, t := range taxes {
		amt := taxableBase.Mul(t.Rate).Div(oneHundred).Round(2)
		taxAmounts = append(taxAmounts, TaxAmount{Name: t.Name, Amount: amt})
		taxTotal = taxTotal.Add(amt)
	}

	return &OrderTotals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Taxes:          taxAmounts,
		TaxTotal:       taxTotal,
		Shipping:       shipping.Round(2),
		Total:          taxableBase.Add(taxTotal).Add(shipping.Round(2)),
	}, nil
}
