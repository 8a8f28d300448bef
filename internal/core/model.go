package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dealer is a wholesale/reseller account with its own discount rate and a
// running balance derived from its orders, payments, and cleared checks.
type Dealer struct {
	ID          int             `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	ContactName string          `json:"contact_name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Category groups products on the storefront.
type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a sellable catalog item. Unit is the sold packaging unit
// (e.g. "kg", "250g jar"); HeatLevel is a 0-5 storefront attribute.
type Product struct {
	ID          int             `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  *int            `json:"category_id,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Unit        string          `json:"unit"`
	Origin      string          `json:"origin"`
	HeatLevel   int             `json:"heat_level"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Order lifecycle statuses. Transitions are externally driven:
//
//	pending → confirmed → processing → shipped → delivered
//	any non-terminal status → cancelled
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is a sales order header. DealerID is nil for guest/web checkout
// orders, which never enter a dealer ledger. Monetary fields are computed
// once at creation and immutable afterward, with the invariant
// Total = Subtotal − DiscountAmount + TaxAmount + ShippingAmount.
type Order struct {
	ID             int             `json:"id"`
	DealerID       *int            `json:"dealer_id,omitempty"`
	DealerCode     string          `json:"dealer_code,omitempty"` // joined from dealers
	DealerName     string          `json:"dealer_name,omitempty"` // joined from dealers
	Status         string          `json:"status"`
	Currency       string          `json:"currency"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	Total          decimal.Decimal `json:"total"`
	Notes          string          `json:"notes"`
	Items          []OrderItem     `json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
}

// OrderItem is one line on an order. LineTotal = UnitPrice × Quantity.
type OrderItem struct {
	ID          int             `json:"id"`
	OrderID     int             `json:"order_id"`
	ProductID   int             `json:"product_id"`
	ProductCode string          `json:"product_code"` // joined from products
	ProductName string          `json:"product_name"` // joined from products
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Payment methods accepted when recording money received from a dealer.
const (
	PaymentMethodCash         = "cash"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCreditCard   = "credit_card"
	PaymentMethodCheck        = "check"
	PaymentMethodOther        = "other"
)

// Payment records money received from a dealer. Immutable once created.
type Payment struct {
	ID          int             `json:"id"`
	DealerID    int             `json:"dealer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	PaymentDate time.Time       `json:"payment_date"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Check statuses. Only a cleared check counts as ledger credit; the other
// states are informational.
const (
	CheckStatusPending   = "pending"
	CheckStatusDeposited = "deposited"
	CheckStatusCleared   = "cleared"
	CheckStatusBounced   = "bounced"
)

// Check is a post-dated check received from a dealer. Its credit date on
// the ledger timeline is DueDate, not IssueDate.
type Check struct {
	ID          int             `json:"id"`
	DealerID    int             `json:"dealer_id"`
	Amount      decimal.Decimal `json:"amount"`
	CheckNumber string          `json:"check_number"`
	BankName    string          `json:"bank_name"`
	IssueDate   time.Time       `json:"issue_date"`
	DueDate     time.Time       `json:"due_date"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ValidOrderTransitions maps each order status to the statuses it may move to.
var ValidOrderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// ValidCheckTransitions maps each check status to the statuses it may move to.
var ValidCheckTransitions = map[string][]string{
	CheckStatusPending:   {CheckStatusDeposited, CheckStatusCleared, CheckStatusBounced},
	CheckStatusDeposited: {CheckStatusCleared, CheckStatusBounced},
	CheckStatusCleared:   {},
	CheckStatusBounced:   {},
}

// IsOpenOrderStatus reports whether an order in this status still counts as
// owed money. Shipped/delivered orders are settled goods-wise and cancelled
// orders are not debt.
func IsOpenOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	}
	return false
}
