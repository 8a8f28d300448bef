package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// OrderItemInput is one requested line when creating an order. A zero
// UnitPrice means "use the product's catalog price".
type OrderItemInput struct {
	ProductCode string          `json:"product_code"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateOrderInput covers both order-creation flows. An empty DealerCode is
// a guest/web checkout order; a set DealerCode is an admin-initiated dealer
// sale. Both are priced by ComputeOrderTotals, so the rounding policy is
// identical for the two flows.
type CreateOrderInput struct {
	DealerCode  string           `json:"dealer_code,omitempty"`
	Items       []OrderItemInput `json:"items"`
	DiscountPct *decimal.Decimal `json:"discount_pct,omitempty"` // nil → dealer's rate, 0 for guests
	Taxes       []TaxLine        `json:"taxes,omitempty"`        // nil → configured defaults
	Shipping    decimal.Decimal  `json:"shipping"`
	Notes       string           `json:"notes"`
}

// OrderService manages order creation and lifecycle. Monetary fields are
// written once at creation; status is the only mutable column.
type OrderService interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error)
	GetOrder(ctx context.Context, orderID int) (*Order, error)
	GetOrders(ctx context.Context, status *string) ([]Order, error)
	GetDealerOrders(ctx context.Context, dealerID int) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int, status string) (*Order, error)
	// PurgeOrder hard-deletes an order and its items. Administrative only;
	// normal flows cancel instead.
	PurgeOrder(ctx context.Context, orderID int) error
}

type orderService struct {
	pool         *pgxpool.Pool
	currency     string
	defaultTaxes []TaxLine
}

// NewOrderService constructs an OrderService. defaultTaxes apply to every
// order whose input does not override them (the configured sales-tax
// jurisdictions, e.g. GST+PST).
func NewOrderService(pool *pgxpool.Pool, currency string, defaultTaxes []TaxLine) OrderService {
	if currency == "" {
		currency = "USD"
	}
	return &orderService{pool: pool, currency: currency, defaultTaxes: defaultTaxes}
}

func (s *orderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	if len(input.Items) == 0 {
		return nil, errors.New("order must have at least one item")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var dealerID *int
	discount := decimal.Zero
	if input.DealerCode != "" {
		var id int
		var dealerDiscount decimal.Decimal
		var active bool
		err := tx.QueryRow(ctx,
			"SELECT id, discount_pct, is_active FROM dealers WHERE code = $1",
			input.DealerCode).Scan(&id, &dealerDiscount, &active)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("dealer %s: %w", input.DealerCode, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to resolve dealer %s: %w", input.DealerCode, err)
		}
		if !active {
			return nil, fmt.Errorf("dealer %s is inactive", input.DealerCode)
		}
		dealerID = &id
		discount = dealerDiscount
	}
	if input.DiscountPct != nil {
		discount = *input.DiscountPct
	}

	taxes := input.Taxes
	if taxes == nil {
		taxes = s.defaultTaxes
	}

	type resolvedItem struct {
		productID int
		quantity  int
		unitPrice decimal.Decimal
	}
	resolved := make([]resolvedItem, 0, len(input.Items))
	lines := make([]LineItem, 0, len(input.Items))
	for _, it := range input.Items {
		var productID int
		var catalogPrice decimal.Decimal
		var active bool
		err := tx.QueryRow(ctx,
			"SELECT id, unit_price, is_active FROM products WHERE code = $1",
			it.ProductCode).Scan(&productID, &catalogPrice, &active)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("product %s: %w", it.ProductCode, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to resolve product %s: %w", it.ProductCode, err)
		}
		if !active {
			return nil, fmt.Errorf("product %s is inactive", it.ProductCode)
		}
		price := it.UnitPrice
		if price.IsZero() {
			price = catalogPrice
		}
		resolved = append(resolved, resolvedItem{productID: productID, quantity: it.Quantity, unitPrice: price})
		lines = append(lines, LineItem{UnitPrice: price, Quantity: it.Quantity})
	}

	totals, err := ComputeOrderTotals(lines, discount, taxes, input.Shipping)
	if err != nil {
		return nil, err
	}

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (dealer_id, status, currency, subtotal, discount_amount, tax_amount, shipping_amount, total, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, dealerID, OrderStatusPending, s.currency, totals.Subtotal, totals.DiscountAmount,
		totals.TaxTotal, totals.Shipping, totals.Total, input.Notes).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, ri := range resolved {
		lineTotal := ri.unitPrice.Mul(decimal.NewFromInt(int64(ri.quantity))).Round(2)
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5)
		`, orderID, ri.productID, ri.quantity, ri.unitPrice, lineTotal)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}
	return s.GetOrder(ctx, orderID)
}

const orderColumns = `
	o.id, o.dealer_id, COALESCE(d.code, ''), COALESCE(d.name, ''), o.status, o.currency,
	o.subtotal, o.discount_amount, o.tax_amount, o.shipping_amount, o.total, o.notes, o.created_at`

func scanOrder(row pgx.Row, o *Order) error {
	return row.Scan(&o.ID, &o.DealerID, &o.DealerCode, &o.DealerName, &o.Status, &o.Currency,
		&o.Subtotal, &o.DiscountAmount, &o.TaxAmount, &o.ShippingAmount, &o.Total, &o.Notes, &o.CreatedAt)
}

func (s *orderService) GetOrder(ctx context.Context, orderID int) (*Order, error) {
	var o Order
	err := scanOrder(s.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders o LEFT JOIN dealers d ON d.id = o.dealer_id
		WHERE o.id = $1
	`, orderID), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch order %d: %w", orderID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, p.code, p.name, i.quantity, i.unit_price, i.line_total
		FROM order_items i JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductCode, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *orderService) GetOrders(ctx context.Context, status *string) ([]Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders o LEFT JOIN dealers d ON d.id = o.dealer_id`
	var args []any
	if status != nil {
		query += " WHERE o.status = $1"
		args = append(args, *status)
	}
	query += " ORDER BY o.created_at DESC, o.id DESC"

	return s.queryOrders(ctx, query, args...)
}

func (s *orderService) GetDealerOrders(ctx context.Context, dealerID int) ([]Order, error) {
	return s.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders o LEFT JOIN dealers d ON d.id = o.dealer_id
		WHERE o.dealer_id = $1
		ORDER BY o.created_at ASC, o.id ASC
	`, dealerID)
}

func (s *orderService) queryOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID int, status string) (*Order, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, "SELECT status FROM orders WHERE id = $1 FOR UPDATE", orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock order %d: %w", orderID, err)
	}

	allowed := false
	for _, next := range ValidOrderTransitions[current] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("invalid status transition %s → %s for order %d", current, status, orderID)
	}

	if _, err := tx.Exec(ctx, "UPDATE orders SET status = $2 WHERE id = $1", orderID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}
	return s.GetOrder(ctx, orderID)
}

func (s *orderService) PurgeOrder(ctx context.Context, orderID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM orders WHERE id = $1", orderID)
	if err != nil {
		return fmt.Errorf("failed to purge order %d: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	return nil
}
