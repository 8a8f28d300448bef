package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/orhanozan33/baharat-sub000/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// listOrders handles GET /api/orders. ?status= filters by order status.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}
	result, err := h.svc.ListOrders(r.Context(), status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Orders)
}

// createOrder handles POST /api/orders. An empty dealer_code is a guest
// checkout; a set one is an admin dealer sale.
// Body: { dealer_code?, items: [{product_code, quantity, unit_price?}], discount_pct?, taxes?, shipping?, notes? }
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DealerCode string `json:"dealer_code"`
		Items      []struct {
			ProductCode string `json:"product_code"`
			Quantity    int    `json:"quantity"`
			UnitPrice   string `json:"unit_price"`
		} `json:"items"`
		DiscountPct *string `json:"discount_pct"`
		Taxes       []struct {
			Name string `json:"name"`
			Rate string `json:"rate"`
		} `json:"taxes"`
		Shipping string `json:"shipping"`
		Notes    string `json:"notes"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if len(body.Items) == 0 {
		writeError(w, r, "at least one item is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	input := core.CreateOrderInput{
		DealerCode: body.DealerCode,
		Notes:      body.Notes,
	}

	for i, it := range body.Items {
		if it.ProductCode == "" {
			writeError(w, r, fmt.Sprintf("item %d: product_code is required", i+1), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		if it.Quantity <= 0 {
			writeError(w, r, fmt.Sprintf("item %d: quantity must be positive", i+1), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		item := core.OrderItemInput{ProductCode: it.ProductCode, Quantity: it.Quantity}
		if it.UnitPrice != "" {
			price, err := decimal.NewFromString(it.UnitPrice)
			if err != nil {
				writeError(w, r, fmt.Sprintf("item %d: invalid unit_price", i+1), "BAD_REQUEST", http.StatusBadRequest)
				return
			}
			item.UnitPrice = price
		}
		input.Items = append(input.Items, item)
	}

	if body.DiscountPct != nil {
		pct, err := decimal.NewFromString(*body.DiscountPct)
		if err != nil {
			writeError(w, r, "invalid discount_pct", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		input.DiscountPct = &pct
	}

	for i, t := range body.Taxes {
		rate, err := decimal.NewFromString(t.Rate)
		if err != nil {
			writeError(w, r, fmt.Sprintf("tax %d: invalid rate", i+1), "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		input.Taxes = append(input.Taxes, core.TaxLine{Name: t.Name, Rate: rate})
	}

	if body.Shipping != "" {
		shipping, err := decimal.NewFromString(body.Shipping)
		if err != nil || shipping.IsNegative() {
			writeError(w, r, "invalid shipping", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		input.Shipping = shipping
	}

	result, err := h.svc.CreateOrder(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Order)
}

// getOrder handles GET /api/orders/{id}.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	result, err := h.svc.GetOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// updateOrderStatus handles PATCH /api/orders/{id}/status.
// Body: { status }
func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Status == "" {
		writeError(w, r, "status is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.UpdateOrderStatus(r.Context(), orderID, body.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

// purgeOrder handles DELETE /api/orders/{id}.
func (h *Handler) purgeOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.PurgeOrder(r.Context(), orderID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// orderIDParam parses the {id} URL parameter, writing a 400 on failure.
func orderIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid order ID", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
