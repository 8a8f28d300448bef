package web

import (
	"net/http"

	"github.com/orhanozan33/baharat-sub000/internal/core"

	"github.com/shopspring/decimal"
)

// listCategories handles GET /api/categories.
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Categories)
}

// createCategory handles POST /api/categories.
// Body: { name }
func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	category, err := h.svc.CreateCategory(r.Context(), body.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, category)
}

// listProducts handles GET /api/products. ?active=true filters to active products.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	result, err := h.svc.ListProducts(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Products)
}

// createProduct handles POST /api/products.
// Body: { code, name, description?, category_id?, unit_price, unit?, origin?, heat_level? }
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code        string `json:"code"`
		Name        string `json:"name"`
		Description string `json:"description"`
		CategoryID  *int   `json:"category_id"`
		UnitPrice   string `json:"unit_price"`
		Unit        string `json:"unit"`
		Origin      string `json:"origin"`
		HeatLevel   int    `json:"heat_level"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if body.Code == "" {
		writeError(w, r, "code is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	unitPrice, err := decimal.NewFromString(body.UnitPrice)
	if err != nil || unitPrice.IsNegative() {
		writeError(w, r, "invalid unit_price", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), core.CreateProductInput{
		Code:        body.Code,
		Name:        body.Name,
		Description: body.Description,
		CategoryID:  body.CategoryID,
		UnitPrice:   unitPrice,
		Unit:        body.Unit,
		Origin:      body.Origin,
		HeatLevel:   body.HeatLevel,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, product)
}
