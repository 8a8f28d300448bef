package web

import (
	"net/http"

	"github.com/orhanozan33/baharat-sub000/internal/core"

	"github.com/shopspring/decimal"
)

// listDealers handles GET /api/dealers. ?active=true filters to active dealers.
func (h *Handler) listDealers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	result, err := h.svc.ListDealers(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Dealers)
}

// createDealer handles POST /api/dealers.
// Body: { code, name, contact_name?, email?, phone?, address?, discount_pct? }
func (h *Handler) createDealer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code        string `json:"code"`
		Name        string `json:"name"`
		ContactName string `json:"contact_name"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		Address     string `json:"address"`
		DiscountPct string `json:"discount_pct"`
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

	discountPct := decimal.Zero
	if body.DiscountPct != "" {
		var err error
		discountPct, err = decimal.NewFromString(body.DiscountPct)
		if err != nil {
			writeError(w, r, "invalid discount_pct", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
	}

	result, err := h.svc.CreateDealer(r.Context(), core.CreateDealerInput{
		Code:        body.Code,
		Name:        body.Name,
		ContactName: body.ContactName,
		Email:       body.Email,
		Phone:       body.Phone,
		Address:     body.Address,
		DiscountPct: discountPct,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Dealer)
}

// getDealer handles GET /api/dealers/{code}.
func (h *Handler) getDealer(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetDealer(r.Context(), dealerCode(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Dealer)
}

// updateDealer handles PUT /api/dealers/{code}.
// Body: { name, contact_name?, email?, phone?, address?, discount_pct?, is_active }
func (h *Handler) updateDealer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		ContactName string `json:"contact_name"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		Address     string `json:"address"`
		DiscountPct string `json:"discount_pct"`
		IsActive    bool   `json:"is_active"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	if body.Name == "" {
		writeError(w, r, "name is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	discountPct := decimal.Zero
	if body.DiscountPct != "" {
		var err error
		discountPct, err = decimal.NewFromString(body.DiscountPct)
		if err != nil {
			writeError(w, r, "invalid discount_pct", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
	}

	code := dealerCode(r)
	result, err := h.svc.UpdateDealer(r.Context(), code, core.CreateDealerInput{
		Code:        code,
		Name:        body.Name,
		ContactName: body.ContactName,
		Email:       body.Email,
		Phone:       body.Phone,
		Address:     body.Address,
		DiscountPct: discountPct,
	}, body.IsActive)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Dealer)
}

// dealerSummary handles GET /api/dealers/{code}/summary.
func (h *Handler) dealerSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetDealerSummary(r.Context(), dealerCode(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

// dealerStatement handles GET /api/dealers/{code}/statement.
func (h *Handler) dealerStatement(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetDealerStatement(r.Context(), dealerCode(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
