package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/orhanozan33/baharat-sub000/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// 1 MB body limit on everything that accepts a body.
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20))

		// ── Dealers ───────────────────────────────────────────────────────────
		r.Get("/api/dealers", h.listDealers)
		r.Post("/api/dealers", h.createDealer)
		r.Get("/api/dealers/{code}", h.getDealer)
		r.Put("/api/dealers/{code}", h.updateDealer)
		r.Get("/api/dealers/{code}/summary", h.dealerSummary)
		r.Get("/api/dealers/{code}/statement", h.dealerStatement)

		// ── Catalog ───────────────────────────────────────────────────────────
		r.Get("/api/categories", h.listCategories)
		r.Post("/api/categories", h.createCategory)
		r.Get("/api/products", h.listProducts)
		r.Post("/api/products", h.createProduct)

		// ── Orders ────────────────────────────────────────────────────────────
		r.Get("/api/orders", h.listOrders)
		r.Post("/api/orders", h.createOrder)
		r.Get("/api/orders/{id}", h.getOrder)
		r.Patch("/api/orders/{id}/status", h.updateOrderStatus)
		r.Delete("/api/orders/{id}", h.purgeOrder)

		// ── Payments & checks ─────────────────────────────────────────────────
		r.Get("/api/dealers/{code}/payments", h.listPayments)
		r.Post("/api/dealers/{code}/payments", h.recordPayment)
		r.Get("/api/dealers/{code}/checks", h.listChecks)
		r.Post("/api/dealers/{code}/checks", h.recordCheck)
		r.Patch("/api/checks/{id}/status", h.updateCheckStatus)

		// ── Reports ───────────────────────────────────────────────────────────
		r.Get("/api/reports/sales", h.salesReport)
		r.Get("/api/reports/balances", h.dealerBalances)

		// ── AI ────────────────────────────────────────────────────────────────
		r.Post("/api/ai/interpret", h.aiInterpret)
		r.Post("/api/ai/confirm", h.aiConfirm)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// dealerCode extracts the {code} URL parameter.
func dealerCode(r *http.Request) string {
	return chi.URLParam(r, "code")
}

// decodeJSON decodes the request body into v and returns false + writes an
// appropriate error response on failure. HTTP 413 when the body exceeds the
// RequestBodyLimit; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
