package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/orhanozan33/baharat-sub000/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// listPayments handles GET /api/dealers/{code}/payments.
func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListDealerPayments(r.Context(), dealerCode(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Payments)
}

// recordPayment handles POST /api/dealers/{code}/payments.
// Body: { amount, method, payment_date?, description? }
func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount      string `json:"amount"`
		Method      string `json:"method"`
		PaymentDate string `json:"payment_date"`
		Description string `json:"description"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil || !amount.IsPositive() {
		writeError(w, r, "invalid amount", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	var paymentDate time.Time
	if body.PaymentDate != "" {
		paymentDate, err = time.Parse("2006-01-02", body.PaymentDate)
		if err != nil {
			writeError(w, r, "invalid payment_date (expected YYYY-MM-DD)", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
	}

	result, err := h.svc.RecordPayment(r.Context(), core.RecordPaymentInput{
		DealerCode:  dealerCode(r),
		Amount:      amount,
		Method:      body.Method,
		PaymentDate: paymentDate,
		Description: body.Description,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Payment)
}

// listChecks handles GET /api/dealers/{code}/checks.
func (h *Handler) listChecks(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListDealerChecks(r.Context(), dealerCode(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Checks)
}

// recordCheck handles POST /api/dealers/{code}/checks.
// Body: { amount, check_number, bank_name?, issue_date, due_date, notes? }
func (h *Handler) recordCheck(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Amount      string `json:"amount"`
		CheckNumber string `json:"check_number"`
		BankName    string `json:"bank_name"`
		IssueDate   string `json:"issue_date"`
		DueDate     string `json:"due_date"`
		Notes       string `json:"notes"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil || !amount.IsPositive() {
		writeError(w, r, "invalid amount", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if body.CheckNumber == "" {
		writeError(w, r, "check_number is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	issueDate, err := time.Parse("2006-01-02", body.IssueDate)
	if err != nil {
		writeError(w, r, "invalid issue_date (expected YYYY-MM-DD)", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	dueDate, err := time.Parse("2006-01-02", body.DueDate)
	if err != nil {
		writeError(w, r, "invalid due_date (expected YYYY-MM-DD)", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.RecordCheck(r.Context(), core.RecordCheckInput{
		DealerCode:  dealerCode(r),
		Amount:      amount,
		CheckNumber: body.CheckNumber,
		BankName:    body.BankName,
		IssueDate:   issueDate,
		DueDate:     dueDate,
		Notes:       body.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Check)
}

// updateCheckStatus handles PATCH /api/checks/{id}/status.
// Body: { status }
func (h *Handler) updateCheckStatus(w http.ResponseWriter, r *http.Request) {
	checkID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "invalid check ID", "BAD_REQUEST", http.StatusBadRequest)
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

	result, err := h.svc.UpdateCheckStatus(r.Context(), checkID, body.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Check)
}

// salesReport handles GET /api/reports/sales.
func (h *Handler) salesReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetSalesReport(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// dealerBalances handles GET /api/reports/balances.
func (h *Handler) dealerBalances(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetDealerBalances(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Balances)
}
