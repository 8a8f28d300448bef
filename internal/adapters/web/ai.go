package web

import (
	"net/http"

	"github.com/orhanozan33/baharat-sub000/internal/core"
)

// aiInterpret handles POST /api/ai/interpret. The note is interpreted into
// a payment proposal; nothing is recorded by this endpoint.
// Body: { text }
func (h *Handler) aiInterpret(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Text == "" {
		writeError(w, r, "text is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.InterpretPayment(r.Context(), body.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// aiConfirm handles POST /api/ai/confirm. The client posts back the proposal
// exactly as returned by /api/ai/interpret after the user approved it.
func (h *Handler) aiConfirm(w http.ResponseWriter, r *http.Request) {
	var proposal core.PaymentProposal
	if !decodeJSON(w, r, &proposal) {
		return
	}

	result, err := h.svc.ConfirmPaymentProposal(r.Context(), proposal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result.Payment)
}
