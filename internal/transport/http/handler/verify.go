package handler

import (
	"net/http"

	"github.com/go-review-api/internal/application/verify"
)

// VerifyHandler handles the email verification endpoint.
type VerifyHandler struct {
	svc verify.Service
}

func NewVerifyHandler(svc verify.Service) *VerifyHandler {
	return &VerifyHandler{svc: svc}
}

// Verify handles GET /api/reviews/verify?token=<64-hex>&email=<optional>.
// All input arrives in the query string because the link lands in an email
// client.
func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.Verify(r.Context(), q.Get("token"), q.Get("email"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}
