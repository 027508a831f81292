package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-review-api/internal/application/review"
	"github.com/go-review-api/internal/pkg/validate"
)

// ReviewHandler handles public submission and listing endpoints.
type ReviewHandler struct {
	svc review.Service
}

func NewReviewHandler(svc review.Service) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req review.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error())
		return
	}
	result, err := h.svc.Submit(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusAccepted, result)
}

func (h *ReviewHandler) ListVerified(w http.ResponseWriter, r *http.Request) {
	listing, err := h.svc.ListVerified(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, listing)
}
