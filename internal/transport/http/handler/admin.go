package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/go-review-api/internal/application/admin"
	"github.com/go-review-api/internal/pkg/validate"
)

// AdminHandler exposes the operator endpoints behind JWT auth.
type AdminHandler struct {
	svc admin.Service
}

func NewAdminHandler(svc admin.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req admin.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error())
		return
	}
	result, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.svc.ListPending(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, reviews)
}

func (h *AdminHandler) AuditTail(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.svc.AuditTail(r.Context(), limit)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

func (h *AdminHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) TriggerSweep(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.TriggerSweep(r.Context()); err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
