package handler

import (
	"net/http"

	"github.com/notifperf-api/internal/application/performance"
)

// PerformanceHandler handles metric generation and retrieval endpoints.
type PerformanceHandler struct {
	svc performance.Service
}

func NewPerformanceHandler(svc performance.Service) *PerformanceHandler {
	return &PerformanceHandler{svc: svc}
}

// Generate answers 201 with an empty body once the batch is stored.
func (h *PerformanceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Generate(r.Context()); err != nil {
		httpError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *PerformanceHandler) List(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		httpError(w, r, err)
		return
	}
	records, err := h.svc.GetMetrics(r.Context(), start, end)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *PerformanceHandler) ListForNotification(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpError(w, r, err)
		return
	}
	start, end, err := parseDateRange(r)
	if err != nil {
		httpError(w, r, err)
		return
	}
	records, err := h.svc.GetNotificationMetrics(r.Context(), id, start, end)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *PerformanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		httpError(w, r, err)
		return
	}
	summaries, err := h.svc.Summarize(r.Context(), start, end)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}
