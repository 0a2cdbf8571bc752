package handler

import (
	"encoding/json"
	"net/http"

	"github.com/notifperf-api/internal/application/notification"
	"github.com/notifperf-api/internal/domain"
	"github.com/notifperf-api/internal/pkg/validate"
)

// NotificationHandler handles notification CRUD endpoints.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpError(w, r, err)
		return
	}
	n, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}
	n, err := h.svc.Create(r.Context(), input)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpError(w, r, err)
		return
	}
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}
	n, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeInput reads the client-writable fields of a notification body. Unknown
// fields such as id or the timestamps are ignored.
func decodeInput(w http.ResponseWriter, r *http.Request) (domain.NotificationInput, bool) {
	var input domain.NotificationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return input, false
	}
	if err := validate.Struct(input); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return input, false
	}
	return input, true
}
