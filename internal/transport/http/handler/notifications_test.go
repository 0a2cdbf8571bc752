package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/notifperf-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var stamp = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func sample(id int64) *domain.Notification {
	return &domain.Notification{ID: id, Name: "welcome", Message: "hi", CreationDate: stamp, LastModificationDate: stamp}
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var env MessageEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env.Error
}

// --- List ---

func TestList_ReturnsArray(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("List", mock.Anything).Return([]domain.Notification{*sample(1), *sample(2)}, nil)
	h := NewNotificationHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, float64(1), got[0]["id"])
	assert.Equal(t, "2024-03-15T09:30:00Z", got[0]["creationDate"])
	assert.Contains(t, got[0], "lastModificationDate")
}

func TestList_EmptyIsArrayNotNull(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("List", mock.Anything).Return([]domain.Notification{}, nil)
	h := NewNotificationHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestList_StoreFailureIsGeneric500(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("List", mock.Anything).Return(nil, errors.New("pq: connection refused"))
	h := NewNotificationHandler(svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/notifications", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal server error", decodeError(t, rr))
}

// --- Get ---

func TestGet_BadID(t *testing.T) {
	h := NewNotificationHandler(&mockNotificationSvc{})
	for _, id := range []string{"abc", "0", "-3"} {
		rr := httptest.NewRecorder()
		h.Get(rr, withChiID(httptest.NewRequest(http.MethodGet, "/api/notifications/"+id, nil), id))
		assert.Equal(t, http.StatusBadRequest, rr.Code, id)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Get", mock.Anything, int64(9)).Return(nil, fmt.Errorf("notification 9: %w", domain.ErrNotFound))
	h := NewNotificationHandler(svc)

	rr := httptest.NewRecorder()
	h.Get(rr, withChiID(httptest.NewRequest(http.MethodGet, "/api/notifications/9", nil), "9"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "notification 9: not found", decodeError(t, rr))
}

// --- Create ---

func TestCreate_InvalidBody(t *testing.T) {
	svc := &mockNotificationSvc{}
	h := NewNotificationHandler(svc)

	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/notifications", bytes.NewBufferString("not-json")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_ValidationFailure(t *testing.T) {
	svc := &mockNotificationSvc{}
	h := NewNotificationHandler(svc)
	body, _ := json.Marshal(domain.NotificationInput{Name: strings.Repeat("x", 256)})

	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/notifications", bytes.NewReader(body)))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "field 'name' failed 'max=255'", decodeError(t, rr))
}

func TestCreate_IgnoresClientIDAndTimestamps(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Create", mock.Anything, domain.NotificationInput{Name: "welcome", Message: "hi"}).Return(sample(1), nil)
	h := NewNotificationHandler(svc)
	body := `{"id":77,"name":"welcome","message":"hi","creationDate":"1999-01-01T00:00:00Z"}`

	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/notifications", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rr.Code)
	var got domain.Notification
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, int64(1), got.ID)
	assert.True(t, stamp.Equal(got.CreationDate))
	svc.AssertExpectations(t)
}

// --- Update ---

func TestUpdate_HappyPath(t *testing.T) {
	svc := &mockNotificationSvc{}
	updated := sample(4)
	updated.Name = "renamed"
	svc.On("Update", mock.Anything, int64(4), domain.NotificationInput{Name: "renamed"}).Return(updated, nil)
	h := NewNotificationHandler(svc)

	r := withChiID(httptest.NewRequest(http.MethodPut, "/api/notifications/4", strings.NewReader(`{"name":"renamed"}`)), "4")
	rr := httptest.NewRecorder()
	h.Update(rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Update", mock.Anything, int64(4), mock.Anything).Return(nil, domain.ErrNotFound)
	h := NewNotificationHandler(svc)

	r := withChiID(httptest.NewRequest(http.MethodPut, "/api/notifications/4", strings.NewReader(`{}`)), "4")
	rr := httptest.NewRecorder()
	h.Update(rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdate_BadIDBeforeBody(t *testing.T) {
	svc := &mockNotificationSvc{}
	h := NewNotificationHandler(svc)

	r := withChiID(httptest.NewRequest(http.MethodPut, "/api/notifications/x", strings.NewReader(`{}`)), "x")
	rr := httptest.NewRecorder()
	h.Update(rr, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

// --- Delete ---

func TestDelete_NoContent(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Delete", mock.Anything, int64(2)).Return(nil)
	h := NewNotificationHandler(svc)

	rr := httptest.NewRecorder()
	h.Delete(rr, withChiID(httptest.NewRequest(http.MethodDelete, "/api/notifications/2", nil), "2"))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestDelete_NotFound(t *testing.T) {
	svc := &mockNotificationSvc{}
	svc.On("Delete", mock.Anything, int64(2)).Return(fmt.Errorf("notification 2: %w", domain.ErrNotFound))
	h := NewNotificationHandler(svc)

	rr := httptest.NewRecorder()
	h.Delete(rr, withChiID(httptest.NewRequest(http.MethodDelete, "/api/notifications/2", nil), "2"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
