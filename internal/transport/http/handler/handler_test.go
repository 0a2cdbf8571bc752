package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/notifperf-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// --- mocks ---

type mockNotificationSvc struct{ mock.Mock }

func (m *mockNotificationSvc) List(ctx context.Context) ([]domain.Notification, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).([]domain.Notification)
	return n, args.Error(1)
}
func (m *mockNotificationSvc) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationSvc) Create(ctx context.Context, input domain.NotificationInput) (*domain.Notification, error) {
	args := m.Called(ctx, input)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationSvc) Update(ctx context.Context, id int64, input domain.NotificationInput) (*domain.Notification, error) {
	args := m.Called(ctx, id, input)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationSvc) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockPerformanceSvc struct{ mock.Mock }

func (m *mockPerformanceSvc) Generate(ctx context.Context) (*domain.GenerationReport, error) {
	args := m.Called(ctx)
	if rep, _ := args.Get(0).(*domain.GenerationReport); rep != nil {
		return rep, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPerformanceSvc) GetMetrics(ctx context.Context, start, end domain.Date) ([]domain.NotificationPerformance, error) {
	args := m.Called(ctx, start, end)
	p, _ := args.Get(0).([]domain.NotificationPerformance)
	return p, args.Error(1)
}
func (m *mockPerformanceSvc) GetNotificationMetrics(ctx context.Context, id int64, start, end domain.Date) ([]domain.NotificationPerformance, error) {
	args := m.Called(ctx, id, start, end)
	p, _ := args.Get(0).([]domain.NotificationPerformance)
	return p, args.Error(1)
}
func (m *mockPerformanceSvc) Summarize(ctx context.Context, start, end domain.Date) ([]domain.PerformanceSummary, error) {
	args := m.Called(ctx, start, end)
	s, _ := args.Get(0).([]domain.PerformanceSummary)
	return s, args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

// --- helpers ---

// withChiID injects a chi URL param "id" into the request context.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
