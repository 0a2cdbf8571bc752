package http

import (
	"context"
	"time"

	"github.com/notifperf-api/internal/domain"
	"github.com/notifperf-api/internal/transport/http/middleware"
)

// NotificationRepository is the minimal interface the router requires from a notification store.
type NotificationRepository interface {
	List(ctx context.Context) ([]domain.Notification, error)
	Get(ctx context.Context, id int64) (*domain.Notification, error)
	Create(ctx context.Context, n *domain.Notification) error
	Update(ctx context.Context, n *domain.Notification) error
	Delete(ctx context.Context, id int64) error
}

// PerformanceRepository is the minimal interface the router requires from a performance store.
type PerformanceRepository interface {
	SaveAll(ctx context.Context, records []domain.NotificationPerformance) error
	FindByDateRange(ctx context.Context, start, end domain.Date) ([]domain.NotificationPerformance, error)
	FindByNotificationAndDateRange(ctx context.Context, notificationID int64, start, end domain.Date) ([]domain.NotificationPerformance, error)
	SummarizeByDateRange(ctx context.Context, start, end domain.Date) ([]domain.PerformanceSummary, error)
}

// Pinger is implemented by every store backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GenerationPublisher receives a report after every stored generation batch.
type GenerationPublisher interface {
	PublishGeneration(ctx context.Context, report domain.GenerationReport) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	NotificationRepo NotificationRepository
	PerformanceRepo  PerformanceRepository
	Store            Pinger
	// Optional; nil disables the corresponding feature.
	Publisher   GenerationPublisher
	JWTVerifier middleware.TokenVerifier
	Clock       func() time.Time
}
