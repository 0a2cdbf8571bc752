package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/notifperf-api/internal/domain"
	"github.com/notifperf-api/internal/pkg/id"
	"github.com/sirupsen/logrus"
)

type Service interface {
	// Generate synthesizes one record per notification per day of the trailing
	// window and persists them as one batch. Repeated calls append duplicates.
	Generate(ctx context.Context) (*domain.GenerationReport, error)
	GetMetrics(ctx context.Context, start, end domain.Date) ([]domain.NotificationPerformance, error)
	GetNotificationMetrics(ctx context.Context, notificationID int64, start, end domain.Date) ([]domain.NotificationPerformance, error)
	Summarize(ctx context.Context, start, end domain.Date) ([]domain.PerformanceSummary, error)
}

type notificationStore interface {
	List(ctx context.Context) ([]domain.Notification, error)
	Get(ctx context.Context, id int64) (*domain.Notification, error)
}

// performanceStore persists and queries performance records. Range reads are
// inclusive on both ends and ordered by notification id, then record id.
type performanceStore interface {
	SaveAll(ctx context.Context, records []domain.NotificationPerformance) error
	FindByDateRange(ctx context.Context, start, end domain.Date) ([]domain.NotificationPerformance, error)
	FindByNotificationAndDateRange(ctx context.Context, notificationID int64, start, end domain.Date) ([]domain.NotificationPerformance, error)
	SummarizeByDateRange(ctx context.Context, start, end domain.Date) ([]domain.PerformanceSummary, error)
}

// EventPublisher is notified after a generation batch has been persisted.
type EventPublisher interface {
	PublishGeneration(ctx context.Context, report domain.GenerationReport) error
}

type service struct {
	notifications notificationStore
	performances  performanceStore
	rng           RandomSource
	now           func() time.Time
	loc           *time.Location
	publisher     EventPublisher
}

// Option customises a Service.
type Option func(*service)

func WithRandomSource(rng RandomSource) Option { return func(s *service) { s.rng = rng } }

func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

// WithLocation sets the zone in which "today" is evaluated. Defaults to UTC.
func WithLocation(loc *time.Location) Option { return func(s *service) { s.loc = loc } }

func WithPublisher(p EventPublisher) Option { return func(s *service) { s.publisher = p } }

func NewService(notifications notificationStore, performances performanceStore, opts ...Option) Service {
	s := &service{
		notifications: notifications,
		performances:  performances,
		rng:           processSource{},
		now:           time.Now,
		loc:           time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Generate(ctx context.Context) (*domain.GenerationReport, error) {
	now := s.now()
	start, end := Window(domain.DateOf(now.In(s.loc)))

	notifications, err := s.notifications.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	days := start.DaysUntil(end) + 1
	records := make([]domain.NotificationPerformance, 0, len(notifications)*days)
	for _, n := range notifications {
		for d := start; !d.After(end); d = d.AddDays(1) {
			records = append(records, dailyMetrics(s.rng, n, d))
		}
	}

	if len(records) > 0 {
		if err := s.performances.SaveAll(ctx, records); err != nil {
			return nil, fmt.Errorf("save performance batch: %w", err)
		}
	}

	report := &domain.GenerationReport{
		BatchID:       id.NewAt(now),
		WindowStart:   start,
		WindowEnd:     end,
		Notifications: len(notifications),
		Records:       len(records),
	}
	logrus.WithFields(logrus.Fields{
		"batch_id":      report.BatchID,
		"window_start":  start.String(),
		"window_end":    end.String(),
		"notifications": report.Notifications,
		"records":       report.Records,
	}).Info("performance metrics generated")

	if s.publisher != nil {
		if err := s.publisher.PublishGeneration(ctx, *report); err != nil {
			logrus.WithError(err).WithField("batch_id", report.BatchID).Warn("could not publish generation event")
		}
	}
	return report, nil
}

func (s *service) GetMetrics(ctx context.Context, start, end domain.Date) ([]domain.NotificationPerformance, error) {
	if start.After(end) {
		return []domain.NotificationPerformance{}, nil
	}
	return s.performances.FindByDateRange(ctx, start, end)
}

func (s *service) GetNotificationMetrics(ctx context.Context, notificationID int64, start, end domain.Date) ([]domain.NotificationPerformance, error) {
	if _, err := s.notifications.Get(ctx, notificationID); err != nil {
		return nil, err
	}
	if start.After(end) {
		return []domain.NotificationPerformance{}, nil
	}
	return s.performances.FindByNotificationAndDateRange(ctx, notificationID, start, end)
}

func (s *service) Summarize(ctx context.Context, start, end domain.Date) ([]domain.PerformanceSummary, error) {
	if start.After(end) {
		return []domain.PerformanceSummary{}, nil
	}
	summaries, err := s.performances.SummarizeByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		summaries[i].CTR = domain.NewRate(summaries[i].Clicks, summaries[i].Impressions)
		summaries[i].CVR = domain.NewRate(summaries[i].Conversions, summaries[i].Impressions)
	}
	return summaries, nil
}
