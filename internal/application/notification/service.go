package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/notifperf-api/internal/domain"
)

type Service interface {
	List(ctx context.Context) ([]domain.Notification, error)
	Get(ctx context.Context, id int64) (*domain.Notification, error)
	Create(ctx context.Context, input domain.NotificationInput) (*domain.Notification, error)
	Update(ctx context.Context, id int64, input domain.NotificationInput) (*domain.Notification, error)
	Delete(ctx context.Context, id int64) error
}

// notificationStore is the subset of a notification repository the service needs.
// Get, Update and Delete return an error wrapping domain.ErrNotFound for unknown ids.
type notificationStore interface {
	List(ctx context.Context) ([]domain.Notification, error)
	Get(ctx context.Context, id int64) (*domain.Notification, error)
	Create(ctx context.Context, n *domain.Notification) error
	Update(ctx context.Context, n *domain.Notification) error
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo notificationStore
	now  func() time.Time
}

// Option customises a Service.
type Option func(*service)

// WithClock replaces time.Now as the source of creation and modification timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(repo notificationStore, opts ...Option) Service {
	s := &service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp is truncated to microseconds so the value handed back to the caller
// is the value the store round-trips.
func (s *service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *service) List(ctx context.Context) ([]domain.Notification, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) Create(ctx context.Context, input domain.NotificationInput) (*domain.Notification, error) {
	now := s.timestamp()
	n := &domain.Notification{
		Name:                 input.Name,
		Message:              input.Message,
		CreationDate:         now,
		LastModificationDate: now,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

func (s *service) Update(ctx context.Context, id int64, input domain.NotificationInput) (*domain.Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Name = input.Name
	n.Message = input.Message
	n.LastModificationDate = s.timestamp()
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
