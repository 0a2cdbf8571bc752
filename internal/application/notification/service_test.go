package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/notifperf-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) List(ctx context.Context) ([]domain.Notification, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *mockNotificationStore) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockNotificationStore) Update(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockNotificationStore) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// --- helpers ---

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 123456789, time.UTC)

func newSvc(store *mockNotificationStore) Service {
	return NewService(store, WithClock(func() time.Time { return fixedNow }))
}

func notFound(id int64) error {
	return fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
}

// --- Create ---

func TestCreate_StampsBothTimestamps(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Notification).ID = 7 }).
		Return(nil)

	n, err := newSvc(store).Create(context.Background(), domain.NotificationInput{Name: "promo", Message: "hello"})
	require.NoError(t, err)

	assert.Equal(t, int64(7), n.ID)
	assert.Equal(t, "promo", n.Name)
	assert.Equal(t, "hello", n.Message)
	want := fixedNow.Truncate(time.Microsecond)
	assert.True(t, n.CreationDate.Equal(want))
	assert.True(t, n.CreationDate.Equal(n.LastModificationDate))
	store.AssertExpectations(t)
}

func TestCreate_StoreError(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := newSvc(store).Create(context.Background(), domain.NotificationInput{Name: "x"})
	assert.ErrorContains(t, err, "db down")
}

func TestCreate_DefaultClockIsNow(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("Create", mock.Anything, mock.Anything).Return(nil)

	before := time.Now().Add(-time.Second)
	n, err := NewService(store).Create(context.Background(), domain.NotificationInput{Name: "x"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), n.CreationDate, 2*time.Second)
	assert.True(t, n.CreationDate.After(before))
}

// --- Update ---

func TestUpdate_ReplacesNameMessageAndModificationDate(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &domain.Notification{ID: 3, Name: "old", Message: "old msg", CreationDate: created, LastModificationDate: created}

	store := &mockNotificationStore{}
	store.On("Get", mock.Anything, int64(3)).Return(existing, nil)
	store.On("Update", mock.Anything, existing).Return(nil)

	n, err := newSvc(store).Update(context.Background(), 3, domain.NotificationInput{Name: "new", Message: "new msg"})
	require.NoError(t, err)

	assert.Equal(t, int64(3), n.ID)
	assert.Equal(t, "new", n.Name)
	assert.Equal(t, "new msg", n.Message)
	assert.True(t, n.CreationDate.Equal(created))
	assert.True(t, n.LastModificationDate.Equal(fixedNow.Truncate(time.Microsecond)))
	store.AssertExpectations(t)
}

func TestUpdate_NotFound_NoMutation(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("Get", mock.Anything, int64(99)).Return(nil, notFound(99))

	_, err := newSvc(store).Update(context.Background(), 99, domain.NotificationInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// --- Delete ---

func TestDelete_Existing(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("Delete", mock.Anything, int64(5)).Return(nil)

	require.NoError(t, newSvc(store).Delete(context.Background(), 5))
	store.AssertExpectations(t)
}

func TestDelete_NotFound(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("Delete", mock.Anything, int64(5)).Return(notFound(5))

	err := newSvc(store).Delete(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// --- List / Get ---

func TestList_PassesThrough(t *testing.T) {
	want := []domain.Notification{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	store := &mockNotificationStore{}
	store.On("List", mock.Anything).Return(want, nil)

	got, err := newSvc(store).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGet_NotFound(t *testing.T) {
	store := &mockNotificationStore{}
	store.On("Get", mock.Anything, int64(4)).Return(nil, notFound(4))

	_, err := newSvc(store).Get(context.Background(), 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
