package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/notifperf-api/internal/domain"
)

const notificationColumns = `id, name, message, creation_date, last_modification_date`

// NotificationRepo provides typed SQL operations for the notifications table.
type NotificationRepo struct {
	store *Store
}

func NewNotificationRepo(store *Store) *NotificationRepo {
	return &NotificationRepo{store: store}
}

func (r *NotificationRepo) List(ctx context.Context) ([]domain.Notification, error) {
	rows, err := r.store.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := scanNotification(rows, &n); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepo) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	row := r.store.db.QueryRowContext(ctx, r.store.rebind(
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`), id)

	var n domain.Notification
	if err := scanNotification(row, &n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &n, nil
}

// Create inserts n and sets n.ID to the generated key.
func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	err := r.store.db.QueryRowContext(ctx, r.store.rebind(
		`INSERT INTO notifications (name, message, creation_date, last_modification_date)
		 VALUES (?, ?, ?, ?) RETURNING id`),
		n.Name, n.Message,
		r.store.formatTimestamp(n.CreationDate),
		r.store.formatTimestamp(n.LastModificationDate),
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) Update(ctx context.Context, n *domain.Notification) error {
	res, err := r.store.db.ExecContext(ctx, r.store.rebind(
		`UPDATE notifications SET name = ?, message = ?, last_modification_date = ? WHERE id = ?`),
		n.Name, n.Message, r.store.formatTimestamp(n.LastModificationDate), n.ID,
	)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	return expectAffected(res, n.ID)
}

// Delete removes the notification; its performance records go with it.
func (r *NotificationRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.store.db.ExecContext(ctx, r.store.rebind(
		`DELETE FROM notifications WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return expectAffected(res, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNotification(row rowScanner, n *domain.Notification) error {
	return row.Scan(&n.ID, &n.Name, &n.Message,
		timestamp{&n.CreationDate}, timestamp{&n.LastModificationDate})
}

func expectAffected(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
