package sqlstore

import (
	"context"
	"fmt"

	"github.com/notifperf-api/internal/domain"
)

const performanceSelect = `SELECT p.id, p.date, p.impressions, p.clicks, p.conversions, p.ctr, p.cvr,
	n.id, n.name, n.message, n.creation_date, n.last_modification_date
FROM notification_performances p
JOIN notifications n ON n.id = p.notification_id`

// PerformanceRepo provides typed SQL operations for the notification_performances table.
type PerformanceRepo struct {
	store *Store
}

func NewPerformanceRepo(store *Store) *PerformanceRepo {
	return &PerformanceRepo{store: store}
}

// SaveAll inserts every record in a single transaction. Either all rows are
// written or none are.
func (r *PerformanceRepo) SaveAll(ctx context.Context, records []domain.NotificationPerformance) (err error) {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, r.store.rebind(
		`INSERT INTO notification_performances
		 (notification_id, date, impressions, clicks, conversions, ctr, cvr)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range records {
		if _, err = stmt.ExecContext(ctx,
			p.Notification.ID, p.Date.String(),
			p.Impressions, p.Clicks, p.Conversions,
			p.CTR.String(), p.CVR.String(),
		); err != nil {
			return fmt.Errorf("insert performance for notification %d on %s: %w", p.Notification.ID, p.Date, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PerformanceRepo) FindByDateRange(ctx context.Context, start, end domain.Date) ([]domain.NotificationPerformance, error) {
	return r.query(ctx,
		performanceSelect+` WHERE p.date BETWEEN ? AND ? ORDER BY p.notification_id, p.id`,
		start.String(), end.String())
}

func (r *PerformanceRepo) FindByNotificationAndDateRange(ctx context.Context, notificationID int64, start, end domain.Date) ([]domain.NotificationPerformance, error) {
	return r.query(ctx,
		performanceSelect+` WHERE p.notification_id = ? AND p.date BETWEEN ? AND ? ORDER BY p.id`,
		notificationID, start.String(), end.String())
}

// SummarizeByDateRange totals counters per notification. CTR and CVR are left
// zero; the caller derives them from the sums.
func (r *PerformanceRepo) SummarizeByDateRange(ctx context.Context, start, end domain.Date) ([]domain.PerformanceSummary, error) {
	rows, err := r.store.db.QueryContext(ctx, r.store.rebind(
		`SELECT n.id, n.name, COUNT(*),
		        COALESCE(SUM(p.impressions), 0), COALESCE(SUM(p.clicks), 0), COALESCE(SUM(p.conversions), 0)
		 FROM notification_performances p
		 JOIN notifications n ON n.id = p.notification_id
		 WHERE p.date BETWEEN ? AND ?
		 GROUP BY n.id, n.name
		 ORDER BY n.id`), start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("summarize performances: %w", err)
	}
	defer rows.Close()

	summaries := []domain.PerformanceSummary{}
	for rows.Next() {
		var s domain.PerformanceSummary
		if err := rows.Scan(&s.NotificationID, &s.NotificationName, &s.Days,
			&s.Impressions, &s.Clicks, &s.Conversions); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *PerformanceRepo) query(ctx context.Context, query string, args ...interface{}) ([]domain.NotificationPerformance, error) {
	rows, err := r.store.db.QueryContext(ctx, r.store.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query performances: %w", err)
	}
	defer rows.Close()

	records := []domain.NotificationPerformance{}
	for rows.Next() {
		var p domain.NotificationPerformance
		n := &p.Notification
		if err := rows.Scan(&p.ID, &p.Date, &p.Impressions, &p.Clicks, &p.Conversions, &p.CTR, &p.CVR,
			&n.ID, &n.Name, &n.Message, timestamp{&n.CreationDate}, timestamp{&n.LastModificationDate}); err != nil {
			return nil, fmt.Errorf("scan performance: %w", err)
		}
		records = append(records, p)
	}
	return records, rows.Err()
}
