package sqlstore

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL DEFAULT '',
		message VARCHAR(4000) NOT NULL DEFAULT '',
		creation_date TIMESTAMPTZ NOT NULL,
		last_modification_date TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notification_performances (
		id BIGSERIAL PRIMARY KEY,
		notification_id BIGINT NOT NULL REFERENCES notifications(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		impressions INTEGER NOT NULL,
		clicks INTEGER NOT NULL,
		conversions INTEGER NOT NULL,
		ctr DECIMAL(6,4) NOT NULL,
		cvr DECIMAL(6,4) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_performances_notification_date
		ON notification_performances(notification_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_performances_date
		ON notification_performances(date)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		creation_date TIMESTAMP NOT NULL,
		last_modification_date TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notification_performances (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		notification_id INTEGER NOT NULL REFERENCES notifications(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		impressions INTEGER NOT NULL,
		clicks INTEGER NOT NULL,
		conversions INTEGER NOT NULL,
		ctr TEXT NOT NULL,
		cvr TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_performances_notification_date
		ON notification_performances(notification_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_performances_date
		ON notification_performances(date)`,
}

// Migrate creates the tables and indexes if they don't already exist.
// Safe to call on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if s.dialect == Postgres {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	logrus.WithField("dialect", s.dialect).Info("database migrations completed")
	return nil
}
