package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
	"github.com/Volodapatik/cherkasy-outage-watcher/migrations"
)

// maxSubscriptions caps the subscription table; the oldest endpoints are
// evicted first once the cap is exceeded. Variable so tests can lower it.
var maxSubscriptions = 500

// SQLite implements SubscriptionStore backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Up(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Upsert inserts a subscription or refreshes the keys of an existing
// endpoint, then evicts the oldest subscriptions beyond the cap.
func (s *SQLite) Upsert(ctx context.Context, sub model.PushSubscription) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (endpoint, p256dh, auth)
		 VALUES (?, ?, ?)
		 ON CONFLICT(endpoint) DO UPDATE SET p256dh = excluded.p256dh, auth = excluded.auth`,
		sub.Endpoint, sub.P256dh, sub.Auth,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE endpoint NOT IN (
		   SELECT endpoint FROM subscriptions ORDER BY created_at DESC, endpoint DESC LIMIT ?
		 )`, maxSubscriptions,
	)
	if err != nil {
		return fmt.Errorf("trim subscriptions: %w", err)
	}
	return nil
}

// Remove deletes a subscription by its endpoint.
func (s *SQLite) Remove(ctx context.Context, endpoint string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE endpoint = ?`, endpoint)
	if err != nil {
		return fmt.Errorf("remove subscription: %w", err)
	}
	return nil
}

// List returns all subscriptions, oldest first.
func (s *SQLite) List(ctx context.Context) ([]model.PushSubscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT endpoint, p256dh, auth FROM subscriptions ORDER BY created_at, endpoint`,
	)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subs []model.PushSubscription
	for rows.Next() {
		var sub model.PushSubscription
		if err := rows.Scan(&sub.Endpoint, &sub.P256dh, &sub.Auth); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
