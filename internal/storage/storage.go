// Package storage defines the persistence interfaces and their implementations.
package storage

import (
	"context"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
)

// StateStore persists the watcher state between runs. Loads fall back to
// empty values when the underlying documents are missing or corrupt; saves
// replace whole documents atomically.
type StateStore interface {
	LoadLatest() (*model.OutageItem, error)
	LoadHistory() ([]model.OutageItem, error)
	SaveLatest(item *model.OutageItem) error
	SaveHistory(items []model.OutageItem) error
}

// SubscriptionStore persists web-push subscriptions.
type SubscriptionStore interface {
	Upsert(ctx context.Context, sub model.PushSubscription) error
	Remove(ctx context.Context, endpoint string) error
	List(ctx context.Context) ([]model.PushSubscription, error)
	Close() error
}
