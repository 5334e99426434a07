package storage

import (
	"context"

	"listing_resolver/models"
)

// HistoryStore is the audience-history collaborator: read the per-audience
// view of previously delivered links, append new deliveries. The core
// never updates or deletes history rows.
type HistoryStore interface {
	History(ctx context.Context, audience string) (*models.SentHistory, error)
	AppendSent(ctx context.Context, records []*models.SentRecord) error
	Close() error
}
