package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"listing_resolver/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 5
	config.MinConns = 1
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sent_links (
		id UUID PRIMARY KEY,
		audience TEXT NOT NULL,
		campaign TEXT,
		url TEXT NOT NULL,
		canonical TEXT,
		listing_id TEXT,
		mls_id TEXT,
		address TEXT,
		sent_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sent_links_audience ON sent_links(audience);
	CREATE INDEX IF NOT EXISTS idx_sent_links_canonical ON sent_links(audience, canonical);`

	_, err := s.pool.Exec(ctx, schema)
	return err
}

// History loads the full delivery view for one audience. History rows are
// append-only, so the most recent delivery per key wins for metadata.
func (s *PostgresStore) History(ctx context.Context, audience string) (*models.SentHistory, error) {
	query := `
		SELECT id, audience, campaign, url, canonical, listing_id, mls_id, address, sent_at
		FROM sent_links
		WHERE audience = $1
		ORDER BY sent_at`

	rows, err := s.pool.Query(ctx, query, audience)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	history := models.NewSentHistory()
	for rows.Next() {
		var rec models.SentRecord
		if err := rows.Scan(
			&rec.ID, &rec.Audience, &rec.Campaign, &rec.URL, &rec.Canonical,
			&rec.ListingID, &rec.MLSID, &rec.Address, &rec.SentAt,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		history.Add(&rec)
	}
	return history, rows.Err()
}

// AppendSent records a batch of deliveries. No update path: reconciling
// duplicate rows is an offline maintenance concern.
func (s *PostgresStore) AppendSent(ctx context.Context, records []*models.SentRecord) error {
	query := `
		INSERT INTO sent_links (id, audience, campaign, url, canonical, listing_id, mls_id, address, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, rec := range records {
		if _, err := s.pool.Exec(ctx, query,
			rec.ID, rec.Audience, rec.Campaign, rec.URL, rec.Canonical,
			rec.ListingID, rec.MLSID, rec.Address, rec.SentAt,
		); err != nil {
			return fmt.Errorf("insert sent link: %w", err)
		}
	}
	return nil
}
