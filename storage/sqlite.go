package storage

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"listing_resolver/models"
)

// SQLiteStore is the local history store used when no Postgres DSN is
// configured. Same contract as PostgresStore.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sent_links (
		id TEXT PRIMARY KEY,
		audience TEXT NOT NULL,
		campaign TEXT,
		url TEXT NOT NULL,
		canonical TEXT,
		listing_id TEXT,
		mls_id TEXT,
		address TEXT,
		sent_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sent_links_audience ON sent_links(audience);`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) History(ctx context.Context, audience string) (*models.SentHistory, error) {
	query := `
		SELECT id, audience, campaign, url, canonical, listing_id, mls_id, address, sent_at
		FROM sent_links
		WHERE audience = ?
		ORDER BY sent_at`

	rows, err := s.db.QueryContext(ctx, query, audience)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := models.NewSentHistory()
	for rows.Next() {
		var rec models.SentRecord
		if err := rows.Scan(
			&rec.ID, &rec.Audience, &rec.Campaign, &rec.URL, &rec.Canonical,
			&rec.ListingID, &rec.MLSID, &rec.Address, &rec.SentAt,
		); err != nil {
			return nil, err
		}
		history.Add(&rec)
	}
	return history, rows.Err()
}

func (s *SQLiteStore) AppendSent(ctx context.Context, records []*models.SentRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sent_links (id, audience, campaign, url, canonical, listing_id, mls_id, address, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.ID.String(), rec.Audience, rec.Campaign, rec.URL, rec.Canonical,
			rec.ListingID, rec.MLSID, rec.Address, rec.SentAt,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}
