package models

import (
	"time"

	"github.com/google/uuid"
)

// SentRecord is one row of the audience-history store: a listing link that
// was delivered to an audience as part of a campaign.
type SentRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Audience  string    `json:"audience" db:"audience"`
	Campaign  string    `json:"campaign" db:"campaign"`
	URL       string    `json:"url" db:"url"`
	Canonical string    `json:"canonical" db:"canonical"`
	ListingID string    `json:"listing_id" db:"listing_id"`
	MLSID     string    `json:"mls_id" db:"mls_id"`
	Address   string    `json:"address" db:"address"`
	SentAt    time.Time `json:"sent_at" db:"sent_at"`
}

// SentInfo is the most recent delivery metadata for one dedup key.
type SentInfo struct {
	URL    string
	SentAt time.Time
}

// SentHistory is the per-audience view the dedup gate consults: the sets of
// previously delivered canonical URLs and listing ids, plus most-recent
// metadata per key.
type SentHistory struct {
	Canon     map[string]bool
	IDs       map[string]bool
	CanonInfo map[string]SentInfo
	IDInfo    map[string]SentInfo
}

// NewSentHistory returns an empty history. An empty history marks nothing
// as duplicate, which is the degraded behavior when no store is configured.
func NewSentHistory() *SentHistory {
	return &SentHistory{
		Canon:     make(map[string]bool),
		IDs:       make(map[string]bool),
		CanonInfo: make(map[string]SentInfo),
		IDInfo:    make(map[string]SentInfo),
	}
}

// Add records one prior delivery into the history view.
func (h *SentHistory) Add(rec *SentRecord) {
	if rec.Canonical != "" {
		h.Canon[rec.Canonical] = true
		if prev, ok := h.CanonInfo[rec.Canonical]; !ok || rec.SentAt.After(prev.SentAt) {
			h.CanonInfo[rec.Canonical] = SentInfo{URL: rec.URL, SentAt: rec.SentAt}
		}
	}
	if rec.ListingID != "" {
		h.IDs[rec.ListingID] = true
		if prev, ok := h.IDInfo[rec.ListingID]; !ok || rec.SentAt.After(prev.SentAt) {
			h.IDInfo[rec.ListingID] = SentInfo{URL: rec.URL, SentAt: rec.SentAt}
		}
	}
}
