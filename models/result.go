package models

import "time"

// ResolvedResult is the per-row output of the resolution pipeline. The
// resolver fills the input/URL/note fields; the dedup gate adds the
// canonical identity and already-sent markers; the enrichment stage fills
// the listing detail fields.
type ResolvedResult struct {
	InputAddress string `json:"input_address"`
	MLSID        string `json:"mls_id"`
	ListingURL   string `json:"listing_url"`
	Note         string `json:"note"`

	// Which strategy produced ListingURL: "mls", "index", "variant", "deeplink".
	Strategy string `json:"strategy,omitempty"`

	// Dedup gate output
	Canonical   string     `json:"canonical,omitempty"`
	ListingID   string     `json:"listing_id,omitempty"`
	AlreadySent bool       `json:"already_sent"`
	DupReason   string     `json:"dup_reason,omitempty"` // "canonical" or "id"
	PriorSentAt *time.Time `json:"prior_sent_at,omitempty"`
	PriorURL    string     `json:"prior_url,omitempty"`

	// Enrichment output (best effort)
	Price       string `json:"price,omitempty"`
	Beds        string `json:"beds,omitempty"`
	Baths       string `json:"baths,omitempty"`
	Description string `json:"description,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// Confirmed reports whether the result carries a confirmed listing URL
// rather than a last-resort deeplink.
func (r *ResolvedResult) Confirmed() bool {
	return r.ListingURL != "" && r.Strategy != "deeplink" && r.Strategy != ""
}
