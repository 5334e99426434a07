package canon

import (
	"listing_resolver/models"
)

// Mark runs the dedup gate over a batch of resolved results against one
// audience's delivery history. Canonical-URL matches are checked before
// id matches; a result with no usable URL and no match stays "new".
func Mark(results []*models.ResolvedResult, history *models.SentHistory) {
	if history == nil {
		return
	}

	for _, r := range results {
		if r.ListingURL == "" {
			continue
		}

		canonical, id := Canonicalize(r.ListingURL)
		r.Canonical = canonical
		r.ListingID = id

		if canonical != "" && history.Canon[canonical] {
			r.AlreadySent = true
			r.DupReason = "canonical"
			if info, ok := history.CanonInfo[canonical]; ok {
				t := info.SentAt
				r.PriorSentAt = &t
				r.PriorURL = info.URL
			}
			continue
		}

		if id != "" && history.IDs[id] {
			r.AlreadySent = true
			r.DupReason = "id"
			if info, ok := history.IDInfo[id]; ok {
				t := info.SentAt
				r.PriorSentAt = &t
				r.PriorURL = info.URL
			}
		}
	}
}
