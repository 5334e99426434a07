package canon

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"listing_resolver/models"
)

func historyWith(records ...*models.SentRecord) *models.SentHistory {
	h := models.NewSentHistory()
	for _, r := range records {
		h.Add(r)
	}
	return h
}

func TestMark_CanonicalBeforeID(t *testing.T) {
	sentAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	history := historyWith(&models.SentRecord{
		ID:        uuid.New(),
		Audience:  "buyers",
		URL:       "https://www.zillow.com/homedetails/14-Oak-St/123456_zpid/",
		Canonical: "https://www.zillow.com/homedetails/123456_zpid",
		ListingID: "123456",
		SentAt:    sentAt,
	})

	results := []*models.ResolvedResult{
		{ListingURL: "https://www.zillow.com/homedetails/14-Oak-St/123456_zpid/?utm=x"},
	}
	Mark(results, history)

	r := results[0]
	if !r.AlreadySent {
		t.Fatalf("expected duplicate")
	}
	if r.DupReason != "canonical" {
		t.Fatalf("expected canonical reason, got %q", r.DupReason)
	}
	if r.PriorSentAt == nil || !r.PriorSentAt.Equal(sentAt) {
		t.Fatalf("prior sent time not attached: %v", r.PriorSentAt)
	}
	if r.PriorURL != "https://www.zillow.com/homedetails/14-Oak-St/123456_zpid/" {
		t.Fatalf("prior url not attached: %q", r.PriorURL)
	}
}

func TestMark_SlugChangeStillCanonicalMatch(t *testing.T) {
	// The site rewrites slugs when a listing's address display changes;
	// the canonical key survives that.
	history := historyWith(&models.SentRecord{
		ID:        uuid.New(),
		URL:       "https://www.zillow.com/homedetails/old-slug/123456_zpid/",
		Canonical: "https://www.zillow.com/homedetails/123456_zpid",
		ListingID: "123456",
		SentAt:    time.Now(),
	})

	results := []*models.ResolvedResult{
		{ListingURL: "https://www.zillow.com/homedetails/renamed-slug/123456_zpid/"},
	}
	Mark(results, history)

	if !results[0].AlreadySent {
		t.Fatalf("expected duplicate across slug change")
	}
	if results[0].DupReason != "canonical" {
		t.Fatalf("expected canonical reason, got %q", results[0].DupReason)
	}
}

func TestMark_IDMatchWhenCanonicalAbsent(t *testing.T) {
	// History rows imported from older exports carry only the listing id.
	history := historyWith(&models.SentRecord{
		ID:        uuid.New(),
		URL:       "https://www.zillow.com/homedetails/old-slug/123456_zpid/",
		ListingID: "123456",
		SentAt:    time.Now(),
	})

	results := []*models.ResolvedResult{
		{ListingURL: "https://www.zillow.com/homedetails/renamed-slug/123456_zpid/"},
	}
	Mark(results, history)

	if !results[0].AlreadySent {
		t.Fatalf("expected duplicate by id")
	}
	if results[0].DupReason != "id" {
		t.Fatalf("expected id reason, got %q", results[0].DupReason)
	}
}

func TestMark_NoMatchStaysNew(t *testing.T) {
	history := historyWith(&models.SentRecord{
		ID:        uuid.New(),
		URL:       "https://www.zillow.com/homedetails/other/777_zpid/",
		Canonical: "https://www.zillow.com/homedetails/777_zpid",
		ListingID: "777",
		SentAt:    time.Now(),
	})

	results := []*models.ResolvedResult{
		{ListingURL: "https://www.zillow.com/homedetails/new-one/888_zpid/"},
		{ListingURL: ""},
	}
	Mark(results, history)

	if results[0].AlreadySent {
		t.Fatalf("unrelated listing marked duplicate")
	}
	if results[0].ListingID != "888" {
		t.Fatalf("canonical identity not attached: %q", results[0].ListingID)
	}
	if results[1].AlreadySent || results[1].Canonical != "" {
		t.Fatalf("URL-less result must stay new and untouched")
	}
}

func TestMark_NilHistory(t *testing.T) {
	results := []*models.ResolvedResult{{ListingURL: "https://example.test/x"}}
	Mark(results, nil)
	if results[0].AlreadySent {
		t.Fatalf("nil history should mark nothing")
	}
}
