package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"listing_resolver/cache"
	"listing_resolver/httputil"
	"listing_resolver/models"
)

// Enricher fetches resolved detail pages and fills in price/beds/baths/
// description/photo. Read-only and side-effect free per result, so it runs
// with a bounded concurrent fan-out: each fetch targets a distinct already-
// resolved URL and writes to a disjoint result slot.
type Enricher struct {
	client *retryablehttp.Client
	cache  *cache.Cache
}

func NewEnricher(c *cache.Cache) *Enricher {
	return &Enricher{
		client: httputil.NewRetryable(20 * time.Second),
		cache:  c,
	}
}

const maxEnrichBody = 4 << 20

// EnrichAll enriches every confirmed result in place. Deeplink fallbacks
// are skipped: a search page has no single listing to describe.
func (e *Enricher) EnrichAll(ctx context.Context, results []*models.ResolvedResult, concurrency int) {
	if concurrency <= 0 {
		concurrency = 6
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, r := range results {
		if !r.Confirmed() {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(r *models.ResolvedResult) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := e.enrichOne(ctx, r); err != nil {
				log.Printf("Enrichment: %s: %v", r.ListingURL, err)
			}
		}(r)
	}

	wg.Wait()
}

func (e *Enricher) enrichOne(ctx context.Context, r *models.ResolvedResult) error {
	key := "enrich:" + r.InputAddress + "|" + r.ListingURL

	raw, err := e.cache.GetOrCompute(ctx, key, func() (string, error) {
		facts, err := e.fetchFacts(ctx, r.ListingURL)
		if err != nil {
			return "", err
		}
		data, err := json.Marshal(facts)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})
	if err != nil {
		return err
	}

	var facts ListingFacts
	if err := json.Unmarshal([]byte(raw), &facts); err != nil {
		return fmt.Errorf("decode cached facts: %w", err)
	}

	r.Price = facts.Price
	r.Beds = facts.Beds
	r.Baths = facts.Baths
	r.Description = facts.Description
	r.PhotoURL = facts.PhotoURL
	return nil
}

func (e *Enricher) fetchFacts(ctx context.Context, pageURL string) (*ListingFacts, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httputil.BrowserHeaders(req.Request)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEnrichBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	facts, source := ExtractFacts(string(body), pageURL)
	if source != "" {
		log.Printf("Enrichment: %s extracted via %s", pageURL, source)
	}
	return facts, nil
}
