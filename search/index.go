package search

import (
	"log"
	"strings"

	"github.com/meilisearch/meilisearch-go"

	"listing_resolver/config"
)

// Recognized document fields that may carry a listing URL, tried in order.
var urlFieldNames = []string{"url", "listing_url", "zillow_url", "link"}

// IndexClient queries the optional external document index. Its top hit is
// trusted without page confirmation; the index's own relevance ranking is
// the confirmation.
type IndexClient struct {
	cli       meilisearch.ServiceManager
	indexName string
	topN      int
	domain    string
}

// NewIndexClient returns nil when no index host is configured; the resolver
// treats a nil client as "strategy absent".
func NewIndexClient(cfg config.IndexConfig, domain string) *IndexClient {
	if cfg.Host == "" {
		return nil
	}
	topN := cfg.TopN
	if topN <= 0 {
		topN = 3
	}
	return &IndexClient{
		cli:       meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey)),
		indexName: cfg.IndexName,
		topN:      topN,
		domain:    domain,
	}
}

// LookupListingURL searches the index for the composed address and returns
// the first hit carrying a listing URL on the target domain, or "".
func (c *IndexClient) LookupListingURL(address string) string {
	if c == nil || strings.TrimSpace(address) == "" {
		return ""
	}

	resp, err := c.cli.Index(c.indexName).Search(address, &meilisearch.SearchRequest{
		Limit: int64(c.topN),
	})
	if err != nil {
		log.Printf("Index: search failed: %v", err)
		return ""
	}

	for _, hit := range resp.Hits {
		doc, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		for _, field := range urlFieldNames {
			v, ok := doc[field]
			if !ok {
				continue
			}
			u, ok := v.(string)
			if !ok || u == "" {
				continue
			}
			if c.domain == "" || onDomain(u, c.domain) {
				return u
			}
		}
	}
	return ""
}
