// Package search wraps the external web-search API. Everything in here is
// best effort: a missing key, a network error, or a bad response all
// degrade to zero results so the resolver can fall through to its next
// strategy.
package search

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"listing_resolver/config"
)

// Result is one ranked candidate URL from the search API.
type Result struct {
	URL string
}

type WebClient struct {
	cfg    config.SearchConfig
	domain string
	client *http.Client
}

func NewWebClient(cfg config.SearchConfig, domain string, client *http.Client) *WebClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if cfg.Count <= 0 {
		cfg.Count = 15
	}
	return &WebClient{cfg: cfg, domain: domain, client: client}
}

// Search issues one query and returns candidates on the target domain.
// When a scoped search configuration is present it is preferred over the
// general endpoint. Never returns an error; failures yield nil.
func (c *WebClient) Search(ctx context.Context, query string) []Result {
	if c.cfg.Key == "" || query == "" {
		return nil
	}

	endpoint := c.cfg.Endpoint
	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(c.cfg.Count))
	if c.cfg.CustomConfigID != "" {
		endpoint = c.cfg.CustomEndpoint
		params.Set("customconfig", c.cfg.CustomConfigID)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.Key)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Search: request failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Search: status %d for query %q", resp.StatusCode, query)
		return nil
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("Search: decode failed: %v", err)
		return nil
	}

	var results []Result
	for _, page := range body.WebPages.Value {
		if page.URL == "" {
			continue
		}
		if c.domain != "" && !onDomain(page.URL, c.domain) {
			continue
		}
		results = append(results, Result{URL: page.URL})
	}
	return results
}

type searchResponse struct {
	WebPages struct {
		Value []struct {
			URL string `json:"url"`
		} `json:"value"`
	} `json:"webPages"`
}

func onDomain(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
