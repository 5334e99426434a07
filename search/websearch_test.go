package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"listing_resolver/config"
)

const searchBody = `{
	"webPages": {
		"value": [
			{"url": "https://www.zillow.com/homedetails/14-Oak-St/123456_zpid/"},
			{"url": "https://photos.zillow.com/p/123.jpg"},
			{"url": "https://www.realtor.com/realestateandhomes-detail/14-Oak-St"},
			{"url": ""}
		]
	}
}`

func TestSearch_NoKeyReturnsNil(t *testing.T) {
	c := NewWebClient(config.SearchConfig{}, "zillow.com", nil)
	if got := c.Search(context.Background(), "14 Oak St"); got != nil {
		t.Fatalf("expected nil without a key, got %v", got)
	}
}

func TestSearch_DomainFilter(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	c := NewWebClient(config.SearchConfig{Key: "k", Endpoint: srv.URL}, "zillow.com", srv.Client())
	results := c.Search(context.Background(), "14 Oak St")

	if gotKey != "k" {
		t.Fatalf("subscription key header = %q", gotKey)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 on-domain: %v", len(results), results)
	}
	if results[0].URL != "https://www.zillow.com/homedetails/14-Oak-St/123456_zpid/" {
		t.Fatalf("ranking order not preserved: %q", results[0].URL)
	}
	// photos.zillow.com is a subdomain and stays in.
	if results[1].URL != "https://photos.zillow.com/p/123.jpg" {
		t.Fatalf("subdomain dropped: %q", results[1].URL)
	}
}

func TestSearch_CustomConfigUsesScopedEndpoint(t *testing.T) {
	var generalHits int
	general := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		generalHits++
		w.Write([]byte(`{}`))
	}))
	defer general.Close()

	var gotConfig, gotCount string
	scoped := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotConfig = r.URL.Query().Get("customconfig")
		gotCount = r.URL.Query().Get("count")
		w.Write([]byte(searchBody))
	}))
	defer scoped.Close()

	cfg := config.SearchConfig{
		Key:            "k",
		Endpoint:       general.URL,
		CustomEndpoint: scoped.URL,
		CustomConfigID: "abc123",
	}
	c := NewWebClient(cfg, "zillow.com", scoped.Client())
	results := c.Search(context.Background(), "14 Oak St")

	if generalHits != 0 {
		t.Fatalf("general endpoint hit %d times, scoped config should win", generalHits)
	}
	if gotConfig != "abc123" {
		t.Fatalf("customconfig param = %q", gotConfig)
	}
	if gotCount != "15" {
		t.Fatalf("count default = %q, want 15", gotCount)
	}
	if len(results) == 0 {
		t.Fatal("scoped search returned no results")
	}
}

func TestSearch_FailuresDegradeToNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "ratelimited":
			w.WriteHeader(http.StatusTooManyRequests)
		case "garbage":
			w.Write([]byte("<html>not json</html>"))
		}
	}))
	defer srv.Close()

	c := NewWebClient(config.SearchConfig{Key: "k", Endpoint: srv.URL}, "zillow.com", srv.Client())
	if got := c.Search(context.Background(), "ratelimited"); got != nil {
		t.Fatalf("non-200 should yield nil, got %v", got)
	}
	if got := c.Search(context.Background(), "garbage"); got != nil {
		t.Fatalf("bad body should yield nil, got %v", got)
	}
	if got := c.Search(context.Background(), ""); got != nil {
		t.Fatalf("empty query should yield nil, got %v", got)
	}
}
