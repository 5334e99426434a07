package httputil

import (
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Clients bundles the two HTTP clients the pipeline uses: a page client for
// fetching listing-site pages (optionally proxied, short timeout so a slow
// candidate does not stall the whole row) and an API client for the search
// and index services.
type Clients struct {
	Page *http.Client
	API  *http.Client
}

func NewClients(proxyURL string) *Clients {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}

	return &Clients{
		Page: &http.Client{
			Timeout:   12 * time.Second,
			Transport: transport,
		},
		API: &http.Client{Timeout: 30 * time.Second},
	}
}

// BrowserHeaders sets a browser-like header set on a request. The target
// site rejects obviously non-browser requests.
func BrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
}

// NewRetryable returns a client that retries once on transient statuses,
// used by the enrichment stage only. The resolution path never retries.
func NewRetryable(timeout time.Duration) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 1
	rc.RetryWaitMin = 2 * time.Second
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil
	return rc
}
