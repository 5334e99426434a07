package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"listing_resolver/httputil"
)

// Fetcher retrieves the body of a candidate page. Implementations must be
// safe for sequential reuse across rows.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

const maxPageBody = 4 << 20 // 4MB guard

// HTTPFetcher is the plain client with browser-like headers. It reports
// bot-block statuses as errors so a fallback fetcher can take over.
type HTTPFetcher struct {
	Client *http.Client
}

func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httputil.BrowserHeaders(req)

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBody))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// FallbackFetcher tries the primary fetcher and falls back to the secondary
// on any failure. Used to chain the plain HTTP client with the browser
// fetcher when bot-blocking is expected.
type FallbackFetcher struct {
	Primary   Fetcher
	Secondary Fetcher
}

func (f *FallbackFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	body, err := f.Primary.Fetch(ctx, pageURL)
	if err == nil {
		return body, nil
	}
	if f.Secondary == nil {
		return "", err
	}
	return f.Secondary.Fetch(ctx, pageURL)
}
