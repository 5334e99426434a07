package resolver

import (
	"context"
	"fmt"
	"testing"
)

type fakeFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, pageURL string) (string, error) {
	f.fetched = append(f.fetched, pageURL)
	body, ok := f.pages[pageURL]
	if !ok {
		return "", fmt.Errorf("fetch %s: not found", pageURL)
	}
	return body, nil
}

const detailURL = "https://www.zillow.com/homedetails/14-Oak-St-Clayton-NC-27520/123456_zpid/"

func TestConfirm_MLSMatchWinsAnywhere(t *testing.T) {
	// MLS match accepts even on a non-detail page.
	pageURL := "https://www.zillow.com/b/some-building/"
	fetch := &fakeFetcher{pages: map[string]string{
		pageURL: `<html><body>Listed under MLS# 2501234 by Local Realty</body></html>`,
	}}
	c := NewConfirmer(fetch)

	if got := c.Confirm(context.Background(), pageURL, "2501234", "Clayton", "NC"); got != pageURL {
		t.Fatalf("Confirm = %q, want %q", got, pageURL)
	}
}

func TestConfirm_MLSJSONForm(t *testing.T) {
	fetch := &fakeFetcher{pages: map[string]string{
		detailURL: `{"mlsId":"2501234","city":"Somewhere"}`,
	}}
	c := NewConfirmer(fetch)

	if got := c.Confirm(context.Background(), detailURL, "2501234", "", ""); got != detailURL {
		t.Fatalf("Confirm = %q, want %q", got, detailURL)
	}
}

func TestConfirm_CityOnlyNeedsDetailPage(t *testing.T) {
	searchURL := "https://www.zillow.com/clayton-nc_rb/"
	body := `<html><body>Homes for sale in Clayton</body></html>`
	fetch := &fakeFetcher{pages: map[string]string{
		detailURL: body,
		searchURL: body,
	}}
	c := NewConfirmer(fetch)

	if got := c.Confirm(context.Background(), detailURL, "", "Clayton", "NC"); got != detailURL {
		t.Fatalf("city mention on detail page should accept, got %q", got)
	}
	// Same body on a search page with no embedded detail links: rejected.
	if got := c.Confirm(context.Background(), searchURL, "", "Clayton", "NC"); got != "" {
		t.Fatalf("city mention on aggregate page should not accept, got %q", got)
	}
}

func TestConfirm_StrictCityState(t *testing.T) {
	fetch := &fakeFetcher{pages: map[string]string{
		detailURL: `<html><body>14 Oak St, Clayton County Schools</body></html>`,
	}}
	c := NewConfirmer(fetch)
	c.Strict = true

	if got := c.Confirm(context.Background(), detailURL, "", "Clayton", "NC"); got != "" {
		t.Fatalf("strict mode should require city, state; got %q", got)
	}

	fetch.pages[detailURL] = `<html><body>14 Oak St, Clayton, NC 27520</body></html>`
	if got := c.Confirm(context.Background(), detailURL, "", "Clayton", "NC"); got != detailURL {
		t.Fatalf("strict mode should accept city, state pair; got %q", got)
	}
}

func TestConfirm_DrillsIntoSearchPage(t *testing.T) {
	searchURL := "https://www.zillow.com/clayton-nc_rb/"
	miss := "https://www.zillow.com/homedetails/9-Elm-St-Raleigh-NC-27601/111_zpid/"
	fetch := &fakeFetcher{pages: map[string]string{
		searchURL: `<html><body>
			<a href="/homedetails/9-Elm-St-Raleigh-NC-27601/111_zpid/">one</a>
			<a href="/homedetails/9-Elm-St-Raleigh-NC-27601/111_zpid/">dup</a>
			<a href="/homedetails/14-Oak-St-Clayton-NC-27520/123456_zpid/">two</a>
			<a href="/profile/agent">noise</a>
		</body></html>`,
		miss:      `<html><body>9 Elm St, Raleigh</body></html>`,
		detailURL: `<html><body>14 Oak St, Clayton NC</body></html>`,
	}}
	c := NewConfirmer(fetch)

	got := c.Confirm(context.Background(), searchURL, "", "Clayton", "NC")
	if got != detailURL {
		t.Fatalf("Confirm = %q, want drilled %q", got, detailURL)
	}
	// Duplicate href fetched once: search page, miss, hit.
	if len(fetch.fetched) != 3 {
		t.Fatalf("fetched %d pages, want 3: %v", len(fetch.fetched), fetch.fetched)
	}
}

func TestConfirm_DrillLinkCap(t *testing.T) {
	searchURL := "https://www.zillow.com/clayton-nc_rb/"
	var body string
	pages := map[string]string{}
	for i := 0; i < 12; i++ {
		link := fmt.Sprintf("https://www.zillow.com/homedetails/h-%d/%d_zpid/", i, i)
		body += fmt.Sprintf(`<a href="%s">x</a>`, link)
		pages[link] = "<html><body>nothing useful</body></html>"
	}
	pages[searchURL] = "<html><body>" + body + "</body></html>"
	fetch := &fakeFetcher{pages: pages}
	c := NewConfirmer(fetch)

	if got := c.Confirm(context.Background(), searchURL, "", "Clayton", "NC"); got != "" {
		t.Fatalf("expected no match, got %q", got)
	}
	if len(fetch.fetched) != 1+maxDrillLinks {
		t.Fatalf("fetched %d pages, want %d", len(fetch.fetched), 1+maxDrillLinks)
	}
}

func TestConfirm_FetchFailureIsNoMatch(t *testing.T) {
	c := NewConfirmer(&fakeFetcher{pages: map[string]string{}})
	if got := c.Confirm(context.Background(), detailURL, "2501234", "Clayton", "NC"); got != "" {
		t.Fatalf("fetch failure should yield empty, got %q", got)
	}
}
