package resolver

import (
	"context"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"listing_resolver/canon"
)

// maxDrillLinks bounds how many detail links get pulled out of an
// aggregate search page before giving up on it.
const maxDrillLinks = 8

// Confirmer verifies that a candidate URL really is the claimed listing.
// Acceptance is two-tier: an on-page MLS-id match wins outright; otherwise
// a city mention counts only on a listing-detail page. Matching is
// substring-based and case-insensitive; Strict narrows the city check to
// "<city>, <state>" to cut down false positives from sidebar mentions.
type Confirmer struct {
	fetch  Fetcher
	Strict bool
}

func NewConfirmer(fetch Fetcher) *Confirmer {
	return &Confirmer{fetch: fetch}
}

// Confirm returns the confirmed listing URL or "" when nothing matches.
// For aggregate pages it drills into embedded detail links and returns the
// first one that passes. Fetch failures are "no match", never errors.
func (c *Confirmer) Confirm(ctx context.Context, pageURL, mlsID, city, state string) string {
	body, err := c.fetch.Fetch(ctx, pageURL)
	if err != nil {
		log.Printf("Confirm: fetch %s: %v", pageURL, err)
		return ""
	}

	if c.accepts(body, pageURL, mlsID, city, state) {
		return pageURL
	}

	if !canon.IsSearchURL(pageURL) {
		return ""
	}

	for _, link := range extractDetailLinks(body, pageURL) {
		sub, err := c.fetch.Fetch(ctx, link)
		if err != nil {
			continue
		}
		if c.accepts(sub, link, mlsID, city, state) {
			return link
		}
	}
	return ""
}

func (c *Confirmer) accepts(body, pageURL, mlsID, city, state string) bool {
	lower := strings.ToLower(body)

	if mlsID != "" && containsMLS(lower, strings.ToLower(mlsID)) {
		return true
	}

	if city == "" || !canon.IsDetailURL(pageURL) {
		return false
	}
	needle := strings.ToLower(city)
	if c.Strict && state != "" {
		needle = strings.ToLower(city + ", " + state)
	}
	return strings.Contains(lower, needle)
}

// Known on-page representations of an MLS id: the human-readable label
// forms and the JSON field forms.
func containsMLS(lowerBody, lowerID string) bool {
	forms := []string{
		"mls# " + lowerID,
		"mls#" + lowerID,
		"mls # " + lowerID,
		"mls: " + lowerID,
		`"mls":"` + lowerID + `"`,
		`"mlsid":"` + lowerID + `"`,
	}
	for _, f := range forms {
		if strings.Contains(lowerBody, f) {
			return true
		}
	}
	return false
}

// extractDetailLinks pulls up to maxDrillLinks listing-detail hrefs out of
// an aggregate page, resolved against the page URL, deduplicated.
func extractDetailLinks(body, pageURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if !strings.Contains(href, "/homedetails/") {
			return true
		}
		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			return true
		}
		seen[abs] = true
		links = append(links, abs)
		return len(links) < maxDrillLinks
	})
	return links
}
