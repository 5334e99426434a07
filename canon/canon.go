// Package canon computes the stable dedup identity of a listing URL: a
// tracking-stripped canonical prefix plus the numeric listing id when one
// can be extracted. Two detail URLs differing only in the human-readable
// slug canonicalize identically.
package canon

import (
	"regexp"
	"strings"
)

// Detail pages end the meaningful path at "<digits>_zpid".
var idRe = regexp.MustCompile(`(\d+)_zpid`)

// Canonicalize strips query/fragment noise and rebuilds detail-page URLs
// from the prefix before "/homedetails/" plus the numeric identifier
// segment. The human-readable slug carries no identity and is dropped, so
// two detail URLs for the same listing canonicalize identically no matter
// how the slug is spelled. Pure and total; idempotent. The id comes back
// empty when no identifier is present.
func Canonicalize(rawURL string) (canonical, id string) {
	u := rawURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}

	if m := idRe.FindStringSubmatch(u); m != nil {
		id = m[1]
	}

	if i := strings.Index(u, "/homedetails/"); i >= 0 && id != "" {
		return u[:i] + "/homedetails/" + id + "_zpid", id
	}
	return u, id
}

// IsDetailURL reports whether the URL has the single-listing path shape.
func IsDetailURL(rawURL string) bool {
	return strings.Contains(rawURL, "/homedetails/")
}

// IsSearchURL reports whether the URL has the aggregate search-results
// path shape (the site's "_rb" browse suffix).
func IsSearchURL(rawURL string) bool {
	u := rawURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimSuffix(u, "/")
	return strings.HasSuffix(u, "_rb")
}
