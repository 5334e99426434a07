// Package export renders resolved results in the formats the presentation
// layer consumes. Results with no resolved URL are omitted everywhere:
// a blank line or empty link is worse than a missing one.
package export

import (
	"fmt"
	"html"
	"strings"

	"listing_resolver/models"
)

// DelimitedRows renders fixed columns input_address, mls_id, resolved_url,
// note, one row per result.
func DelimitedRows(results []*models.ResolvedResult, sep string) string {
	if sep == "" {
		sep = "\t"
	}

	var b strings.Builder
	for _, r := range results {
		if r.ListingURL == "" {
			continue
		}
		b.WriteString(strings.Join([]string{r.InputAddress, r.MLSID, r.ListingURL, r.Note}, sep))
		b.WriteString("\n")
	}
	return b.String()
}

// BulletList renders a hyphen-bulleted URL list, with the note as a
// trailing parenthetical when present.
func BulletList(results []*models.ResolvedResult) string {
	var b strings.Builder
	for _, r := range results {
		if r.ListingURL == "" {
			continue
		}
		if r.Note != "" {
			fmt.Fprintf(&b, "- %s (%s)\n", r.ListingURL, r.Note)
		} else {
			fmt.Fprintf(&b, "- %s\n", r.ListingURL)
		}
	}
	return b.String()
}

// MarkdownList renders hyphen bullets with the note embedded as a comment.
func MarkdownList(results []*models.ResolvedResult) string {
	var b strings.Builder
	for _, r := range results {
		if r.ListingURL == "" {
			continue
		}
		if r.Note != "" {
			fmt.Fprintf(&b, "- %s <!-- %s -->\n", r.ListingURL, r.Note)
		} else {
			fmt.Fprintf(&b, "- %s\n", r.ListingURL)
		}
	}
	return b.String()
}

// HTMLList renders an unordered list of hyperlinks.
func HTMLList(results []*models.ResolvedResult) string {
	var b strings.Builder
	b.WriteString("<ul>\n")
	for _, r := range results {
		if r.ListingURL == "" {
			continue
		}
		escaped := html.EscapeString(r.ListingURL)
		fmt.Fprintf(&b, "  <li><a href=\"%s\">%s</a></li>\n", escaped, escaped)
	}
	b.WriteString("</ul>\n")
	return b.String()
}
