package resolver

import (
	"regexp"
	"strings"

	"listing_resolver/models"
)

// NoteNationwide is attached when the fallback degrades to an unscoped
// search because neither the row nor the defaults supply city and state.
const NoteNationwide = "nationwide search"

var (
	deeplinkCharsRe = regexp.MustCompile(`[^\w\s,-]`)
	deeplinkSpaceRe = regexp.MustCompile(`\s+`)
)

// Deeplink builds the last-resort browse-search URL on the target site.
// Total and deterministic: any input, including an empty street, yields a
// syntactically valid URL on the fixed template. The result is a search
// page, never a confirmed single listing.
func Deeplink(baseURL, street, city, state, zip string, d models.Defaults) (string, string) {
	c := d.CityOr(city)
	st := d.StateOr(state)
	z := d.ZipOr(zip)

	var note string
	if c == "" || st == "" {
		note = NoteNationwide
	}

	loc := ""
	if c != "" || st != "" {
		loc = strings.TrimSuffix(strings.TrimPrefix(c+", "+st, ", "), ", ")
		if z != "" {
			loc += " " + z
		}
	} else if z != "" {
		loc = z
	}

	raw := strings.TrimSpace(street + " " + loc)
	raw = strings.ToLower(raw)
	raw = deeplinkCharsRe.ReplaceAllString(raw, "")
	raw = strings.ReplaceAll(raw, ",", "")
	slug := deeplinkSpaceRe.ReplaceAllString(strings.TrimSpace(raw), "-")

	return strings.TrimSuffix(baseURL, "/") + "/" + slug + "_rb/", note
}
