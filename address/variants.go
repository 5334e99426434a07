package address

import (
	"fmt"
	"regexp"
	"strings"

	"listing_resolver/models"
)

// The variant generator trades query volume for recall: one street string
// becomes a bounded set of textual forms the target site might index it
// under. Ordering is a search-priority heuristic only; the core form always
// comes first.

var (
	lotNumRe = regexp.MustCompile(`(?i)\b(?:lot|lt)[-\s#]*([a-zA-Z0-9]+)\b`)

	usDottedRe = regexp.MustCompile(`(?i)\bu\.s\.`)
	usBareRe   = regexp.MustCompile(`(?i)\bus\b`)
	hwyRe      = regexp.MustCompile(`(?i)\bhwy\b`)

	dirShortRe = map[*regexp.Regexp]string{
		regexp.MustCompile(`(?i)\bn\b`): "north",
		regexp.MustCompile(`(?i)\bs\b`): "south",
		regexp.MustCompile(`(?i)\be\b`): "east",
		regexp.MustCompile(`(?i)\bw\b`): "west",
	}

	highwayRe = regexp.MustCompile(`(?i)\bhighway\b`)
	usWordRe  = regexp.MustCompile(`\bUS\b`)
	usNumRe   = regexp.MustCompile(`\bUS (\d+)\b`)
	// Only south is compacted. Asymmetric on purpose: matches observed
	// behavior of the feeds this was tuned against.
	southRe = regexp.MustCompile(`(?i)\bsouth\b`)

	variantSpaceRe = regexp.MustCompile(`\s+`)
)

// Variants expands one street string into an ordered, duplicate-free set of
// query strings, each suffixed with whatever location info is available
// (row value first, operator default second). Never empty for a non-empty
// street; empty for an empty street.
func Variants(street, city, state, zip string, d models.Defaults) []string {
	core := normalizeCore(street)
	if core == "" {
		return nil
	}

	var lotNum string
	if m := lotNumRe.FindStringSubmatch(core); m != nil {
		lotNum = m[1]
	}

	base := []string{core}
	base = appendUnique(base, hwyToAbbrev(core))
	base = appendUnique(base, usWordRe.ReplaceAllString(core, "U.S."))
	base = appendUnique(base, usNumRe.ReplaceAllString(core, "US-$1"))
	for _, v := range append([]string(nil), base...) {
		base = appendUnique(base, southRe.ReplaceAllString(v, "s"))
	}

	preserving := append([]string(nil), base...)
	if lotNum != "" {
		for _, v := range base {
			stripped := stripLot(v)
			if stripped == "" {
				continue
			}
			preserving = appendUnique(preserving, fmt.Sprintf("lot %s %s", lotNum, stripped))
			preserving = appendUnique(preserving, fmt.Sprintf("%s lot %s", stripped, lotNum))
			preserving = appendUnique(preserving, fmt.Sprintf("lot-%s %s", lotNum, stripped))
		}
	}

	union := append([]string(nil), preserving...)
	for _, v := range preserving {
		if stripped := stripLot(v); stripped != "" {
			union = appendUnique(union, stripped)
		}
	}

	suffix := locationSuffix(city, state, zip, d)

	var out []string
	seen := make(map[string]bool, len(union))
	for _, v := range union {
		q := v
		if suffix != "" {
			q = v + " " + suffix
		}
		if !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	return out
}

// normalizeCore expands US/hwy/single-letter-directional forms so the
// derived variants start from one predictable shape.
func normalizeCore(street string) string {
	s := strings.TrimSpace(street)
	if s == "" {
		return ""
	}
	s = usDottedRe.ReplaceAllString(s, "US")
	s = usBareRe.ReplaceAllString(s, "US")
	s = hwyRe.ReplaceAllString(s, "highway")
	for re, full := range dirShortRe {
		s = re.ReplaceAllString(s, full)
	}
	return strings.TrimSpace(variantSpaceRe.ReplaceAllString(s, " "))
}

func hwyToAbbrev(s string) string {
	return highwayRe.ReplaceAllString(s, "hwy")
}

func stripLot(s string) string {
	s = lotNumRe.ReplaceAllString(s, "")
	return strings.TrimSpace(variantSpaceRe.ReplaceAllString(s, " "))
}

func locationSuffix(city, state, zip string, d models.Defaults) string {
	var parts []string
	if c := d.CityOr(city); c != "" {
		parts = append(parts, c)
	}
	if s := d.StateOr(state); s != "" {
		parts = append(parts, s)
	}
	if z := d.ZipOr(zip); z != "" {
		parts = append(parts, z)
	}
	return strings.Join(parts, " ")
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
