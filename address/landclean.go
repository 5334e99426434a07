package address

import (
	"regexp"
	"strings"
)

// Vacant-land feeds lead with lot markers and placeholder house numbers
// ("0 Lot 3 Hwy 42"). CleanLandStreet strips that noise and expands the
// highway-style abbreviations that break search recall.

var lotKeywords = map[string]bool{
	"lot": true, "lt": true, "tract": true, "parcel": true,
	"blk": true, "block": true, "tbd": true,
}

var spelledDigits = map[string]bool{
	"one": true, "two": true, "three": true, "four": true, "five": true,
	"six": true, "seven": true, "eight": true, "nine": true, "ten": true,
}

// Whole-word, case-insensitive substitutions, applied in order.
var landExpansions = []struct {
	pat  *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\bhwy\b`), "highway"},
	{regexp.MustCompile(`(?i)\brd\b`), "road"},
	{regexp.MustCompile(`(?i)\bdr\b`), "drive"},
	{regexp.MustCompile(`(?i)\bave\b`), "avenue"},
	{regexp.MustCompile(`(?i)\bct\b`), "court"},
	{regexp.MustCompile(`(?i)\bln\b`), "lane"},
	{regexp.MustCompile(`(?i)\bpkwy\b`), "parkway"},
	{regexp.MustCompile(`(?i)\bsq\b`), "square"},
	{regexp.MustCompile(`(?i)\bcir\b`), "circle"},
	{regexp.MustCompile(`(?i)\bus\b`), "US"},
	{regexp.MustCompile(`(?i)\bnc\b`), "NC"},
	{regexp.MustCompile(`(?i)\bsr\b`), "state route"},
	{regexp.MustCompile(`(?i)\brt\b`), "route"},
}

var (
	multiSpaceRe = regexp.MustCompile(`\s+`)
	landCharsRe  = regexp.MustCompile(`[^\w\s/-]`)
)

// CleanLandStreet is a best-effort textual cleanup for land-mode streets.
// Pure and idempotent: cleaning an already-clean string is a no-op.
func CleanLandStreet(street string) string {
	s := strings.TrimSpace(street)
	if s == "" {
		return ""
	}

	// Placeholder house numbers and lot markers stack in real feeds
	// ("0 Lot 3 ...", "Lot Lot 3 ..."); strip leading noise to a fixed
	// point so a second pass has nothing left to remove.
	tokens := strings.Fields(s)
	for len(tokens) > 0 {
		if tokens[0] == "0" {
			tokens = tokens[1:]
			continue
		}
		if lotKeywords[bareToken(tokens[0])] {
			tokens = tokens[1:]
			if len(tokens) > 0 && isLotIdentifier(bareToken(tokens[0])) {
				tokens = tokens[1:]
			}
			continue
		}
		break
	}
	s = strings.Join(tokens, " ")

	for _, e := range landExpansions {
		s = e.pat.ReplaceAllString(s, e.repl)
	}

	s = landCharsRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func bareToken(tok string) string {
	return strings.Trim(strings.ToLower(tok), ".,#:")
}

// isLotIdentifier matches the bare identifier after a lot keyword: a single
// letter, an integer, or a spelled-out digit one through ten.
func isLotIdentifier(tok string) bool {
	if tok == "" {
		return false
	}
	if spelledDigits[tok] {
		return true
	}
	if len(tok) == 1 && tok[0] >= 'a' && tok[0] <= 'z' {
		return true
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
