package address

import (
	"regexp"
	"strings"

	"listing_resolver/models"
)

// Header synonym sets for fuzzy column matching. Export feeds come from
// dozens of MLS boards and nobody agrees on column names.
var (
	fullAddressHeaders = []string{
		"address", "full address", "property address", "street address",
		"site address", "location", "addr",
	}
	numberHeaders = []string{
		"street number", "street #", "st number", "st #", "house number",
		"number", "street num",
	}
	nameHeaders = []string{
		"street name", "st name", "street", "road name",
	}
	suffixHeaders = []string{
		"street suffix", "st suffix", "suffix", "street type", "st type",
	}
	unitHeaders = []string{
		"unit", "unit number", "unit #", "apt", "apartment", "suite",
	}
	cityHeaders = []string{
		"city", "town", "municipality", "city name",
	}
	stateHeaders = []string{
		"state", "st", "state code", "province",
	}
	zipHeaders = []string{
		"zip", "zip code", "zipcode", "postal code", "postal",
	}
	countyHeaders = []string{
		"county", "county name", "parish",
	}
	mlsIDHeaders = []string{
		"mls", "mls id", "mls #", "mls number", "mls num", "mlsid",
		"listing id", "listing number",
	}
	mlsNameHeaders = []string{
		"mls name", "mls board", "board", "board name", "mls board name",
		"source mls",
	}
)

// Extract pulls address components out of one loosely-typed record. A full
// address column short-circuits everything else; otherwise street is the
// number+name+suffix concatenation. Missing fields come back as empty
// strings, never errors.
func Extract(record map[string]string) models.AddressComponents {
	norm := make(map[string]string, len(record))
	for header, value := range record {
		key := normalizeHeader(header)
		if key == "" {
			continue
		}
		// First non-empty value wins when two raw headers normalize the same.
		if existing, ok := norm[key]; !ok || strings.TrimSpace(existing) == "" {
			norm[key] = value
		}
	}

	if full := lookup(norm, fullAddressHeaders); full != "" {
		return models.AddressComponents{
			StreetRaw: full,
			MLSID:     lookup(norm, mlsIDHeaders),
			MLSName:   lookup(norm, mlsNameHeaders),
		}
	}

	number := lookup(norm, numberHeaders)
	name := lookupExcluding(norm, nameHeaders, unitHeaders)
	suffix := lookup(norm, suffixHeaders)

	var parts []string
	for _, p := range []string{number, name, suffix} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	return models.AddressComponents{
		StreetRaw: strings.Join(parts, " "),
		City:      lookup(norm, cityHeaders),
		State:     lookup(norm, stateHeaders),
		Zip:       lookup(norm, zipHeaders),
		County:    lookup(norm, countyHeaders),
		MLSID:     lookup(norm, mlsIDHeaders),
		MLSName:   lookup(norm, mlsNameHeaders),
	}
}

var (
	zipTokenRe   = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	stateTokenRe = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// SplitLocation parses the comma-delimited location tail out of a
// full-address street when the record carried no separate city/state/zip
// columns: "14 Oak St, Clayton, NC 27520" becomes street "14 Oak St" with
// city, state, and zip filled in. Components already present are left
// untouched, as is a street with no comma-delimited tail.
func SplitLocation(comp models.AddressComponents) models.AddressComponents {
	if comp.City != "" || comp.State != "" || comp.Zip != "" {
		return comp
	}

	var parts []string
	for _, p := range strings.Split(comp.StreetRaw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return comp
	}

	tokens := strings.Fields(parts[len(parts)-1])
	if n := len(tokens); zipTokenRe.MatchString(tokens[n-1]) {
		comp.Zip = tokens[n-1]
		tokens = tokens[:n-1]
	}
	if n := len(tokens); n > 0 && stateTokenRe.MatchString(tokens[n-1]) {
		comp.State = strings.ToUpper(tokens[n-1])
		tokens = tokens[:n-1]
	}
	comp.City = strings.Join(tokens, " ")

	streetParts := parts[:len(parts)-1]
	if comp.City == "" && len(streetParts) >= 2 {
		comp.City = streetParts[len(streetParts)-1]
		streetParts = streetParts[:len(streetParts)-1]
	}
	comp.StreetRaw = strings.Join(streetParts, ", ")
	return comp
}

// normalizeHeader lowercases and collapses whitespace so "Street  Number"
// and "street number" match the same synonym.
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}

func lookup(norm map[string]string, synonyms []string) string {
	for _, s := range synonyms {
		if v, ok := norm[s]; ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// lookupExcluding skips synonyms that also appear in the excluded set, so a
// bare "unit" column is never mistaken for a street-name column.
func lookupExcluding(norm map[string]string, synonyms, excluded []string) string {
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		skip[e] = true
	}
	for _, s := range synonyms {
		if skip[s] {
			continue
		}
		if v, ok := norm[s]; ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
