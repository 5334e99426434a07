package models

import "strings"

// AddressComponents holds the address-ish fields pulled out of one input
// record. Absent fields are empty strings, never errors; downstream code
// treats empty as "unknown".
type AddressComponents struct {
	StreetRaw string `json:"street_raw"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	County    string `json:"county"`
	MLSID     string `json:"mls_id"`
	MLSName   string `json:"mls_name"`
}

// Defaults carries operator-supplied fallback location values applied when
// a record is missing a component. Immutable for a processing run.
type Defaults struct {
	City  string `yaml:"city"`
	State string `yaml:"state"`
	Zip   string `yaml:"zip"`
}

// CityOr returns the row city if present, else the default.
func (d Defaults) CityOr(city string) string {
	if strings.TrimSpace(city) != "" {
		return strings.TrimSpace(city)
	}
	return d.City
}

// StateOr returns the row state if present, else the default.
func (d Defaults) StateOr(state string) string {
	if strings.TrimSpace(state) != "" {
		return strings.TrimSpace(state)
	}
	return d.State
}

// ZipOr returns the row zip if present, else the default.
func (d Defaults) ZipOr(zip string) string {
	if strings.TrimSpace(zip) != "" {
		return strings.TrimSpace(zip)
	}
	return d.Zip
}
