package address

import (
	"testing"
)

func TestExtract_FullAddressShortCircuits(t *testing.T) {
	record := map[string]string{
		"Address":       "Lot 4 NC Highway 42, Clayton, NC",
		"City":          "Raleigh",
		"MLS Number":    "2501234",
		"MLS Board":     "Triangle MLS",
	}

	comp := Extract(record)
	if comp.StreetRaw != "Lot 4 NC Highway 42, Clayton, NC" {
		t.Fatalf("unexpected street: %q", comp.StreetRaw)
	}
	if comp.City != "" {
		t.Fatalf("city should be empty when full address present, got %q", comp.City)
	}
	if comp.MLSID != "2501234" {
		t.Fatalf("unexpected mls id: %q", comp.MLSID)
	}
	if comp.MLSName != "Triangle MLS" {
		t.Fatalf("unexpected mls name: %q", comp.MLSName)
	}
}

func TestExtract_ComponentConcatenation(t *testing.T) {
	record := map[string]string{
		"Street Number": "14",
		"Street Name":   "Oak",
		"Street Suffix": "St",
		"City":          "Clayton",
		"State":         "NC",
		"Zip Code":      "27520",
		"County":        "Johnston",
	}

	comp := Extract(record)
	if comp.StreetRaw != "14 Oak St" {
		t.Fatalf("unexpected street: %q", comp.StreetRaw)
	}
	if comp.City != "Clayton" || comp.State != "NC" || comp.Zip != "27520" {
		t.Fatalf("unexpected location: %q %q %q", comp.City, comp.State, comp.Zip)
	}
	if comp.County != "Johnston" {
		t.Fatalf("unexpected county: %q", comp.County)
	}
}

func TestExtract_HeaderMatchingIsFuzzy(t *testing.T) {
	record := map[string]string{
		"  STREET   NUMBER ": "101",
		"Street  NAME":       "Main",
	}

	comp := Extract(record)
	if comp.StreetRaw != "101 Main" {
		t.Fatalf("fuzzy headers not matched: %q", comp.StreetRaw)
	}
}

func TestExtract_SkipsEmptyValues(t *testing.T) {
	record := map[string]string{
		"Address":     "  ",
		"Street Name": "Main",
	}

	comp := Extract(record)
	if comp.StreetRaw != "Main" {
		t.Fatalf("empty full-address column should not short-circuit, got %q", comp.StreetRaw)
	}
}

func TestExtract_MissingFieldsAreEmpty(t *testing.T) {
	comp := Extract(map[string]string{"Unrelated": "x"})
	if comp.StreetRaw != "" || comp.City != "" || comp.MLSID != "" {
		t.Fatalf("expected all empty, got %+v", comp)
	}
}

func TestSplitLocation(t *testing.T) {
	cases := []struct {
		in                       string
		street, city, state, zip string
	}{
		{"Lot 4 NC Highway 42, Clayton, NC", "Lot 4 NC Highway 42", "Clayton", "NC", ""},
		{"14 Oak St, Clayton, NC 27520", "14 Oak St", "Clayton", "NC", "27520"},
		{"14 Oak St, Clayton NC 27520", "14 Oak St", "Clayton", "NC", "27520"},
		{"14 Oak St, Holly Springs, nc", "14 Oak St", "Holly Springs", "NC", ""},
		{"14 Oak St, Clayton", "14 Oak St", "Clayton", "", ""},
		{"14 Oak St, Unit 2, Clayton, NC", "14 Oak St, Unit 2", "Clayton", "NC", ""},
		{"14 Oak St", "14 Oak St", "", "", ""},
	}

	for _, c := range cases {
		got := SplitLocation(Extract(map[string]string{"Address": c.in}))
		if got.StreetRaw != c.street || got.City != c.city || got.State != c.state || got.Zip != c.zip {
			t.Fatalf("SplitLocation(%q) = %q/%q/%q/%q, want %q/%q/%q/%q",
				c.in, got.StreetRaw, got.City, got.State, got.Zip,
				c.street, c.city, c.state, c.zip)
		}
	}
}

func TestSplitLocation_ExistingComponentsWin(t *testing.T) {
	comp := Extract(map[string]string{
		"Street Name": "14 Oak St, Clayton, NC",
		"City":        "Raleigh",
	})

	got := SplitLocation(comp)
	if got.StreetRaw != "14 Oak St, Clayton, NC" || got.City != "Raleigh" {
		t.Fatalf("explicit columns should not be reparsed: %q / %q", got.StreetRaw, got.City)
	}
}
