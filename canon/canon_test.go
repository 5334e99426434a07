package canon

import (
	"testing"
)

func TestCanonicalize_StripsTracking(t *testing.T) {
	canonical, id := Canonicalize("https://www.zillow.com/homedetails/14-Oak-St/123456_zpid/?utm_source=x&rtoken=abc")
	if canonical != "https://www.zillow.com/homedetails/123456_zpid" {
		t.Fatalf("unexpected canonical: %q", canonical)
	}
	if id != "123456" {
		t.Fatalf("unexpected id: %q", id)
	}
}

func TestCanonicalize_SlugInsensitive(t *testing.T) {
	a, idA := Canonicalize("https://example.test/homedetails/14-Oak-St/123456_zpid/")
	b, idB := Canonicalize("https://example.test/homedetails/14-OAK-ST-Unit-2/123456_zpid/")
	if a != b {
		t.Fatalf("slugs should canonicalize identically: %q vs %q", a, b)
	}
	if a != "https://example.test/homedetails/123456_zpid" {
		t.Fatalf("slug not dropped from canonical: %q", a)
	}
	if idA != "123456" || idB != "123456" {
		t.Fatalf("unexpected ids: %q %q", idA, idB)
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	urls := []string{
		"https://www.zillow.com/homedetails/14-Oak-St/123456_zpid/?x=1#frag",
		"https://www.zillow.com/homes/clayton-nc_rb/",
		"https://www.zillow.com/homedetails/trailing-slug/999_zpid/extra/path",
		"not a url at all",
	}

	for _, u := range urls {
		c1, id1 := Canonicalize(u)
		c2, id2 := Canonicalize(c1)
		if c1 != c2 || id1 != id2 {
			t.Fatalf("not idempotent for %q: (%q,%q) vs (%q,%q)", u, c1, id1, c2, id2)
		}
	}
}

func TestCanonicalize_NonDetailPassthrough(t *testing.T) {
	canonical, id := Canonicalize("https://www.zillow.com/homes/clayton-nc_rb/?searchQueryState=abc")
	if canonical != "https://www.zillow.com/homes/clayton-nc_rb/" {
		t.Fatalf("unexpected canonical: %q", canonical)
	}
	if id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
}

func TestPathShapes(t *testing.T) {
	if !IsDetailURL("https://www.zillow.com/homedetails/14-Oak-St/123456_zpid/") {
		t.Fatalf("detail URL not recognized")
	}
	if IsDetailURL("https://www.zillow.com/homes/clayton-nc_rb/") {
		t.Fatalf("search URL misidentified as detail")
	}
	if !IsSearchURL("https://www.zillow.com/homes/clayton-nc_rb/") {
		t.Fatalf("search URL not recognized")
	}
	if !IsSearchURL("https://www.zillow.com/homes/clayton-nc_rb/?page=2") {
		t.Fatalf("search URL with query not recognized")
	}
	if IsSearchURL("https://www.zillow.com/homedetails/14-Oak-St/123456_zpid/") {
		t.Fatalf("detail URL misidentified as search")
	}
}
