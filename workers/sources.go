package workers

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ListingFacts is the small structured record pulled out of one listing
// page: headline facts plus whatever address the page declares about
// itself.
type ListingFacts struct {
	Price       string `json:"price,omitempty"`
	Beds        string `json:"beds,omitempty"`
	Baths       string `json:"baths,omitempty"`
	Description string `json:"description,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`

	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
}

func (f *ListingFacts) empty() bool {
	return f.Price == "" && f.Beds == "" && f.Baths == "" &&
		f.Description == "" && f.PhotoURL == "" && f.Street == ""
}

// factSource is one way of reading facts out of an uncontrolled page.
// Sources are tried in fixed priority order; the first success wins.
type factSource interface {
	name() string
	tryExtract(doc *goquery.Document, body, pageURL string) (*ListingFacts, bool)
}

var factSources = []factSource{
	jsonLDSource{},
	siteJSONSource{},
	metaSource{},
	slugSource{},
}

// ExtractFacts runs the source chain over one page body.
func ExtractFacts(body, pageURL string) (*ListingFacts, string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		doc = nil
	}

	for _, src := range factSources {
		facts, ok := src.tryExtract(doc, body, pageURL)
		if ok && !facts.empty() {
			return facts, src.name()
		}
	}
	return &ListingFacts{}, ""
}

// jsonLDSource reads schema.org structured data blocks.
type jsonLDSource struct{}

func (jsonLDSource) name() string { return "jsonld" }

func (jsonLDSource) tryExtract(doc *goquery.Document, body, pageURL string) (*ListingFacts, bool) {
	if doc == nil {
		return nil, false
	}

	var facts *ListingFacts
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var node map[string]interface{}
		if err := json.Unmarshal([]byte(s.Text()), &node); err != nil {
			return true
		}

		f := &ListingFacts{}
		if offers, ok := node["offers"].(map[string]interface{}); ok {
			f.Price = jsonString(offers["price"])
		}
		if f.Price == "" {
			f.Price = jsonString(node["price"])
		}
		f.Description = jsonString(node["description"])
		f.PhotoURL = firstImage(node["image"])
		f.Beds = jsonString(node["numberOfBedrooms"])
		f.Baths = jsonString(node["numberOfBathroomsTotal"])

		if addr, ok := node["address"].(map[string]interface{}); ok {
			f.Street = jsonString(addr["streetAddress"])
			f.City = jsonString(addr["addressLocality"])
			f.State = jsonString(addr["addressRegion"])
			f.Zip = jsonString(addr["postalCode"])
		}

		if !f.empty() {
			facts = f
			return false
		}
		return true
	})

	if facts == nil {
		return nil, false
	}
	return facts, true
}

// siteJSONSource scans the site's embedded JSON blobs by key, without
// assuming any surrounding structure.
type siteJSONSource struct{}

func (siteJSONSource) name() string { return "sitejson" }

var (
	priceKeyRe = regexp.MustCompile(`"(?:price|listPrice|unformattedPrice)"\s*:\s*"?(\$?[\d,.]+)`)
	bedsKeyRe  = regexp.MustCompile(`"(?:bedrooms|beds)"\s*:\s*"?(\d+(?:\.\d+)?)`)
	bathsKeyRe = regexp.MustCompile(`"(?:bathrooms|baths)"\s*:\s*"?(\d+(?:\.\d+)?)`)
	// The regexp package caps repeat counts at 1000; descriptions longer
	// than that go unmatched.
	descKeyRe = regexp.MustCompile(`"description"\s*:\s*"((?:[^"\\]|\\.){20,1000}?)"`)
	photoKeyRe = regexp.MustCompile(`"(?:imgSrc|image|photoUrl)"\s*:\s*"(https?://[^"]+)"`)
)

func (siteJSONSource) tryExtract(doc *goquery.Document, body, pageURL string) (*ListingFacts, bool) {
	f := &ListingFacts{}
	if m := priceKeyRe.FindStringSubmatch(body); m != nil {
		f.Price = m[1]
	}
	if m := bedsKeyRe.FindStringSubmatch(body); m != nil {
		f.Beds = m[1]
	}
	if m := bathsKeyRe.FindStringSubmatch(body); m != nil {
		f.Baths = m[1]
	}
	if m := descKeyRe.FindStringSubmatch(body); m != nil {
		f.Description = unescapeJSON(m[1])
	}
	if m := photoKeyRe.FindStringSubmatch(body); m != nil {
		f.PhotoURL = m[1]
	}
	return f, !f.empty()
}

// metaSource falls back to OpenGraph tags and the page title.
type metaSource struct{}

func (metaSource) name() string { return "meta" }

var titlePriceRe = regexp.MustCompile(`\$[\d,]+`)

func (metaSource) tryExtract(doc *goquery.Document, body, pageURL string) (*ListingFacts, bool) {
	if doc == nil {
		return nil, false
	}

	f := &ListingFacts{}
	f.PhotoURL, _ = doc.Find(`meta[property="og:image"]`).Attr("content")
	f.Description, _ = doc.Find(`meta[property="og:description"]`).Attr("content")

	title := doc.Find("title").Text()
	if m := titlePriceRe.FindString(title); m != "" {
		f.Price = m
	}
	return f, !f.empty()
}

// slugSource recovers the address from the detail-URL slug when the page
// itself gives nothing away.
type slugSource struct{}

func (slugSource) name() string { return "slug" }

var slugRe = regexp.MustCompile(`/homedetails/([^/]+)/\d+_zpid`)

func (slugSource) tryExtract(doc *goquery.Document, body, pageURL string) (*ListingFacts, bool) {
	m := slugRe.FindStringSubmatch(pageURL)
	if m == nil {
		return nil, false
	}
	street := strings.ReplaceAll(m[1], "-", " ")
	if street == "" {
		return nil, false
	}
	return &ListingFacts{Street: street}, true
}

func jsonString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return ""
	}
}

func firstImage(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []interface{}:
		for _, e := range t {
			if s, ok := e.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func unescapeJSON(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}
