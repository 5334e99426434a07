package resolver

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/time/rate"

	"listing_resolver/address"
	"listing_resolver/canon"
	"listing_resolver/config"
	"listing_resolver/models"
	"listing_resolver/search"
)

// Searcher is the web-search collaborator. Implementations never error;
// failure is an empty result list.
type Searcher interface {
	Search(ctx context.Context, query string) []search.Result
}

// IndexLookup is the optional external document index collaborator.
type IndexLookup interface {
	LookupListingURL(address string) string
}

// Resolver sequences the per-row strategies in strict priority order:
// MLS confirmation, external index, address-variant confirmation, and the
// unconditional deeplink fallback. Rows are processed sequentially; a rate
// limiter spaces out external calls as a politeness throttle.
type Resolver struct {
	pipeline  config.PipelineConfig
	target    config.TargetConfig
	searcher  Searcher
	index     IndexLookup
	confirmer *Confirmer
	limiter   *rate.Limiter
}

func New(pipeline config.PipelineConfig, target config.TargetConfig, searcher Searcher, index IndexLookup, confirmer *Confirmer) *Resolver {
	var limiter *rate.Limiter
	if pipeline.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(pipeline.Delay), 1)
	}
	return &Resolver{
		pipeline:  pipeline,
		target:    target,
		searcher:  searcher,
		index:     index,
		confirmer: confirmer,
		limiter:   limiter,
	}
}

// Process resolves a batch of row-like records into one result per row.
// It never fails a row: when nothing confirms, the row falls through to
// the deeplink fallback with an explanatory note.
func (r *Resolver) Process(ctx context.Context, rows []map[string]string) []*models.ResolvedResult {
	results := make([]*models.ResolvedResult, 0, len(rows))

	for i, row := range rows {
		comp := address.SplitLocation(address.Extract(row))
		result := r.resolveRow(ctx, comp)
		results = append(results, result)
		log.Printf("Resolver: row %d/%d (%s) -> %s [%s]", i+1, len(rows), comp.StreetRaw, result.ListingURL, result.Strategy)
	}

	return results
}

func (r *Resolver) resolveRow(ctx context.Context, comp models.AddressComponents) *models.ResolvedResult {
	result := &models.ResolvedResult{
		InputAddress: comp.StreetRaw,
		MLSID:        comp.MLSID,
	}

	if url := r.tryMLS(ctx, comp); url != "" {
		result.ListingURL = url
		result.Strategy = "mls"
		return result
	}

	if url := r.tryIndex(comp); url != "" {
		result.ListingURL = url
		result.Strategy = "index"
		return result
	}

	if url := r.tryVariants(ctx, comp); url != "" {
		result.ListingURL = url
		result.Strategy = "variant"
		return result
	}

	url, note := Deeplink(r.target.BrowseBaseURL, comp.StreetRaw, comp.City, comp.State, comp.Zip, r.pipeline.Defaults)
	result.ListingURL = url
	result.Note = note
	result.Strategy = "deeplink"
	return result
}

// tryMLS is the highest-confidence strategy: search on the MLS id,
// optionally with the board name, and confirm candidates on-page.
func (r *Resolver) tryMLS(ctx context.Context, comp models.AddressComponents) string {
	if !r.pipeline.MLSFirst || comp.MLSID == "" {
		return ""
	}

	candidates := r.searchAll(ctx, r.mlsQueries(comp))
	candidates = r.filterCandidates(candidates, comp)

	max := r.pipeline.MaxMLSCandidates
	if max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}

	return r.confirmAll(ctx, candidates, comp)
}

func (r *Resolver) mlsQueries(comp models.AddressComponents) []string {
	board := comp.MLSName
	if board == "" {
		board = r.pipeline.DefaultMLSBoard
	}

	queries := []string{
		fmt.Sprintf("%q site:%s", comp.MLSID, r.target.Domain),
		fmt.Sprintf("MLS# %s site:%s", comp.MLSID, r.target.Domain),
	}
	if board != "" {
		queries = append(queries, fmt.Sprintf("%s %s site:%s", comp.MLSID, board, r.target.Domain))
	}
	return queries
}

// tryIndex trusts the external index's own relevance ranking; its top hit
// is accepted without page confirmation.
func (r *Resolver) tryIndex(comp models.AddressComponents) string {
	if r.index == nil {
		return ""
	}

	addr := composeAddress(comp, r.pipeline.Defaults)
	if addr == "" {
		return ""
	}
	return r.index.LookupListingURL(addr)
}

func (r *Resolver) tryVariants(ctx context.Context, comp models.AddressComponents) string {
	street := comp.StreetRaw
	if street == "" {
		return ""
	}

	variants := address.Variants(street, comp.City, comp.State, comp.Zip, r.pipeline.Defaults)
	if r.pipeline.LandMode {
		cleaned := address.CleanLandStreet(street)
		if cleaned != "" && cleaned != street {
			for _, v := range address.Variants(cleaned, comp.City, comp.State, comp.Zip, r.pipeline.Defaults) {
				variants = appendUnique(variants, v)
			}
		}
	}

	var queries []string
	// Bias MLS phrasings first when an id is known but MLS-first was off.
	if comp.MLSID != "" && !r.pipeline.MLSFirst {
		queries = append(queries, r.mlsQueries(comp)...)
	}
	for _, v := range variants {
		queries = append(queries,
			fmt.Sprintf("%s site:%s", v, r.target.Domain),
			fmt.Sprintf("%q site:%s", v, r.target.Domain),
		)
		if r.pipeline.LandMode {
			queries = append(queries,
				fmt.Sprintf("%s land site:%s", v, r.target.Domain),
				fmt.Sprintf("%s lot site:%s", v, r.target.Domain),
			)
		}
	}

	candidates := r.searchAll(ctx, queries)
	candidates = r.filterCandidates(candidates, comp)
	return r.confirmAll(ctx, candidates, comp)
}

// searchAll issues the queries in order and merges candidates,
// deduplicating by exact URL string and keeping only listing path shapes.
func (r *Resolver) searchAll(ctx context.Context, queries []string) []string {
	var merged []string
	seen := make(map[string]bool)

	for _, q := range queries {
		r.wait(ctx)
		for _, res := range r.searcher.Search(ctx, q) {
			if seen[res.URL] {
				continue
			}
			if !canon.IsDetailURL(res.URL) && !canon.IsSearchURL(res.URL) {
				continue
			}
			seen[res.URL] = true
			merged = append(merged, res.URL)
		}
	}
	return merged
}

// filterCandidates drops candidates whose URL text contradicts the
// required city/state. Off when the require-state-match flag is disabled.
func (r *Resolver) filterCandidates(candidates []string, comp models.AddressComponents) []string {
	if !r.pipeline.RequireStateMatch {
		return candidates
	}

	city := urlToken(r.pipeline.Defaults.CityOr(comp.City))
	state := urlToken(r.pipeline.Defaults.StateOr(comp.State))
	if city == "" && state == "" {
		return candidates
	}

	var kept []string
	for _, c := range candidates {
		lower := strings.ToLower(c)
		if city != "" && strings.Contains(lower, city) {
			kept = append(kept, c)
			continue
		}
		if state != "" && strings.Contains(lower, "-"+state+"-") {
			kept = append(kept, c)
		}
	}
	return kept
}

func (r *Resolver) confirmAll(ctx context.Context, candidates []string, comp models.AddressComponents) string {
	city := r.pipeline.Defaults.CityOr(comp.City)
	state := r.pipeline.Defaults.StateOr(comp.State)

	for _, candidate := range candidates {
		r.wait(ctx)
		if confirmed := r.confirmer.Confirm(ctx, candidate, comp.MLSID, city, state); confirmed != "" {
			return confirmed
		}
	}
	return ""
}

// wait spaces out external calls. Politeness only, not correctness.
func (r *Resolver) wait(ctx context.Context) {
	if r.limiter == nil {
		return
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return
	}
}

func composeAddress(comp models.AddressComponents, d models.Defaults) string {
	var parts []string
	if comp.StreetRaw != "" {
		parts = append(parts, comp.StreetRaw)
	}
	if c := d.CityOr(comp.City); c != "" {
		parts = append(parts, c)
	}
	if s := d.StateOr(comp.State); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

// urlToken lowers and hyphenates a location word the way the target site
// embeds it in listing URLs.
func urlToken(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(s)), "-"))
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
