package marine

import (
	"context"
	"net/url"
	"strings"

	"github.com/aurel42/zonepoi/pkg/geo"
	"github.com/aurel42/zonepoi/pkg/llm"
	"github.com/aurel42/zonepoi/pkg/model"
	"github.com/aurel42/zonepoi/pkg/municipality"
	"github.com/aurel42/zonepoi/pkg/poivalidate"
	"github.com/aurel42/zonepoi/pkg/provider"
)

// enhancedMinConfidence is the minimum confidence an LLM-extracted
// candidate must carry to be considered in enhanced mode.
const enhancedMinConfidence = 0.3

// marineKeywords mark a paragraph as worth sending to the LLM extractor;
// paragraphs matching none of these are dropped before the prompt is built,
// keeping the prompt scoped to plausibly marine-relevant prose.
var marineKeywords = []string{
	"wreck", "shipwreck", "relitto", "naufragio", "épave", "wrack",
	"reef", "dive", "diving", "scuba", "immersion", "subacque", "depth", "meters", "metri",
}

// maxPagesPerMunicipality bounds how many diving-center pages are fetched
// per principal municipality, keeping the sub-pipeline's request volume
// proportional to zone size rather than to search-result count.
const maxPagesPerMunicipality = 3

// WaterChecker reports whether a coordinate is over water, used to reject a
// wreck candidate whose extracted coordinates land on dry ground. Satisfied
// by *provider.GeocoderProvider.
type WaterChecker interface {
	IsWater(ctx context.Context, lat, lon float64) bool
}

// Explorer runs the marine sub-pipeline: it searches for diving-center
// pages near each principal municipality in a zone, scrapes them for wreck
// mentions, and validates the extracted candidates against the zone's
// polygon and known false-positive names.
type Explorer struct {
	search    *provider.WebSearchProvider
	pages     *provider.DivingPageProvider
	water     WaterChecker
	country   string
	extractor llm.Extractor
}

// NewExplorer builds an Explorer. country is the zone's detected country
// name, used to localize search queries via provider.BuildQueries.
func NewExplorer(search *provider.WebSearchProvider, pages *provider.DivingPageProvider, water WaterChecker, country string) *Explorer {
	return &Explorer{search: search, pages: pages, water: water, country: country}
}

// WithExtractor enables enhanced mode: extractFromPage additionally sends
// the page's marine-relevant paragraphs to extractor and merges back any
// candidate at or above enhancedMinConfidence. Passing nil leaves the
// Explorer in regex-only mode.
func (e *Explorer) WithExtractor(extractor llm.Extractor) *Explorer {
	e.extractor = extractor
	return e
}

// candidatePage is a diving-center page queued for scraping, tagged with
// the municipality it was found for (used only for logging/diagnostics).
type candidatePage struct {
	municipality string
	url          string
}

// Discover runs the full marine sub-pipeline over principals (already
// filtered via municipality.FilterPrincipal) and returns validated marine
// POIs whose coordinates fall inside polygon.
func (e *Explorer) Discover(ctx context.Context, principals []string, polygon []model.LatLng) ([]model.POI, error) {
	bbox := geo.ComputeBBox(polygon)

	pages := e.collectPages(ctx, principals)

	var candidates []model.POI
	for _, page := range pages {
		fetched, err := e.pages.Fetch(ctx, page.url)
		if err != nil || fetched == nil {
			continue
		}
		candidates = append(candidates, e.extractFromPage(ctx, fetched, bbox)...)
	}

	return e.validate(ctx, candidates, polygon), nil
}

func (e *Explorer) collectPages(ctx context.Context, principals []string) []candidatePage {
	var pages []candidatePage
	for _, m := range principals {
		queries := provider.BuildQueries(m, e.country)
		found := 0
		for _, q := range queries {
			if found >= maxPagesPerMunicipality {
				break
			}
			results, err := e.search.Search(ctx, q, 10)
			if err != nil {
				continue
			}
			for _, r := range results {
				if found >= maxPagesPerMunicipality {
					break
				}
				if !isUsableResult(r) {
					continue
				}
				pages = append(pages, candidatePage{municipality: m, url: r.URL})
				found++
			}
		}
	}
	return pages
}

func isUsableResult(r provider.SearchResult) bool {
	u, err := url.Parse(r.URL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if provider.IsBlockedDomain(host) {
		return false
	}
	if !provider.IsGeographicallyRelevant(r) {
		return false
	}
	return provider.IsTrustedDomain(host) || provider.HasSemanticRelevance(r.Title+" "+r.Snippet)
}

// extractFromPage scans a fetched page's prose line-by-line for wreck
// mentions, pairing each with whatever depth/coordinates can be found
// nearby in the same prose. In enhanced mode it additionally asks the
// injected llm.Extractor for candidates the regex pass may have missed,
// merging them in by name.
func (e *Explorer) extractFromPage(ctx context.Context, page *provider.Page, bbox geo.BBox) []model.POI {
	seen := map[string]bool{}
	var pois []model.POI

	for _, name := range FilterValidWreckNames(candidateNames(page.Prose)) {
		window := nearbyParagraph(page.Prose, name)
		poi := model.POI{
			Name:        name,
			Kind:        model.KindMarine,
			Source:      model.SourceWebSearch,
			Description: window,
			ExternalIDs: map[string]string{"source_url": page.URL},
		}
		// Coordinates are searched for in the window around this name
		// first, so two distinct wrecks mentioned on the same page don't
		// collapse onto whichever coordinate pair appears first in the
		// page; only fall back to the whole page when the name's own
		// paragraph carries none.
		lat, lon, ok := ExtractCoordinates(window, bbox)
		if !ok {
			if lat, lon, ok = ExtractCoordinates(page.Prose, bbox); !ok {
				continue // an unlocated wreck can't be placed in the zone
			}
		}
		poi.Lat, poi.Lon = lat, lon
		if depth, ok := ExtractDepthMeters(window); ok {
			poi.DepthMeters = &depth
		}
		poi.MarineSubkind = model.SubkindWreck
		pois = append(pois, poi)
		seen[strings.ToLower(name)] = true
	}

	if e.extractor != nil {
		pois = append(pois, e.extractEnhanced(ctx, page, bbox, seen)...)
	}
	return pois
}

// marineRelevantParagraphs returns prose lines that mention at least one
// marine keyword, the subset the enhanced-mode prompt is built from.
func marineRelevantParagraphs(prose string) string {
	var kept []string
	for _, line := range strings.Split(prose, "\n") {
		lower := strings.ToLower(line)
		for _, kw := range marineKeywords {
			if strings.Contains(lower, kw) {
				kept = append(kept, line)
				break
			}
		}
	}
	return strings.Join(kept, "\n")
}

// extractEnhanced sends page's marine-relevant paragraphs to the injected
// extractor and turns any sufficiently confident, not-already-found
// candidate into a POI, still locating it via the regex coordinate/depth
// extractors since the extractor returns no coordinates of its own.
func (e *Explorer) extractEnhanced(ctx context.Context, page *provider.Page, bbox geo.BBox, seen map[string]bool) []model.POI {
	relevant := marineRelevantParagraphs(page.Prose)
	if relevant == "" {
		return nil
	}

	candidates, err := e.extractor.ExtractMarinePOIs(ctx, relevant)
	if err != nil {
		return nil
	}

	var pois []model.POI
	for _, c := range candidates {
		if c.Confidence < enhancedMinConfidence || c.Name == "" {
			continue
		}
		key := strings.ToLower(c.Name)
		if seen[key] {
			continue
		}
		seen[key] = true

		window := nearbyParagraph(page.Prose, c.Name)
		lat, lon, ok := ExtractCoordinates(window, bbox)
		if !ok {
			if lat, lon, ok = ExtractCoordinates(page.Prose, bbox); !ok {
				continue
			}
		}

		poi := model.POI{
			Name:          c.Name,
			Kind:          model.KindMarine,
			MarineSubkind: enhancedSubkind(c.Type),
			Source:        model.SourceWebSearch,
			Description:   c.Description,
			Lat:           lat,
			Lon:           lon,
			ExternalIDs:   map[string]string{"source_url": page.URL},
		}
		if poi.Description == "" {
			poi.Description = window
		}
		if c.Depth > 0 {
			depth := c.Depth
			poi.DepthMeters = &depth
		} else if depth, ok := ExtractDepthMeters(window); ok {
			poi.DepthMeters = &depth
		}
		pois = append(pois, poi)
	}
	return pois
}

func enhancedSubkind(t string) model.MarineSubkind {
	switch strings.ToLower(t) {
	case "reef":
		return model.SubkindReef
	case "obstruction":
		return model.SubkindObstruction
	default:
		return model.SubkindWreck
	}
}

// candidateNames extracts one wreck-name candidate per prose line that
// contains a recognizable wreck-prefix mention.
func candidateNames(prose string) []string {
	var names []string
	for _, line := range strings.Split(prose, "\n") {
		if name := ExtractWreckName(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// nearbyParagraph returns the first prose line mentioning name, used both
// as the POI's description and as the window searched for its depth.
func nearbyParagraph(prose, name string) string {
	for _, line := range strings.Split(prose, "\n") {
		if strings.Contains(line, name) {
			return strings.TrimSpace(line)
		}
	}
	return ""
}

// validate applies the underwater/known-irrelevant/polygon/water checks to
// each candidate, keeping only POIs that pass all four.
func (e *Explorer) validate(ctx context.Context, candidates []model.POI, polygon []model.LatLng) []model.POI {
	return Validate(ctx, candidates, polygon, e.water)
}

// Validate applies the underwater/known-irrelevant/polygon/water checks
// (§4.3, §4.6 step 5) to each candidate, keeping only POIs that pass all
// four. Exported so pkg/search can run the same checks on marine
// candidates surfaced by OSM and DBpedia, not just this package's own
// web-search-derived ones.
func Validate(ctx context.Context, candidates []model.POI, polygon []model.LatLng, water WaterChecker) []model.POI {
	var out []model.POI
	for _, poi := range candidates {
		if !poivalidate.IsUnderwater(poi) {
			continue
		}
		if poivalidate.IsKnownIrrelevantWreck(poi) {
			continue
		}
		if !geo.PointInPolygon(model.LatLng{Lat: poi.Lat, Lng: poi.Lon}, polygon) {
			continue
		}
		if water != nil && !water.IsWater(ctx, poi.Lat, poi.Lon) {
			continue
		}
		poi.Relevance = poivalidate.RelevanceScore(poi)
		out = append(out, poi)
	}
	return out
}

// PrincipalMunicipalities narrows discovered municipalities down to the
// ones worth seeding marine search queries for.
func PrincipalMunicipalities(municipalities []model.Municipality) []string {
	names := make([]string, 0, len(municipalities))
	for _, m := range municipalities {
		names = append(names, m.Name)
	}
	return municipality.FilterPrincipal(names)
}
