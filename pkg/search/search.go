// Package search implements the orchestrator: the state machine that turns
// a SearchRequest into a SearchResult. It detects the zone's country,
// consults the cache, fans out to the providers in parallel, merges and
// deduplicates the land and marine streams, discovers municipalities, runs
// the marine sub-pipeline when requested, optionally enriches each POI,
// and caches the outcome.
package search

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aurel42/zonepoi/pkg/apierr"
	"github.com/aurel42/zonepoi/pkg/cache"
	"github.com/aurel42/zonepoi/pkg/dedup"
	"github.com/aurel42/zonepoi/pkg/enrich"
	"github.com/aurel42/zonepoi/pkg/geo"
	"github.com/aurel42/zonepoi/pkg/llm"
	"github.com/aurel42/zonepoi/pkg/marine"
	"github.com/aurel42/zonepoi/pkg/model"
	"github.com/aurel42/zonepoi/pkg/municipality"
	"github.com/aurel42/zonepoi/pkg/poivalidate"
	"github.com/aurel42/zonepoi/pkg/provider"
)

// providerTaskTimeout bounds any single fanout task; a task that times out
// contributes an empty result rather than failing the whole request.
const providerTaskTimeout = 10 * time.Second

// seawardExtensionKM is how far the bbox is pushed out to sea when a marine
// task is going to run, so wrecks just offshore of the polygon are reachable.
const seawardExtensionKM = 5.0

// Dependencies wires every provider and support package the orchestrator
// needs. Any provider field left nil degrades that fanout task to an empty
// contribution rather than a panic, so a caller wiring only a subset of
// providers (e.g. in a test) still gets a well-formed, partial result.
type Dependencies struct {
	Overpass     *provider.OverpassProvider
	Encyclopedia *provider.EncyclopediaProvider
	Wikibase     *provider.WikibaseProvider
	DBpedia      *provider.DBpediaProvider
	Geocoder     *provider.GeocoderProvider
	WebSearch    *provider.WebSearchProvider
	DivingPages  *provider.DivingPageProvider
	Cache        *cache.Store
	Enricher     *enrich.Enricher
	Extractor    llm.Extractor // optional; enables marine enhanced-mode extraction
	Fractions    municipality.FractionTable
	Tourism      municipality.TourismTable
	Logger       *slog.Logger
}

// Orchestrator runs the Received → CountryDetect → CacheLookup → Fanout →
// Merge → Enrich → CacheStore state machine (§4.7) for a single request.
type Orchestrator struct {
	deps Dependencies
}

// New builds an Orchestrator from deps.
func New(deps Dependencies) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Orchestrator{deps: deps}
}

// Search runs the full pipeline for req and returns a well-formed
// SearchResult even when every provider is unreachable — only a malformed
// request (bad polygon) produces an error.
func (o *Orchestrator) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResult, error) {
	if err := geo.ValidatePolygon(req.Polygon); err != nil {
		return nil, apierr.InvalidRequest(err.Error())
	}

	bbox := geo.ComputeBBox(req.Polygon)
	centroid := geo.Centroid(req.Polygon)
	country := o.detectCountry(ctx, centroid)

	var cacheKey string
	if o.deps.Cache != nil {
		cacheKey = o.deps.Cache.Key(req)
		if cached, hit := o.deps.Cache.Get(cacheKey, req.MarineOnly, validMarineCacheEntry); hit {
			return cached, nil
		}
	}

	runMarine := req.ExtendMarine || req.MarineOnly
	fetchBBox := geo.ExtendTowardSea(bbox, runMarine, seawardExtensionKM)

	lang, countryName := "en", ""
	if country != nil {
		lang = provider.LanguageForCountry(country.Code)
		countryName = country.Name
	}

	var (
		rawPOIs        []model.POI
		municipalities []model.Municipality
		marinePOIs     []model.POI
		mu             sync.Mutex
		wg             sync.WaitGroup
	)

	if !req.MarineOnly {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pois := o.queryOSM(ctx, fetchBBox)
			mu.Lock()
			rawPOIs = append(rawPOIs, pois...)
			mu.Unlock()
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			pois := o.queryWikiFamily(ctx, fetchBBox, lang)
			mu.Lock()
			rawPOIs = append(rawPOIs, pois...)
			mu.Unlock()
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			found := o.discoverMunicipalities(ctx, fetchBBox, req.ZoneName)
			mu.Lock()
			municipalities = found
			mu.Unlock()
		}()
	}

	var water marine.WaterChecker
	if o.deps.Geocoder != nil {
		water = o.deps.Geocoder
	}

	if runMarine {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pois := o.runMarine(ctx, fetchBBox, req.Polygon, countryName, req.Mode, water)
			mu.Lock()
			marinePOIs = append(marinePOIs, pois...)
			mu.Unlock()
		}()
	}

	wg.Wait()

	landPOIs := normalizeLand(rawPOIs, req.Polygon)

	// DBpedia's contribution to the wiki-family task (§4.7) is always
	// fetched, but only surfaced when the marine stream is actually in
	// play — otherwise a coastal zone with extend_marine=false would pick
	// up marine POIs from a task the state machine says shouldn't produce
	// any.
	if runMarine {
		dbpediaMarine := extractMarine(rawPOIs)
		marinePOIs = append(marinePOIs, marine.Validate(ctx, dbpediaMarine, req.Polygon, water)...)
	}
	marinePOIs = marine.AddAccessibility(marinePOIs)

	merged := dedup.Deduplicate(append(landPOIs, marinePOIs...))
	sortPOIs(merged)

	if req.EnableEnrichment && o.deps.Enricher != nil && req.Mode != model.ModeEnhanced {
		merged = o.deps.Enricher.EnrichAll(ctx, merged)
	}

	result := buildResult(req.ZoneName, country, municipalities, merged, bbox)

	if o.deps.Cache != nil {
		if err := o.deps.Cache.Set(cacheKey, req.ZoneName, req.ExtendMarine, req.Mode, result); err != nil {
			o.deps.Logger.Warn("cache write failed", "error", err)
		}
	}

	return result, nil
}

// DiscoverMunicipalities runs §4.5 standalone, without any POI fanout.
func (o *Orchestrator) DiscoverMunicipalities(ctx context.Context, polygon []model.LatLng, zoneName string) ([]model.Municipality, error) {
	if err := geo.ValidatePolygon(polygon); err != nil {
		return nil, apierr.InvalidRequest(err.Error())
	}
	bbox := geo.ComputeBBox(polygon)
	return o.discoverMunicipalities(ctx, bbox, zoneName), nil
}

func (o *Orchestrator) detectCountry(ctx context.Context, centroid model.LatLng) *model.Country {
	if o.deps.Geocoder == nil {
		return nil
	}
	country, err := o.deps.Geocoder.DetectCountry(ctx, centroid.Lat, centroid.Lng)
	if err != nil {
		o.deps.Logger.Warn("country detection failed", "error", err)
		return nil
	}
	return country
}

func (o *Orchestrator) queryOSM(ctx context.Context, bbox geo.BBox) []model.POI {
	if o.deps.Overpass == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, providerTaskTimeout)
	defer cancel()
	pois, err := o.deps.Overpass.QueryTourist(ctx, bbox)
	if err != nil {
		o.deps.Logger.Warn("overpass tourist query failed", "error", err)
		return nil
	}
	return pois
}

// queryWikiFamily runs the encyclopedia, wikibase and dbpedia lookups
// sequentially inside one task, as spec.md §4.7 requires. DBpedia only ever
// returns marine candidates (shipwreck/reef resources); its contribution is
// routed through the marine normalization path alongside everything else,
// same as OSM's and the web-search sub-pipeline's marine candidates.
func (o *Orchestrator) queryWikiFamily(ctx context.Context, bbox geo.BBox, lang string) []model.POI {
	ctx, cancel := context.WithTimeout(ctx, providerTaskTimeout)
	defer cancel()

	var pois []model.POI
	if o.deps.Encyclopedia != nil {
		p, err := o.deps.Encyclopedia.QueryTourist(ctx, bbox, lang)
		if err != nil {
			o.deps.Logger.Warn("encyclopedia query failed", "error", err)
		} else {
			pois = append(pois, p...)
		}
	}
	if o.deps.Wikibase != nil {
		p, err := o.deps.Wikibase.QueryTourist(ctx, bbox)
		if err != nil {
			o.deps.Logger.Warn("wikibase query failed", "error", err)
		} else {
			pois = append(pois, p...)
		}
	}
	if o.deps.DBpedia != nil {
		p, err := o.deps.DBpedia.QueryMarine(ctx, bbox)
		if err != nil {
			o.deps.Logger.Warn("dbpedia query failed", "error", err)
		} else {
			pois = append(pois, p...)
		}
	}
	return pois
}

// discoverMunicipalities runs §4.5's dual discovery paths — Overpass's
// place-node query and the forward-geocoder's zone-name lookup — and merges
// them by case-normalized name before grouping into municipalities.
func (o *Orchestrator) discoverMunicipalities(ctx context.Context, bbox geo.BBox, zoneName string) []model.Municipality {
	candidates := municipality.MergeCandidates(o.queryPlaces(ctx, bbox), o.queryPlacesByName(ctx, zoneName))
	if len(candidates) == 0 {
		return nil
	}
	municipalities := municipality.Discover(candidates, o.deps.Fractions)
	municipalities = municipality.ClassifyTourism(municipalities, o.deps.Tourism)
	municipalities = municipality.AddGeographicContext(municipalities, zoneName)
	return municipalities
}

func (o *Orchestrator) queryPlaces(ctx context.Context, bbox geo.BBox) []municipality.Candidate {
	if o.deps.Overpass == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, providerTaskTimeout)
	defer cancel()
	candidates, err := o.deps.Overpass.QueryPlaces(ctx, bbox)
	if err != nil {
		o.deps.Logger.Warn("overpass places query failed", "error", err)
		return nil
	}
	return candidates
}

// queryPlacesByName runs the forward-geocoder discovery path (§4.5's second
// path): a zone name frequently names, or contains, the municipality it's
// centered on even when Overpass's place-node query misses or mistags it.
func (o *Orchestrator) queryPlacesByName(ctx context.Context, zoneName string) []municipality.Candidate {
	if o.deps.Geocoder == nil || zoneName == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, providerTaskTimeout)
	defer cancel()
	candidates, err := o.deps.Geocoder.ForwardGeocode(ctx, zoneName)
	if err != nil {
		o.deps.Logger.Warn("forward geocode places query failed", "error", err)
		return nil
	}
	return candidates
}

// runMarine aggregates the marine sources that are gated on extend_marine/
// marine_only: OSM's marine tag stream and the web-search wreck-discovery
// sub-pipeline (§4.6). DBpedia's marine contribution is fetched as part of
// the always-on wiki-family task and folded in separately by the caller
// (§4.7's state machine groups it there). The principal-municipality seed
// list is derived independently here rather than handed down from the
// municipality-discovery task, since marine_only requests skip that task
// entirely and the two tasks otherwise run concurrently with no ordering
// guarantee between them.
func (o *Orchestrator) runMarine(ctx context.Context, bbox geo.BBox, polygon []model.LatLng, countryName string, mode model.SearchMode, water marine.WaterChecker) []model.POI {
	var candidates []model.POI

	if o.deps.Overpass != nil {
		func() {
			ctx, cancel := context.WithTimeout(ctx, providerTaskTimeout)
			defer cancel()
			pois, err := o.deps.Overpass.QueryMarine(ctx, bbox)
			if err != nil {
				o.deps.Logger.Warn("overpass marine query failed", "error", err)
				return
			}
			candidates = append(candidates, pois...)
		}()
	}

	if o.deps.WebSearch != nil && o.deps.DivingPages != nil {
		principals := marine.PrincipalMunicipalities(o.discoverMunicipalities(ctx, bbox, ""))
		explorer := marine.NewExplorer(o.deps.WebSearch, o.deps.DivingPages, water, countryName)
		if mode == model.ModeEnhanced && o.deps.Extractor != nil {
			explorer = explorer.WithExtractor(o.deps.Extractor)
		}
		found, err := explorer.Discover(ctx, principals, polygon)
		if err != nil {
			o.deps.Logger.Warn("marine sub-pipeline failed", "error", err)
		} else {
			candidates = append(candidates, found...)
		}
	}

	return marine.Validate(ctx, candidates, polygon, water)
}

// extractMarine pulls the marine-kind POIs out of pois, leaving the
// original slice untouched.
func extractMarine(pois []model.POI) []model.POI {
	var out []model.POI
	for _, poi := range pois {
		if poi.Kind == model.KindMarine {
			out = append(out, poi)
		}
	}
	return out
}

func normalizeLand(pois []model.POI, polygon []model.LatLng) []model.POI {
	var out []model.POI
	for _, poi := range pois {
		if poi.Kind != model.KindLand {
			continue
		}
		if !geo.PointInPolygon(model.LatLng{Lat: poi.Lat, Lng: poi.Lon}, polygon) {
			continue
		}
		if !poivalidate.IsTouristRelevant(poi) {
			continue
		}
		poi.Relevance = poivalidate.RelevanceScore(poi)
		out = append(out, poi)
	}
	return out
}

// sortPOIs orders land POIs first by descending relevance, then marine
// POIs by descending relevance, stable within each group (§4.7 merge step).
func sortPOIs(pois []model.POI) {
	sort.SliceStable(pois, func(i, j int) bool {
		a, b := pois[i], pois[j]
		if (a.Kind == model.KindMarine) != (b.Kind == model.KindMarine) {
			return a.Kind != model.KindMarine
		}
		return a.Relevance > b.Relevance
	})
}

func buildResult(zoneName string, country *model.Country, municipalities []model.Municipality, pois []model.POI, bbox geo.BBox) *model.SearchResult {
	stats := model.Statistics{}
	sourceSeen := map[model.Source]bool{}
	var marinePOIs []model.POI
	for _, poi := range pois {
		stats.Total++
		if poi.Kind == model.KindMarine {
			stats.Marine++
			marinePOIs = append(marinePOIs, poi)
		} else {
			stats.Land++
		}
		if !sourceSeen[poi.Source] {
			sourceSeen[poi.Source] = true
			stats.SourcesUsed = append(stats.SourcesUsed, string(poi.Source))
		}
	}
	sort.Strings(stats.SourcesUsed)

	analysis := &model.MarineAnalysis{
		IsCoastal:     len(marinePOIs) > 0,
		DepthAnalysis: marine.CategorizeDepth(marinePOIs),
	}

	return &model.SearchResult{
		ZoneName:       zoneName,
		Country:        country,
		Municipalities: municipalities,
		POIs:           pois,
		Statistics:     stats,
		MarineAnalysis: analysis,
	}
}

// validMarineCacheEntry composes cache.ValidMarineEntry with the
// known-collision-wreck check (§4.7 content-aware invalidation): a
// marine-only cache hit is discarded if any cached POI's name matches a
// known-collision wreck, regardless of the POI's cached coordinates — a
// stale entry from a name collision can carry coordinates that happen to
// fall inside the wreck's own range, so name membership alone decides this,
// not IsKnownIrrelevantWreck's box test (that test is for validating a
// freshly-found candidate, not for invalidating a cache entry).
func validMarineCacheEntry(result *model.SearchResult) bool {
	if !cache.ValidMarineEntry(result) {
		return false
	}
	for _, poi := range result.POIs {
		if poivalidate.IsKnownCollisionWreckName(poi) {
			return false
		}
	}
	return true
}
