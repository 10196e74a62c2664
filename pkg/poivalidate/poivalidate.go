// Package poivalidate implements the pipeline's relevance scoring and
// surface/underwater filtering for candidate POIs, before dedup and ranking.
package poivalidate

import (
	"strings"

	"github.com/aurel42/zonepoi/pkg/model"
)

// touristKeywords indicate a land POI is tourist-relevant.
var touristKeywords = []string{
	"museo", "museum", "church", "castello", "castle", "torre", "tower",
	"palazzo", "palace", "villa", "giardino", "garden", "parco", "park",
	"spiaggia", "beach", "porto", "port", "faro", "lighthouse", "monastero",
	"monastery", "chiesa", "cathedral", "monument", "archaeological",
	"historic", "fortress", "abbey", "sanctuary", "viewpoint", "panorama",
	"belvedere", "acquario", "aquarium", "zoo", "theatre", "teatro", "cinema",
	"gallery", "galleria", "library", "biblioteca",
}

// marineKeywords indicate a marine POI is tourist-relevant.
var marineKeywords = []string{
	"relitto", "wreck", "shipwreck", "faro", "lighthouse", "boa", "buoy",
	"secca", "reef", "shoal", "immersion", "diving", "subacqueo", "underwater",
}

// IsTouristRelevant reports whether poi's name or description carries any
// of the relevance keywords for its kind: marineKeywords for marine POIs,
// touristKeywords otherwise.
func IsTouristRelevant(poi model.POI) bool {
	text := strings.ToLower(poi.Name + " " + poi.Description)
	if poi.Kind == model.KindMarine {
		return containsAny(text, marineKeywords)
	}
	return containsAny(text, touristKeywords)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// sourceWeight is the relevance-score multiplier applied per source.
var sourceWeight = map[model.Source]float64{
	model.SourceWikiEncyclopedia: 1.5,
	model.SourceWikibase:         1.2,
	model.SourceDBpedia:          1.2,
	model.SourceOSM:              1.0,
}

// prestigeKeywords each add 0.3 to the relevance score when found in the
// description.
var prestigeKeywords = []string{"unesco", "world heritage", "national", "famous", "historic"}

// RelevanceScore computes a POI's relevance score in [1.0, 5.0]: a 1.0 base
// multiplied by the source's trust weight, plus a description-length bonus
// and 0.3 per prestige keyword found.
func RelevanceScore(poi model.POI) float64 {
	score := 1.0
	if w, ok := sourceWeight[poi.Source]; ok {
		score *= w
	}

	descLower := strings.ToLower(poi.Description)
	switch {
	case len(poi.Description) > 100:
		score += 0.8
	case len(poi.Description) > 50:
		score += 0.4
	}

	for _, kw := range prestigeKeywords {
		if strings.Contains(descLower, kw) {
			score += 0.3
		}
	}

	if score > 5.0 {
		score = 5.0
	}
	if score < 1.0 {
		score = 1.0
	}
	return score
}

// surfaceKeywords mark a marine candidate as a surface feature (port,
// lighthouse, beach, ...) rather than something genuinely underwater.
var surfaceKeywords = []string{
	"porto", "port", "harbour", "harbor", "marina",
	"faro", "lighthouse", "phare",
	"spiaggia", "beach", "plage",
	"baia", "bay", "baie",
	"isola", "island", "île",
	"città", "city", "ville", "town",
	"costa", "coast", "coastline", "côte",
	"capo", "cape",
}

// underwaterKeywords are the indicators that override a surface-keyword
// match — a result that mentions both (e.g. "Portofino diving site wreck")
// is accepted anyway.
var underwaterKeywords = []string{
	"wreck", "relitto", "shipwreck", "naufragio",
	"reef", "secca", "shoal", "banco",
	"underwater", "submerged", "subacqueo",
	"diving", "immersion", "scuba", "cave",
}

var underwaterMarineSubkinds = map[model.MarineSubkind]bool{
	model.SubkindWreck: true, model.SubkindReef: true,
	model.SubkindObstruction: true, model.SubkindDivingSite: true,
	model.SubkindCave: true,
}

// IsUnderwater reports whether a marine candidate is genuinely underwater:
// it rejects surface features (ports, lighthouses, beaches, ...) unless an
// underwater indicator is also present, and otherwise accepts a recognized
// marine subkind.
func IsUnderwater(poi model.POI) bool {
	text := strings.ToLower(poi.Name + " " + poi.Description)

	hasSurface := containsAny(text, surfaceKeywords)
	hasUnderwater := containsAny(text, underwaterKeywords)

	if hasSurface && !hasUnderwater {
		return false
	}
	if hasUnderwater {
		return true
	}
	return underwaterMarineSubkinds[poi.MarineSubkind]
}

// KnownIrrelevantWreck describes a wreck name that is only valid within a
// specific geographic range — a POI whose name matches but whose
// coordinates fall outside the range is treated as a false match rather
// than a real find in this zone.
type KnownIrrelevantWreck struct {
	LatMin, LatMax float64
	LngMin, LngMax float64
}

// KnownIrrelevantWrecks lists wreck names that are famous enough to surface
// in web search results for totally unrelated zones — e.g. "Moskva" (the
// Russian Black Sea flagship, sunk 2022) showing up in Mediterranean
// diving-site search results purely from name collision.
var KnownIrrelevantWrecks = map[string]KnownIrrelevantWreck{
	"moskva":  {LatMin: 44.0, LatMax: 45.0, LngMin: 28.0, LngMax: 35.0},
	"moscova": {LatMin: 44.0, LatMax: 45.0, LngMin: 28.0, LngMax: 35.0},
	"moscow":  {LatMin: 44.0, LatMax: 45.0, LngMin: 28.0, LngMax: 35.0},
}

// IsKnownIrrelevantWreck reports whether poi's name/description matches a
// known-irrelevant wreck name AND its coordinates fall outside that wreck's
// known geographic range. Used while validating a freshly-found candidate,
// where a match still inside the wreck's own range is a real find, not a
// collision.
func IsKnownIrrelevantWreck(poi model.POI) bool {
	text := strings.ToLower(poi.Name + " " + poi.Description)
	for name, rng := range KnownIrrelevantWrecks {
		if !strings.Contains(text, name) {
			continue
		}
		inRange := poi.Lat >= rng.LatMin && poi.Lat <= rng.LatMax &&
			poi.Lon >= rng.LngMin && poi.Lon <= rng.LngMax
		if !inRange {
			return true
		}
	}
	return false
}

// IsKnownCollisionWreckName reports whether poi's name/description mentions
// a known-collision wreck name at all, independent of its coordinates. A
// cached result for a different zone can carry coordinates that happen to
// fall inside the wreck's own range (the zone the cache key hashes to tells
// us nothing about that), so the box test IsKnownIrrelevantWreck applies
// can't be trusted to invalidate a stale cache entry — any name match is
// grounds for discarding it.
func IsKnownCollisionWreckName(poi model.POI) bool {
	text := strings.ToLower(poi.Name + " " + poi.Description)
	for name := range KnownIrrelevantWrecks {
		if strings.Contains(text, name) {
			return true
		}
	}
	return false
}
