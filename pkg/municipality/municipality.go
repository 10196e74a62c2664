// Package municipality discovers the municipalities covered by a search
// zone from candidate OSM/geocoder places, attaches hamlets and minor
// localities to their parent municipality, and estimates each
// municipality's POI count and tourism level.
package municipality

import (
	"strings"

	"github.com/aurel42/zonepoi/pkg/model"
)

// Candidate is a raw place found by the Overpass place query or the forward
// geocoder, before fraction-attachment and classification.
type Candidate struct {
	Name      string
	Lat, Lng  float64
	PlaceType string // "city", "town", "village", "hamlet", "suburb", "locality"
	AdminLevel string
}

// isMainMunicipality reports whether a candidate counts as a municipality
// in its own right rather than a hamlet/subdivision to be attached to one.
func isMainMunicipality(c Candidate) bool {
	return c.PlaceType == "city" || c.PlaceType == "town" || c.AdminLevel == "8"
}

// FractionTable maps a lowercased hamlet/subdivision name to its parent
// municipality's lowercased name. Callers build this per-country or
// per-region; there is no built-in mapping since the relationship is
// entirely local knowledge.
type FractionTable map[string]string

// Discover groups candidates into municipalities: OSM/geocoder places typed
// city/town (or admin_level=8) become top-level municipalities; everything
// else is attached as a subdivision, first via fractions, then via a
// substring match against known municipality names, and promoted to a
// standalone municipality if neither matches.
func Discover(candidates []Candidate, fractions FractionTable) []model.Municipality {
	mains := make(map[string]*model.Municipality)
	order := make([]string, 0, len(candidates))
	var minor []Candidate

	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if key == "" {
			continue
		}
		if isMainMunicipality(c) {
			if _, exists := mains[key]; !exists {
				lat, lng := c.Lat, c.Lng
				mains[key] = &model.Municipality{
					Name:     c.Name,
					Centroid: &model.LatLng{Lat: lat, Lng: lng},
				}
				order = append(order, key)
			}
			continue
		}
		minor = append(minor, c)
	}

	for _, c := range minor {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if key == "" {
			continue
		}
		parent := findParent(key, fractions, mains)
		if parent != "" {
			mains[parent].Subdivisions = append(mains[parent].Subdivisions, c.Name)
			continue
		}
		if _, exists := mains[key]; !exists {
			lat, lng := c.Lat, c.Lng
			mains[key] = &model.Municipality{
				Name:     c.Name,
				Centroid: &model.LatLng{Lat: lat, Lng: lng},
			}
			order = append(order, key)
		}
	}

	result := make([]model.Municipality, 0, len(order))
	for _, key := range order {
		m := mains[key]
		m.POICountEstimate = EstimatePOICount(m.Name, len(m.Subdivisions), 20)
		result = append(result, *m)
	}
	return result
}

func findParent(fractionKey string, fractions FractionTable, mains map[string]*model.Municipality) string {
	if parent, ok := fractions[fractionKey]; ok {
		if _, exists := mains[parent]; exists {
			return parent
		}
	}
	for mainKey := range mains {
		if strings.Contains(fractionKey, mainKey) || strings.Contains(mainKey, fractionKey) {
			return mainKey
		}
	}
	return ""
}

// MergeCandidates combines two candidate streams (typically Overpass's
// place-node query and the forward-geocoder's zone-name lookup, §4.5) into
// one, matching by case-normalized, whitespace-trimmed name. primary's
// candidate wins on a name collision, since it carries OSM place/admin
// tagging the geocoder hit doesn't.
func MergeCandidates(primary, secondary []Candidate) []Candidate {
	seen := make(map[string]bool, len(primary))
	merged := make([]Candidate, 0, len(primary)+len(secondary))
	for _, c := range primary {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, c)
	}
	for _, c := range secondary {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, c)
	}
	return merged
}

// TourismTable names municipalities (lowercase) known for above-baseline
// tourist traffic, used only to scale the POI-count estimate; callers
// supply this per-region since it is local knowledge, not derivable from
// OSM tags alone.
type TourismTable struct {
	High   []string
	Medium []string
}

// EstimatePOICount estimates a municipality's POI count: a 20-POI base plus
// 5 per subdivision, unless baseOverride names a known population size.
func EstimatePOICount(name string, subdivisionCount int, baseOverride int) int {
	base := baseOverride
	if base <= 0 {
		base = 20
	}
	return base + subdivisionCount*5
}

// ClassifyTourism sets each municipality's TourismLevel from table,
// scaling its POI-count estimate: ×1.5 for a high-tourism match, ×1.2 for
// medium, unchanged otherwise.
func ClassifyTourism(municipalities []model.Municipality, table TourismTable) []model.Municipality {
	for i, m := range municipalities {
		nameLower := strings.ToLower(m.Name)
		switch {
		case matchesAny(nameLower, table.High):
			municipalities[i].TourismLevel = model.TourismHigh
			municipalities[i].POICountEstimate = int(float64(m.POICountEstimate) * 1.5)
		case matchesAny(nameLower, table.Medium):
			municipalities[i].TourismLevel = model.TourismMedium
			municipalities[i].POICountEstimate = int(float64(m.POICountEstimate) * 1.2)
		default:
			municipalities[i].TourismLevel = model.TourismLow
		}
	}
	return municipalities
}

func matchesAny(name string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(name, c) {
			return true
		}
	}
	return false
}

// geographicContextKeywords maps a zone-name keyword to the geographic
// context it implies.
var geographicContextKeywords = map[string]model.GeographicContext{
	"golfo":   model.ContextCoastal,
	"gulf":    model.ContextCoastal,
	"costa":   model.ContextCoastal,
	"coast":   model.ContextCoastal,
	"riviera": model.ContextCoastal,
	"parco":   model.ContextNaturalArea,
	"park":    model.ContextNaturalArea,
	"riserva": model.ContextProtectedArea,
	"reserve": model.ContextProtectedArea,
}

// AddGeographicContext tags every municipality with the context implied by
// zoneName (e.g. "Golfo del Tigullio" → coastal); unmatched zone names fall
// back to ContextGeneric.
func AddGeographicContext(municipalities []model.Municipality, zoneName string) []model.Municipality {
	context := model.ContextGeneric
	zoneLower := strings.ToLower(zoneName)
	for kw, c := range geographicContextKeywords {
		if strings.Contains(zoneLower, kw) {
			context = c
			break
		}
	}
	for i := range municipalities {
		municipalities[i].GeographicContext = context
	}
	return municipalities
}

// FilterPrincipal keeps only municipalities likely to be genuine top-level
// towns rather than hamlets/localities that slipped through discovery: it
// rejects names carrying a fraction-like prefix, names that are too short
// (likely abbreviations), or too long (likely a compound locality name).
func FilterPrincipal(names []string) []string {
	var out []string
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if len(trimmed) < 3 || len(strings.Fields(trimmed)) > 3 {
			continue
		}
		if hasFractionPrefix(trimmed) {
			continue
		}
		out = append(out, trimmed)
	}
	if len(out) == 0 && len(names) > 0 {
		if len(names) > 6 {
			return names[:6]
		}
		return names
	}
	return out
}

// fractionPrefixes mark a name as a hamlet/locality rather than a
// standalone municipality (articles, prepositions, locality nouns).
var fractionPrefixes = []string{
	"di ", "del ", "della ", "dell'", "in ", "sul ", "sulla ",
	"san ", "santa ", "santo ", "sant'",
	"la ", "lo ", "il ", "le ",
	"costa ", "punta ", "baia ", "golfo ", "porto ", "cala ",
	"frazione ", "località ", "loc. ", "loc ",
}

func hasFractionPrefix(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range fractionPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
