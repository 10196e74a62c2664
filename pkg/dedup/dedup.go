// Package dedup merges near-duplicate POIs surfaced by more than one
// provider, keeping the best-sourced, best-described copy of each.
package dedup

import (
	"strings"

	"github.com/aurel42/zonepoi/pkg/geo"
	"github.com/aurel42/zonepoi/pkg/model"
)

// DistanceThresholdM is the default geodesic distance below which two POIs
// are considered candidates for the same place.
const DistanceThresholdM = 50.0

// NameSimilarityThreshold is the minimum name similarity (see
// NameSimilarity) required, together with DistanceThresholdM, to call two
// POIs duplicates.
const NameSimilarityThreshold = 0.6

// sourcePriority ranks providers for tie-breaking: a higher number wins.
var sourcePriority = map[model.Source]int{
	model.SourceWikiEncyclopedia: 3,
	model.SourceWikibase:         2,
	model.SourceDBpedia:          2,
	model.SourceOSM:              1,
}

// NameSimilarity scores how alike two POI names are, in [0, 1]: 1.0 for an
// exact match, 0.8 when one name contains the other, otherwise Jaccard
// overlap of their word sets.
func NameSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	wordsA := wordSet(a)
	wordsB := wordSet(b)
	union := make(map[string]bool, len(wordsA)+len(wordsB))
	intersection := 0
	for w := range wordsA {
		union[w] = true
		if wordsB[w] {
			intersection++
		}
	}
	for w := range wordsB {
		union[w] = true
	}
	if len(union) == 0 {
		return 0.0
	}
	return float64(intersection) / float64(len(union))
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// Deduplicate merges pois that are both geographically close
// (DistanceThresholdM) and name-similar (NameSimilarityThreshold),
// preferring the higher-priority source, then the longer description, then
// whichever was seen first.
func Deduplicate(pois []model.POI) []model.POI {
	var unique []model.POI

	for _, poi := range pois {
		dupIdx := -1
		for i, existing := range unique {
			dist := geo.GeodesicDistanceM(
				model.LatLng{Lat: poi.Lat, Lng: poi.Lon},
				model.LatLng{Lat: existing.Lat, Lng: existing.Lon},
			)
			similarity := NameSimilarity(poi.Name, existing.Name)
			if dist < DistanceThresholdM && similarity > NameSimilarityThreshold {
				dupIdx = i
				break
			}
		}

		if dupIdx == -1 {
			unique = append(unique, poi)
			continue
		}
		if isBetter(poi, unique[dupIdx]) {
			unique[dupIdx] = poi
		}
	}

	return unique
}

// isBetter reports whether a should replace b as the kept copy of a
// duplicate pair: higher source priority wins outright; a tie falls back to
// the longer description.
func isBetter(a, b model.POI) bool {
	pa, pb := sourcePriority[a.Source], sourcePriority[b.Source]
	if pa != pb {
		return pa > pb
	}
	return len(a.Description) > len(b.Description)
}
