// Package provider implements one client per external source the search
// pipeline fans out to: OSM-Overpass, the wiki-encyclopedia REST API, the
// Wikibase and DBpedia SPARQL endpoints, a reverse-geocoder, web search, and
// the diving-center page fetcher.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	goverpass "github.com/MeKo-Christian/go-overpass"

	"github.com/aurel42/zonepoi/pkg/geo"
	"github.com/aurel42/zonepoi/pkg/model"
	"github.com/aurel42/zonepoi/pkg/municipality"
)

// touristTourismValues, touristHistoricValues, touristLeisureValues and
// touristNaturalValues are the fixed OSM tag values the land Overpass query
// asks for.
var touristTourismValues = []string{"attraction", "museum", "castle", "monument", "viewpoint", "archaeological_site"}
var touristHistoricValues = []string{"castle", "fortress", "monument"}
var touristLeisureValues = []string{"park", "garden", "nature_reserve"}
var touristNaturalValues = []string{"peak", "cliff", "beach", "cape"}

// placeValues are the OSM place=* tag values municipality.Discover expects
// candidates to carry, from top-level town down to minor locality.
var placeValues = []string{"city", "town", "village", "hamlet", "suburb", "locality"}

// OverpassProvider queries an Overpass API endpoint for tourist and marine
// OSM features inside a bounding box.
type OverpassProvider struct {
	client goverpass.Client
}

// NewOverpassProvider creates a provider against endpoint using workers
// parallel goroutines for batched queries (go-overpass's own concurrency,
// separate from this pipeline's per-provider request queue).
func NewOverpassProvider(endpoint string, workers int) *OverpassProvider {
	if workers < 1 {
		workers = 2
	}
	return &OverpassProvider{
		client: goverpass.NewWithSettings(endpoint, workers, http.DefaultClient),
	}
}

// QueryTourist fetches land tourist POIs inside bbox.
func (p *OverpassProvider) QueryTourist(ctx context.Context, bbox geo.BBox) ([]model.POI, error) {
	query := buildTouristQuery(bbox)
	result, err := p.client.Query(query)
	if err != nil {
		return nil, fmt.Errorf("overpass tourist query failed: %w", err)
	}
	return extractLandPOIs(&result), nil
}

// QueryMarine fetches marine/underwater OSM features inside bbox.
func (p *OverpassProvider) QueryMarine(ctx context.Context, bbox geo.BBox) ([]model.POI, error) {
	query := buildMarineQuery(bbox)
	result, err := p.client.Query(query)
	if err != nil {
		return nil, fmt.Errorf("overpass marine query failed: %w", err)
	}
	return extractMarinePOIs(&result), nil
}

// QueryPlaces fetches candidate municipalities inside bbox: named place
// nodes/ways (city/town/village/hamlet/suburb/locality), fed to
// municipality.Discover.
func (p *OverpassProvider) QueryPlaces(ctx context.Context, bbox geo.BBox) ([]municipality.Candidate, error) {
	query := buildPlacesQuery(bbox)
	result, err := p.client.Query(query)
	if err != nil {
		return nil, fmt.Errorf("overpass places query failed: %w", err)
	}
	return extractPlaceCandidates(&result), nil
}

func bboxStr(b geo.BBox) string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.South, b.West, b.North, b.East)
}

func buildTouristQuery(b geo.BBox) string {
	bbox := bboxStr(b)
	var parts []string
	for _, v := range touristTourismValues {
		parts = append(parts, fmt.Sprintf(`node["tourism"="%s"](%s);`, v, bbox))
		parts = append(parts, fmt.Sprintf(`way["tourism"="%s"](%s);`, v, bbox))
	}
	for _, v := range touristHistoricValues {
		parts = append(parts, fmt.Sprintf(`node["historic"="%s"](%s);`, v, bbox))
		parts = append(parts, fmt.Sprintf(`way["historic"="%s"](%s);`, v, bbox))
	}
	parts = append(parts, fmt.Sprintf(`node["amenity"="place_of_worship"](%s);`, bbox))
	for _, v := range touristLeisureValues {
		parts = append(parts, fmt.Sprintf(`way["leisure"="%s"](%s);`, v, bbox))
	}
	for _, v := range touristNaturalValues {
		parts = append(parts, fmt.Sprintf(`node["natural"="%s"](%s);`, v, bbox))
	}

	return "[out:json][timeout:30];\n(\n  " + strings.Join(parts, "\n  ") + "\n);\nout center tags;"
}

func buildMarineQuery(b geo.BBox) string {
	bbox := bboxStr(b)
	parts := []string{
		fmt.Sprintf(`node["historic"="wreck"](%s);`, bbox),
		fmt.Sprintf(`way["historic"="wreck"](%s);`, bbox),
		fmt.Sprintf(`node["seamark:type"="wreck"](%s);`, bbox),
		fmt.Sprintf(`node["seamark:type"="obstruction"](%s);`, bbox),
		fmt.Sprintf(`node["natural"="reef"](%s);`, bbox),
		fmt.Sprintf(`way["natural"="reef"](%s);`, bbox),
		fmt.Sprintf(`node["natural"="shoal"](%s);`, bbox),
		fmt.Sprintf(`node["natural"="bank"](%s);`, bbox),
		fmt.Sprintf(`node["sport"="diving"](%s);`, bbox),
		fmt.Sprintf(`node["natural"="cave"]["underwater"="yes"](%s);`, bbox),
		fmt.Sprintf(`node["underwater"="yes"](%s);`, bbox),
	}
	return "[out:json][timeout:30];\n(\n  " + strings.Join(parts, "\n  ") + "\n);\nout center tags;"
}

// buildPlacesQuery queries named place nodes/ways only; administrative
// boundary relations are deliberately left out since go-overpass's result
// shape for relation geometry isn't exercised anywhere else in this
// codebase, and place=* nodes already carry everything
// municipality.Discover needs (name, position, settlement type).
func buildPlacesQuery(b geo.BBox) string {
	bbox := bboxStr(b)
	var parts []string
	for _, v := range placeValues {
		parts = append(parts, fmt.Sprintf(`node["place"="%s"](%s);`, v, bbox))
		parts = append(parts, fmt.Sprintf(`way["place"="%s"](%s);`, v, bbox))
	}
	return "[out:json][timeout:30];\n(\n  " + strings.Join(parts, "\n  ") + "\n);\nout center tags;"
}

func extractPlaceCandidates(result *goverpass.Result) []municipality.Candidate {
	var candidates []municipality.Candidate
	for _, n := range result.Nodes {
		if c, ok := placeCandidateFromTags(n.Tags, n.Lat, n.Lon); ok {
			candidates = append(candidates, c)
		}
	}
	for _, w := range result.Ways {
		lat, lon, ok := wayCenter(w)
		if !ok {
			continue
		}
		if c, ok := placeCandidateFromTags(w.Tags, lat, lon); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

func placeCandidateFromTags(tags map[string]string, lat, lon float64) (municipality.Candidate, bool) {
	name := tags["name"]
	if name == "" {
		return municipality.Candidate{}, false
	}
	return municipality.Candidate{
		Name: name, Lat: lat, Lng: lon,
		PlaceType:  tags["place"],
		AdminLevel: tags["admin_level"],
	}, true
}

// forbiddenMarineTagValues excludes ports, harbours, lighthouses, marinas,
// beaches, islands, bays, capes and cities from the marine stream even
// when they otherwise matched a marine tag combination.
var forbiddenMarineTagValues = map[string]map[string]bool{
	"harbour":    {"yes": true},
	"natural":    {"beach": true, "bay": true, "cape": true},
	"place":      {"island": true, "city": true, "town": true},
	"man_made":   {"pier": true, "lighthouse": true},
	"leisure":    {"marina": true},
	"amenity":    {"harbour": true},
	"seamark:type": {"harbour": true, "light_major": true, "light_minor": true},
}

func isForbiddenMarine(tags map[string]string) bool {
	for k, v := range tags {
		if vals, ok := forbiddenMarineTagValues[k]; ok && vals[v] {
			return true
		}
	}
	return false
}

func extractLandPOIs(result *goverpass.Result) []model.POI {
	var pois []model.POI
	for _, n := range result.Nodes {
		if poi, ok := landPOIFromTags(n.Tags, n.Lat, n.Lon); ok {
			pois = append(pois, poi)
		}
	}
	for _, w := range result.Ways {
		lat, lon, ok := wayCenter(w)
		if !ok {
			continue
		}
		if poi, ok := landPOIFromTags(w.Tags, lat, lon); ok {
			pois = append(pois, poi)
		}
	}
	return pois
}

func extractMarinePOIs(result *goverpass.Result) []model.POI {
	var pois []model.POI
	for _, n := range result.Nodes {
		if isForbiddenMarine(n.Tags) {
			continue
		}
		if poi, ok := marinePOIFromTags(n.Tags, n.Lat, n.Lon); ok {
			pois = append(pois, poi)
		}
	}
	for _, w := range result.Ways {
		if isForbiddenMarine(w.Tags) {
			continue
		}
		lat, lon, ok := wayCenter(w)
		if !ok {
			continue
		}
		if poi, ok := marinePOIFromTags(w.Tags, lat, lon); ok {
			pois = append(pois, poi)
		}
	}
	return pois
}

func wayCenter(w *goverpass.Way) (lat, lon float64, ok bool) {
	if len(w.Geometry) == 0 {
		return 0, 0, false
	}
	var sumLat, sumLon float64
	for _, p := range w.Geometry {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(w.Geometry))
	return sumLat / n, sumLon / n, true
}

func landPOIFromTags(tags map[string]string, lat, lon float64) (model.POI, bool) {
	name := tags["name"]
	if name == "" {
		return model.POI{}, false
	}
	return model.POI{
		Name:        name,
		Lat:         lat,
		Lon:         lon,
		Kind:        model.KindLand,
		Source:      model.SourceOSM,
		Description: describeOSMTags(tags),
	}, true
}

func marinePOIFromTags(tags map[string]string, lat, lon float64) (model.POI, bool) {
	name := tags["name"]
	if name == "" {
		return model.POI{}, false
	}
	subkind := marineSubkindFromTags(tags)
	return model.POI{
		Name:          name,
		Lat:           lat,
		Lon:           lon,
		Kind:          model.KindMarine,
		MarineSubkind: subkind,
		Source:        model.SourceOSM,
		Description:   describeOSMTags(tags),
	}, true
}

func marineSubkindFromTags(tags map[string]string) model.MarineSubkind {
	switch {
	case tags["historic"] == "wreck" || tags["seamark:type"] == "wreck":
		return model.SubkindWreck
	case tags["natural"] == "reef" || tags["natural"] == "shoal" || tags["natural"] == "bank":
		return model.SubkindReef
	case tags["natural"] == "cave":
		return model.SubkindCave
	case tags["seamark:type"] == "obstruction":
		return model.SubkindObstruction
	case tags["sport"] == "diving":
		return model.SubkindDivingSite
	default:
		return model.SubkindMarinePOI
	}
}

func describeOSMTags(tags map[string]string) string {
	for _, k := range []string{"description", "tourism", "historic", "natural", "leisure"} {
		if v, ok := tags[k]; ok && v != "" {
			return strings.ReplaceAll(v, "_", " ")
		}
	}
	return ""
}
