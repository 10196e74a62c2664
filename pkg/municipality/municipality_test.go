package municipality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurel42/zonepoi/pkg/model"
)

func TestDiscover_AttachesFractionsViaTable(t *testing.T) {
	candidates := []Candidate{
		{Name: "Porto Venere", Lat: 44.05, Lng: 9.84, PlaceType: "town"},
		{Name: "Le Grazie", Lat: 44.06, Lng: 9.85, PlaceType: "hamlet"},
	}
	fractions := FractionTable{"le grazie": "porto venere"}

	result := Discover(candidates, fractions)
	require.Len(t, result, 1)
	assert.Equal(t, "Porto Venere", result[0].Name)
	assert.Equal(t, []string{"Le Grazie"}, result[0].Subdivisions)
	assert.Equal(t, 25, result[0].POICountEstimate)
}

func TestDiscover_SubstringFallback(t *testing.T) {
	candidates := []Candidate{
		{Name: "Lerici", Lat: 44.07, Lng: 9.91, PlaceType: "town"},
		{Name: "San Terenzo di Lerici", Lat: 44.08, Lng: 9.90, PlaceType: "suburb"},
	}
	result := Discover(candidates, FractionTable{})
	require.Len(t, result, 1)
	assert.Contains(t, result[0].Subdivisions, "San Terenzo di Lerici")
}

func TestDiscover_PromotesUnmatchedHamlet(t *testing.T) {
	candidates := []Candidate{
		{Name: "Portofino", Lat: 44.30, Lng: 9.21, PlaceType: "town"},
		{Name: "Cavi", Lat: 44.31, Lng: 9.44, PlaceType: "hamlet"},
	}
	result := Discover(candidates, FractionTable{})
	assert.Len(t, result, 2)
}

func TestEstimatePOICount(t *testing.T) {
	assert.Equal(t, 20, EstimatePOICount("small village", 0, 0))
	assert.Equal(t, 35, EstimatePOICount("small village", 3, 0))
	assert.Equal(t, 150, EstimatePOICount("la spezia", 0, 150))
}

func TestClassifyTourism(t *testing.T) {
	municipalities := []model.Municipality{
		{Name: "Portovenere", POICountEstimate: 80},
		{Name: "La Spezia", POICountEstimate: 150},
		{Name: "Obscure Town", POICountEstimate: 20},
	}
	table := TourismTable{High: []string{"portovenere"}, Medium: []string{"la spezia"}}

	result := ClassifyTourism(municipalities, table)
	assert.Equal(t, model.TourismHigh, result[0].TourismLevel)
	assert.Equal(t, 120, result[0].POICountEstimate)
	assert.Equal(t, model.TourismMedium, result[1].TourismLevel)
	assert.Equal(t, 180, result[1].POICountEstimate)
	assert.Equal(t, model.TourismLow, result[2].TourismLevel)
}

func TestAddGeographicContext(t *testing.T) {
	municipalities := []model.Municipality{{Name: "Portofino"}}
	result := AddGeographicContext(municipalities, "Golfo del Tigullio")
	assert.Equal(t, model.ContextCoastal, result[0].GeographicContext)

	result = AddGeographicContext(municipalities, "Unremarkable Valley")
	assert.Equal(t, model.ContextGeneric, result[0].GeographicContext)
}

func TestFilterPrincipal(t *testing.T) {
	names := []string{"Portofino", "San Rocco di Camogli", "Le Grazie", "Zoagli"}
	result := FilterPrincipal(names)
	assert.Contains(t, result, "Portofino")
	assert.Contains(t, result, "Zoagli")
	assert.NotContains(t, result, "San Rocco di Camogli")
	assert.NotContains(t, result, "Le Grazie")
}

func TestMergeCandidates_DedupesByCaseNormalizedName(t *testing.T) {
	overpass := []Candidate{
		{Name: "Portofino", Lat: 44.30, Lng: 9.21, PlaceType: "town"},
	}
	geocoder := []Candidate{
		{Name: "portofino", Lat: 44.301, Lng: 9.211, PlaceType: "town"},
		{Name: "Santa Margherita Ligure", Lat: 44.33, Lng: 9.21, PlaceType: "town"},
	}

	result := MergeCandidates(overpass, geocoder)
	require.Len(t, result, 2)
	assert.Equal(t, "Portofino", result[0].Name)
	assert.InDelta(t, 44.30, result[0].Lat, 0.0001) // overpass candidate wins the collision
	assert.Equal(t, "Santa Margherita Ligure", result[1].Name)
}

func TestFilterPrincipal_FallsBackWhenAllExcluded(t *testing.T) {
	names := []string{"Le Grazie", "La Spezia"}
	result := FilterPrincipal(names)
	assert.Equal(t, names, result)
}
