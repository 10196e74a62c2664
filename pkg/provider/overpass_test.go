package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurel42/zonepoi/pkg/geo"
	"github.com/aurel42/zonepoi/pkg/model"
)

func testBBox() geo.BBox {
	return geo.BBox{South: 44.2, West: 9.1, North: 44.4, East: 9.3}
}

func TestBboxStr(t *testing.T) {
	s := bboxStr(testBBox())
	assert.Equal(t, "44.200000,9.100000,44.400000,9.300000", s)
}

func TestBuildTouristQuery_IncludesAllTagSets(t *testing.T) {
	q := buildTouristQuery(testBBox())
	for _, v := range touristTourismValues {
		assert.Contains(t, q, `"tourism"="`+v+`"`)
	}
	for _, v := range touristHistoricValues {
		assert.Contains(t, q, `"historic"="`+v+`"`)
	}
	assert.Contains(t, q, `"amenity"="place_of_worship"`)
}

func TestBuildMarineQuery_IncludesWreckAndReefTags(t *testing.T) {
	q := buildMarineQuery(testBBox())
	assert.Contains(t, q, `"historic"="wreck"`)
	assert.Contains(t, q, `"natural"="reef"`)
	assert.Contains(t, q, `"sport"="diving"`)
}

func TestIsForbiddenMarine(t *testing.T) {
	assert.True(t, isForbiddenMarine(map[string]string{"natural": "beach"}))
	assert.True(t, isForbiddenMarine(map[string]string{"man_made": "lighthouse"}))
	assert.False(t, isForbiddenMarine(map[string]string{"historic": "wreck"}))
}

func TestLandPOIFromTags(t *testing.T) {
	poi, ok := landPOIFromTags(map[string]string{"name": "Castello Brown", "tourism": "attraction"}, 44.3, 9.2)
	assert.True(t, ok)
	assert.Equal(t, "Castello Brown", poi.Name)
	assert.Equal(t, model.KindLand, poi.Kind)
	assert.Equal(t, model.SourceOSM, poi.Source)

	_, ok = landPOIFromTags(map[string]string{"tourism": "attraction"}, 44.3, 9.2)
	assert.False(t, ok, "unnamed features are dropped")
}

func TestMarinePOIFromTags(t *testing.T) {
	poi, ok := marinePOIFromTags(map[string]string{"name": "Relitto Haven", "historic": "wreck"}, 44.0, 8.9)
	assert.True(t, ok)
	assert.Equal(t, model.KindMarine, poi.Kind)
	assert.Equal(t, model.SubkindWreck, poi.MarineSubkind)
}

func TestMarineSubkindFromTags(t *testing.T) {
	assert.Equal(t, model.SubkindWreck, marineSubkindFromTags(map[string]string{"historic": "wreck"}))
	assert.Equal(t, model.SubkindReef, marineSubkindFromTags(map[string]string{"natural": "reef"}))
	assert.Equal(t, model.SubkindCave, marineSubkindFromTags(map[string]string{"natural": "cave"}))
	assert.Equal(t, model.SubkindObstruction, marineSubkindFromTags(map[string]string{"seamark:type": "obstruction"}))
	assert.Equal(t, model.SubkindDivingSite, marineSubkindFromTags(map[string]string{"sport": "diving"}))
	assert.Equal(t, model.SubkindMarinePOI, marineSubkindFromTags(map[string]string{}))
}

func TestDescribeOSMTags(t *testing.T) {
	assert.Equal(t, "ancient castle", describeOSMTags(map[string]string{"description": "ancient castle"}))
	assert.Equal(t, "attraction", describeOSMTags(map[string]string{"tourism": "attraction"}))
	assert.Equal(t, "", describeOSMTags(map[string]string{}))
}

func TestNewOverpassProvider_DefaultsWorkers(t *testing.T) {
	p := NewOverpassProvider("https://overpass-api.de/api/interpreter", 0)
	assert.NotNil(t, p)
}

func TestBuildPlacesQuery_IncludesAllPlaceValues(t *testing.T) {
	q := buildPlacesQuery(testBBox())
	for _, v := range placeValues {
		assert.Contains(t, q, `"place"="`+v+`"`)
	}
}

func TestPlaceCandidateFromTags(t *testing.T) {
	c, ok := placeCandidateFromTags(map[string]string{"name": "Portofino", "place": "town", "admin_level": "8"}, 44.3, 9.2)
	assert.True(t, ok)
	assert.Equal(t, "Portofino", c.Name)
	assert.Equal(t, "town", c.PlaceType)
	assert.Equal(t, "8", c.AdminLevel)

	_, ok = placeCandidateFromTags(map[string]string{"place": "hamlet"}, 44.3, 9.2)
	assert.False(t, ok, "unnamed places are dropped")
}
