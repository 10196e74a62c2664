package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPOIString(t *testing.T) {
	p := &POI{Name: "Castello di X", Kind: KindLand, Source: SourceOSM, Lat: 44.1, Lon: 9.9}
	assert.Contains(t, p.String(), "Castello di X")
	assert.Contains(t, p.String(), "osm")
}

func TestLocationInfoIsWater(t *testing.T) {
	assert.True(t, LocationInfo{PlaceType: "sea"}.IsWater())
	assert.True(t, LocationInfo{PlaceType: "ocean"}.IsWater())
	assert.False(t, LocationInfo{PlaceType: "city"}.IsWater())
	assert.False(t, LocationInfo{}.IsWater())
}
