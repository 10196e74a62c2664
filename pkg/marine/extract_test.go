package marine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurel42/zonepoi/pkg/geo"
)

func TestExtractDepthMeters(t *testing.T) {
	d, ok := ExtractDepthMeters("The wreck lies at a depth of 28 m, in open water.")
	assert.True(t, ok)
	assert.InDelta(t, 28.0, d, 0.01)

	d, ok = ExtractDepthMeters("Profondità: 18 m, visibility excellent.")
	assert.True(t, ok)
	assert.InDelta(t, 18.0, d, 0.01)

	d, ok = ExtractDepthMeters("Resting at 90 ft below the surface.")
	assert.True(t, ok)
	assert.InDelta(t, 27.43, d, 0.1)

	_, ok = ExtractDepthMeters("No numbers here at all.")
	assert.False(t, ok)
}

func TestExtractCoordinates(t *testing.T) {
	bbox := geo.BBox{South: 44.0, West: 9.0, North: 44.5, East: 9.5}

	lat, lng, ok := ExtractCoordinates("Location: lat: 44.303, long: 9.213 near the point.", bbox)
	assert.True(t, ok)
	assert.InDelta(t, 44.303, lat, 0.001)
	assert.InDelta(t, 9.213, lng, 0.001)

	lat, lng, ok = ExtractCoordinates("GPS: 44.31, 9.22", bbox)
	assert.True(t, ok)
	assert.InDelta(t, 44.31, lat, 0.001)
	assert.InDelta(t, 9.22, lng, 0.001)

	_, _, ok = ExtractCoordinates("Coordinates: 10.0, 100.0 far away", bbox)
	assert.False(t, ok, "coordinates outside bbox must be rejected")

	_, _, ok = ExtractCoordinates("no coordinates mentioned", bbox)
	assert.False(t, ok)
}

func TestExtractWreckName(t *testing.T) {
	assert.Equal(t, "Andrea Doria", ExtractWreckName("Wreck of the Andrea Doria, sunk in 1956."))
	assert.Equal(t, "Negus", ExtractWreckName("Relitto del Negus, un piroscafo"))
	assert.Equal(t, "Haven", ExtractWreckName("naufragio Haven"))
	assert.Equal(t, "", ExtractWreckName("no wreck mention here"))
}

func TestFilterValidWreckNames(t *testing.T) {
	names := []string{
		"Andrea Doria",
		"the",
		"B",
		"Haven",
		"wreck",
		"http://example.com/foo",
		"Andrea Doria", // duplicate
		"Moby",
	}
	result := FilterValidWreckNames(names)
	assert.Contains(t, result, "Andrea Doria")
	assert.Contains(t, result, "Haven")
	assert.Contains(t, result, "Moby")
	assert.NotContains(t, result, "the")
	assert.NotContains(t, result, "B")
	assert.NotContains(t, result, "wreck")
	assert.Len(t, result, 3)
}
