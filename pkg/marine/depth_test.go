package marine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurel42/zonepoi/pkg/model"
)

func ptr(f float64) *float64 { return &f }

func TestCategorizeDepth(t *testing.T) {
	pois := []model.POI{
		{DepthMeters: ptr(3)},
		{DepthMeters: ptr(12)},
		{DepthMeters: ptr(25)},
		{DepthMeters: ptr(55)},
		{DepthMeters: nil},
	}
	buckets := CategorizeDepth(pois)
	assert.Equal(t, 1, buckets[model.DepthSurface])
	assert.Equal(t, 1, buckets[model.DepthShallow])
	assert.Equal(t, 1, buckets[model.DepthRecreational])
	assert.Equal(t, 1, buckets[model.DepthTechnical])
	assert.Equal(t, 1, buckets[model.DepthUnknown])
}

func TestAddAccessibility(t *testing.T) {
	pois := []model.POI{
		{DepthMeters: ptr(4)},
		{DepthMeters: ptr(15)},
		{DepthMeters: ptr(28)},
		{DepthMeters: ptr(45)},
		{DepthMeters: nil},
	}
	result := AddAccessibility(pois)
	assert.Equal(t, model.AccessibilityEasy, result[0].Accessibility.Level)
	assert.Equal(t, model.AccessibilityModerate, result[1].Accessibility.Level)
	assert.Equal(t, model.AccessibilityAdvanced, result[2].Accessibility.Level)
	assert.Equal(t, model.AccessibilityExpert, result[3].Accessibility.Level)
	assert.Equal(t, model.AccessibilityUnknown, result[4].Accessibility.Level)
}

func TestDepthVsAccessibilityThresholdsDiffer(t *testing.T) {
	// 35m is "recreational" by depth bucket but "expert" by accessibility —
	// the two scales intentionally split at different depths.
	depth := 35.0
	poi := model.POI{DepthMeters: &depth}
	assert.Equal(t, model.DepthRecreational, depthBucket(poi.DepthMeters))
	assert.Equal(t, model.AccessibilityExpert, accessibilityFor(poi.DepthMeters).Level)
}
