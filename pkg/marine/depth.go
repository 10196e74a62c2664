// Package marine implements the underwater-only sub-pipeline: wreck-name
// and coordinate/depth extraction from diving-center page prose, and the
// depth/accessibility classification of marine POIs.
package marine

import (
	"github.com/aurel42/zonepoi/pkg/model"
)

// CategorizeDepth buckets pois by depth in meters: 0-5m surface, 5-18m
// shallow, 18-40m recreational, 40m+ technical, no depth known unknown.
func CategorizeDepth(pois []model.POI) map[model.DepthBucket]int {
	buckets := map[model.DepthBucket]int{
		model.DepthSurface:      0,
		model.DepthShallow:      0,
		model.DepthRecreational: 0,
		model.DepthTechnical:    0,
		model.DepthUnknown:      0,
	}
	for _, poi := range pois {
		buckets[depthBucket(poi.DepthMeters)]++
	}
	return buckets
}

func depthBucket(depth *float64) model.DepthBucket {
	if depth == nil {
		return model.DepthUnknown
	}
	switch {
	case *depth <= 5:
		return model.DepthSurface
	case *depth <= 18:
		return model.DepthShallow
	case *depth <= 40:
		return model.DepthRecreational
	default:
		return model.DepthTechnical
	}
}

// AddAccessibility sets each marine POI's Accessibility from its depth:
// <=5m easy/snorkeling, <=18m moderate/Open Water, <=30m advanced/Advanced
// Open Water, deeper expert/technical diving; unknown depth is left
// unknown.
func AddAccessibility(pois []model.POI) []model.POI {
	for i, poi := range pois {
		pois[i].Accessibility = accessibilityFor(poi.DepthMeters)
	}
	return pois
}

func accessibilityFor(depth *float64) model.Accessibility {
	if depth == nil {
		return model.Accessibility{Level: model.AccessibilityUnknown, Requirements: "inquire locally"}
	}
	switch {
	case *depth <= 5:
		return model.Accessibility{Level: model.AccessibilityEasy, Requirements: "snorkeling, swimming"}
	case *depth <= 18:
		return model.Accessibility{Level: model.AccessibilityModerate, Requirements: "Open Water Diver"}
	case *depth <= 30:
		return model.Accessibility{Level: model.AccessibilityAdvanced, Requirements: "Advanced Open Water Diver"}
	default:
		return model.Accessibility{Level: model.AccessibilityExpert, Requirements: "deep diving specialty"}
	}
}
