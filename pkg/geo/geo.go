// Package geo implements the pipeline's pure geometry operations: bounding
// box computation, point-in-polygon, coastal bbox extension, centroid and
// geodesic distance.
package geo

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/aurel42/zonepoi/pkg/model"
)

// BBox is an axis-aligned bounding box in WGS-84 degrees.
type BBox struct {
	South, West, North, East float64
}

// MidLat returns the bbox's mid-latitude, used to convert km to degrees.
func (b BBox) MidLat() float64 {
	return (b.South + b.North) / 2
}

// ComputeBBox returns the minimal bounding box enclosing the polygon.
func ComputeBBox(polygon []model.LatLng) BBox {
	if len(polygon) == 0 {
		return BBox{}
	}
	b := BBox{South: polygon[0].Lat, North: polygon[0].Lat, West: polygon[0].Lng, East: polygon[0].Lng}
	for _, v := range polygon[1:] {
		if v.Lat < b.South {
			b.South = v.Lat
		}
		if v.Lat > b.North {
			b.North = v.Lat
		}
		if v.Lng < b.West {
			b.West = v.Lng
		}
		if v.Lng > b.East {
			b.East = v.Lng
		}
	}
	return b
}

// ExtendTowardSea expands the southern and western edges of bbox by kmOut
// kilometers, converted to degrees at the bbox's mid-latitude. Callers only
// pass extend=true for zones known to border the sea; for an inland polygon
// the bbox is returned unchanged.
func ExtendTowardSea(b BBox, extend bool, kmOut float64) BBox {
	if !extend || kmOut <= 0 {
		return b
	}
	latRad := b.MidLat() * math.Pi / 180
	degPerKmLat := 1.0 / 111.32
	degPerKmLon := 1.0 / (111.32 * math.Cos(latRad))
	if math.Cos(latRad) == 0 {
		degPerKmLon = degPerKmLat
	}
	out := b
	out.South -= kmOut * degPerKmLat
	out.West -= kmOut * degPerKmLon
	return out
}

// PointInPolygon reports whether p lies inside (or on the boundary of) the
// polygon using an even-odd ray cast; the boundary counts as inside.
func PointInPolygon(p model.LatLng, polygon []model.LatLng) bool {
	if len(polygon) < 3 {
		return false
	}
	if onBoundary(p, polygon) {
		return true
	}
	inside := false
	n := len(polygon)
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Lat > p.Lat) != (pj.Lat > p.Lat) {
			xInt := (pj.Lng-pi.Lng)*(p.Lat-pi.Lat)/(pj.Lat-pi.Lat) + pi.Lng
			if p.Lng < xInt {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

func onBoundary(p model.LatLng, polygon []model.LatLng) bool {
	n := len(polygon)
	for i := 0; i < n; i++ {
		a := polygon[i]
		b := polygon[(i+1)%n]
		d := distanceToSegment(orb.Point{p.Lng, p.Lat}, orb.Point{a.Lng, a.Lat}, orb.Point{b.Lng, b.Lat})
		// ~0.1mm in degrees-as-planar-units at typical latitudes; treat as "on the line".
		if d < 1e-9 {
			return true
		}
	}
	return false
}

// Centroid returns the arithmetic mean of the polygon's vertices, which is
// sufficient precision for the small zones this pipeline operates on.
func Centroid(polygon []model.LatLng) model.LatLng {
	if len(polygon) == 0 {
		return model.LatLng{}
	}
	var sumLat, sumLng float64
	for _, v := range polygon {
		sumLat += v.Lat
		sumLng += v.Lng
	}
	n := float64(len(polygon))
	return model.LatLng{Lat: sumLat / n, Lng: sumLng / n}
}

// GeodesicDistanceM returns the great-circle distance between two points in
// meters.
func GeodesicDistanceM(a, b model.LatLng) float64 {
	const R = 6371000.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lng - a.Lng) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return R * c
}

// ValidatePolygon enforces the request contract: at least 3 vertices, each a
// valid WGS-84 coordinate.
func ValidatePolygon(polygon []model.LatLng) error {
	if len(polygon) < 3 {
		return errInvalidPolygon("polygon must have at least 3 vertices")
	}
	for _, v := range polygon {
		if v.Lat < -90 || v.Lat > 90 || v.Lng < -180 || v.Lng > 180 {
			return errInvalidPolygon("vertex out of range")
		}
	}
	return nil
}

type polygonError string

func (e polygonError) Error() string { return string(e) }

func errInvalidPolygon(msg string) error { return polygonError(msg) }
