// Package geo implements great-circle distance and the radius and bounding box filters used by search.
package geo

import (
	"math"

	"villfinder-backend/internal/pkg/apperrors"
)

// EarthRadiusKm is the mean Earth radius.
const EarthRadiusKm = 6371.0

// Point is a coordinate in degrees.
type Point struct {
	Lon float64
	Lat float64
}

// Positioned is anything with a (longitude, latitude) position in degrees.
type Positioned interface {
	Coordinates() (lon, lat float64)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// HaversineKm returns the great-circle distance in kilometres between two points given in degrees.
func HaversineKm(lon1, lat1, lon2, lat2 float64) float64 {
	phi1, phi2 := radians(lat1), radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) + math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	// Rounding can push a a hair above 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))
	return EarthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

// Distance is HaversineKm between two points.
func Distance(a, b Point) float64 {
	return HaversineKm(a.Lon, a.Lat, b.Lon, b.Lat)
}

// DistanceTo returns the distance from center to p.
func DistanceTo(center Point, p Positioned) float64 {
	lon, lat := p.Coordinates()
	return HaversineKm(center.Lon, center.Lat, lon, lat)
}

// FilterByRadius keeps the items within radiusKm of center, inclusive, preserving order.
func FilterByRadius[T Positioned](items []T, center Point, radiusKm float64) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if DistanceTo(center, it) <= radiusKm {
			out = append(out, it)
		}
	}
	return out
}

// BoundingBox is an inclusive latitude/longitude window. Nil bounds are open.
type BoundingBox struct {
	MinLat *float64
	MaxLat *float64
	MinLon *float64
	MaxLon *float64
}

// IsZero reports whether no bound is set.
func (b BoundingBox) IsZero() bool {
	return b.MinLat == nil && b.MaxLat == nil && b.MinLon == nil && b.MaxLon == nil
}

func (b BoundingBox) Contains(lon, lat float64) bool {
	if b.MinLat != nil && lat < *b.MinLat {
		return false
	}
	if b.MaxLat != nil && lat > *b.MaxLat {
		return false
	}
	if b.MinLon != nil && lon < *b.MinLon {
		return false
	}
	if b.MaxLon != nil && lon > *b.MaxLon {
		return false
	}
	return true
}

// FilterByBox keeps the items inside box, preserving order.
func FilterByBox[T Positioned](items []T, box BoundingBox) []T {
	if box.IsZero() {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if box.Contains(it.Coordinates()) {
			out = append(out, it)
		}
	}
	return out
}

// ValidateLatitude and ValidateLongitude report out-of-range coordinates as ValidationErrors on field.
func ValidateLatitude(field string, lat float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return apperrors.Validation(field, field+" must be between -90 and 90")
	}
	return nil
}

func ValidateLongitude(field string, lon float64) error {
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return apperrors.Validation(field, field+" must be between -180 and 180")
	}
	return nil
}
