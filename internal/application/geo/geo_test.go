package geo

import (
	"math"
	"testing"

	"villfinder-backend/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

// degreesHaversine feeds raw degrees into the trigonometric functions, as an
// earlier revision of the search code did.
func degreesHaversine(lon1, lat1, lon2, lat2 float64) float64 {
	dlon := lon2 - lon1
	dlat := lat2 - lat1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	return EarthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

type place struct {
	name     string
	lon, lat float64
}

func (p place) Coordinates() (float64, float64) { return p.lon, p.lat }

var (
	manilaCity = Point{Lon: 120.9842, Lat: 14.5995}
	quezonCity = Point{Lon: 121.0437, Lat: 14.6760}
)

func TestHaversine_SamePointIsZero(t *testing.T) {
	for _, p := range []Point{manilaCity, quezonCity, {0, 0}, {-179.9, 89.9}} {
		assert.Equal(t, 0.0, HaversineKm(p.Lon, p.Lat, p.Lon, p.Lat))
		assert.Equal(t, 0.0, degreesHaversine(p.Lon, p.Lat, p.Lon, p.Lat))
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	pairs := [][2]Point{
		{manilaCity, quezonCity},
		{{Lon: -73.9857, Lat: 40.7484}, {Lon: 2.2945, Lat: 48.8584}},
		{{Lon: 151.2153, Lat: -33.8568}, {Lon: 139.6917, Lat: 35.6895}},
	}
	for _, p := range pairs {
		assert.InDelta(t, Distance(p[0], p[1]), Distance(p[1], p[0]), 1e-9)
	}
}

func TestHaversine_ManilaToQuezonCity(t *testing.T) {
	assert.InDelta(t, 10.5, Distance(manilaCity, quezonCity), 1.0)
}

func TestHaversine_DiffersFromDegreesVariant(t *testing.T) {
	good := Distance(manilaCity, quezonCity)
	bad := degreesHaversine(manilaCity.Lon, manilaCity.Lat, quezonCity.Lon, quezonCity.Lat)
	assert.Greater(t, math.Abs(good-bad), 100.0)
}

func TestHaversine_Antipodal(t *testing.T) {
	assert.InDelta(t, math.Pi*EarthRadiusKm, HaversineKm(0, 0, 180, 0), 1e-6)
}

func TestFilterByRadius(t *testing.T) {
	items := []place{
		{"makati", 121.0244, 14.5547},
		{"quezon", quezonCity.Lon, quezonCity.Lat},
		{"cebu", 123.8854, 10.3157},
	}
	within := FilterByRadius(items, manilaCity, 10)
	assert.Equal(t, []place{items[0]}, within)

	wider := FilterByRadius(items, manilaCity, 12)
	assert.Equal(t, []place{items[0], items[1]}, wider)

	assert.Len(t, FilterByRadius(items, manilaCity, 10000), 3)
}

func TestFilterByRadius_InclusiveBoundary(t *testing.T) {
	items := []place{{"at-center", manilaCity.Lon, manilaCity.Lat}}
	assert.Len(t, FilterByRadius(items, manilaCity, 0), 1)
}

func TestFilterByBox(t *testing.T) {
	items := []place{
		{"makati", 121.0244, 14.5547},
		{"cebu", 123.8854, 10.3157},
	}
	minLat, maxLat := 14.0, 15.0
	box := BoundingBox{MinLat: &minLat, MaxLat: &maxLat}
	assert.Equal(t, []place{items[0]}, FilterByBox(items, box))

	assert.Equal(t, items, FilterByBox(items, BoundingBox{}))

	minLon := 122.0
	assert.Equal(t, []place{items[1]}, FilterByBox(items, BoundingBox{MinLon: &minLon}))
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateLatitude("latitude", 90))
	assert.NoError(t, ValidateLongitude("longitude", -180))

	err := ValidateLatitude("latitude", 90.5)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "latitude")

	assert.True(t, apperrors.IsValidation(ValidateLongitude("longitude", 181)))
	assert.True(t, apperrors.IsValidation(ValidateLatitude("latitude", math.NaN())))
}
