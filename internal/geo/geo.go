// internal/geo/geo.go
// Great-circle math shared by the discovery filters and scorer

package geo

import (
	"errors"
	"math"
)

// EarthRadiusKm is the mean Earth radius used for haversine distances.
const EarthRadiusKm = 6371

var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Distance returns the haversine distance in kilometers between two points.
func Distance(lat1, lon1, lat2, lon2 float64) (float64, error) {
	if err := validate(lat1, lon1); err != nil {
		return 0, err
	}
	if err := validate(lat2, lon2); err != nil {
		return 0, err
	}

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c, nil
}

// Bearing returns the initial bearing from the first point to the second,
// in degrees normalized to [0, 360).
func Bearing(lat1, lon1, lat2, lon2 float64) (float64, error) {
	if err := validate(lat1, lon1); err != nil {
		return 0, err
	}
	if err := validate(lat2, lon2); err != nil {
		return 0, err
	}

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)

	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360), nil
}

// IsWithinRadius reports whether the point lies within radiusKm of the center.
func IsWithinRadius(centerLat, centerLon, pointLat, pointLon, radiusKm float64) (bool, error) {
	d, err := Distance(centerLat, centerLon, pointLat, pointLon)
	if err != nil {
		return false, err
	}
	return d <= radiusKm, nil
}

func validate(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return ErrInvalidCoordinate
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}
