package location

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius.
const EarthRadiusKm = 6371.0088

// Point is a station position in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

func (p Point) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lon)
}

// DistanceKm returns the great circle distance between two points.
func DistanceKm(from, to Point) float64 {
	angle := from.latLng().Distance(to.latLng())
	return angle.Radians() * EarthRadiusKm
}

// Bearing returns the initial great circle bearing from one point to
// another, in degrees clockwise from true north in [0, 360).
func Bearing(from, to Point) float64 {
	a, b := from.latLng(), to.latLng()
	dLng := float64(b.Lng - a.Lng)
	lat1, lat2 := float64(a.Lat), float64(b.Lat)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	deg := s1.Angle(math.Atan2(y, x)).Degrees()
	return math.Mod(deg+360, 360)
}

// Compass names the eight-point compass direction nearest to a bearing.
func Compass(bearing float64) string {
	points := [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	i := int(math.Round(math.Mod(bearing+360, 360)/45)) % len(points)
	return points[i]
}
