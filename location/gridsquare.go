// Package location converts between Maidenhead locators and coordinates
// and measures distances between stations.
package location

import (
	"fmt"
	"math"
	"strings"
)

// GridSquareToLatLon converts a Maidenhead gridsquare (like "EN91" or
// "EN91kl") to the latitude and longitude of its center.
func GridSquareToLatLon(grid string) (float64, float64, error) {
	grid = strings.ToUpper(strings.TrimSpace(grid))
	if len(grid) != 4 && len(grid) != 6 {
		return 0, 0, fmt.Errorf("gridsquare must have 4 or 6 characters: %q", grid)
	}
	if !inRange(grid[0], 'A', 'R') || !inRange(grid[1], 'A', 'R') ||
		!inRange(grid[2], '0', '9') || !inRange(grid[3], '0', '9') {
		return 0, 0, fmt.Errorf("invalid gridsquare: %q", grid)
	}

	// Field is 20° x 10°, square 2° x 1°
	lon := float64(grid[0]-'A')*20 - 180 + float64(grid[2]-'0')*2
	lat := float64(grid[1]-'A')*10 - 90 + float64(grid[3]-'0')

	if len(grid) == 4 {
		return lat + 0.5, lon + 1, nil
	}

	if !inRange(grid[4], 'A', 'X') || !inRange(grid[5], 'A', 'X') {
		return 0, 0, fmt.Errorf("invalid gridsquare subsquare: %q", grid)
	}
	// Subsquare is 5' x 2.5'
	lon += float64(grid[4]-'A') * (2.0 / 24)
	lat += float64(grid[5]-'A') * (1.0 / 24)
	return lat + 0.5/24, lon + 1.0/24, nil
}

// LatLonToGridSquare returns the six character locator containing the point.
func LatLonToGridSquare(lat, lon float64) (string, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return "", fmt.Errorf("coordinates out of range: %f, %f", lat, lon)
	}
	// Keep the poles and antimeridian inside the last field
	lon = math.Min(lon+180, 360-1e-9)
	lat = math.Min(lat+90, 180-1e-9)

	b := []byte{
		'A' + byte(lon/20),
		'A' + byte(lat/10),
		'0' + byte(math.Mod(lon, 20)/2),
		'0' + byte(math.Mod(lat, 10)),
		'a' + byte(math.Mod(lon, 2)*12),
		'a' + byte(math.Mod(lat, 1)*24),
	}
	return string(b), nil
}

func inRange(c, lo, hi byte) bool {
	return c >= lo && c <= hi
}
