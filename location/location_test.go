package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGridSquareToLatLon(t *testing.T) {
	lat, lon, err := GridSquareToLatLon("EN91")
	require.NoError(t, err)
	assert.InDelta(t, 41.5, lat, 1e-9)
	assert.InDelta(t, -81.0, lon, 1e-9)

	lat, lon, err = GridSquareToLatLon("jn45ol")
	require.NoError(t, err)
	assert.InDelta(t, 45.479, lat, 0.001)
	assert.InDelta(t, 9.208, lon, 0.001)
}

func TestGridSquareErrors(t *testing.T) {
	for _, grid := range []string{"", "EN9", "EN91k", "ZZ99", "EN9A", "EN91zz"} {
		_, _, err := GridSquareToLatLon(grid)
		assert.Error(t, err, grid)
	}
}

func TestLatLonToGridSquare(t *testing.T) {
	grid, err := LatLonToGridSquare(45.479, 9.208)
	require.NoError(t, err)
	assert.Equal(t, "JN45ol", grid)

	grid, err = LatLonToGridSquare(90, 180)
	require.NoError(t, err)
	assert.Equal(t, "RR99xx", grid)

	_, err = LatLonToGridSquare(91, 0)
	assert.Error(t, err)
}

func TestGridSquareRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lat := rapid.Float64Range(-89.9, 89.9).Draw(t, "lat")
		lon := rapid.Float64Range(-179.9, 179.9).Draw(t, "lon")

		grid, err := LatLonToGridSquare(lat, lon)
		if err != nil {
			t.Fatal(err)
		}
		clat, clon, err := GridSquareToLatLon(grid)
		if err != nil {
			t.Fatalf("%s: %v", grid, err)
		}
		// The center of a subsquare is at most half a cell away
		if d := clat - lat; d > 1.0/48+1e-9 || d < -1.0/48-1e-9 {
			t.Fatalf("%s: lat %f center %f", grid, lat, clat)
		}
		if d := clon - lon; d > 1.0/24+1e-9 || d < -1.0/24-1e-9 {
			t.Fatalf("%s: lon %f center %f", grid, lon, clon)
		}
	})
}

func TestDistanceKm(t *testing.T) {
	milan := Point{Lat: 45.4642, Lon: 9.19}
	rome := Point{Lat: 41.9028, Lon: 12.4964}
	assert.InDelta(t, 477, DistanceKm(milan, rome), 5)
	assert.InDelta(t, 0, DistanceKm(milan, milan), 1e-9)
}

func TestBearing(t *testing.T) {
	origin := Point{}
	assert.InDelta(t, 0, Bearing(origin, Point{Lat: 1}), 1e-6)
	assert.InDelta(t, 90, Bearing(origin, Point{Lon: 1}), 1e-6)
	assert.InDelta(t, 180, Bearing(origin, Point{Lat: -1}), 1e-6)
	assert.InDelta(t, 270, Bearing(origin, Point{Lon: -1}), 1e-6)
}

func TestCompass(t *testing.T) {
	assert.Equal(t, "N", Compass(0))
	assert.Equal(t, "N", Compass(359))
	assert.Equal(t, "NE", Compass(40))
	assert.Equal(t, "SW", Compass(225))
}
