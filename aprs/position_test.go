package aprs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"packetchat/packet"
)

func TestBuildPosition(t *testing.T) {
	tests := []struct {
		name string
		pos  packet.Position
		want string
	}{
		{
			"north east",
			packet.Position{Latitude: 45.5, Longitude: 9.25, SymbolTable: '/', SymbolCode: '>'},
			"!4530.00N/00915.00E>",
		},
		{
			"south west with comment",
			packet.Position{Latitude: -33.8688, Longitude: -151.2093, SymbolTable: '\\', SymbolCode: '-', Comment: "home"},
			"!3352.13S\\15112.56W-home",
		},
		{
			"minutes round up into degrees",
			packet.Position{Latitude: 44.99999, Longitude: -0.0000001, SymbolTable: '/', SymbolCode: '>'},
			"!4500.00N/00000.00W>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(BuildPosition(tt.pos)))
		})
	}
}

func TestParseNormal(t *testing.T) {
	pos, err := parseNormal("!4530.00N/00915.00E>mobile")
	require.NoError(t, err)
	assert.InDelta(t, 45.5, pos.Latitude, 1e-9)
	assert.InDelta(t, 9.25, pos.Longitude, 1e-9)
	assert.Equal(t, byte('/'), pos.SymbolTable)
	assert.Equal(t, byte('>'), pos.SymbolCode)
	assert.Equal(t, "mobile", pos.Comment)
}

func TestParseNormalTimestamped(t *testing.T) {
	pos, err := parseNormal("@092345z4903.50N/07201.75W>")
	require.NoError(t, err)
	assert.InDelta(t, 49.058333, pos.Latitude, 1e-5)
	assert.InDelta(t, -72.029167, pos.Longitude, 1e-5)
}

func TestParseNormalAmbiguity(t *testing.T) {
	pos, err := parseNormal("!4530.  N/00915.  E>")
	require.NoError(t, err)
	assert.InDelta(t, 45+30.55/60, pos.Latitude, 1e-9)
}

func TestParseNormalErrors(t *testing.T) {
	for _, payload := range []string{
		"!4530.00N",
		"!4530.00X/00915.00E>",
		"!45AB.00N/00915.00E>",
	} {
		_, err := parseNormal(payload)
		assert.Error(t, err, payload)
	}
}

func TestParseObjectPosition(t *testing.T) {
	pos, err := parseObjectPosition([]byte(";LEADER   *092345z4903.50N/07201.75W>Object"))
	require.NoError(t, err)
	assert.InDelta(t, 49.058333, pos.Latitude, 1e-5)
	assert.Equal(t, "Object", pos.Comment)

	_, err = parseObjectPosition([]byte(";LEADER   #092345z4903.50N/07201.75W>"))
	assert.Error(t, err)
}

func TestPositionRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lat := rapid.Float64Range(-89.9, 89.9).Draw(t, "lat")
		lon := rapid.Float64Range(-179.9, 179.9).Draw(t, "lon")

		info := BuildPosition(packet.Position{Latitude: lat, Longitude: lon, SymbolTable: '/', SymbolCode: '>'})
		pos, err := parseNormal(string(info))
		require.NoError(t, err)

		// Hundredths of a minute is about 0.00017 degrees
		assert.InDelta(t, lat, pos.Latitude, 0.0002)
		assert.InDelta(t, lon, pos.Longitude, 0.0002)
	})
}
