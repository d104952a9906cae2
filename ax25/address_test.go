package ax25

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeAddress(t *testing.T) {
	got := EncodeAddress("n0call", 7, true)
	want := []byte{'N' << 1, '0' << 1, 'C' << 1, 'A' << 1, 'L' << 1, 'L' << 1, 0x6F}
	assert.Equal(t, want, got)
}

func TestEncodeAddressPadsAndTruncates(t *testing.T) {
	short := EncodeAddress("AB", 0, false)
	assert.Equal(t, byte(' '<<1), short[2])
	assert.Equal(t, byte(' '<<1), short[5])
	assert.Equal(t, byte(0x60), short[6])

	long := EncodeAddress("ABCDEFGH", 0, false)
	addr, err := DecodeAddress(long)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEF", addr.Callsign)
}

func TestEncodeAddressMasksSSID(t *testing.T) {
	addr, err := DecodeAddress(EncodeAddress("W1AW", 17, false))
	require.NoError(t, err)
	assert.Equal(t, 1, addr.SSID)
}

func TestDecodeAddressRepeatedBit(t *testing.T) {
	field := EncodeAddress("WIDE1", 1, true)
	field[6] |= 0x80

	addr, err := DecodeAddress(field)
	require.NoError(t, err)
	assert.Equal(t, Address{Callsign: "WIDE1", SSID: 1, IsLast: true, Repeated: true}, addr)
	assert.Equal(t, "WIDE1-1", addr.String())
}

func TestDecodeAddressBadLength(t *testing.T) {
	for _, n := range []int{0, 6, 8} {
		_, err := DecodeAddress(make([]byte, n))
		assert.ErrorIs(t, err, ErrInvalidAddressLength)
	}
}

func TestParseCallsign(t *testing.T) {
	tests := []struct {
		in   string
		call string
		ssid int
	}{
		{"N0CALL", "N0CALL", 0},
		{"N0CALL-9", "N0CALL", 9},
		{"WIDE2-2", "WIDE2", 2},
		{"N0CALL-X", "N0CALL", 0},
		{"N0CALL-", "N0CALL", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			call, ssid := ParseCallsign(tt.in)
			assert.Equal(t, tt.call, call)
			assert.Equal(t, tt.ssid, ssid)
		})
	}
}

func callsignGen() *rapid.Generator[string] {
	return rapid.StringOfN(rapid.RuneFrom([]rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")), 1, 6, -1)
}

func TestAddressRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		call := callsignGen().Draw(t, "call")
		ssid := rapid.IntRange(0, 15).Draw(t, "ssid")
		last := rapid.Bool().Draw(t, "last")

		addr, err := DecodeAddress(EncodeAddress(call, ssid, last))
		require.NoError(t, err)
		assert.Equal(t, strings.TrimRight(call, " "), addr.Callsign)
		assert.Equal(t, ssid, addr.SSID)
		assert.Equal(t, last, addr.IsLast)
		assert.False(t, addr.Repeated)
	})
}
