package ax25

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeFrameLayout(t *testing.T) {
	raw, err := EncodeFrame("APZ001", "N0CALL-7", []string{"WIDE1-1", "WIDE2-2"}, []byte(">hi"))
	require.NoError(t, err)
	require.Len(t, raw, 4*AddressLen+2+3)

	assert.Equal(t, byte(0x60), raw[6], "destination is never last")
	assert.Equal(t, byte(0x60|7<<1), raw[13], "source is not last when a path follows")
	assert.Equal(t, byte(0x60|1<<1), raw[20])
	assert.Equal(t, byte(0x61|2<<1), raw[27])
	assert.Equal(t, []byte{ControlUI, PIDNoLayer3, '>', 'h', 'i'}, raw[28:])
}

func TestEncodeFrameNoPath(t *testing.T) {
	raw, err := EncodeFrame("APZ001", "N0CALL", nil, nil)
	require.NoError(t, err)
	assert.Len(t, raw, 16)
	assert.Equal(t, byte(0x61), raw[13])
}

func TestEncodeFrameTooManyDigipeaters(t *testing.T) {
	path := make([]string, MaxDigipeaters+1)
	for i := range path {
		path[i] = fmt.Sprintf("DIGI%d", i)
	}
	_, err := EncodeFrame("APZ001", "N0CALL", path, nil)
	assert.ErrorIs(t, err, ErrTooManyDigipeaters)
}

func TestDecodeFrame(t *testing.T) {
	raw, err := EncodeFrame("APZ001", "IK2ABC-7", []string{"ARISS"}, []byte(":N0CALL   :hello"))
	require.NoError(t, err)

	frame, err := DecodeFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, "APZ001", frame.Destination.String())
	assert.Equal(t, "IK2ABC-7", frame.Source.String())
	assert.Equal(t, []string{"ARISS"}, frame.PathStrings())
	assert.Equal(t, []byte(":N0CALL   :hello"), frame.Info)
	assert.Equal(t, ControlUI, frame.Control)
	assert.Equal(t, PIDNoLayer3, frame.PID)
}

func TestDecodeFrameRepeatedDigipeater(t *testing.T) {
	raw, err := EncodeFrame("APZ001", "N0CALL", []string{"RELAY", "WIDE2-1"}, []byte("x"))
	require.NoError(t, err)
	raw[20] |= 0x80 // RELAY has been repeated

	frame, err := DecodeFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"RELAY*", "WIDE2-1"}, frame.PathStrings())
}

func TestDecodeFrameErrors(t *testing.T) {
	good, err := EncodeFrame("APZ001", "N0CALL", nil, []byte("test"))
	require.NoError(t, err)

	unterminated := make([]byte, 0, 30)
	unterminated = append(unterminated, EncodeAddress("APZ001", 0, false)...)
	unterminated = append(unterminated, EncodeAddress("N0CALL", 0, false)...)
	unterminated = append(unterminated, ControlUI, PIDNoLayer3, 'a', 'b')

	destOnly := append(EncodeAddress("APZ001", 0, true), make([]byte, 10)...)

	noControl := append(EncodeAddress("APZ001", 0, false), EncodeAddress("N0CALL", 0, false)...)
	noControl = append(noControl, EncodeAddress("WIDE1", 1, true)...)
	noControl = append(noControl, ControlUI)

	noTrailer := append(EncodeAddress("APZ001", 0, false), EncodeAddress("N0CALL", 0, false)...)
	noTrailer = append(noTrailer, EncodeAddress("WIDE1", 1, true)...)

	badControl := append([]byte{}, good...)
	badControl[14] = 0x13

	badPID := append([]byte{}, good...)
	badPID[15] = 0xCF

	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"empty", nil, ErrFrameTooShort},
		{"15 bytes", good[:15], ErrFrameTooShort},
		{"unterminated", unterminated, ErrFrameTooShort},
		{"destination only", destOnly, ErrFrameTooShort},
		{"missing pid", noControl, ErrUnsupportedFrameType},
		{"no control or pid", noTrailer, ErrUnsupportedFrameType},
		{"I frame", badControl, ErrUnsupportedFrameType},
		{"netrom pid", badPID, ErrUnsupportedFrameType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame(tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFrameRoundTrip(t *testing.T) {
	addrGen := rapid.Custom(func(t *rapid.T) string {
		call := callsignGen().Draw(t, "call")
		ssid := rapid.IntRange(0, 15).Draw(t, "ssid")
		if ssid == 0 {
			return call
		}
		return fmt.Sprintf("%s-%d", call, ssid)
	})

	rapid.Check(t, func(t *rapid.T) {
		dest := addrGen.Draw(t, "dest")
		src := addrGen.Draw(t, "src")
		path := rapid.SliceOfN(addrGen, 0, MaxDigipeaters).Draw(t, "path")
		info := rapid.SliceOf(rapid.Byte()).Draw(t, "info")

		raw, err := EncodeFrame(dest, src, path, info)
		require.NoError(t, err)

		frame, err := DecodeFrame(raw)
		require.NoError(t, err)
		assert.Equal(t, dest, frame.Destination.String())
		assert.Equal(t, src, frame.Source.String())
		assert.Equal(t, len(path), len(frame.PathStrings()))
		if len(path) > 0 {
			assert.Equal(t, path, frame.PathStrings())
		}
		assert.Equal(t, len(info), len(frame.Info))
		if len(info) > 0 {
			assert.Equal(t, info, frame.Info)
		}
	})
}
