package ax25

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AddressLen is the size of one encoded address field.
const AddressLen = 7

// SSID byte bits
const (
	flagLast     byte = 0x01 // Extension bit, set on the final address
	flagReserved byte = 0x60 // Bits 5-6, always 1 (Dire Wolf style)
	flagRepeated byte = 0x80 // H bit, set by digipeaters
)

var ErrInvalidAddressLength = errors.New("address field is not 7 bytes")

// Address is one decoded address field.
type Address struct {
	Callsign string
	SSID     int
	IsLast   bool
	Repeated bool // Only meaningful on digipeaters
}

// String renders the address as CALL or CALL-SSID.
func (a Address) String() string {
	if a.SSID == 0 {
		return a.Callsign
	}
	return fmt.Sprintf("%s-%d", a.Callsign, a.SSID)
}

// EncodeAddress packs a callsign and SSID into a 7-byte address field.
// The callsign is uppercased and truncated or space padded to 6 characters.
func EncodeAddress(callsign string, ssid int, isLast bool) []byte {
	call := strings.ToUpper(callsign)
	if len(call) > 6 {
		call = call[:6]
	}
	call += strings.Repeat(" ", 6-len(call))

	out := make([]byte, AddressLen)
	for i := 0; i < 6; i++ {
		out[i] = call[i] << 1 // Shift left, the top bit falls off
	}

	ssidByte := byte(ssid&0x0F)<<1 | flagReserved
	if isLast {
		ssidByte |= flagLast
	}
	out[6] = ssidByte
	return out
}

// DecodeAddress unpacks a 7-byte address field.
func DecodeAddress(field []byte) (Address, error) {
	if len(field) != AddressLen {
		return Address{}, fmt.Errorf("%w: got %d", ErrInvalidAddressLength, len(field))
	}

	var call strings.Builder
	for _, b := range field[:6] {
		call.WriteByte((b >> 1) & 0x7F)
	}

	ssidByte := field[6]
	return Address{
		Callsign: strings.TrimRight(call.String(), " "),
		SSID:     int((ssidByte >> 1) & 0x0F),
		IsLast:   ssidByte&flagLast != 0,
		Repeated: ssidByte&flagRepeated != 0,
	}, nil
}

// ParseCallsign splits "CALL-SSID" on the first dash. A missing or
// unparsable SSID yields 0.
func ParseCallsign(s string) (string, int) {
	call, suffix, found := strings.Cut(s, "-")
	if !found {
		return call, 0
	}
	ssid, err := strconv.Atoi(suffix)
	if err != nil {
		return call, 0
	}
	return call, ssid
}
