package aprs

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"packetchat/ax25"
	"packetchat/packet"
)

// Mic-E data type identifiers
const (
	micECurrent byte = 0x60 // `
	micEOld     byte = 0x27 // '
)

// micEMinInfo is DTI, three longitude bytes, three speed/course bytes,
// symbol code and symbol table.
const micEMinInfo = 9

var ErrMicEDecode = errors.New("mic-e decode failed")

// Message type names indexed by the three message bits A, B, C.
var (
	micEStandard = []string{"Emergency", "Priority", "Special", "Committed", "Returning", "In Service", "En Route", "Off Duty"}
	micECustom   = []string{"Emergency", "Custom-6", "Custom-5", "Custom-4", "Custom-3", "Custom-2", "Custom-1", "Custom-0"}
)

// IsMicE reports whether info starts with a Mic-E data type identifier.
func IsMicE(info []byte) bool {
	return len(info) > 0 && (info[0] == micECurrent || info[0] == micEOld)
}

// destChar is one decoded character of the destination callsign.
type destChar struct {
	digit     int
	ambiguous bool
	flag      bool // North at index 3, +100 offset at 4, West at 5
	standard  bool // Standard message bit
	custom    bool // Custom message bit
}

func decodeDestChar(c byte) (destChar, bool) {
	switch {
	case c >= '0' && c <= '9':
		return destChar{digit: int(c - '0')}, true
	case c >= 'A' && c <= 'J':
		return destChar{digit: int(c - 'A'), custom: true}, true
	case c == 'K':
		return destChar{ambiguous: true, custom: true}, true
	case c == 'L':
		return destChar{ambiguous: true}, true
	case c >= 'P' && c <= 'Y':
		return destChar{digit: int(c - 'P'), flag: true, standard: true}, true
	case c == 'Z':
		return destChar{ambiguous: true, flag: true, standard: true}, true
	}
	return destChar{}, false
}

// DecodeMicE decodes a Mic-E report split between the destination callsign
// and the information field. Ambiguous latitude digits (K, L, Z) read as 0.
func DecodeMicE(destination string, info []byte) (packet.MicEReport, error) {
	if !IsMicE(info) {
		return packet.MicEReport{}, fmt.Errorf("%w: not a mic-e data type", ErrMicEDecode)
	}
	if len(info) < micEMinInfo {
		return packet.MicEReport{}, fmt.Errorf("%w: info is %d bytes, need %d", ErrMicEDecode, len(info), micEMinInfo)
	}

	call, _ := ax25.ParseCallsign(strings.ToUpper(destination))
	if len(call) < 6 {
		return packet.MicEReport{}, fmt.Errorf("%w: destination %q shorter than 6", ErrMicEDecode, destination)
	}

	var chars [6]destChar
	for i := 0; i < 6; i++ {
		dc, ok := decodeDestChar(call[i])
		if !ok {
			return packet.MicEReport{}, fmt.Errorf("%w: invalid destination character %q", ErrMicEDecode, call[i])
		}
		chars[i] = dc
	}

	latDeg := chars[0].digit*10 + chars[1].digit
	latMin := chars[2].digit*10 + chars[3].digit
	latHun := chars[4].digit*10 + chars[5].digit
	lat := float64(latDeg) + (float64(latMin)+float64(latHun)/100)/60
	if !chars[3].flag {
		lat = -lat
	}

	// Six bytes after the DTI, each biased by 28. Bytes under the bias
	// go negative and are used as they are.
	var v [6]int
	for i := range v {
		v[i] = int(info[1+i]) - 28
	}

	lonDeg := v[0]
	if chars[4].flag {
		lonDeg += 100
	}
	// Published Mic-E table: 180-189 encode 100-109, 190-199 encode 0-9
	switch {
	case lonDeg >= 180 && lonDeg <= 189:
		lonDeg -= 80
	case lonDeg >= 190 && lonDeg <= 199:
		lonDeg -= 190
	}
	lonMin := v[1]
	if lonMin >= 60 {
		lonMin -= 60
	}
	lonHun := v[2]
	if lonHun >= 100 {
		lonHun -= 100
	}
	lon := float64(lonDeg) + (float64(lonMin)+float64(lonHun)/100)/60
	if chars[5].flag {
		lon = -lon
	}

	speed := v[3]*10 + floorDiv(v[4], 10)
	if speed >= 800 {
		speed -= 800
	}
	course := (v[4]-floorDiv(v[4], 10)*10)*100 + v[5]
	if course >= 400 {
		course -= 400
	}

	text, err := charmap.ISO8859_1.NewDecoder().Bytes(info[micEMinInfo:])
	if err != nil {
		return packet.MicEReport{}, fmt.Errorf("%w: %v", ErrMicEDecode, err)
	}
	status := strings.TrimSpace(string(text))

	comment := fmt.Sprintf("%d kn %d°", speed, course)
	if status != "" {
		comment += " " + status
	}

	return packet.MicEReport{
		Latitude:    lat,
		Longitude:   lon,
		SpeedKnots:  speed,
		Course:      course,
		SymbolCode:  info[7],
		SymbolTable: info[8],
		MessageType: micEMessageType(chars[:3]),
		Text:        status,
		Comment:     comment,
	}, nil
}

// floorDiv rounds toward negative infinity so biased bytes under 28 keep
// the same digit split as in-range ones.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func micEMessageType(chars []destChar) string {
	var std, cust int
	for i, mask := range []int{4, 2, 1} {
		if chars[i].standard {
			std |= mask
		}
		if chars[i].custom {
			cust |= mask
		}
	}
	switch {
	case std == 0 && cust == 0:
		return micEStandard[0]
	case cust == 0:
		return micEStandard[std]
	case std == 0:
		return micECustom[cust]
	default:
		return "Unknown"
	}
}
