package aprs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"packetchat/packet"
)

// normalPosRegex matches an uncompressed position body.
// 1: lat_deg (dd)
// 2: lat_min (mm.mm)
// 3: lat_dir (N/S)
// 4: symbol_table (the separator, e.g., \ / S)
// 5: lon_deg (ddd)
// 6: lon_min (mm.mm)
// 7: lon_dir (E/W)
// 8: symbol (the icon)
// 9: body (comment)
var normalPosRegex = regexp.MustCompile(
	`^(\d{2})([0-9 ]{2}\.[0-9 ]{2})([NnSs])` + // Lat
		`([\/\\0-9A-Z])` + // Symbol Table (Separator)
		`(\d{3})([0-9 ]{2}\.[0-9 ]{2})([EeWw])` + // Lon
		`([\x21-\x7e])` + // Symbol
		`(.*)$`, // Comment
)

// formatCoord renders |value| as degrees, minutes and hundredths of a
// minute. Rounding that reaches 60 minutes carries into the degrees.
func formatCoord(value float64, degWidth int, pos, neg byte) string {
	hemi := pos
	if value < 0 {
		hemi = neg
	}
	abs := math.Abs(value)
	deg := int(math.Floor(abs))
	hundredths := int(math.Round((abs - float64(deg)) * 60 * 100))
	if hundredths >= 6000 {
		deg++
		hundredths -= 6000
	}
	return fmt.Sprintf("%0*d%02d.%02d%c", degWidth, deg, hundredths/100, hundredths%100, hemi)
}

// BuildPosition builds the info field of an uncompressed position report
// without timestamp: !DDMM.mmN/DDDMM.mmE> followed by the comment.
func BuildPosition(pos packet.Position) []byte {
	var b strings.Builder
	b.WriteByte('!')
	b.WriteString(formatCoord(pos.Latitude, 2, 'N', 'S'))
	b.WriteByte(pos.SymbolTable)
	b.WriteString(formatCoord(pos.Longitude, 3, 'E', 'W'))
	b.WriteByte(pos.SymbolCode)
	b.WriteString(pos.Comment)
	return []byte(b.String())
}

// parseLat converts APRS latitude (DDMM.hhN) to decimal degrees
func parseLat(degStr, minStr, dirStr string) (float64, error) {
	// Handle ambiguity (replace spaces with '5' for centering)
	minStr = strings.ReplaceAll(minStr, " ", "5")

	deg, err := strconv.ParseFloat(degStr, 64)
	if err != nil {
		return 0, err
	}
	min, err := strconv.ParseFloat(minStr, 64)
	if err != nil {
		return 0, err
	}

	decDeg := deg + (min / 60.0)

	switch dirStr {
	case "S", "s":
		decDeg = -decDeg
	case "N", "n":
	default:
		return 0, fmt.Errorf("invalid latitude hemisphere: %s", dirStr)
	}
	return decDeg, nil
}

// parseLon converts APRS longitude (DDDMM.hhW) to decimal degrees
func parseLon(degStr, minStr, dirStr string) (float64, error) {
	minStr = strings.ReplaceAll(minStr, " ", "5")

	deg, err := strconv.ParseFloat(degStr, 64)
	if err != nil {
		return 0, err
	}
	min, err := strconv.ParseFloat(minStr, 64)
	if err != nil {
		return 0, err
	}

	decDeg := deg + (min / 60.0)

	switch dirStr {
	case "W", "w":
		decDeg = -decDeg
	case "E", "e":
	default:
		return 0, fmt.Errorf("invalid longitude hemisphere: %s", dirStr)
	}
	return decDeg, nil
}

// parseNormal handles uncompressed position reports ('!', '=', '/', '@').
// It expects the payload with its data type identifier.
func parseNormal(payload string) (packet.Position, error) {
	if len(payload) < 20 { // DTI + 19 bytes of position
		return packet.Position{}, fmt.Errorf("packet too short")
	}

	body := payload[1:]
	switch payload[0] {
	case '/', '@':
		// HHMMSSz, not parsed yet, just skipped
		if len(body) < 7 {
			return packet.Position{}, fmt.Errorf("timestamped packet too short")
		}
		body = body[7:]
	}

	matches := normalPosRegex.FindStringSubmatch(body)
	if matches == nil {
		return packet.Position{}, fmt.Errorf("invalid uncompressed position format")
	}

	lat, err := parseLat(matches[1], matches[2], matches[3])
	if err != nil {
		return packet.Position{}, fmt.Errorf("failed to parse latitude: %w", err)
	}

	lon, err := parseLon(matches[5], matches[6], matches[7])
	if err != nil {
		return packet.Position{}, fmt.Errorf("failed to parse longitude: %w", err)
	}

	return packet.Position{
		Latitude:    lat,
		Longitude:   lon,
		SymbolTable: matches[4][0],
		SymbolCode:  matches[8][0],
		Comment:     strings.TrimSpace(matches[9]),
	}, nil
}

// parseObjectPosition handles ';' data type (Object Report)
// Format: ;OBJECTNAME*HHMMSSzDDMM.hhN/DDDMM.hhW$...
func parseObjectPosition(payload []byte) (packet.Position, error) {
	sPayload := string(payload)

	// Min len: ; (1) + OBJNAME(9) + * (1) + TIME(7) + ...
	if len(sPayload) < 18 || sPayload[0] != ';' {
		return packet.Position{}, fmt.Errorf("not an object report")
	}

	// Check for live '*' or dead '_' object marker
	if sPayload[10] != '*' && sPayload[10] != '_' {
		return packet.Position{}, fmt.Errorf("invalid object marker: %c", sPayload[10])
	}

	// The rest of the packet (from the timestamp on) is a normal
	// timestamped position
	return parseNormal("/" + sPayload[11:])
}
