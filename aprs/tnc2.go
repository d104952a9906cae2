package aprs

import (
	"fmt"
	"strings"

	"packetchat/ax25"
)

// ParseTNC2 parses an APRS-IS text line (SRC>DEST,PATH:payload) into the
// same frame shape the AX.25 decoder produces, so both transports share
// one classification path.
func ParseTNC2(line string) (ax25.Frame, error) {
	line = strings.TrimRight(line, "\r\n")

	header, payload, found := strings.Cut(line, ":")
	if !found {
		return ax25.Frame{}, fmt.Errorf("no ':' separating header and payload")
	}

	src, rest, found := strings.Cut(header, ">")
	if !found {
		return ax25.Frame{}, fmt.Errorf("no source callsign separator '>' found in header: %s", header)
	}
	// APRS-IS callsigns can be up to 9 chars
	if len(src) == 0 || len(src) > 9 {
		return ax25.Frame{}, fmt.Errorf("invalid source callsign format: %s", src)
	}

	hops := strings.Split(rest, ",")
	if hops[0] == "" {
		return ax25.Frame{}, fmt.Errorf("empty destination in header: %s", header)
	}

	frame := ax25.Frame{
		Destination: textAddress(hops[0]),
		Source:      textAddress(src),
		Path:        make([]ax25.Address, 0, len(hops)-1),
		Control:     ax25.ControlUI,
		PID:         ax25.PIDNoLayer3,
		Info:        []byte(payload),
	}
	for _, hop := range hops[1:] {
		frame.Path = append(frame.Path, textAddress(hop))
	}
	if n := len(frame.Path); n > 0 {
		frame.Path[n-1].IsLast = true
	} else {
		frame.Source.IsLast = true
	}
	return frame, nil
}

func textAddress(s string) ax25.Address {
	repeated := strings.HasSuffix(s, "*")
	call, ssid := ax25.ParseCallsign(strings.TrimSuffix(s, "*"))
	// Keep non-numeric suffixes like qAR or T2XYZ-AB intact
	if ssid == 0 && call != strings.TrimSuffix(s, "*") {
		call = strings.TrimSuffix(s, "*")
	}
	return ax25.Address{Callsign: call, SSID: ssid, Repeated: repeated}
}
