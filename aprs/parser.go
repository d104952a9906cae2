package aprs

import (
	"bytes"
	"time"

	"packetchat/ax25"
	"packetchat/packet"
)

// Decode turns a UI frame into the packet record handed to the
// application. It always returns a record: a payload that cannot be
// classified is kept as opaque info with Type Unknown.
func Decode(frame ax25.Frame, ts time.Time) *packet.Packet {
	pkt := &packet.Packet{
		Destination: frame.Destination.String(),
		Source:      frame.Source.String(),
		Path:        frame.PathStrings(),
		Info:        frame.Info,
		Timestamp:   ts,
		Type:        packet.TypeUnknown,
	}
	classify(pkt)
	return pkt
}

// classify fills in the typed view of pkt.Info, leaving it Unknown on
// any parse failure.
func classify(pkt *packet.Packet) {
	payload := pkt.Info
	if len(payload) == 0 {
		return
	}

	switch dataType := payload[0]; dataType {
	case micECurrent, micEOld:
		report, err := DecodeMicE(pkt.Destination, payload)
		if err != nil {
			return
		}
		pkt.Type = packet.TypeMicE
		pkt.MicE = &report

	case '!', '=', '/', '@':
		pos, err := parseNormal(string(payload))
		if err != nil {
			return
		}
		pkt.Type = packet.TypePosition
		pkt.Position = &pos

	case ';':
		pos, err := parseObjectPosition(payload)
		if err != nil {
			return
		}
		pkt.Type = packet.TypePosition
		pkt.Position = &pos

	case ':':
		msg, isAck, err := parseMessage(payload)
		if err != nil || isTelemetry(pkt.Source, msg) {
			return
		}
		pkt.Message = &msg
		if isAck {
			pkt.Type = packet.TypeAck
		} else {
			pkt.Type = packet.TypeMessage
		}

	default:
		// Some stations put text before the '!' (aprslib allows up to 40 bytes)
		idx := bytes.IndexByte(payload, '!')
		if idx > 0 && idx < 40 {
			pos, err := parseNormal(string(payload[idx:]))
			if err != nil {
				return
			}
			pkt.Type = packet.TypePosition
			pkt.Position = &pos
		}
	}
}
