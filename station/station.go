// Package station builds the packets this station transmits.
package station

import (
	"fmt"
	"time"

	"golang.org/x/text/encoding/charmap"

	"packetchat/aprs"
	"packetchat/config"
	"packetchat/packet"
)

// Quick messages offered as one-key replies.
const (
	QuickQuery   = "QSL? 73"
	QuickConfirm = "QSL! 73"
)

// maxMessageID is the largest id that fits the three-digit {NNN field.
const maxMessageID = 999

// Station turns user actions into outgoing packets. The station settings
// are copied in once and never read from anywhere else. Station is not
// safe for concurrent use.
type Station struct {
	conf   config.StationConfig
	nextID int
	now    func() time.Time

	lastMessage *sentMessage
	lastRaw     string
}

type sentMessage struct {
	to   string
	text string
	id   int
}

// New validates the settings and returns a Station.
func New(conf config.StationConfig) (*Station, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	conf.Path = append([]string(nil), conf.Path...)
	return &Station{conf: conf, nextID: 1, now: time.Now}, nil
}

// Callsign returns the station callsign with SSID.
func (s *Station) Callsign() string {
	return s.conf.Callsign
}

// NextMessageID returns the next message id, counting 1 to 999 and
// wrapping back to 1.
func (s *Station) NextMessageID() int {
	id := s.nextID
	s.nextID++
	if s.nextID > maxMessageID {
		s.nextID = 1
	}
	return id
}

func (s *Station) outgoing(info []byte) *packet.Packet {
	return &packet.Packet{
		Destination: s.conf.Tocall,
		Source:      s.conf.Callsign,
		Path:        append([]string(nil), s.conf.Path...),
		Info:        info,
		Timestamp:   s.now(),
	}
}

// Message builds a text message to addressee. With ack set the message
// carries the next message id.
func (s *Station) Message(to, text string, ack bool) *packet.Packet {
	id := 0
	if ack {
		id = s.NextMessageID()
	}
	s.lastMessage = &sentMessage{to: to, text: text, id: id}

	pkt := s.outgoing(aprs.BuildMessage(to, text, id))
	pkt.Type = packet.TypeMessage
	pkt.Message = &packet.Message{Addressee: to, Text: text}
	if id > 0 {
		pkt.Message.ID = fmt.Sprintf("%03d", id)
	}
	return pkt
}

// RepeatMessage resends the last message with its original id, or with no
// id when ack is off. It returns nil if nothing was sent yet.
func (s *Station) RepeatMessage(ack bool) *packet.Packet {
	last := s.lastMessage
	if last == nil {
		return nil
	}
	id := last.id
	if !ack {
		id = 0
	}

	pkt := s.outgoing(aprs.BuildMessage(last.to, last.text, id))
	pkt.Type = packet.TypeMessage
	pkt.Message = &packet.Message{Addressee: last.to, Text: last.text}
	if id > 0 {
		pkt.Message.ID = fmt.Sprintf("%03d", id)
	}
	return pkt
}

// Ack acknowledges a message id received from a station.
func (s *Station) Ack(to, msgID string) *packet.Packet {
	pkt := s.outgoing(aprs.BuildAck(to, msgID))
	pkt.Type = packet.TypeAck
	pkt.Message = &packet.Message{Addressee: to, ID: msgID}
	return pkt
}

// Position builds a position beacon. An empty comment uses the
// configured default comment.
func (s *Station) Position(comment string) *packet.Packet {
	if comment == "" {
		comment = s.conf.Comment
	}
	pos := packet.Position{
		Latitude:    s.conf.Latitude,
		Longitude:   s.conf.Longitude,
		SymbolTable: s.conf.SymbolTable[0],
		SymbolCode:  s.conf.SymbolCode[0],
		Comment:     comment,
	}

	pkt := s.outgoing(aprs.BuildPosition(pos))
	pkt.Type = packet.TypePosition
	pkt.Position = &pos
	return pkt
}

// Raw sends text as the info field unchanged, encoded as latin-1.
func (s *Station) Raw(text string) (*packet.Packet, error) {
	info, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("raw payload is not latin-1: %w", err)
	}
	s.lastRaw = text
	return s.outgoing(info), nil
}

// RepeatRaw resends the last raw payload, or returns nil.
func (s *Station) RepeatRaw() *packet.Packet {
	if s.lastRaw == "" {
		return nil
	}
	pkt, err := s.Raw(s.lastRaw)
	if err != nil {
		return nil
	}
	return pkt
}
