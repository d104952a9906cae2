package packet

import (
	"fmt"
	"strings"
	"time"
)

// PacketType defines the type of APRS data.
type PacketType int

const (
	TypeUnknown  PacketType = iota // Unknown or unparsed
	TypePosition                   // An uncompressed position report
	TypeMessage                    // A message
	TypeAck                        // A message acknowledgement or rejection
	TypeMicE                       // A Mic-E position report
)

func (t PacketType) String() string {
	switch t {
	case TypePosition:
		return "position"
	case TypeMessage:
		return "message"
	case TypeAck:
		return "ack"
	case TypeMicE:
		return "mic-e"
	default:
		return "unknown"
	}
}

// Message is an APRS text message.
type Message struct {
	Addressee string
	Text      string
	ID        string // Empty when the sender asked for no ack
	Rejected  bool   // Set on a rej, TypeAck only
}

// Position is an uncompressed APRS position report.
type Position struct {
	Latitude    float64
	Longitude   float64
	SymbolTable byte
	SymbolCode  byte
	Comment     string
}

// MicEReport is a decoded Mic-E position report.
type MicEReport struct {
	Latitude    float64
	Longitude   float64
	SpeedKnots  int
	Course      int
	SymbolTable byte
	SymbolCode  byte
	MessageType string // Emergency, En Route, Custom-3, ...
	Text        string // Comment text as sent
	Comment     string // Speed and course followed by Text
}

// Packet is one received (or sent) packet handed to the application.
type Packet struct {
	Destination string
	Source      string
	Path        []string // Repeated digipeaters carry a trailing '*'
	Info        []byte
	Timestamp   time.Time

	Type     PacketType
	Position *Position
	Message  *Message
	MicE     *MicEReport
}

// LatLon returns the reported position, if the packet carries one.
func (p *Packet) LatLon() (float64, float64, bool) {
	switch {
	case p.Position != nil:
		return p.Position.Latitude, p.Position.Longitude, true
	case p.MicE != nil:
		return p.MicE.Latitude, p.MicE.Longitude, true
	}
	return 0, 0, false
}

// TNC2 renders the packet as SRC>DEST,PATH:info.
func (p *Packet) TNC2() string {
	var b strings.Builder
	b.WriteString(p.Source)
	b.WriteByte('>')
	b.WriteString(p.Destination)
	for _, digi := range p.Path {
		b.WriteByte(',')
		b.WriteString(digi)
	}
	b.WriteByte(':')
	b.Write(p.Info)
	return b.String()
}

// Summary is a one-line description of the decoded payload.
func (p *Packet) Summary() string {
	switch p.Type {
	case TypePosition:
		pos := p.Position
		s := fmt.Sprintf("pos %.4f %.4f %c%c", pos.Latitude, pos.Longitude, pos.SymbolTable, pos.SymbolCode)
		if pos.Comment != "" {
			s += " " + pos.Comment
		}
		return s
	case TypeMicE:
		m := p.MicE
		return fmt.Sprintf("mic-e %.4f %.4f %c%c %s, %s", m.Latitude, m.Longitude, m.SymbolTable, m.SymbolCode, m.MessageType, m.Comment)
	case TypeMessage:
		s := fmt.Sprintf("msg to %s: %s", p.Message.Addressee, p.Message.Text)
		if p.Message.ID != "" {
			s += " {" + p.Message.ID
		}
		return s
	case TypeAck:
		verb := "ack"
		if p.Message.Rejected {
			verb = "rej"
		}
		return fmt.Sprintf("%s %s to %s", verb, p.Message.ID, p.Message.Addressee)
	default:
		return string(p.Info)
	}
}
