// Package msgbar is the scrolling log of received and sent packets.
package msgbar

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lestrrat-go/strftime"

	"packetchat/ax25"
	"packetchat/packet"
)

const maxEntries = 500

// Direction marks whether a log entry was heard or transmitted.
type Direction int

const (
	Received Direction = iota
	Sent
)

// Entry is one logged packet
type Entry struct {
	Dir    Direction
	Packet *packet.Packet
}

var (
	ownStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Model holds the packet log's state
type Model struct {
	width    int
	height   int
	callsign string // base callsign, no SSID
	stamp    *strftime.Strftime
	entries  []Entry
}

// New creates a packet log that highlights traffic for callsign and
// prints times with the strftime pattern.
func New(callsign, timestampFormat string) (Model, error) {
	stamp, err := strftime.New(timestampFormat)
	if err != nil {
		return Model{}, fmt.Errorf("invalid timestamp format %q: %w", timestampFormat, err)
	}
	base, _ := ax25.ParseCallsign(callsign)
	return Model{
		width:    80,
		height:   7,
		callsign: base,
		stamp:    stamp,
	}, nil
}

// Add appends a packet to the log
func (m *Model) Add(dir Direction, pkt *packet.Packet) {
	m.entries = append(m.entries, Entry{Dir: dir, Packet: pkt})
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}
}

// SetCallsign changes whose traffic is highlighted. Entries already in the
// log are re-rendered with the new callsign.
func (m *Model) SetCallsign(callsign string) {
	m.callsign, _ = ax25.ParseCallsign(callsign)
}

// Clear empties the log
func (m *Model) Clear() {
	m.entries = nil
}

// Len returns the number of logged packets.
func (m Model) Len() int {
	return len(m.entries)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// involvesUs reports whether the packet is a message for or from us.
func (m Model) involvesUs(pkt *packet.Packet) bool {
	if m.callsign == "" {
		return false
	}
	if src, _ := ax25.ParseCallsign(pkt.Source); src == m.callsign {
		return true
	}
	if pkt.Message == nil {
		return false
	}
	to, _ := ax25.ParseCallsign(strings.TrimSpace(pkt.Message.Addressee))
	return to == m.callsign
}

// Line renders one entry without truncation
func (m Model) Line(e Entry) string {
	arrow := "<"
	if e.Dir == Sent {
		arrow = ">"
	}
	text := fmt.Sprintf("%s %s", arrow, e.Packet.TNC2())
	if e.Packet.Type != packet.TypeUnknown {
		text += "  [" + e.Packet.Summary() + "]"
	}
	return fmt.Sprintf("%s %s", m.stamp.FormatString(e.Packet.Timestamp), text)
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).
		Height(m.height - 2).
		Padding(0, 1)

	contentWidth := m.width - 2 - 2
	if contentWidth < 0 {
		contentWidth = 0
	}
	rows := m.height - 2
	if rows < 0 {
		rows = 0
	}

	// Newest entries at the bottom
	first := len(m.entries) - rows
	if first < 0 {
		first = 0
	}

	var b strings.Builder
	for i, e := range m.entries[first:] {
		if i > 0 {
			b.WriteRune('\n')
		}
		line := m.Line(e)
		if r := []rune(line); len(r) > contentWidth {
			line = string(r[:contentWidth])
		}
		switch {
		case m.involvesUs(e.Packet) && e.Dir == Received:
			line = ownStyle.Render(line)
		case e.Dir == Sent:
			line = sentStyle.Render(line)
		default:
			stamp := m.stamp.FormatString(e.Packet.Timestamp)
			if strings.HasPrefix(line, stamp) {
				line = timeStyle.Render(stamp) + line[len(stamp):]
			}
		}
		b.WriteString(line)
	}

	return style.Render(b.String())
}
