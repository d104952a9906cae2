// Package sidebar shows the stations heard so far.
package sidebar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"packetchat/location"
	"packetchat/packet"
)

// headerRows is the title line plus the top border.
const headerRows = 2

// Station is one heard station
type Station struct {
	Callsign  string
	LastHeard time.Time
	Count     int
	HasPos    bool
	Lat, Lon  float64
}

var selectedStyle = lipgloss.NewStyle().Reverse(true)

// Model holds the heard list's state
type Model struct {
	width    int
	height   int
	home     *location.Point
	stations map[string]*Station
	calls    []string // sorted keys of stations
	selected int      // index into calls, -1 for none
}

// New creates a heard list. When home is non-nil each station with a known
// position shows its distance from it.
func New(home *location.Point) Model {
	return Model{
		width:    24,
		height:   24,
		home:     home,
		stations: make(map[string]*Station),
		selected: -1,
	}
}

// SetHome moves the point distances are measured from. nil hides them.
func (m *Model) SetHome(home *location.Point) {
	m.home = home
}

// AddPacket records the packet's source as heard
func (m *Model) AddPacket(pkt *packet.Packet) {
	call := pkt.Source
	st, ok := m.stations[call]
	if !ok {
		st = &Station{Callsign: call}
		m.stations[call] = st

		prev := m.Selected()
		m.calls = append(m.calls, call)
		sort.Strings(m.calls)
		m.selectCall(prev)
	}
	st.Count++
	st.LastHeard = pkt.Timestamp
	if lat, lon, ok := pkt.LatLon(); ok {
		st.HasPos, st.Lat, st.Lon = true, lat, lon
	}
}

func (m *Model) selectCall(call string) {
	m.selected = -1
	for i, c := range m.calls {
		if c == call {
			m.selected = i
			return
		}
	}
}

// Selected returns the selected callsign or "".
func (m Model) Selected() string {
	if m.selected < 0 || m.selected >= len(m.calls) {
		return ""
	}
	return m.calls[m.selected]
}

// Stations returns the heard stations in list order.
func (m Model) Stations() []Station {
	out := make([]Station, 0, len(m.calls))
	for _, c := range m.calls {
		out = append(out, *m.stations[c])
	}
	return out
}

// Move shifts the selection by delta rows, clamped to the list.
func (m *Model) Move(delta int) {
	if len(m.calls) == 0 {
		return
	}
	i := m.selected + delta
	if m.selected < 0 && delta > 0 {
		i = 0
	}
	m.selected = max(0, min(i, len(m.calls)-1))
}

// Click selects the station drawn at row y, relative to the top of the
// component. Clicks outside the list clear the selection.
func (m *Model) Click(y int) {
	i := y - headerRows + m.offset()
	if y < headerRows || i >= len(m.calls) {
		m.selected = -1
		return
	}
	m.selected = i
}

// Clear forgets every heard station
func (m *Model) Clear() {
	m.stations = make(map[string]*Station)
	m.calls = nil
	m.selected = -1
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

func (m Model) rows() int {
	return max(0, m.height-2-1)
}

// offset is the index of the first visible station, keeping the
// selection on screen.
func (m Model) offset() int {
	rows := m.rows()
	if m.selected < rows {
		return 0
	}
	return m.selected - rows + 1
}

func (m Model) label(st *Station) string {
	if m.home == nil || !st.HasPos {
		return st.Callsign
	}
	to := location.Point{Lat: st.Lat, Lon: st.Lon}
	km := location.DistanceKm(*m.home, to)
	return fmt.Sprintf("%-9s %4.0fkm %s", st.Callsign, km, location.Compass(location.Bearing(*m.home, to)))
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).
		Height(m.height - 2).
		Padding(0, 1)

	innerWidth := max(0, m.width-2-2)
	header := lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Width(innerWidth).
		Render(fmt.Sprintf("Heard (%d)", len(m.calls)))

	var b strings.Builder
	b.WriteString(header)

	rows := m.rows()
	start := m.offset()
	for i := start; i < len(m.calls) && i < start+rows; i++ {
		b.WriteRune('\n')
		line := fmt.Sprintf("%.*s", innerWidth, m.label(m.stations[m.calls[i]]))
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
	}

	return style.Render(b.String())
}
