package header

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const title = "packetchat"

// Model holds the header's state
type Model struct {
	width     int
	callsign  string
	iface     string
	connected bool
}

// New creates a new header model for the station and interface description
func New(callsign, iface string) Model {
	return Model{
		width:     80, // Default width, will be updated
		callsign:  callsign,
		iface:     iface,
		connected: true,
	}
}

// SetConnected marks the interface as up or down.
func (m *Model) SetConnected(connected bool) {
	m.connected = connected
}

// SetCallsign changes the station shown after the title.
func (m *Model) SetCallsign(callsign string) {
	m.callsign = callsign
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Model) View() string {
	state := "connected"
	if !m.connected {
		state = "disconnected"
	}
	text := fmt.Sprintf("%s  %s  [%s %s]", title, m.callsign, m.iface, state)

	style := lipgloss.NewStyle().
		Bold(true).
		Background(lipgloss.Color("63")).
		Foreground(lipgloss.Color("255")).
		Width(m.width).
		Align(lipgloss.Center)
	if !m.connected {
		style = style.Background(lipgloss.Color("9"))
	}

	return style.Render(text)
}
