package footer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const keyHelp = "m msg  1/2 QSL  p pos  d raw  r/t repeat  a ack  x/h clear  v map  e edit  q quit"

// Model holds the footer's state
type Model struct {
	width  int
	ack    bool
	status string
}

// New creates a new footer model
func New(ack bool) Model {
	return Model{width: 80, ack: ack}
}

// SetAck shows whether outgoing messages request an ack.
func (m *Model) SetAck(ack bool) {
	m.ack = ack
}

// SetStatus replaces the status text, e.g. the result of the last send.
func (m *Model) SetStatus(status string) {
	m.status = status
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
	ack := "off"
	if m.ack {
		ack = "on"
	}
	left := fmt.Sprintf(" ack:%s  %s", ack, m.status)

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Background(lipgloss.Color("236")).
		MaxWidth(m.width)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(keyHelp) - 1
	if gap < 1 {
		return style.Width(m.width).Render(left)
	}
	return style.Width(m.width).Render(left + fmt.Sprintf("%*s", gap, "") + keyHelp)
}
