// Package prompt is the one-line text entry used for messages, beacons,
// raw payloads and station settings.
package prompt

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Mode says what the entered text is for.
type Mode int

const (
	ModeNone Mode = iota
	ModeAddressee
	ModeMessage
	ModePosition
	ModeRaw
	ModeStation
)

// SubmitMsg is emitted when the user presses enter.
type SubmitMsg struct {
	Mode  Mode
	Value string
}

// CancelMsg is emitted when the user presses esc.
type CancelMsg struct {
	Mode Mode
}

var labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))

// Model holds the prompt's state
type Model struct {
	input textinput.Model
	mode  Mode
	label string
	width int
}

// New creates an inactive prompt
func New() Model {
	ti := textinput.New()
	ti.Prompt = "> "
	return Model{input: ti, width: 80}
}

// Open focuses the prompt for mode, showing label before the input.
// limit caps the input length, 0 for none.
func (m *Model) Open(mode Mode, label, placeholder string, limit int) tea.Cmd {
	m.mode = mode
	m.label = label
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.CharLimit = limit
	return m.input.Focus()
}

// Prefill replaces the text of the open prompt, leaving the cursor at
// the end.
func (m *Model) Prefill(value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
}

// Close blurs and clears the prompt
func (m *Model) Close() {
	m.mode = ModeNone
	m.input.Reset()
	m.input.Blur()
}

// Active reports whether the prompt is taking input.
func (m Model) Active() bool {
	return m.mode != ModeNone
}

// Mode returns what the prompt is currently collecting.
func (m Model) Mode() Mode {
	return m.mode
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(1, msg.Width-lipgloss.Width(m.label)-4)
		return m, nil

	case tea.KeyMsg:
		if !m.Active() {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyEnter:
			mode, value := m.mode, m.input.Value()
			m.Close()
			return m, func() tea.Msg { return SubmitMsg{Mode: mode, Value: value} }
		case tea.KeyEsc:
			mode := m.mode
			m.Close()
			return m, func() tea.Msg { return CancelMsg{Mode: mode} }
		}
	}

	if !m.Active() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.Active() {
		return ""
	}
	return labelStyle.Render(m.label) + " " + m.input.View()
}
