package footer

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestView(t *testing.T) {
	m := New(true)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 1})
	m.SetStatus("sent :N0CALL")
	view := m.View()
	assert.Contains(t, view, "ack:on")
	assert.Contains(t, view, "sent :N0CALL")
	assert.Contains(t, view, "q quit")

	m.SetAck(false)
	assert.Contains(t, m.View(), "ack:off")
}

func TestNarrowViewDropsHelp(t *testing.T) {
	m := New(false)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 1})
	assert.NotContains(t, m.View(), "q quit")
}
