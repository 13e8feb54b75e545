package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/calcx"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestTypingUpdatesEngine(t *testing.T) {
	e := calcx.New()
	m := press(t, New(e, nil), runes("1"), runes("2"), runes("+"), runes("3"))

	assert.Equal(t, "12 + 3", e.Expression())
	assert.Contains(t, m.View(), "12 + 3")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "15", e.Display())
	assert.Empty(t, m.Status())

	press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "0", e.Display())
}

func TestErrorStatus(t *testing.T) {
	e := calcx.New()
	m := press(t, New(e, nil), runes("9"), runes("n"), runes("r"))

	assert.True(t, e.InError())
	assert.Contains(t, m.View(), "Error")
	assert.NotEmpty(t, m.Status())

	m = press(t, m, runes("4"))
	assert.Equal(t, "4", e.Display())
	assert.Empty(t, m.Status())
}

func TestUnboundKey(t *testing.T) {
	e := calcx.New()
	m := press(t, New(e, nil), runes("7"), runes("%"))

	assert.Equal(t, "7", e.Display())
	assert.Contains(t, m.Status(), "unbound key")
}

func TestQuit(t *testing.T) {
	_, cmd := New(calcx.New(), nil).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewLayout(t *testing.T) {
	view := New(calcx.New(), nil).View()
	for _, label := range []string{"x²", "√", "x^y", "1/x", "7", "=", "C", "±"} {
		assert.Contains(t, view, label)
	}
	lines := strings.Split(view, "\n")
	assert.True(t, strings.HasSuffix(lines[1], "0 |"), lines[1])
}

func TestFit(t *testing.T) {
	assert.Equal(t, "   42", fit("42", 5))
	assert.Equal(t, "<6789", fit("123456789", 5))
}
