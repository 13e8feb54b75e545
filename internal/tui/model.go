// Package tui is a Bubble Tea front end for a calculator engine.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/comalice/calcx"
	"github.com/comalice/calcx/internal/keymap"
)

// Model implements tea.Model around one engine.
type Model struct {
	engine *calcx.Engine
	keys   *keymap.Keymap
	status string
}

// New returns a model driving engine with keys. A nil keymap uses the
// default bindings.
func New(engine *calcx.Engine, keys *keymap.Keymap) Model {
	if keys == nil {
		keys = keymap.Default()
	}
	return Model{engine: engine, keys: keys}
}

// Run starts an interactive program on the terminal and blocks until the
// user quits.
func Run(engine *calcx.Engine, keys *keymap.Keymap) error {
	_, err := tea.NewProgram(New(engine, keys)).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	name := keyName(key)
	in, ok := m.keys.Lookup(name)
	if !ok {
		m.status = fmt.Sprintf("unbound key %q", name)
		return m, nil
	}
	if _, err := m.engine.Apply(in); err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.status = ""
	if err := m.engine.Err(); err != nil {
		m.status = err.Error()
	}
	return m, nil
}

// Status is the message shown under the keypad, if any.
func (m Model) Status() string { return m.status }

// keyName maps a key event to the names used in keymaps.
func keyName(k tea.KeyMsg) string {
	switch k.Type {
	case tea.KeyEnter:
		return keymap.KeyEnter
	case tea.KeyEsc:
		return keymap.KeyEscape
	case tea.KeyRunes:
		return string(k.Runes)
	}
	return k.String()
}
