package effects

import (
	"fmt"
	"time"

	"ledserver/internal/pixel"
)

// Manager holds an ordered list of effects and an active index. The active
// index starts at -1 (no effect selected) and becomes 0 when the first
// effect is added.
type Manager struct {
	effects []Effect
	current int
}

// NewManager returns an empty Manager with no active effect.
func NewManager() *Manager {
	return &Manager{current: -1}
}

// Add appends an effect, selecting it as current if none was selected yet.
func (m *Manager) Add(e Effect) {
	m.effects = append(m.effects, e)
	if m.current == -1 {
		m.current = 0
	}
}

// Remove drops the effect at index, adjusting the current selection.
func (m *Manager) Remove(index int) error {
	if index < 0 || index >= len(m.effects) {
		return fmt.Errorf("effects: index %d out of range", index)
	}
	m.effects = append(m.effects[:index], m.effects[index+1:]...)

	switch {
	case len(m.effects) == 0:
		m.current = -1
	case index <= m.current && m.current > 0:
		m.current--
	case index <= m.current:
		m.current = -1
	}
	return nil
}

// ClearAll removes every effect.
func (m *Manager) ClearAll() {
	m.effects = nil
	m.current = -1
}

// Next advances to the following effect, wrapping around. It does not
// call Start on the newly selected effect.
func (m *Manager) Next() {
	if len(m.effects) == 0 {
		return
	}
	m.current = (m.current + 1) % len(m.effects)
}

// Previous moves to the preceding effect, wrapping around. It does not
// call Start on the newly selected effect.
func (m *Manager) Previous() {
	if len(m.effects) == 0 {
		return
	}
	if m.current <= 0 {
		m.current = len(m.effects) - 1
	} else {
		m.current--
	}
}

// SetCurrent selects the effect at index and starts it against buf.
func (m *Manager) SetCurrent(index int, buf *pixel.Buffer) error {
	if index < 0 || index >= len(m.effects) {
		return fmt.Errorf("effects: index %d out of range", index)
	}
	m.current = index
	return m.StartCurrent(buf)
}

// StartCurrent invokes Start on whichever effect is currently selected.
func (m *Manager) StartCurrent(buf *pixel.Buffer) error {
	e, ok := m.selected()
	if !ok {
		return nil
	}
	e.Start(buf)
	return nil
}

// UpdateCurrent invokes Update on the currently selected effect.
func (m *Manager) UpdateCurrent(buf *pixel.Buffer, dt time.Duration) {
	if e, ok := m.selected(); ok {
		e.Update(buf, dt)
	}
}

// CurrentName returns the active effect's name, or "" if none is selected.
func (m *Manager) CurrentName() string {
	if e, ok := m.selected(); ok {
		return e.Name()
	}
	return ""
}

// Effects returns a snapshot of the registered effects in order.
func (m *Manager) Effects() []Effect {
	out := make([]Effect, len(m.effects))
	copy(out, m.effects)
	return out
}

func (m *Manager) selected() (Effect, bool) {
	if m.current < 0 || m.current >= len(m.effects) {
		return nil, false
	}
	return m.effects[m.current], true
}
