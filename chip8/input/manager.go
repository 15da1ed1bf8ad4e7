package input

import (
	"log/slog"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/keypad"
)

// Keypad receives the hex key presses and releases.
type Keypad interface {
	Press(key keypad.Key)
	Release(key keypad.Key)
}

// Manager routes actions: keypad actions go straight to the keypad latch,
// everything else goes to registered callbacks.
type Manager struct {
	handlers map[action.Action]map[event.Type][]func()
	keypad   Keypad
}

func NewManager(k Keypad) *Manager {
	return &Manager{
		handlers: make(map[action.Action]map[event.Type][]func()),
		keypad:   k,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}

	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if key, ok := act.KeyIndex(); ok {
		if m.keypad == nil {
			return
		}
		switch evt {
		case event.Press, event.Hold:
			m.keypad.Press(keypad.Key(key))
		case event.Release:
			m.keypad.Release(keypad.Key(key))
		}
		return
	}

	callbacks := m.handlers[act][evt]
	if len(callbacks) == 0 {
		slog.Debug("No handler for action", "action", action.GetInfo(act).Description, "type", evt)
		return
	}
	for _, callback := range callbacks {
		callback()
	}
}
