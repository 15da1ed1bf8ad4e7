package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/keypad"
)

func TestManager_KeypadActions(t *testing.T) {
	k := keypad.New()
	m := NewManager(k)

	m.Trigger(action.KeyA, event.Press)
	assert.True(t, k.IsHeld(0xA))

	m.Trigger(action.KeyA, event.Release)
	assert.False(t, k.IsHeld(0xA))
	assert.True(t, k.WasReleased(0xA))

	m.Trigger(action.Key3, event.Hold)
	assert.True(t, k.IsHeld(0x3))
}

func TestManager_Callbacks(t *testing.T) {
	m := NewManager(nil)
	paused := 0
	m.On(action.EmulatorPauseToggle, event.Press, func() { paused++ })
	m.On(action.EmulatorPauseToggle, event.Press, func() { paused++ })

	m.Trigger(action.EmulatorPauseToggle, event.Press)
	m.Trigger(action.EmulatorPauseToggle, event.Release)
	m.Trigger(action.EmulatorQuit, event.Press) // no handler, ignored
	m.Trigger(action.Key1, event.Press)         // no keypad, ignored

	assert.Equal(t, 2, paused)
}

func TestDefaultKeyMap_CoversKeypad(t *testing.T) {
	seen := make(map[action.Action]bool)
	for _, act := range DefaultKeyMap {
		if act.IsKeypad() {
			seen[act] = true
		}
	}
	assert.Len(t, seen, 16)

	act, ok := GetDefaultMapping("x")
	assert.True(t, ok)
	assert.Equal(t, action.Key0, act)
}
