package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// CHIP-8 hex keypad, in key order so Key0+n is key n
	Key0 Action = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorStepInstruction
	EmulatorQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by who consumes them.
type Category int

const (
	CategoryKeypad Category = iota
	CategoryEmulator
	CategoryDebug
)

// Info describes an action for logs and help text.
type Info struct {
	Category    Category
	Description string
}

// IsKeypad reports whether the action is one of the 16 CHIP-8 keys.
func (a Action) IsKeypad() bool {
	return a >= Key0 && a <= KeyF
}

// KeyIndex returns the keypad index for a keypad action.
func (a Action) KeyIndex() (uint8, bool) {
	if !a.IsKeypad() {
		return 0, false
	}
	return uint8(a - Key0), true
}

// FromKeyIndex returns the action for keypad key k (masked to 0x0-0xF).
func FromKeyIndex(k uint8) Action {
	return Key0 + Action(k&0x0F)
}

var infos = map[Action]Info{
	EmulatorDebugToggle:     {CategoryEmulator, "toggle debug view"},
	EmulatorSnapshot:        {CategoryEmulator, "save snapshot"},
	EmulatorPauseToggle:     {CategoryEmulator, "pause/resume"},
	EmulatorStepFrame:       {CategoryEmulator, "step frame"},
	EmulatorStepInstruction: {CategoryEmulator, "step instruction"},
	EmulatorQuit:            {CategoryEmulator, "quit"},
	DebugLogLevelIncrease:   {CategoryDebug, "more log output"},
	DebugLogLevelDecrease:   {CategoryDebug, "less log output"},
}

// GetInfo returns the category and description of an action.
func GetInfo(a Action) Info {
	if k, ok := a.KeyIndex(); ok {
		return Info{Category: CategoryKeypad, Description: fmt.Sprintf("key %X", k)}
	}
	if info, ok := infos[a]; ok {
		return info
	}
	return Info{Category: CategoryEmulator, Description: "unknown"}
}
