package debug

import "github.com/valerio/go-chip8/chip8/cpu"

// CPUState contains all CPU register information for debugging
type CPUState struct {
	V  [cpu.RegisterCount]uint8
	I  uint16
	PC uint16
	SP uint8

	Stack  []uint16 // innermost return address first
	Opcode uint16   // last executed instruction word

	DelayTimer uint8
	SoundTimer uint8

	Legacy        bool
	WaitingForKey bool
	Instructions  uint64
}

// MemorySnapshot contains a snapshot of memory for disassembly
type MemorySnapshot struct {
	StartAddr uint16
	Bytes     []uint8
}

// DebuggerState represents the current debugger state
type DebuggerState int

const (
	DebuggerRunning DebuggerState = iota
	DebuggerPaused
	DebuggerStepInstruction
	DebuggerStepFrame
)

func (s DebuggerState) String() string {
	switch s {
	case DebuggerRunning:
		return "running"
	case DebuggerPaused:
		return "paused"
	case DebuggerStepInstruction:
		return "step instruction"
	case DebuggerStepFrame:
		return "step frame"
	default:
		return "unknown"
	}
}

// CompleteDebugData contains all debug information needed by debug displays
type CompleteDebugData struct {
	CPU           *CPUState
	Memory        *MemorySnapshot
	DebuggerState DebuggerState
	HeldKeys      [16]bool
	Frames        uint64
}
