package chip8

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/keypad"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timer"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	// bytes of memory before and after PC included in debug snapshots
	snapshotBefore = 32
	snapshotSize   = 96
)

// clockedBeeper is a beeper that renders audio as emulated time passes.
type clockedBeeper interface {
	audio.Beeper
	Advance(elapsed time.Duration)
}

// Chip8 is the complete machine. It owns every component and drives the CPU
// and the timers from two independent fixed-step clocks.
type Chip8 struct {
	config Config

	mem    *memory.Memory
	cpu    *cpu.CPU
	fb     *video.FrameBuffer
	timers *timer.Timers
	keys   *keypad.Keypad

	cpuClock   *timing.Clock
	timerClock *timing.Clock

	beeper        audio.Beeper
	debuggerState debug.DebuggerState
	frames        uint64
	faults        uint64
}

// New creates a machine with the font installed and empty program memory.
// A non-positive instruction rate falls back to the default.
func New(cfg Config) *Chip8 {
	if cfg.InstructionsPerSecond <= 0 {
		cfg.InstructionsPerSecond = DefaultInstructionsPerSecond
	}

	e := &Chip8{
		config:     cfg,
		mem:        memory.New(),
		fb:         video.NewFrameBuffer(),
		timers:     timer.New(),
		keys:       keypad.New(),
		cpuClock:   timing.NewClock(cfg.InstructionsPerSecond),
		timerClock: timing.NewClock(timer.Frequency),
	}
	e.cpu = cpu.New(e.mem, e.fb, e.keys, e.timers, cpu.Options{Legacy: cfg.Legacy, Seed: cfg.Seed})
	e.timers.OnSoundChange = e.onSoundChange

	return e
}

// NewWithROM creates a machine and loads the program at memory.ProgramBase.
func NewWithROM(data []byte, cfg Config) (*Chip8, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := New(cfg)
	if err := e.mem.LoadROM(data); err != nil {
		return nil, fmt.Errorf("failed to load ROM: %w", err)
	}

	slog.Info("Loaded ROM", "bytes", len(data), "legacy", cfg.Legacy, "ips", cfg.InstructionsPerSecond)
	return e, nil
}

// NewWithFile creates a machine and loads the ROM file specified into it.
func NewWithFile(path string, cfg Config) (*Chip8, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM %s: %w", path, err)
	}

	return NewWithROM(data, cfg)
}

// SetBeeper connects the sound timer to an audio sink. Pass nil to disconnect.
func (e *Chip8) SetBeeper(b audio.Beeper) {
	e.beeper = b
	if b != nil {
		b.SetActive(e.timers.SoundActive())
	}
}

func (e *Chip8) onSoundChange(active bool) {
	slog.Debug("Sound timer", "active", active)
	if e.beeper != nil {
		e.beeper.SetActive(active)
	}
}

// BeginFrame clears the key release flags. Input for the frame is delivered
// after this call and before Advance.
func (e *Chip8) BeginFrame() {
	e.keys.BeginFrame()
}

// Advance runs the instructions and timer ticks that fall due in elapsed
// wall-clock time. Stack faults are logged and execution carries on, the
// returned error joins every fault hit during the call.
func (e *Chip8) Advance(elapsed time.Duration) error {
	switch e.debuggerState {
	case debug.DebuggerPaused:
		return nil
	case debug.DebuggerStepInstruction:
		e.debuggerState = debug.DebuggerPaused
		err := e.step()
		e.frames++
		return err
	case debug.DebuggerStepFrame:
		e.debuggerState = debug.DebuggerPaused
		elapsed = timing.FrameDuration()
	}

	var faults []error
	for steps := e.cpuClock.Advance(elapsed); steps > 0; steps-- {
		if err := e.step(); err != nil {
			faults = append(faults, err)
		}
	}

	for ticks := e.timerClock.Advance(elapsed); ticks > 0; ticks-- {
		e.timers.Tick()
		if b, ok := e.beeper.(clockedBeeper); ok {
			b.Advance(e.timerClock.Interval())
		}
	}

	e.frames++
	return errors.Join(faults...)
}

// RunUntilFrame advances the machine by exactly one 60Hz frame.
func (e *Chip8) RunUntilFrame() error {
	return e.Advance(timing.FrameDuration())
}

func (e *Chip8) step() error {
	pc := e.cpu.PC()
	if err := e.cpu.Step(); err != nil {
		e.faults++
		slog.Error("CPU fault", "pc", fmt.Sprintf("0x%03X", pc), "opcode", fmt.Sprintf("0x%04X", e.cpu.CurrentOpcode()), "error", err)
		return err
	}
	return nil
}

// HandleAction applies an action to the machine: keypad actions press or
// release keys, debugger actions act on press only.
func (e *Chip8) HandleAction(act action.Action, pressed bool) {
	if key, ok := act.KeyIndex(); ok {
		if pressed {
			e.keys.Press(keypad.Key(key))
		} else {
			e.keys.Release(keypad.Key(key))
		}
		return
	}

	if !pressed {
		return
	}

	switch act {
	case action.EmulatorPauseToggle:
		if e.debuggerState == debug.DebuggerRunning {
			e.debuggerState = debug.DebuggerPaused
			slog.Info("Emulation paused", "pc", fmt.Sprintf("0x%03X", e.cpu.PC()))
		} else {
			e.debuggerState = debug.DebuggerRunning
			e.cpuClock.Reset()
			e.timerClock.Reset()
			slog.Info("Emulation resumed")
		}
	case action.EmulatorStepInstruction:
		e.debuggerState = debug.DebuggerStepInstruction
		slog.Debug("Stepping instruction", "pc", fmt.Sprintf("0x%03X", e.cpu.PC()))
	case action.EmulatorStepFrame:
		e.debuggerState = debug.DebuggerStepFrame
		slog.Debug("Stepping frame", "frame", e.frames)
	}
}

func (e *Chip8) GetCurrentFrame() *video.FrameBuffer {
	return e.fb
}

// ExtractDebugData returns a copy of the machine state for debug displays.
func (e *Chip8) ExtractDebugData() *debug.CompleteDebugData {
	if e.cpu == nil || e.mem == nil {
		return nil
	}

	pc := e.cpu.PC()
	start := uint16(0)
	if pc > snapshotBefore {
		start = pc - snapshotBefore
	}

	return &debug.CompleteDebugData{
		CPU: &debug.CPUState{
			V:             e.cpu.Registers(),
			I:             e.cpu.I(),
			PC:            pc,
			SP:            e.cpu.SP(),
			Stack:         e.cpu.Stack(),
			Opcode:        e.cpu.CurrentOpcode(),
			DelayTimer:    e.timers.Delay(),
			SoundTimer:    e.timers.Sound(),
			Legacy:        e.cpu.Legacy(),
			WaitingForKey: e.cpu.WaitingForKey(),
			Instructions:  e.cpu.Instructions(),
		},
		Memory: &debug.MemorySnapshot{
			StartAddr: start,
			Bytes:     e.mem.Snapshot(start, snapshotSize),
		},
		DebuggerState: e.debuggerState,
		HeldKeys:      e.keys.Held(),
		Frames:        e.frames,
	}
}

// Reset returns the machine to its power-on state, keeping the loaded program.
func (e *Chip8) Reset() {
	e.cpu.Reset()
	e.fb.Clear()
	e.timers.Reset()
	e.keys.Reset()
	e.cpuClock.Reset()
	e.timerClock.Reset()
	e.debuggerState = debug.DebuggerRunning
	e.frames = 0
}

func (e *Chip8) Config() Config                     { return e.config }
func (e *Chip8) CPU() *cpu.CPU                      { return e.cpu }
func (e *Chip8) Memory() *memory.Memory             { return e.mem }
func (e *Chip8) Timers() *timer.Timers              { return e.timers }
func (e *Chip8) Keypad() *keypad.Keypad             { return e.keys }
func (e *Chip8) DebuggerState() debug.DebuggerState { return e.debuggerState }
func (e *Chip8) Frames() uint64                     { return e.frames }

// Faults returns the number of stack faults hit since creation.
func (e *Chip8) Faults() uint64 { return e.faults }
