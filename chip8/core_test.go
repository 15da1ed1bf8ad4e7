package chip8

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

func testConfig(legacy bool) Config {
	return Config{Legacy: legacy, InstructionsPerSecond: 600, Seed: 1}
}

func newTestChip8(t *testing.T, legacy bool, rom ...byte) *Chip8 {
	t.Helper()
	e, err := NewWithROM(rom, testConfig(legacy))
	require.NoError(t, err)
	return e
}

// screen renders the frame buffer as rows of '#' and '.' for readable diffs.
func screen(fb *video.FrameBuffer) []string {
	rows := make([]string, video.FramebufferHeight)
	for y := range rows {
		line := make([]byte, video.FramebufferWidth)
		for x := range line {
			line[x] = '.'
			if fb.GetPixel(uint(x), uint(y)) {
				line[x] = '#'
			}
		}
		rows[y] = string(line)
	}
	return rows
}

func TestNewWithROM_Errors(t *testing.T) {
	_, err := NewWithROM(nil, DefaultConfig())
	assert.ErrorIs(t, err, memory.ErrROMEmpty)

	_, err = NewWithROM(make([]byte, memory.MaxROMSize+1), DefaultConfig())
	assert.ErrorIs(t, err, memory.ErrROMTooLarge)

	_, err = NewWithROM([]byte{0x00, 0xE0}, Config{InstructionsPerSecond: 0})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	e, err := NewWithROM(make([]byte, memory.MaxROMSize), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, memory.MaxROMSize, e.Memory().ROMSize())
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.ch8")
	require.NoError(t, os.WriteFile(path, []byte{0x6A, 0x42}, 0o644))

	e, err := NewWithFile(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, uint8(0x6A), e.Memory().Read(memory.ProgramBase))

	_, err = NewWithFile(filepath.Join(t.TempDir(), "missing.ch8"), DefaultConfig())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_DefaultsRate(t *testing.T) {
	e := New(Config{})
	assert.Equal(t, DefaultInstructionsPerSecond, e.Config().InstructionsPerSecond)
	assert.Equal(t, memory.Font[0], e.Memory().Read(memory.FontBase))
}

func TestScenario_DrawFontGlyph(t *testing.T) {
	e := newTestChip8(t, false, 0xA0, 0x50, 0xD0, 0x05)

	require.NoError(t, e.CPU().Step())
	require.NoError(t, e.CPU().Step())

	want := video.NewFrameBuffer()
	for row := 0; row < memory.GlyphSize; row++ {
		for col := 0; col < 8; col++ {
			if memory.Font[row]&(0x80>>col) != 0 {
				want.SetPixel(uint(col), uint(row), true)
			}
		}
	}

	if diff := cmp.Diff(screen(want), screen(e.GetCurrentFrame())); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, uint8(0), e.CPU().V(0xF))
}

// A250 points I at 0x250, which holds no sprite data in a machine that
// only has the font and a four byte program loaded.
func TestScenario_DrawFromEmptyMemory(t *testing.T) {
	e := newTestChip8(t, false, 0xA2, 0x50, 0xD0, 0x05)

	require.NoError(t, e.CPU().Step())
	require.NoError(t, e.CPU().Step())

	assert.Equal(t, uint16(0x250), e.CPU().I())
	assert.Equal(t, 0, e.GetCurrentFrame().LitPixels())
	assert.Equal(t, uint8(0), e.CPU().V(0xF))
}

func TestScenario_ClearAndJumpLoop(t *testing.T) {
	e := newTestChip8(t, false, 0x00, 0xE0, 0x12, 0x00)

	for i := 0; i < 1000; i++ {
		require.NoError(t, e.CPU().Step())
		pc := e.CPU().PC()
		assert.True(t, pc == 0x200 || pc == 0x202, "unexpected pc 0x%03X", pc)
	}

	for i := 0; i < 30; i++ {
		require.NoError(t, e.RunUntilFrame())
	}
	assert.Equal(t, 0, e.GetCurrentFrame().LitPixels())
}

func TestScenario_KeyWait(t *testing.T) {
	e := newTestChip8(t, false, 0xF3, 0x0A, 0x60, 0x01)
	e.Timers().SetDelay(30)

	require.NoError(t, e.CPU().Step())
	assert.Equal(t, memory.ProgramBase, e.CPU().PC(), "net PC delta is zero while waiting")
	assert.True(t, e.CPU().WaitingForKey())

	for i := 0; i < 10; i++ {
		e.BeginFrame()
		require.NoError(t, e.RunUntilFrame())
		assert.Equal(t, memory.ProgramBase, e.CPU().PC())
	}
	assert.Equal(t, uint8(20), e.Timers().Delay(), "timers keep ticking during the wait")

	// holding a key is not enough, it has to be released
	e.BeginFrame()
	e.HandleAction(action.Key7, true)
	require.NoError(t, e.RunUntilFrame())
	assert.Equal(t, memory.ProgramBase, e.CPU().PC())

	e.BeginFrame()
	e.HandleAction(action.Key7, false)
	require.NoError(t, e.CPU().Step())
	assert.Equal(t, uint8(7), e.CPU().V(3))
	assert.Equal(t, uint16(0x202), e.CPU().PC())
	assert.False(t, e.CPU().WaitingForKey())
}

func TestScenario_JumpWithOffset(t *testing.T) {
	rom := []byte{0x60, 0x10, 0x63, 0x05, 0xB3, 0x00}

	legacy := newTestChip8(t, true, rom...)
	modern := newTestChip8(t, false, rom...)
	for i := 0; i < 3; i++ {
		require.NoError(t, legacy.CPU().Step())
		require.NoError(t, modern.CPU().Step())
	}

	assert.Equal(t, uint16(0x310), legacy.CPU().PC())
	assert.Equal(t, uint16(0x305), modern.CPU().PC())
}

func TestAdvance_RunsAtConfiguredRate(t *testing.T) {
	e := newTestChip8(t, false, 0x12, 0x00)

	for i := 0; i < 60; i++ {
		require.NoError(t, e.RunUntilFrame())
	}

	assert.Equal(t, uint64(600), e.CPU().Instructions())
	assert.Equal(t, uint64(60), e.Frames())
}

func TestAdvance_TimersAt60Hz(t *testing.T) {
	e := newTestChip8(t, false, 0x12, 0x00)
	e.Timers().SetDelay(100)
	e.Timers().SetSound(3)

	for i := 0; i < 30; i++ {
		require.NoError(t, e.RunUntilFrame())
	}

	assert.Equal(t, uint8(70), e.Timers().Delay())
	assert.Equal(t, uint8(0), e.Timers().Sound(), "timers stop at zero")
}

func TestAdvance_StackFaultsAreReportedAndExecutionContinues(t *testing.T) {
	// RET with an empty stack, then V0 = 5, then loop
	e := newTestChip8(t, false, 0x00, 0xEE, 0x60, 0x05, 0x12, 0x04)

	err := e.RunUntilFrame()

	assert.ErrorIs(t, err, cpu.ErrStackUnderflow)
	assert.Equal(t, uint64(1), e.Faults())
	assert.Equal(t, uint8(5), e.CPU().V(0))
}

func TestAdvance_StackOverflow(t *testing.T) {
	// a subroutine that calls itself
	e := newTestChip8(t, false, 0x22, 0x00)

	require.NoError(t, e.RunUntilFrame())
	err := e.RunUntilFrame()

	assert.ErrorIs(t, err, cpu.ErrStackOverflow)
	assert.Equal(t, uint8(0), e.CPU().SP())
	assert.Len(t, e.CPU().Stack(), cpu.StackDepth)
}

func TestHandleAction_Debugger(t *testing.T) {
	e := newTestChip8(t, false, 0x12, 0x00)

	e.HandleAction(action.EmulatorPauseToggle, true)
	assert.Equal(t, debug.DebuggerPaused, e.DebuggerState())
	require.NoError(t, e.RunUntilFrame())
	assert.Equal(t, uint64(0), e.CPU().Instructions(), "nothing runs while paused")

	e.HandleAction(action.EmulatorStepInstruction, true)
	require.NoError(t, e.RunUntilFrame())
	assert.Equal(t, uint64(1), e.CPU().Instructions())
	assert.Equal(t, debug.DebuggerPaused, e.DebuggerState())

	e.HandleAction(action.EmulatorStepFrame, true)
	require.NoError(t, e.Advance(0))
	assert.Equal(t, uint64(11), e.CPU().Instructions(), "a step runs a full frame regardless of elapsed time")
	assert.Equal(t, debug.DebuggerPaused, e.DebuggerState())

	e.HandleAction(action.EmulatorPauseToggle, false)
	assert.Equal(t, debug.DebuggerPaused, e.DebuggerState(), "releases are ignored")

	e.HandleAction(action.EmulatorPauseToggle, true)
	assert.Equal(t, debug.DebuggerRunning, e.DebuggerState())
}

type fakeBeeper struct {
	calls []bool
}

func (b *fakeBeeper) SetActive(active bool) { b.calls = append(b.calls, active) }
func (b *fakeBeeper) Close() error          { return nil }

func TestSoundTimerDrivesBeeper(t *testing.T) {
	// ST = V5 = 3, then loop
	e := newTestChip8(t, false, 0x65, 0x03, 0xF5, 0x18, 0x12, 0x04)
	b := &fakeBeeper{}
	e.SetBeeper(b)

	for i := 0; i < 5; i++ {
		require.NoError(t, e.RunUntilFrame())
	}

	assert.Equal(t, []bool{false, true, false}, b.calls)
}

func TestRecorderFollowsEmulatedTime(t *testing.T) {
	e := newTestChip8(t, false, 0x12, 0x00)
	r := audio.NewRecorder(filepath.Join(t.TempDir(), "out.wav"))
	e.SetBeeper(r)

	for i := 0; i < 60; i++ {
		require.NoError(t, e.RunUntilFrame())
	}

	assert.InDelta(t, audio.SampleRate, r.Samples(), 1)
}

func TestSeedMakesRandomReproducible(t *testing.T) {
	rom := []byte{0xC0, 0xFF, 0xC1, 0xFF, 0xC2, 0xFF}
	a := newTestChip8(t, false, rom...)
	b := newTestChip8(t, false, rom...)

	for i := 0; i < 3; i++ {
		require.NoError(t, a.CPU().Step())
		require.NoError(t, b.CPU().Step())
	}

	assert.Equal(t, a.CPU().Registers(), b.CPU().Registers())
}

func TestExtractDebugData(t *testing.T) {
	e := newTestChip8(t, true, 0xA0, 0x50, 0x12, 0x02)
	require.NoError(t, e.CPU().Step())
	e.HandleAction(action.KeyB, true)

	data := e.ExtractDebugData()
	require.NotNil(t, data)
	require.NotNil(t, data.CPU)
	require.NotNil(t, data.Memory)

	assert.Equal(t, uint16(0x202), data.CPU.PC)
	assert.Equal(t, uint16(0x050), data.CPU.I)
	assert.Equal(t, uint16(0xA050), data.CPU.Opcode)
	assert.True(t, data.CPU.Legacy)
	assert.True(t, data.HeldKeys[0xB])
	assert.Equal(t, debug.DebuggerRunning, data.DebuggerState)

	snapshot := data.Memory
	assert.Equal(t, uint16(0x202-snapshotBefore), snapshot.StartAddr)
	assert.Len(t, snapshot.Bytes, snapshotSize)
	assert.Equal(t, byte(0x12), snapshot.Bytes[snapshotBefore])

	lines := debug.CreateDisassembly(snapshot, data.CPU.PC, 5)
	var current string
	for _, line := range lines {
		if line.IsCurrent {
			current = line.Instruction
		}
	}
	assert.Equal(t, "JP 0x202", current)
}

func TestExtractDebugData_NilComponents(t *testing.T) {
	e := &Chip8{}
	assert.Nil(t, e.ExtractDebugData())
}

func TestReset(t *testing.T) {
	e := newTestChip8(t, false, 0xA0, 0x50, 0xD0, 0x05, 0x12, 0x04)
	require.NoError(t, e.RunUntilFrame())
	require.NotZero(t, e.GetCurrentFrame().LitPixels())

	e.Reset()

	assert.Equal(t, memory.ProgramBase, e.CPU().PC())
	assert.Zero(t, e.GetCurrentFrame().LitPixels())
	assert.Equal(t, uint8(0xA0), e.Memory().Read(memory.ProgramBase), "program is kept")
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.ErrorIs(t, Config{InstructionsPerSecond: -1}.Validate(), ErrInvalidConfig)
}
