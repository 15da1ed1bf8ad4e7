package chip8_test

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

// fontGridROM draws the 16 hex digits as two rows of eight, 8 pixels apart,
// then spins in place.
var fontGridROM = []byte{
	0x00, 0xE0, // 200: CLS
	0x60, 0x00, // 202: V0 = 0
	0x61, 0x00, // 204: V1 = 0
	0x62, 0x00, // 206: V2 = 0
	0xF0, 0x29, // 208: I = glyph V0
	0xD1, 0x25, // 20A: draw V1, V2
	0x70, 0x01, // 20C: V0 += 1
	0x71, 0x08, // 20E: V1 += 8
	0x41, 0x40, // 210: skip if V1 != 64
	0x22, 0x20, // 212: call newline
	0x30, 0x10, // 214: skip if V0 == 16
	0x12, 0x08, // 216: loop
	0x12, 0x18, // 218: halt
	0x00, 0x00, // 21A
	0x00, 0x00, // 21C
	0x00, 0x00, // 21E
	0x61, 0x00, // 220: V1 = 0
	0x72, 0x08, // 222: V2 += 8
	0x00, 0xEE, // 224: RET
}

func expectedFontGrid() *video.FrameBuffer {
	fb := video.NewFrameBuffer()
	for digit := 0; digit < 16; digit++ {
		originX := (digit % 8) * 8
		originY := (digit / 8) * 8
		for row := 0; row < memory.GlyphSize; row++ {
			sprite := memory.Font[digit*memory.GlyphSize+row]
			for col := 0; col < 8; col++ {
				if sprite&(0x80>>col) != 0 {
					fb.SetPixel(uint(originX+col), uint(originY+row), true)
				}
			}
		}
	}
	return fb
}

func frameHash(fb *video.FrameBuffer) string {
	return fmt.Sprintf("%x", md5.Sum(fb.ToGrayscale()))
}

func TestIntegration_FontGrid(t *testing.T) {
	for _, legacy := range []bool{false, true} {
		t.Run(fmt.Sprintf("legacy=%v", legacy), func(t *testing.T) {
			emu, err := chip8.NewWithROM(fontGridROM, chip8.Config{Legacy: legacy, InstructionsPerSecond: 600, Seed: 1})
			require.NoError(t, err)

			for i := 0; i < 30; i++ {
				require.NoError(t, emu.RunUntilFrame())
			}

			assert.Equal(t, frameHash(expectedFontGrid()), frameHash(emu.GetCurrentFrame()))
			assert.Equal(t, uint16(0x218), emu.CPU().PC())
			assert.Equal(t, uint8(0), emu.CPU().V(0xF), "glyphs never overlap")
			assert.Empty(t, emu.CPU().Stack())
			assert.Equal(t, uint64(0), emu.Faults())
		})
	}
}

func TestIntegration_HeadlessSnapshots(t *testing.T) {
	dir := t.TempDir()
	romPath := filepath.Join(dir, "fontgrid.ch8")
	require.NoError(t, os.WriteFile(romPath, fontGridROM, 0o644))

	emu, err := chip8.NewWithFile(romPath, chip8.Config{InstructionsPerSecond: 600, Seed: 1})
	require.NoError(t, err)

	snapshotDir := filepath.Join(dir, "snapshots")
	snapshotConfig, err := headless.CreateSnapshotConfig(10, snapshotDir, romPath)
	require.NoError(t, err)
	assert.Equal(t, "fontgrid", snapshotConfig.ROMName)

	h := headless.New(30, snapshotConfig)
	require.NoError(t, h.Init(backend.BackendConfig{Title: "integration"}))
	defer h.Cleanup()

	runner := chip8.NewRunner(emu, h, chip8.RunnerConfig{FixedStep: true})
	require.NoError(t, runner.Run())

	assert.Equal(t, uint64(30), emu.Frames())
	assert.True(t, expectedFontGrid().Equal(emu.GetCurrentFrame()))

	files, err := filepath.Glob(filepath.Join(snapshotDir, "fontgrid_frame_*.png"))
	require.NoError(t, err)
	assert.Len(t, files, 3)
}
