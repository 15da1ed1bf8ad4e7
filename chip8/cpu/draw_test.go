package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

// litRows returns the frame buffer rows as 64 character strings, for easy diffs.
func litRows(fb *video.FrameBuffer, rows int) []string {
	out := make([]string, rows)
	for y := 0; y < rows; y++ {
		line := make([]byte, video.FramebufferWidth)
		for x := 0; x < video.FramebufferWidth; x++ {
			line[x] = '.'
			if fb.GetPixel(uint(x), uint(y)) {
				line[x] = '#'
			}
		}
		out[y] = string(line)
	}
	return out
}

func TestCPU_DrawFontGlyph(t *testing.T) {
	m := newTestMachine(false)
	m.cpu.i = memory.FontBase

	m.exec(t, 0xD005)

	for row := 0; row < memory.GlyphSize; row++ {
		sprite := memory.Font[row]
		for col := 0; col < 8; col++ {
			want := sprite&(0x80>>col) != 0
			assert.Equal(t, want, m.fb.GetPixel(uint(col), uint(row)), "pixel %d,%d", col, row)
		}
	}
	assert.Equal(t, 14, m.fb.LitPixels())
	assert.Equal(t, uint8(0), m.cpu.V(0xF))
}

func TestCPU_DrawCollision(t *testing.T) {
	m := newTestMachine(false)
	m.cpu.i = memory.FontBase

	m.exec(t, 0xD005)
	m.exec(t, 0xD005)

	assert.Equal(t, uint8(1), m.cpu.V(0xF), "drawing over lit pixels erases them")
	assert.Equal(t, 0, m.fb.LitPixels())

	m.exec(t, 0xD005)
	assert.Equal(t, uint8(0), m.cpu.V(0xF), "flag is reset by a collision-free draw")
}

func TestCPU_DrawOriginWraps(t *testing.T) {
	m := newTestMachine(false)
	m.mem.Write(0x300, 0x80)
	m.cpu.i = 0x300
	m.cpu.v[1] = 64 + 5
	m.cpu.v[2] = 32 + 7

	m.exec(t, 0xD121)

	assert.True(t, m.fb.GetPixel(5, 7))
	assert.Equal(t, 1, m.fb.LitPixels())
}

func TestCPU_DrawClipsAtEdges(t *testing.T) {
	m := newTestMachine(false)
	for i := uint16(0); i < 4; i++ {
		m.mem.Write(0x300+i, 0xFF)
	}
	m.cpu.i = 0x300
	m.cpu.v[1] = 60
	m.cpu.v[2] = 30

	m.exec(t, 0xD124)

	// 4 columns (60..63) by 2 rows (30..31), nothing wraps to the other side
	assert.Equal(t, 8, m.fb.LitPixels())
	assert.True(t, m.fb.GetPixel(63, 31))
	assert.False(t, m.fb.GetPixel(0, 30))
	assert.False(t, m.fb.GetPixel(60, 0))
}

func TestCPU_DrawWithVFAsCoordinate(t *testing.T) {
	m := newTestMachine(false)
	m.mem.Write(0x300, 0x80)
	m.cpu.i = 0x300
	m.cpu.v[0xF] = 10

	m.exec(t, 0xDFF1)

	assert.True(t, m.fb.GetPixel(10, 10))
	assert.Equal(t, uint8(0), m.cpu.V(0xF))
}

func TestCPU_ClearScreenIsIdempotent(t *testing.T) {
	m := newTestMachine(false)
	m.cpu.i = memory.FontBase
	m.exec(t, 0xD005)

	m.exec(t, 0x00E0)
	once := litRows(m.fb, video.FramebufferHeight)
	m.exec(t, 0x00E0)

	assert.Equal(t, once, litRows(m.fb, video.FramebufferHeight))
	assert.Equal(t, 0, m.fb.LitPixels())
}
