package video

const (
	FramebufferWidth  = 64
	FramebufferHeight = 32
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// Grayscale values used when exporting the frame buffer.
const (
	PixelOff byte = 0x00
	PixelOn  byte = 0xFF
)

// FrameBuffer is the 64x32 monochrome display. Only sprite drawing and clear
// modify it, renderers get read-only views.
type FrameBuffer struct {
	buffer [FramebufferSize]bool
}

// NewFrameBuffer creates a cleared frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	fb.buffer = [FramebufferSize]bool{}
}

func (fb *FrameBuffer) GetPixel(x, y uint) bool {
	return fb.buffer[y*FramebufferWidth+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, on bool) {
	fb.buffer[y*FramebufferWidth+x] = on
}

// TogglePixel flips the pixel at x, y and reports whether it was turned off.
func (fb *FrameBuffer) TogglePixel(x, y uint) (erased bool) {
	idx := y*FramebufferWidth + x
	erased = fb.buffer[idx]
	fb.buffer[idx] = !erased
	return erased
}

// ToSlice returns a copy of the pixels in row-major order.
func (fb *FrameBuffer) ToSlice() []bool {
	out := make([]bool, FramebufferSize)
	copy(out, fb.buffer[:])
	return out
}

// ToGrayscale returns one byte per pixel, PixelOn or PixelOff.
func (fb *FrameBuffer) ToGrayscale() []byte {
	out := make([]byte, FramebufferSize)
	for i, on := range fb.buffer {
		if on {
			out[i] = PixelOn
		}
	}
	return out
}

// LitPixels counts pixels that are on.
func (fb *FrameBuffer) LitPixels() int {
	count := 0
	for _, on := range fb.buffer {
		if on {
			count++
		}
	}
	return count
}

func (fb *FrameBuffer) Equal(other *FrameBuffer) bool {
	return fb.buffer == other.buffer
}

func (fb *FrameBuffer) Clone() *FrameBuffer {
	clone := *fb
	return &clone
}
