package display

// RGBA pixel format constants
const (
	// RGBABytesPerPixel is the number of bytes per pixel in RGBA format
	RGBABytesPerPixel = 4
	// FullAlpha is the alpha value for fully opaque pixels
	FullAlpha = 255
)

// Backend scaling and window constants
const (
	// DefaultPixelScale is the default scaling factor for CHIP-8 pixels
	DefaultPixelScale = 10
	// DefaultWindowWidth is the default window width (CHIP-8 width * scale)
	DefaultWindowWidth = 64 * DefaultPixelScale // 640
	// DefaultWindowHeight is the default window height (CHIP-8 height * scale)
	DefaultWindowHeight = 32 * DefaultPixelScale // 320
	// SnapshotScale is the upscaling factor applied to PNG snapshots
	SnapshotScale = 8
)

// Color mapping constants, as 0xRRGGBB
const (
	// ForegroundColor is used for lit pixels
	ForegroundColor = 0xE0F8D0
	// BackgroundColor is used for unlit pixels
	BackgroundColor = 0x081820
)

// RGB splits a 0xRRGGBB color into its components.
func RGB(color uint32) (r, g, b uint8) {
	return uint8(color >> 16), uint8(color >> 8), uint8(color)
}
