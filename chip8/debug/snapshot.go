package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"

	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/video"
)

// TakeSnapshot handles F12 snapshot logic for backends
func TakeSnapshot(frame *video.FrameBuffer) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if err := SaveFramePNGToDir(frame, "chip8_snapshot", ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// FrameImage renders the frame buffer to an RGBA image, upscaled by scale
// with nearest neighbour sampling so pixels stay sharp.
func FrameImage(frame *video.FrameBuffer, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}

	src := image.NewRGBA(image.Rect(0, 0, video.FramebufferWidth, video.FramebufferHeight))
	on := toRGBA(display.ForegroundColor)
	off := toRGBA(display.BackgroundColor)
	for i, lit := range frame.ToSlice() {
		c := off
		if lit {
			c = on
		}
		src.SetRGBA(i%video.FramebufferWidth, i/video.FramebufferWidth, c)
	}

	if scale == 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, video.FramebufferWidth*scale, video.FramebufferHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// WriteFramePNG encodes the frame as a PNG to w.
func WriteFramePNG(w io.Writer, frame *video.FrameBuffer, scale int) error {
	if err := png.Encode(w, FrameImage(frame, scale)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific directory
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := WriteFramePNG(file, frame, display.SnapshotScale); err != nil {
		return err
	}

	slog.Info("Snapshot saved", "path", filePath,
		"size", fmt.Sprintf("%dx%d", video.FramebufferWidth*display.SnapshotScale, video.FramebufferHeight*display.SnapshotScale),
		"format", "PNG")
	return nil
}

func toRGBA(rgb uint32) color.RGBA {
	r, g, b := display.RGB(rgb)
	return color.RGBA{R: r, G: g, B: b, A: display.FullAlpha}
}
