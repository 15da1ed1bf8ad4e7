package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend renders nothing. It counts frames, optionally writes PNG snapshots
// and asks the emulator to quit once maxFrames frames have been shown.
type Backend struct {
	config         backend.BackendConfig
	snapshotConfig SnapshotConfig
	maxFrames      int

	frameCount int
	changes    int
	last       *video.FrameBuffer
}

// SnapshotConfig controls the PNG snapshots taken during a headless run.
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // frames between snapshots
	Directory string // output directory
	ROMName   string // used as the file name prefix
}

func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
		last:           video.NewFrameBuffer(),
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update records the frame and returns a quit event once the frame budget
// is spent. The last frame is always snapshotted when snapshots are on.
func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	h.frameCount++
	if !frame.Equal(h.last) {
		h.changes++
		h.last = frame.Clone()
	}

	done := h.maxFrames > 0 && h.frameCount >= h.maxFrames
	onInterval := h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0
	if onInterval || (done && h.snapshotConfig.Enabled) {
		h.saveSnapshot(frame)
	}

	if h.frameCount%60 == 0 {
		slog.Debug("Frame progress", "completed", h.frameCount, "total", h.maxFrames, "display_changes", h.changes)
	}

	if !done {
		return nil, nil
	}

	attrs := []any{"frames", h.frameCount, "display_changes", h.changes, "lit_pixels", frame.LitPixels()}
	if h.snapshotConfig.Enabled {
		attrs = append(attrs, "png_snapshots_saved_to", h.snapshotConfig.Directory)
	}
	slog.Info("Headless execution completed", attrs...)

	return []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Frames returns the number of frames processed so far.
func (h *Backend) Frames() int {
	return h.frameCount
}

// Changes returns how many frames differed from the one before them.
func (h *Backend) Changes() int {
	return h.changes
}

// LastFrame returns a copy of the most recent distinct frame.
func (h *Backend) LastFrame() *video.FrameBuffer {
	return h.last.Clone()
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "chip8-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	config.ROMName = filepath.Base(romPath)
	config.ROMName = strings.TrimSuffix(config.ROMName, filepath.Ext(config.ROMName))

	return config, nil
}

func (h *Backend) saveSnapshot(frame *video.FrameBuffer) {
	pngBaseName := fmt.Sprintf("%s_frame_%04d", h.snapshotConfig.ROMName, h.frameCount)

	if err := debug.SaveFramePNGToDir(frame, pngBaseName, h.snapshotConfig.Directory); err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", h.frameCount, "error", err)
	}
}
