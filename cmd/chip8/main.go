package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 virtual machine"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "legacy, l",
			Usage: "Use the original COSMAC VIP behavior for shifts, BNNN and FX55/FX65",
		},
		cli.IntFlag{
			Name:  "ips",
			Usage: "Instructions executed per second",
			Value: chip8.DefaultInstructionsPerSecond,
		},
		cli.Uint64Flag{
			Name:  "seed",
			Usage: "Seed for the CXNN random generator (0 = random)",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Interactive backend to use: terminal or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor for the sdl2 backend",
			Value: display.DefaultPixelScale,
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing for interactive runs: ticker or adaptive",
			Value: "ticker",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "sound",
			Usage: "Play the buzzer through the audio device (needs -tags oto)",
		},
		cli.StringFlag{
			Name:  "audio-dump",
			Usage: "Record the buzzer to a WAV file",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging and the debug panes",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	setupLogging(c.Bool("debug"))

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() == 0 {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
		romPath = c.Args().Get(0)
	}

	cfg := chip8.Config{
		Legacy:                c.Bool("legacy"),
		InstructionsPerSecond: c.Int("ips"),
		Seed:                  c.Uint64("seed"),
	}

	emu, err := chip8.NewWithFile(romPath, cfg)
	if err != nil {
		return err
	}

	beeper, err := createBeeper(c)
	if err != nil {
		return err
	}
	if beeper != nil {
		emu.SetBeeper(beeper)
		defer func() {
			if err := beeper.Close(); err != nil {
				slog.Error("Failed to close audio", "error", err)
			}
		}()
	}

	if c.Bool("headless") {
		return runHeadless(c, emu, romPath)
	}
	return runInteractive(c, emu)
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// createBeeper returns the audio sink selected by the flags, or nil for silence.
// A WAV dump takes precedence over live playback.
func createBeeper(c *cli.Context) (audio.Beeper, error) {
	if path := c.String("audio-dump"); path != "" {
		slog.Info("Recording audio", "path", path)
		return audio.NewRecorder(path), nil
	}

	if !c.Bool("sound") {
		return nil, nil
	}

	player, err := audio.NewOtoPlayer()
	if err != nil {
		return nil, fmt.Errorf("failed to start audio: %w", err)
	}
	return player, nil
}

func runHeadless(c *cli.Context, emu *chip8.Chip8, romPath string) error {
	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("headless mode requires --frames option with a positive value")
	}

	var snapshotConfig headless.SnapshotConfig
	if interval := c.Int("snapshot-interval"); interval > 0 {
		var err error
		snapshotConfig, err = headless.CreateSnapshotConfig(interval, c.String("snapshot-dir"), romPath)
		if err != nil {
			return err
		}
	}

	b := headless.New(frames, snapshotConfig)
	return run(emu, b, backend.BackendConfig{Title: "chip8"}, chip8.RunnerConfig{
		Limiter:   timing.NewNoOpLimiter(),
		FixedStep: true,
	})
}

func runInteractive(c *cli.Context, emu *chip8.Chip8) error {
	var b backend.Backend
	switch name := c.String("backend"); name {
	case "terminal":
		b = terminal.New()
	case "sdl2":
		b = sdl2.New()
	default:
		return fmt.Errorf("unknown backend %q, expected terminal or sdl2", name)
	}

	var limiter timing.Limiter
	switch name := c.String("limiter"); name {
	case "ticker":
		ticker := timing.NewTickerLimiter()
		defer ticker.Stop()
		limiter = ticker
	case "adaptive":
		limiter = timing.NewAdaptiveLimiter()
	default:
		return fmt.Errorf("unknown limiter %q, expected ticker or adaptive", name)
	}

	config := backend.BackendConfig{
		Title:         "chip8",
		Scale:         c.Int("scale"),
		ShowDebug:     c.Bool("debug"),
		DebugProvider: emu,
	}
	return run(emu, b, config, chip8.RunnerConfig{Limiter: limiter})
}

func run(emu *chip8.Chip8, b backend.Backend, config backend.BackendConfig, runnerConfig chip8.RunnerConfig) error {
	if err := b.Init(config); err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Error("Failed to clean up backend", "error", err)
		}
	}()

	return chip8.NewRunner(emu, b, runnerConfig).Run()
}
