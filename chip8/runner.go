package chip8

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
)

// RunnerConfig controls how the frame loop is paced.
type RunnerConfig struct {
	// Limiter paces the loop, nil means no limiting.
	Limiter timing.Limiter
	// FixedStep advances the machine by exactly one frame per loop instead
	// of the measured wall-clock time. Used by headless runs so they are
	// reproducible.
	FixedStep bool
}

// Runner connects a machine to a backend: each frame it collects input,
// applies it, advances the machine and waits for the next frame.
type Runner struct {
	emu     *Chip8
	backend backend.Backend
	handler *input.Handler
	manager *input.Manager
	config  RunnerConfig

	running bool
	now     func() time.Time
	last    time.Time
}

func NewRunner(emu *Chip8, b backend.Backend, config RunnerConfig) *Runner {
	if config.Limiter == nil {
		config.Limiter = timing.NewNoOpLimiter()
	}

	r := &Runner{
		emu:     emu,
		backend: b,
		handler: input.NewHandler(),
		manager: input.NewManager(emu.Keypad()),
		config:  config,
		running: true,
		now:     time.Now,
	}
	r.last = r.now()
	r.registerActions()
	return r
}

func (r *Runner) registerActions() {
	r.manager.On(action.EmulatorQuit, event.Press, func() {
		slog.Info("Quit requested")
		r.running = false
	})

	for _, act := range []action.Action{
		action.EmulatorPauseToggle,
		action.EmulatorStepFrame,
		action.EmulatorStepInstruction,
	} {
		r.manager.On(act, event.Press, func() {
			r.emu.HandleAction(act, true)
			if act == action.EmulatorPauseToggle {
				r.config.Limiter.Reset()
			}
		})
	}

	handler, ok := r.backend.(backend.ActionHandler)
	if !ok {
		return
	}
	for _, act := range []action.Action{
		action.EmulatorSnapshot,
		action.EmulatorDebugToggle,
		action.DebugLogLevelIncrease,
		action.DebugLogLevelDecrease,
	} {
		r.manager.On(act, event.Press, func() { handler.HandleAction(act) })
	}
}

// Run loops until a quit is requested or the backend fails.
func (r *Runner) Run() error {
	r.last = r.now()
	for {
		running, err := r.RunFrame()
		if err != nil {
			return err
		}
		if !running {
			return nil
		}
	}
}

// RunFrame runs a single iteration of the loop and reports whether the loop
// should keep going. A frame that receives a quit is still emulated.
func (r *Runner) RunFrame() (bool, error) {
	r.emu.BeginFrame()

	events, err := r.backend.Update(r.emu.GetCurrentFrame())
	if err != nil {
		return false, fmt.Errorf("backend update failed: %w", err)
	}

	for _, evt := range events {
		if r.handler.ProcessEvent(evt) {
			r.manager.Trigger(evt.Action, evt.Type)
		}
	}

	elapsed := timing.FrameDuration()
	if !r.config.FixedStep {
		now := r.now()
		elapsed = now.Sub(r.last)
		r.last = now
	}

	// faults are logged by the machine, the program keeps running
	_ = r.emu.Advance(elapsed)

	if !r.running {
		return false, nil
	}

	r.config.Limiter.WaitForNextFrame()
	return true, nil
}
