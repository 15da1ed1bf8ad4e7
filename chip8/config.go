package chip8

import (
	"errors"
	"fmt"
)

// DefaultInstructionsPerSecond is a speed most ROMs written for the COSMAC VIP
// and later interpreters play well at.
const DefaultInstructionsPerSecond = 700

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the options fixed before the first instruction runs.
type Config struct {
	// Legacy selects COSMAC VIP behaviour for the shift, jump with offset and
	// bulk load/store instructions.
	Legacy bool
	// InstructionsPerSecond is the CPU speed.
	InstructionsPerSecond int
	// Seed makes the random number instruction reproducible. Zero picks a
	// random seed.
	Seed uint64
}

func DefaultConfig() Config {
	return Config{
		InstructionsPerSecond: DefaultInstructionsPerSecond,
	}
}

func (c Config) Validate() error {
	if c.InstructionsPerSecond <= 0 {
		return fmt.Errorf("%w: instructions per second must be positive, got %d", ErrInvalidConfig, c.InstructionsPerSecond)
	}
	return nil
}
