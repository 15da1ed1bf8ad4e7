package cpu

import (
	"errors"
	"fmt"
)

var (
	// ErrStackOverflow is returned by a call with all stack slots in use.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned by a return with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
)

// pushStack stores a return address. The stack pointer counts down from
// StackDepth, zero means full.
func (c *CPU) pushStack(address uint16) error {
	if c.sp == 0 {
		return fmt.Errorf("%w: cannot push 0x%03X", ErrStackOverflow, address)
	}

	c.sp--
	c.stack[c.sp] = address
	return nil
}

func (c *CPU) popStack() (uint16, error) {
	if c.sp == StackDepth {
		return 0, ErrStackUnderflow
	}

	address := c.stack[c.sp]
	c.sp++
	return address, nil
}
