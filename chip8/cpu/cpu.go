package cpu

import (
	"math/rand/v2"

	"github.com/valerio/go-chip8/chip8/keypad"
	"github.com/valerio/go-chip8/chip8/memory"
)

const (
	// RegisterCount is the number of general purpose registers, V0 to VF.
	RegisterCount = 16
	// StackDepth is the number of return addresses the call stack can hold.
	StackDepth = 16

	flagRegister = 0xF
	pcMask       = memory.AddressMask
)

// Bus is the memory the CPU fetches from and operates on.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// Display is the frame buffer as seen by the clear and draw opcodes.
type Display interface {
	Clear()
	TogglePixel(x, y uint) (erased bool)
}

// Keys is the input latch as seen by the key skip and key wait opcodes.
type Keys interface {
	IsHeld(key keypad.Key) bool
	FirstReleased() (keypad.Key, bool)
}

// Timers are the delay and sound registers. The CPU never decrements them.
type Timers interface {
	Delay() uint8
	SetDelay(value uint8)
	SetSound(value uint8)
}

// Options configures behaviour that is fixed for the lifetime of a CPU.
type Options struct {
	// Legacy selects COSMAC VIP semantics for 8XY6, 8XYE, BNNN, FX55 and FX65.
	Legacy bool
	// Seed makes CXNN deterministic. Zero picks a random seed.
	Seed uint64
}

// CPU holds the register file and call stack, and executes instructions
// against its collaborators.
type CPU struct {
	v     [RegisterCount]uint8
	i     uint16
	pc    uint16
	sp    uint8
	stack [StackDepth]uint16

	legacy bool
	rng    *rand.Rand

	// metadata
	currentOpcode uint16
	instructions  uint64
	waitingForKey bool

	bus     Bus
	display Display
	keys    Keys
	timers  Timers
}

// New returns a CPU ready to execute from memory.ProgramBase.
func New(bus Bus, display Display, keys Keys, timers Timers, opts Options) *CPU {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	cpu := &CPU{
		legacy:  opts.Legacy,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
		bus:     bus,
		display: display,
		keys:    keys,
		timers:  timers,
	}
	cpu.Reset()

	return cpu
}

// Reset zeroes the register file, empties the stack and points PC at the program.
func (c *CPU) Reset() {
	c.v = [RegisterCount]uint8{}
	c.i = 0
	c.pc = memory.ProgramBase
	c.sp = StackDepth
	c.stack = [StackDepth]uint16{}
	c.currentOpcode = 0
	c.instructions = 0
	c.waitingForKey = false
}

// Fetch reads the instruction word at PC and advances PC by 2.
func (c *CPU) Fetch() uint16 {
	high := c.bus.Read(c.pc)
	low := c.bus.Read(c.pc + 1)
	c.setPC(c.pc + 2)

	return uint16(high)<<8 | uint16(low)
}

// Step fetches and executes a single instruction. The only errors returned are
// stack overflow and underflow, in which case the instruction had no effect.
func (c *CPU) Step() error {
	word := c.Fetch()
	c.currentOpcode = word
	c.instructions++

	return c.Execute(Decode(word))
}

func (c *CPU) setPC(address uint16) {
	c.pc = address & pcMask
}

func (c *CPU) skipNext() {
	c.setPC(c.pc + 2)
}

func (c *CPU) skipIf(condition bool) {
	if condition {
		c.skipNext()
	}
}

// Debug getter methods for register display
func (c *CPU) V(index uint8) uint8   { return c.v[index&0x0F] }
func (c *CPU) I() uint16             { return c.i }
func (c *CPU) PC() uint16            { return c.pc }
func (c *CPU) SP() uint8             { return c.sp }
func (c *CPU) Legacy() bool          { return c.legacy }
func (c *CPU) CurrentOpcode() uint16 { return c.currentOpcode }
func (c *CPU) Instructions() uint64  { return c.instructions }
func (c *CPU) WaitingForKey() bool   { return c.waitingForKey }

// Registers returns a copy of V0 to VF.
func (c *CPU) Registers() [RegisterCount]uint8 {
	return c.v
}

// Stack returns the return addresses currently on the stack, innermost first.
func (c *CPU) Stack() []uint16 {
	out := make([]uint16, 0, StackDepth-int(c.sp))
	for i := int(c.sp); i < StackDepth; i++ {
		out = append(out, c.stack[i])
	}
	return out
}
