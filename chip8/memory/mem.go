package memory

import (
	"errors"
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
)

const (
	// Size is the amount of addressable memory, in bytes.
	Size = 4096
	// AddressMask truncates any address to the 12 bit address space.
	AddressMask = Size - 1
	// FontBase is where the hex digit sprites are installed.
	FontBase uint16 = 0x050
	// ProgramBase is where ROMs are loaded and execution starts.
	ProgramBase uint16 = 0x200
	// MaxROMSize is the largest ROM that fits between ProgramBase and the end of memory.
	MaxROMSize = Size - int(ProgramBase)
)

var (
	// ErrROMTooLarge is returned when a ROM does not fit above ProgramBase.
	ErrROMTooLarge = errors.New("rom too large")
	// ErrROMEmpty is returned when a ROM contains no bytes.
	ErrROMEmpty = errors.New("rom is empty")
)

// Memory is the flat 4KB address space of the machine.
// Every access wraps around at 4KB, there is no way to read or write out of bounds.
type Memory struct {
	data    [Size]byte
	romSize int
}

// New returns zeroed memory with the font already installed.
func New() *Memory {
	m := &Memory{}
	m.LoadFont()
	return m
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) byte {
	return m.data[address&AddressMask]
}

// Write stores a byte at the given address.
func (m *Memory) Write(address uint16, value byte) {
	m.data[address&AddressMask] = value
}

// ReadWord reads two consecutive bytes, big endian.
func (m *Memory) ReadWord(address uint16) uint16 {
	return bit.Combine(m.Read(address), m.Read(address+1))
}

// LoadFont copies the built-in font sprites to FontBase.
func (m *Memory) LoadFont() {
	copy(m.data[FontBase:], Font[:])
}

// LoadROM copies rom to ProgramBase. Oversized ROMs are rejected rather than truncated.
func (m *Memory) LoadROM(rom []byte) error {
	if len(rom) == 0 {
		return ErrROMEmpty
	}
	if len(rom) > MaxROMSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrROMTooLarge, len(rom), MaxROMSize)
	}

	copy(m.data[ProgramBase:], rom)
	m.romSize = len(rom)
	return nil
}

// ROMSize returns the size in bytes of the last loaded ROM.
func (m *Memory) ROMSize() int {
	return m.romSize
}

// Snapshot copies up to size bytes starting at start, stopping at the end of memory.
func (m *Memory) Snapshot(start uint16, size int) []byte {
	start &= AddressMask
	end := int(start) + size
	if end > Size {
		end = Size
	}

	out := make([]byte, end-int(start))
	copy(out, m.data[start:end])
	return out
}
