package cpu

import "github.com/valerio/go-chip8/chip8/bit"

// Instruction is a decoded 16 bit instruction word. Every field is always
// extracted, handlers pick the ones they need.
type Instruction struct {
	Word uint16
	Op   uint8  // high nibble, the instruction class
	X    uint8  // second nibble, register index
	Y    uint8  // third nibble, register index
	N    uint8  // low nibble
	NN   uint8  // low byte
	NNN  uint16 // low 12 bits, an address
}

// Decode splits an instruction word into its fields.
func Decode(word uint16) Instruction {
	return Instruction{
		Word: word,
		Op:   bit.Nibble(word, 3),
		X:    bit.Nibble(word, 2),
		Y:    bit.Nibble(word, 1),
		N:    bit.Nibble(word, 0),
		NN:   bit.Low(word),
		NNN:  word & 0x0FFF,
	}
}
