package disasm

import (
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/cpu"
)

// InstructionSize is the width of every CHIP-8 instruction, in bytes.
const InstructionSize = 2

// Reader is the read side of the memory bus.
type Reader interface {
	Read(address uint16) uint8
}

// DisassemblyLine represents a single disassembled instruction
type DisassemblyLine struct {
	Address     uint16
	Opcode      uint16
	Instruction string
}

// Disassemble returns the mnemonic for a single instruction word. Words that
// don't decode to a known instruction are rendered as raw data.
func Disassemble(word uint16) string {
	in := cpu.Decode(word)

	switch in.Op {
	case 0x0:
		switch word {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
		return fmt.Sprintf("SYS 0x%03X", in.NNN)
	case 0x1:
		return fmt.Sprintf("JP 0x%03X", in.NNN)
	case 0x2:
		return fmt.Sprintf("CALL 0x%03X", in.NNN)
	case 0x3:
		return fmt.Sprintf("SE V%X, 0x%02X", in.X, in.NN)
	case 0x4:
		return fmt.Sprintf("SNE V%X, 0x%02X", in.X, in.NN)
	case 0x5:
		return fmt.Sprintf("SE V%X, V%X", in.X, in.Y)
	case 0x6:
		return fmt.Sprintf("LD V%X, 0x%02X", in.X, in.NN)
	case 0x7:
		return fmt.Sprintf("ADD V%X, 0x%02X", in.X, in.NN)
	case 0x8:
		if mnemonic, ok := aluMnemonics[in.N]; ok {
			return fmt.Sprintf("%s V%X, V%X", mnemonic, in.X, in.Y)
		}
	case 0x9:
		return fmt.Sprintf("SNE V%X, V%X", in.X, in.Y)
	case 0xA:
		return fmt.Sprintf("LD I, 0x%03X", in.NNN)
	case 0xB:
		return fmt.Sprintf("JP V0, 0x%03X", in.NNN)
	case 0xC:
		return fmt.Sprintf("RND V%X, 0x%02X", in.X, in.NN)
	case 0xD:
		return fmt.Sprintf("DRW V%X, V%X, %d", in.X, in.Y, in.N)
	case 0xE:
		switch in.NN {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", in.X)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", in.X)
		}
	case 0xF:
		if template, ok := miscTemplates[in.NN]; ok {
			return fmt.Sprintf(template, in.X)
		}
	}

	return fmt.Sprintf("DW 0x%04X", word)
}

var aluMnemonics = map[uint8]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
	0xE: "SHL",
}

var miscTemplates = map[uint8]string{
	0x07: "LD V%X, DT",
	0x0A: "LD V%X, K",
	0x15: "LD DT, V%X",
	0x18: "LD ST, V%X",
	0x1E: "ADD I, V%X",
	0x29: "LD F, V%X",
	0x33: "LD B, V%X",
	0x55: "LD [I], V%X",
	0x65: "LD V%X, [I]",
}

// DisassembleAt disassembles the instruction at the given program counter
func DisassembleAt(pc uint16, mem Reader) DisassemblyLine {
	word := bit.Combine(mem.Read(pc), mem.Read(pc+1))
	return DisassemblyLine{
		Address:     pc,
		Opcode:      word,
		Instruction: Disassemble(word),
	}
}

// DisassembleBytes disassembles the instruction at offset within data. A
// trailing odd byte is rendered as data.
func DisassembleBytes(data []byte, offset int) (string, int) {
	if offset < 0 || offset >= len(data) {
		return "??", 1
	}
	if offset+1 >= len(data) {
		return fmt.Sprintf("DB 0x%02X", data[offset]), 1
	}
	return Disassemble(bit.Combine(data[offset], data[offset+1])), InstructionSize
}

// DisassembleRange disassembles count instructions starting from the given PC
func DisassembleRange(startPC uint16, count int, mem Reader) []DisassemblyLine {
	lines := make([]DisassemblyLine, 0, count)
	pc := startPC

	for i := 0; i < count; i++ {
		lines = append(lines, DisassembleAt(pc, mem))
		pc += InstructionSize
	}

	return lines
}

// DisassembleAround disassembles instructions before, at, and after the PC.
// Instructions are fixed width, so the window never needs to be searched for.
func DisassembleAround(currentPC uint16, beforeCount, afterCount int, mem Reader) []DisassemblyLine {
	before := beforeCount
	if maxBefore := int(currentPC / InstructionSize); before > maxBefore {
		before = maxBefore
	}

	startPC := currentPC - uint16(before*InstructionSize)
	return DisassembleRange(startPC, before+1+afterCount, mem)
}

// FormatDisassemblyLine formats a disassembly line for display
func FormatDisassemblyLine(line DisassemblyLine, isCurrentPC bool) string {
	prefix := " "
	if isCurrentPC {
		prefix = ">"
	}

	return fmt.Sprintf("%s0x%03X: %04X  %s", prefix, line.Address, line.Opcode, line.Instruction)
}
