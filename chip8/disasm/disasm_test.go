package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chip8/chip8/memory"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		word uint16
		want string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x0123, "SYS 0x123"},
		{0x1200, "JP 0x200"},
		{0x2ABC, "CALL 0xABC"},
		{0x3A42, "SE VA, 0x42"},
		{0x4B00, "SNE VB, 0x00"},
		{0x5120, "SE V1, V2"},
		{0x6F0F, "LD VF, 0x0F"},
		{0x7105, "ADD V1, 0x05"},
		{0x8120, "LD V1, V2"},
		{0x8121, "OR V1, V2"},
		{0x8122, "AND V1, V2"},
		{0x8123, "XOR V1, V2"},
		{0x8124, "ADD V1, V2"},
		{0x8125, "SUB V1, V2"},
		{0x8126, "SHR V1, V2"},
		{0x8127, "SUBN V1, V2"},
		{0x812E, "SHL V1, V2"},
		{0x8128, "DW 0x8128"},
		{0x9340, "SNE V3, V4"},
		{0xA250, "LD I, 0x250"},
		{0xB300, "JP V0, 0x300"},
		{0xC7FF, "RND V7, 0xFF"},
		{0xD125, "DRW V1, V2, 5"},
		{0xE39E, "SKP V3"},
		{0xE3A1, "SKNP V3"},
		{0xE3FF, "DW 0xE3FF"},
		{0xF207, "LD V2, DT"},
		{0xF20A, "LD V2, K"},
		{0xF215, "LD DT, V2"},
		{0xF218, "LD ST, V2"},
		{0xF21E, "ADD I, V2"},
		{0xF229, "LD F, V2"},
		{0xF233, "LD B, V2"},
		{0xF255, "LD [I], V2"},
		{0xF265, "LD V2, [I]"},
		{0xF2FF, "DW 0xF2FF"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Disassemble(tt.word), "word 0x%04X", tt.word)
	}
}

func TestDisassembleAt(t *testing.T) {
	mem := memory.New()
	mem.Write(0x200, 0xA0)
	mem.Write(0x201, 0x50)

	line := DisassembleAt(0x200, mem)

	assert.Equal(t, uint16(0x200), line.Address)
	assert.Equal(t, uint16(0xA050), line.Opcode)
	assert.Equal(t, "LD I, 0x050", line.Instruction)
	assert.Equal(t, ">0x200: A050  LD I, 0x050", FormatDisassemblyLine(line, true))
}

func TestDisassembleBytes(t *testing.T) {
	data := []byte{0x00, 0xE0, 0x12}

	text, size := DisassembleBytes(data, 0)
	assert.Equal(t, "CLS", text)
	assert.Equal(t, InstructionSize, size)

	text, size = DisassembleBytes(data, 2)
	assert.Equal(t, "DB 0x12", text)
	assert.Equal(t, 1, size)
}

func TestDisassembleAround(t *testing.T) {
	mem := memory.New()

	lines := DisassembleAround(0x204, 3, 2, mem)
	assert.Len(t, lines, 6)
	assert.Equal(t, uint16(0x1FE), lines[0].Address)
	assert.Equal(t, uint16(0x204), lines[3].Address)

	lines = DisassembleAround(0x002, 5, 1, mem)
	assert.Equal(t, uint16(0x000), lines[0].Address, "window is clamped at address zero")
	assert.Len(t, lines, 3)
}
