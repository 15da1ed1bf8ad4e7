package debug

import (
	"github.com/valerio/go-chip8/chip8/disasm"
)

type DisasmLine struct {
	Address     uint16
	Instruction string
	IsCurrent   bool
}

// DisasmBuffer holds pre-allocated buffers for disassembly lines
type DisasmBuffer struct {
	Lines []DisasmLine
}

func NewDisasmBuffer(maxLines int) *DisasmBuffer {
	return &DisasmBuffer{
		Lines: make([]DisasmLine, 0, maxLines),
	}
}

func CreateDisassembly(snapshot *MemorySnapshot, pc uint16, maxLines int) []DisasmLine {
	buf := NewDisasmBuffer(maxLines)
	return CreateDisassemblyWithBuffer(snapshot, pc, maxLines, buf)
}

// CreateDisassemblyWithBuffer returns up to maxLines instructions centered on
// pc. Decoding is aligned to pc so the current instruction is always decoded
// from its first byte, even when PC sits on an odd address.
func CreateDisassemblyWithBuffer(snapshot *MemorySnapshot, pc uint16, maxLines int, buf *DisasmBuffer) []DisasmLine {
	buf.Lines = buf.Lines[:0]
	if snapshot == nil || maxLines <= 0 {
		return buf.Lines
	}

	end := int(snapshot.StartAddr) + len(snapshot.Bytes)
	pcInSnapshot := int(pc) >= int(snapshot.StartAddr) && int(pc) < end

	if !pcInSnapshot {
		for i := 0; i < len(snapshot.Bytes) && len(buf.Lines) < maxLines-1; {
			instruction, length := disasm.DisassembleBytes(snapshot.Bytes, i)
			buf.Lines = append(buf.Lines, DisasmLine{
				Address:     snapshot.StartAddr + uint16(i),
				Instruction: instruction,
			})
			i += length
		}
		buf.Lines = append(buf.Lines, DisasmLine{
			Address:     pc,
			Instruction: "[PC outside snapshot range]",
			IsCurrent:   true,
		})
		return buf.Lines
	}

	pcOffset := int(pc - snapshot.StartAddr)
	before := maxLines / 2
	if maxBefore := pcOffset / disasm.InstructionSize; before > maxBefore {
		before = maxBefore
	}

	for i := pcOffset - before*disasm.InstructionSize; i < len(snapshot.Bytes) && len(buf.Lines) < maxLines; {
		addr := snapshot.StartAddr + uint16(i)
		instruction, length := disasm.DisassembleBytes(snapshot.Bytes, i)
		buf.Lines = append(buf.Lines, DisasmLine{
			Address:     addr,
			Instruction: instruction,
			IsCurrent:   addr == pc,
		})
		i += length
	}

	return buf.Lines
}
