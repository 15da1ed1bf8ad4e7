package cpu

import (
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/keypad"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

// Execute runs a decoded instruction. Instructions that don't match any
// known opcode are ignored.
func (c *CPU) Execute(in Instruction) error {
	c.waitingForKey = false

	switch in.Op {
	case 0x0:
		return c.execSystem(in)
	case 0x1:
		// 1NNN: JP addr
		c.setPC(in.NNN)
	case 0x2:
		// 2NNN: CALL addr
		if err := c.pushStack(c.pc); err != nil {
			return err
		}
		c.setPC(in.NNN)
	case 0x3:
		// 3XNN: SE VX, byte
		c.skipIf(c.v[in.X] == in.NN)
	case 0x4:
		// 4XNN: SNE VX, byte
		c.skipIf(c.v[in.X] != in.NN)
	case 0x5:
		// 5XY0: SE VX, VY. The low nibble is not checked.
		c.skipIf(c.v[in.X] == c.v[in.Y])
	case 0x6:
		// 6XNN: LD VX, byte
		c.v[in.X] = in.NN
	case 0x7:
		// 7XNN: ADD VX, byte. Carry is discarded, VF untouched.
		c.v[in.X] += in.NN
	case 0x8:
		c.execALU(in)
	case 0x9:
		// 9XY0: SNE VX, VY
		c.skipIf(c.v[in.X] != c.v[in.Y])
	case 0xA:
		// ANNN: LD I, addr
		c.i = in.NNN
	case 0xB:
		// BNNN: JP V0, addr (legacy) or JP VX, addr
		offset := c.v[0]
		if !c.legacy {
			offset = c.v[in.X]
		}
		c.setPC(in.NNN + uint16(offset))
	case 0xC:
		// CXNN: RND VX, byte
		c.v[in.X] = uint8(c.rng.UintN(256)) & in.NN
	case 0xD:
		c.draw(in)
	case 0xE:
		c.execKeySkip(in)
	case 0xF:
		c.execMisc(in)
	}

	return nil
}

func (c *CPU) execSystem(in Instruction) error {
	switch in.Word {
	case 0x00E0:
		// CLS
		c.display.Clear()
	case 0x00EE:
		// RET
		address, err := c.popStack()
		if err != nil {
			return err
		}
		c.setPC(address)
	}
	return nil
}

// execALU handles the 8XYN register to register operations. Flags are always
// computed from the operands before the operation and VF is written last, so
// an instruction targeting VF ends with the flag in it.
func (c *CPU) execALU(in Instruction) {
	x, y := c.v[in.X], c.v[in.Y]

	switch in.N {
	case 0x0:
		c.v[in.X] = y
	case 0x1:
		c.v[in.X] = x | y
	case 0x2:
		c.v[in.X] = x & y
	case 0x3:
		c.v[in.X] = x ^ y
	case 0x4:
		sum := uint16(x) + uint16(y)
		c.v[in.X] = uint8(sum)
		c.v[flagRegister] = bit.BoolToBit(sum > 0xFF)
	case 0x5:
		c.v[in.X] = x - y
		c.v[flagRegister] = bit.BoolToBit(x >= y)
	case 0x6:
		if c.legacy {
			x = y
		}
		c.v[in.X] = x >> 1
		c.v[flagRegister] = bit.GetBitValue(0, x)
	case 0x7:
		c.v[in.X] = y - x
		c.v[flagRegister] = bit.BoolToBit(y >= x)
	case 0xE:
		if c.legacy {
			x = y
		}
		c.v[in.X] = x << 1
		c.v[flagRegister] = bit.GetBitValue(7, x)
	}
}

// draw handles DXYN. The origin wraps around the screen, the sprite itself
// is clipped at the right and bottom edges.
func (c *CPU) draw(in Instruction) {
	originX := uint(c.v[in.X]) % video.FramebufferWidth
	originY := uint(c.v[in.Y]) % video.FramebufferHeight
	collision := false

	for row := uint(0); row < uint(in.N); row++ {
		y := originY + row
		if y >= video.FramebufferHeight {
			break
		}

		sprite := c.bus.Read(c.i + uint16(row))
		for col := uint(0); col < 8; col++ {
			x := originX + col
			if x >= video.FramebufferWidth {
				break
			}

			if bit.IsSet(uint8(7-col), sprite) && c.display.TogglePixel(x, y) {
				collision = true
			}
		}
	}

	c.v[flagRegister] = bit.BoolToBit(collision)
}

func (c *CPU) execKeySkip(in Instruction) {
	key := keypad.Key(c.v[in.X] & 0x0F)

	switch in.NN {
	case 0x9E:
		// EX9E: SKP VX
		c.skipIf(c.keys.IsHeld(key))
	case 0xA1:
		// EXA1: SKNP VX
		c.skipIf(!c.keys.IsHeld(key))
	}
}

func (c *CPU) execMisc(in Instruction) {
	switch in.NN {
	case 0x07:
		// FX07: LD VX, DT
		c.v[in.X] = c.timers.Delay()
	case 0x0A:
		c.waitKey(in)
	case 0x15:
		// FX15: LD DT, VX
		c.timers.SetDelay(c.v[in.X])
	case 0x18:
		// FX18: LD ST, VX
		c.timers.SetSound(c.v[in.X])
	case 0x1E:
		// FX1E: ADD I, VX. The sum is kept as is, VF flags a result past 0xFFF.
		sum := c.i + uint16(c.v[in.X])
		c.i = sum
		c.v[flagRegister] = bit.BoolToBit(sum > memory.AddressMask)
	case 0x29:
		// FX29: LD F, VX
		c.i = memory.GlyphAddress(c.v[in.X])
	case 0x33:
		// FX33: LD B, VX
		value := c.v[in.X]
		c.bus.Write(c.i, value/100)
		c.bus.Write(c.i+1, (value/10)%10)
		c.bus.Write(c.i+2, value%10)
	case 0x55:
		// FX55: LD [I], VX
		for r := uint8(0); r <= in.X; r++ {
			c.bus.Write(c.i+uint16(r), c.v[r])
		}
		if c.legacy {
			c.i += uint16(in.X) + 1
		}
	case 0x65:
		// FX65: LD VX, [I]
		for r := uint8(0); r <= in.X; r++ {
			c.v[r] = c.bus.Read(c.i + uint16(r))
		}
		if c.legacy {
			c.i += uint16(in.X) + 1
		}
	}
}

// waitKey handles FX0A. With no key released this frame, PC is moved back
// onto the instruction so it is fetched again on the next step.
func (c *CPU) waitKey(in Instruction) {
	if key, ok := c.keys.FirstReleased(); ok {
		c.v[in.X] = uint8(key)
		return
	}

	c.setPC(c.pc - 2)
	c.waitingForKey = true
}
