package cpu_test

import (
	"testing"

	"github.com/chbenoit/sbb/cpu"
	"github.com/chbenoit/sbb/microcode"
	"github.com/stretchr/testify/assert"
)

func newCpu(t *testing.T) *cpu.Cpu {
	t.Helper()
	c := cpu.NewCpu()
	c.Control.Rom = *microcode.Generate()
	c.Reset()
	return c
}

func TestCpu_LdiOut(t *testing.T) {
	assert := assert.New(t)

	c := newCpu(t)
	assert.NoError(c.Load([]cpu.Byte{
		byte(cpu.LDI), 0x2a,
		byte(cpu.OUT),
		byte(cpu.HALT),
	}))

	_, err := c.Run(0)
	assert.NoError(err)
	assert.True(c.Halted)
	assert.Equal(cpu.Byte(0x2a), c.Regs.Out)
}

func TestCpu_AddImmediate(t *testing.T) {
	assert := assert.New(t)

	c := newCpu(t)
	assert.NoError(c.Load([]cpu.Byte{
		byte(cpu.LDI), 0x05,
		byte(cpu.ADDI), 0x03,
		byte(cpu.OUT),
		byte(cpu.HALT),
	}))

	_, err := c.Run(0)
	assert.NoError(err)
	assert.Equal(cpu.Byte(8), c.Regs.Out)
}

func TestCpu_AddressedLoadStore(t *testing.T) {
	assert := assert.New(t)

	c := newCpu(t)
	// Address layout: LDA/STA low nibble carries the operand's high
	// 4 bits; the target here (0x050) fits in the low byte alone.
	assert.NoError(c.Load([]cpu.Byte{
		byte(cpu.LDI), 0x99,
		byte(cpu.STA), 0x50,
		byte(cpu.LDI), 0x00,
		byte(cpu.LDA), 0x50,
		byte(cpu.OUT),
		byte(cpu.HALT),
	}))

	_, err := c.Run(0)
	assert.NoError(err)
	assert.Equal(cpu.Byte(0x99), c.Regs.Out)
	assert.Equal(cpu.Byte(0x99), c.Ram.Mem[0x50])
}

func TestCpu_JsrRet(t *testing.T) {
	assert := assert.New(t)

	c := newCpu(t)
	assert.NoError(c.Load([]cpu.Byte{
		// 0: jsr 6
		byte(cpu.JSR), 0x06,
		// 2: ldi 0x11 ; out ; halt
		byte(cpu.LDI), 0x11,
		byte(cpu.OUT),
		byte(cpu.HALT),
		// 6: ldi 0x22 ; ret
		byte(cpu.LDI), 0x22,
		byte(cpu.RET),
	}))

	_, err := c.Run(0)
	assert.NoError(err)
	assert.Equal(cpu.Byte(0x11), c.Regs.Out)
	assert.Equal(cpu.Byte(0x11), c.Regs.A)
}

func TestCpu_IncDecFlags(t *testing.T) {
	assert := assert.New(t)

	c := newCpu(t)
	assert.NoError(c.Load([]cpu.Byte{
		byte(cpu.LDI), 0x01,
		byte(cpu.DEC),
		byte(cpu.DEC),
		byte(cpu.OUT),
		byte(cpu.HALT),
	}))

	_, err := c.Run(0)
	assert.NoError(err)
	assert.Equal(cpu.Byte(0xff), c.Regs.Out)
	assert.True(c.Sf)
}

func TestCpu_RunStopsAtMaxTicks(t *testing.T) {
	assert := assert.New(t)

	c := newCpu(t)
	assert.NoError(c.Load([]cpu.Byte{
		byte(cpu.LDI), 0x01,
		byte(cpu.JMP), 0x02,
	}))

	n, err := c.Run(20)
	assert.NoError(err)
	assert.Equal(uint64(20), n)
	assert.False(c.Halted)
}

func TestCpu_TickAfterHaltErrors(t *testing.T) {
	assert := assert.New(t)

	c := newCpu(t)
	assert.NoError(c.Load([]cpu.Byte{byte(cpu.HALT)}))

	_, err := c.Run(0)
	assert.NoError(err)

	err = c.Tick()
	assert.ErrorIs(err, cpu.ErrHalted)
}
