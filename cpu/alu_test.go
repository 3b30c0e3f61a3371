package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlu_Add(t *testing.T) {
	assert := assert.New(t)

	alu := Alu{}
	result, cf, zf, sf := alu.Do(AluAdd, 0xff, 0x02)
	assert.Equal(Byte(0x01), result)
	assert.True(cf)
	assert.False(zf)
	assert.False(sf)
}

func TestAlu_Sub_Borrow(t *testing.T) {
	assert := assert.New(t)

	alu := Alu{}
	result, cf, _, sf := alu.Do(AluSub, 0x01, 0x02)
	assert.Equal(Byte(0xff), result)
	assert.False(cf)
	assert.True(sf)
}

func TestAlu_Dec_CarryOnWrap(t *testing.T) {
	assert := assert.New(t)

	alu := Alu{}
	result, cf, zf, _ := alu.Do(AluDec, 0x00, 0)
	assert.Equal(Byte(0xff), result)
	assert.True(cf)
	assert.False(zf)
}

func TestAlu_Inc_ZeroFlagOnWrap(t *testing.T) {
	assert := assert.New(t)

	alu := Alu{}
	result, cf, zf, _ := alu.Do(AluInc, 0xff, 0)
	assert.Equal(Byte(0x00), result)
	assert.True(cf)
	assert.True(zf)
}

func TestAlu_Nop_NeverUpdatesFlags(t *testing.T) {
	assert := assert.New(t)

	alu := Alu{}
	_, cf, zf, sf := alu.Do(AluNop, 0xff, 0xff)
	assert.False(cf)
	assert.False(zf)
	assert.False(sf)
}

func TestAlu_MulLowHigh(t *testing.T) {
	assert := assert.New(t)

	alu := Alu{}
	lo, _, _, _ := alu.Do(AluMulL, 0x10, 0x10)
	hi, _, _, _ := alu.Do(AluMulH, 0x10, 0x10)
	assert.Equal(Byte(0x00), lo)
	assert.Equal(Byte(0x01), hi)
}

func TestAlu_Lshift_CarryOnBitSeven(t *testing.T) {
	assert := assert.New(t)

	alu := Alu{}
	result, cf, _, _ := alu.Do(AluLsh, 0x80, 0)
	assert.Equal(Byte(0x00), result)
	assert.True(cf)
}
