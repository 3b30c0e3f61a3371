package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x123)
	assert.Equal(Byte(1), s.Sp)
	assert.Equal(Word(0x123), s.Cell[0])
}

func TestStack_Push_MasksToTwelveBits(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(Word(0xfabc))
	assert.Equal(Word(0xabc), s.Cell[0])
}

func TestStack_PushPop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x111)
	s.Push(0x222)

	assert.Equal(Word(0x222), s.Pop())
	assert.Equal(Word(0x111), s.Pop())
	assert.Equal(Byte(0), s.Sp)
}

func TestStack_SpWrapsOnOverflow(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	for i := 0; i < StackDepth; i++ {
		s.Push(Word(i))
	}
	assert.Equal(Byte(0), s.Sp)

	s.Push(0xfff)
	assert.Equal(Word(0xfff), s.Cell[0])
	assert.Equal(Byte(1), s.Sp)
}

func TestStack_PopWrapsOnUnderflow(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Cell[StackDepth-1] = 0x42
	got := s.Pop()
	assert.Equal(Word(0x42), got)
	assert.Equal(Byte(StackDepth-1), s.Sp)
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x123)
	s.Reset()
	assert.Equal(Byte(0), s.Sp)
}
