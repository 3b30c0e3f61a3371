package host_test

import (
	"strings"
	"testing"

	"github.com/chbenoit/sbb/host"
	"github.com/stretchr/testify/assert"
)

func TestHost_AssembleAndRun(t *testing.T) {
	assert := assert.New(t)

	h := host.New()
	assert.NoError(h.Assemble(strings.NewReader("start:\nldi 42\nout\nhalt\n")))

	result, err := h.Run()
	assert.NoError(err)
	assert.True(result.Halted)
	assert.Equal(byte(42), h.Cpu.Regs.Out)
}

func TestHost_RunWithoutProgramErrors(t *testing.T) {
	assert := assert.New(t)

	h := host.New()
	_, err := h.Run()
	assert.ErrorIs(err, host.ErrNoProgram)
}

func TestHost_DumpRam(t *testing.T) {
	assert := assert.New(t)

	h := host.New()
	assert.NoError(h.Assemble(strings.NewReader("start:\nldi 7\nhalt\n")))
	_, err := h.Run()
	assert.NoError(err)

	dump := h.DumpRam(0, 3)
	assert.Contains(dump, "000:")
}

func TestHost_DumpTokens(t *testing.T) {
	assert := assert.New(t)

	h := host.New()
	assert.NoError(h.Assemble(strings.NewReader("x = 5\nstart:\nlda x\nhalt\n")))
	assert.Contains(h.DumpTokens(), "x@")
}

func TestHost_MultResult(t *testing.T) {
	assert := assert.New(t)

	h := host.New()
	assert.NoError(h.Assemble(strings.NewReader(
		"start:\nldi 1\nsta $500\nhalt\n")))
	_, err := h.Run()
	assert.NoError(err)
	assert.Equal(uint32(1), h.MultResult())
}
