package microcode

import (
	"bytes"
	"testing"

	"github.com/chbenoit/sbb/cpu"
	"github.com/stretchr/testify/assert"
)

func TestGenerate_Deterministic(t *testing.T) {
	assert := assert.New(t)

	a := Generate()
	b := Generate()
	assert.Equal(*a, *b)
}

func TestGenerate_FetchPrefixOnEveryRow(t *testing.T) {
	assert := assert.New(t)

	rom := Generate()
	for family := 0; family < 16; family++ {
		for selector := 0; selector < 16; selector++ {
			for flags := 0; flags < 8; flags++ {
				idx := uint16(family)<<3 | uint16(selector)<<7 | uint16(flags)<<11
				assert.True(rom[idx].Has(cpu.CO), "step0 CO missing at family=%d selector=%d flags=%d", family, selector, flags)
			}
		}
	}
}

func TestWriteReadText_RoundTrips(t *testing.T) {
	assert := assert.New(t)

	rom := Generate()

	var buf bytes.Buffer
	assert.NoError(WriteText(&buf, rom))

	got, err := ReadText(&buf)
	assert.NoError(err)
	assert.Equal(*rom, *got)
}
