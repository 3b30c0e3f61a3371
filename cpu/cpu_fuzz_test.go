package cpu_test

import (
	"testing"

	"github.com/chbenoit/sbb/cpu"
	"github.com/chbenoit/sbb/microcode"
)

// FuzzCpu feeds arbitrary byte soup into RAM and runs the machine for
// a bounded number of ticks. There is no well-formedness requirement
// on a RAM image - any byte is a valid opcode - so the only invariant
// under fuzzing is that Tick never panics and always terminates via
// either HALT or the tick cap.
func FuzzCpu(f *testing.F) {
	f.Add([]byte{0xff})
	f.Add([]byte{0xe0, 0x2a, 0xf1, 0xff})
	f.Add([]byte{0x50, 0x00})
	f.Add([]byte{0xea})

	rom := microcode.Generate()

	f.Fuzz(func(t *testing.T, program []byte) {
		if len(program) > cpu.RamSize {
			program = program[:cpu.RamSize]
		}

		c := cpu.NewCpu()
		c.Control.Rom = *rom
		c.Reset()

		if err := c.Load(program); err != nil {
			t.Fatalf("load: %v", err)
		}

		if _, err := c.Run(10_000); err != nil && err != cpu.ErrHalted {
			t.Fatalf("unexpected run error: %v", err)
		}
	})
}
