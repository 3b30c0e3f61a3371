// Package screen implements the host side of the CPU's PI/RF-driven
// display strobes: a 32x8 character window the control unit can pour
// bytes into one cell at a time without knowing anything about how -
// or whether - those bytes ever reach a terminal.
package screen

import (
	"fmt"
	"io"

	"github.com/chbenoit/sbb/cpu"
)

const (
	Cols = 32
	Rows = 8
	Size = Cols * Rows
)

// Buffer is a headless Screen: it keeps the 32x8 grid the CPU writes
// to in memory, with no rendering, so it can be inspected directly by
// tests or a host's diagnostic dump.
type Buffer struct {
	Cells   [Size]cpu.Byte
	Pointer int
}

var _ cpu.Screen = (*Buffer)(nil)

// Tick implements cpu.Screen. A PI strobe latches value as the next
// cell index (masked into range); an RF strobe writes value at the
// current pointer and advances it by one, matching a hardware cursor
// that auto-increments on every refreshed cell.
func (b *Buffer) Tick(pointer, refresh bool, value cpu.Byte) {
	if pointer {
		b.Pointer = int(value) % Size
	}
	if refresh {
		b.Cells[b.Pointer] = value
		b.Pointer = (b.Pointer + 1) % Size
	}
}

// String renders the grid as Rows lines of Cols characters, with
// non-printable bytes shown as '.'.
func (b *Buffer) String() string {
	out := make([]byte, 0, Size+Rows)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			c := b.Cells[row*Cols+col]
			if c < 0x20 || c > 0x7e {
				c = '.'
			}
			out = append(out, c)
		}
		out = append(out, '\n')
	}
	return string(out)
}

// Terminal wraps an io.Writer and redraws the full grid to it every
// time a complete pass of the cursor wraps back to zero, the way a
// real display only needs repainting once a frame is fully written.
type Terminal struct {
	Buffer
	Output io.Writer
}

var _ cpu.Screen = (*Terminal)(nil)

func (t *Terminal) Tick(pointer, refresh bool, value cpu.Byte) {
	before := t.Pointer
	t.Buffer.Tick(pointer, refresh, value)
	if refresh && t.Pointer == 0 && before == Size-1 {
		fmt.Fprint(t.Output, t.Buffer.String())
	}
}
