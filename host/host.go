// Package host wires the asm and cpu packages together into a single
// run loop: assemble a source file, load the image, then tick the
// machine to completion, reporting the diagnostics the command-line
// front end exposes.
package host

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chbenoit/sbb/asm"
	"github.com/chbenoit/sbb/cpu"
	"github.com/chbenoit/sbb/microcode"
	"github.com/chbenoit/sbb/screen"
)

// Tick caps mirror the two run-mode ceilings the original tool used
// for programs that never assert HALT: a generous one for fast mode,
// a much smaller one otherwise so an interactive run doesn't hang.
const (
	FastTickCap   = 1 << 20
	NormalTickCap = 1 << 14
)

// MultResultAddr is where a multiply-heavy program is expected to
// leave its 32-bit little-endian result, by convention rather than
// any CPU-enforced contract.
const MultResultAddr = 0x500

// Host owns one assembled program and the CPU running it.
type Host struct {
	Verbose bool
	Fast    bool

	Cpu    *cpu.Cpu
	Screen *screen.Buffer
	Image  *asm.Image
}

// New builds a Host with the generated control ROM loaded and a
// headless screen buffer attached.
func New() *Host {
	h := &Host{
		Cpu:    cpu.NewCpu(),
		Screen: &screen.Buffer{},
	}
	h.Cpu.Control.Rom = *microcode.Generate()
	h.Cpu.Screen = h.Screen
	return h
}

// Assemble parses r, loads the resulting image into RAM, and resets
// the CPU to run it from address 0.
func (h *Host) Assemble(r io.Reader) error {
	a := &asm.Assembler{Verbose: h.Verbose}
	img, err := a.Assemble(r)
	if err != nil {
		return err
	}
	h.Image = img
	h.Cpu.Reset()
	h.Cpu.Verbose = h.Verbose
	return h.Cpu.Load(img.Ram[:])
}

// Result is what a completed run reports.
type Result struct {
	Ticks   uint64
	Elapsed time.Duration
	Halted  bool
}

// Run ticks the machine until it halts or the applicable tick cap is
// reached - the fast cap if Fast is set, the normal cap otherwise -
// reporting elapsed wall-clock time either way.
func (h *Host) Run() (Result, error) {
	if h.Image == nil {
		return Result{}, ErrNoProgram
	}

	tickCap := uint64(NormalTickCap)
	if h.Fast {
		tickCap = FastTickCap
	}

	start := time.Now()
	n, err := h.Cpu.Run(tickCap)
	elapsed := time.Since(start)
	if err != nil {
		return Result{Ticks: n, Elapsed: elapsed}, err
	}

	return Result{Ticks: n, Elapsed: elapsed, Halted: h.Cpu.Halted}, nil
}

// Step executes a single tick and renders the resulting CPU state,
// the way a manual single-step session echoes state between ticks.
func (h *Host) Step() (string, error) {
	if err := h.Cpu.Tick(); err != nil {
		return "", err
	}
	return h.Cpu.String(), nil
}

// DumpRam renders RAM[lo:hi] (inclusive) as hex bytes, 16 per line.
func (h *Host) DumpRam(lo, hi int) string {
	var b strings.Builder
	for addr := lo; addr <= hi; addr++ {
		if (addr-lo)%16 == 0 {
			if addr != lo {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%03x:", addr)
		}
		fmt.Fprintf(&b, " %02x", h.Cpu.Ram.Mem[addr])
	}
	b.WriteByte('\n')
	return b.String()
}

// DumpTokens renders the assembler's resolved symbol table, including
// any variables it auto-created.
func (h *Host) DumpTokens() string {
	if h.Image == nil {
		return ""
	}
	var b strings.Builder
	for _, tok := range h.Image.Tokens {
		b.WriteString(tok.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// MultResult reads the little-endian 32-bit result a multiply-heavy
// program is conventionally expected to leave at MultResultAddr.
func (h *Host) MultResult() uint32 {
	m := h.Cpu.Ram.Mem
	return uint32(m[MultResultAddr]) |
		uint32(m[MultResultAddr+1])<<8 |
		uint32(m[MultResultAddr+2])<<16 |
		uint32(m[MultResultAddr+3])<<24
}

// ClockRate reports ticks per second for a completed run, for the
// closing "elapsed time and estimated clock rate" report.
func (r Result) ClockRate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Ticks) / r.Elapsed.Seconds()
}
