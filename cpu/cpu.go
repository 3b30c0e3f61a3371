package cpu

import (
	"fmt"
	"log"
)

// Screen is the CPU-facing side of the display: the control unit
// calls Tick on every micro-step, regardless of whether anything is
// actually watching. A null implementation that does nothing must
// satisfy this interface so headless runs pay no extra cost.
type Screen interface {
	// Tick is called once per micro-step with the PI/RF strobes for
	// that step and the byte currently on the bus. pointer is true
	// when PI is asserted (latch value as the next screen pointer),
	// refresh is true when RF is asserted (redraw from memory).
	Tick(pointer, refresh bool, value Byte)
}

// NullScreen discards every Tick; it is the default Screen for
// headless runs.
type NullScreen struct{}

// Tick implements Screen by doing nothing.
func (NullScreen) Tick(pointer, refresh bool, value Byte) {}

// Cpu is the complete SBB machine: every component plus the status
// flags the ALU leaves latched after its most recent evaluation.
type Cpu struct {
	Verbose bool

	Alu      Alu
	Regs     Registers
	Ram      Ram
	Pc       ProgramCounter
	Stack    Stack
	Control  ControlUnit
	Screen   Screen

	Cf, Zf, Sf bool

	Halted bool
	Ticks  uint64
}

// NewCpu builds a Cpu with a null screen; callers that want a real
// display assign cpu.Screen after construction.
func NewCpu() *Cpu {
	return &Cpu{Screen: NullScreen{}}
}

// Reset clears every component back to its power-on state. The
// control ROM itself is left untouched: it is loaded once, not
// reloaded on every reset.
func (cpu *Cpu) Reset() {
	cpu.Regs.Reset()
	cpu.Ram = Ram{}
	cpu.Pc.Reset()
	cpu.Stack.Reset()
	cpu.Control.Step = 0
	cpu.Cf, cpu.Zf, cpu.Sf = false, false, false
	cpu.Halted = false
	cpu.Ticks = 0
	if cpu.Screen == nil {
		cpu.Screen = NullScreen{}
	}
}

// Load copies program into RAM starting at address 0, the layout the
// assembler emits and the machine always boots from.
func (cpu *Cpu) Load(program []Byte) error {
	if len(program) > RamSize {
		return ErrImageOverflow
	}
	copy(cpu.Ram.Mem[:], program)
	return nil
}

// Tick runs a single micro-step: it asks the control unit which
// lines to assert for the current {step, opcode, flags} state, then
// mechanically drives every component according to those lines. No
// branch in this function is specific to any one opcode; all
// opcode-specific behaviour lives in the microcode ROM content.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		return ErrHalted
	}

	word := cpu.Control.StepCU(cpu.Regs.IR, cpu.Cf, cpu.Zf, cpu.Sf)

	if cpu.Verbose {
		log.Printf("pc=%03x ir=%02x step=%d %024b", cpu.Pc.Drive(), cpu.Regs.IR, cpu.Control.Step, uint32(word))
	}

	// The ALU is combinational: it evaluates every step, but its
	// result drives the bus and its flags latch only on steps that
	// select a non-zero ALU op.
	aluResult, aluCf, aluZf, aluSf := cpu.Alu.Do(word.AluSelect(), cpu.Regs.A, cpu.Regs.B)
	if word.AluSelect() != AluNop {
		cpu.Cf, cpu.Zf, cpu.Sf = aluCf, aluZf, aluSf
	}

	// Address bus: CO or IO may drive it; the two are never asserted
	// together by any microcode row.
	var addr Word
	switch {
	case word.Has(CO):
		addr = cpu.Pc.Drive()
	case word.Has(IO):
		addr = cpu.Regs.Operand()
	}

	// Data bus: whichever *O line is set supplies the byte every
	// other *I line on this step latches.
	var bus Byte
	switch {
	case word.Has(AO):
		bus = cpu.Regs.A
	case word.Has(BO):
		bus = cpu.Regs.B
	case word.Has(RO):
		bus = cpu.Ram.Read()
	}
	if word.AluSelect() != AluNop {
		bus = aluResult
	}

	// RAM cycle: write with the current MAR, then read with the
	// current MAR, then load the MAR for the *next* cycle. A write
	// and a read never share a step in this machine's microcode, but
	// the ordering still matters relative to MI.
	if word.Has(RI) {
		cpu.Ram.Write(bus)
	}
	if word.Has(RO) {
		bus = cpu.Ram.Read()
	}
	if word.Has(MI) {
		cpu.Ram.Load(addr)
	}

	// Stack cycle: pop-then-read, or write-then-push. SA selects
	// whether the cell carries the 8-bit bus value or the 12-bit
	// address bus value.
	if word.Has(SO) {
		cell := cpu.Stack.Pop()
		if word.Has(SA) {
			addr = cell
		} else {
			bus = Byte(cell)
		}
	}
	if word.Has(SI) {
		if word.Has(SA) {
			cpu.Stack.Push(addr)
		} else {
			cpu.Stack.Push(Word(bus))
		}
	}

	// Register writes capture whatever is now on the bus.
	if word.Has(AI) {
		cpu.Regs.A = bus
	}
	if word.Has(BI) {
		cpu.Regs.B = bus
	}
	if word.Has(II) {
		cpu.Regs.IR = bus
	}
	if word.Has(XI) {
		cpu.Regs.IR2 = bus
	}
	if word.Has(OI) {
		cpu.Regs.Out = bus
	}

	// Program counter write-back: JP and CE are never asserted on
	// the same step by any microcode row.
	if word.Has(JP) {
		cpu.Pc.Jump(addr)
	}
	if word.Has(CE) {
		cpu.Pc.Inc()
	}

	cpu.Screen.Tick(word.Has(PI), word.Has(RF), bus)

	cpu.Ticks++

	if word.Has(HT) {
		cpu.Halted = true
	}

	return nil
}

// Run ticks the machine until it halts, an error occurs, or maxTicks
// is reached (0 means unbounded). It returns the number of ticks
// actually executed.
func (cpu *Cpu) Run(maxTicks uint64) (uint64, error) {
	var n uint64
	for maxTicks == 0 || n < maxTicks {
		if err := cpu.Tick(); err != nil {
			if err == ErrHalted {
				return n, nil
			}
			return n, err
		}
		n++
	}
	return n, nil
}

// String renders the register file and flags for trace output.
func (cpu *Cpu) String() string {
	return fmt.Sprintf(
		"pc=%03x a=%02x b=%02x ir=%02x ir2=%02x out=%02x sp=%02x cf=%v zf=%v sf=%v",
		cpu.Pc.Drive(), cpu.Regs.A, cpu.Regs.B, cpu.Regs.IR, cpu.Regs.IR2, cpu.Regs.Out,
		cpu.Stack.Sp, cpu.Cf, cpu.Zf, cpu.Sf,
	)
}
