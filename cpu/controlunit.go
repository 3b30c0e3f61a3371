package cpu

// RomSize is the width of the microcode ROM: 3 step bits, 4 bits of
// opcode family selector, 4 bits of address-high/immediate-selector,
// and 3 flag bits.
const RomSize = 1 << 14

// ControlUnit sequences one opcode's execution by walking the microcode
// ROM. It holds no opcode-specific logic itself; every instruction's
// behaviour lives entirely in the ROM contents produced by the
// microcode package.
type ControlUnit struct {
	Rom  [RomSize]ControlWord
	Step uint8 // 3-bit micro-step counter
}

// romIndex computes the ROM address for the current micro-step, given
// the instruction register and the status flags, per the {step,
// opcode family, addr-high4, flags} index layout.
func romIndex(step uint8, ir Byte, cf, zf, sf bool) uint16 {
	family := uint16(ir>>4) & 0xf  // opcode family selector (row index)
	selector := uint16(ir) & 0xf   // addr-high4, or immediate/nullary sub-op
	idx := uint16(step&0x7) | family<<3 | selector<<7
	if cf {
		idx |= 1 << 11
	}
	if zf {
		idx |= 1 << 12
	}
	if sf {
		idx |= 1 << 13
	}
	return idx
}

// StepCU reads the ROM entry for the current micro-step and advances
// (or resets) the step counter. A zero ROM entry is the end-of-
// instruction terminator: it resets the step counter to 0 and yields an
// all-clear control word rather than the stored (necessarily zero) one.
func (cu *ControlUnit) StepCU(ir Byte, cf, zf, sf bool) ControlWord {
	idx := romIndex(cu.Step, ir, cf, zf, sf)
	word := cu.Rom[idx]
	if word == 0 {
		cu.Step = 0
		return 0
	}
	cu.Step++
	return word
}
