package cpu

// Line names one of the 24 control lines asserted by the control unit
// each micro-step. The numeric values are the single source of truth
// for the control word's bit layout; the microcode generator and the
// CPU's bus interpreter both key off these constants instead of each
// keeping their own copy of the layout.
type Line uint8

const (
	MI Line = iota // memory address register in
	RI              // RAM data in (write)
	RO              // RAM data out (read)
	II              // instruction register in
	IO              // combined address (IR2 | IR low nibble) out to address bus
	CO              // program counter out
	JP              // program counter in (jump)
	CE              // program counter increment enable
	AI              // A register in
	AO              // A register out
	L1              // ALU select bit 0
	L2              // ALU select bit 1
	L3              // ALU select bit 2
	L4              // ALU select bit 3
	HT              // halt
	BI              // B register in
	BO              // B register out
	OI              // OUT register in
	XI              // IR2 (address extension) register in
	SI              // stack push
	SO              // stack pop
	SA              // stack width select (0: data bus, 1: address bus)
	RF              // screen refresh
	PI              // screen pointer register in
)

// NumLines is the width of a ControlWord.
const NumLines = 24

// LineNames lists the 24 control lines in their stable bit-index order,
// matching the external ROM file format and the §6 control-line table.
var LineNames = [NumLines]string{
	"MI", "RI", "RO", "II", "IO", "CO", "JP", "CE",
	"AI", "AO", "L1", "L2", "L3", "L4", "HT", "BI",
	"BO", "OI", "XI", "SI", "SO", "SA", "RF", "PI",
}

// ControlWord is the 24-bit bitmask a control unit asserts for one
// micro-step; bit N corresponds to Line(N).
type ControlWord uint32

// Has reports whether line is asserted in this word.
func (w ControlWord) Has(line Line) bool {
	return w&(1<<uint(line)) != 0
}

// With returns a copy of w with line asserted.
func (w ControlWord) With(line Line) ControlWord {
	return w | (1 << uint(line))
}

// Lines returns the OR of a set of lines as a ControlWord, the
// building block microcode tables are written with.
func Lines(lines ...Line) ControlWord {
	var w ControlWord
	for _, line := range lines {
		w = w.With(line)
	}
	return w
}

// AluSelect reassembles the 4-bit ALU op-select from the L1..L4 lines.
func (w ControlWord) AluSelect() AluOp {
	var sel AluOp
	if w.Has(L1) {
		sel |= 1
	}
	if w.Has(L2) {
		sel |= 2
	}
	if w.Has(L3) {
		sel |= 4
	}
	if w.Has(L4) {
		sel |= 8
	}
	return sel
}

// String renders the word as a 24-character bitstring, most-significant
// line (PI) first, so the last character is line MI (bit 0); this is
// the one-bitstring-per-line format WriteText writes.
func (w ControlWord) String() string {
	buf := make([]byte, NumLines)
	for i := 0; i < NumLines; i++ {
		bit := (w >> uint(NumLines-1-i)) & 1
		buf[i] = '0' + byte(bit)
	}
	return string(buf)
}
