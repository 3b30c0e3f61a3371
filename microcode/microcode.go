// Package microcode builds the control-unit ROM from a static table of
// per-opcode micro-step sequences, the Go equivalent of the
// create_control_signals.py table this machine was designed against.
package microcode

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/chbenoit/sbb/cpu"
)

// stepsPerRow is the fixed frame every (family, selector, flags) triple
// gets in the ROM: two mandatory fetch words plus up to six
// opcode-specific words, padded with the zero terminator.
const stepsPerRow = 8

var (
	fetch1 = cpu.Lines(cpu.CO, cpu.MI)
	fetch2 = cpu.Lines(cpu.RO, cpu.II, cpu.CE)
)

// addressed is the fixed micro-program for each of the 14 addressed
// opcode families (row index = IR's high nibble, 0x0..0xD). Rows 6, 7,
// and 8 (the conditional branches) are overridden per flag combination
// by conditionalRow before being written into the ROM.
var addressed = [14][]cpu.ControlWord{
	0:  {fetch1, fetch2, cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.XI, cpu.CE), cpu.Lines(cpu.IO, cpu.MI), cpu.Lines(cpu.RO, cpu.AI)},
	1:  {fetch1, fetch2, cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.XI, cpu.CE), cpu.Lines(cpu.IO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI), cpu.Lines(cpu.L1, cpu.AI)},
	2:  {fetch1, fetch2, cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.XI, cpu.CE), cpu.Lines(cpu.IO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI), cpu.Lines(cpu.L2, cpu.AI)},
	3:  {fetch1, fetch2, cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.XI, cpu.CE), cpu.Lines(cpu.IO, cpu.MI), cpu.Lines(cpu.AO, cpu.RI)},
	4:  {fetch1, fetch2, cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.XI, cpu.CE), cpu.Lines(cpu.SI, cpu.CO, cpu.SA), cpu.Lines(cpu.IO, cpu.JP)},
	5:  {fetch1, fetch2, cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.XI), cpu.Lines(cpu.IO, cpu.JP)},
	6:  nil, // JMPC, see conditionalRow
	7:  nil, // JMPZ
	8:  nil, // JMPN
	9:  {fetch1, fetch2, cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.XI, cpu.CE), cpu.Lines(cpu.IO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI), cpu.Lines(cpu.L1, cpu.L3, cpu.AI)},
	10: {fetch1, fetch2, cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.XI, cpu.CE), cpu.Lines(cpu.IO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI), cpu.Lines(cpu.L2, cpu.L3, cpu.AI)},
	11: {fetch1, fetch2, cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.AI, cpu.CE), cpu.Lines(cpu.L1, cpu.XI), cpu.Lines(cpu.IO, cpu.MI), cpu.Lines(cpu.RO, cpu.AI)},
	12: {fetch1, fetch2, cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.XI, cpu.CE), cpu.Lines(cpu.IO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI), cpu.Lines(cpu.L2, cpu.L4, cpu.AI)},
	13: {fetch1, fetch2, cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.XI, cpu.CE), cpu.Lines(cpu.IO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI), cpu.Lines(cpu.L1, cpu.L2, cpu.L4, cpu.AI)},
}

// branchTaken is the shared micro-program any conditional branch runs
// when its flag bit is set: behave exactly like JMP.
var branchTaken = []cpu.ControlWord{fetch1, fetch2, cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.XI), cpu.Lines(cpu.IO, cpu.JP)}

// branchSkipped is the micro-program run when the flag bit is clear:
// step past the operand byte without loading it.
var branchSkipped = []cpu.ControlWord{fetch1, fetch2, cpu.Lines(cpu.CE)}

// conditionalRow returns the addressed-family row for JMPC/JMPZ/JMPN
// (family 6/7/8) given whether the corresponding flag is set for this
// slice of the ROM.
func conditionalRow(taken bool) []cpu.ControlWord {
	if taken {
		return branchTaken
	}
	return branchSkipped
}

// immediate is indexed by selector (the immediate opcode's low nibble,
// 0xE0..0xEF) and gives the family-14 micro-program.
var immediate = [16][]cpu.ControlWord{
	0:  {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.AI, cpu.CE)},                   // ldi
	1:  {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI, cpu.CE), cpu.Lines(cpu.L1, cpu.AI)}, // add#
	2:  {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI, cpu.CE), cpu.Lines(cpu.L2, cpu.AI)}, // sub#
	3:  {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI, cpu.CE), cpu.Lines(cpu.L1, cpu.L3, cpu.AI)}, // and#
	4:  {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI, cpu.CE), cpu.Lines(cpu.L2, cpu.L3, cpu.AI)}, // or#
	5:  {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI, cpu.CE)},                   // ldib
	6:  {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI, cpu.CE), cpu.Lines(cpu.L2, cpu.L4, cpu.AI)}, // multl#
	7:  {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI, cpu.CE), cpu.Lines(cpu.L1, cpu.L2, cpu.L4, cpu.AI)}, // multh#
	8:  {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.SI, cpu.CE)},                   // push#
	9:  {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.BI, cpu.CE), cpu.Lines(cpu.L3, cpu.L4, cpu.AI)}, // xor#
	10: {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.AI, cpu.SO, cpu.JP, cpu.SA)},           // ret#
	11: {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.PI, cpu.RF, cpu.CE)},            // scp
	12: nil,
	13: nil,
	14: nil,
	15: {cpu.Lines(cpu.CO, cpu.MI), cpu.Lines(cpu.RO, cpu.OI, cpu.CE), cpu.Lines(cpu.HT)}, // halt#
}

// nullary is indexed by selector (the nullary opcode's low nibble,
// 0xF0..0xFF) and gives the family-15 (single-step) micro-program.
var nullary = [16][]cpu.ControlWord{
	0:  nil, // noop
	1:  {cpu.Lines(cpu.AO, cpu.OI)}, // out
	2:  {cpu.Lines(cpu.L1, cpu.L2, cpu.AI)}, // inc
	3:  {cpu.Lines(cpu.L3, cpu.AI)}, // dec
	4:  {cpu.Lines(cpu.L4, cpu.AI)}, // rsh
	5:  {cpu.Lines(cpu.L1, cpu.L4, cpu.AI)}, // lsh
	6:  {cpu.Lines(cpu.BO, cpu.AI)}, // take: B -> A
	7:  {cpu.Lines(cpu.AO, cpu.SI)}, // pusha
	8:  {cpu.Lines(cpu.SO, cpu.AI)}, // popa
	9:  {cpu.Lines(cpu.AO, cpu.BI)}, // move: A -> B
	10: {cpu.Lines(cpu.SO, cpu.JP, cpu.SA)}, // ret
	11: {cpu.Lines(cpu.AO, cpu.OI), cpu.Lines(cpu.HT)}, // hlta
	12: {cpu.Lines(cpu.L1, cpu.L2, cpu.L3, cpu.AI)}, // not
	13: {cpu.Lines(cpu.RF)}, // refresh
	14: {cpu.Lines(cpu.L1, cpu.L2, cpu.BI)}, // incb
	15: {cpu.Lines(cpu.HT)}, // halt
}

// pad pads seq with the zero terminator up to stepsPerRow-2 opcode-
// specific entries (the generator always reserves the first two for
// fetch1/fetch2). A seq that already spells out the fetch pair, as the
// addressed and branch rows do, has it written only once.
func pad(seq []cpu.ControlWord) [stepsPerRow]cpu.ControlWord {
	var out [stepsPerRow]cpu.ControlWord
	out[0], out[1] = fetch1, fetch2
	if len(seq) >= 2 && seq[0] == fetch1 && seq[1] == fetch2 {
		seq = seq[2:]
	}
	for i, word := range seq {
		if i+2 >= stepsPerRow {
			break
		}
		out[i+2] = word
	}
	return out
}

// Generate builds the full 2^14-entry control ROM from the static
// opcode tables above, following the same iteration order as the
// original table builder: flags outermost, then the immediate/nullary
// selector, then the opcode family, then the micro-step.
func Generate() *[cpu.RomSize]cpu.ControlWord {
	rom := new([cpu.RomSize]cpu.ControlWord)

	for flags := 0; flags < 8; flags++ {
		cf := flags&1 != 0
		zf := flags&2 != 0
		sf := flags&4 != 0

		for selector := 0; selector < 16; selector++ {
			rows := addressed
			rows[6] = conditionalRow(cf)
			rows[7] = conditionalRow(zf)
			rows[8] = conditionalRow(sf)

			for family := 0; family < 16; family++ {
				var frame [stepsPerRow]cpu.ControlWord
				switch {
				case family < 14:
					frame = pad(rows[family])
				case family == 14:
					frame = pad(immediate[selector])
				default:
					frame = pad(nullary[selector])
				}

				for step := 0; step < stepsPerRow; step++ {
					idx := uint16(step) | uint16(family)<<3 | uint16(selector)<<7 | uint16(flags)<<11
					rom[idx] = frame[step]
				}
			}
		}
	}

	return rom
}

// WriteText writes rom as one 24-character bitstring per line, in ROM
// address order, matching the external ROM file format.
func WriteText(w io.Writer, rom *[cpu.RomSize]cpu.ControlWord) error {
	buf := bufio.NewWriter(w)
	for _, word := range rom {
		if _, err := buf.WriteString(word.String()); err != nil {
			return err
		}
		if err := buf.WriteByte('\n'); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// ReadText reads a previously written ROM file back into memory.
func ReadText(r io.Reader) (*[cpu.RomSize]cpu.ControlWord, error) {
	rom := new([cpu.RomSize]cpu.ControlWord)
	scanner := bufio.NewScanner(r)
	for i := 0; i < cpu.RomSize; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("microcode: rom file truncated at line %d", i)
		}
		value, err := strconv.ParseUint(scanner.Text(), 2, cpu.NumLines)
		if err != nil {
			return nil, fmt.Errorf("microcode: rom line %d: %w", i, err)
		}
		rom[i] = cpu.ControlWord(value)
	}
	return rom, scanner.Err()
}
