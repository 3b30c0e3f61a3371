// Package asm implements the two-pass assembler for the SBB machine's
// instruction dialect: a lexer/layout pass that computes every source
// line's RAM address and every label's byte span, followed by an
// emission pass that resolves operands (numeric literals, symbolic
// names, line references, pointer references) against the address
// table the layout pass built.
package asm
