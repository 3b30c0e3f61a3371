// Package cpu implements the SBB microprocessor: ALU, RAM, register file,
// program counter, call stack, and the microcode-driven control unit that
// ties them together into a single Tick.
package cpu
