package asm

import (
	"errors"

	"github.com/chbenoit/sbb/translate"
)

var f = translate.From

var (
	ErrOpcodeMissing   = errors.New(f("opcode missing"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrOperandExtra    = errors.New(f("excessive operands"))
	ErrOperandRange    = errors.New(f("operand out of range"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrLayoutCollision = errors.New(f("declared data collides with start's code"))
)

// ErrParseNumber reports a number literal that could not be parsed.
type ErrParseNumber string

func (e ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(e))
}

// ErrParseExpression reports a $(...) expression starlark could not
// evaluate to an integer.
type ErrParseExpression string

func (e ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(e))
}

// ErrParseReference reports a malformed lN / &name reference.
type ErrParseReference string

func (e ErrParseReference) Error() string {
	return f("'%v' is not a valid reference", string(e))
}

// ErrMarkerMissing reports a &name / &&name pointer reference to a
// marker that no *name ever declared.
type ErrMarkerMissing string

func (e ErrMarkerMissing) Error() string {
	return f("marker %v missing", string(e))
}

// ErrLineMissing reports an lN line reference past the end of source.
type ErrLineMissing int

func (e ErrLineMissing) Error() string {
	return f("line %d does not exist", int(e))
}

// ErrSyntax wraps a lower-level parse error with the source line it
// occurred on.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (e ErrSyntax) Error() string {
	return f("line %d '%v' %v", e.LineNo, e.Line, e.Err)
}

func (e ErrSyntax) Unwrap() error {
	return e.Err
}
