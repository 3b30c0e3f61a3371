package cpu

import (
	"errors"

	"github.com/chbenoit/sbb/translate"
)

var f = translate.From

var (
	ErrHalted        = errors.New(f("cpu halted"))
	ErrImageOverflow = errors.New(f("program exceeds ram size"))
)
