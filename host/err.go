package host

import (
	"errors"

	"github.com/chbenoit/sbb/translate"
)

var f = translate.From

var (
	ErrNoProgram  = errors.New(f("no program loaded"))
	ErrTickBudget = errors.New(f("tick budget exhausted without halt"))
)
