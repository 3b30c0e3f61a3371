package asm

import (
	"regexp"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// evalExpr evaluates a `$(...)` compile-time expression with symbols
// already resolved by the layout pass predeclared as integers.
func evalExpr(expr string, symbols map[string]int) (int64, error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for name, addr := range symbols {
		pred[name] = starlark.MakeInt(addr)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return 0, ErrParseExpression(expr)
	}

	rc, ok := dict["rc"]
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	i, ok := rc.(starlark.Int)
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	v, ok := i.Int64()
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	return v, nil
}

var exprRe = regexp.MustCompile(`\$\([^$]*\)`)

// expandExpressions replaces every `$(expr)` in line with its
// evaluated decimal value.
func expandExpressions(line string, symbols map[string]int) (string, error) {
	var outerErr error
	out := exprRe.ReplaceAllStringFunc(line, func(m string) string {
		v, err := evalExpr(m[2:len(m)-1], symbols)
		if err != nil {
			outerErr = err
			return m
		}
		return strconv.FormatInt(v, 10)
	})
	return out, outerErr
}
