package parser

import (
	"fmt"

	"github.com/pipelang/pipelang/token"
)

var _ error = new(Error)

// Error is a syntax error with its source position.
type Error struct {
	Pos token.Pos
	Msg string
}

// Implementation of error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func errorf(pos token.Pos, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
