package eval

import (
	"errors"
	"fmt"

	"github.com/pipelang/pipelang/internal"
	"github.com/pipelang/pipelang/token"
)

var (
	_ error = new(Error)

	// ErrUndefinedName reports a reference to an unbound name.
	ErrUndefinedName = errors.New("undefined name")

	// ErrNotCallable reports a call on a non-callable value.
	ErrNotCallable = errors.New("value is not callable")

	// ErrUnknownProperty reports a member access that resolved nothing.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrBadOperand reports an operator applied to unsupported operand
	// types.
	ErrBadOperand = errors.New("invalid operand types")

	// ErrPipelineNode reports a pipeline node reaching the evaluator. The
	// evaluator consumes desugared trees only; run desugar.Program first.
	ErrPipelineNode = errors.New("pipeline node in evaluated tree")
)

// Error is an evaluation failure with the position of the failing node.
type Error struct {
	Pos   token.Pos
	Msg   string
	cause error
}

// Implementation of error.
func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.cause)
	}

	return fmt.Sprintf("%s: %s: %s", e.Pos, e.cause, e.Msg)
}

// Returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

func newError(pos token.Pos, cause error, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...), cause: cause}
}

func notCallable(pos token.Pos, v Value) *Error {
	return newError(pos, ErrNotCallable, "%s (%s)", v.Type(), internal.InstanceTypeName(v))
}
