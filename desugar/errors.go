package desugar

import (
	"errors"
	"fmt"

	"github.com/pipelang/pipelang/token"
)

var (
	_ error = new(SyntaxError)

	// ErrAmbiguousAwait reports the compound stage `... |> await f` where f
	// is a bare callable reference: it is unclear whether the suspension
	// applies before or after invoking f. Parenthesize (`|> (await f)`) or
	// split into two stages (`|> f |> await`) to disambiguate.
	ErrAmbiguousAwait = errors.New("ambiguous await of a callable reference in pipeline stage")

	// ErrMisplacedMarker reports a bare suspension marker outside a
	// pipeline stage position.
	ErrMisplacedMarker = errors.New("suspension marker outside a pipeline stage")
)

// SyntaxError is a static pipeline syntax error detected during desugaring.
type SyntaxError struct {
	Pos   token.Pos
	Stage string
	cause error
}

// Implementation of error.
func (e *SyntaxError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.cause)
	}

	return fmt.Sprintf("%s: %s: %s", e.Pos, e.cause, e.Stage)
}

// Returns the underlying error.
func (e *SyntaxError) Unwrap() error {
	return e.cause
}

func newSyntaxError(pos token.Pos, stage string, cause error) *SyntaxError {
	return &SyntaxError{Pos: pos, Stage: stage, cause: cause}
}
