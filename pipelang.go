package pipelang

import (
	"context"
	"strings"

	"github.com/pipelang/pipelang/ast"
	"github.com/pipelang/pipelang/desugar"
	"github.com/pipelang/pipelang/eval"
	"github.com/pipelang/pipelang/parser"
)

// Option configures desugaring.
type Option = desugar.Option

// WithInlineArrowBodies enables inline-arrow call elimination; see
// desugar.WithInlineArrowBodies.
func WithInlineArrowBodies() Option {
	return desugar.WithInlineArrowBodies()
}

// Parse parses a program.
func Parse(src string) (*ast.Program, error) {
	return parser.Parse(src)
}

// ParseExpr parses a single expression.
func ParseExpr(src string) (ast.Expr, error) {
	return parser.ParseExpr(src)
}

// Desugar rewrites every pipeline expression in p into ordinary calls.
func Desugar(p *ast.Program, opts ...Option) (*ast.Program, error) {
	return desugar.Program(p, opts...)
}

// DesugarString parses src, desugars it and renders the result as source
// text.
func DesugarString(src string, opts ...Option) (string, error) {
	p, err := parser.Parse(src)
	if err != nil {
		return "", err
	}

	out, err := desugar.Program(p, opts...)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := ast.Fprint(&sb, out); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// Run parses, desugars and evaluates src against env, returning the value
// of the final expression statement.
func Run(ctx context.Context, src string, env *eval.Env, opts ...Option) (eval.Value, error) {
	p, err := parser.Parse(src)
	if err != nil {
		return eval.NullValue, err
	}

	out, err := desugar.Program(p, opts...)
	if err != nil {
		return eval.NullValue, err
	}

	return eval.Program(ctx, env, out)
}
