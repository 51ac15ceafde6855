// Package desugar rewrites pipeline-operator trees into ordinary call
// expressions, member accesses and await operations with identical
// evaluation order, receiver binding and suspension points.
//
// The rewrite threads the running value v (initially the chain's head)
// through the stages left to right:
//
//	v |> f          becomes  f(v)
//	v |> obj.m      becomes  obj.m(v)   (receiver stays obj)
//	v |> x => body  becomes  (x => body)(v)
//	v |> await      becomes  await v
//	v |> (expr)     becomes  (expr)(v)
//
// The compound stage `v |> await f` with f a bare reference is rejected
// with a SyntaxError wrapping ErrAmbiguousAwait.
package desugar

import "github.com/pipelang/pipelang/ast"

type config struct {
	inlineArrowBodies bool
}

// Option configures the rewrite.
type Option func(*config)

// WithInlineArrowBodies allows an inline-arrow stage call to be eliminated
// by substituting the running value for the parameter directly in the body.
// The substitution is applied only when the running value is an identifier
// or a literal, so duplicated occurrences cannot duplicate side effects.
func WithInlineArrowBodies() Option {
	return func(cfg *config) {
		cfg.inlineArrowBodies = true
	}
}

// Program rewrites every pipeline expression in p. The input is not
// mutated.
func Program(p *ast.Program, opts ...Option) (*ast.Program, error) {
	cfg := newConfig(opts)
	out := &ast.Program{Stmts: make([]ast.Stmt, len(p.Stmts))}

	for i, s := range p.Stmts {
		switch s := s.(type) {
		case *ast.LetStmt:
			value, err := rewrite(ast.CloneExpr(s.Value), cfg)
			if err != nil {
				return nil, err
			}

			name := *s.Name
			out.Stmts[i] = &ast.LetStmt{Name: &name, Value: value, LetPos: s.LetPos}
		case *ast.ExprStmt:
			x, err := rewrite(ast.CloneExpr(s.X), cfg)
			if err != nil {
				return nil, err
			}

			out.Stmts[i] = &ast.ExprStmt{X: x}
		default:
			out.Stmts[i] = ast.CloneStmt(s)
		}
	}

	return out, nil
}

// Expr rewrites a single expression. The input is not mutated.
func Expr(e ast.Expr, opts ...Option) (ast.Expr, error) {
	return rewrite(ast.CloneExpr(e), newConfig(opts))
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// rewrite eliminates every PipeExpr in e bottom-up. It owns e (callers
// clone) and may reuse its nodes in the output.
func rewrite(e ast.Expr, cfg *config) (ast.Expr, error) {
	switch e := e.(type) {
	case *ast.PipeExpr:
		v, err := rewrite(e.Left, cfg)
		if err != nil {
			return nil, err
		}

		return applyStage(v, e.Right, cfg)
	case *ast.AwaitMarker:
		return nil, newSyntaxError(e.Pos(), "", ErrMisplacedMarker)
	case *ast.MemberExpr:
		object, err := rewrite(e.Object, cfg)
		if err != nil {
			return nil, err
		}

		e.Object = object

		return e, nil
	case *ast.CallExpr:
		callee, err := rewrite(e.Callee, cfg)
		if err != nil {
			return nil, err
		}

		e.Callee = callee

		for i, a := range e.Args {
			arg, err := rewrite(a, cfg)
			if err != nil {
				return nil, err
			}

			e.Args[i] = arg
		}

		return e, nil
	case *ast.ParenExpr:
		x, err := rewrite(e.X, cfg)
		if err != nil {
			return nil, err
		}

		e.X = x

		return e, nil
	case *ast.ArrowFunc:
		body, err := rewrite(e.Body, cfg)
		if err != nil {
			return nil, err
		}

		e.Body = body

		return e, nil
	case *ast.AwaitExpr:
		x, err := rewrite(e.X, cfg)
		if err != nil {
			return nil, err
		}

		e.X = x

		return e, nil
	case *ast.BinaryExpr:
		left, err := rewrite(e.Left, cfg)
		if err != nil {
			return nil, err
		}

		right, err := rewrite(e.Right, cfg)
		if err != nil {
			return nil, err
		}

		e.Left, e.Right = left, right

		return e, nil
	default:
		return e, nil
	}
}

// applyStage rewrites one stage application with running value v.
func applyStage(v ast.Expr, stage ast.Expr, cfg *config) (ast.Expr, error) {
	switch stage := stage.(type) {
	case *ast.AwaitMarker:
		return &ast.AwaitExpr{X: v, AwaitPos: stage.AwaitPos}, nil
	case *ast.AwaitExpr:
		if isBareReference(stage.X) {
			return nil, newSyntaxError(stage.AwaitPos, ast.ExprString(stage), ErrAmbiguousAwait)
		}

		awaited, err := rewrite(stage, cfg)
		if err != nil {
			return nil, err
		}

		return &ast.CallExpr{Callee: awaited, Args: []ast.Expr{v}}, nil
	case *ast.ArrowFunc:
		body, err := rewrite(stage.Body, cfg)
		if err != nil {
			return nil, err
		}

		stage.Body = body

		if cfg.inlineArrowBodies && substitutable(v) && !captures(body, v) {
			return substitute(body, stage.Param.Name, v), nil
		}

		return &ast.CallExpr{Callee: stage, Args: []ast.Expr{v}}, nil
	default:
		callee, err := rewrite(stage, cfg)
		if err != nil {
			return nil, err
		}

		return &ast.CallExpr{Callee: callee, Args: []ast.Expr{v}}, nil
	}
}

// isBareReference reports whether e is a plain identifier or a member
// chain, the stage forms whose awaiting is ambiguous.
func isBareReference(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Ident:
		return true
	case *ast.MemberExpr:
		return isBareReference(e.Object)
	default:
		return false
	}
}

// substitutable reports whether v may be duplicated freely: identifiers
// and literals have no side effects and evaluate to the same value at
// every occurrence.
func substitutable(v ast.Expr) bool {
	switch v.(type) {
	case *ast.Ident, *ast.StringLit, *ast.NumberLit, *ast.BoolLit, *ast.NullLit:
		return true
	default:
		return false
	}
}

// captures reports whether substituting v into body would rebind it: v is
// an identifier and some arrow in body binds a parameter of the same name.
// Such stages keep the call form.
func captures(body ast.Expr, v ast.Expr) bool {
	ident, ok := v.(*ast.Ident)
	if !ok {
		return false
	}

	found := false
	ast.Walk(body, func(n ast.Node) bool {
		if arrow, ok := n.(*ast.ArrowFunc); ok && arrow.Param.Name == ident.Name {
			found = true
		}

		return !found
	})

	return found
}

// substitute replaces free occurrences of name in body with v. An inner
// arrow with the same parameter name shadows name.
func substitute(body ast.Expr, name string, v ast.Expr) ast.Expr {
	switch body := body.(type) {
	case *ast.Ident:
		if body.Name == name {
			return ast.CloneExpr(v)
		}

		return body
	case *ast.MemberExpr:
		body.Object = substitute(body.Object, name, v)
		return body
	case *ast.CallExpr:
		body.Callee = substitute(body.Callee, name, v)
		for i, a := range body.Args {
			body.Args[i] = substitute(a, name, v)
		}

		return body
	case *ast.ParenExpr:
		body.X = substitute(body.X, name, v)
		return body
	case *ast.ArrowFunc:
		if body.Param.Name == name {
			return body
		}

		body.Body = substitute(body.Body, name, v)

		return body
	case *ast.AwaitExpr:
		body.X = substitute(body.X, name, v)
		return body
	case *ast.BinaryExpr:
		body.Left = substitute(body.Left, name, v)
		body.Right = substitute(body.Right, name, v)

		return body
	default:
		return body
	}
}
