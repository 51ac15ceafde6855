// Package eval is a tree-walking evaluator for desugared pipelang trees:
// ordinary calls, member accesses and await operations. It refuses
// pipeline nodes, so a tree must go through desugar first.
//
// Evaluation is strictly left to right. An await on a pending Task
// suspends the evaluating goroutine until the task completes or the
// context is cancelled; nothing after the suspension point runs before
// resumption, and a rejection aborts evaluation with the rejection error.
package eval

import (
	"context"

	"github.com/pipelang/pipelang/ast"
	"github.com/pipelang/pipelang/token"
)

// Program evaluates p's statements in order against env and returns the
// value of the final expression statement, or Null.
func Program(ctx context.Context, env *Env, p *ast.Program) (Value, error) {
	last := Value(NullValue)

	for _, s := range p.Stmts {
		switch s := s.(type) {
		case *ast.LetStmt:
			v, err := Expression(ctx, env, s.Value)
			if err != nil {
				return NullValue, err
			}

			env.Define(s.Name.Name, v)
			last = NullValue
		case *ast.ExprStmt:
			v, err := Expression(ctx, env, s.X)
			if err != nil {
				return NullValue, err
			}

			last = v
		default:
			return NullValue, newError(s.Pos(), ErrBadOperand, "unsupported statement")
		}
	}

	return last, nil
}

// Expression evaluates e against env.
func Expression(ctx context.Context, env *Env, e ast.Expr) (Value, error) {
	if err := ctx.Err(); err != nil {
		return NullValue, err
	}

	switch e := e.(type) {
	case *ast.Ident:
		v, ok := env.Lookup(e.Name)
		if !ok {
			return NullValue, newError(e.Pos(), ErrUndefinedName, "%s", e.Name)
		}

		return v, nil
	case *ast.StringLit:
		return String(e.Value), nil
	case *ast.NumberLit:
		return Number(e.Value), nil
	case *ast.BoolLit:
		return Bool(e.Value), nil
	case *ast.NullLit:
		return NullValue, nil
	case *ast.ParenExpr:
		return Expression(ctx, env, e.X)
	case *ast.ArrowFunc:
		return &Closure{Param: e.Param.Name, Body: e.Body, Env: env}, nil
	case *ast.MemberExpr:
		object, err := Expression(ctx, env, e.Object)
		if err != nil {
			return NullValue, err
		}

		return member(object, e.Property, e.Pos())
	case *ast.CallExpr:
		return call(ctx, env, e)
	case *ast.AwaitExpr:
		v, err := Expression(ctx, env, e.X)
		if err != nil {
			return NullValue, err
		}

		task, ok := v.(*Task)
		if !ok {
			// Awaiting a settled value passes it through.
			return v, nil
		}

		return task.Await(ctx)
	case *ast.BinaryExpr:
		return binary(ctx, env, e)
	case *ast.PipeExpr, *ast.AwaitMarker:
		return NullValue, newError(e.Pos(), ErrPipelineNode, "%s", ast.ExprString(e))
	default:
		return NullValue, newError(e.Pos(), ErrBadOperand, "unsupported expression")
	}
}

// call evaluates a call expression. A member callee evaluates its object
// exactly once and passes it as the receiver, so a method's internal
// receiver binding is the object it was referenced from, never the
// argument value.
func call(ctx context.Context, env *Env, e *ast.CallExpr) (Value, error) {
	recv := Value(NullValue)

	var callee Value

	if m, ok := e.Callee.(*ast.MemberExpr); ok {
		object, err := Expression(ctx, env, m.Object)
		if err != nil {
			return NullValue, err
		}

		method, err := member(object, m.Property, m.Pos())
		if err != nil {
			return NullValue, err
		}

		recv, callee = object, method
	} else {
		v, err := Expression(ctx, env, e.Callee)
		if err != nil {
			return NullValue, err
		}

		callee = v
	}

	callable, ok := callee.(Callable)
	if !ok {
		return NullValue, notCallable(e.Pos(), callee)
	}

	args := make([]Value, len(e.Args))

	for i, a := range e.Args {
		v, err := Expression(ctx, env, a)
		if err != nil {
			return NullValue, err
		}

		args[i] = v
	}

	return callable.Call(ctx, recv, args)
}

func member(object Value, property string, pos token.Pos) (Value, error) {
	obj, ok := object.(*Object)
	if !ok {
		return NullValue, newError(pos, ErrUnknownProperty, "%s on %s", property, object.Type())
	}

	v, ok := obj.Get(property)
	if !ok {
		return NullValue, newError(pos, ErrUnknownProperty, "%s", property)
	}

	return v, nil
}

func binary(ctx context.Context, env *Env, e *ast.BinaryExpr) (Value, error) {
	left, err := Expression(ctx, env, e.Left)
	if err != nil {
		return NullValue, err
	}

	right, err := Expression(ctx, env, e.Right)
	if err != nil {
		return NullValue, err
	}

	if e.Op == token.Plus {
		if l, ok := left.(String); ok {
			if r, ok := right.(String); ok {
				return l + r, nil
			}
		}
	}

	l, lok := left.(Number)
	r, rok := right.(Number)

	if !lok || !rok {
		return NullValue, newError(e.Pos(), ErrBadOperand, "%s %s %s", left.Type(), e.Op, right.Type())
	}

	switch e.Op {
	case token.Plus:
		return l + r, nil
	case token.Minus:
		return l - r, nil
	case token.Star:
		return l * r, nil
	case token.Slash:
		return l / r, nil
	default:
		return NullValue, newError(e.Pos(), ErrBadOperand, "operator %s", e.Op)
	}
}
