package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pipelang/pipelang/token"
)

// Operator precedence levels used by the printer to decide where
// parentheses are required for the output to re-parse as the same tree.
const (
	precArrow = iota + 1
	precPipe
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precPrimary
)

func exprPrec(e Expr) int {
	switch e := e.(type) {
	case *ArrowFunc:
		return precArrow
	case *PipeExpr:
		return precPipe
	case *BinaryExpr:
		if e.Op == token.Plus || e.Op == token.Minus {
			return precAdditive
		}

		return precMultiplicative
	case *AwaitExpr, *AwaitMarker:
		return precUnary
	case *CallExpr, *MemberExpr:
		return precPostfix
	default:
		return precPrimary
	}
}

// Fprint writes p as source text, one statement per line.
func Fprint(w io.Writer, p *Program) error {
	for _, s := range p.Stmts {
		if _, err := io.WriteString(w, StmtString(s)); err != nil {
			return err
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	return nil
}

// String renders p as source text.
func String(p *Program) string {
	var sb strings.Builder
	_ = Fprint(&sb, p)

	return sb.String()
}

// StmtString renders a single statement, including the trailing semicolon.
func StmtString(s Stmt) string {
	switch s := s.(type) {
	case *LetStmt:
		return fmt.Sprintf("let %s = %s;", s.Name.Name, ExprString(s.Value))
	case *ExprStmt:
		return ExprString(s.X) + ";"
	default:
		return fmt.Sprintf("/* unknown statement %T */;", s)
	}
}

// ExprString renders an expression with the minimal parentheses needed to
// re-parse as the same tree.
func ExprString(e Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)

	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Ident:
		sb.WriteString(e.Name)
	case *StringLit:
		sb.WriteString(strconv.Quote(e.Value))
	case *NumberLit:
		if e.Text != "" {
			sb.WriteString(e.Text)
		} else {
			sb.WriteString(strconv.FormatFloat(e.Value, 'g', -1, 64))
		}
	case *BoolLit:
		sb.WriteString(strconv.FormatBool(e.Value))
	case *NullLit:
		sb.WriteString("null")
	case *MemberExpr:
		writeChild(sb, e.Object, precPostfix-1)
		sb.WriteByte('.')
		sb.WriteString(e.Property)
	case *CallExpr:
		writeChild(sb, e.Callee, precPostfix-1)
		sb.WriteByte('(')

		for i, a := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeExpr(sb, a)
		}

		sb.WriteByte(')')
	case *ParenExpr:
		sb.WriteByte('(')
		writeExpr(sb, e.X)
		sb.WriteByte(')')
	case *ArrowFunc:
		sb.WriteString(e.Param.Name)
		sb.WriteString(" => ")
		writeExpr(sb, e.Body)
	case *AwaitExpr:
		sb.WriteString("await ")
		writeChild(sb, e.X, precUnary)
	case *AwaitMarker:
		sb.WriteString("await")
	case *PipeExpr:
		writeChild(sb, e.Left, precPipe-1)
		sb.WriteString(" |> ")
		writeStage(sb, e.Right)
	case *BinaryExpr:
		prec := exprPrec(e)
		writeChild(sb, e.Left, prec-1)
		sb.WriteByte(' ')
		sb.WriteString(e.Op.String())
		sb.WriteByte(' ')
		writeChild(sb, e.Right, prec)
	default:
		fmt.Fprintf(sb, "/* unknown expression %T */", e)
	}
}

// writeChild parenthesizes the child when its precedence does not exceed
// min, keeping the printed form faithful to the tree shape.
func writeChild(sb *strings.Builder, e Expr, min int) {
	if exprPrec(e) <= min {
		sb.WriteByte('(')
		writeExpr(sb, e)
		sb.WriteByte(')')

		return
	}

	writeExpr(sb, e)
}

// writeStage renders a pipeline stage. Unparenthesized arrows are legal
// stages (they terminate at the next |>), so only an arrow whose body is
// itself a pipeline needs wrapping to survive a round trip.
func writeStage(sb *strings.Builder, e Expr) {
	arrow, ok := e.(*ArrowFunc)
	if ok {
		if _, pipeBody := arrow.Body.(*PipeExpr); !pipeBody {
			writeExpr(sb, e)

			return
		}
	}

	if exprPrec(e) <= precPipe {
		sb.WriteByte('(')
		writeExpr(sb, e)
		sb.WriteByte(')')

		return
	}

	writeExpr(sb, e)
}
