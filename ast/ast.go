// Package ast defines the syntax tree for pipelang source: a small
// expression language with single-parameter arrow functions, await and the
// left-associative pipeline operator |>.
package ast

import "github.com/pipelang/pipelang/token"

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() token.Pos
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root node: an ordered list of statements.
type Program struct {
	Stmts []Stmt
}

func (p *Program) Pos() token.Pos {
	if len(p.Stmts) == 0 {
		return token.Pos{}
	}

	return p.Stmts[0].Pos()
}

// LetStmt binds an expression result to a name.
type LetStmt struct {
	Name   *Ident
	Value  Expr
	LetPos token.Pos
}

func (s *LetStmt) Pos() token.Pos { return s.LetPos }
func (*LetStmt) stmtNode()        {}

// ExprStmt is an expression evaluated for its value or side effects.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) Pos() token.Pos { return s.X.Pos() }
func (*ExprStmt) stmtNode()        {}

// Ident is an identifier reference.
type Ident struct {
	Name    string
	NamePos token.Pos
}

func (e *Ident) Pos() token.Pos { return e.NamePos }
func (*Ident) exprNode()        {}

// StringLit is a string literal with its decoded value.
type StringLit struct {
	Value    string
	QuotePos token.Pos
}

func (e *StringLit) Pos() token.Pos { return e.QuotePos }
func (*StringLit) exprNode()        {}

// NumberLit is a numeric literal. Text preserves the source spelling.
type NumberLit struct {
	Value   float64
	Text    string
	TextPos token.Pos
}

func (e *NumberLit) Pos() token.Pos { return e.TextPos }
func (*NumberLit) exprNode()        {}

// BoolLit is true or false.
type BoolLit struct {
	Value   bool
	WordPos token.Pos
}

func (e *BoolLit) Pos() token.Pos { return e.WordPos }
func (*BoolLit) exprNode()        {}

// NullLit is the null literal.
type NullLit struct {
	WordPos token.Pos
}

func (e *NullLit) Pos() token.Pos { return e.WordPos }
func (*NullLit) exprNode()        {}

// MemberExpr is a property access: Object.Property.
type MemberExpr struct {
	Object   Expr
	Property string
}

func (e *MemberExpr) Pos() token.Pos { return e.Object.Pos() }
func (*MemberExpr) exprNode()        {}

// CallExpr is an ordinary call. When Callee is a MemberExpr the call binds
// the member's object as the receiver.
type CallExpr struct {
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) Pos() token.Pos { return e.Callee.Pos() }
func (*CallExpr) exprNode()        {}

// ParenExpr is an explicitly parenthesized expression. Parentheses are kept
// in the tree: they carry meaning both for pipeline stages and for await
// disambiguation.
type ParenExpr struct {
	X       Expr
	OpenPos token.Pos
}

func (e *ParenExpr) Pos() token.Pos { return e.OpenPos }
func (*ParenExpr) exprNode()        {}

// ArrowFunc is a single-parameter anonymous function literal.
type ArrowFunc struct {
	Param *Ident
	Body  Expr
}

func (e *ArrowFunc) Pos() token.Pos { return e.Param.Pos() }
func (*ArrowFunc) exprNode()        {}

// AwaitExpr suspends on its operand's value.
type AwaitExpr struct {
	X        Expr
	AwaitPos token.Pos
}

func (e *AwaitExpr) Pos() token.Pos { return e.AwaitPos }
func (*AwaitExpr) exprNode()        {}

// AwaitMarker is a bare await used as a pipeline stage: suspend on the
// running value itself. It is only valid on the right-hand side of |>.
type AwaitMarker struct {
	AwaitPos token.Pos
}

func (e *AwaitMarker) Pos() token.Pos { return e.AwaitPos }
func (*AwaitMarker) exprNode()        {}

// PipeExpr is one application of the pipeline operator: Left |> Right.
// Chains associate left, so a |> b |> c parses as (a |> b) |> c.
type PipeExpr struct {
	Left  Expr
	Right Expr
}

func (e *PipeExpr) Pos() token.Pos { return e.Left.Pos() }
func (*PipeExpr) exprNode()        {}

// BinaryExpr is an infix arithmetic or concatenation expression.
type BinaryExpr struct {
	Op    token.Kind
	Left  Expr
	Right Expr
}

func (e *BinaryExpr) Pos() token.Pos { return e.Left.Pos() }
func (*BinaryExpr) exprNode()        {}
