// Package parser turns pipelang source text into ast trees.
//
// The grammar is a conventional Pratt parser with one deliberate wrinkle:
// an unparenthesized arrow function parsed outside a pipeline captures the
// entire remaining chain as its body, while an arrow appearing as a stage
// of an already-open pipeline terminates at the next |> separator.
// Parenthesizing the arrow re-opens its body.
package parser

import (
	"github.com/pipelang/pipelang/ast"
	"github.com/pipelang/pipelang/token"
)

// Binary precedence levels. The pipeline operator binds loosest.
const (
	precLowest = iota
	precPipe
	precAdditive
	precMultiplicative
)

func binaryPrec(k token.Kind) int {
	switch k {
	case token.Pipe:
		return precPipe
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash:
		return precMultiplicative
	default:
		return precLowest
	}
}

type parser struct {
	lex  *lexer
	tok  token.Token
	peek token.Token
}

// Parse parses a whole program: a sequence of let and expression
// statements separated by semicolons.
func Parse(src string) (*ast.Program, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}

	return p.parseProgram()
}

// ParseExpr parses src as a single expression.
func ParseExpr(src string) (ast.Expr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}

	e, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}

	if p.tok.Kind == token.Semicolon {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if p.tok.Kind != token.EOF {
		return nil, errorf(p.tok.Pos, "unexpected %s after expression", p.tok)
	}

	return e, nil
}

func newParser(src string) (*parser, error) {
	p := &parser{lex: newLexer(src)}

	// Prime tok and peek.
	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *parser) advance() error {
	p.tok = p.peek

	next, err := p.lex.next()
	if err != nil {
		return err
	}

	p.peek = next

	return nil
}

func (p *parser) expect(k token.Kind) (token.Token, error) {
	if p.tok.Kind != k {
		return token.Token{}, errorf(p.tok.Pos, "expected %s, found %s", k, p.tok)
	}

	tok := p.tok

	return tok, p.advance()
}

func (p *parser) parseProgram() (*ast.Program, error) {
	program := &ast.Program{}

	for p.tok.Kind != token.EOF {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		program.Stmts = append(program.Stmts, stmt)
	}

	return program, nil
}

func (p *parser) parseStmt() (ast.Stmt, error) {
	if p.tok.Kind == token.Let {
		return p.parseLet()
	}

	x, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}

	return &ast.ExprStmt{X: x}, p.expectStmtEnd()
}

func (p *parser) parseLet() (ast.Stmt, error) {
	letPos := p.tok.Pos

	if err := p.advance(); err != nil {
		return nil, err
	}

	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}

	value, err := p.parseExpr(precLowest)
	if err != nil {
		return nil, err
	}

	stmt := &ast.LetStmt{
		Name:   &ast.Ident{Name: name.Lexeme, NamePos: name.Pos},
		Value:  value,
		LetPos: letPos,
	}

	return stmt, p.expectStmtEnd()
}

// expectStmtEnd consumes the statement separator. The final statement may
// omit it.
func (p *parser) expectStmtEnd() error {
	switch p.tok.Kind {
	case token.Semicolon:
		return p.advance()
	case token.EOF:
		return nil
	default:
		return errorf(p.tok.Pos, "expected ; or end of input, found %s", p.tok)
	}
}

func (p *parser) parseExpr(min int) (ast.Expr, error) {
	left, err := p.parseUnary(min)
	if err != nil {
		return nil, err
	}

	for {
		prec := binaryPrec(p.tok.Kind)
		if prec <= min || prec == precLowest {
			return left, nil
		}

		op := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}

		if op.Kind == token.Pipe {
			stage, err := p.parseStage()
			if err != nil {
				return nil, err
			}

			left = &ast.PipeExpr{Left: left, Right: stage}

			continue
		}

		right, err := p.parseExpr(prec)
		if err != nil {
			return nil, err
		}

		left = &ast.BinaryExpr{Op: op.Kind, Left: left, Right: right}
	}
}

// parseStage parses the right-hand side of |>. A bare await followed by a
// separator is the suspension marker; everything else is an expression
// parsed at pipe precedence, so a stage terminates at the next |>.
func (p *parser) parseStage() (ast.Expr, error) {
	if p.tok.Kind == token.Await && isStageEnd(p.peek.Kind) {
		pos := p.tok.Pos

		return &ast.AwaitMarker{AwaitPos: pos}, p.advance()
	}

	return p.parseExpr(precPipe)
}

func isStageEnd(k token.Kind) bool {
	switch k {
	case token.Pipe, token.RParen, token.Comma, token.Semicolon, token.EOF:
		return true
	default:
		return false
	}
}

func (p *parser) parseUnary(min int) (ast.Expr, error) {
	switch p.tok.Kind {
	case token.Await:
		pos := p.tok.Pos

		if isStageEnd(p.peek.Kind) {
			return nil, errorf(pos, "await without an operand is only valid as a pipeline stage")
		}

		if err := p.advance(); err != nil {
			return nil, err
		}

		operand, err := p.parseUnary(min)
		if err != nil {
			return nil, err
		}

		return &ast.AwaitExpr{X: operand, AwaitPos: pos}, nil
	case token.Ident:
		if p.peek.Kind == token.Arrow {
			return p.parseArrow(min)
		}
	}

	return p.parsePostfix()
}

// parseArrow parses param => body. The body's extent depends on where the
// arrow appears: inside an open pipeline stage (min >= pipe precedence) the
// body stops at the next |>; anywhere else it captures the whole remaining
// chain.
func (p *parser) parseArrow(min int) (ast.Expr, error) {
	param := &ast.Ident{Name: p.tok.Lexeme, NamePos: p.tok.Pos}

	if err := p.advance(); err != nil { // parameter
		return nil, err
	}

	if err := p.advance(); err != nil { // =>
		return nil, err
	}

	bodyMin := precLowest
	if min >= precPipe {
		bodyMin = precPipe
	}

	body, err := p.parseExpr(bodyMin)
	if err != nil {
		return nil, err
	}

	return &ast.ArrowFunc{Param: param, Body: body}, nil
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.tok.Kind {
		case token.Dot:
			if err := p.advance(); err != nil {
				return nil, err
			}

			name, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}

			e = &ast.MemberExpr{Object: e, Property: name.Lexeme}
		case token.LParen:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			e = &ast.CallExpr{Callee: e, Args: args}
		default:
			return e, nil
		}
	}
}

func (p *parser) parseArgs() ([]ast.Expr, error) {
	if err := p.advance(); err != nil { // (
		return nil, err
	}

	var args []ast.Expr

	if p.tok.Kind == token.RParen {
		return args, p.advance()
	}

	for {
		arg, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		switch p.tok.Kind {
		case token.Comma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case token.RParen:
			return args, p.advance()
		default:
			return nil, errorf(p.tok.Pos, "expected , or ) in argument list, found %s", p.tok)
		}
	}
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	tok := p.tok

	switch tok.Kind {
	case token.Ident:
		return &ast.Ident{Name: tok.Lexeme, NamePos: tok.Pos}, p.advance()
	case token.String:
		return &ast.StringLit{Value: tok.Lexeme, QuotePos: tok.Pos}, p.advance()
	case token.Number:
		value, err := parseNumber(tok.Lexeme)
		if err != nil {
			return nil, errorf(tok.Pos, "malformed number %q", tok.Lexeme)
		}

		return &ast.NumberLit{Value: value, Text: tok.Lexeme, TextPos: tok.Pos}, p.advance()
	case token.True, token.False:
		return &ast.BoolLit{Value: tok.Kind == token.True, WordPos: tok.Pos}, p.advance()
	case token.Null:
		return &ast.NullLit{WordPos: tok.Pos}, p.advance()
	case token.LParen:
		if err := p.advance(); err != nil {
			return nil, err
		}

		inner, err := p.parseExpr(precLowest)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}

		return &ast.ParenExpr{X: inner, OpenPos: tok.Pos}, nil
	default:
		return nil, errorf(tok.Pos, "unexpected %s", tok)
	}
}
