package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pipelang/pipelang/token"
)

type lexer struct {
	src    string
	offset int
	line   int
	column int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, column: 1}
}

func (l *lexer) pos() token.Pos {
	return token.Pos{Line: l.line, Column: l.column, Offset: l.offset}
}

func (l *lexer) peek() rune {
	if l.offset >= len(l.src) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.offset:])

	return r
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	l.offset += size

	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	return r
}

func (l *lexer) skipSpaceAndComments() {
	for l.offset < len(l.src) {
		switch {
		case unicode.IsSpace(l.peek()):
			l.advance()
		case strings.HasPrefix(l.src[l.offset:], "//"):
			for l.offset < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// next returns the next token in the source.
func (l *lexer) next() (token.Token, error) {
	l.skipSpaceAndComments()

	pos := l.pos()

	if l.offset >= len(l.src) {
		return token.Token{Kind: token.EOF, Pos: pos}, nil
	}

	r := l.peek()

	switch {
	case isIdentStart(r):
		return l.lexIdent(pos), nil
	case unicode.IsDigit(r):
		return l.lexNumber(pos)
	case r == '"':
		return l.lexString(pos)
	}

	l.advance()

	single := map[rune]token.Kind{
		'.': token.Dot,
		'(': token.LParen,
		')': token.RParen,
		',': token.Comma,
		';': token.Semicolon,
		'+': token.Plus,
		'-': token.Minus,
		'*': token.Star,
		'/': token.Slash,
	}

	switch r {
	case '|':
		if l.peek() == '>' {
			l.advance()

			return token.Token{Kind: token.Pipe, Lexeme: "|>", Pos: pos}, nil
		}
	case '=':
		if l.peek() == '>' {
			l.advance()

			return token.Token{Kind: token.Arrow, Lexeme: "=>", Pos: pos}, nil
		}

		return token.Token{Kind: token.Assign, Lexeme: "=", Pos: pos}, nil
	default:
		if kind, ok := single[r]; ok {
			return token.Token{Kind: kind, Lexeme: string(r), Pos: pos}, nil
		}
	}

	return token.Token{Kind: token.Illegal, Lexeme: string(r), Pos: pos},
		&Error{Pos: pos, Msg: fmt.Sprintf("unexpected character %q", r)}
}

func (l *lexer) lexIdent(pos token.Pos) token.Token {
	start := l.offset
	for l.offset < len(l.src) && isIdentPart(l.peek()) {
		l.advance()
	}

	lexeme := l.src[start:l.offset]

	return token.Token{Kind: token.Lookup(lexeme), Lexeme: lexeme, Pos: pos}
}

func (l *lexer) lexNumber(pos token.Pos) (token.Token, error) {
	start := l.offset
	for l.offset < len(l.src) && (unicode.IsDigit(l.peek()) || l.peek() == '.') {
		l.advance()
	}

	lexeme := l.src[start:l.offset]
	if _, err := strconv.ParseFloat(lexeme, 64); err != nil {
		return token.Token{Kind: token.Illegal, Lexeme: lexeme, Pos: pos},
			&Error{Pos: pos, Msg: fmt.Sprintf("malformed number %q", lexeme)}
	}

	return token.Token{Kind: token.Number, Lexeme: lexeme, Pos: pos}, nil
}

func (l *lexer) lexString(pos token.Pos) (token.Token, error) {
	l.advance() // opening quote

	var sb strings.Builder

	for {
		if l.offset >= len(l.src) || l.peek() == '\n' {
			return token.Token{Kind: token.Illegal, Pos: pos},
				&Error{Pos: pos, Msg: "unterminated string literal"}
		}

		r := l.advance()

		switch r {
		case '"':
			return token.Token{Kind: token.String, Lexeme: sb.String(), Pos: pos}, nil
		case '\\':
			if l.offset >= len(l.src) {
				return token.Token{Kind: token.Illegal, Pos: pos},
					&Error{Pos: pos, Msg: "unterminated string literal"}
			}

			esc := l.advance()

			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"', '\\':
				sb.WriteRune(esc)
			default:
				return token.Token{Kind: token.Illegal, Pos: pos},
					&Error{Pos: pos, Msg: fmt.Sprintf("unknown escape \\%c", esc)}
			}
		default:
			sb.WriteRune(r)
		}
	}
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
