package token

import "fmt"

// Kind identifies a lexical token class.
type Kind int

const (
	EOF Kind = iota
	Illegal

	Ident
	String
	Number

	// Keywords.
	Let
	Await
	True
	False
	Null

	// Operators and delimiters.
	Pipe  // |>
	Arrow // =>
	Dot
	LParen
	RParen
	Comma
	Semicolon
	Assign
	Plus
	Minus
	Star
	Slash
)

var kindNames = map[Kind]string{
	EOF:       "EOF",
	Illegal:   "illegal",
	Ident:     "identifier",
	String:    "string",
	Number:    "number",
	Let:       "let",
	Await:     "await",
	True:      "true",
	False:     "false",
	Null:      "null",
	Pipe:      "|>",
	Arrow:     "=>",
	Dot:       ".",
	LParen:    "(",
	RParen:    ")",
	Comma:     ",",
	Semicolon: ";",
	Assign:    "=",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
}

// Implementation of fmt.Stringer.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"let":   Let,
	"await": Await,
	"true":  True,
	"false": False,
	"null":  Null,
}

// Lookup maps an identifier to its keyword kind, or Ident.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}

	return Ident
}

// Pos is a source position. The zero Pos is "no position".
type Pos struct {
	Line   int
	Column int
	Offset int
}

// IsValid reports whether the position is set.
func (p Pos) IsValid() bool { return p.Line > 0 }

// Implementation of fmt.Stringer.
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}

	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical token with its source position.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Pos
}

// Implementation of fmt.Stringer.
func (t Token) String() string {
	switch t.Kind {
	case Ident, String, Number, Illegal:
		return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
	default:
		return t.Kind.String()
	}
}
