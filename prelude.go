package pipelang

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pipelang/pipelang/eval"
)

// Prelude returns an environment with the standard host builtins. print
// writes to out.
func Prelude(out io.Writer) *eval.Env {
	env := eval.NewEnv()

	env.Define("print", eval.NewBuiltin("print", func(_ context.Context, _ eval.Value, args []eval.Value) (eval.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.String()
		}

		if _, err := fmt.Fprintln(out, strings.Join(parts, " ")); err != nil {
			return eval.NullValue, err
		}

		if len(args) == 0 {
			return eval.NullValue, nil
		}

		return args[0], nil
	}))

	env.Define("len", stringFn("len", func(s string) eval.Value {
		return eval.Number(utf8.RuneCountInString(s))
	}))

	env.Define("upper", stringFn("upper", func(s string) eval.Value {
		return eval.String(strings.ToUpper(s))
	}))

	env.Define("lower", stringFn("lower", func(s string) eval.Value {
		return eval.String(strings.ToLower(s))
	}))

	env.Define("capitalize", stringFn("capitalize", func(s string) eval.Value {
		if s == "" {
			return eval.String(s)
		}

		first, size := utf8.DecodeRuneInString(s)

		return eval.String(string(unicode.ToUpper(first)) + s[size:])
	}))

	return env
}

func stringFn(name string, fn func(string) eval.Value) *eval.Builtin {
	return eval.NewBuiltin(name, func(_ context.Context, _ eval.Value, args []eval.Value) (eval.Value, error) {
		if len(args) != 1 {
			return eval.NullValue, fmt.Errorf("%s expects one argument, got %d", name, len(args))
		}

		s, ok := args[0].(eval.String)
		if !ok {
			return eval.NullValue, fmt.Errorf("%s expects a string, got %s", name, args[0].Type())
		}

		return fn(string(s)), nil
	})
}
