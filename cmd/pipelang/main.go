package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pipelang/pipelang"
)

func main() {
	os.Exit(runWithArgs(os.Args[1:], os.Stdout, os.Stderr))
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pipelang", flag.ContinueOnError)
	fs.SetOutput(stderr)

	expr := fs.String("e", "", "inline source instead of a file argument")
	run := fs.Bool("run", false, "evaluate the program instead of printing desugared source")
	inline := fs.Bool("inline", false, "eliminate inline-arrow stage calls by substitution")
	verbose := fs.Bool("verbose", false, "log processing steps")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: pipelang [flags] [file]\n\n")
		fmt.Fprintln(stderr, "Desugars pipeline-operator source to plain calls, or runs it with -run.")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := zerolog.New(io.Discard)
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger()
	}

	src, name, err := readSource(*expr, fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)

		if name == "" {
			fs.Usage()
			return 2
		}

		return 1
	}

	logger.Info().Str("source", name).Bool("run", *run).Msg("processing")

	var opts []pipelang.Option
	if *inline {
		opts = append(opts, pipelang.WithInlineArrowBodies())
	}

	if *run {
		value, err := pipelang.Run(context.Background(), src, pipelang.Prelude(stdout), opts...)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}

		fmt.Fprintln(stdout, value.String())

		return 0
	}

	out, err := pipelang.DesugarString(src, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprint(stdout, out)

	return 0
}

func readSource(expr string, args []string) (src, name string, err error) {
	if expr != "" {
		if len(args) != 0 {
			return "", "", errors.New("-e and a file argument are mutually exclusive")
		}

		return expr, "-e", nil
	}

	if len(args) != 1 {
		return "", "", errors.New("exactly one source file argument is required")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", args[0], errors.Wrapf(err, "read %s", args[0])
	}

	return string(data), args[0], nil
}
