package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/tetsuo-cpp/descartes/compiler"
	"github.com/tetsuo-cpp/descartes/compiler/ast"
	"github.com/tetsuo-cpp/descartes/compiler/lexer"
	"github.com/tetsuo-cpp/descartes/compiler/parser"
)

func main() {
	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "dump the token stream",
		Action:      tokensAct,
		Args:        cli.Args{},
	}

	astCmd := &cli.Command{
		Name:        "ast",
		Description: "dump the syntax tree",
		Action:      astAct,
		Args:        cli.Args{},
	}

	analyzeCmd := &cli.Command{
		Name:        "analyze",
		Description: "run the full analysis pipeline",
		Action:      analyzeAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "descartes",
		Description: "descartes is the front end of a compiler for a Pascal-like language",
		Commands: []*cli.Command{
			tokensCmd,
			astCmd,
			analyzeCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func tokensAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		err = dumpTokens(ctx, a)
		if err != nil {
			return fail(err, "tokenize %v", a)
		}
	}

	return nil
}

func dumpTokens(ctx context.Context, name string) error {
	text, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "read file")
	}

	lex := lexer.New(text)

	for {
		tok, err := lex.Next()
		if err != nil {
			return err
		}

		if tok.Kind == lexer.EOF {
			return nil
		}

		fmt.Printf("%v\n", tok)
	}
}

func astAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		err = dumpAst(ctx, a)
		if err != nil {
			return fail(err, "parse %v", a)
		}
	}

	return nil
}

func dumpAst(ctx context.Context, name string) error {
	text, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "read file")
	}

	p := parser.New(lexer.New(text))

	prog, err := p.Parse(ctx)
	if err != nil {
		return err
	}

	ast.Fprint(os.Stdout, prog, p.Symbols())

	return nil
}

func analyzeAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		frags, err := compiler.AnalyzeFile(ctx, a)
		if err != nil {
			return fail(err, "analyze %v", a)
		}

		fmt.Printf("%v: %d fragments\n", a, len(frags))
	}

	return nil
}

// fail prints the stage-prefixed diagnostic to stderr and returns the
// error so the process exits non-zero.
func fail(err error, format string, args ...interface{}) error {
	if stage := compiler.Stage(err); stage != "" {
		fmt.Fprintf(os.Stderr, "%s: %v\n", stage, err)
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}

	return errors.Wrap(err, format, args...)
}
