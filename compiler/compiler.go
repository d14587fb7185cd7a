// Package compiler wires the analysis pipeline together: lexer,
// parser, semantic analysis and translation to IR fragments.
package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/tetsuo-cpp/descartes/compiler/ir"
	"github.com/tetsuo-cpp/descartes/compiler/lexer"
	"github.com/tetsuo-cpp/descartes/compiler/parser"
	"github.com/tetsuo-cpp/descartes/compiler/semantic"
)

func AnalyzeFile(ctx context.Context, name string) ([]ir.Fragment, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Analyze(ctx, name, text)
}

// Analyze runs the full pipeline over one source buffer. The first
// failure aborts; no fragments are returned on error.
func Analyze(ctx context.Context, name string, text []byte) (frags []ir.Fragment, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "analyze", "name", name)
	defer tr.Finish("err", &err)

	p := parser.New(lexer.New(text))

	prog, err := p.Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse")
	}

	frags, err = semantic.New(p.Symbols()).Analyse(ctx, prog)
	if err != nil {
		return nil, errors.Wrap(err, "analyse")
	}

	return frags, nil
}

// Stage names the pipeline stage a failure came from, or returns the
// empty string for errors outside the pipeline (such as I/O).
func Stage(err error) string {
	var (
		lexErr *lexer.Error
		parErr *parser.Error
		semErr *semantic.Error
	)

	switch {
	case errors.As(err, &lexErr):
		return "LEXER"
	case errors.As(err, &parErr):
		return "PARSER"
	case errors.As(err, &semErr):
		return "SEMANTIC"
	}

	return ""
}
