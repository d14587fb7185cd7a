// Package semantic walks the AST, populating the scoped Environment
// and checking types, and drives the translator to build IR for each
// routine body as it goes.
package semantic

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/tetsuo-cpp/descartes/compiler/ast"
	"github.com/tetsuo-cpp/descartes/compiler/ir"
	"github.com/tetsuo-cpp/descartes/compiler/symbols"
	"github.com/tetsuo-cpp/descartes/compiler/translate"
	"github.com/tetsuo-cpp/descartes/compiler/types"
)

type (
	Analyzer struct {
		syms  *symbols.Table
		env   *types.Env
		trans *translate.Translator
	}

	// Error is a semantic failure. The first Error aborts analysis; no
	// fragments are returned.
	Error struct {
		Msg string
	}
)

// New builds an analyzer over the table the parser populated. The
// Environment interns and binds the primitive type names up front.
func New(tab *symbols.Table) *Analyzer {
	return &Analyzer{
		syms:  tab,
		env:   types.NewEnv(tab),
		trans: translate.New(tab),
	}
}

// Analyse type-checks the program block and returns the lowered
// fragments, nested routines first, the top-level body last.
func (a *Analyzer) Analyse(ctx context.Context, prog *ast.Block) (frags []ir.Fragment, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "semantic: analyse")
	defer tr.Finish("err", &err)

	a.env.EnterScope()
	defer a.env.ExitScope()

	lvl := a.trans.EnterLevel(a.syms.Intern("main"))
	defer a.trans.ExitLevel()

	body, err := a.block(ctx, prog)
	if err != nil {
		return nil, err
	}

	// An empty top-level body contributes no fragment.
	if seq, ok := body.(ir.Sequence); !ok || len(seq.Stmts) != 0 {
		a.trans.PushFragment(lvl, body)
	}

	frags = a.trans.Fragments()

	tr.Printw("analysed", "fragments", len(frags))

	return frags, nil
}

// block analyses one block's sections in order. The caller owns the
// scope and level the block populates.
func (a *Analyzer) block(ctx context.Context, b *ast.Block) (body ir.Stmt, err error) {
	err = a.constDefs(ctx, b.ConstDefs)
	if err != nil {
		return nil, err
	}

	err = a.typeDefs(ctx, b.TypeDefs)
	if err != nil {
		return nil, err
	}

	err = a.varDecls(ctx, b.VarDecls)
	if err != nil {
		return nil, err
	}

	err = a.functions(ctx, b.Functions)
	if err != nil {
		return nil, err
	}

	compound, ok := b.Body.(ast.Compound)
	if !ok {
		return nil, &Error{Msg: "Block body must be a compound statement"}
	}

	stmts := make([]ir.Stmt, 0, len(compound.Body))

	for _, s := range compound.Body {
		st, err := a.statement(ctx, s)
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, st)
	}

	return a.trans.MakeSequence(stmts), nil
}

func (a *Analyzer) constDefs(ctx context.Context, defs []ast.ConstDef) error {
	for _, cd := range defs {
		_, typ, err := a.expr(ctx, cd.Expr)
		if err != nil {
			return errors.Wrap(err, "const %v", a.syms.Name(cd.Name))
		}

		entry := types.VarEntry{
			Type:   typ,
			Access: a.trans.Level().AllocLocal(),
		}

		if !a.env.SetVar(cd.Name, entry) {
			return &Error{Msg: "Const already defined"}
		}
	}

	return nil
}

func (a *Analyzer) typeDefs(ctx context.Context, defs []ast.TypeDef) error {
	for _, td := range defs {
		resolved, err := a.resolveTypeExpr(td.Type)
		if err != nil {
			return errors.Wrap(err, "type %v", a.syms.Name(td.Name))
		}

		if !a.env.SetType(td.Name, resolved) {
			return &Error{Msg: "Type already defined"}
		}
	}

	return nil
}

// resolveTypeExpr turns a syntactic type into its resolved form,
// chasing one level of aliasing through the environment.
func (a *Analyzer) resolveTypeExpr(t ast.TypeExpr) (types.Type, error) {
	switch t := t.(type) {
	case ast.IntegerTypeExpr:
		return a.env.IntegerType(), nil
	case ast.BooleanTypeExpr:
		return a.env.BooleanType(), nil
	case ast.EnumTypeExpr:
		return &types.Enum{Tags: t.Tags}, nil
	case ast.RecordTypeExpr:
		fields := make([]types.Field, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = types.Field{Name: f.Name, TypeName: f.TypeName}
		}

		return &types.Record{Fields: fields}, nil
	case ast.AliasTypeExpr:
		resolved, ok := a.env.Type(t.Target)
		if !ok {
			return nil, &Error{Msg: "Could not resolve type"}
		}

		return resolved, nil
	}

	return nil, errors.New("unsupported type expr: %T", t)
}

func (a *Analyzer) varDecls(ctx context.Context, decls []ast.VarDecl) error {
	for _, vd := range decls {
		typ, ok := a.env.Type(vd.TypeName)
		if !ok {
			return &Error{Msg: "Could not find type of variable"}
		}

		entry := types.VarEntry{
			Type:   typ,
			Access: a.trans.Level().AllocLocal(),
		}

		if !a.env.SetVar(vd.Name, entry) {
			return &Error{Msg: "Variable already defined"}
		}
	}

	return nil
}

// functions runs two passes: signatures first, so that bodies can call
// forward and recursively, then the bodies themselves.
func (a *Analyzer) functions(ctx context.Context, fns []*ast.Function) error {
	for _, f := range fns {
		var ret types.Type

		if f.Return != symbols.None {
			t, ok := a.env.Type(f.Return)
			if !ok {
				return &Error{Msg: "Could not resolve return type"}
			}

			ret = t
		}

		args := make([]types.Type, len(f.Args))

		for i, arg := range f.Args {
			t, ok := a.env.Type(arg.TypeName)
			if !ok {
				return &Error{Msg: "Could not resolve type of argument"}
			}

			args[i] = t
		}

		a.env.SetFunc(f.Name, &types.FuncEntry{Fn: f, Return: ret, Args: args})
	}

	for _, f := range fns {
		err := a.functionBody(ctx, f)
		if err != nil {
			return errors.Wrap(err, "function %v", a.syms.Name(f.Name))
		}
	}

	return nil
}

func (a *Analyzer) functionBody(ctx context.Context, f *ast.Function) error {
	a.env.EnterScope()
	defer a.env.ExitScope()

	lvl := a.trans.EnterLevel(f.Name)
	defer a.trans.ExitLevel()

	entry, _ := a.env.Func(f.Name)

	for i, arg := range f.Args {
		v := types.VarEntry{
			Type:   entry.Args[i],
			Access: lvl.AllocLocal(),
		}

		if !a.env.SetVar(arg.Name, v) {
			return &Error{Msg: "Argument already defined"}
		}
	}

	// A function's own name doubles as its result variable; an argument
	// spelled like the function shadows it, which Pascal forbids.
	if entry.Return != nil {
		v := types.VarEntry{
			Type:   entry.Return,
			Access: lvl.AllocLocal(),
		}

		if !a.env.SetVar(f.Name, v) {
			return &Error{Msg: "Return value already defined"}
		}
	}

	body, err := a.block(ctx, f.Block)
	if err != nil {
		return err
	}

	a.trans.PushFragment(lvl, body)

	tlog.SpanFromContext(ctx).Printw("lowered function", "name", a.syms.Name(f.Name), "locals", len(lvl.Locals))

	return nil
}

func (e *Error) Error() string { return e.Msg }
