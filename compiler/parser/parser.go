// Package parser implements a recursive-descent parser with one-token
// lookahead over the lexer's token stream. The parser owns the symbol
// table: every identifier it turns into a symbol is interned there. The
// names integer and boolean in a type expression become primitive type
// nodes and are not interned.
package parser

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/tetsuo-cpp/descartes/compiler/ast"
	"github.com/tetsuo-cpp/descartes/compiler/lexer"
	"github.com/tetsuo-cpp/descartes/compiler/symbols"
)

type (
	Parser struct {
		lex  *lexer.Lexer
		syms *symbols.Table

		tok lexer.Token
	}

	// Error is a syntax failure. The parser does not recover; the first
	// Error aborts the parse.
	Error struct {
		Msg string
	}
)

func New(lex *lexer.Lexer) *Parser {
	return &Parser{
		lex:  lex,
		syms: symbols.NewTable(),
	}
}

// Symbols exposes the table populated during the parse.
func (p *Parser) Symbols() *symbols.Table { return p.syms }

// Parse consumes the whole token stream and returns the program block.
func (p *Parser) Parse(ctx context.Context) (b *ast.Block, err error) {
	err = p.advance(ctx)
	if err != nil {
		return nil, err
	}

	b, err = p.parseBlock(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "program block")
	}

	err = p.expect(ctx, lexer.Period)
	if err != nil {
		return nil, errors.Wrap(err, "program terminator")
	}

	return b, nil
}

func (p *Parser) advance(ctx context.Context) (err error) {
	p.tok, err = p.lex.Next()
	if err != nil {
		return errors.Wrap(err, "read token")
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("next_token") {
		tr.Printw("next token", "tok", p.tok.String(), "from", loc.Callers(1, 3))
	}

	return nil
}

func (p *Parser) done() bool { return p.tok.Kind == lexer.EOF }

// accept consumes the current token if it has the wanted kind.
func (p *Parser) accept(ctx context.Context, kind lexer.Kind) (bool, error) {
	if p.tok.Kind != kind {
		return false, nil
	}

	return true, p.advance(ctx)
}

func (p *Parser) expect(ctx context.Context, kind lexer.Kind) error {
	ok, err := p.accept(ctx, kind)
	if err != nil {
		return err
	}

	if !ok {
		return errors.Wrap(&Error{Msg: "Unexpected token"}, "want %v, got %v", kind, p.tok)
	}

	return nil
}

// identifier consumes an identifier token and interns its spelling.
func (p *Parser) identifier(ctx context.Context) (symbols.Symbol, error) {
	name := p.tok.Val

	err := p.expect(ctx, lexer.Identifier)
	if err != nil {
		return symbols.None, err
	}

	return p.syms.Intern(name), nil
}

func (p *Parser) parseBlock(ctx context.Context) (b *ast.Block, err error) {
	b = &ast.Block{}

	if p.tok.Kind == lexer.Label {
		b.LabelDecls, err = p.parseLabelDecls(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "label decls")
		}
	}

	if p.tok.Kind == lexer.Const {
		b.ConstDefs, err = p.parseConstDefs(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "const defs")
		}
	}

	if p.tok.Kind == lexer.Type {
		b.TypeDefs, err = p.parseTypeDefs(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "type defs")
		}
	}

	if p.tok.Kind == lexer.Var {
		b.VarDecls, err = p.parseVarDecls(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "var decls")
		}
	}

	if p.tok.Kind == lexer.Function || p.tok.Kind == lexer.Procedure {
		b.Functions, err = p.parseFunctions(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "functions")
		}
	}

	err = p.expect(ctx, lexer.Begin)
	if err != nil {
		return nil, err
	}

	b.Body, err = p.parseCompound(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "body")
	}

	return b, nil
}

func (p *Parser) parseLabelDecls(ctx context.Context) (labels []symbols.Symbol, err error) {
	err = p.expect(ctx, lexer.Label)
	if err != nil {
		return nil, err
	}

	for {
		ok, err := p.accept(ctx, lexer.SemiColon)
		if err != nil {
			return nil, err
		}

		if ok {
			break
		}

		if len(labels) != 0 {
			err = p.expect(ctx, lexer.Comma)
			if err != nil {
				return nil, err
			}
		}

		label, err := p.identifier(ctx)
		if err != nil {
			return nil, err
		}

		labels = append(labels, label)
	}

	return labels, nil
}

// sectionEnd reports whether the current token begins a subsequent
// section of the block, which implicitly terminates the current one.
func (p *Parser) sectionEnd(kinds ...lexer.Kind) bool {
	if p.done() {
		return true
	}

	for _, k := range kinds {
		if p.tok.Kind == k {
			return true
		}
	}

	return false
}

func (p *Parser) parseConstDefs(ctx context.Context) (defs []ast.ConstDef, err error) {
	err = p.expect(ctx, lexer.Const)
	if err != nil {
		return nil, err
	}

	for !p.sectionEnd(lexer.Type, lexer.Var, lexer.Function, lexer.Procedure, lexer.Begin) {
		name, err := p.identifier(ctx)
		if err != nil {
			return nil, err
		}

		err = p.expect(ctx, lexer.Equal)
		if err != nil {
			return nil, err
		}

		expr, err := p.parseConstExpr(ctx)
		if err != nil {
			return nil, err
		}

		err = p.expect(ctx, lexer.SemiColon)
		if err != nil {
			return nil, err
		}

		defs = append(defs, ast.ConstDef{Name: name, Expr: expr})
	}

	return defs, nil
}

func (p *Parser) parseConstExpr(ctx context.Context) (ast.Expr, error) {
	return p.parsePrimary(ctx)
}

func (p *Parser) parseTypeDefs(ctx context.Context) (defs []ast.TypeDef, err error) {
	err = p.expect(ctx, lexer.Type)
	if err != nil {
		return nil, err
	}

	for !p.sectionEnd(lexer.Var, lexer.Function, lexer.Procedure, lexer.Begin) {
		name, err := p.identifier(ctx)
		if err != nil {
			return nil, err
		}

		err = p.expect(ctx, lexer.Equal)
		if err != nil {
			return nil, err
		}

		typ, err := p.parseType(ctx)
		if err != nil {
			return nil, err
		}

		err = p.expect(ctx, lexer.SemiColon)
		if err != nil {
			return nil, err
		}

		defs = append(defs, ast.TypeDef{Name: name, Type: typ})
	}

	return defs, nil
}

func (p *Parser) parseType(ctx context.Context) (t ast.TypeExpr, err error) {
	pointer, err := p.accept(ctx, lexer.Hat)
	if err != nil {
		return nil, err
	}

	switch p.tok.Kind {
	case lexer.Identifier:
		name := p.tok.Val

		err = p.advance(ctx)
		if err != nil {
			return nil, err
		}

		switch name {
		case "integer":
			return ast.IntegerTypeExpr{Pointer: pointer}, nil
		case "boolean":
			return ast.BooleanTypeExpr{Pointer: pointer}, nil
		}

		return ast.AliasTypeExpr{Pointer: pointer, Target: p.syms.Intern(name)}, nil
	case lexer.OpenParen:
		err = p.advance(ctx)
		if err != nil {
			return nil, err
		}

		return p.parseEnum(ctx, pointer)
	case lexer.Record:
		err = p.advance(ctx)
		if err != nil {
			return nil, err
		}

		return p.parseRecord(ctx, pointer)
	}

	return nil, errors.Wrap(&Error{Msg: "Unexpected token"}, "type spec, got %v", p.tok)
}

func (p *Parser) parseEnum(ctx context.Context, pointer bool) (t ast.TypeExpr, err error) {
	var tags []symbols.Symbol

	for {
		ok, err := p.accept(ctx, lexer.CloseParen)
		if err != nil {
			return nil, err
		}

		if ok {
			break
		}

		if len(tags) != 0 {
			err = p.expect(ctx, lexer.Comma)
			if err != nil {
				return nil, err
			}
		}

		tag, err := p.identifier(ctx)
		if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	return ast.EnumTypeExpr{Pointer: pointer, Tags: tags}, nil
}

func (p *Parser) parseRecord(ctx context.Context, pointer bool) (t ast.TypeExpr, err error) {
	var fields []ast.RecordField

	for !p.done() && p.tok.Kind != lexer.End {
		name, err := p.identifier(ctx)
		if err != nil {
			return nil, err
		}

		err = p.expect(ctx, lexer.Colon)
		if err != nil {
			return nil, err
		}

		typeName, err := p.identifier(ctx)
		if err != nil {
			return nil, err
		}

		fields = append(fields, ast.RecordField{Name: name, TypeName: typeName})

		if p.tok.Kind != lexer.End {
			err = p.expect(ctx, lexer.SemiColon)
			if err != nil {
				return nil, err
			}
		}
	}

	err = p.expect(ctx, lexer.End)
	if err != nil {
		return nil, err
	}

	return ast.RecordTypeExpr{Pointer: pointer, Fields: fields}, nil
}

func (p *Parser) parseVarDecls(ctx context.Context) (decls []ast.VarDecl, err error) {
	err = p.expect(ctx, lexer.Var)
	if err != nil {
		return nil, err
	}

	for !p.sectionEnd(lexer.Function, lexer.Procedure, lexer.Begin) {
		name, err := p.identifier(ctx)
		if err != nil {
			return nil, err
		}

		err = p.expect(ctx, lexer.Colon)
		if err != nil {
			return nil, err
		}

		typeName, err := p.identifier(ctx)
		if err != nil {
			return nil, err
		}

		err = p.expect(ctx, lexer.SemiColon)
		if err != nil {
			return nil, err
		}

		decls = append(decls, ast.VarDecl{Name: name, TypeName: typeName})
	}

	return decls, nil
}

func (p *Parser) parseFunctions(ctx context.Context) (fns []*ast.Function, err error) {
	for !p.done() && p.tok.Kind != lexer.Begin {
		var fn *ast.Function

		switch p.tok.Kind {
		case lexer.Procedure:
			err = p.advance(ctx)
			if err != nil {
				return nil, err
			}

			fn, err = p.parseRoutine(ctx, false)
		case lexer.Function:
			err = p.advance(ctx)
			if err != nil {
				return nil, err
			}

			fn, err = p.parseRoutine(ctx, true)
		default:
			return nil, &Error{Msg: "Expected either procedure or function"}
		}

		if err != nil {
			return nil, err
		}

		fns = append(fns, fn)
	}

	return fns, nil
}

func (p *Parser) parseRoutine(ctx context.Context, isFunction bool) (fn *ast.Function, err error) {
	name, err := p.identifier(ctx)
	if err != nil {
		return nil, err
	}

	args, err := p.parseArgsList(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "args of %v", p.syms.Name(name))
	}

	ret := symbols.None

	if isFunction {
		err = p.expect(ctx, lexer.Colon)
		if err != nil {
			return nil, err
		}

		ret, err = p.identifier(ctx)
		if err != nil {
			return nil, err
		}
	}

	err = p.expect(ctx, lexer.SemiColon)
	if err != nil {
		return nil, err
	}

	block, err := p.parseBlock(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block of %v", p.syms.Name(name))
	}

	err = p.expect(ctx, lexer.SemiColon)
	if err != nil {
		return nil, err
	}

	return &ast.Function{Name: name, Args: args, Block: block, Return: ret}, nil
}

func (p *Parser) parseArgsList(ctx context.Context) (args []ast.FunctionArg, err error) {
	err = p.expect(ctx, lexer.OpenParen)
	if err != nil {
		return nil, err
	}

	for !p.done() && p.tok.Kind != lexer.CloseParen {
		if len(args) != 0 {
			err = p.expect(ctx, lexer.Comma)
			if err != nil {
				return nil, err
			}
		}

		isConst, err := p.accept(ctx, lexer.Const)
		if err != nil {
			return nil, err
		}

		name, err := p.identifier(ctx)
		if err != nil {
			return nil, err
		}

		err = p.expect(ctx, lexer.Colon)
		if err != nil {
			return nil, err
		}

		typeName, err := p.identifier(ctx)
		if err != nil {
			return nil, err
		}

		args = append(args, ast.FunctionArg{Name: name, TypeName: typeName, IsConst: isConst})
	}

	err = p.expect(ctx, lexer.CloseParen)
	if err != nil {
		return nil, err
	}

	return args, nil
}

func (e *Error) Error() string { return e.Msg }
