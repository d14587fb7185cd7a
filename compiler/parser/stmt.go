package parser

import (
	"context"

	"tlog.app/go/errors"

	"github.com/tetsuo-cpp/descartes/compiler/ast"
	"github.com/tetsuo-cpp/descartes/compiler/lexer"
)

func (p *Parser) parseStatement(ctx context.Context) (s ast.Stmt, err error) {
	for _, c := range []struct {
		kind  lexer.Kind
		parse func(context.Context) (ast.Stmt, error)
	}{
		{lexer.Begin, p.parseCompound},
		{lexer.If, p.parseIf},
		{lexer.Case, p.parseCase},
		{lexer.Repeat, p.parseRepeat},
		{lexer.While, p.parseWhile},
		{lexer.For, p.parseFor},
		{lexer.With, p.parseWith},
	} {
		ok, err := p.accept(ctx, c.kind)
		if err != nil {
			return nil, err
		}

		if ok {
			return c.parse(ctx)
		}
	}

	return p.parseIdentifierStatement(ctx)
}

func (p *Parser) parseCompound(ctx context.Context) (s ast.Stmt, err error) {
	var body []ast.Stmt

	for {
		ok, err := p.accept(ctx, lexer.End)
		if err != nil {
			return nil, err
		}

		if ok {
			break
		}

		// A trailing semicolon before end is legal.
		ok, err = p.accept(ctx, lexer.SemiColon)
		if err != nil {
			return nil, err
		}

		if ok {
			ok, err = p.accept(ctx, lexer.End)
			if err != nil {
				return nil, err
			}

			if ok {
				break
			}
		}

		st, err := p.parseStatement(ctx)
		if err != nil {
			return nil, err
		}

		body = append(body, st)
	}

	return ast.Compound{Body: body}, nil
}

func (p *Parser) parseIf(ctx context.Context) (s ast.Stmt, err error) {
	cond, err := p.parseExpr(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "if cond")
	}

	err = p.expect(ctx, lexer.Then)
	if err != nil {
		return nil, err
	}

	then, err := p.parseStatement(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "then")
	}

	var els ast.Stmt

	ok, err := p.accept(ctx, lexer.Else)
	if err != nil {
		return nil, err
	}

	if ok {
		els, err = p.parseStatement(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "else")
		}
	}

	return ast.If{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseWhile(ctx context.Context) (s ast.Stmt, err error) {
	cond, err := p.parseExpr(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "while cond")
	}

	err = p.expect(ctx, lexer.Do)
	if err != nil {
		return nil, err
	}

	body, err := p.parseStatement(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "while body")
	}

	return ast.While{Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor(ctx context.Context) (s ast.Stmt, err error) {
	control, err := p.identifier(ctx)
	if err != nil {
		return nil, err
	}

	err = p.expect(ctx, lexer.Assign)
	if err != nil {
		return nil, err
	}

	begin, err := p.parseExpr(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "for begin")
	}

	to, err := p.accept(ctx, lexer.To)
	if err != nil {
		return nil, err
	}

	if !to {
		err = p.expect(ctx, lexer.DownTo)
		if err != nil {
			return nil, err
		}
	}

	end, err := p.parseExpr(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "for end")
	}

	err = p.expect(ctx, lexer.Do)
	if err != nil {
		return nil, err
	}

	body, err := p.parseStatement(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "for body")
	}

	return ast.For{Control: control, Begin: begin, End: end, Down: !to, Body: body}, nil
}

// parseCase consumes the case statement structurally, tracking the
// keywords that open a matching end, and parses it as a no-op.
func (p *Parser) parseCase(ctx context.Context) (s ast.Stmt, err error) {
	depth := 1

	for depth > 0 {
		if p.done() {
			return nil, errors.Wrap(&Error{Msg: "Unexpected token"}, "unterminated case")
		}

		switch p.tok.Kind {
		case lexer.Begin, lexer.Case, lexer.Record:
			depth++
		case lexer.End:
			depth--
		}

		err = p.advance(ctx)
		if err != nil {
			return nil, err
		}
	}

	return ast.Compound{}, nil
}

// parseRepeat consumes the body and condition and parses them as a
// no-op.
func (p *Parser) parseRepeat(ctx context.Context) (s ast.Stmt, err error) {
	for {
		ok, err := p.accept(ctx, lexer.Until)
		if err != nil {
			return nil, err
		}

		if ok {
			break
		}

		ok, err = p.accept(ctx, lexer.SemiColon)
		if err != nil {
			return nil, err
		}

		if ok {
			continue
		}

		_, err = p.parseStatement(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "repeat body")
		}
	}

	_, err = p.parseExpr(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "until cond")
	}

	return ast.Compound{}, nil
}

// parseWith consumes the record designator and body and parses them as
// a no-op.
func (p *Parser) parseWith(ctx context.Context) (s ast.Stmt, err error) {
	_, err = p.parseExpr(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "with designator")
	}

	err = p.expect(ctx, lexer.Do)
	if err != nil {
		return nil, err
	}

	_, err = p.parseStatement(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "with body")
	}

	return ast.Compound{}, nil
}

// parseIdentifierStatement parses either an assignment or an entire
// call statement, depending on whether ':=' follows the expression.
func (p *Parser) parseIdentifierStatement(ctx context.Context) (s ast.Stmt, err error) {
	expr, err := p.parseExpr(ctx)
	if err != nil {
		return nil, err
	}

	ok, err := p.accept(ctx, lexer.Assign)
	if err != nil {
		return nil, err
	}

	if ok {
		rhs, err := p.parseExpr(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "assignment rhs")
		}

		return ast.Assignment{Lhs: expr, Rhs: rhs}, nil
	}

	return ast.CallStatement{Call: expr}, nil
}
