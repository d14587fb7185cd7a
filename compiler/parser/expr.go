package parser

import (
	"context"
	"strconv"

	"tlog.app/go/errors"

	"github.com/tetsuo-cpp/descartes/compiler/ast"
	"github.com/tetsuo-cpp/descartes/compiler/lexer"
)

// Precedence climbing, all levels left-associative:
// equality > relational > additive > multiplicative > postfix > primary.

func (p *Parser) parseExpr(ctx context.Context) (ast.Expr, error) {
	return p.parseEquality(ctx)
}

var binaryOps = map[lexer.Kind]ast.BinaryOpKind{
	lexer.Equal:            ast.OpEqual,
	lexer.NotEqual:         ast.OpNotEqual,
	lexer.LessThan:         ast.OpLessThan,
	lexer.GreaterThan:      ast.OpGreaterThan,
	lexer.LessThanEqual:    ast.OpLessThanEqual,
	lexer.GreaterThanEqual: ast.OpGreaterThanEqual,
	lexer.Add:              ast.OpAdd,
	lexer.Subtract:         ast.OpSubtract,
	lexer.Multiply:         ast.OpMultiply,
	lexer.Divide:           ast.OpDivide,
}

func (p *Parser) parseBinary(
	ctx context.Context,
	operand func(context.Context) (ast.Expr, error),
	kinds ...lexer.Kind,
) (lhs ast.Expr, err error) {
	lhs, err = operand(ctx)
	if err != nil {
		return nil, err
	}

	for {
		var op ast.BinaryOpKind

		ok := false

		for _, k := range kinds {
			if p.tok.Kind == k {
				op, ok = binaryOps[k], true
				break
			}
		}

		if !ok {
			return lhs, nil
		}

		err = p.advance(ctx)
		if err != nil {
			return nil, err
		}

		rhs, err := operand(ctx)
		if err != nil {
			return nil, err
		}

		lhs = ast.BinaryOp{Op: op, Lhs: lhs, Rhs: rhs}
	}
}

func (p *Parser) parseEquality(ctx context.Context) (ast.Expr, error) {
	return p.parseBinary(ctx, p.parseRelational, lexer.Equal, lexer.NotEqual)
}

func (p *Parser) parseRelational(ctx context.Context) (ast.Expr, error) {
	return p.parseBinary(ctx, p.parseAdditive,
		lexer.LessThan, lexer.GreaterThan, lexer.LessThanEqual, lexer.GreaterThanEqual)
}

func (p *Parser) parseAdditive(ctx context.Context) (ast.Expr, error) {
	return p.parseBinary(ctx, p.parseMultiplicative, lexer.Add, lexer.Subtract)
}

func (p *Parser) parseMultiplicative(ctx context.Context) (ast.Expr, error) {
	return p.parseBinary(ctx, p.parsePostfix, lexer.Multiply, lexer.Divide)
}

func (p *Parser) parsePostfix(ctx context.Context) (e ast.Expr, err error) {
	e, err = p.parsePrimary(ctx)
	if err != nil {
		return nil, err
	}

	for {
		ok, err := p.accept(ctx, lexer.Period)
		if err != nil {
			return nil, err
		}

		if !ok {
			return e, nil
		}

		field, err := p.identifier(ctx)
		if err != nil {
			return nil, err
		}

		e = ast.MemberRef{Base: e, Field: field}
	}
}

func (p *Parser) parsePrimary(ctx context.Context) (e ast.Expr, err error) {
	switch p.tok.Kind {
	case lexer.String:
		val := p.tok.Val

		err = p.advance(ctx)
		if err != nil {
			return nil, err
		}

		return ast.StringLiteral{Val: val}, nil
	case lexer.Number:
		val, convErr := strconv.ParseInt(p.tok.Val, 10, 64)
		if convErr != nil {
			return nil, errors.Wrap(&Error{Msg: "Conversion error"}, "%v", p.tok.Val)
		}

		err = p.advance(ctx)
		if err != nil {
			return nil, err
		}

		return ast.NumberLiteral{Val: val}, nil
	case lexer.Identifier:
		name := p.tok.Val

		err = p.advance(ctx)
		if err != nil {
			return nil, err
		}

		ok, err := p.accept(ctx, lexer.OpenParen)
		if err != nil {
			return nil, err
		}

		if !ok {
			return ast.VarRef{Name: p.syms.Intern(name)}, nil
		}

		var args []ast.Expr

		for {
			ok, err := p.accept(ctx, lexer.CloseParen)
			if err != nil {
				return nil, err
			}

			if ok {
				break
			}

			if len(args) != 0 {
				err = p.expect(ctx, lexer.Comma)
				if err != nil {
					return nil, err
				}
			}

			arg, err := p.parseExpr(ctx)
			if err != nil {
				return nil, errors.Wrap(err, "call arg")
			}

			args = append(args, arg)
		}

		return ast.Call{Func: p.syms.Intern(name), Args: args}, nil
	}

	return nil, errors.Wrap(&Error{Msg: "Invalid primary expr"}, "got %v", p.tok)
}
