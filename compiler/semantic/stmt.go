package semantic

import (
	"context"

	"tlog.app/go/errors"

	"github.com/tetsuo-cpp/descartes/compiler/ast"
	"github.com/tetsuo-cpp/descartes/compiler/ir"
	"github.com/tetsuo-cpp/descartes/compiler/types"
)

func (a *Analyzer) statement(ctx context.Context, s ast.Stmt) (ir.Stmt, error) {
	switch s := s.(type) {
	case ast.Assignment:
		return a.assignment(ctx, s)
	case ast.Compound:
		return a.compound(ctx, s)
	case ast.If:
		return a.ifStatement(ctx, s)
	case ast.While:
		return a.whileStatement(ctx, s)
	case ast.CallStatement:
		return a.callStatement(ctx, s)
	case ast.For:
		return nil, &Error{Msg: "For statements are not implemented"}
	}

	return nil, errors.New("unsupported statement kind: %T", s)
}

func (a *Analyzer) assignment(ctx context.Context, s ast.Assignment) (ir.Stmt, error) {
	lhs, lhsType, err := a.expr(ctx, s.Lhs)
	if err != nil {
		return nil, err
	}

	rhs, rhsType, err := a.expr(ctx, s.Rhs)
	if err != nil {
		return nil, err
	}

	ok, err := a.compatible(lhsType, rhsType)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, &Error{Msg: "Assignment error"}
	}

	return a.trans.MakeMove(lhs, rhs), nil
}

func (a *Analyzer) compound(ctx context.Context, s ast.Compound) (ir.Stmt, error) {
	stmts := make([]ir.Stmt, 0, len(s.Body))

	for _, c := range s.Body {
		st, err := a.statement(ctx, c)
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, st)
	}

	return a.trans.MakeSequence(stmts), nil
}

func (a *Analyzer) ifStatement(ctx context.Context, s ast.If) (ir.Stmt, error) {
	cond, condType, err := a.expr(ctx, s.Cond)
	if err != nil {
		return nil, err
	}

	if kindOf(condType) != types.KindBoolean {
		return nil, &Error{Msg: "If condition must be boolean"}
	}

	then, err := a.statement(ctx, s.Then)
	if err != nil {
		return nil, err
	}

	var els ir.Stmt

	if s.Else != nil {
		els, err = a.statement(ctx, s.Else)
		if err != nil {
			return nil, err
		}
	}

	return a.trans.MakeIf(cond, then, els), nil
}

func (a *Analyzer) whileStatement(ctx context.Context, s ast.While) (ir.Stmt, error) {
	cond, condType, err := a.expr(ctx, s.Cond)
	if err != nil {
		return nil, err
	}

	if kindOf(condType) != types.KindBoolean {
		return nil, &Error{Msg: "While condition must be a boolean"}
	}

	body, err := a.statement(ctx, s.Body)
	if err != nil {
		return nil, err
	}

	return a.trans.MakeWhile(cond, body), nil
}

func (a *Analyzer) callStatement(ctx context.Context, s ast.CallStatement) (ir.Stmt, error) {
	call, ok := s.Call.(ast.Call)
	if !ok {
		return nil, &Error{Msg: "Call statement with a non-call node within"}
	}

	callExpr, _, err := a.expr(ctx, call)
	if err != nil {
		return nil, err
	}

	irCall, ok := callExpr.(ir.Call)
	if !ok {
		return nil, errors.New("call lowered to %T", callExpr)
	}

	return a.trans.MakeCallStatement(irCall), nil
}
