package semantic

import (
	"context"

	"tlog.app/go/errors"

	"github.com/tetsuo-cpp/descartes/compiler/ast"
	"github.com/tetsuo-cpp/descartes/compiler/ir"
	"github.com/tetsuo-cpp/descartes/compiler/types"
)

// expr analyses an expression, returning its lowered form and resolved
// type. A call of a procedure has no type; the nil propagates and
// fails any compatibility check.
func (a *Analyzer) expr(ctx context.Context, e ast.Expr) (ir.Expr, types.Type, error) {
	switch e := e.(type) {
	case ast.StringLiteral:
		return a.trans.MakeName(a.syms.Intern(e.Val)), a.env.StringType(), nil
	case ast.NumberLiteral:
		return a.trans.MakeConst(e.Val), a.env.IntegerType(), nil
	case ast.VarRef:
		return a.varRef(ctx, e)
	case ast.BinaryOp:
		return a.binaryOp(ctx, e)
	case ast.Call:
		return a.call(ctx, e)
	case ast.MemberRef:
		return a.memberRef(ctx, e)
	}

	return nil, nil, errors.New("unsupported expr kind: %T", e)
}

func (a *Analyzer) varRef(ctx context.Context, e ast.VarRef) (ir.Expr, types.Type, error) {
	entry, ok := a.env.Var(e.Name)
	if !ok {
		return nil, nil, errors.Wrap(&Error{Msg: "Referencing unknown variable"}, "%v", a.syms.Name(e.Name))
	}

	addr, err := a.trans.MakeVarRef(entry.Access)
	if err != nil {
		return nil, nil, &Error{Msg: err.Error()}
	}

	return addr, entry.Type, nil
}

func (a *Analyzer) binaryOp(ctx context.Context, e ast.BinaryOp) (ir.Expr, types.Type, error) {
	lhs, lhsType, err := a.expr(ctx, e.Lhs)
	if err != nil {
		return nil, nil, err
	}

	rhs, rhsType, err := a.expr(ctx, e.Rhs)
	if err != nil {
		return nil, nil, err
	}

	switch e.Op {
	case ast.OpAdd, ast.OpSubtract, ast.OpMultiply, ast.OpDivide:
		if kindOf(lhsType) != types.KindInteger || kindOf(rhsType) != types.KindInteger {
			return nil, nil, &Error{Msg: "Expected integer in binary op"}
		}

		op, err := a.trans.MakeArithOp(e.Op, lhs, rhs)
		if err != nil {
			return nil, nil, err
		}

		return op, a.env.IntegerType(), nil
	case ast.OpLessThan, ast.OpGreaterThan, ast.OpLessThanEqual, ast.OpGreaterThanEqual:
		if kindOf(lhsType) != types.KindInteger || kindOf(rhsType) != types.KindInteger {
			return nil, nil, &Error{Msg: "Expected integer in binary op"}
		}

		jump, err := a.trans.MakeCondJump(e.Op, lhs, rhs)
		if err != nil {
			return nil, nil, err
		}

		return jump, a.env.BooleanType(), nil
	case ast.OpEqual, ast.OpNotEqual:
		lhsKind, rhsKind := kindOf(lhsType), kindOf(rhsType)

		if lhsKind != rhsKind {
			return nil, nil, &Error{Msg: "Mismatching types in equality"}
		}

		if lhsKind != types.KindInteger && lhsKind != types.KindString && lhsKind != types.KindBoolean {
			return nil, nil, &Error{Msg: "Expected integer, string or boolean in equality"}
		}

		jump, err := a.trans.MakeCondJump(e.Op, lhs, rhs)
		if err != nil {
			return nil, nil, err
		}

		return jump, a.env.BooleanType(), nil
	}

	return nil, nil, errors.New("unsupported binary op: %v", e.Op)
}

func (a *Analyzer) call(ctx context.Context, e ast.Call) (ir.Expr, types.Type, error) {
	fn, ok := a.env.Func(e.Func)
	if !ok {
		return nil, nil, errors.Wrap(&Error{Msg: "Unknown function"}, "%v", a.syms.Name(e.Func))
	}

	if len(fn.Args) != len(e.Args) {
		return nil, nil, &Error{Msg: "Wrong number of args"}
	}

	args := make([]ir.Expr, 0, len(e.Args))

	for i, arg := range e.Args {
		argExpr, argType, err := a.expr(ctx, arg)
		if err != nil {
			return nil, nil, err
		}

		ok, err := a.compatible(fn.Args[i], argType)
		if err != nil {
			return nil, nil, err
		}

		if !ok {
			return nil, nil, &Error{Msg: "Gave function wrong type"}
		}

		args = append(args, argExpr)
	}

	// fn.Return is nil for procedures; that is fine.
	return ir.Call{Func: e.Func, Args: args}, fn.Return, nil
}

func (a *Analyzer) memberRef(ctx context.Context, e ast.MemberRef) (ir.Expr, types.Type, error) {
	base, baseType, err := a.expr(ctx, e.Base)
	if err != nil {
		return nil, nil, err
	}

	record, ok := baseType.(*types.Record)
	if !ok {
		return nil, nil, &Error{Msg: "Member ref access on non-record type"}
	}

	idx := record.FieldIndex(e.Field)
	if idx < 0 {
		return nil, nil, &Error{Msg: "Can't find the right member on the record type"}
	}

	field, _ := record.Field(e.Field)

	fieldType, ok := a.env.Type(field.TypeName)
	if !ok {
		return nil, nil, &Error{Msg: "Member of unknown type"}
	}

	// Fields live at index * wordSize past the record's address.
	mem, ok := base.(ir.Mem)
	if !ok {
		return nil, nil, &Error{Msg: "Member ref base must be addressable"}
	}

	addr := ir.ArithOp{
		Op:  ir.ArithAdd,
		Lhs: mem.Addr,
		Rhs: ir.Const{Value: int64(idx) * ir.WordSize},
	}

	return ir.Mem{Addr: addr}, fieldType, nil
}

// compatible implements assignment and argument compatibility:
// kind-equality for primitives, identity for records and enums.
func (a *Analyzer) compatible(lhs, rhs types.Type) (bool, error) {
	if lhs == nil || rhs == nil {
		return false, nil
	}

	if lhs.Kind() != rhs.Kind() {
		return false, nil
	}

	switch lhs.Kind() {
	case types.KindInteger, types.KindBoolean, types.KindString:
		return true, nil
	case types.KindRecord, types.KindEnum:
		return lhs == rhs, nil
	}

	// Aliases must have been chased before comparison.
	return false, errors.New("Unreachable")
}

func kindOf(t types.Type) types.Kind {
	if t == nil {
		return types.Kind(-1)
	}

	return t.Kind()
}
