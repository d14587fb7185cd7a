// Package translate builds IR for the semantic analyzer: fresh labels,
// the stack of activation levels, static-link frame access and the
// conditional-jump lowering of control flow.
package translate

import (
	"strconv"

	"tlog.app/go/errors"

	"github.com/tetsuo-cpp/descartes/compiler/ast"
	"github.com/tetsuo-cpp/descartes/compiler/ir"
	"github.com/tetsuo-cpp/descartes/compiler/symbols"
)

type Translator struct {
	syms *symbols.Table

	// fp is the distinguished initial-frame-pointer name. The spelling
	// cannot be lexed, so it never collides with a program identifier.
	fp symbols.Symbol

	labelCount int
	levels     []*ir.Level
	frags      []ir.Fragment
}

func New(tab *symbols.Table) *Translator {
	return &Translator{
		syms: tab,
		fp:   tab.Intern("$fp"),
	}
}

// MakeLabel synthesizes a fresh label symbol L<n>.
func (t *Translator) MakeLabel() symbols.Symbol {
	n := t.labelCount
	t.labelCount++

	return t.syms.Intern("L" + strconv.Itoa(n))
}

// EnterLevel opens an activation record for a routine and allocates
// the static link as its first local.
func (t *Translator) EnterLevel(name symbols.Symbol) *ir.Level {
	lvl := ir.NewLevel(name)
	lvl.AllocLocal() // static link

	t.levels = append(t.levels, lvl)

	return lvl
}

func (t *Translator) ExitLevel() {
	t.levels = t.levels[:len(t.levels)-1]
}

// Level is the innermost activation record under analysis.
func (t *Translator) Level() *ir.Level {
	return t.levels[len(t.levels)-1]
}

// PushFragment records a lowered routine body.
func (t *Translator) PushFragment(lvl *ir.Level, body ir.Stmt) {
	t.frags = append(t.frags, ir.Fragment{Level: lvl, Body: body})
}

// Fragments returns the lowered routine bodies in lowering order.
func (t *Translator) Fragments() []ir.Fragment { return t.frags }

// MakeVarRef computes the address of an access from the innermost
// frame, following static links through every level that does not own
// it.
func (t *Translator) MakeVarRef(access ir.Access) (ir.Expr, error) {
	frame := ir.Expr(ir.Name{Sym: t.fp})

	for i := len(t.levels) - 1; i >= 0; i-- {
		lvl := t.levels[i]

		if lvl == access.Level {
			return ir.Mem{Addr: ir.ArithOp{
				Op:  ir.ArithAdd,
				Lhs: frame,
				Rhs: ir.Const{Value: access.Offset},
			}}, nil
		}

		// Not this frame: the first local is the static link to the
		// enclosing one.
		staticLink := lvl.Locals[0]

		frame = ir.Mem{Addr: ir.ArithOp{
			Op:  ir.ArithAdd,
			Lhs: frame,
			Rhs: ir.Const{Value: staticLink.Offset},
		}}
	}

	return nil, errors.New("Could not find frame owning access")
}

// MakeIf lowers a conditional. A CondExpr condition already carries
// its branch and labels; any other condition is compared against 1.
func (t *Translator) MakeIf(cond ir.Expr, then, els ir.Stmt) ir.Stmt {
	jump, ok := condJump(cond)
	if !ok {
		jump = ir.CondJump{
			Op:   ir.RelEqual,
			Lhs:  cond,
			Rhs:  ir.Const{Value: 1},
			Then: t.MakeLabel(),
			Else: t.MakeLabel(),
		}
	}

	seq := []ir.Stmt{
		jump,
		ir.Label{Label: jump.Then},
		then,
	}

	if els != nil {
		seq = append(seq,
			ir.Label{Label: jump.Else},
			els,
		)
	}

	return ir.Sequence{Stmts: seq}
}

// MakeWhile lowers a loop: a condition label on top, the branch, the
// body, a jump back to the condition, and the else label as the exit.
func (t *Translator) MakeWhile(cond ir.Expr, body ir.Stmt) ir.Stmt {
	jump, ok := condJump(cond)
	if !ok {
		jump = ir.CondJump{
			Op:   ir.RelEqual,
			Lhs:  cond,
			Rhs:  ir.Const{Value: 1},
			Then: t.MakeLabel(),
			Else: t.MakeLabel(),
		}
	}

	condLabel := t.MakeLabel()

	return ir.Sequence{Stmts: []ir.Stmt{
		ir.Label{Label: condLabel},
		jump,
		ir.Label{Label: jump.Then},
		body,
		ir.Jump{Target: condLabel},
		ir.Label{Label: jump.Else},
	}}
}

// MakeArithOp builds an arithmetic node from an AST operator.
func (t *Translator) MakeArithOp(op ast.BinaryOpKind, lhs, rhs ir.Expr) (ir.Expr, error) {
	k, ok := arithOps[op]
	if !ok {
		return nil, errors.New("invalid arith op: %v", op)
	}

	return ir.ArithOp{Op: k, Lhs: lhs, Rhs: rhs}, nil
}

// MakeCondJump allocates fresh then/else labels and wraps the branch
// in a CondExpr.
func (t *Translator) MakeCondJump(op ast.BinaryOpKind, lhs, rhs ir.Expr) (ir.Expr, error) {
	k, ok := relOps[op]
	if !ok {
		return nil, errors.New("invalid rel op: %v", op)
	}

	return ir.CondExpr{Jump: ir.CondJump{
		Op:   k,
		Lhs:  lhs,
		Rhs:  rhs,
		Then: t.MakeLabel(),
		Else: t.MakeLabel(),
	}}, nil
}

func (t *Translator) MakeMove(dst, src ir.Expr) ir.Stmt {
	return ir.Move{Dst: dst, Src: src}
}

func (t *Translator) MakeSequence(stmts []ir.Stmt) ir.Stmt {
	return ir.Sequence{Stmts: stmts}
}

func (t *Translator) MakeCallStatement(call ir.Call) ir.Stmt {
	return ir.CallStatement{Call: call}
}

func (t *Translator) MakeName(sym symbols.Symbol) ir.Expr {
	return ir.Name{Sym: sym}
}

func (t *Translator) MakeConst(value int64) ir.Expr {
	return ir.Const{Value: value}
}

var arithOps = map[ast.BinaryOpKind]ir.ArithOpKind{
	ast.OpAdd:      ir.ArithAdd,
	ast.OpSubtract: ir.ArithSubtract,
	ast.OpMultiply: ir.ArithMultiply,
	ast.OpDivide:   ir.ArithDivide,
}

var relOps = map[ast.BinaryOpKind]ir.RelOpKind{
	ast.OpEqual:            ir.RelEqual,
	ast.OpNotEqual:         ir.RelNotEqual,
	ast.OpLessThan:         ir.RelLessThan,
	ast.OpGreaterThan:      ir.RelGreaterThan,
	ast.OpLessThanEqual:    ir.RelLessThanEqual,
	ast.OpGreaterThanEqual: ir.RelGreaterThanEqual,
}

func condJump(cond ir.Expr) (ir.CondJump, bool) {
	ce, ok := cond.(ir.CondExpr)
	if !ok {
		return ir.CondJump{}, false
	}

	return ce.Jump, true
}
