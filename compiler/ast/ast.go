// Package ast holds the syntax tree produced by the parser. Nodes are
// tagged sums: plain value structs behind the Expr, Stmt and TypeExpr
// interfaces, traversed with type switches.
package ast

import (
	"github.com/tetsuo-cpp/descartes/compiler/symbols"
)

type (
	Expr     interface{}
	Stmt     interface{}
	TypeExpr interface{}

	BinaryOpKind int

	// Expressions.

	StringLiteral struct {
		Val string
	}

	NumberLiteral struct {
		Val int64
	}

	VarRef struct {
		Name symbols.Symbol
	}

	BinaryOp struct {
		Op  BinaryOpKind
		Lhs Expr
		Rhs Expr
	}

	Call struct {
		Func symbols.Symbol
		Args []Expr
	}

	MemberRef struct {
		Base  Expr
		Field symbols.Symbol
	}

	// Statements.

	Assignment struct {
		Lhs Expr
		Rhs Expr
	}

	Compound struct {
		Body []Stmt
	}

	If struct {
		Cond Expr
		Then Stmt
		Else Stmt // optional
	}

	While struct {
		Cond Expr
		Body Stmt
	}

	For struct {
		Control symbols.Symbol
		Begin   Expr
		End     Expr
		Down    bool
		Body    Stmt
	}

	CallStatement struct {
		Call Expr
	}

	// Type expressions. Pointer is the leading '^'.

	IntegerTypeExpr struct {
		Pointer bool
	}

	BooleanTypeExpr struct {
		Pointer bool
	}

	EnumTypeExpr struct {
		Pointer bool
		Tags    []symbols.Symbol
	}

	RecordTypeExpr struct {
		Pointer bool
		Fields  []RecordField
	}

	AliasTypeExpr struct {
		Pointer bool
		Target  symbols.Symbol
	}

	RecordField struct {
		Name     symbols.Symbol
		TypeName symbols.Symbol
	}

	// Declarations.

	ConstDef struct {
		Name symbols.Symbol
		Expr Expr
	}

	TypeDef struct {
		Name symbols.Symbol
		Type TypeExpr
	}

	VarDecl struct {
		Name     symbols.Symbol
		TypeName symbols.Symbol
	}

	FunctionArg struct {
		Name     symbols.Symbol
		TypeName symbols.Symbol
		IsConst  bool
	}

	Function struct {
		Name   symbols.Symbol
		Args   []FunctionArg
		Block  *Block
		Return symbols.Symbol // None for procedures
	}

	// Block is the unit of scoping. The program is a top-level Block
	// terminated by a period.
	Block struct {
		LabelDecls []symbols.Symbol
		ConstDefs  []ConstDef
		TypeDefs   []TypeDef
		VarDecls   []VarDecl
		Functions  []*Function
		Body       Stmt
	}
)

const (
	OpAdd BinaryOpKind = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpEqual
	OpNotEqual
	OpLessThan
	OpGreaterThan
	OpLessThanEqual
	OpGreaterThanEqual
)

var opNames = map[BinaryOpKind]string{
	OpAdd:              "+",
	OpSubtract:         "-",
	OpMultiply:         "*",
	OpDivide:           "/",
	OpEqual:            "=",
	OpNotEqual:         "<>",
	OpLessThan:         "<",
	OpGreaterThan:      ">",
	OpLessThanEqual:    "<=",
	OpGreaterThanEqual: ">=",
}

func (k BinaryOpKind) String() string {
	if n, ok := opNames[k]; ok {
		return n
	}

	return "?"
}
