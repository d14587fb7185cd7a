package semantic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetsuo-cpp/descartes/compiler/ast"
	"github.com/tetsuo-cpp/descartes/compiler/ir"
	"github.com/tetsuo-cpp/descartes/compiler/lexer"
	"github.com/tetsuo-cpp/descartes/compiler/parser"
)

func analyse(t *testing.T, src string) ([]ir.Fragment, error) {
	t.Helper()

	ctx := context.Background()

	p := parser.New(lexer.New([]byte(src)))

	prog, err := p.Parse(ctx)
	require.NoError(t, err)

	return New(p.Symbols()).Analyse(ctx, prog)
}

func requireSemanticError(t *testing.T, src, msg string) {
	t.Helper()

	frags, err := analyse(t, src)
	require.Error(t, err)
	require.Nil(t, frags)

	var semErr *Error
	require.ErrorAs(t, err, &semErr)
	require.Equal(t, msg, semErr.Msg)
}

func TestEmptyProgram(t *testing.T) {
	frags, err := analyse(t, "begin end.")
	require.NoError(t, err)
	require.Empty(t, frags)
}

func TestAssignments(t *testing.T) {
	frags, err := analyse(t, "var x: integer; y: integer; begin x := 0; y := 1 end.")
	require.NoError(t, err)
	require.Len(t, frags, 1)

	seq := frags[0].Body.(ir.Sequence)
	require.Len(t, seq.Stmts, 2)

	for i, want := range []int64{0, 1} {
		move := seq.Stmts[i].(ir.Move)
		require.Equal(t, ir.Const{Value: want}, move.Src)

		_, ok := move.Dst.(ir.Mem)
		require.True(t, ok)
	}
}

func TestAssignmentTypeError(t *testing.T) {
	requireSemanticError(t, "var x: integer; begin x := 'foo' end.", "Assignment error")
}

func TestRecordMembers(t *testing.T) {
	frags, err := analyse(t, `
type tperson = record
  name: string;
  age: integer
end;
var p: tperson;
begin
  p.name := 'Alex';
  p.age := 26
end.`)
	require.NoError(t, err)
	require.Len(t, frags, 1)

	seq := frags[0].Body.(ir.Sequence)
	require.Len(t, seq.Stmts, 2)

	// p.age lives one word past p.name.
	age := seq.Stmts[1].(ir.Move).Dst.(ir.Mem)
	off := age.Addr.(ir.ArithOp).Rhs.(ir.Const)
	require.Equal(t, int64(ir.WordSize), off.Value)
}

func TestFib(t *testing.T) {
	frags, err := analyse(t, `
function fib(x: integer): integer;
begin
  if x = 0 then
    fib := 0
  else if x = 1 then
    fib := 1
  else
    fib := fib(x-1) + fib(x-2)
end;
begin
  fib(10)
end.`)
	require.NoError(t, err)
	require.Len(t, frags, 2)

	require.GreaterOrEqual(t, countCondJumps(frags[0].Body), 2)

	top := frags[1].Body.(ir.Sequence)
	call := top.Stmts[0].(ir.CallStatement)
	require.Equal(t, []ir.Expr{ir.Const{Value: 10}}, call.Call.Args)
}

func countCondJumps(s ir.Stmt) (n int) {
	switch s := s.(type) {
	case ir.Sequence:
		for _, c := range s.Stmts {
			n += countCondJumps(c)
		}
	case ir.CondJump:
		n++
	}

	return n
}

func TestUnknownFunction(t *testing.T) {
	requireSemanticError(t, "begin unknownfunction() end.", "Unknown function")
}

func TestUnknownVariable(t *testing.T) {
	requireSemanticError(t, "begin x := 1 end.", "Referencing unknown variable")
}

func TestConstDefs(t *testing.T) {
	frags, err := analyse(t, "const x = 1; var y: integer; begin y := x end.")
	require.NoError(t, err)
	require.Len(t, frags, 1)
}

func TestDuplicates(t *testing.T) {
	requireSemanticError(t, "const x = 1; x = 2; begin end.", "Const already defined")
	requireSemanticError(t, "type t = integer; t = boolean; begin end.", "Type already defined")
	requireSemanticError(t, "var x: integer; x: integer; begin end.", "Variable already defined")
	requireSemanticError(t, `
function f(a: integer, a: integer): integer;
begin
end;
begin
end.`, "Argument already defined")
	requireSemanticError(t, `
function f(f: integer): integer;
begin
end;
begin
end.`, "Return value already defined")
}

func TestUnresolvedTypes(t *testing.T) {
	requireSemanticError(t, "type t = tunknown; begin end.", "Could not resolve type")
	requireSemanticError(t, "var x: tunknown; begin end.", "Could not find type of variable")
	requireSemanticError(t, `
function f(): tunknown;
begin
end;
begin
end.`, "Could not resolve return type")
	requireSemanticError(t, `
procedure p(x: tunknown);
begin
end;
begin
end.`, "Could not resolve type of argument")
}

func TestConditionMustBeBoolean(t *testing.T) {
	requireSemanticError(t, "var x: integer; begin if 1 then x := 1 end.", "If condition must be boolean")
	requireSemanticError(t, "var x: integer; begin while 1 do x := 1 end.", "While condition must be a boolean")
}

func TestBinaryOpTypeErrors(t *testing.T) {
	requireSemanticError(t, "var x: integer; begin x := 'a' + 'b' end.", "Expected integer in binary op")
	requireSemanticError(t, "var x: integer; begin if 'a' < 'b' then x := 1 end.", "Expected integer in binary op")
	requireSemanticError(t, "var x: integer; begin if x = 'foo' then x := 1 end.", "Mismatching types in equality")
	requireSemanticError(t, `
type tr = record a: integer end;
var p: tr; q: tr; x: integer;
begin
  if p = q then x := 1
end.`, "Expected integer, string or boolean in equality")
}

func TestCallErrors(t *testing.T) {
	requireSemanticError(t, `
function f(x: integer): integer;
begin
  f := x
end;
begin
  f(1, 2)
end.`, "Wrong number of args")

	requireSemanticError(t, `
function f(x: integer): integer;
begin
  f := x
end;
begin
  f('foo')
end.`, "Gave function wrong type")
}

func TestMemberRefErrors(t *testing.T) {
	requireSemanticError(t, "var x: integer; begin x.foo := 1 end.", "Member ref access on non-record type")
	requireSemanticError(t, `
type tr = record a: integer end;
var p: tr;
begin
  p.b := 1
end.`, "Can't find the right member on the record type")
	requireSemanticError(t, `
type tr = record a: tunknown end;
var p: tr;
begin
  p.a := 1
end.`, "Member of unknown type")
}

func TestForNotImplemented(t *testing.T) {
	requireSemanticError(t, "var x: integer; begin for i := 1 to 10 do x := i end.", "For statements are not implemented")
}

func TestNoOpStatementsAnalyse(t *testing.T) {
	frags, err := analyse(t, `
var x: integer;
begin
  case x of 1: x := 1 end;
  repeat x := 1 until x > 10;
  with x do x := 1;
  x := 2
end.`)
	require.NoError(t, err)
	require.Len(t, frags, 1)
}

func TestAliasTypes(t *testing.T) {
	frags, err := analyse(t, "type tint = integer; var x: tint; begin x := 1 end.")
	require.NoError(t, err)
	require.Len(t, frags, 1)
}

func TestEnumIdentity(t *testing.T) {
	frags, err := analyse(t, `
type tcolor = (red, green, blue);
var c: tcolor; d: tcolor;
begin
  c := d
end.`)
	require.NoError(t, err)
	require.Len(t, frags, 1)
}

func TestDistinctRecordsIncompatible(t *testing.T) {
	requireSemanticError(t, `
type ta = record x: integer end;
     tb = record x: integer end;
var a: ta; b: tb;
begin
  a := b
end.`, "Assignment error")
}

func TestNestedFunctionStaticLink(t *testing.T) {
	frags, err := analyse(t, `
function outer(x: integer): integer;
  function inner(): integer;
  begin
    inner := x
  end;
begin
  outer := inner()
end;
begin
end.`)
	require.NoError(t, err)
	require.Len(t, frags, 2)

	// inner is lowered before its enclosing function.
	move := frags[0].Body.(ir.Sequence).Stmts[0].(ir.Move)

	// Reading x hops through inner's static link: the source address
	// dereferences the enclosing frame.
	src := move.Src.(ir.Mem)
	_, ok := src.Addr.(ir.ArithOp).Lhs.(ir.Mem)
	require.True(t, ok)
}

func TestBlockBodyMustBeCompound(t *testing.T) {
	prog := &ast.Block{Body: ast.Assignment{Lhs: ast.VarRef{}, Rhs: ast.NumberLiteral{}}}

	tab := parser.New(lexer.New(nil)).Symbols()

	_, err := New(tab).Analyse(context.Background(), prog)
	require.Error(t, err)

	var semErr *Error
	require.ErrorAs(t, err, &semErr)
	require.Equal(t, "Block body must be a compound statement", semErr.Msg)
}

func TestDeterministicDiagnostics(t *testing.T) {
	src := "var x: integer; begin x := 'foo' end."

	_, err1 := analyse(t, src)
	_, err2 := analyse(t, src)

	require.Error(t, err1)
	require.Error(t, err2)
	require.Equal(t, err1.Error(), err2.Error())
}

func TestReanalysisSameShape(t *testing.T) {
	ctx := context.Background()

	p := parser.New(lexer.New([]byte(`
function f(x: integer): integer;
begin
  if x < 1 then f := 1 else f := x
end;
begin
  f(3)
end.`)))

	prog, err := p.Parse(ctx)
	require.NoError(t, err)

	frags1, err := New(p.Symbols()).Analyse(ctx, prog)
	require.NoError(t, err)

	frags2, err := New(p.Symbols()).Analyse(ctx, prog)
	require.NoError(t, err)

	require.Len(t, frags2, len(frags1))
	require.Equal(t, countCondJumps(frags1[0].Body), countCondJumps(frags2[0].Body))
}
