package ast_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetsuo-cpp/descartes/compiler/ast"
	"github.com/tetsuo-cpp/descartes/compiler/lexer"
	"github.com/tetsuo-cpp/descartes/compiler/parser"
)

func TestFprint(t *testing.T) {
	p := parser.New(lexer.New([]byte(`
type tperson = record
  name: string;
  age: integer
end;
var p: tperson;
function grow(years: integer): integer;
begin
  grow := years + 1
end;
begin
  p.age := grow(p.age);
  if p.age > 100 then
    p.name := 'old'
  else
    while p.age < 50 do
      p.age := p.age + 1
end.`)))

	prog, err := p.Parse(context.Background())
	require.NoError(t, err)

	var sb strings.Builder

	ast.Fprint(&sb, prog, p.Symbols())

	out := sb.String()

	for _, want := range []string{
		"Block",
		"TypeDef tperson",
		"Field name: string",
		"VarDecl p: tperson",
		"Function grow: integer",
		"Arg years: integer",
		"Assignment",
		"MemberRef .age",
		"Call grow",
		"If",
		"BinaryOp >",
		"While",
		"StringLiteral \"old\"",
		"NumberLiteral 1",
	} {
		require.Contains(t, out, want)
	}
}
