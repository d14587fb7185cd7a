package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/tetsuo-cpp/descartes/compiler/symbols"
)

// Fprint renders the tree as indented, kind-tagged lines. The format
// is for debugging only.
func Fprint(w io.Writer, b *Block, tab *symbols.Table) {
	p := printer{w: w, tab: tab}
	p.block(b, 0)
}

type printer struct {
	w   io.Writer
	tab *symbols.Table
}

func (p *printer) line(depth int, format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (p *printer) name(s symbols.Symbol) string {
	return p.tab.Name(s)
}

func (p *printer) block(b *Block, d int) {
	p.line(d, "Block")

	for _, l := range b.LabelDecls {
		p.line(d+1, "LabelDecl %s", p.name(l))
	}

	for _, cd := range b.ConstDefs {
		p.line(d+1, "ConstDef %s", p.name(cd.Name))
		p.expr(cd.Expr, d+2)
	}

	for _, td := range b.TypeDefs {
		p.line(d+1, "TypeDef %s", p.name(td.Name))
		p.typeExpr(td.Type, d+2)
	}

	for _, vd := range b.VarDecls {
		p.line(d+1, "VarDecl %s: %s", p.name(vd.Name), p.name(vd.TypeName))
	}

	for _, f := range b.Functions {
		if f.Return != symbols.None {
			p.line(d+1, "Function %s: %s", p.name(f.Name), p.name(f.Return))
		} else {
			p.line(d+1, "Procedure %s", p.name(f.Name))
		}

		for _, a := range f.Args {
			tag := "Arg"
			if a.IsConst {
				tag = "ConstArg"
			}

			p.line(d+2, "%s %s: %s", tag, p.name(a.Name), p.name(a.TypeName))
		}

		p.block(f.Block, d+2)
	}

	p.stmt(b.Body, d+1)
}

func (p *printer) stmt(s Stmt, d int) {
	switch s := s.(type) {
	case nil:
	case Compound:
		p.line(d, "Compound")

		for _, c := range s.Body {
			p.stmt(c, d+1)
		}
	case Assignment:
		p.line(d, "Assignment")
		p.expr(s.Lhs, d+1)
		p.expr(s.Rhs, d+1)
	case If:
		p.line(d, "If")
		p.expr(s.Cond, d+1)
		p.stmt(s.Then, d+1)

		if s.Else != nil {
			p.stmt(s.Else, d+1)
		}
	case While:
		p.line(d, "While")
		p.expr(s.Cond, d+1)
		p.stmt(s.Body, d+1)
	case For:
		dir := "to"
		if s.Down {
			dir = "downto"
		}

		p.line(d, "For %s %s", p.name(s.Control), dir)
		p.expr(s.Begin, d+1)
		p.expr(s.End, d+1)
		p.stmt(s.Body, d+1)
	case CallStatement:
		p.line(d, "CallStatement")
		p.expr(s.Call, d+1)
	default:
		p.line(d, "%T", s)
	}
}

func (p *printer) expr(e Expr, d int) {
	switch e := e.(type) {
	case StringLiteral:
		p.line(d, "StringLiteral %q", e.Val)
	case NumberLiteral:
		p.line(d, "NumberLiteral %d", e.Val)
	case VarRef:
		p.line(d, "VarRef %s", p.name(e.Name))
	case BinaryOp:
		p.line(d, "BinaryOp %s", e.Op)
		p.expr(e.Lhs, d+1)
		p.expr(e.Rhs, d+1)
	case Call:
		p.line(d, "Call %s", p.name(e.Func))

		for _, a := range e.Args {
			p.expr(a, d+1)
		}
	case MemberRef:
		p.line(d, "MemberRef .%s", p.name(e.Field))
		p.expr(e.Base, d+1)
	default:
		p.line(d, "%T", e)
	}
}

func (p *printer) typeExpr(t TypeExpr, d int) {
	switch t := t.(type) {
	case IntegerTypeExpr:
		p.line(d, "Integer%s", ptr(t.Pointer))
	case BooleanTypeExpr:
		p.line(d, "Boolean%s", ptr(t.Pointer))
	case EnumTypeExpr:
		tags := make([]string, len(t.Tags))
		for i, s := range t.Tags {
			tags[i] = p.name(s)
		}

		p.line(d, "Enum%s (%s)", ptr(t.Pointer), strings.Join(tags, ", "))
	case RecordTypeExpr:
		p.line(d, "Record%s", ptr(t.Pointer))

		for _, f := range t.Fields {
			p.line(d+1, "Field %s: %s", p.name(f.Name), p.name(f.TypeName))
		}
	case AliasTypeExpr:
		p.line(d, "Alias%s %s", ptr(t.Pointer), p.name(t.Target))
	default:
		p.line(d, "%T", t)
	}
}

func ptr(p bool) string {
	if p {
		return "^"
	}

	return ""
}
