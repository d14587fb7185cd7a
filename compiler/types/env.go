package types

import (
	"github.com/tetsuo-cpp/descartes/compiler/ast"
	"github.com/tetsuo-cpp/descartes/compiler/ir"
	"github.com/tetsuo-cpp/descartes/compiler/symbols"
)

type (
	// VarEntry binds a variable to its resolved type and the frame slot
	// the translator allocated for it.
	VarEntry struct {
		Type   Type
		Access ir.Access
	}

	// FuncEntry is a function signature visible to callers.
	FuncEntry struct {
		Fn     *ast.Function
		Return Type // nil for procedures
		Args   []Type
	}

	scope struct {
		vars  map[symbols.Symbol]VarEntry
		funcs map[symbols.Symbol]*FuncEntry
		types map[symbols.Symbol]Type
	}

	// Env is a stack of scopes, each holding three namespaces. Lookups
	// walk the stack top-down; insertions target the top scope and fail
	// if the symbol is already bound there.
	Env struct {
		scopes []scope

		integer *Integer
		boolean *Boolean
		str     *String
	}
)

// NewEnv pre-populates the bottom scope with the primitive type
// bindings. The primitive names are interned here, before any analysis
// begins.
func NewEnv(tab *symbols.Table) *Env {
	e := &Env{
		integer: &Integer{},
		boolean: &Boolean{},
		str:     &String{},
	}

	e.EnterScope()

	e.SetType(tab.Intern("integer"), e.integer)
	e.SetType(tab.Intern("boolean"), e.boolean)
	e.SetType(tab.Intern("string"), e.str)

	return e
}

func (e *Env) EnterScope() {
	e.scopes = append(e.scopes, scope{
		vars:  make(map[symbols.Symbol]VarEntry),
		funcs: make(map[symbols.Symbol]*FuncEntry),
		types: make(map[symbols.Symbol]Type),
	})
}

func (e *Env) ExitScope() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

func (e *Env) SetVar(name symbols.Symbol, v VarEntry) bool {
	top := &e.scopes[len(e.scopes)-1]

	if _, ok := top.vars[name]; ok {
		return false
	}

	top.vars[name] = v

	return true
}

func (e *Env) SetFunc(name symbols.Symbol, f *FuncEntry) bool {
	top := &e.scopes[len(e.scopes)-1]

	if _, ok := top.funcs[name]; ok {
		return false
	}

	top.funcs[name] = f

	return true
}

func (e *Env) SetType(name symbols.Symbol, t Type) bool {
	top := &e.scopes[len(e.scopes)-1]

	if _, ok := top.types[name]; ok {
		return false
	}

	top.types[name] = t

	return true
}

func (e *Env) Var(name symbols.Symbol) (VarEntry, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if v, ok := e.scopes[i].vars[name]; ok {
			return v, true
		}
	}

	return VarEntry{}, false
}

func (e *Env) Func(name symbols.Symbol) (*FuncEntry, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if f, ok := e.scopes[i].funcs[name]; ok {
			return f, true
		}
	}

	return nil, false
}

func (e *Env) Type(name symbols.Symbol) (Type, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if t, ok := e.scopes[i].types[name]; ok {
			return t, true
		}
	}

	return nil, false
}

// Primitive singletons. These live as long as the Environment.

func (e *Env) IntegerType() Type { return e.integer }
func (e *Env) BooleanType() Type { return e.boolean }
func (e *Env) StringType() Type  { return e.str }
