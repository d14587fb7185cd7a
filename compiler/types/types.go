// Package types holds the resolved type family and the scoped
// Environment used during semantic analysis.
package types

import (
	"github.com/tetsuo-cpp/descartes/compiler/symbols"
)

type (
	Kind int

	// Type is a canonical type value used for compatibility checks.
	// Record and Enum compare by identity, so they are always handled
	// as pointers; the primitives are per-Environment singletons.
	Type interface {
		Kind() Kind
	}

	Integer struct{}
	Boolean struct{}
	String  struct{}

	Enum struct {
		Tags []symbols.Symbol
	}

	Record struct {
		Fields []Field
	}

	// Alias refers to another named type. Aliases are chased during
	// type-def resolution; one surviving to a compatibility check is an
	// internal error.
	Alias struct {
		Target symbols.Symbol
	}

	Field struct {
		Name     symbols.Symbol
		TypeName symbols.Symbol
	}
)

const (
	KindInteger Kind = iota
	KindBoolean
	KindString
	KindEnum
	KindRecord
	KindAlias
)

func (*Integer) Kind() Kind { return KindInteger }
func (*Boolean) Kind() Kind { return KindBoolean }
func (*String) Kind() Kind  { return KindString }
func (*Enum) Kind() Kind    { return KindEnum }
func (*Record) Kind() Kind  { return KindRecord }
func (*Alias) Kind() Kind   { return KindAlias }

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindAlias:
		return "alias"
	}

	return "unknown"
}

// Field looks up a record field by name.
func (r *Record) Field(name symbols.Symbol) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// FieldIndex returns the position of a field within the record layout.
func (r *Record) FieldIndex(name symbols.Symbol) int {
	for i, f := range r.Fields {
		if f.Name == name {
			return i
		}
	}

	return -1
}
