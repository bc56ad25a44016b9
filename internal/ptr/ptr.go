// Package ptr implements the Symbol Pointer: a compilation-independent
// identity for a Java declaration. A Ptr is a plain comparable value —
// two Ptrs are == iff they denote the same program element across
// different compilations of the same source, and a Ptr can be used
// directly as a Go map key, e.g. for a reference count or a list of
// source URIs keyed by the declaration they belong to.
package ptr

import "strings"

// Ptr identifies a Java declaration by its owner's fully qualified name,
// its own simple name, and — for methods and constructors — its erased
// parameter type descriptors, joined so the whole value stays comparable.
type Ptr struct {
	owner    string
	name     string
	params   string
	isMethod bool
}

// Kind distinguishes the element a Ptr points at, only insofar as it
// affects identity (methods carry a parameter list, everything else
// doesn't).
type Kind int

const (
	KindType Kind = iota
	KindField
	KindMethod
	KindConstructor
	KindEnumConstant
	KindPackage
)

const paramSep = "\x1f"

// New builds a Ptr for a field, type, enum constant or package-level
// declaration: owner is the fully qualified owner chain (empty for a
// package-less top-level class), name is the declaration's simple name.
func New(owner, name string) Ptr {
	return Ptr{owner: owner, name: name}
}

// NewMethod builds a Ptr for a method or constructor. For a constructor,
// callers pass the owning class's simple name as name — constructors use
// the owner's own simple name in place of a distinct method name.
func NewMethod(owner, name string, erasedParams []string) Ptr {
	return Ptr{owner: owner, name: name, params: strings.Join(erasedParams, paramSep), isMethod: true}
}

// FromParts builds the Ptr for a top-level (or nested) class given its
// package and its dotted class name (e.g. package "com.acme", class
// "Outer.Inner"). The owner of a class-level Ptr is its package; for a
// package-less class the owner is empty.
func FromParts(pkg, class string) Ptr {
	return Ptr{owner: pkg, name: class}
}

func (p Ptr) Owner() string { return p.owner }
func (p Ptr) Name() string  { return p.name }

// Params returns the erased parameter type descriptors for a method or
// constructor Ptr, or nil for anything else.
func (p Ptr) Params() []string {
	if !p.isMethod || p.params == "" {
		return nil
	}
	return strings.Split(p.params, paramSep)
}

func (p Ptr) IsMethod() bool { return p.isMethod }

// String renders a debug-friendly, stable representation. It is not used
// for equality — Ptr values compare with ==.
func (p Ptr) String() string {
	var sb strings.Builder
	if p.owner != "" {
		sb.WriteString(p.owner)
		sb.WriteByte('.')
	}
	sb.WriteString(p.name)
	if p.isMethod {
		sb.WriteByte('(')
		sb.WriteString(strings.Join(p.Params(), ", "))
		sb.WriteByte(')')
	}
	return sb.String()
}

// IsZero reports whether p is the zero Ptr (no owner, no name) — the
// value returned when no element could be resolved at a position.
func (p Ptr) IsZero() bool {
	return p == Ptr{}
}
