// Package engine is the concrete "compiler facility": an external
// collaborator that wraps internal/javasyntax (parsing), internal/javadoc
// (doc rendering) and internal/classfile (classpath scanning) behind the
// parseFile/compileFile/compileFocus/compileBatch contract the dispatcher
// depends on.
package engine

import (
	"strings"

	"github.com/javadev/javalsp/internal/javasyntax"
	"github.com/javadev/javalsp/internal/ptr"
)

// Position is a 1-based (line, column) pair, the compiler facility's
// native coordinate system. Dispatcher-facing code converts to/from
// 0-based LSP coordinates at the boundary — never here.
type Position struct {
	Line   int
	Column int
}

// Range is a half-open source span in 1-based compiler-facility
// coordinates.
type Range struct {
	Start Position
	End   Position
}

func rangeFromSpan(s javasyntax.Span) Range {
	return Range{
		Start: Position{Line: s.Start.Line, Column: s.Start.Column},
		End:   Position{Line: s.End.Line, Column: s.End.Column},
	}
}

// ElementKind classifies a resolved program element.
type ElementKind int

const (
	ElementClass ElementKind = iota
	ElementInterface
	ElementEnum
	ElementRecord
	ElementAnnotationType
	ElementField
	ElementMethod
	ElementConstructor
	ElementEnumConstant
	ElementParameter
	ElementLocalVar
	ElementPackage
)

// String renders k for diagnostics and the `scan` subcommand's report.
func (k ElementKind) String() string {
	switch k {
	case ElementClass:
		return "class"
	case ElementInterface:
		return "interface"
	case ElementEnum:
		return "enum"
	case ElementRecord:
		return "record"
	case ElementAnnotationType:
		return "@interface"
	case ElementField:
		return "field"
	case ElementMethod:
		return "method"
	case ElementConstructor:
		return "constructor"
	case ElementEnumConstant:
		return "enum constant"
	case ElementParameter:
		return "parameter"
	case ElementLocalVar:
		return "local var"
	case ElementPackage:
		return "package"
	default:
		return "unknown"
	}
}

// Modifiers mirrors the subset of Java modifiers the dispatcher cares
// about: visibility, static-ness and whether the element is abstract
// (relevant to @Override insertion and rendering).
type Modifiers struct {
	Public    bool
	Private   bool
	Protected bool
	Static    bool
	Final     bool
	Abstract  bool
}

// Element is a resolved program declaration: a class, method, field or
// similar, carrying enough shape to answer hover, go-to-def, references
// and completion queries without holding onto the parse tree itself.
type Element struct {
	Kind       ElementKind
	Pkg        string // declaring package, "" if package-less
	Owner      string // dotted owner chain, "" for top-level types
	Name       string
	TypeName   string   // field/parameter/return type, source-printed
	ParamTypes []string // erased parameter descriptors, methods/ctors only
	ParamNames []string // source parameter names, same order as ParamTypes
	SuperName  string   // for types: superclass simple/dotted name, "" or "Object"
	Modifiers  Modifiers
	URI        string
	Range      Range
	Synthetic  bool // true for the universal root type's implicit members
}

// Ptr derives the Symbol Pointer identity for el.
func (el Element) Ptr() ptr.Ptr {
	owner := el.Owner
	if owner == "" {
		owner = el.Pkg
	} else if el.Pkg != "" {
		owner = el.Pkg + "." + owner
	}
	switch el.Kind {
	case ElementMethod, ElementConstructor:
		return ptr.NewMethod(owner, el.Name, el.ParamTypes)
	case ElementClass, ElementInterface, ElementEnum, ElementRecord, ElementAnnotationType:
		name := el.Name
		if el.Owner != "" {
			name = el.Owner + "." + el.Name
		}
		return ptr.FromParts(el.Pkg, name)
	default:
		return ptr.New(owner, el.Name)
	}
}

// IsConstructorSentinel reports whether el's simple name should be used
// as the pruning target in place of a Ptr's own name — true for
// constructors, where pruning keys on the enclosing class's name instead.
func (el Element) IsConstructorSentinel() bool {
	return el.Kind == ElementConstructor
}

// PruneName returns the identifier Prune should search for to keep el in
// scope: el's own name, or for a constructor, the owning class's simple
// name.
func (el Element) PruneName() string {
	if el.Kind == ElementConstructor {
		if i := strings.LastIndexByte(el.Owner, '.'); i >= 0 {
			return el.Owner[i+1:]
		}
		if el.Owner != "" {
			return el.Owner
		}
		return el.Name
	}
	return el.Name
}

// DeclPath is an opaque handle to a declaration's position within a
// compiled tree — what definitions/references/declarations return, and
// what range(path) resolves. It intentionally does not outlive the
// ParseResult/Batch that produced it: no back-pointers cross request
// boundaries.
type DeclPath struct {
	URI     string
	Element Element
	node    *javasyntax.Node
}

func (d DeclPath) Range() Range {
	if d.node != nil {
		return rangeFromSpan(d.node.Span)
	}
	return d.Element.Range
}

// DocumentSymbol is one entry of textDocument/documentSymbol's reply
// shape.
type DocumentSymbol struct {
	Name          string
	Kind          ElementKind
	ContainerName string
	Range         Range
}

// FoldingCategory distinguishes the folding-range shapes the folding
// operation produces.
type FoldingCategory int

const (
	FoldingImports FoldingCategory = iota
	FoldingRegion
)

// FoldingRange is one reply entry for textDocument/foldingRange.
type FoldingRange struct {
	Category FoldingCategory
	Range    Range
}
