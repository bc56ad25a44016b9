package engine

import (
	"sort"
	"strings"

	"github.com/javadev/javalsp/internal/javasyntax"
)

// CompletionDatumKind is the tagged variant: exactly one of five shapes
// is populated on any CompletionDatum.
type CompletionDatumKind int

const (
	DatumElement CompletionDatumKind = iota
	DatumPackagePart
	DatumKeyword
	DatumClassName
	DatumSnippet
)

// Sort-key priority prefixes for completion items.
const (
	PrioritySnippet        = "1"
	PriorityInScope        = "2"
	PriorityKeyword        = "3"
	PriorityUnimportedType = "4"
	PriorityUniversalRoot  = "9"
)

// CompletionDatum is the rich completion payload cached under a fresh
// identifier between a completion call and its resolve.
type CompletionDatum struct {
	Kind        CompletionDatumKind
	Element     Element // DatumElement
	PackagePart string  // DatumPackagePart
	Keyword     string  // DatumKeyword
	ClassName   string  // DatumClassName, dotted
	Snippet     string  // DatumSnippet, LSP snippet syntax
	SortText    string
}

// MethodInvocation is `methodInvocation()`'s result: the candidate
// overloads for the call the cursor sits inside, the resolved overload
// if unambiguous, and the active (0-based) parameter index.
type MethodInvocation struct {
	Candidates      []Element
	Resolved        *Element
	ActiveParameter int
}

// Focus is `compileFocus(uri, line, col)`'s result.
type Focus struct {
	parse    *ParseResult
	line     int
	col      int
	declared []Element // declarations visible in this file, for identifier/member completion
}

var topLevelKeywords = []string{
	"class", "interface", "enum", "record", "public", "private", "protected",
	"static", "final", "abstract", "void", "import", "package", "extends",
	"implements", "new", "return", "if", "else", "for", "while", "try",
}

func newFocus(parse *ParseResult, declared []Element, line, col int) *Focus {
	return &Focus{parse: parse, line: line, col: col, declared: declared}
}

// Context returns the parse-only completion-context classification at
// this focus's position.
func (f *Focus) Context() CompletionContext {
	return f.parse.ClassifyCompletionContext(f.line, f.col)
}

// CompleteMembers answers `.`/`::` member completion: the accessible
// fields and methods of the statically-known receiver type. Because type
// resolution without javac is heuristic, this enumerates declared
// members of every type in the same file sharing a simple name with the
// receiver expression — the best this facility can do without a real
// type checker.
func (f *Focus) CompleteMembers(receiverType string, afterMethodReference bool) []CompletionDatum {
	var out []CompletionDatum
	for _, el := range f.declared {
		if el.Owner != receiverType && el.Name != receiverType {
			continue
		}
		if afterMethodReference && el.Kind != ElementMethod {
			continue
		}
		out = append(out, datumForMember(el))
	}
	sortCompletions(out)
	return out
}

func datumForMember(el Element) CompletionDatum {
	priority := PriorityInScope
	if el.Synthetic {
		priority = PriorityUniversalRoot
	}
	return CompletionDatum{Kind: DatumElement, Element: el, SortText: priority + el.Name}
}

// CompleteIdentifiers answers identifier completion: visible locals,
// fields, imported classes and package parts filtered by partialName.
func (f *Focus) CompleteIdentifiers(inClass, inMethod, partialName string) ([]CompletionDatum, bool) {
	var out []CompletionDatum
	for _, el := range f.declared {
		if !strings.HasPrefix(el.Name, partialName) {
			continue
		}
		out = append(out, datumForMember(el))
	}
	sortCompletions(out)
	incomplete := len(out) > maxCompletionItems
	if incomplete {
		out = out[:maxCompletionItems]
	}
	return out, incomplete
}

const maxCompletionItems = 200

// CompleteAnnotations answers annotation-type completion filtered by
// partialName, sourced from the same declared-element pool.
func (f *Focus) CompleteAnnotations(partialName string) []CompletionDatum {
	var out []CompletionDatum
	for _, el := range f.declared {
		if el.Kind != ElementAnnotationType {
			continue
		}
		if !strings.HasPrefix(el.Name, partialName) {
			continue
		}
		out = append(out, CompletionDatum{Kind: DatumClassName, ClassName: el.Name, SortText: PriorityUnimportedType + el.Name})
	}
	sortCompletions(out)
	return out
}

// CompleteCases answers switch-case completion: enum constants of the
// switched expression's type. switchedType is the statically-declared
// type name of the switch subject, supplied by the caller (the dispatcher
// resolves it from the active file).
func (f *Focus) CompleteCases(switchedType string) []CompletionDatum {
	var out []CompletionDatum
	for _, el := range f.declared {
		if el.Kind != ElementEnumConstant || el.Owner != switchedType {
			continue
		}
		out = append(out, CompletionDatum{Kind: DatumElement, Element: el, SortText: PriorityInScope + el.Name})
	}
	sortCompletions(out)
	return out
}

// TopLevelKeywords returns the fixed keyword set for a None context.
func TopLevelKeywords() []CompletionDatum {
	out := make([]CompletionDatum, 0, len(topLevelKeywords))
	for _, kw := range topLevelKeywords {
		out = append(out, CompletionDatum{Kind: DatumKeyword, Keyword: kw, SortText: PriorityKeyword + kw})
	}
	return out
}

func sortCompletions(items []CompletionDatum) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortText < items[j].SortText
	})
}

// MethodInvocationAt answers methodInvocation(): finds the nearest
// enclosing KindCallExpr around (line, col) and reports which argument
// slot the cursor sits in, resolving candidates against the declared
// methods sharing the call's target name.
func (f *Focus) MethodInvocationAt(candidates []Element) (MethodInvocation, bool) {
	call := f.enclosingCall()
	if call == nil {
		return MethodInvocation{}, false
	}
	name := callName(call)
	var matched []Element
	for _, el := range candidates {
		if el.Name == name && (el.Kind == ElementMethod || el.Kind == ElementConstructor) {
			matched = append(matched, el)
		}
	}
	active := f.activeArgIndex(call)
	inv := MethodInvocation{Candidates: matched, ActiveParameter: active}
	for i := range matched {
		if len(matched[i].ParamTypes) > active {
			inv.Resolved = &matched[i]
			break
		}
	}
	return inv, true
}

func (f *Focus) enclosingCall() *javasyntax.Node {
	var best *javasyntax.Node
	var walk func(n *javasyntax.Node)
	walk = func(n *javasyntax.Node) {
		if n.Kind == javasyntax.KindCallExpr && positionInSpan(f.line, f.col, n.Span) {
			if best == nil || spanSize(n.Span) <= spanSize(best.Span) {
				best = n
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(f.parse.Tree)
	return best
}

func callName(call *javasyntax.Node) string {
	for _, c := range call.Children {
		if c.Kind == javasyntax.KindIdentifier || c.Kind == javasyntax.KindFieldAccess {
			return nodeText(c)
		}
	}
	return ""
}

func (f *Focus) activeArgIndex(call *javasyntax.Node) int {
	args := 0
	for _, c := range call.Children {
		if c.Span.End.Line < f.line || (c.Span.End.Line == f.line && c.Span.End.Column < f.col) {
			args++
		}
	}
	if args > 0 {
		args--
	}
	return args
}
