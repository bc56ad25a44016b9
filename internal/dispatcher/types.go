// Package dispatcher is the public operation surface that orchestrates
// the parse cache, active-file cache, focus compiler, batch compiler,
// pruner and reference index into replies for every LSP-shaped query.
// It is the one place protocol's 0-based coordinates are converted to
// the compiler facility's 1-based ones — every type in this package is
// 0-based; internal/lspserver copies fields 1:1 into protocol types
// without any further arithmetic.
package dispatcher

import "github.com/javadev/javalsp/internal/engine"

// Position is a 0-based (line, character) pair, matching LSP.
type Position struct {
	Line      int
	Character int
}

// Range is a half-open 0-based source span.
type Range struct {
	Start Position
	End   Position
}

func toFacility(p Position) (line, col int) {
	return p.Line + 1, p.Character + 1
}

func fromFacilityPosition(p engine.Position) Position {
	return Position{Line: p.Line - 1, Character: p.Column - 1}
}

func fromFacilityRange(r engine.Range) Range {
	return Range{Start: fromFacilityPosition(r.Start), End: fromFacilityPosition(r.End)}
}

// Location pairs a URI with a 0-based range, the reply shape for
// go-to-definition and find-references.
type Location struct {
	URI   string
	Range Range
}

// CompletionItem is one reply entry for textDocument/completion. Exactly
// one of the five underlying CompletionDatum shapes is populated; this
// flattens that into a plain label/kind/detail/insertText record.
type CompletionItem struct {
	ID         string
	Label      string
	Kind       engine.CompletionDatumKind
	Detail     string
	InsertText string
	SortText   string
}

// CompletionResult is completion(uri, line, col)'s reply.
type CompletionResult struct {
	IsIncomplete bool
	Items        []CompletionItem
}

// ResolvedCompletion is resolveCompletionItem(item)'s reply: the detail
// and documentation to merge onto the client's item, or Found=false if
// the identifier missed the cache.
type ResolvedCompletion struct {
	Found         bool
	Detail        string
	Documentation string
}

// HoverResult is hover(uri, line, col)'s reply.
type HoverResult struct {
	Found         bool
	Documentation string
	Declaration   string
}

// DocumentSymbolResult is one documentSymbol entry.
type DocumentSymbolResult struct {
	Name          string
	Kind          engine.ElementKind
	ContainerName string
	Range         Range
}

// SymbolResult is one workspace/symbol entry.
type SymbolResult struct {
	Name          string
	Kind          engine.ElementKind
	ContainerName string
	URI           string
	Range         Range
}

// FoldingRangeResult is one foldingRange entry.
type FoldingRangeResult struct {
	Category engine.FoldingCategory
	Range    Range
}

// CodeLens is one codeLens entry: a resolvable lens that carries either a
// fully-resolved command (test lenses) or resolve data for the
// reference-count lens.
type CodeLens struct {
	Range   Range
	Title   string   // "" if unresolved
	Command string   // "" if unresolved
	Args    []string // resolved command arguments, else nil
	Data    []string // unresolved resolve data: ["java.command.findReferences", uri, line, character]
}

// ResolvedLens is codeLens/resolve's reply.
type ResolvedLens struct {
	Title   string
	Command string
	Args    []string
}

// SignatureOverload is one entry of signatureHelp's overload list.
type SignatureOverload struct {
	Label         string
	ParamLabels   []string
	ParamDocs     []string
	Documentation string
}

// SignatureHelpResult is signatureHelp(uri, line, col)'s reply.
type SignatureHelpResult struct {
	Found           bool
	Signatures      []SignatureOverload
	ActiveSignature int
	ActiveParameter int
}

// TextEdit is one formatting edit: NewText replaces the text in Range
// (an empty NewText deletes it, an empty Range inserts at Range.Start).
type TextEdit struct {
	Range   Range
	NewText string
}
