package engine

import (
	"strings"
	"sync"

	"github.com/javadev/javalsp/internal/filestore"
	"github.com/javadev/javalsp/internal/javasyntax"
)

// Severity mirrors the compiler-facility diagnostic severities mapped to
// LSP severities.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityMandatoryWarning
	SeverityNote
	SeverityOther
)

// Diagnostic is one compiler-produced diagnostic, keyed to a byte
// offset rather than a line/column — internal/diagnostics does the
// offset-to-line/column conversion by linear scan.
type Diagnostic struct {
	URI       string
	Offset    int
	EndOffset int
	Severity  Severity
	Message   string
	Code      string
}

// Facility is the concrete compiler facility: an external collaborator
// that owns the classpath-derived symbol table and exposes
// parseFile/compileFile/compileFocus/compileBatch plus the
// potential-definition/reference heuristics and the doc facility.
//
// Facility itself does not cache — internal/parsecache and
// internal/activefile own the single-entry caching discipline in front
// of ParseFile/CompileFile; Facility always recomputes, with the
// "reparse and replace on miss" contract living one layer up.
type Facility struct {
	store filestore.Store

	mu         sync.RWMutex
	classpath  []Element
	knownTypes *KnownTypes
	epoch      int
}

// NewFacility constructs a Facility with an empty classpath.
func NewFacility(store filestore.Store) *Facility {
	f := &Facility{store: store}
	f.knownTypes = NewKnownTypes(nil)
	return f
}

// SetClassPath replaces the classpath-derived symbol table atomically
// and bumps the epoch. Downstream caches tie their keys to this integer
// epoch rather than tracking classpath changes directly, so a classpath
// swap invalidates them for free.
func (f *Facility) SetClassPath(entries []string) error {
	els, err := ScanClassPath(entries)
	f.mu.Lock()
	f.classpath = els
	f.knownTypes = NewKnownTypes(els)
	f.epoch++
	f.mu.Unlock()
	return err
}

// Epoch returns the facility's current replacement generation. Every
// downstream cache keys itself (uri, version, epoch) implicitly by
// discarding its contents whenever Epoch changes — see internal/
// dispatcher's use of this.
func (f *Facility) Epoch() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.epoch
}

func (f *Facility) classPathElements() []Element {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.classpath
}

func (f *Facility) known() *KnownTypes {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.knownTypes
}

// KnownType resolves simpleName to a fully-qualified import path for the
// formatting operation's import fix-up; it is the `known` callback
// FullFileResult.NeededImports expects, exposed for internal/dispatcher.
func (f *Facility) KnownType(simpleName string) (string, bool) {
	return f.known().Lookup(simpleName)
}

// ParseFile implements `parseFile(uri) → ParseResult`. Reparse is silent
// on non-Java URIs — callers are expected to filter upstream (the
// dispatcher does), but a non-.java URI still parses here as empty
// rather than panicking.
func (f *Facility) ParseFile(uri string) (*ParseResult, error) {
	content, _ := f.store.Contents(uri)
	version := f.store.Version(uri)
	return newParseResult(uri, version, content), nil
}

// CompileFile implements `compileFile(uri) → FullFileResult`.
func (f *Facility) CompileFile(uri string) (*FullFileResult, error) {
	pr, err := f.ParseFile(uri)
	if err != nil {
		return nil, err
	}
	return newFullFileResult(pr), nil
}

// CompileFocus implements `compileFocus(uri, line, col) → Focus`.
func (f *Facility) CompileFocus(uri string, line, col int) (*Focus, error) {
	full, err := f.CompileFile(uri)
	if err != nil {
		return nil, err
	}
	declared := append(append([]Element(nil), full.declarations...), f.classPathElements()...)
	return newFocus(full.ParseResult, declared, line, col), nil
}

// CompileBatch implements `compileBatch(files) → Batch` over a set of
// sources. Callers that want pruning use CompileBatchPruned instead;
// CompileBatch itself just compiles whatever content the store currently
// reports.
func (f *Facility) CompileBatch(files []string) (*Batch, error) {
	compiled := make(map[string]*FullFileResult, len(files))
	for _, uri := range files {
		ffr, err := f.CompileFile(uri)
		if err != nil {
			return nil, err
		}
		compiled[uri] = ffr
	}
	return newBatch(compiled, files), nil
}

// CompileBatchPruned is the pruned variant the dispatcher's go-to-def,
// find-references and reference-count procedures use: each URI's
// content is replaced by Prune(content, pruneName) before compiling.
func (f *Facility) CompileBatchPruned(files []string, pruneName string) (*Batch, error) {
	compiled := make(map[string]*FullFileResult, len(files))
	for _, uri := range files {
		content, _ := f.store.Contents(uri)
		pruned := Prune(content, pruneName)
		pr := newParseResult(uri, f.store.Version(uri), pruned)
		compiled[uri] = newFullFileResult(pr)
	}
	return newBatch(compiled, files), nil
}

// PotentialDefinitions implements `potentialDefinitions(el) → Set<URI>`:
// a cheap superset of URIs that might declare el, found by a substring
// scan of every known document for el's simple name. This stands in for
// a real index, simplified to a text search since no persistent index
// exists here.
func (f *Facility) PotentialDefinitions(el Element) map[string]struct{} {
	return f.potentialURIs(el.PruneName())
}

// PotentialReferences implements `potentialReferences(el) → Set<URI>`,
// the same heuristic as PotentialDefinitions.
func (f *Facility) PotentialReferences(el Element) map[string]struct{} {
	return f.potentialURIs(el.PruneName())
}

func (f *Facility) potentialURIs(name string) map[string]struct{} {
	out := map[string]struct{}{}
	if name == "" {
		return out
	}
	for _, uri := range f.store.ActiveDocuments() {
		content, ok := f.store.Contents(uri)
		if !ok {
			continue
		}
		if strings.Contains(content, name) {
			out[uri] = struct{}{}
		}
	}
	return out
}

// FindSymbols implements `findSymbols(query, limit) → [TreePath]`, used
// by workspace/symbol (capped to 50 by the dispatcher).
func (f *Facility) FindSymbols(query string, limit int) []Element {
	var out []Element
	for _, uri := range f.store.ActiveDocuments() {
		ffr, err := f.CompileFile(uri)
		if err != nil {
			continue
		}
		for _, el := range ffr.declarations {
			if query == "" || strings.Contains(strings.ToLower(el.Name), strings.ToLower(query)) {
				out = append(out, el)
				if len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}

// ReportErrors implements `reportErrors(Set<URI>) → [Diagnostic]`:
// every ErrorNode produced while parsing each URI becomes a Diagnostic.
func (f *Facility) ReportErrors(uris map[string]struct{}) []Diagnostic {
	var out []Diagnostic
	for uri := range uris {
		pr, err := f.ParseFile(uri)
		if err != nil {
			continue
		}
		out = append(out, diagnosticsFromTree(uri, pr.Tree)...)
	}
	return out
}

func diagnosticsFromTree(uri string, n *javasyntax.Node) []Diagnostic {
	var out []Diagnostic
	var walk func(n *javasyntax.Node)
	walk = func(n *javasyntax.Node) {
		if n.IsError() && n.Error != nil {
			out = append(out, Diagnostic{
				URI: uri, Offset: n.Span.Start.Offset, EndOffset: n.Span.End.Offset,
				Severity: SeverityError, Message: n.Error.Message,
			})
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Docs implements `docs()` — the doc facility, built from the
// currently-open documents' compiled results.
func (f *Facility) Docs() *DocFacility {
	files := map[string]*FullFileResult{}
	for _, uri := range f.store.ActiveDocuments() {
		if ffr, err := f.CompileFile(uri); err == nil {
			files[uri] = ffr
		}
	}
	return newDocFacility(files)
}

// ClassName implements the `className(declPath)` static helper lens
// arguments need.
func (f *Facility) ClassName(el Element) string {
	if el.Owner != "" {
		return el.Owner
	}
	return el.Name
}

// MemberName implements the `memberName(declPath)` static helper.
func (f *Facility) MemberName(el Element) string {
	if el.Kind == ElementMethod || el.Kind == ElementField || el.Kind == ElementConstructor {
		return el.Name
	}
	return ""
}
