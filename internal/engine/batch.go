package engine

import (
	"github.com/javadev/javalsp/internal/javasyntax"
	"github.com/javadev/javalsp/internal/ptr"
	"github.com/javadev/javalsp/internal/refindex"
)

// Batch is the batch compiler's result: a multi-file compile over a set
// of (possibly pruned) sources, answering element-at-position, global
// definition/reference search, per-file declaration lists and
// reference-index construction.
type Batch struct {
	files map[string]*FullFileResult
	order []string
}

func newBatch(files map[string]*FullFileResult, order []string) *Batch {
	return &Batch{files: files, order: order}
}

// Element resolves the declaration at (uri, line, col) within the batch.
// This must round-trip the focal element that seeded the batch's pruning
// target.
func (b *Batch) Element(uri string, line, col int) (Element, bool) {
	f, ok := b.files[uri]
	if !ok {
		return Element{}, false
	}
	return f.ElementAt(line, col)
}

// Definitions returns every declaration across the batch whose Ptr
// matches el's, as DeclPaths carrying their source range.
func (b *Batch) Definitions(el Element) []DeclPath {
	target := el.Ptr()
	var out []DeclPath
	for _, uri := range b.order {
		f := b.files[uri]
		for _, d := range f.declarations {
			if d.Ptr() == target {
				out = append(out, DeclPath{URI: uri, Element: d})
			}
		}
	}
	return out
}

// References returns every identifier reference across the batch whose
// resolved name matches el's PruneName — the same textual approximation
// Prune itself relies on, since full type resolution is out of process
// for this facility.
func (b *Batch) References(el Element) []DeclPath {
	target := el.PruneName()
	var out []DeclPath
	for _, uri := range b.order {
		f := b.files[uri]
		for _, n := range identifierOccurrences(f.Tree, target) {
			out = append(out, DeclPath{URI: uri, Element: el, node: n})
		}
	}
	return out
}

// Declarations returns every element declared in uri within this batch.
func (b *Batch) Declarations(uri string) []Element {
	if f, ok := b.files[uri]; ok {
		return f.declarations
	}
	return nil
}

// Index builds the per-file reference index for uri against targets.
func (b *Batch) Index(uri string, targets map[ptr.Ptr]struct{}) refindex.ReferenceIndex {
	f, ok := b.files[uri]
	idx := refindex.New()
	if !ok {
		return idx
	}
	hasErrors := containsErrorNode(f.Tree)
	idx.SetHasErrors(hasErrors)
	idx.SetSignature(targets)
	idx.SetVersion(f.Version())

	for target := range targets {
		name := ""
		// the declaration name is recovered from any co-resolved
		// declaration sharing the Ptr — batch decls carry it directly.
		for _, uri2 := range b.order {
			for _, d := range b.files[uri2].declarations {
				if d.Ptr() == target {
					name = d.PruneName()
					break
				}
			}
			if name != "" {
				break
			}
		}
		if name == "" {
			continue
		}
		count := len(identifierOccurrences(f.Tree, name))
		if count > 0 {
			idx.SetCount(target, count)
		}
	}
	return idx
}

// IndexFile builds a single-file ReferenceIndex against targets, the same
// way Batch.Index does for a batch member. It lets the dispatcher count
// references within the already-compiled active file itself without
// constructing a one-file batch.
func IndexFile(ffr *FullFileResult, targets map[ptr.Ptr]struct{}) refindex.ReferenceIndex {
	idx := refindex.New()
	idx.SetHasErrors(containsErrorNode(ffr.Tree))
	idx.SetSignature(targets)
	idx.SetVersion(ffr.Version())
	for target := range targets {
		name := ""
		for _, d := range ffr.declarations {
			if d.Ptr() == target {
				name = d.PruneName()
				break
			}
		}
		if name == "" {
			continue
		}
		if count := len(identifierOccurrences(ffr.Tree, name)); count > 0 {
			idx.SetCount(target, count)
		}
	}
	return idx
}

func containsErrorNode(n *javasyntax.Node) bool {
	if n.IsError() {
		return true
	}
	for _, c := range n.Children {
		if containsErrorNode(c) {
			return true
		}
	}
	return false
}

// identifierOccurrences collects every KindIdentifier node in the tree
// whose literal text equals name.
func identifierOccurrences(root *javasyntax.Node, name string) []*javasyntax.Node {
	var out []*javasyntax.Node
	var walk func(n *javasyntax.Node)
	walk = func(n *javasyntax.Node) {
		if n.Kind == javasyntax.KindIdentifier && n.TokenLiteral() == name {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	return out
}
