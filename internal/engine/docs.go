package engine

import (
	"strings"

	"github.com/javadev/javalsp/internal/javadoc"
	"github.com/javadev/javalsp/internal/javasyntax"
	"github.com/javadev/javalsp/internal/ptr"
)

// DocFacility locates a declaration's source and renders its preceding
// Javadoc comment: Find(Ptr) locates the declaring file, FuzzyFind(Ptr)
// locates the declaration node within it, and Doc parses the comment
// immediately preceding that node. It only has source files to work
// from, so Find/FuzzyFind search the same compiled sources the
// dispatcher already has open.
type DocFacility struct {
	files map[string]*FullFileResult
}

func newDocFacility(files map[string]*FullFileResult) *DocFacility {
	return &DocFacility{files: files}
}

// Find returns the URI most likely to declare p.
func (d *DocFacility) Find(p ptr.Ptr) (string, bool) {
	for uri, f := range d.files {
		for _, el := range f.declarations {
			if el.Ptr() == p {
				return uri, true
			}
		}
	}
	return "", false
}

// FuzzyFind locates the declaration node for p within uri's tree.
func (d *DocFacility) FuzzyFind(uri string, p ptr.Ptr) (*javasyntax.Node, bool) {
	f, ok := d.files[uri]
	if !ok {
		return nil, false
	}
	var found *javasyntax.Node
	var walk func(n *javasyntax.Node)
	walk = func(n *javasyntax.Node) {
		if found != nil {
			return
		}
		switch n.Kind {
		case javasyntax.KindMethodDecl, javasyntax.KindConstructorDecl, javasyntax.KindFieldDecl:
			if declName(n) == p.Name() {
				found = n
				return
			}
		}
		for _, k := range typeDeclKinds() {
			if n.Kind == k && declName(n) == p.Name() {
				found = n
				return
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(f.Tree)
	if found == nil {
		return nil, false
	}
	return found, true
}

// Doc renders the Javadoc comment immediately preceding node within uri,
// if any, as a DocComment AST.
func (d *DocFacility) Doc(uri string, node *javasyntax.Node) (*javadoc.DocComment, bool) {
	f, ok := d.files[uri]
	if !ok {
		return nil, false
	}
	raw, ok := precedingJavadoc(f.Comments, node)
	if !ok {
		return nil, false
	}
	return javadoc.Parse(raw), true
}

// FirstSentenceMarkdown renders the first sentence of node's preceding
// Javadoc comment as Markdown, for Hover and completionItem/resolve.
func (d *DocFacility) FirstSentenceMarkdown(uri string, node *javasyntax.Node) (string, bool) {
	doc, ok := d.Doc(uri, node)
	if !ok {
		return "", false
	}
	sentence := javadoc.FirstSentenceMarkdown(doc)
	if sentence == "" {
		return "", false
	}
	return sentence, true
}

// precedingJavadoc finds the nearest comment token ending on or before
// the line node's span starts on (comments already matched to another
// node are not excluded) — the same nearest-preceding-comment heuristic java/from_source.go's
// javadocFinder uses, simplified to "closest by line distance, must look
// like a Javadoc comment (starts with /**)".
func precedingJavadoc(comments []javasyntax.Token, node *javasyntax.Node) (string, bool) {
	best := -1
	bestDistance := 1 << 30
	for i, c := range comments {
		if c.Kind != javasyntax.TokenComment {
			continue
		}
		if !strings.HasPrefix(c.Literal, "/**") {
			continue
		}
		if c.Span.End.Line > node.Span.Start.Line {
			continue
		}
		distance := node.Span.Start.Line - c.Span.End.Line
		if distance < bestDistance {
			bestDistance = distance
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return comments[best].Literal, true
}

// ParamDocs extracts the @param descriptions from a doc comment, keyed
// by parameter name, for signatureHelp and resolveCompletionItem.
func ParamDocs(doc *javadoc.DocComment) map[string]string {
	out := map[string]string{}
	for _, n := range doc.BlockTags {
		if p, ok := n.(javadoc.Param); ok && !p.IsTypeParam {
			out[p.Name] = javadoc.FormatPlainText(&javadoc.DocComment{Body: p.Description})
		}
	}
	return out
}
