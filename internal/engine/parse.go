package engine

import (
	"strings"

	"github.com/javadev/javalsp/internal/javasyntax"
)

// ParseResult is the syntax-only view of one (uri, version): a tree plus
// the queries that don't need type resolution — document symbols,
// declaration enumeration, folding, test-class/method predicates, and
// completion-context classification.
type ParseResult struct {
	URI         string
	Content     string
	Tree        *javasyntax.Node
	Comments    []javasyntax.Token
	fileVersion int
	lines       []int // byte offset of the start of each line
}

func newParseResult(uri string, version int, content string) *ParseResult {
	p := javasyntax.ParseCompilationUnit(strings.NewReader(content),
		javasyntax.WithFile(uri), javasyntax.WithPositions(), javasyntax.WithComments())
	tree := p.Finish()
	return &ParseResult{
		URI:         uri,
		fileVersion: version,
		Content:     content,
		Tree:        tree,
		Comments:    p.Comments(),
		lines:       lineStarts(content),
	}
}

// Version returns the file version this parse was built against,
// satisfying internal/parsecache's Parse interface.
func (p *ParseResult) Version() int { return p.fileVersion }

func lineStarts(content string) []int {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// OffsetToPosition converts a byte offset into a 1-based (line, column),
// the compiler facility's native coordinate system.
func (p *ParseResult) OffsetToPosition(offset int) Position {
	lo, hi := 0, len(p.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if p.lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{Line: lo + 1, Column: offset - p.lines[lo] + 1}
}

func packageName(tree *javasyntax.Node) string {
	pkg := tree.FirstChildOfKind(javasyntax.KindPackageDecl)
	if pkg == nil {
		return ""
	}
	return qualifiedNameText(pkg)
}

func qualifiedNameText(n *javasyntax.Node) string {
	return n.QualifiedText()
}

func nodeText(n *javasyntax.Node) string {
	return n.Text()
}

func typeDeclKinds() []javasyntax.NodeKind {
	return []javasyntax.NodeKind{
		javasyntax.KindClassDecl, javasyntax.KindInterfaceDecl,
		javasyntax.KindEnumDecl, javasyntax.KindRecordDecl,
		javasyntax.KindAnnotationDecl,
	}
}

func elementKindForTypeDecl(k javasyntax.NodeKind) ElementKind {
	switch k {
	case javasyntax.KindInterfaceDecl:
		return ElementInterface
	case javasyntax.KindEnumDecl:
		return ElementEnum
	case javasyntax.KindRecordDecl:
		return ElementRecord
	case javasyntax.KindAnnotationDecl:
		return ElementAnnotationType
	default:
		return ElementClass
	}
}

func declName(n *javasyntax.Node) string {
	return n.DeclName()
}

func isTypeDeclKind(k javasyntax.NodeKind) bool {
	return k.IsTypeDecl()
}

// topLevelTypes returns every top-level type declaration node.
func (p *ParseResult) topLevelTypes() []*javasyntax.Node {
	var out []*javasyntax.Node
	for _, c := range p.Tree.Children {
		if isTypeDeclKind(c.Kind) {
			out = append(out, c)
		}
	}
	return out
}

// DocumentSymbols implements textDocument/documentSymbol: name, kind,
// container name and range for every declaration.
func (p *ParseResult) DocumentSymbols() []DocumentSymbol {
	var out []DocumentSymbol
	pkg := packageName(p.Tree)
	var walk func(n *javasyntax.Node, container string)
	walk = func(n *javasyntax.Node, container string) {
		for _, c := range n.Children {
			switch {
			case isTypeDeclKind(c.Kind):
				name := declName(c)
				out = append(out, DocumentSymbol{
					Name: name, Kind: elementKindForTypeDecl(c.Kind),
					ContainerName: container, Range: rangeFromSpan(c.Span),
				})
				walk(c, name)
			case c.Kind == javasyntax.KindMethodDecl || c.Kind == javasyntax.KindConstructorDecl:
				kind := ElementMethod
				if c.Kind == javasyntax.KindConstructorDecl {
					kind = ElementConstructor
				}
				out = append(out, DocumentSymbol{
					Name: declName(c), Kind: kind,
					ContainerName: container, Range: rangeFromSpan(c.Span),
				})
			case c.Kind == javasyntax.KindFieldDecl:
				out = append(out, DocumentSymbol{
					Name: declName(c), Kind: ElementField,
					ContainerName: container, Range: rangeFromSpan(c.Span),
				})
			}
		}
	}
	containerRoot := pkg
	walk(p.Tree, containerRoot)
	return out
}

// LensTarget is one declaration textDocument/codeLens attaches a lens to:
// every top-level or nested declaration, tagged with whether it looks
// like a JUnit test class or test method.
type LensTarget struct {
	Name           string
	Kind           ElementKind
	ContainerClass string // owning class's simple name, "" for top-level
	IsTestClass    bool
	IsTestMethod   bool
	Range          Range
}

// LensTargets walks the parse tree collecting every class, interface,
// enum, record and method/constructor declaration as a LensTarget.
func (p *ParseResult) LensTargets() []LensTarget {
	var out []LensTarget
	var walk func(n *javasyntax.Node, container string)
	walk = func(n *javasyntax.Node, container string) {
		for _, c := range n.Children {
			switch {
			case isTypeDeclKind(c.Kind):
				name := declName(c)
				out = append(out, LensTarget{
					Name: name, Kind: elementKindForTypeDecl(c.Kind), ContainerClass: container,
					IsTestClass: isTestClass(c), Range: rangeFromSpan(c.Span),
				})
				walk(c, name)
			case c.Kind == javasyntax.KindMethodDecl:
				out = append(out, LensTarget{
					Name: declName(c), Kind: ElementMethod, ContainerClass: container,
					IsTestMethod: isTestMethod(c), Range: rangeFromSpan(c.Span),
				})
			case c.Kind == javasyntax.KindConstructorDecl:
				out = append(out, LensTarget{
					Name: declName(c), Kind: ElementConstructor, ContainerClass: container,
					Range: rangeFromSpan(c.Span),
				})
			}
		}
	}
	walk(p.Tree, "")
	return out
}

// isTestClass reports whether a type decl node looks like a
// JUnit test class: any member method carries an @Test annotation.
func isTestClass(n *javasyntax.Node) bool {
	for _, m := range n.Children {
		if m.Kind == javasyntax.KindMethodDecl && isTestMethod(m) {
			return true
		}
	}
	return false
}

func isTestMethod(n *javasyntax.Node) bool {
	mods := n.FirstChildOfKind(javasyntax.KindModifiers)
	if mods == nil {
		return false
	}
	for _, a := range mods.ChildrenOfKind(javasyntax.KindAnnotation) {
		if name := qualifiedNameText(a); name == "Test" || strings.HasSuffix(name, ".Test") {
			return true
		}
	}
	return false
}

// FoldingRanges implements textDocument/foldingRange: contiguous imports
// coalesce into one Imports range; blocks and comments become Region
// ranges, adjusted per the class/block rules.
func (p *ParseResult) FoldingRanges() []FoldingRange {
	var out []FoldingRange

	imports := p.Tree.ChildrenOfKind(javasyntax.KindImportDecl)
	if len(imports) > 0 {
		start := imports[0].Span.Start
		end := imports[len(imports)-1].Span.End
		out = append(out, FoldingRange{Category: FoldingImports, Range: Range{
			Start: Position{Line: start.Line, Column: start.Column},
			End:   Position{Line: end.Line, Column: end.Column},
		}})
	}

	var walk func(n *javasyntax.Node)
	walk = func(n *javasyntax.Node) {
		switch n.Kind {
		case javasyntax.KindClassDecl, javasyntax.KindInterfaceDecl, javasyntax.KindEnumDecl,
			javasyntax.KindRecordDecl, javasyntax.KindAnnotationDecl:
			out = append(out, foldingForBrace(n, true))
		case javasyntax.KindBlock:
			out = append(out, foldingForBrace(n, true))
		case javasyntax.KindComment:
			out = append(out, FoldingRange{Category: FoldingRegion, Range: rangeFromSpan(n.Span)})
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(p.Tree)
	return out
}

func foldingForBrace(n *javasyntax.Node, decrementEnd bool) FoldingRange {
	r := rangeFromSpan(n.Span)
	r.Start.Column = n.Span.Start.Column
	if decrementEnd {
		r.End.Line--
	}
	return FoldingRange{Category: FoldingRegion, Range: r}
}

// CompletionContext is the tagged variant classified by the parse-only
// pass below — exactly one of six shapes.
type CompletionContextKind int

const (
	ContextMemberSelect CompletionContextKind = iota
	ContextMemberReference
	ContextIdentifier
	ContextAnnotation
	ContextCase
	ContextNone
)

type CompletionContext struct {
	Kind        CompletionContextKind
	Line        int
	Character   int
	PartialName string
	InClass     string
	InMethod    string
}

// ClassifyCompletionContext implements the parse-only completion-context
// classification pass at a 1-based (line, col) cursor.
func (p *ParseResult) ClassifyCompletionContext(line, col int) CompletionContext {
	inClass, inMethod := p.enclosingNames(line, col)
	node := p.nodeBefore(line, col)
	base := CompletionContext{Line: line, Character: col, InClass: inClass, InMethod: inMethod}
	if node == nil {
		base.Kind = ContextNone
		return base
	}
	switch node.Kind {
	case javasyntax.KindFieldAccess:
		base.Kind = ContextMemberSelect
		return base
	case javasyntax.KindMethodRef:
		base.Kind = ContextMemberReference
		return base
	case javasyntax.KindAnnotation:
		base.Kind = ContextAnnotation
		base.PartialName = partialNameAt(node, line, col)
		return base
	case javasyntax.KindSwitchCase, javasyntax.KindSwitchLabel:
		base.Kind = ContextCase
		return base
	case javasyntax.KindIdentifier, javasyntax.KindQualifiedName:
		base.Kind = ContextIdentifier
		base.PartialName = partialNameAt(node, line, col)
		return base
	default:
		base.Kind = ContextNone
		return base
	}
}

func partialNameAt(n *javasyntax.Node, line, col int) string {
	lit := n.TokenLiteral()
	if lit == "" {
		return ""
	}
	if n.Span.Start.Line != line {
		return lit
	}
	offset := col - n.Span.Start.Column
	if offset < 0 {
		return ""
	}
	if offset > len(lit) {
		offset = len(lit)
	}
	return lit[:offset]
}

// nodeBefore finds the smallest-span node whose span contains the cursor,
// preferring the deepest match — the same strategy java/at_point.go uses
// for position-anchored lookups.
func (p *ParseResult) nodeBefore(line, col int) *javasyntax.Node {
	var best *javasyntax.Node
	var walk func(n *javasyntax.Node)
	walk = func(n *javasyntax.Node) {
		if positionInSpan(line, col, n.Span) {
			if best == nil || spanSize(n.Span) <= spanSize(best.Span) {
				best = n
			}
			for _, c := range n.Children {
				walk(c)
			}
		}
	}
	walk(p.Tree)
	return best
}

func positionInSpan(line, col int, span javasyntax.Span) bool {
	if line < span.Start.Line || line > span.End.Line {
		return false
	}
	if line == span.Start.Line && col < span.Start.Column {
		return false
	}
	if line == span.End.Line && col > span.End.Column {
		return false
	}
	return true
}

func spanSize(s javasyntax.Span) int {
	return (s.End.Line-s.Start.Line)*100000 + (s.End.Column - s.Start.Column)
}

func (p *ParseResult) enclosingNames(line, col int) (class, method string) {
	var walk func(n *javasyntax.Node)
	walk = func(n *javasyntax.Node) {
		for _, c := range n.Children {
			if !positionInSpan(line, col, c.Span) {
				continue
			}
			if isTypeDeclKind(c.Kind) {
				class = declName(c)
			}
			if c.Kind == javasyntax.KindMethodDecl || c.Kind == javasyntax.KindConstructorDecl {
				method = declName(c)
			}
			walk(c)
		}
	}
	walk(p.Tree)
	return class, method
}
