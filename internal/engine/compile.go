package engine

import (
	"strings"

	"github.com/javadev/javalsp/internal/javasyntax"
	"github.com/javadev/javalsp/internal/ptr"
)

// FullFileResult is the active-file cache's payload: a parse result plus
// element resolution at a position, the file's declaration list, a local
// symbol index, override candidates and import fix-ups.
type FullFileResult struct {
	*ParseResult
	declarations []Element
	imports      []importDecl
}

type importDecl struct {
	path   string
	static bool
	line   int // 1-based line of the import statement
}

// Line returns the 1-based source line of the import statement.
func (i importDecl) Line() int { return i.line }

// Path returns the imported package/type path, e.g. "java.util.List".
func (i importDecl) Path() string { return i.path }

func newFullFileResult(pr *ParseResult) *FullFileResult {
	f := &FullFileResult{ParseResult: pr}
	f.declarations = collectDeclarations(pr)
	f.imports = collectImports(pr)
	return f
}

func collectImports(pr *ParseResult) []importDecl {
	var out []importDecl
	for _, n := range pr.Tree.ChildrenOfKind(javasyntax.KindImportDecl) {
		static := false
		for _, c := range n.Children {
			if c.Token != nil && c.Token.Literal == "static" {
				static = true
			}
		}
		out = append(out, importDecl{path: qualifiedNameText(n), static: static, line: n.Span.Start.Line})
	}
	return out
}

func collectDeclarations(pr *ParseResult) []Element {
	var out []Element
	pkg := packageName(pr.Tree)
	var walk func(n *javasyntax.Node, owner string, superName string)
	walk = func(n *javasyntax.Node, owner string, superName string) {
		for _, c := range n.Children {
			switch {
			case isTypeDeclKind(c.Kind):
				name := declName(c)
				sup := extendsName(c)
				el := Element{
					Kind: elementKindForTypeDecl(c.Kind), Pkg: pkg, Owner: owner, Name: name,
					SuperName: sup, Modifiers: modifiersOf(c), URI: pr.URI, Range: rangeFromSpan(c.Span),
				}
				out = append(out, el)
				childOwner := name
				if owner != "" {
					childOwner = owner + "." + name
				}
				walk(c, childOwner, sup)
			case c.Kind == javasyntax.KindMethodDecl:
				out = append(out, methodElement(c, pkg, owner, pr.URI, false))
			case c.Kind == javasyntax.KindConstructorDecl:
				out = append(out, methodElement(c, pkg, owner, pr.URI, true))
			case c.Kind == javasyntax.KindFieldDecl:
				out = append(out, fieldElements(c, pkg, owner, pr.URI)...)
			}
		}
	}
	walk(pr.Tree, "", "")
	return out
}

func extendsName(n *javasyntax.Node) string {
	ext := n.FirstChildOfKind(javasyntax.KindExtendsClause)
	if ext == nil {
		return ""
	}
	if t := ext.FirstChildOfKind(javasyntax.KindType); t != nil {
		return nodeText(t)
	}
	return qualifiedNameText(ext)
}

func modifiersOf(n *javasyntax.Node) Modifiers {
	var m Modifiers
	mods := n.FirstChildOfKind(javasyntax.KindModifiers)
	if mods == nil {
		return m
	}
	for _, c := range mods.Children {
		if c.Token == nil {
			continue
		}
		switch c.Token.Literal {
		case "public":
			m.Public = true
		case "private":
			m.Private = true
		case "protected":
			m.Protected = true
		case "static":
			m.Static = true
		case "final":
			m.Final = true
		case "abstract":
			m.Abstract = true
		}
	}
	return m
}

func methodElement(n *javasyntax.Node, pkg, owner, uri string, ctor bool) Element {
	kind := ElementMethod
	if ctor {
		kind = ElementConstructor
	}
	name := declName(n)
	var paramTypes, paramNames []string
	if params := n.FirstChildOfKind(javasyntax.KindParameters); params != nil {
		for _, p := range params.ChildrenOfKind(javasyntax.KindParameter) {
			t := p.FirstChildOfKind(javasyntax.KindType)
			ptype := ""
			if t != nil {
				ptype = nodeText(t)
			}
			pname := ""
			for _, id := range p.ChildrenOfKind(javasyntax.KindIdentifier) {
				pname = nodeText(id)
			}
			paramTypes = append(paramTypes, ptype)
			paramNames = append(paramNames, pname)
		}
	}
	ret := ""
	if t := n.FirstChildOfKind(javasyntax.KindType); t != nil {
		ret = nodeText(t)
	}
	return Element{
		Kind: kind, Pkg: pkg, Owner: owner, Name: name,
		TypeName: ret, ParamTypes: paramTypes, ParamNames: paramNames,
		Modifiers: modifiersOf(n), URI: uri, Range: rangeFromSpan(n.Span),
	}
}

func fieldElements(n *javasyntax.Node, pkg, owner, uri string) []Element {
	t := n.FirstChildOfKind(javasyntax.KindType)
	typeName := ""
	if t != nil {
		typeName = nodeText(t)
	}
	mods := modifiersOf(n)
	var out []Element
	for _, id := range n.ChildrenOfKind(javasyntax.KindIdentifier) {
		out = append(out, Element{
			Kind: ElementField, Pkg: pkg, Owner: owner, Name: nodeText(id),
			TypeName: typeName, Modifiers: mods, URI: uri, Range: rangeFromSpan(n.Span),
		})
	}
	return out
}

// Declarations returns every element declared in the file.
func (f *FullFileResult) Declarations() []Element {
	return f.declarations
}

// Signature is the set of Ptrs declared in this file at this compile.
func (f *FullFileResult) Signature() map[ptr.Ptr]struct{} {
	sig := make(map[ptr.Ptr]struct{}, len(f.declarations))
	for _, el := range f.declarations {
		sig[el.Ptr()] = struct{}{}
	}
	return sig
}

// ElementAt resolves the declaration whose range contains (line, col),
// preferring the smallest enclosing declaration.
func (f *FullFileResult) ElementAt(line, col int) (Element, bool) {
	var best Element
	found := false
	for _, el := range f.declarations {
		if !positionInSpan(line, col, spanFromRange(el.Range)) {
			continue
		}
		if !found || rangeSize(el.Range) <= rangeSize(best.Range) {
			best = el
			found = true
		}
	}
	return best, found
}

func spanFromRange(r Range) javasyntax.Span {
	return javasyntax.Span{
		Start: javasyntax.Position{Line: r.Start.Line, Column: r.Start.Column},
		End:   javasyntax.Position{Line: r.End.Line, Column: r.End.Column},
	}
}

func rangeSize(r Range) int {
	return (r.End.Line-r.Start.Line)*100000 + (r.End.Column - r.Start.Column)
}

// NeedingOverride returns the methods that implement or override a
// supertype method without an @Override annotation present, for the
// formatting operation to flag. Heuristic (no full type hierarchy is
// available out of process): a non-static, non-private, non-constructor
// method whose owning class declares an extends/implements clause and
// which lacks @Override is flagged — the dispatcher's consumer is
// expected to treat this as a candidate list, not an authoritative one.
func (f *FullFileResult) NeedingOverride() []Element {
	var out []Element
	pkg := packageName(f.Tree)
	var walk func(n *javasyntax.Node, owner string, ownerHasSuper bool)
	walk = func(n *javasyntax.Node, owner string, ownerHasSuper bool) {
		for _, c := range n.Children {
			switch {
			case isTypeDeclKind(c.Kind):
				name := declName(c)
				childOwner := name
				if owner != "" {
					childOwner = owner + "." + name
				}
				walk(c, childOwner, extendsName(c) != "" || len(c.ChildrenOfKind(javasyntax.KindImplementsClause)) > 0)
			case c.Kind == javasyntax.KindMethodDecl:
				el := methodElement(c, pkg, owner, f.URI, false)
				if el.Modifiers.Static || el.Modifiers.Private {
					continue
				}
				if hasAnnotation(c, "Override") {
					continue
				}
				if ownerHasSuper {
					out = append(out, el)
				}
			}
		}
	}
	walk(f.Tree, "", false)
	return out
}

func hasAnnotation(n *javasyntax.Node, name string) bool {
	mods := n.FirstChildOfKind(javasyntax.KindModifiers)
	if mods == nil {
		return false
	}
	for _, a := range mods.ChildrenOfKind(javasyntax.KindAnnotation) {
		if n := qualifiedNameText(a); n == name || strings.HasSuffix(n, "."+name) {
			return true
		}
	}
	return false
}

// ImportEdit is one entry of the formatting operation's import edit set:
// the needed import set from referenced-but-unimported simple names, minus
// anything already imported and actually used. Reference resolution
// beyond "appears as a qualified-looking identifier with a capitalized
// simple name" is out of scope for this in-process facility.
type ImportEdit struct {
	Delete *importDecl // existing import line to remove, whole-line
	Insert string      // import statement text to insert (no trailing import keyword dup)
}

func (f *FullFileResult) NeededImports(known func(simpleName string) (fqn string, ok bool)) []string {
	used := map[string]bool{}
	var walk func(n *javasyntax.Node)
	walk = func(n *javasyntax.Node) {
		if n.Kind == javasyntax.KindIdentifier && n.TokenLiteral() != "" {
			lit := n.TokenLiteral()
			if len(lit) > 0 && lit[0] >= 'A' && lit[0] <= 'Z' {
				used[lit] = true
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(f.Tree)

	imported := map[string]bool{}
	for _, imp := range f.imports {
		if imp.static {
			continue
		}
		simple := imp.path
		if i := strings.LastIndexByte(simple, '.'); i >= 0 {
			simple = simple[i+1:]
		}
		imported[simple] = true
	}

	var needed []string
	for simple := range used {
		if imported[simple] {
			continue
		}
		if fqn, ok := known(simple); ok {
			needed = append(needed, fqn)
		}
	}
	return needed
}

// UnusedImports returns the existing non-static import lines whose
// simple name is never referenced in the file.
func (f *FullFileResult) UnusedImports() []importDecl {
	used := map[string]bool{}
	var walk func(n *javasyntax.Node)
	walk = func(n *javasyntax.Node) {
		if n.Kind == javasyntax.KindIdentifier {
			used[n.TokenLiteral()] = true
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(f.Tree)

	var out []importDecl
	for _, imp := range f.imports {
		if imp.static {
			continue
		}
		simple := imp.path
		if i := strings.LastIndexByte(simple, '.'); i >= 0 {
			simple = simple[i+1:]
		}
		if !used[simple] {
			out = append(out, imp)
		}
	}
	return out
}

// FirstImportLine returns the 1-based line of the first non-static
// import, or 0 if there is none.
func (f *FullFileResult) FirstImportLine() int {
	for _, imp := range f.imports {
		if !imp.static {
			return imp.line
		}
	}
	return 0
}

// PackageLine returns the 1-based line of the package declaration, or 0.
func (f *FullFileResult) PackageLine() int {
	if pkg := f.Tree.FirstChildOfKind(javasyntax.KindPackageDecl); pkg != nil {
		return pkg.Span.Start.Line
	}
	return 0
}
