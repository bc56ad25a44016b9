package dispatcher

import "github.com/javadev/javalsp/internal/engine"

// Hover implements textDocument/hover: compile the active file, resolve
// the element under the cursor, and render both a Markdown first-sentence
// doc (if found) and a synthesized declaration.
func (d *Dispatcher) Hover(uri string, pos Position) HoverResult {
	line, col := toFacility(pos)
	active := d.active(uri)
	el, ok := active.ElementAt(line, col)
	if !ok {
		log.Infof("hover: no element at %s:%d:%d", uri, line, col)
		return HoverResult{}
	}

	declaration := engine.RenderDeclaration(el, hoverMembers(active, el), hoverNested(active, el))

	doc := ""
	docs := d.facility.Docs()
	if node, ok := docs.FuzzyFind(el.URI, el.Ptr()); ok {
		if text, ok := docs.FirstSentenceMarkdown(el.URI, node); ok {
			doc = text
		}
	}

	return HoverResult{Found: true, Declaration: declaration, Documentation: doc}
}

// hoverMembers collects the direct members of a type element for
// RenderDeclaration's member list; non-type elements (already a leaf)
// get no members.
func hoverMembers(active *engine.FullFileResult, el engine.Element) []engine.Element {
	if !isTypeKind(el.Kind) {
		return nil
	}
	owner := el.Name
	if el.Owner != "" {
		owner = el.Owner + "." + el.Name
	}
	var out []engine.Element
	for _, cand := range active.Declarations() {
		if cand.Owner == owner && !isTypeKind(cand.Kind) {
			out = append(out, cand)
		}
	}
	return out
}

// hoverNested collects the simple names of directly nested types.
func hoverNested(active *engine.FullFileResult, el engine.Element) []string {
	if !isTypeKind(el.Kind) {
		return nil
	}
	owner := el.Name
	if el.Owner != "" {
		owner = el.Owner + "." + el.Name
	}
	var out []string
	for _, cand := range active.Declarations() {
		if cand.Owner == owner && isTypeKind(cand.Kind) {
			out = append(out, cand.Name)
		}
	}
	return out
}

func isTypeKind(k engine.ElementKind) bool {
	switch k {
	case engine.ElementClass, engine.ElementInterface, engine.ElementEnum,
		engine.ElementRecord, engine.ElementAnnotationType:
		return true
	default:
		return false
	}
}
