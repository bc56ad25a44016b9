package dispatcher

import "github.com/javadev/javalsp/internal/engine"

// SignatureHelp implements textDocument/signatureHelp: compile the focus;
// if the cursor sits inside a method invocation, produce an information
// record per overload with parameter docs enriched from the doc path
// when available.
func (d *Dispatcher) SignatureHelp(uri string, pos Position) SignatureHelpResult {
	line, col := toFacility(pos)
	focus, err := d.facility.CompileFocus(uri, line, col)
	if err != nil {
		log.Infof("compileFocus %s: %v", uri, err)
		return SignatureHelpResult{}
	}

	active := d.active(uri)
	inv, ok := focus.MethodInvocationAt(active.Declarations())
	if !ok {
		return SignatureHelpResult{}
	}

	docs := d.facility.Docs()
	overloads := make([]SignatureOverload, 0, len(inv.Candidates))
	activeSig := 0
	for i, el := range inv.Candidates {
		overloads = append(overloads, signatureOverload(el, docs))
		if inv.Resolved != nil && el.Ptr() == inv.Resolved.Ptr() {
			activeSig = i
		}
	}

	return SignatureHelpResult{
		Found: true, Signatures: overloads,
		ActiveSignature: activeSig, ActiveParameter: inv.ActiveParameter,
	}
}

func signatureOverload(el engine.Element, docs *engine.DocFacility) SignatureOverload {
	label := engine.RenderSignature(el)
	paramLabels := append([]string(nil), el.ParamTypes...)
	paramDocs := make([]string, len(el.ParamTypes))

	if node, ok := docs.FuzzyFind(el.URI, el.Ptr()); ok {
		if doc, ok := docs.Doc(el.URI, node); ok {
			byName := engine.ParamDocs(doc)
			for i, name := range el.ParamNames {
				if i < len(paramDocs) {
					paramDocs[i] = byName[name]
				}
			}
		}
	}

	doc := ""
	if node, ok := docs.FuzzyFind(el.URI, el.Ptr()); ok {
		if text, ok := docs.FirstSentenceMarkdown(el.URI, node); ok {
			doc = text
		}
	}

	return SignatureOverload{Label: label, ParamLabels: paramLabels, ParamDocs: paramDocs, Documentation: doc}
}
