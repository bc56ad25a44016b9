package dispatcher

import (
	"strings"

	"github.com/javadev/javalsp/internal/engine"
)

// Completion implements textDocument/completion: classify what kind of
// expression the cursor sits in, then ask the focus compiler for the
// matching completion data.
func (d *Dispatcher) Completion(uri string, pos Position) CompletionResult {
	line, col := toFacility(pos)
	parsed := d.parse(uri)
	ctx := parsed.ClassifyCompletionContext(line, col)

	if ctx.Kind == engine.ContextNone {
		return CompletionResult{Items: d.cacheAndConvert(engine.TopLevelKeywords())}
	}

	focus, err := d.facility.CompileFocus(uri, line, col)
	if err != nil {
		log.Infof("compileFocus %s: %v", uri, err)
		return CompletionResult{}
	}

	var data []engine.CompletionDatum
	incomplete := false
	switch ctx.Kind {
	case engine.ContextMemberSelect:
		data = focus.CompleteMembers(ctx.InClass, false)
	case engine.ContextMemberReference:
		data = focus.CompleteMembers(ctx.InClass, true)
	case engine.ContextAnnotation:
		data = focus.CompleteAnnotations(ctx.PartialName)
	case engine.ContextCase:
		data = focus.CompleteCases(ctx.InClass)
	case engine.ContextIdentifier:
		data, incomplete = focus.CompleteIdentifiers(ctx.InClass, ctx.InMethod, ctx.PartialName)
	default:
		log.Warningf("unknown completion context kind %d for %s", ctx.Kind, uri)
		return CompletionResult{}
	}

	return CompletionResult{IsIncomplete: incomplete, Items: d.cacheAndConvert(data)}
}

// cacheAndConvert resets the completion cache to exactly this reply's
// data and mints a fresh identifier per item, so a later
// resolveCompletionItem call can look the rich datum back up.
func (d *Dispatcher) cacheAndConvert(data []engine.CompletionDatum) []CompletionItem {
	d.completions.Reset()
	items := make([]CompletionItem, 0, len(data))
	for _, datum := range data {
		id := d.completions.Put(datum)
		items = append(items, datumToItem(id, datum))
	}
	return items
}

func datumToItem(id string, datum engine.CompletionDatum) CompletionItem {
	item := CompletionItem{ID: id, Kind: datum.Kind, SortText: datum.SortText}
	switch datum.Kind {
	case engine.DatumElement:
		item.Label = datum.Element.Name
		item.Detail = elementDetail(datum.Element)
	case engine.DatumPackagePart:
		item.Label = datum.PackagePart
	case engine.DatumKeyword:
		item.Label = datum.Keyword
		item.Detail = "keyword"
	case engine.DatumClassName:
		item.Label = shortName(datum.ClassName)
		item.Detail = datum.ClassName
	case engine.DatumSnippet:
		item.Label = datum.Snippet
		item.InsertText = datum.Snippet
	default:
		log.Warningf("unknown completion datum kind %d", datum.Kind)
	}
	return item
}

func elementDetail(el engine.Element) string {
	switch el.Kind {
	case engine.ElementMethod, engine.ElementConstructor:
		return el.TypeName
	case engine.ElementField, engine.ElementParameter, engine.ElementLocalVar:
		return el.TypeName
	default:
		return ""
	}
}

func shortName(dotted string) string {
	if i := strings.LastIndexByte(dotted, '.'); i >= 0 {
		return dotted[i+1:]
	}
	return dotted
}

// ResolveCompletionItem implements completionItem/resolve: look up the
// datum by identifier, enrich method elements with a source-derived
// signature and first-sentence documentation.
func (d *Dispatcher) ResolveCompletionItem(id string) ResolvedCompletion {
	datum, ok := d.completions.Get(id)
	if !ok {
		// The client is resolving an item from a completion request the
		// cache has since moved past: log and leave the item unchanged.
		log.Warningf("resolveCompletionItem: unknown id %s", id)
		return ResolvedCompletion{Found: false}
	}
	if datum.Kind != engine.DatumElement {
		return ResolvedCompletion{Found: true}
	}

	el := datum.Element
	detail := el.TypeName
	if el.Kind == engine.ElementMethod || el.Kind == engine.ElementConstructor {
		detail = el.TypeName + " " + engine.RenderSignature(el)
	}

	doc := ""
	if node, ok := d.facility.Docs().FuzzyFind(el.URI, el.Ptr()); ok {
		if text, ok := d.facility.Docs().FirstSentenceMarkdown(el.URI, node); ok {
			doc = text
		}
	}

	return ResolvedCompletion{Found: true, Detail: strings.TrimSpace(detail), Documentation: doc}
}
