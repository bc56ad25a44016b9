package lspserver

import (
	"errors"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/tliron/glsp"

	"github.com/javadev/javalsp/internal/dispatcher"
	"github.com/javadev/javalsp/internal/engine"
)

var errNotInt = errors.New("not an integer")

func (s *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	result := s.dispatcher.Completion(params.TextDocument.URI, protocolToPos(params.Position))
	items := make([]protocol.CompletionItem, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, toProtocolCompletionItem(item))
	}
	return protocol.CompletionList{IsIncomplete: result.IsIncomplete, Items: items}, nil
}

func toProtocolCompletionItem(item dispatcher.CompletionItem) protocol.CompletionItem {
	kind := completionItemKind(item.Kind)
	out := protocol.CompletionItem{
		Label:    item.Label,
		Kind:     &kind,
		SortText: &item.SortText,
		Data:     item.ID,
	}
	if item.Detail != "" {
		out.Detail = &item.Detail
	}
	if item.InsertText != "" {
		out.InsertText = &item.InsertText
		format := protocol.InsertTextFormatSnippet
		out.InsertTextFormat = &format
	}
	return out
}

func completionItemKind(k engine.CompletionDatumKind) protocol.CompletionItemKind {
	switch k {
	case engine.DatumElement:
		return protocol.CompletionItemKindField
	case engine.DatumPackagePart:
		return protocol.CompletionItemKindModule
	case engine.DatumKeyword:
		return protocol.CompletionItemKindKeyword
	case engine.DatumClassName:
		return protocol.CompletionItemKindClass
	case engine.DatumSnippet:
		return protocol.CompletionItemKindSnippet
	default:
		return protocol.CompletionItemKindText
	}
}

func (s *Server) completionItemResolve(ctx *glsp.Context, params *protocol.CompletionItem) (*protocol.CompletionItem, error) {
	id, ok := params.Data.(string)
	if !ok {
		return params, nil
	}
	resolved := s.dispatcher.ResolveCompletionItem(id)
	if !resolved.Found {
		return params, nil
	}
	if resolved.Detail != "" {
		params.Detail = &resolved.Detail
	}
	if resolved.Documentation != "" {
		params.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: resolved.Documentation}
	}
	return params, nil
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	result := s.dispatcher.Hover(params.TextDocument.URI, protocolToPos(params.Position))
	if !result.Found {
		return nil, nil
	}
	value := result.Declaration
	if result.Documentation != "" {
		value = result.Documentation + "\n\n```java\n" + result.Declaration + "\n```"
	} else {
		value = "```java\n" + result.Declaration + "\n```"
	}
	return &protocol.Hover{Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: value}}, nil
}

func (s *Server) textDocumentSignatureHelp(ctx *glsp.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	result := s.dispatcher.SignatureHelp(params.TextDocument.URI, protocolToPos(params.Position))
	if !result.Found {
		return nil, nil
	}
	sigs := make([]protocol.SignatureInformation, 0, len(result.Signatures))
	for _, ov := range result.Signatures {
		sigs = append(sigs, toSignatureInformation(ov))
	}
	active := uint32Ptr(result.ActiveSignature)
	param := uint32Ptr(result.ActiveParameter)
	return &protocol.SignatureHelp{Signatures: sigs, ActiveSignature: active, ActiveParameter: param}, nil
}

func toSignatureInformation(ov dispatcher.SignatureOverload) protocol.SignatureInformation {
	params := make([]protocol.ParameterInformation, 0, len(ov.ParamLabels))
	for i, label := range ov.ParamLabels {
		pi := protocol.ParameterInformation{Label: label}
		if i < len(ov.ParamDocs) && ov.ParamDocs[i] != "" {
			doc := ov.ParamDocs[i]
			pi.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: doc}
		}
		params = append(params, pi)
	}
	info := protocol.SignatureInformation{Label: ov.Label, Parameters: params}
	if ov.Documentation != "" {
		info.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: ov.Documentation}
	}
	return info
}

func (s *Server) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	locs := s.dispatcher.Definition(params.TextDocument.URI, protocolToPos(params.Position))
	return toProtocolLocations(locs), nil
}

func (s *Server) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	locs := s.dispatcher.References(params.TextDocument.URI, protocolToPos(params.Position))
	return toProtocolLocations(locs), nil
}

func toProtocolLocations(locs []dispatcher.Location) []protocol.Location {
	out := make([]protocol.Location, 0, len(locs))
	for _, l := range locs {
		out = append(out, protocol.Location{URI: l.URI, Range: rangeToProtocol(l.Range)})
	}
	return out
}

func (s *Server) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	results := s.dispatcher.WorkspaceSymbol(params.Query)
	out := make([]protocol.SymbolInformation, 0, len(results))
	for _, r := range results {
		container := r.ContainerName
		out = append(out, protocol.SymbolInformation{
			Name: r.Name, Kind: symbolKind(r.Kind), ContainerName: &container,
			Location: protocol.Location{URI: r.URI, Range: rangeToProtocol(r.Range)},
		})
	}
	return out, nil
}

func (s *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	results := s.dispatcher.DocumentSymbol(params.TextDocument.URI)
	out := make([]protocol.SymbolInformation, 0, len(results))
	for _, r := range results {
		container := r.ContainerName
		out = append(out, protocol.SymbolInformation{
			Name: r.Name, Kind: symbolKind(r.Kind), ContainerName: &container,
			Location: protocol.Location{URI: params.TextDocument.URI, Range: rangeToProtocol(r.Range)},
		})
	}
	return out, nil
}

func symbolKind(k engine.ElementKind) protocol.SymbolKind {
	switch k {
	case engine.ElementClass:
		return protocol.SymbolKindClass
	case engine.ElementInterface:
		return protocol.SymbolKindInterface
	case engine.ElementEnum:
		return protocol.SymbolKindEnum
	case engine.ElementRecord:
		return protocol.SymbolKindStruct
	case engine.ElementAnnotationType:
		return protocol.SymbolKindInterface
	case engine.ElementField:
		return protocol.SymbolKindField
	case engine.ElementMethod:
		return protocol.SymbolKindMethod
	case engine.ElementConstructor:
		return protocol.SymbolKindConstructor
	case engine.ElementEnumConstant:
		return protocol.SymbolKindEnumMember
	case engine.ElementParameter, engine.ElementLocalVar:
		return protocol.SymbolKindVariable
	case engine.ElementPackage:
		return protocol.SymbolKindPackage
	default:
		return protocol.SymbolKindVariable
	}
}

func (s *Server) textDocumentCodeLens(ctx *glsp.Context, params *protocol.CodeLensParams) ([]protocol.CodeLens, error) {
	lenses := s.dispatcher.CodeLens(params.TextDocument.URI)
	out := make([]protocol.CodeLens, 0, len(lenses))
	for _, l := range lenses {
		cl := protocol.CodeLens{Range: rangeToProtocol(l.Range)}
		if l.Command != "" {
			args := make([]any, 0, len(l.Args))
			for _, a := range l.Args {
				args = append(args, a)
			}
			cl.Command = &protocol.Command{Title: l.Title, Command: l.Command, Arguments: args}
		} else {
			data := make([]any, 0, len(l.Data))
			for _, d := range l.Data {
				data = append(data, d)
			}
			cl.Data = data
		}
		out = append(out, cl)
	}
	return out, nil
}

func (s *Server) codeLensResolve(ctx *glsp.Context, params *protocol.CodeLens) (*protocol.CodeLens, error) {
	data, ok := params.Data.([]any)
	if !ok || len(data) != 4 {
		return params, nil
	}
	uri, _ := data[1].(string)
	line, _ := toInt(data[2])
	col, _ := toInt(data[3])

	resolved := s.dispatcher.ResolveCodeLens(uri, dispatcher.Position{Line: line, Character: col})
	args := make([]any, 0, len(resolved.Args))
	for _, a := range resolved.Args {
		args = append(args, a)
	}
	params.Command = &protocol.Command{Title: resolved.Title, Command: resolved.Command, Arguments: args}
	return params, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case string:
		i, err := parseIntLenient(n)
		return i, err == nil
	default:
		return 0, false
	}
}

func parseIntLenient(s string) (int, error) {
	n := 0
	neg := false
	for i, r := range s {
		if i == 0 && r == '-' {
			neg = true
			continue
		}
		if r < '0' || r > '9' {
			return 0, errNotInt
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

func (s *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	edits := s.dispatcher.Formatting(params.TextDocument.URI)
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, protocol.TextEdit{Range: rangeToProtocol(e.Range), NewText: e.NewText})
	}
	return out, nil
}

func (s *Server) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	ranges := s.dispatcher.FoldingRange(params.TextDocument.URI)
	out := make([]protocol.FoldingRange, 0, len(ranges))
	for _, r := range ranges {
		kind := foldingRangeKind(r.Category)
		out = append(out, protocol.FoldingRange{
			StartLine:      uint32(r.Range.Start.Line),
			StartCharacter: uint32Ptr(r.Range.Start.Character),
			EndLine:        uint32(r.Range.End.Line),
			EndCharacter:   uint32Ptr(r.Range.End.Character),
			Kind:           &kind,
		})
	}
	return out, nil
}

func foldingRangeKind(c engine.FoldingCategory) protocol.FoldingRangeKind {
	if c == engine.FoldingImports {
		return protocol.FoldingRangeKindImports
	}
	return protocol.FoldingRangeKindRegion
}
