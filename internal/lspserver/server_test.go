package lspserver

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/stretchr/testify/require"

	"github.com/javadev/javalsp/internal/dispatcher"
	"github.com/javadev/javalsp/internal/engine"
)

func TestUriToPathStripsFileScheme(t *testing.T) {
	p, err := uriToPath("file:///home/dev/Widget.java")
	require.NoError(t, err)
	require.Equal(t, "/home/dev/Widget.java", p)
}

func TestUriToPathPassesThroughNonFileURI(t *testing.T) {
	p, err := uriToPath("untitled:Widget.java")
	require.NoError(t, err)
	require.Equal(t, "untitled:Widget.java", p)
}

func TestPositionRoundTripsThroughProtocol(t *testing.T) {
	p := dispatcher.Position{Line: 3, Character: 7}
	require.Equal(t, p, protocolToPos(posToProtocol(p)))
}

func TestRangeToProtocolCopiesBothEnds(t *testing.T) {
	r := dispatcher.Range{
		Start: dispatcher.Position{Line: 1, Character: 2},
		End:   dispatcher.Position{Line: 1, Character: 8},
	}
	got := rangeToProtocol(r)
	require.Equal(t, uint32(1), got.Start.Line)
	require.Equal(t, uint32(2), got.Start.Character)
	require.Equal(t, uint32(8), got.End.Character)
}

func TestStringSliceFiltersNonStringEntries(t *testing.T) {
	got := stringSlice([]any{"a.jar", 5, "b.jar", nil})
	require.Equal(t, []string{"a.jar", "b.jar"}, got)
}

func TestStringSliceNilOnWrongShape(t *testing.T) {
	require.Nil(t, stringSlice("not-a-slice"))
	require.Nil(t, stringSlice(nil))
}

func TestCompletionItemKindMapsEveryDatumKind(t *testing.T) {
	require.Equal(t, protocol.CompletionItemKindField, completionItemKind(engine.DatumElement))
	require.Equal(t, protocol.CompletionItemKindModule, completionItemKind(engine.DatumPackagePart))
	require.Equal(t, protocol.CompletionItemKindKeyword, completionItemKind(engine.DatumKeyword))
	require.Equal(t, protocol.CompletionItemKindClass, completionItemKind(engine.DatumClassName))
	require.Equal(t, protocol.CompletionItemKindSnippet, completionItemKind(engine.DatumSnippet))
}

func TestSymbolKindMapsTypesAndMembers(t *testing.T) {
	require.Equal(t, protocol.SymbolKindClass, symbolKind(engine.ElementClass))
	require.Equal(t, protocol.SymbolKindMethod, symbolKind(engine.ElementMethod))
	require.Equal(t, protocol.SymbolKindConstructor, symbolKind(engine.ElementConstructor))
	require.Equal(t, protocol.SymbolKindField, symbolKind(engine.ElementField))
	require.Equal(t, protocol.SymbolKindPackage, symbolKind(engine.ElementPackage))
}

func TestFoldingRangeKindDistinguishesImportsFromRegions(t *testing.T) {
	require.Equal(t, protocol.FoldingRangeKindImports, foldingRangeKind(engine.FoldingImports))
	require.Equal(t, protocol.FoldingRangeKindRegion, foldingRangeKind(engine.FoldingRegion))
}

func TestToIntAcceptsNumberStringAndFloat(t *testing.T) {
	n, ok := toInt(float64(42))
	require.True(t, ok)
	require.Equal(t, 42, n)

	n, ok = toInt("17")
	require.True(t, ok)
	require.Equal(t, 17, n)

	n, ok = toInt(9)
	require.True(t, ok)
	require.Equal(t, 9, n)

	_, ok = toInt("not-a-number")
	require.False(t, ok)
}

func TestParseIntLenientHandlesNegatives(t *testing.T) {
	n, err := parseIntLenient("-12")
	require.NoError(t, err)
	require.Equal(t, -12, n)

	_, err = parseIntLenient("12x")
	require.Error(t, err)
}

const lensWidgetSource = `package com.acme;

class Widget {
  void resize(int newSize) {
  }
}
`

// TestCodeLensResolveRoundTripsOpaqueData exercises the codeLens →
// codeLens/resolve round trip end to end: the unresolved lens's opaque
// Data array resolves to a reference-count command via toInt's lenient
// string/number handling.
func TestCodeLensResolveRoundTripsOpaqueData(t *testing.T) {
	s := New("test")
	const uri = "file:///Widget.java"
	s.dispatcher.DidOpen(uri, lensWidgetSource, 1)

	lenses, err := s.textDocumentCodeLens(nil, &protocol.CodeLensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.NotEmpty(t, lenses)

	var unresolved *protocol.CodeLens
	for i := range lenses {
		if lenses[i].Data != nil {
			unresolved = &lenses[i]
			break
		}
	}
	require.NotNil(t, unresolved, "expected an unresolved reference-count lens")

	resolved, err := s.codeLensResolve(nil, unresolved)
	require.NoError(t, err)
	require.NotNil(t, resolved.Command)
	require.Equal(t, "java.command.findReferences", resolved.Command.Command)
}
