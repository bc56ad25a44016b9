package dispatcher_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/javadev/javalsp/internal/dispatcher"
	"github.com/javadev/javalsp/internal/engine"
	"github.com/javadev/javalsp/internal/filestore"
)

const navWidgetSource = `package com.acme;

class Widget {
  void resize(int newSize) {
  }
}
`

const navCallerSource = `package com.acme;

class Caller {
  void run() {
    Widget w = new Widget();
    w.resize(1);
  }
}
`

func openNavPair(t *testing.T) *dispatcher.Dispatcher {
	t.Helper()
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Widget.java", navWidgetSource, 1)
	d.DidOpen("file:///Caller.java", navCallerSource, 1)
	return d
}

// TestDefinitionFromCallSiteResolvesToDeclaration asserts a call-site
// identifier resolves across files to its declaring method.
func TestDefinitionFromCallSiteResolvesToDeclaration(t *testing.T) {
	d := openNavPair(t)

	// "w.resize(1);" — character 6 sits inside the "resize" identifier.
	locs := d.Definition("file:///Caller.java", dispatcher.Position{Line: 5, Character: 6})

	require.NotEmpty(t, locs)
	var sawDecl bool
	for _, l := range locs {
		if l.URI == "file:///Widget.java" {
			sawDecl = true
		}
	}
	require.True(t, sawDecl, "expected a definition location in Widget.java, got %+v", locs)
}

// TestReferencesFromDeclarationFindsCallSite covers find-references,
// symmetric to Definition.
func TestReferencesFromDeclarationFindsCallSite(t *testing.T) {
	d := openNavPair(t)

	locs := d.References("file:///Widget.java", dispatcher.Position{Line: 3, Character: 9})

	var sawCallSite bool
	for _, l := range locs {
		if l.URI == "file:///Caller.java" {
			sawCallSite = true
		}
	}
	require.True(t, sawCallSite, "expected a reference location in Caller.java, got %+v", locs)
}

// TestWorkspaceSymbolMatchesByNameSubstring covers workspace/symbol.
func TestWorkspaceSymbolMatchesByNameSubstring(t *testing.T) {
	d := openNavPair(t)

	results := d.WorkspaceSymbol("resize")

	require.NotEmpty(t, results)
	for _, r := range results {
		require.Contains(t, r.Name, "resize")
	}
}

// TestWorkspaceSymbolCapsAtFifty asserts workspace/symbol caps its reply
// at 50 results.
func TestWorkspaceSymbolCapsAtFifty(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	var src string
	for i := 0; i < 60; i++ {
		src += "  void m" + strconv.Itoa(i) + "() {}\n"
	}
	d.DidOpen("file:///Many.java", "class Many {\n"+src+"}\n", 1)

	results := d.WorkspaceSymbol("")
	require.LessOrEqual(t, len(results), 50)
}

// TestDocumentSymbolReportsClassAndMembers covers textDocument/documentSymbol.
func TestDocumentSymbolReportsClassAndMembers(t *testing.T) {
	d := openNavPair(t)

	symbols := d.DocumentSymbol("file:///Widget.java")

	var sawClass, sawMethod bool
	for _, s := range symbols {
		if s.Name == "Widget" && s.Kind == engine.ElementClass {
			sawClass = true
		}
		if s.Name == "resize" && s.Kind == engine.ElementMethod {
			sawMethod = true
		}
	}
	require.True(t, sawClass, "expected a class symbol, got %+v", symbols)
	require.True(t, sawMethod, "expected a method symbol, got %+v", symbols)
}

// TestFoldingRangeReportsImportsAndRegions covers textDocument/foldingRange:
// an imports block folds under FoldingImports, a method body under
// FoldingRegion.
func TestFoldingRangeReportsImportsAndRegions(t *testing.T) {
	const src = `package com.acme;

import java.util.List;
import java.util.Map;

class Widget {
  void resize(int newSize) {
    int x = newSize;
  }
}
`
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Widget.java", src, 1)

	ranges := d.FoldingRange("file:///Widget.java")

	var sawImports, sawRegion bool
	for _, r := range ranges {
		switch r.Category {
		case engine.FoldingImports:
			sawImports = true
		case engine.FoldingRegion:
			sawRegion = true
		}
	}
	require.True(t, sawImports, "expected a FoldingImports range, got %+v", ranges)
	require.True(t, sawRegion, "expected a FoldingRegion range, got %+v", ranges)
}
