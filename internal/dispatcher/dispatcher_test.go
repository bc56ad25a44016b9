package dispatcher_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/javadev/javalsp/internal/dispatcher"
	"github.com/javadev/javalsp/internal/filestore"
)

func newOpenDispatcher(t *testing.T, uri, content string) *dispatcher.Dispatcher {
	t.Helper()
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen(uri, content, 1)
	return d
}

const widgetSource = `package com.acme;

class Widget {
  int size;

  void resize(int newSize) {
    this.size = newSize;
  }
}
`

func TestDidChangeIsObservedByNextQuery(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Widget.java", "class Widget {}\n", 1)
	require.NotEmpty(t, d.DocumentSymbol("file:///Widget.java"))

	d.DidChange("file:///Widget.java", widgetSource, 2)
	symbols := d.DocumentSymbol("file:///Widget.java")

	var sawResize bool
	for _, s := range symbols {
		if s.Name == "resize" {
			sawResize = true
		}
	}
	require.True(t, sawResize, "expected the post-change compile to see the resize method, got %+v", symbols)
}

func TestLintOnlyReportsOpenFiles(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Good.java", "class Good {}\n", 1)
	diags := d.Lint()
	for _, diag := range diags {
		require.Equal(t, "file:///Good.java", diag.URI)
	}
}

func TestDidCloseStopsLinting(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Bad.java", "class Bad {\n", 1)
	d.DidClose("file:///Bad.java")
	open, _ := d.OpenDocuments()
	require.NotContains(t, open, "file:///Bad.java")
}

func TestSetConfigurationNoOpWhenContentsChangeButStaysNonEmpty(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	require.NoError(t, d.SetConfiguration([]string{t.TempDir()}, nil))
	// Changing the *contents* of an already non-empty set is a documented
	// no-op — it must not error out even though "/nonexistent/b" doesn't
	// exist on disk, since no facility rebuild (and thus no scan) happens
	// at all.
	require.NoError(t, d.SetConfiguration([]string{"/nonexistent/b"}, nil))
}

func TestSetConfigurationTogglesEmptyToNonEmpty(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Widget.java", widgetSource, 1)
	_ = d.Hover("file:///Widget.java", dispatcher.Position{Line: 3, Character: 6})

	err := d.SetConfiguration([]string{t.TempDir()}, nil)
	require.NoError(t, err)
}
