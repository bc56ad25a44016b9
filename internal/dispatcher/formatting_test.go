package dispatcher_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/javadev/javalsp/internal/dispatcher"
	"github.com/javadev/javalsp/internal/filestore"
)

// TestFormattingInsertsOverride asserts that a class extending a
// superclass, which re-declares a method without @Override, gets exactly
// one insertion edit at the method's line start, indented to match the
// method, with "@Override\n".
func TestFormattingInsertsOverride(t *testing.T) {
	const src = `class Base {
  void run() {
  }
}

class Derived extends Base {
  void run() {
  }
}
`
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Derived.java", src, 1)

	edits := d.Formatting("file:///Derived.java")

	var found bool
	for _, e := range edits {
		if e.NewText == "  @Override\n" {
			found = true
			require.Equal(t, 6, e.Range.Start.Line, "expected the insertion at Derived.run()'s 0-based line start")
			require.Equal(t, e.Range.Start, e.Range.End, "expected a pure insertion edit")
		}
	}
	require.True(t, found, "expected an @Override insertion edit, got %+v", edits)
}

// TestFormattingFixesImports asserts an unused import is deleted and a
// needed one is inserted at the first existing import line.
func TestFormattingFixesImports(t *testing.T) {
	const src = `package com.acme;

import java.util.Map;

class Uses {
  List field;
}
`
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Uses.java", src, 1)

	edits := d.Formatting("file:///Uses.java")

	var sawDelete, sawInsert bool
	for _, e := range edits {
		if e.NewText == "" {
			sawDelete = true
			require.Equal(t, 2, e.Range.Start.Line, "expected the Map import's 0-based line to be deleted")
		}
		if e.NewText == "import java.util.List;\n" {
			sawInsert = true
		}
	}
	require.True(t, sawDelete, "expected the unused Map import to be deleted, got %+v", edits)
	require.True(t, sawInsert, "expected java.util.List to be inserted, got %+v", edits)
}
