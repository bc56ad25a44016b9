package engine_test

import (
	"testing"

	"github.com/javadev/javalsp/internal/filestore"
	"github.com/javadev/javalsp/internal/engine"
)

func newFacilityWithFile(t *testing.T, uri, content string) *engine.Facility {
	t.Helper()
	store := filestore.NewMem()
	store.Open(filestore.OpenParams{URI: uri, Content: content, Version: 1})
	return engine.NewFacility(store)
}

const sampleSource = `package com.acme;

class Widget {
  int size;

  void resize(int newSize) {
    this.size = newSize;
  }
}
`

func TestCompileFileCollectsDeclarations(t *testing.T) {
	f := newFacilityWithFile(t, "file:///Widget.java", sampleSource)
	ffr, err := f.CompileFile("file:///Widget.java")
	if err != nil {
		t.Fatal(err)
	}
	var sawClass, sawField, sawMethod bool
	for _, el := range ffr.Declarations() {
		switch el.Kind {
		case engine.ElementClass:
			if el.Name == "Widget" {
				sawClass = true
			}
		case engine.ElementField:
			if el.Name == "size" {
				sawField = true
			}
		case engine.ElementMethod:
			if el.Name == "resize" {
				sawMethod = true
			}
		}
	}
	if !sawClass || !sawField || !sawMethod {
		t.Fatalf("expected class, field and method declarations, got %+v", ffr.Declarations())
	}
}

func TestDocumentSymbolsIncludeContainerNames(t *testing.T) {
	f := newFacilityWithFile(t, "file:///Widget.java", sampleSource)
	pr, err := f.ParseFile("file:///Widget.java")
	if err != nil {
		t.Fatal(err)
	}
	symbols := pr.DocumentSymbols()
	var found bool
	for _, s := range symbols {
		if s.Name == "resize" && s.ContainerName == "Widget" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected resize's container name to be Widget, got %+v", symbols)
	}
}

func TestElementPtrIdentityAcrossRecompiles(t *testing.T) {
	f := newFacilityWithFile(t, "file:///Widget.java", sampleSource)
	a, err := f.CompileFile("file:///Widget.java")
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.CompileFile("file:///Widget.java")
	if err != nil {
		t.Fatal(err)
	}
	var pa, pb engine.Element
	for _, el := range a.Declarations() {
		if el.Name == "resize" {
			pa = el
		}
	}
	for _, el := range b.Declarations() {
		if el.Name == "resize" {
			pb = el
		}
	}
	if pa.Ptr() != pb.Ptr() {
		t.Fatal("expected the same declaration to produce equal Ptrs across recompiles")
	}
}

func TestPackageLessClassHasEmptyOwnerPtr(t *testing.T) {
	src := "class Lonely {}\n"
	f := newFacilityWithFile(t, "file:///Lonely.java", src)
	ffr, _ := f.CompileFile("file:///Lonely.java")
	for _, el := range ffr.Declarations() {
		if el.Name == "Lonely" {
			if el.Ptr().Owner() != "" {
				t.Fatalf("expected empty owner for a package-less class, got %q", el.Ptr().Owner())
			}
		}
	}
}
