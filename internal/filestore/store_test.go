package filestore_test

import (
	"testing"

	"github.com/javadev/javalsp/internal/filestore"
)

func TestOpenThenContents(t *testing.T) {
	m := filestore.NewMem()
	m.Open(filestore.OpenParams{URI: "file:///A.java", Content: "class A {}", Version: 1})

	content, ok := m.Contents("file:///A.java")
	if !ok || content != "class A {}" {
		t.Fatalf("got %q, %v", content, ok)
	}
	if v := m.Version("file:///A.java"); v != 1 {
		t.Fatalf("expected version 1, got %d", v)
	}
}

func TestChangeBumpsVersion(t *testing.T) {
	m := filestore.NewMem()
	m.Open(filestore.OpenParams{URI: "file:///A.java", Content: "v1", Version: 1})
	m.Change(filestore.ChangeParams{URI: "file:///A.java", Content: "v2", Version: 2})

	content, _ := m.Contents("file:///A.java")
	if content != "v2" {
		t.Fatalf("expected v2 content, got %q", content)
	}
	if v := m.Version("file:///A.java"); v != 2 {
		t.Fatalf("expected version 2, got %d", v)
	}
}

func TestCloseRemovesFromActiveDocuments(t *testing.T) {
	m := filestore.NewMem()
	m.Open(filestore.OpenParams{URI: "file:///A.java", Content: "x", Version: 1})
	m.Open(filestore.OpenParams{URI: "file:///B.java", Content: "y", Version: 1})
	m.Close(filestore.CloseParams{URI: "file:///A.java"})

	active := m.ActiveDocuments()
	if len(active) != 1 || active[0] != "file:///B.java" {
		t.Fatalf("expected only B.java active, got %v", active)
	}
	// content is retained for a closed file — closing only clears openness.
	if content, ok := m.Contents("file:///A.java"); !ok || content != "x" {
		t.Fatalf("expected closed file content retained, got %q, %v", content, ok)
	}
}

func TestIsJavaFile(t *testing.T) {
	m := filestore.NewMem()
	if !m.IsJavaFile("file:///pkg/A.java") {
		t.Fatal("expected .java URI to be recognized")
	}
	if m.IsJavaFile("file:///pkg/A.txt") {
		t.Fatal("expected non-.java URI to be rejected")
	}
}

func TestUnknownURIVersionIsZero(t *testing.T) {
	m := filestore.NewMem()
	if v := m.Version("file:///missing.java"); v != 0 {
		t.Fatalf("expected 0 for unknown URI, got %d", v)
	}
}

func TestExternalChangeBumpsVersionWithoutOpening(t *testing.T) {
	m := filestore.NewMem()
	m.ExternalCreate("/tmp/ws/A.java")
	uri := "file:///tmp/ws/A.java"
	before := m.Version(uri)
	m.ExternalChange("/tmp/ws/A.java")
	after := m.Version(uri)
	if after <= before {
		t.Fatalf("expected version to increase, got %d -> %d", before, after)
	}
	active := m.ActiveDocuments()
	for _, u := range active {
		if u == uri {
			t.Fatalf("external create/change must not mark a file open")
		}
	}
}

func TestExternalDeleteRemovesEntry(t *testing.T) {
	m := filestore.NewMem()
	m.ExternalCreate("/tmp/ws/A.java")
	m.ExternalDelete("/tmp/ws/A.java")
	if _, ok := m.Contents("file:///tmp/ws/A.java"); ok {
		t.Fatal("expected deleted file to be absent")
	}
}
