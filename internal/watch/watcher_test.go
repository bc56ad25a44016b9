package watch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/javadev/javalsp/internal/watch"
)

func TestWatcherReportsJavaFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Widget.java")
	if err := os.WriteFile(path, []byte("class Widget {}"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	w, err := watch.New([]string{dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("class Widget { int x; }"), 0o644); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}

	select {
	case ev := <-w.Events():
		if ev.Path != path {
			t.Fatalf("expected event for %s, got %s", path, ev.Path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a watch event")
	}
}

func TestWatcherIgnoresNonJavaFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := watch.New([]string{dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write notes.txt: %v", err)
	}

	select {
	case ev := <-w.Events():
		t.Fatalf("expected no event for a non-.java file, got %+v", ev)
	case <-time.After(300 * time.Millisecond):
	}
}
