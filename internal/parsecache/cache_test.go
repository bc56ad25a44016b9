package parsecache_test

import (
	"testing"

	"github.com/javadev/javalsp/internal/parsecache"
)

type fakeParse struct{ v int }

func (f fakeParse) Version() int { return f.v }

func TestMissWhenEmpty(t *testing.T) {
	c := parsecache.New[fakeParse]()
	if _, ok := c.Get("file:///A.java", 1); ok {
		t.Fatal("expected miss on empty cache")
	}
}

func TestHitOnMatchingURIAndVersion(t *testing.T) {
	c := parsecache.New[fakeParse]()
	c.Put("file:///A.java", fakeParse{v: 3})
	got, ok := c.Get("file:///A.java", 3)
	if !ok || got.v != 3 {
		t.Fatalf("expected hit, got %v %v", got, ok)
	}
}

func TestMissOnStaleVersion(t *testing.T) {
	c := parsecache.New[fakeParse]()
	c.Put("file:///A.java", fakeParse{v: 3})
	if _, ok := c.Get("file:///A.java", 4); ok {
		t.Fatal("expected miss on version mismatch")
	}
}

func TestMissOnDifferentURIReplacesSingleEntry(t *testing.T) {
	c := parsecache.New[fakeParse]()
	c.Put("file:///A.java", fakeParse{v: 1})
	if _, ok := c.Get("file:///B.java", 1); ok {
		t.Fatal("expected miss for a different URI — cache holds exactly one entry")
	}
	c.Put("file:///B.java", fakeParse{v: 1})
	if _, ok := c.Get("file:///A.java", 1); ok {
		t.Fatal("expected A.java to be evicted once B.java was cached")
	}
}

func TestInvalidate(t *testing.T) {
	c := parsecache.New[fakeParse]()
	c.Put("file:///A.java", fakeParse{v: 1})
	c.Invalidate("file:///A.java")
	if _, ok := c.Get("file:///A.java", 1); ok {
		t.Fatal("expected cache cleared after Invalidate")
	}
}
