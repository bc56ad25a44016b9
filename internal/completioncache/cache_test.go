package completioncache_test

import (
	"testing"

	"github.com/javadev/javalsp/internal/completioncache"
)

func TestPutThenGetRoundTrips(t *testing.T) {
	c := completioncache.New[string]()
	id := c.Put("hello")
	got, ok := c.Get(id)
	if !ok || got != "hello" {
		t.Fatalf("expected round trip, got %q %v", got, ok)
	}
}

func TestResetClearsPriorEntries(t *testing.T) {
	c := completioncache.New[string]()
	id := c.Put("hello")
	c.Reset()
	if _, ok := c.Get(id); ok {
		t.Fatal("expected identifiers from before Reset to miss")
	}
}

func TestUnknownIdentifierMisses(t *testing.T) {
	c := completioncache.New[int]()
	if _, ok := c.Get("does-not-exist"); ok {
		t.Fatal("expected miss for unknown identifier")
	}
}

func TestIdentifiersAreDistinctPerPut(t *testing.T) {
	c := completioncache.New[int]()
	a := c.Put(1)
	b := c.Put(2)
	if a == b {
		t.Fatal("expected distinct UUIDs for distinct Put calls")
	}
}
