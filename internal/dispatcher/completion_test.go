package dispatcher_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/javadev/javalsp/internal/dispatcher"
	"github.com/javadev/javalsp/internal/engine"
	"github.com/javadev/javalsp/internal/filestore"
)

// TestEmptyCompletionContextReturnsTopLevelKeywords asserts a cursor
// with no enclosing syntax gets exactly the top-level-keyword list, each
// item kind=Keyword, detail="keyword".
func TestEmptyCompletionContextReturnsTopLevelKeywords(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///A.java", "class A {\n}\n", 1)

	result := d.Completion("file:///A.java", dispatcher.Position{Line: 0, Character: 10})

	require.NotEmpty(t, result.Items)
	for _, item := range result.Items {
		require.Equal(t, engine.DatumKeyword, item.Kind)
		require.Equal(t, "keyword", item.Detail)
	}
}

// TestCompletionItemRoundTrips asserts every item in the latest reply
// resolves against the completion cache.
func TestCompletionItemRoundTrips(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///A.java", "class A {\n}\n", 1)

	result := d.Completion("file:///A.java", dispatcher.Position{Line: 0, Character: 10})
	require.NotEmpty(t, result.Items)

	for _, item := range result.Items {
		resolved := d.ResolveCompletionItem(item.ID)
		require.True(t, resolved.Found, "expected item %q to be a cache hit", item.ID)
	}
}

// TestResolveCompletionItemMissReturnsNotFound asserts an unknown
// identifier resolves to Found=false rather than panicking.
func TestResolveCompletionItemMissReturnsNotFound(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	resolved := d.ResolveCompletionItem("does-not-exist")
	require.False(t, resolved.Found)
}

// TestCompletionCacheIsReplacedOnEachCall asserts identifiers from an
// earlier completion reply stop resolving once a later completion call
// replaces the cache.
func TestCompletionCacheIsReplacedOnEachCall(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///A.java", "class A {\n}\n", 1)
	d.DidOpen("file:///B.java", "class B {\n}\n", 1)

	first := d.Completion("file:///A.java", dispatcher.Position{Line: 0, Character: 10})
	require.NotEmpty(t, first.Items)
	firstID := first.Items[0].ID

	d.Completion("file:///B.java", dispatcher.Position{Line: 0, Character: 10})

	resolved := d.ResolveCompletionItem(firstID)
	require.False(t, resolved.Found, "expected the first reply's identifiers to be evicted by the second call")
}
