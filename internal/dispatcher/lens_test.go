package dispatcher_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/javadev/javalsp/internal/dispatcher"
	"github.com/javadev/javalsp/internal/filestore"
)

const widgetDeclSource = `package com.acme;

class Widget {
  int size;

  void resize(int newSize) {
    this.size = newSize;
  }
}
`

// resizePos points inside the "resize" token of widgetDeclSource's method
// declaration.
var resizePos = dispatcher.Position{Line: 5, Character: 9}

// TestReferenceCountRecomputesOnlyTheEditedCandidate resolves the
// reference-count lens twice, with an edit to the one candidate source
// file (not the declaring file) in between, and expects the count to
// drop from 2 to 1 after re-indexing that file alone.
func TestReferenceCountRecomputesOnlyTheEditedCandidate(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Widget.java", widgetDeclSource, 1)
	d.DidOpen("file:///Caller.java", `package com.acme;

class Caller {
  void run() {
    Widget w = new Widget();
    w.resize(1);
    w.resize(2);
  }
}
`, 1)

	first := d.ResolveCodeLens("file:///Widget.java", resizePos)
	require.Equal(t, "2 references", first.Title)

	d.DidChange("file:///Caller.java", `package com.acme;

class Caller {
  void run() {
    Widget w = new Widget();
    w.resize(1);
  }
}
`, 2)

	second := d.ResolveCodeLens("file:///Widget.java", resizePos)
	require.Equal(t, "1 reference", second.Title, "expected re-indexing only Caller.java to drop the count to 1")
}

// TestReferenceCountIsStableAcrossRepeatedResolvesWithoutEdits asserts
// repeated resolves of the same lens with no intervening edits return
// the same count.
func TestReferenceCountIsStableAcrossRepeatedResolvesWithoutEdits(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Widget.java", widgetDeclSource, 1)
	d.DidOpen("file:///Caller.java", `package com.acme;

class Caller {
  void run() {
    Widget w = new Widget();
    w.resize(1);
  }
}
`, 1)

	first := d.ResolveCodeLens("file:///Widget.java", resizePos)
	second := d.ResolveCodeLens("file:///Widget.java", resizePos)
	require.Equal(t, first, second)
}

// TestReferenceCountTooExpensiveSentinel asserts more than 10 candidate
// source files collapses the lens into the too-expensive sentinel,
// titled "Find references" with the fixed count 100.
func TestReferenceCountTooExpensiveSentinel(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Widget.java", widgetDeclSource, 1)
	for i := 0; i < 11; i++ {
		uri := fmt.Sprintf("file:///Caller%d.java", i)
		src := fmt.Sprintf(`package com.acme;

class Caller%d {
  void run() {
    Widget w = new Widget();
    w.resize(1);
  }
}
`, i)
		d.DidOpen(uri, src, 1)
	}

	result := d.ResolveCodeLens("file:///Widget.java", resizePos)
	require.Equal(t, "Find references", result.Title)
}
