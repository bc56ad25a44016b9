package dispatcher_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/javadev/javalsp/internal/dispatcher"
	"github.com/javadev/javalsp/internal/filestore"
)

const sigSource = `class Widget {
  void resize(int newSize) {
  }

  void use() {
    resize(1);
  }
}
`

// TestSignatureHelpResolvesEnclosingCall covers textDocument/signatureHelp:
// a cursor inside a call's argument list resolves the matching overload and
// active-parameter index.
func TestSignatureHelpResolvesEnclosingCall(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Widget.java", sigSource, 1)

	// "    resize(1);" — character 11 sits inside the argument list.
	result := d.SignatureHelp("file:///Widget.java", dispatcher.Position{Line: 5, Character: 11})

	require.True(t, result.Found)
	require.Len(t, result.Signatures, 1)
	require.Equal(t, 0, result.ActiveParameter)
}

// TestSignatureHelpMissOutsideCallReturnsNotFound covers the
// not-a-call-site miss: a position with no enclosing call returns
// Found=false rather than a stale overload list.
func TestSignatureHelpMissOutsideCallReturnsNotFound(t *testing.T) {
	store := filestore.NewMem()
	d := dispatcher.New(store)
	d.DidOpen("file:///Widget.java", sigSource, 1)

	result := d.SignatureHelp("file:///Widget.java", dispatcher.Position{Line: 0, Character: 0})

	require.False(t, result.Found)
}
