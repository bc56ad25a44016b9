// Package javasyntax is the streaming, error-tolerant Java lexer and
// recursive-descent parser behind the compiler facility's parseFile,
// compileFile, compileFocus and compileBatch contracts (see
// internal/engine). It never fails on malformed input — unparsable text
// becomes an ErrorNode carrying a diagnostic and the offending tokens —
// which is what lets the Pruner (internal/engine.Prune) blank out whole
// lines of a file and still get back a tree usable for definition and
// reference lookups on what remains.
//
// # Streaming interface
//
//	p := javasyntax.ParseCompilationUnit(strings.NewReader(src), javasyntax.WithFile("Main.java"))
//	tree := p.Finish()
//
// Finish reads the remainder of the source and returns the root Node.
// IsComplete reports whether the input parsed so far is a structurally
// complete unit (useful for REPL or partial-document scenarios, not
// exercised by the LSP core itself, which always parses a document's full
// text at once).
//
// # Positions
//
// Every Node carries a Span of two Positions (File, Offset, 1-based Line,
// 1-based byte Column). internal/engine converts these to and from the
// protocol's 0-based line/character exactly at the dispatcher boundary.
//
// # Node shape
//
//	type Node struct {
//	    Kind     NodeKind
//	    Span     Span
//	    Children []*Node
//	    Token    *Token // set for terminals
//	    Error    *Error // set for KindError nodes
//	}
//
// NodeKind follows JLS Chapter 19's grammar productions closely enough to
// answer every query the dispatcher needs: declaration enumeration,
// document symbols, folding categories, completion-context classification
// and position-anchored element lookup.
//
// A Parser is not safe for concurrent use; callers create one per file per
// compile, matching the single-threaded cooperative scheduling model the
// dispatcher runs under.
package javasyntax
