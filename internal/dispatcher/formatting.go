package dispatcher

import "strings"

// Formatting implements textDocument/formatting: import fix-up edits plus
// missing-@Override insertions, computed from the active-file
// compilation.
func (d *Dispatcher) Formatting(uri string) []TextEdit {
	active := d.active(uri)
	var edits []TextEdit

	needed := active.NeededImports(d.knownType)
	unused := active.UnusedImports()

	for _, imp := range unused {
		edits = append(edits, TextEdit{Range: wholeLineRange(imp.Line()), NewText: ""})
	}

	if len(needed) > 0 {
		insertLine := active.FirstImportLine()
		if insertLine == 0 {
			insertLine = active.PackageLine() + 1
		}
		if insertLine == 0 {
			insertLine = 1
		}
		var sb strings.Builder
		for _, imp := range needed {
			sb.WriteString("import ")
			sb.WriteString(imp)
			sb.WriteString(";\n")
		}
		edits = append(edits, TextEdit{
			Range:   Range{Start: Position{Line: insertLine - 1, Character: 0}, End: Position{Line: insertLine - 1, Character: 0}},
			NewText: sb.String(),
		})
	}

	for _, el := range active.NeedingOverride() {
		indent := strings.Repeat(" ", el.Range.Start.Column-1)
		editLine := el.Range.Start.Line - 1
		edits = append(edits, TextEdit{
			Range:   Range{Start: Position{Line: editLine, Character: 0}, End: Position{Line: editLine, Character: 0}},
			NewText: indent + "@Override\n",
		})
	}

	return edits
}

func (d *Dispatcher) knownType(simpleName string) (string, bool) {
	return d.facility.KnownType(simpleName)
}

// wholeLineRange returns the 0-based range spanning an entire source
// line, including its trailing newline, for a whole-line deletion edit.
func wholeLineRange(line1Based int) Range {
	l := line1Based - 1
	return Range{Start: Position{Line: l, Character: 0}, End: Position{Line: l + 1, Character: 0}}
}
