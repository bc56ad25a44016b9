// Package diagnostics turns a compiler-produced diagnostic list and the
// currently-open URI set into one textDocument/publishDiagnostics payload
// per open URI.
package diagnostics

import (
	"github.com/tliron/commonlog"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/javadev/javalsp/internal/engine"
)

var log = commonlog.GetLogger("javalsp.diagnostics")

// Publish computes one protocol.PublishDiagnosticsParams per URI in
// open, including URIs with no diagnostics (to clear stale markers).
// Diagnostics for files not in open are dropped with a warning — the
// file was closed between compilation and publish.
func Publish(open []string, diags []engine.Diagnostic, contents map[string]string) []protocol.PublishDiagnosticsParams {
	openSet := make(map[string]bool, len(open))
	for _, uri := range open {
		openSet[uri] = true
	}

	byURI := make(map[string][]engine.Diagnostic, len(open))
	for _, uri := range open {
		byURI[uri] = nil
	}
	for _, d := range diags {
		if !openSet[d.URI] {
			log.Warningf("dropping diagnostic for closed file %s", d.URI)
			continue
		}
		byURI[d.URI] = append(byURI[d.URI], d)
	}

	out := make([]protocol.PublishDiagnosticsParams, 0, len(open))
	for _, uri := range open {
		content := contents[uri]
		items := make([]protocol.Diagnostic, 0, len(byURI[uri]))
		for _, d := range byURI[uri] {
			items = append(items, toProtocolDiagnostic(d, content))
		}
		out = append(out, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: items,
		})
	}
	return out
}

func toProtocolDiagnostic(d engine.Diagnostic, content string) protocol.Diagnostic {
	startLine, startCol := offsetToLineCol(content, d.Offset)
	endLine, endCol := offsetToLineCol(content, d.EndOffset)
	sev := severity(d.Severity)
	diag := protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(startLine), Character: uint32(startCol)},
			End:   protocol.Position{Line: uint32(endLine), Character: uint32(endCol)},
		},
		Severity: &sev,
		Message:  d.Message,
	}
	if d.Code != "" {
		diag.Code = &protocol.IntegerOrString{Value: d.Code}
		if d.Code == "unused" {
			tag := protocol.DiagnosticTagUnnecessary
			diag.Tags = []protocol.DiagnosticTag{tag}
		}
	}
	return diag
}

func severity(s engine.Severity) protocol.DiagnosticSeverity {
	switch s {
	case engine.SeverityError:
		return protocol.DiagnosticSeverityError
	case engine.SeverityWarning, engine.SeverityMandatoryWarning:
		return protocol.DiagnosticSeverityWarning
	case engine.SeverityNote:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityHint
	}
}

// offsetToLineCol converts a byte offset into 0-based (line, column) by
// linear scan, counting \n as line breaks.
func offsetToLineCol(content string, offset int) (line, col int) {
	if offset > len(content) {
		offset = len(content)
	}
	for i := 0; i < offset; i++ {
		if content[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}
