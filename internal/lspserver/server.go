// Package lspserver wires the Query Dispatcher to the Language Server
// Protocol transport: a protocol.Handler struct of method values over a
// github.com/tliron/glsp server.Server, translating protocol payloads
// to/from internal/dispatcher's 0-based domain types. All coordinate
// arithmetic lives in internal/dispatcher — this package only copies
// fields.
package lspserver

import (
	"errors"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/javadev/javalsp/internal/diagnostics"
	"github.com/javadev/javalsp/internal/dispatcher"
	"github.com/javadev/javalsp/internal/engine"
	"github.com/javadev/javalsp/internal/filestore"
	"github.com/javadev/javalsp/internal/progress"
	"github.com/javadev/javalsp/internal/watch"
)

const serverName = "javalsp"

// Server is the glsp-backed LSP server fronting a Dispatcher.
type Server struct {
	store      *filestore.Mem
	dispatcher *dispatcher.Dispatcher
	handler    protocol.Handler
	server     *server.Server
	watcher    *watch.Watcher
	version    string
}

// New constructs a Server with an empty file store and classpath.
func New(version string) *Server {
	store := filestore.NewMem()
	s := &Server{store: store, dispatcher: dispatcher.New(store), version: version}

	s.handler = protocol.Handler{
		Initialize:                    s.initialize,
		Initialized:                   s.initialized,
		Shutdown:                      s.shutdown,
		SetTrace:                      s.setTrace,
		WorkspaceDidChangeConfiguration: s.workspaceDidChangeConfiguration,
		WorkspaceDidChangeWatchedFiles:  s.workspaceDidChangeWatchedFiles,
		WorkspaceSymbol:               s.workspaceSymbol,
		TextDocumentDidOpen:           s.textDocumentDidOpen,
		TextDocumentDidChange:         s.textDocumentDidChange,
		TextDocumentDidClose:          s.textDocumentDidClose,
		TextDocumentDidSave:           s.textDocumentDidSave,
		TextDocumentCompletion:        s.textDocumentCompletion,
		CompletionItemResolve:         s.completionItemResolve,
		TextDocumentHover:             s.textDocumentHover,
		TextDocumentSignatureHelp:     s.textDocumentSignatureHelp,
		TextDocumentDefinition:        s.textDocumentDefinition,
		TextDocumentReferences:        s.textDocumentReferences,
		TextDocumentDocumentSymbol:    s.textDocumentDocumentSymbol,
		TextDocumentCodeLens:          s.textDocumentCodeLens,
		CodeLensResolve:               s.codeLensResolve,
		TextDocumentFormatting:        s.textDocumentFormatting,
		TextDocumentFoldingRange:      s.textDocumentFoldingRange,
		PrepareRename:                 s.prepareRename,
		Rename:                        s.rename,
	}

	s.server = server.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio runs the server over stdio, the transport cmd/javalsp's `serve`
// subcommand uses.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	var roots []string
	if params.RootURI != nil && *params.RootURI != "" {
		if p, err := uriToPath(*params.RootURI); err == nil {
			roots = append(roots, p)
		}
	}
	s.store.SetWorkspaceRoots(roots)

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindIncremental),
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(true)},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
		ResolveProvider:   boolPtr(true),
	}
	capabilities.SignatureHelpProvider = &protocol.SignatureHelpOptions{
		TriggerCharacters: []string{"(", ","},
	}
	capabilities.HoverProvider = boolPtr(true)
	capabilities.DefinitionProvider = boolPtr(true)
	capabilities.ReferencesProvider = boolPtr(true)
	capabilities.WorkspaceSymbolProvider = boolPtr(true)
	capabilities.DocumentSymbolProvider = boolPtr(true)
	capabilities.DocumentFormattingProvider = boolPtr(true)
	capabilities.FoldingRangeProvider = boolPtr(true)
	capabilities.CodeLensProvider = &protocol.CodeLensOptions{ResolveProvider: boolPtr(true)}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo:   &protocol.InitializeResultServerInfo{Name: serverName, Version: &s.version},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	progress.Start(ctx, "Scanning workspace")
	if w, err := watch.New(s.store.WorkspaceRoots()); err == nil {
		s.watcher = w
		go s.watchLoop(ctx)
	}
	progress.End(ctx)
	return nil
}

func (s *Server) watchLoop(ctx *glsp.Context) {
	for ev := range s.watcher.Events() {
		switch ev.Kind {
		case watch.EventCreate:
			s.store.ExternalCreate(ev.Path)
		case watch.EventChange:
			s.store.ExternalChange(ev.Path)
		case watch.EventDelete:
			s.store.ExternalDelete(ev.Path)
		}
	}
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

type javaConfig struct {
	ExternalDependencies []string `json:"externalDependencies"`
	ClassPath            []string `json:"classPath"`
}

func (s *Server) workspaceDidChangeConfiguration(ctx *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	settings, ok := params.Settings.(map[string]any)
	if !ok {
		return nil
	}
	javaRaw, ok := settings["java"].(map[string]any)
	if !ok {
		return nil
	}
	cfg := javaConfig{
		ClassPath:            stringSlice(javaRaw["classPath"]),
		ExternalDependencies: stringSlice(javaRaw["externalDependencies"]),
	}
	progress.Start(ctx, "Rebuilding compiler facility")
	err := s.dispatcher.SetConfiguration(cfg.ClassPath, cfg.ExternalDependencies)
	progress.End(ctx)
	return err
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if str, ok := r.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func (s *Server) workspaceDidChangeWatchedFiles(ctx *glsp.Context, params *protocol.DidChangeWatchedFilesParams) error {
	for _, change := range params.Changes {
		path, err := uriToPath(change.URI)
		if err != nil {
			continue
		}
		switch change.Type {
		case protocol.FileChangeTypeCreated:
			s.store.ExternalCreate(path)
		case protocol.FileChangeTypeChanged:
			s.store.ExternalChange(path)
		case protocol.FileChangeTypeDeleted:
			s.store.ExternalDelete(path)
		}
	}
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.dispatcher.DidOpen(params.TextDocument.URI, params.TextDocument.Text, int(params.TextDocument.Version))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.dispatcher.DidChange(params.TextDocument.URI, whole.Text, int(params.TextDocument.Version))
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.dispatcher.DidClose(params.TextDocument.URI)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI: params.TextDocument.URI,
	})
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	diags := s.dispatcher.DidSave(params.TextDocument.URI)
	s.publish(ctx, diags)
	return nil
}

func (s *Server) publish(ctx *glsp.Context, diags []engine.Diagnostic) {
	open, contents := s.dispatcher.OpenDocuments()
	for _, msg := range diagnostics.Publish(open, diags, contents) {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, msg)
	}
}

func (s *Server) prepareRename(ctx *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	// Unimplemented: both rename requests fail with a plain error, which
	// glsp surfaces to the client as a request-level failure.
	return nil, errors.New("prepareRename is not implemented")
}

func (s *Server) rename(ctx *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	return nil, errors.New("rename is not implemented")
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool { return &b }

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }

func uint32Ptr(n int) *uint32 {
	v := uint32(n)
	return &v
}

func posToProtocol(p dispatcher.Position) protocol.Position {
	return protocol.Position{Line: uint32(p.Line), Character: uint32(p.Character)}
}

func protocolToPos(p protocol.Position) dispatcher.Position {
	return dispatcher.Position{Line: int(p.Line), Character: int(p.Character)}
}

func rangeToProtocol(r dispatcher.Range) protocol.Range {
	return protocol.Range{Start: posToProtocol(r.Start), End: posToProtocol(r.End)}
}

func itoa(n int) string { return strconv.Itoa(n) }
