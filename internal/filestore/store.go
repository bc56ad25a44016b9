// Package filestore models the editor's virtual-buffer view of the
// workspace: open documents with editor-held content take priority over
// whatever is on disk, and disk changes the editor didn't make still need
// tracking. Store is the contract the dispatcher depends on; Mem is the
// in-process implementation the server wires up.
package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// OpenParams, ChangeParams and CloseParams mirror the shape of the LSP
// notifications that drive them; the dispatcher translates protocol
// payloads into these before calling Store.
type OpenParams struct {
	URI     string
	Content string
	Version int
}

type ChangeParams struct {
	URI     string
	Content string
	Version int
}

type CloseParams struct {
	URI string
}

// Store is the file-store contract the dispatcher and server depend on.
type Store interface {
	Open(params OpenParams)
	Change(params ChangeParams)
	Close(params CloseParams)
	ExternalCreate(path string)
	ExternalChange(path string)
	ExternalDelete(path string)
	Contents(uri string) (string, bool)
	Version(uri string) int
	ActiveDocuments() []string
	IsJavaFile(uri string) bool
	SetWorkspaceRoots(roots []string)
}

type entry struct {
	content string
	version int
	open    bool
}

// Mem is an in-memory Store: every open, changed or externally-observed
// file is a map entry keyed by URI, with a version that Open and Change
// take from their params and that ExternalChange increments by one.
type Mem struct {
	mu    sync.Mutex
	files map[string]*entry
	roots []string
}

// NewMem returns an empty Mem store.
func NewMem() *Mem {
	return &Mem{files: make(map[string]*entry)}
}

func (m *Mem) Open(p OpenParams) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p.URI] = &entry{content: p.Content, version: p.Version, open: true}
}

func (m *Mem) Change(p ChangeParams) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.files[p.URI]
	if !ok {
		e = &entry{open: true}
		m.files[p.URI] = e
	}
	e.content = p.Content
	e.version = p.Version
	e.open = true
}

func (m *Mem) Close(p CloseParams) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.files[p.URI]; ok {
		e.open = false
	}
}

// ExternalCreate records a file that appeared on disk outside the editor
// (e.g. via the fsnotify watcher in internal/watch). It does not mark the
// file open; contents are read from disk since the watcher only reports
// the path.
func (m *Mem) ExternalCreate(path string) {
	uri := pathToURI(path)
	content, _ := os.ReadFile(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[uri]; !ok {
		m.files[uri] = &entry{content: string(content)}
	}
}

// ExternalChange bumps the version of a file changed on disk while it was
// not necessarily open in the editor, re-reading its content from path.
func (m *Mem) ExternalChange(path string) {
	uri := pathToURI(path)
	content, err := os.ReadFile(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.files[uri]
	if !ok {
		e = &entry{}
		m.files[uri] = e
	}
	if err == nil {
		e.content = string(content)
	}
	e.version++
}

func (m *Mem) ExternalDelete(path string) {
	uri := pathToURI(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, uri)
}

func (m *Mem) Contents(uri string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.files[uri]
	if !ok {
		return "", false
	}
	return e.content, true
}

func (m *Mem) Version(uri string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.files[uri]; ok {
		return e.version
	}
	return 0
}

// ActiveDocuments returns the URIs currently open in the editor.
func (m *Mem) ActiveDocuments() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var uris []string
	for uri, e := range m.files {
		if e.open {
			uris = append(uris, uri)
		}
	}
	return uris
}

func (m *Mem) IsJavaFile(uri string) bool {
	return strings.HasSuffix(uri, ".java")
}

func (m *Mem) SetWorkspaceRoots(roots []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = append([]string(nil), roots...)
}

// WorkspaceRoots returns the roots last set by SetWorkspaceRoots, for the
// server's file watcher to walk at startup.
func (m *Mem) WorkspaceRoots() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.roots...)
}

func pathToURI(path string) string {
	path = filepath.ToSlash(path)
	if strings.HasPrefix(path, "/") {
		return "file://" + path
	}
	return "file:///" + path
}
