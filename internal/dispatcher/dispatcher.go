package dispatcher

import (
	"sync"

	"github.com/tliron/commonlog"

	"github.com/javadev/javalsp/internal/activefile"
	"github.com/javadev/javalsp/internal/completioncache"
	"github.com/javadev/javalsp/internal/engine"
	"github.com/javadev/javalsp/internal/filestore"
	"github.com/javadev/javalsp/internal/parsecache"
	"github.com/javadev/javalsp/internal/refindex"
)

var log = commonlog.GetLogger("javalsp.dispatcher")

// Dispatcher is the query dispatcher: the LSP server's single entry point
// for every document-lifecycle notification and semantic query. It owns
// every downstream cache (parse, active-compile, completion, reference
// index) and is the sole caller of the compiler facility's
// parseFile/compileFile/compileFocus/compileBatch contract, so those
// caches always see exactly the requests the facility itself served.
type Dispatcher struct {
	store    filestore.Store
	facility *engine.Facility

	parseCache  *parsecache.Cache[*engine.ParseResult]
	activeCache *activefile.Cache[*engine.FullFileResult]
	completions *completioncache.Cache[engine.CompletionDatum]
	refCache    *refindex.Cache

	mu             sync.Mutex
	recentlyOpened map[string]bool
	classPath      []string
	externalDeps   []string
	facilityEpoch  int
}

// New constructs a Dispatcher over store, with an initially empty
// classpath-derived compiler facility.
func New(store filestore.Store) *Dispatcher {
	return &Dispatcher{
		store:          store,
		facility:       engine.NewFacility(store),
		parseCache:     parsecache.New[*engine.ParseResult](),
		activeCache:    activefile.New[*engine.FullFileResult](),
		completions:    completioncache.New[engine.CompletionDatum](),
		refCache:       refindex.NewCache(),
		recentlyOpened: map[string]bool{},
	}
}

// SetConfiguration applies the `java.classPath` / `java.externalDependencies`
// workspace configuration. The compiler facility is rebuilt only when
// either set transitions between empty and non-empty — changing the
// contents of an already non-empty set is a documented no-op, since a
// finer-grained diff-and-patch policy isn't worth the complexity for a
// setting editors change rarely, if ever, mid-session.
func (d *Dispatcher) SetConfiguration(classPath, externalDependencies []string) error {
	d.mu.Lock()
	toggled := (len(d.classPath) == 0) != (len(classPath) == 0) ||
		(len(d.externalDeps) == 0) != (len(externalDependencies) == 0)
	d.classPath = append([]string(nil), classPath...)
	d.externalDeps = append([]string(nil), externalDependencies...)
	d.mu.Unlock()

	if !toggled {
		return nil
	}
	entries := append(append([]string(nil), classPath...), externalDependencies...)
	err := d.facility.SetClassPath(entries)
	d.mu.Lock()
	d.facilityEpoch = d.facility.Epoch()
	d.mu.Unlock()
	// A facility replacement invalidates every derived cache: new element
	// identity means every cached (uri, version) entry is now moot.
	d.parseCache.InvalidateAll()
	d.activeCache.InvalidateAll()
	d.completions.Reset()
	d.refCache.Reset()
	return err
}

// DidOpen implements the didOpen notification: record the URI in
// recentlyOpened and update the parse cache (not a full compile).
func (d *Dispatcher) DidOpen(uri, content string, version int) {
	d.store.Open(filestore.OpenParams{URI: uri, Content: content, Version: version})
	if !d.store.IsJavaFile(uri) {
		return
	}
	d.mu.Lock()
	d.recentlyOpened[uri] = true
	d.mu.Unlock()
	d.parse(uri)
}

// DidChange implements the didChange notification: mutate the file store.
// Compilation is not triggered here — the next read query observes the
// bumped version and reparses/recompiles lazily.
func (d *Dispatcher) DidChange(uri, content string, version int) {
	d.store.Change(filestore.ChangeParams{URI: uri, Content: content, Version: version})
}

// DidClose implements the didClose notification: the caller publishes an
// empty diagnostic list for uri afterward, to clear stale markers.
func (d *Dispatcher) DidClose(uri string) {
	d.store.Close(filestore.CloseParams{URI: uri})
}

// DidSave implements the didSave notification: lint every currently-open
// document and return the diagnostics to publish.
func (d *Dispatcher) DidSave(uri string) []engine.Diagnostic {
	d.flushRecentlyOpened()
	return d.Lint()
}

// Lint reports every diagnostic across the currently-open documents; the
// caller publishes one message per open URI via internal/diagnostics
// (including empty lists, to clear stale markers).
func (d *Dispatcher) Lint() []engine.Diagnostic {
	open := d.store.ActiveDocuments()
	uris := make(map[string]struct{}, len(open))
	for _, uri := range open {
		if d.store.IsJavaFile(uri) {
			uris[uri] = struct{}{}
		}
	}
	return d.facility.ReportErrors(uris)
}

// OpenDocuments returns the currently-open URIs and their contents, for
// building a diagnostics.Publish call.
func (d *Dispatcher) OpenDocuments() (uris []string, contents map[string]string) {
	open := d.store.ActiveDocuments()
	contents = make(map[string]string, len(open))
	for _, uri := range open {
		c, _ := d.store.Contents(uri)
		contents[uri] = c
	}
	return open, contents
}

// flushRecentlyOpened drains the recentlyOpened set at defined points
// (code-lens resolution, save-triggered linting). Nothing currently reads
// the set back before it's flushed, so flushing just clears it.
func (d *Dispatcher) flushRecentlyOpened() {
	d.mu.Lock()
	d.recentlyOpened = map[string]bool{}
	d.mu.Unlock()
}

func (d *Dispatcher) parse(uri string) *engine.ParseResult {
	v := d.store.Version(uri)
	if pr, ok := d.parseCache.Get(uri, v); ok {
		return pr
	}
	pr, err := d.facility.ParseFile(uri)
	if err != nil {
		log.Infof("parse %s: %v", uri, err)
	}
	d.parseCache.Put(uri, pr)
	return pr
}

// active returns the fully type-checked compilation for uri, using the
// active-file cache to avoid recompiling a file the cursor hasn't left.
func (d *Dispatcher) active(uri string) *engine.FullFileResult {
	v := d.store.Version(uri)
	if ffr, ok := d.activeCache.Get(uri, v); ok {
		return ffr
	}
	ffr, err := d.facility.CompileFile(uri)
	if err != nil {
		log.Infof("compile %s: %v", uri, err)
	}
	d.activeCache.Put(uri, ffr)
	return ffr
}

// ScanClassPath is exposed for cmd/javalsp's `scan` subcommand, which
// reports the facility's classpath-derived symbol count without going
// through a full LSP session.
func (d *Dispatcher) ScanClassPath(entries []string) ([]engine.Element, error) {
	return engine.ScanClassPath(entries)
}
