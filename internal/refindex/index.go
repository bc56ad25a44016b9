// Package refindex counts references to declarations across files
// without recompiling the whole workspace on every findReferences call.
// A ReferenceIndex is a per-source-file mapping from declaration identity
// to reference count, staleness-checked against a target file's current
// signature; Cache is the cross-file cache the dispatcher clears
// atomically whenever the current target URI changes.
package refindex

import (
	"sync"

	"github.com/javadev/javalsp/internal/ptr"
)

// ReferenceIndex is a per-file, per-target-file index: Ptr → count, plus
// a hasErrors flag and the target signature snapshot it was built
// against.
type ReferenceIndex struct {
	counts    map[ptr.Ptr]int
	hasErrors bool
	signature map[ptr.Ptr]struct{}
	version   int
}

// New returns an empty ReferenceIndex.
func New() ReferenceIndex {
	return ReferenceIndex{counts: make(map[ptr.Ptr]int)}
}

func (r *ReferenceIndex) SetCount(p ptr.Ptr, n int) { r.counts[p] = n }
func (r *ReferenceIndex) SetHasErrors(b bool)       { r.hasErrors = b }
func (r *ReferenceIndex) SetSignature(sig map[ptr.Ptr]struct{}) {
	r.signature = make(map[ptr.Ptr]struct{}, len(sig))
	for p := range sig {
		r.signature[p] = struct{}{}
	}
}

// SetVersion records the source file's store version this index was built
// against, so a later edit to that file (not just to the target
// declaration's own file) can be detected as staleness.
func (r *ReferenceIndex) SetVersion(v int) { r.version = v }

// Version returns the source file's store version this index was built
// against.
func (r ReferenceIndex) Version() int { return r.version }

// Count returns the number of references in the indexed source file to
// the declaration identified by ptr.
func (r ReferenceIndex) Count(p ptr.Ptr) int {
	return r.counts[p]
}

// Total returns the sum over all known targets.
func (r ReferenceIndex) Total() int {
	sum := 0
	for _, n := range r.counts {
		sum += n
	}
	return sum
}

// HasErrors reports whether the compile that built this index had
// parse/compile errors — such an index is never considered valid.
func (r ReferenceIndex) HasErrors() bool {
	return r.hasErrors
}

// NeedsUpdate reports whether any Ptr this index recorded references to
// is absent from currentSignature — i.e. a target-file declaration the
// index recorded references to has disappeared or changed identity.
func (r ReferenceIndex) NeedsUpdate(currentSignature map[ptr.Ptr]struct{}) bool {
	for p := range r.signature {
		if _, ok := currentSignature[p]; !ok {
			return true
		}
	}
	return false
}

// Valid reports whether this index can still be trusted against
// currentSignature: no errors, and the stored signature is a subset of
// currentSignature under Ptr equality.
func (r ReferenceIndex) Valid(currentSignature map[ptr.Ptr]struct{}) bool {
	return !r.hasErrors && !r.NeedsUpdate(currentSignature)
}

// tooExpensiveMarker backs the TooExpensive sentinel value. The Cache
// itself records the too-many-candidates case in Cache.referencesByTarget
// as a CandidateResult with TooExpensive set instead of a URI list.
type tooExpensiveMarker struct{}

var TooExpensive = tooExpensiveMarker{}

// CandidateResult is the value type stored per target Ptr in
// references_by_target: either a concrete list of source URIs, or the
// TOO_EXPENSIVE sentinel.
type CandidateResult struct {
	URIs        []string
	TooExpensive bool
}

// Cache holds the reference-counting state for the current findReferences
// target: keyed implicitly by the current target file URI, it holds a
// candidate-source-URI list per target Ptr and a ReferenceIndex per
// candidate source, cleared atomically whenever the target URI changes.
type Cache struct {
	mu                sync.Mutex
	targetURI         string
	referencesByTarget map[ptr.Ptr]CandidateResult
	indexBySource      map[string]ReferenceIndex
}

// NewCache returns an empty Cache with no current target URI.
func NewCache() *Cache {
	return &Cache{
		referencesByTarget: make(map[ptr.Ptr]CandidateResult),
		indexBySource:      make(map[string]ReferenceIndex),
	}
}

// EnsureTarget clears the cache whenever the findReferences target
// switches to a different URI: if uri differs from the cached target
// URI, both maps are cleared in one atomic step and the new target
// recorded. Returns true if a clear happened.
func (c *Cache) EnsureTarget(uri string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.targetURI == uri {
		return false
	}
	c.targetURI = uri
	c.referencesByTarget = make(map[ptr.Ptr]CandidateResult)
	c.indexBySource = make(map[string]ReferenceIndex)
	return true
}

func (c *Cache) TargetURI() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetURI
}

func (c *Cache) GetCandidates(p ptr.Ptr) (CandidateResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.referencesByTarget[p]
	return r, ok
}

func (c *Cache) SetCandidates(p ptr.Ptr, r CandidateResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.referencesByTarget[p] = r
}

func (c *Cache) GetSourceIndex(uri string) (ReferenceIndex, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx, ok := c.indexBySource[uri]
	return idx, ok
}

func (c *Cache) SetSourceIndex(uri string, idx ReferenceIndex) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexBySource[uri] = idx
}

// Reset clears the cache unconditionally and forgets the current target
// URI — used when the compiler facility itself is replaced, since every
// cached index was built against the old facility's output.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.targetURI = ""
	c.referencesByTarget = make(map[ptr.Ptr]CandidateResult)
	c.indexBySource = make(map[string]ReferenceIndex)
}

// Empty reports whether both maps are currently empty — used by tests
// verifying the clearing behavior of EnsureTarget and Reset.
func (c *Cache) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.referencesByTarget) == 0 && len(c.indexBySource) == 0
}
