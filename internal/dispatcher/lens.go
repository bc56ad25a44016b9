package dispatcher

import (
	"strconv"

	"github.com/javadev/javalsp/internal/engine"
	"github.com/javadev/javalsp/internal/ptr"
	"github.com/javadev/javalsp/internal/refindex"
)

// tooExpensiveCandidateCeiling bounds how many candidate source files the
// reference-count procedure will batch-compile before giving up and
// reporting the unresolved sentinel count instead.
const tooExpensiveCandidateCeiling = 10

// tooExpensiveSentinelCount is the fixed count shown in place of an exact
// total once the candidate ceiling is exceeded.
const tooExpensiveSentinelCount = 100

// CodeLens implements textDocument/codeLens from the parse cache only:
//   - test class → resolved "Run All Tests" lens
//   - test method → resolved "Run Test" lens
//   - else → an unresolved reference-count lens carrying resolve data
func (d *Dispatcher) CodeLens(uri string) []CodeLens {
	parsed := d.parse(uri)
	targets := parsed.LensTargets()
	out := make([]CodeLens, 0, len(targets))
	for _, t := range targets {
		r := fromFacilityRange(t.Range)
		switch {
		case t.IsTestClass:
			out = append(out, CodeLens{
				Range: r, Title: "Run All Tests", Command: "java.command.test.run",
				Args: []string{uri, t.Name, ""},
			})
		case t.IsTestMethod:
			out = append(out, CodeLens{
				Range: r, Title: "Run Test", Command: "java.command.test.run",
				Args: []string{uri, t.ContainerClass, t.Name},
			})
		default:
			out = append(out, CodeLens{
				Range: r,
				Data: []string{
					"java.command.findReferences", uri,
					strconv.Itoa(r.Start.Line), strconv.Itoa(r.Start.Character),
				},
			})
		}
	}
	return out
}

// ResolveCodeLens implements codeLens/resolve: flush recentlyOpened,
// compute the reference count via the reference-indexing procedure below,
// and return the lens title/command.
func (d *Dispatcher) ResolveCodeLens(uri string, pos Position) ResolvedLens {
	d.flushRecentlyOpened()

	count, tooExpensive := d.countReferences(uri, pos)

	line, col := pos.Line, pos.Character
	args := []string{uri, strconv.Itoa(line), strconv.Itoa(col)}

	var title string
	switch {
	case tooExpensive:
		title = "Find references"
	case count == 0:
		title = "? references"
	case count == 1:
		title = "1 reference"
	default:
		title = strconv.Itoa(count) + " references"
	}
	return ResolvedLens{Title: title, Command: "java.command.findReferences", Args: args}
}

// countReferences computes a reference count for the declaration at
// uri:pos in five steps: clear the cache on a target switch, resolve the
// element, take the active file's current signature, recompute the
// candidate source files and any stale per-source index, then sum the
// counts.
func (d *Dispatcher) countReferences(uri string, pos Position) (count int, tooExpensive bool) {
	// Step 1: clear both index caches atomically if the target URI changed.
	d.refCache.EnsureTarget(uri)

	// Step 2: ensure the active file is compiled, resolve the element,
	// compute its Ptr.
	line, col := toFacility(pos)
	active := d.active(uri)
	el, ok := active.ElementAt(line, col)
	if !ok {
		log.Infof("countReferences: no element at %s:%d:%d", uri, line, col)
		return 0, false
	}
	target := el.Ptr()

	// Step 3: the active file's current signature.
	currentSignature := active.Signature()

	// Step 4: recompute if the per-target entry is absent, or any cached
	// source index needsUpdate against the current signature, or a
	// candidate source file has been edited since its index was built.
	candidateResult, haveCandidates := d.refCache.GetCandidates(target)
	stale := !haveCandidates
	if haveCandidates && !candidateResult.TooExpensive {
		for _, srcURI := range candidateResult.URIs {
			idx, ok := d.refCache.GetSourceIndex(srcURI)
			if !ok || idx.NeedsUpdate(currentSignature) || idx.Version() != d.store.Version(srcURI) {
				stale = true
				break
			}
		}
	}
	if haveCandidates && candidateResult.TooExpensive {
		stale = false
	}

	if stale {
		candidates := d.facility.PotentialReferences(el)
		delete(candidates, uri)
		candidateURIs := urisOf(candidates)

		if len(candidateURIs) > tooExpensiveCandidateCeiling {
			d.refCache.SetCandidates(target, refindex.CandidateResult{TooExpensive: true})
			return tooExpensiveSentinelCount, true
		}

		allFiles := append(append([]string(nil), candidateURIs...), uri)
		batch, err := d.facility.CompileBatchPruned(allFiles, el.PruneName())
		if err != nil {
			log.Infof("countReferences batch compile: %v", err)
			return 0, false
		}
		targets := map[ptr.Ptr]struct{}{target: {}}

		var nonZero []string
		for _, src := range candidateURIs {
			idx := batch.Index(src, targets)
			d.refCache.SetSourceIndex(src, idx)
			if idx.Total() > 0 {
				nonZero = append(nonZero, src)
			}
		}
		d.refCache.SetCandidates(target, refindex.CandidateResult{URIs: nonZero})
		candidateResult = refindex.CandidateResult{URIs: nonZero}
	}

	if candidateResult.TooExpensive {
		return tooExpensiveSentinelCount, true
	}

	// Step 5: sum count(ptr) over the active-file index plus stored
	// per-source indices.
	total := activeFileOwnReferenceCount(active, el)
	for _, src := range candidateResult.URIs {
		if idx, ok := d.refCache.GetSourceIndex(src); ok {
			total += idx.Count(target)
		}
	}
	return total, false
}

// activeFileOwnReferenceCount counts references to el within the file
// that declares it, using the same textual mechanism engine.IndexFile
// applies to other batch members. The declaration's own name token always
// contributes one spurious match, so it is subtracted back out.
func activeFileOwnReferenceCount(active *engine.FullFileResult, el engine.Element) int {
	targets := map[ptr.Ptr]struct{}{el.Ptr(): {}}
	idx := engine.IndexFile(active, targets)
	count := idx.Count(el.Ptr()) - 1
	if count < 0 {
		count = 0
	}
	return count
}
