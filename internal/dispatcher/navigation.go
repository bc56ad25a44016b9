package dispatcher

// Definition implements go-to-definition: resolve the target element from
// the active file, ask the compiler facility for the set of URIs that
// might contain its definitions, prune them by the element's simple name
// (or owning class name for constructors), add the source URI,
// batch-compile, re-resolve, and collect definition ranges.
func (d *Dispatcher) Definition(uri string, pos Position) []Location {
	line, col := toFacility(pos)
	active := d.active(uri)
	el, ok := active.ElementAt(line, col)
	if !ok {
		log.Infof("definition: no element at %s:%d:%d", uri, line, col)
		return nil
	}

	candidates := d.facility.PotentialDefinitions(el)
	candidates[uri] = struct{}{}
	files := urisOf(candidates)

	batch, err := d.facility.CompileBatchPruned(files, el.PruneName())
	if err != nil {
		log.Infof("definition batch compile: %v", err)
		return nil
	}
	resolved, ok := batch.Element(uri, line, col)
	if !ok {
		resolved = el
	}

	var out []Location
	for _, path := range batch.Definitions(resolved) {
		out = append(out, Location{URI: path.URI, Range: fromFacilityRange(path.Range())})
	}
	return out
}

// References implements find-references, symmetric to Definition:
// candidate discovery via PotentialReferences instead of
// PotentialDefinitions, resolution via batch.References.
func (d *Dispatcher) References(uri string, pos Position) []Location {
	line, col := toFacility(pos)
	active := d.active(uri)
	el, ok := active.ElementAt(line, col)
	if !ok {
		log.Infof("references: no element at %s:%d:%d", uri, line, col)
		return nil
	}

	candidates := d.facility.PotentialReferences(el)
	candidates[uri] = struct{}{}
	files := urisOf(candidates)

	batch, err := d.facility.CompileBatchPruned(files, el.PruneName())
	if err != nil {
		log.Infof("references batch compile: %v", err)
		return nil
	}
	resolved, ok := batch.Element(uri, line, col)
	if !ok {
		resolved = el
	}

	var out []Location
	for _, path := range batch.References(resolved) {
		out = append(out, Location{URI: path.URI, Range: fromFacilityRange(path.Range())})
	}
	return out
}

func urisOf(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for uri := range set {
		out = append(out, uri)
	}
	return out
}

// WorkspaceSymbol implements workspace/symbol, delegating to the compiler
// facility with a ceiling of 50 results.
func (d *Dispatcher) WorkspaceSymbol(query string) []SymbolResult {
	els := d.facility.FindSymbols(query, 50)
	out := make([]SymbolResult, 0, len(els))
	for _, el := range els {
		out = append(out, SymbolResult{
			Name: el.Name, Kind: el.Kind, ContainerName: el.Owner,
			URI: el.URI, Range: fromFacilityRange(el.Range),
		})
	}
	return out
}

// DocumentSymbol implements textDocument/documentSymbol from the parse
// cache.
func (d *Dispatcher) DocumentSymbol(uri string) []DocumentSymbolResult {
	parsed := d.parse(uri)
	symbols := parsed.DocumentSymbols()
	out := make([]DocumentSymbolResult, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, DocumentSymbolResult{
			Name: s.Name, Kind: s.Kind, ContainerName: s.ContainerName,
			Range: fromFacilityRange(s.Range),
		})
	}
	return out
}

// FoldingRange implements textDocument/foldingRange from the parse cache.
func (d *Dispatcher) FoldingRange(uri string) []FoldingRangeResult {
	parsed := d.parse(uri)
	ranges := parsed.FoldingRanges()
	out := make([]FoldingRangeResult, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, FoldingRangeResult{Category: r.Category, Range: fromFacilityRange(r.Range)})
	}
	return out
}
