package reconcile

// stateResolver adapts the State Store to codec.LinkResolver and
// codec.PathLookup, so smart links inside tracked Markdown resolve against
// whatever is currently tracked.
type stateResolver struct {
	e *Engine
}

// Resolve implements codec.LinkResolver: target is a local relative path
// (the wikilink's literal target text), resolved to the tracked page id.
func (r *stateResolver) Resolve(target string) (string, bool) {
	ds, err := r.e.Store.ReadState()
	if err != nil {
		return "", false
	}
	id, ok := ds.PathIndex[target]
	if ok {
		return id, ok
	}
	id, ok = ds.PathIndex[target+".md"]
	return id, ok
}

// LookupPath implements codec.PathLookup: id is a tracked page id, resolved
// back to its local relative path.
func (r *stateResolver) LookupPath(id string) (string, bool) {
	ds, err := r.e.Store.ReadState()
	if err != nil {
		return "", false
	}
	p, ok := ds.Pages[id]
	if !ok || p.Tombstone {
		return "", false
	}
	return p.Path, true
}
