package rplenv

import "sync"

// Package is a loaded import unit: its import path and the frozen,
// read-only set of bindings it exports.
type Package struct {
	Path    string
	Entries map[string]Entry
}

// PackageTable is an internally synchronized cache of import path ->
// loaded Package, meant to be shared process-wide the way the teacher's
// grammar namespaces are built once and reused; the thing worth sharing
// across compilations is the (potentially expensive) load of a package
// from disk, not a running match. engine.Engine does not use it: its
// ImportPackage calls the PackageLoader on every import.
type PackageTable struct {
	mu       sync.RWMutex
	packages map[string]*Package
}

// NewPackageTable creates an empty table.
func NewPackageTable() *PackageTable {
	return &PackageTable{packages: map[string]*Package{}}
}

// Get returns the already-loaded package at path, if any.
func (t *PackageTable) Get(path string) (*Package, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	pkg, ok := t.packages[path]
	return pkg, ok
}

// Loader resolves an import path to a freshly compiled Package. It is
// supplied by the caller of LoadOrGet, which knows how to turn an import path
// into source bytes (filesystem lookup, embedded prelude sub-packages,
// etc.) — the table itself has no opinion on storage.
type Loader func(path string) (*Package, error)

// LoadOrGet returns the cached package at path, loading and caching it
// via load if this is the first request for that path. Concurrent
// requests for the same uncached path may both call load; the result
// that wins the race to store is the one every caller sees afterward,
// which is safe here because packages are pure functions of their
// source text.
func (t *PackageTable) LoadOrGet(path string, load Loader) (*Package, error) {
	if pkg, ok := t.Get(path); ok {
		return pkg, nil
	}
	pkg, err := load(path)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	if existing, ok := t.packages[path]; ok {
		t.mu.Unlock()
		return existing, nil
	}
	t.packages[path] = pkg
	t.mu.Unlock()
	return pkg, nil
}

// Invalidate drops a cached package, forcing the next LoadOrGet to
// reload it. Used when a source file backing a package changes on disk.
func (t *PackageTable) Invalidate(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.packages, path)
}
