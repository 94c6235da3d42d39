// Package engine is the facade a CLI or FFI binding drives: one Engine
// per single-threaded caller, holding a live binding environment, a
// table of compiled matchers, and the resource tunables spec.md section
// 5 calls for. Every public method takes the engine's lock for its
// whole body, mirroring section 5's "an engine implementation must take
// an exclusive lock for the duration of compile/match to prevent state
// corruption" — generalized from the teacher, which has no multi-call
// session of its own to guard: peg.Match takes a Pattern and text and
// returns, with no state surviving between calls. An Engine instead
// accumulates bindings across LoadSource/ImportPackage calls and hands
// out long-lived matcher handles, so unlike the teacher there is shared
// mutable state a second caller could race against.
package engine

import (
	"sync"

	"github.com/rosie-lang/rpl/prelude"
	"github.com/rosie-lang/rpl/rplenv"
	"github.com/rosie-lang/rpl/runtime"
	"github.com/rosie-lang/rpl/source"
)

// defaultAllocLimit mirrors runtime.DefaultRunConfig's callstack/loop
// limits in spirit: generous enough for ordinary patterns, small enough
// to catch a runaway one. Zero would mean "unlimited," which is not a
// safe default for a facade meant to host untrusted pattern sources.
const defaultAllocLimit = 1 << 20 // 1 MiB of approximate capture/callstack bookkeeping

// minAllocLimit is the floor SetAllocLimit enforces, per spec.md
// section 6.1's "below minimum" error for set_alloc_limit.
const minAllocLimit = 1 << 10

// Engine is a single-threaded compile/match session. The zero value is
// not usable; construct with NewEngine.
type Engine struct {
	mu sync.Mutex

	env    *rplenv.Env
	loader PackageLoader

	libPath string

	matchers map[int]*runtime.Matcher
	nextID   int

	allocLimit int

	closed bool
}

// NewEngine returns a ready-to-use Engine seeded with the shared,
// read-only prelude. loader resolves import statements to package
// bindings (SPEC_FULL.md section 3.9's injected PackageLoader); pass nil
// if the embedder never calls ImportPackage.
func NewEngine(loader PackageLoader) *Engine {
	merged := map[string]rplenv.Entry{}
	for name, ent := range prelude.Builtins() {
		merged[name] = ent
	}
	for name, ent := range prelude.Macros() {
		merged[name] = ent
	}
	return &Engine{
		env:        rplenv.NewWithPrelude(merged),
		loader:     loader,
		matchers:   map[int]*runtime.Matcher{},
		allocLimit: defaultAllocLimit,
	}
}

// Close releases the engine's matcher table. A closed Engine rejects
// LoadSource, ImportPackage, CompileExpression, FreeMatcher, Match, Trace
// and SetAllocLimit with EngineError{Kind: source.EngineCallFailed},
// mirroring spec.md's "programmer misuse" classification for calling a
// freed handle; SetLibPath, GetLibPath, GetAllocLimit and Bindings still
// work on a closed Engine.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.matchers = nil
}

func (e *Engine) checkOpen() error {
	if e.closed {
		return &EngineError{Kind: source.EngineCallFailed, Message: "engine is closed"}
	}
	return nil
}

// SetLibPath records path for later import resolution. The engine
// itself never touches the filesystem — resolving a libpath-relative
// import is the injected PackageLoader's job, consistent with spec.md
// section 1 keeping file I/O out of the core.
func (e *Engine) SetLibPath(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.libPath = path
}

// GetLibPath returns the path last set by SetLibPath, or "" if none.
func (e *Engine) GetLibPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.libPath
}

// Bindings returns a flattened snapshot of every name currently bound in
// the engine's environment, prelude entries included, keyed by name. A
// PackageLoader that compiles an imported file with its own throwaway
// Engine can call Bindings right afterward to recover that file's
// top-level bindings as the package's exports.
func (e *Engine) Bindings() map[string]rplenv.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.env.Flatten()
}
