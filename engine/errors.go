package engine

import (
	"github.com/rosie-lang/rpl/rplenv"
	"github.com/rosie-lang/rpl/source"
)

// PackageLoader resolves an already-parsed import statement to a
// package's flattened bindings. The real libpath/filesystem resolution
// (reading a .rpl file, caching it across engines) lives outside this
// module entirely, per spec.md section 1 and SPEC_FULL.md section 3.9;
// ImportPackage only knows how to ask this interface and splice the
// answer into its env.
type PackageLoader interface {
	// LoadPackage resolves importPath (as it would appear after
	// `import "importPath"`) to the package's exported name and its
	// bindings, already flattened the way rplenv.Env.Flatten produces
	// them for a compiled source file's top-level scope.
	LoadPackage(importPath string) (pkgName string, bindings map[string]rplenv.Entry, diags []source.Diagnostic, err error)
}

// EngineError is returned by engine operations that spec.md section 6.1
// classifies as fatal for the call: no-such-matcher, no-such-encoder,
// engine-failure. Kind lets an FFI binding map back to the small fixed
// error enum the C ABI needs without string-matching a message.
type EngineError struct {
	Kind    source.Kind
	Message string
}

func (e *EngineError) Error() string {
	return string(e.Kind) + ": " + e.Message
}
