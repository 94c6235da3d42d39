package engine

import (
	"github.com/rosie-lang/rpl/ast"
	"github.com/rosie-lang/rpl/compiler"
	"github.com/rosie-lang/rpl/parser"
	"github.com/rosie-lang/rpl/source"
)

// LoadSource parses and compiles src as a whole library file, binding
// every top-level Binding/Grammar/Import/PackageDecl it contains
// permanently into the engine's environment so later ImportPackage and
// CompileExpression calls can see them — unlike CompileExpression, whose
// bindings are scoped to just that one call. Diagnostics are returned
// alongside whatever could still be bound; per spec.md section 7's
// recoverable-diagnostic policy, a bad binding doesn't stop the rest of
// the file from loading.
func (e *Engine) LoadSource(src []byte, origin string) (pkgName string, diags []source.Diagnostic, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkOpen(); err != nil {
		return "", nil, err
	}

	block, pdiags, lexErr := parser.Parse(origin, src)
	if lexErr != nil {
		return "", nil, &EngineError{Kind: source.Syntax, Message: lexErr.Error()}
	}

	for _, stmt := range block.Statements {
		if imp, ok := stmt.(*ast.Import); ok {
			idiags, ierr := e.resolveImportLocked(imp)
			pdiags = append(pdiags, idiags...)
			if ierr != nil {
				return "", pdiags, ierr
			}
		}
		if decl, ok := stmt.(*ast.PackageDecl); ok {
			pkgName = decl.Name
		}
	}

	_, cdiags := compiler.Compile(block, e.env)
	return pkgName, append(pdiags, cdiags...), nil
}

// ImportPackage resolves importPath through the engine's PackageLoader
// and merges the result into env under alias (or the package's own name
// if alias is empty), as flat "prefix.name" keys — the same
// package-qualified-identifier convention compiler.resolve expects.
func (e *Engine) ImportPackage(importPath, alias string) (actualPkgName string, diags []source.Diagnostic, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkOpen(); err != nil {
		return "", nil, err
	}
	return e.importLocked(importPath, alias)
}

func (e *Engine) resolveImportLocked(imp *ast.Import) ([]source.Diagnostic, error) {
	_, diags, err := e.importLocked(imp.ImportPath, imp.Alias)
	return diags, err
}

func (e *Engine) importLocked(importPath, alias string) (string, []source.Diagnostic, error) {
	if e.loader == nil {
		return "", nil, &EngineError{Kind: source.LoaderError, Message: "no package loader configured"}
	}
	pkgName, bindings, diags, err := e.loader.LoadPackage(importPath)
	if err != nil {
		return "", diags, &EngineError{Kind: source.LoaderError, Message: err.Error()}
	}

	prefix := alias
	if prefix == "" {
		prefix = pkgName
	}
	for name, ent := range bindings {
		// The engine's innermost scope is always writable (NewEngine
		// never binds straight into the prelude scope), so this only
		// ever fails if a future caller wraps env in something stricter
		// — surfacing it keeps that assumption from failing silently.
		if bindErr := e.env.Bind(prefix+"."+name, ent); bindErr != nil {
			return "", diags, &EngineError{Kind: source.EngineCallFailed, Message: bindErr.Error()}
		}
	}
	return pkgName, diags, nil
}
