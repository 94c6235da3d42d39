package engine

import (
	"testing"

	"github.com/rosie-lang/rpl/ast"
	"github.com/rosie-lang/rpl/rplenv"
	"github.com/rosie-lang/rpl/source"
)

type fakeLoader struct {
	pkgName  string
	bindings map[string]rplenv.Entry
	err      error
}

func (f *fakeLoader) LoadPackage(importPath string) (string, map[string]rplenv.Entry, []source.Diagnostic, error) {
	if f.err != nil {
		return "", nil, nil, f.err
	}
	return f.pkgName, f.bindings, nil, nil
}

func TestCompileExpressionAndMatch(t *testing.T) {
	e := NewEngine(nil)
	defer e.Close()

	id, diags, err := e.CompileExpression([]byte(`"hello"`))
	if err != nil {
		t.Fatalf("CompileExpression: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	out, err := e.Match(id, 0, "bool", []byte("hello"))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !out.Ok || string(out.Data) != "true" {
		t.Fatalf("Match(\"hello\") = %+v, want Ok=true Data=true", out)
	}

	out, err = e.Match(id, 0, "bool", []byte("goodbye"))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if out.Ok || string(out.Data) != "false" {
		t.Fatalf("Match(\"goodbye\") = %+v, want Ok=false Data=false", out)
	}
}

func TestLoadSourceBindingPersistsAcrossCompileExpression(t *testing.T) {
	e := NewEngine(nil)
	defer e.Close()

	_, diags, err := e.LoadSource([]byte(`greeting = "hi"`), "<lib>")
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	id, diags, err := e.CompileExpression([]byte("greeting"))
	if err != nil {
		t.Fatalf("CompileExpression: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics referencing a loaded binding: %v", diags)
	}

	out, err := e.Match(id, 0, "bool", []byte("hi"))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !out.Ok {
		t.Errorf("expected the loaded binding to be referenceable from a later expression")
	}
}

func TestCompileExpressionBindingsDoNotLeak(t *testing.T) {
	e := NewEngine(nil)
	defer e.Close()

	if _, _, err := e.CompileExpression([]byte("scratch = \"x\"\nscratch")); err != nil {
		t.Fatalf("CompileExpression: %v", err)
	}

	_, diags, err := e.CompileExpression([]byte("scratch"))
	if err != nil {
		t.Fatalf("CompileExpression: %v", err)
	}
	found := false
	for _, d := range diags {
		if d.Kind == source.UndefinedIdentifier {
			found = true
		}
	}
	if !found {
		t.Errorf("expected \"scratch\" from a prior expression's local binding not to leak, got diags %v", diags)
	}
}

func TestFreeMatcherThenMatchIsNoSuchPattern(t *testing.T) {
	e := NewEngine(nil)
	defer e.Close()

	id, _, err := e.CompileExpression([]byte(`"x"`))
	if err != nil {
		t.Fatalf("CompileExpression: %v", err)
	}
	if err := e.FreeMatcher(id); err != nil {
		t.Fatalf("FreeMatcher: %v", err)
	}

	_, err = e.Match(id, 0, "bool", []byte("x"))
	eerr, ok := err.(*EngineError)
	if !ok || eerr.Kind != source.NoSuchPattern {
		t.Fatalf("expected a NoSuchPattern EngineError, got %v", err)
	}

	if err := e.FreeMatcher(id); err == nil {
		t.Error("double-freeing a handle should error, not silently succeed")
	}
}

func TestMatchUnknownEncoder(t *testing.T) {
	e := NewEngine(nil)
	defer e.Close()

	id, _, err := e.CompileExpression([]byte(`"x"`))
	if err != nil {
		t.Fatalf("CompileExpression: %v", err)
	}
	_, err = e.Match(id, 0, "xml", []byte("x"))
	eerr, ok := err.(*EngineError)
	if !ok || eerr.Kind != source.NoSuchEncoder {
		t.Fatalf("expected a NoSuchEncoder EngineError, got %v", err)
	}
}

func TestImportPackageMergesUnderAlias(t *testing.T) {
	loader := &fakeLoader{
		pkgName: "greetings",
		bindings: map[string]rplenv.Entry{
			"hi": {Kind: rplenv.PatternEntry, Name: "hi", Exp: ast.NewLiteral(source.Ref{Origin: "<test>"}, []byte("hi"))},
		},
	}
	e := NewEngine(loader)
	defer e.Close()

	pkgName, diags, err := e.ImportPackage("example.com/greetings", "g")
	if err != nil {
		t.Fatalf("ImportPackage: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if pkgName != "greetings" {
		t.Errorf("ImportPackage pkgName = %q, want %q", pkgName, "greetings")
	}

	id, diags, err := e.CompileExpression([]byte("g.hi"))
	if err != nil {
		t.Fatalf("CompileExpression: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics resolving an imported binding: %v", diags)
	}
	out, err := e.Match(id, 0, "bool", []byte("hi"))
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if !out.Ok {
		t.Errorf("expected the imported binding to match, got %+v", out)
	}
}

func TestImportPackageNoLoaderConfigured(t *testing.T) {
	e := NewEngine(nil)
	defer e.Close()

	_, _, err := e.ImportPackage("anything", "")
	eerr, ok := err.(*EngineError)
	if !ok || eerr.Kind != source.LoaderError {
		t.Fatalf("expected a LoaderError EngineError, got %v", err)
	}
}

func TestSetAllocLimitBelowMinimum(t *testing.T) {
	e := NewEngine(nil)
	defer e.Close()

	if err := e.SetAllocLimit(1); err == nil {
		t.Error("expected SetAllocLimit below the minimum to error")
	}
	limit, usage := e.GetAllocLimit()
	if limit != defaultAllocLimit || usage != 0 {
		t.Errorf("a rejected SetAllocLimit should leave the previous limit in place, got limit=%d usage=%d", limit, usage)
	}
}

func TestClosedEngineRejectsCalls(t *testing.T) {
	e := NewEngine(nil)
	e.Close()

	if _, _, err := e.CompileExpression([]byte(`"x"`)); err == nil {
		t.Error("expected CompileExpression on a closed engine to error")
	}
	if _, _, err := e.LoadSource([]byte(`x = "y"`), "<lib>"); err == nil {
		t.Error("expected LoadSource on a closed engine to error")
	}
}
