package compiler

import (
	"testing"

	"github.com/rosie-lang/rpl/ast"
	"github.com/rosie-lang/rpl/parser"
	"github.com/rosie-lang/rpl/prelude"
	"github.com/rosie-lang/rpl/rplenv"
	"github.com/rosie-lang/rpl/runtime"
	"github.com/rosie-lang/rpl/source"
)

// newEnv builds a fresh environment seeded with the prelude's builtins and
// macros, the same way the engine facade is expected to for every
// compilation unit.
func newEnv() *rplenv.Env {
	merged := map[string]rplenv.Entry{}
	for name, ent := range prelude.Builtins() {
		merged[name] = ent
	}
	for name, ent := range prelude.Macros() {
		merged[name] = ent
	}
	return rplenv.NewWithPrelude(merged)
}

func mustParse(t *testing.T, src string) ast.Block {
	t.Helper()
	blk, diags, err := parser.Parse("<test>", []byte(src))
	if err != nil {
		t.Fatalf("Parse(%q) lex error: %v", src, err)
	}
	if len(diags) != 0 {
		t.Fatalf("Parse(%q) unexpected parse diagnostics: %v", src, diags)
	}
	return blk
}

func run(t *testing.T, m *runtime.Matcher, input string) *runtime.MatchResult {
	t.Helper()
	res, err := runtime.Run(m, []byte(input), 0, runtime.DefaultRunConfig())
	if err != nil {
		t.Fatalf("Run(%q): unexpected error %v", input, err)
	}
	return res
}

func findKind(diags []source.Diagnostic, kind source.Kind) (source.Diagnostic, bool) {
	for _, d := range diags {
		if d.Kind == kind {
			return d, true
		}
	}
	return source.Diagnostic{}, false
}

func TestCompileLiteralMatches(t *testing.T) {
	blk := mustParse(t, `"hello"`)
	m, diags := Compile(blk, newEnv())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if m == nil {
		t.Fatal("Compile returned nil matcher for a trailing expression")
	}
	res := run(t, m, "hello")
	if !res.Ok {
		t.Errorf("expected match on %q", "hello")
	}
	res = run(t, m, "goodbye")
	if res.Ok {
		t.Errorf("expected no match on %q", "goodbye")
	}
}

func TestCompileBindingNoTrailing(t *testing.T) {
	blk := mustParse(t, `greeting = "hello"`)
	m, diags := Compile(blk, newEnv())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if m != nil {
		t.Fatalf("Compile with no trailing expression should return a nil matcher")
	}
}

func TestCompileIdentReference(t *testing.T) {
	blk := mustParse(t, "greeting = \"hi\"\ngreeting")
	m, diags := Compile(blk, newEnv())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	res := run(t, m, "hi")
	if !res.Ok {
		t.Fatal("expected match")
	}
	if res.Root == nil || len(res.Root.Subs) != 1 || res.Root.Subs[0].Name != "greeting" {
		t.Fatalf("expected a named %q capture, got %+v", "greeting", res.Root)
	}
}

func TestCompileAliasSuppressesCapture(t *testing.T) {
	blk := mustParse(t, "alias greeting = \"hi\"\ngreeting")
	m, diags := Compile(blk, newEnv())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	res := run(t, m, "hi")
	if !res.Ok {
		t.Fatal("expected match")
	}
	if len(res.Root.Subs) != 0 {
		t.Fatalf("alias reference should not produce a named capture, got %+v", res.Root.Subs)
	}
}

func TestCompileUndefinedIdentifier(t *testing.T) {
	blk := mustParse(t, `missing`)
	m, diags := Compile(blk, newEnv())
	d, ok := findKind(diags, source.UndefinedIdentifier)
	if !ok {
		t.Fatalf("expected an UndefinedIdentifier diagnostic, got %v", diags)
	}
	if d.Severity != source.SeverityError {
		t.Errorf("UndefinedIdentifier should be an error, got %v", d.Severity)
	}
	res := run(t, m, "anything")
	if res.Ok {
		t.Errorf("an undefined identifier should lower to a never-matching placeholder")
	}
}

func TestCompileUndefinedCharset(t *testing.T) {
	blk := mustParse(t, `[:nope:]`)
	_, diags := Compile(blk, newEnv())
	if _, ok := findKind(diags, source.UndefinedCharset); !ok {
		t.Fatalf("expected an UndefinedCharset diagnostic, got %v", diags)
	}
}

func TestCompileNamedCharset(t *testing.T) {
	blk := mustParse(t, `[:digit:]+`)
	m, diags := Compile(blk, newEnv())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	res := run(t, m, "123")
	if !res.Ok || res.End != 3 {
		t.Fatalf("expected [:digit:]+ to match all of %q, got %+v", "123", res)
	}
}

func TestCompileRepetitionRange(t *testing.T) {
	blk := mustParse(t, `"a"{3,1}`)
	_, diags := Compile(blk, newEnv())
	if _, ok := findKind(diags, source.RepetitionRange); !ok {
		t.Fatalf("expected a RepetitionRange diagnostic, got %v", diags)
	}
}

func TestCompileQuantifiedEmpty(t *testing.T) {
	blk := mustParse(t, `("a"?)*`)
	_, diags := Compile(blk, newEnv())
	if _, ok := findKind(diags, source.QuantifiedEmpty); !ok {
		t.Fatalf("expected a QuantifiedEmpty diagnostic, got %v", diags)
	}
}

func TestCompilePredicate(t *testing.T) {
	blk := mustParse(t, `!"a" .`)
	m, diags := Compile(blk, newEnv())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if run(t, m, "b").Ok == false {
		t.Errorf("negative lookahead should let a non-\"a\" byte through")
	}
	if run(t, m, "a").Ok {
		t.Errorf("negative lookahead should reject \"a\"")
	}
}

func TestCompileCookedSequenceRequiresBoundary(t *testing.T) {
	// "foo" then "!" crosses a word/punct boundary, so the implicit `~`
	// a cooked sequence inserts between siblings holds here.
	blk := mustParse(t, `"foo" "!"`)
	m, diags := Compile(blk, newEnv())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !run(t, m, "foo!").Ok {
		t.Errorf("expected cooked sequence to match across a word/punct boundary")
	}

	// "foo" then "bar" never crosses a boundary (word immediately
	// followed by word), so the same cooked sequencing should reject it.
	blk2 := mustParse(t, `"foo" "bar"`)
	m2, diags2 := Compile(blk2, newEnv())
	if len(diags2) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags2)
	}
	if run(t, m2, "foobar").Ok {
		t.Errorf("expected cooked sequence to reject two adjacent word tokens with no boundary")
	}
}

func TestCompileRawSequenceIgnoresBoundary(t *testing.T) {
	blk := mustParse(t, `{"foo" "bar"}`)
	m, diags := Compile(blk, newEnv())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !run(t, m, "foobar").Ok {
		t.Errorf("a raw group should concatenate directly with no boundary check")
	}
}

func TestCompileCookedRepetitionBoundary(t *testing.T) {
	// Each "a;" copy ends on punctuation and the next starts on a word
	// byte, so the boundary inserted between copies always holds.
	blk := mustParse(t, `"a;"{2}`)
	m, diags := Compile(blk, newEnv())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	res := run(t, m, "a;a;")
	if !res.Ok || res.End != 4 {
		t.Fatalf("expected \"a;\"{2} to match all of %q, got %+v", "a;a;", res)
	}
}

func TestCompileRecapture(t *testing.T) {
	blk := mustParse(t, `(a = (b = "x"))`)
	m, diags := Compile(blk, newEnv())
	d, ok := findKind(diags, source.ReCapture)
	if !ok {
		t.Fatalf("expected a ReCapture diagnostic, got %v", diags)
	}
	if d.Severity != source.SeverityWarning {
		t.Errorf("ReCapture should be a warning, got %v", d.Severity)
	}
	res := run(t, m, "x")
	if !res.Ok {
		t.Fatal("expected match")
	}
	if len(res.Root.Subs) != 1 || res.Root.Subs[0].Name != "a" {
		t.Fatalf("expected the outer label to win over the inner one, got %+v", res.Root.Subs)
	}
}

func TestCompileMacroFind(t *testing.T) {
	blk := mustParse(t, `find("z")`)
	m, diags := Compile(blk, newEnv())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	res := run(t, m, "abcz")
	if !res.Ok || res.End != 4 {
		t.Fatalf("expected find(\"z\") to skip ahead to the match, got %+v", res)
	}
}

func TestCompileMacroErrorHalts(t *testing.T) {
	blk := mustParse(t, `error("x", "tag")`)
	m, diags := Compile(blk, newEnv())
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	res := run(t, m, "x")
	if !res.Aborted {
		t.Fatalf("expected error(\"x\", \"tag\") to abort the run once matched, got %+v", res)
	}
}

func TestCompileUndefinedMacro(t *testing.T) {
	blk := mustParse(t, `nope("x")`)
	_, diags := Compile(blk, newEnv())
	if _, ok := findKind(diags, source.UndefinedIdentifier); !ok {
		t.Fatalf("expected an UndefinedIdentifier diagnostic for an undefined macro, got %v", diags)
	}
}
