package prelude

import (
	"testing"

	"github.com/rosie-lang/rpl/ast"
	"github.com/rosie-lang/rpl/rplenv"
)

func TestBuiltinsCoverAllNames(t *testing.T) {
	want := []string{".", "^", "$", "~", "halt"}
	got := Builtins()
	for _, name := range want {
		ent, ok := got[name]
		if !ok {
			t.Fatalf("Builtins() missing %q", name)
		}
		if ent.Kind != rplenv.PatternEntry {
			t.Errorf("%q: Kind = %v, want PatternEntry", name, ent.Kind)
		}
		if ent.Exp == nil {
			t.Errorf("%q: Exp is nil", name)
		}
	}
	if len(got) != len(want) {
		t.Errorf("Builtins() has %d entries, want %d", len(got), len(want))
	}
}

func TestBuiltinPrimitivesAreRuntimeNative(t *testing.T) {
	for _, name := range []string{"^", "$", "~", "halt"} {
		ent := Builtins()[name]
		p, ok := ent.Exp.(*ast.Primitive)
		if !ok {
			t.Fatalf("%q: Exp is %T, want *ast.Primitive", name, ent.Exp)
		}
		if p.Name != name {
			t.Errorf("%q: Primitive.Name = %q", name, p.Name)
		}
	}
}

func TestDotIsComplementOfEmptyClass(t *testing.T) {
	cc, ok := ast.Node(Dot).(*ast.CharClass)
	if !ok {
		t.Fatalf("Dot is %T, want *ast.CharClass", Dot)
	}
	if !cc.Complement {
		t.Error("Dot must be a complemented (negated) class to match any character")
	}
	if len(cc.Items) != 0 {
		t.Errorf("Dot has %d items, want 0 (complement of nothing)", len(cc.Items))
	}
}

func TestMacrosCoverAllNames(t *testing.T) {
	want := []string{"find", "findall", "keepto", "ci", "message", "error"}
	got := Macros()
	for _, name := range want {
		ent, ok := got[name]
		if !ok {
			t.Fatalf("Macros() missing %q", name)
		}
		if ent.Kind != rplenv.MacroEntry {
			t.Errorf("%q: Kind = %v, want MacroEntry", name, ent.Kind)
		}
		if ent.Macro == nil {
			t.Errorf("%q: Macro func is nil", name)
		}
	}
	if len(got) != len(want) {
		t.Errorf("Macros() has %d entries, want %d", len(got), len(want))
	}
}

func TestMacroArityErrors(t *testing.T) {
	one := ident("x")
	two := []ast.Node{ident("x"), ident("y")}

	tests := []struct {
		name string
		fn   func([]ast.Node) (ast.Node, error)
		args []ast.Node
	}{
		{"find/0", macroFind, nil},
		{"find/2", macroFind, two},
		{"findall/0", macroFindall, nil},
		{"keepto/2", macroKeepto, two},
		{"ci/0", macroCi, nil},
		{"message/1", macroMessage, []ast.Node{one}},
		{"error/1", macroError, []ast.Node{one}},
	}
	for _, tc := range tests {
		if _, err := tc.fn(tc.args); err == nil {
			t.Errorf("%s: expected arity error, got none", tc.name)
		}
	}
}

func TestMacroFindShape(t *testing.T) {
	e := lit("x")
	got, err := macroFind([]ast.Node{e})
	if err != nil {
		t.Fatalf("macroFind: %v", err)
	}
	seqNode, ok := got.(*ast.Sequence)
	if !ok || len(seqNode.Exps) != 2 {
		t.Fatalf("macroFind(x) = %T, want 2-element Sequence", got)
	}
	skip, ok := seqNode.Exps[0].(*ast.Repetition)
	if !ok || skip.Min != 0 || skip.Max != nil {
		t.Fatalf("macroFind(x) skip part is not a Kleene star: %#v", seqNode.Exps[0])
	}
	if seqNode.Exps[1] != e {
		t.Errorf("macroFind(x) must end by matching x itself")
	}
}

func TestMacroFindallWrapsFindInStar(t *testing.T) {
	e := lit("x")
	got, err := macroFindall([]ast.Node{e})
	if err != nil {
		t.Fatalf("macroFindall: %v", err)
	}
	rep, ok := got.(*ast.Repetition)
	if !ok || rep.Min != 0 || rep.Max != nil {
		t.Fatalf("macroFindall(x) = %#v, want unbounded Repetition", got)
	}
}

func TestMacroCiFoldsLiteralLetters(t *testing.T) {
	got, err := macroCi([]ast.Node{lit("Ab1")})
	if err != nil {
		t.Fatalf("macroCi: %v", err)
	}
	seqNode, ok := got.(*ast.Sequence)
	if !ok || len(seqNode.Exps) != 3 {
		t.Fatalf("macroCi(\"Ab1\") = %#v, want 3-element Sequence", got)
	}
	for i, want := range []bool{true, true, false} {
		_, isClass := seqNode.Exps[i].(*ast.CharClass)
		if isClass != want {
			t.Errorf("position %d: is CharClass = %v, want %v", i, isClass, want)
		}
	}
}

func TestMacroMessageAndErrorPassThroughFirstArg(t *testing.T) {
	e := lit("x")
	text := lit("oops")

	gotMsg, err := macroMessage([]ast.Node{e, text})
	if err != nil || gotMsg != e {
		t.Errorf("macroMessage: got %v, %v, want e, nil", gotMsg, err)
	}
	gotErr, err := macroError([]ast.Node{e, text})
	if err != nil || gotErr != e {
		t.Errorf("macroError: got %v, %v, want e, nil", gotErr, err)
	}
}
