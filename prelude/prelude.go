package prelude

import (
	"fmt"

	"github.com/rosie-lang/rpl/ast"
	"github.com/rosie-lang/rpl/rplenv"
)

func primitive(name string) ast.Node { return ast.NewPrimitive(builtinRef, name) }

// Dot is the expression bound to ".": complement of the empty character
// class, which the compiler lowers to runtime.AnyRune, i.e. any single
// UTF-8 character. Equivalent to hucsmn/peg's Dot (rune.go's
// patternAnyRune).
var Dot = ast.NewCharClass(builtinRef, nil, true)

// Builtins returns the always-available, read-only pattern bindings:
// ".", "^", "$", "~", and "halt". Entries built from Primitive nodes
// have no further expansion; the compiler lowers them straight to a
// dedicated matcher op instead of recursing into Exp.
func Builtins() map[string]rplenv.Entry {
	return map[string]rplenv.Entry{
		".":    {Kind: rplenv.PatternEntry, Name: ".", Exp: Dot},
		"^":    {Kind: rplenv.PatternEntry, Name: "^", Exp: primitive("^")},
		"$":    {Kind: rplenv.PatternEntry, Name: "$", Exp: primitive("$")},
		"~":    {Kind: rplenv.PatternEntry, Name: "~", Exp: primitive("~")},
		"halt": {Kind: rplenv.PatternEntry, Name: "halt", Exp: primitive("halt")},
	}
}

// Macros returns the built-in macro table: find, findall, keepto, ci,
// message, error. Each expands its arguments into a plain expression at
// compile time, before lowering, the same "build a grammar fragment from
// a skeleton" move the teacher's join helpers (Jnn/Jmn, combining.go)
// make for repetition-with-separator.
func Macros() map[string]rplenv.Entry {
	return map[string]rplenv.Entry{
		"find":    {Kind: rplenv.MacroEntry, Name: "find", Macro: macroFind},
		"findall": {Kind: rplenv.MacroEntry, Name: "findall", Macro: macroFindall},
		"keepto":  {Kind: rplenv.MacroEntry, Name: "keepto", Macro: macroKeepto},
		"ci":      {Kind: rplenv.MacroEntry, Name: "ci", Macro: macroCi},
		"message": {Kind: rplenv.MacroEntry, Name: "message", Macro: macroMessage},
		"error":   {Kind: rplenv.MacroEntry, Name: "error", Macro: macroError},
	}
}

func oneArg(name string, args []ast.Node) (ast.Node, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s takes exactly one argument, got %d", name, len(args))
	}
	return args[0], nil
}

// macroFind expands find(e) to "search forward for the first match of e,
// skipping and discarding anything before it": (!e .)* e.
func macroFind(args []ast.Node) (ast.Node, error) {
	e, err := oneArg("find", args)
	if err != nil {
		return nil, err
	}
	skip := star(seq(ast.NewPredicate(builtinRef, ast.Negation, e), Dot))
	return seq(skip, e), nil
}

// macroFindall expands findall(e) to "every non-overlapping match of e
// in the rest of the input", reusing find's skip-ahead shape and then
// repeating it: (find(e))*.
func macroFindall(args []ast.Node) (ast.Node, error) {
	if _, err := oneArg("findall", args); err != nil {
		return nil, err
	}
	found, err := macroFind(args)
	if err != nil {
		return nil, err
	}
	return star(found), nil
}

// macroKeepto expands keepto(e) to "consume everything up to and
// including the next match of e, capturing nothing in between":
// (!e .)* e, identical in shape to find but documented separately since
// RPL callers use it for the "discard a prefix" idiom specifically.
func macroKeepto(args []ast.Node) (ast.Node, error) {
	e, err := oneArg("keepto", args)
	if err != nil {
		return nil, err
	}
	skip := star(seq(ast.NewPredicate(builtinRef, ast.Negation, e), Dot))
	return seq(skip, e), nil
}

// macroCi expands ci(e) to a case-insensitive version of e. Rather than
// invent a new AST node, it rewrites every Literal in e into a sequence
// of one-character classes holding both cases of each letter and leaves
// everything else alone,
// matching hucsmn/peg's foldcase.go approach of rewriting at the pattern
// level instead of adding a runtime flag threaded through every matcher.
func macroCi(args []ast.Node) (ast.Node, error) {
	e, err := oneArg("ci", args)
	if err != nil {
		return nil, err
	}
	return foldCase(e), nil
}

func foldCase(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.Literal:
		return foldCaseLiteral(v)
	case *ast.Sequence:
		return ast.NewSequence(v.Ref(), foldCaseAll(v.Exps))
	case *ast.Choice:
		return ast.NewChoice(v.Ref(), foldCaseAll(v.Exps))
	case *ast.Predicate:
		return ast.NewPredicate(v.Ref(), v.Kind, foldCase(v.Exp))
	case *ast.Repetition:
		return ast.NewRepetition(v.Ref(), v.Min, v.Max, foldCase(v.Exp), v.Cooked)
	case *ast.Capture:
		return ast.NewCapture(v.Ref(), v.Name, foldCase(v.Exp))
	case *ast.Cooked:
		return ast.NewCooked(v.Ref(), foldCase(v.Exp))
	case *ast.Raw:
		return ast.NewRaw(v.Ref(), foldCase(v.Exp))
	default:
		return n
	}
}

func foldCaseAll(nodes []ast.Node) []ast.Node {
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		out[i] = foldCase(n)
	}
	return out
}

// foldCaseLiteral turns a literal byte string into a sequence of
// single-character classes, each containing both cases of any letter
// byte, leaving non-letters untouched.
func foldCaseLiteral(lit *ast.Literal) ast.Node {
	var parts []ast.Node
	for _, b := range lit.Value {
		parts = append(parts, foldCaseByte(b))
	}
	return seq(parts...)
}

func foldCaseByte(b byte) ast.Node {
	lo, hi := caseVariants(b)
	if lo == hi {
		return ast.NewLiteral(builtinRef, []byte{b})
	}
	return ast.NewCharClass(builtinRef, []ast.ClassItem{ast.CharList([]rune{lo, hi})}, false)
}

func caseVariants(b byte) (rune, rune) {
	switch {
	case b >= 'a' && b <= 'z':
		return rune(b), rune(b - ('a' - 'A'))
	case b >= 'A' && b <= 'Z':
		return rune(b), rune(b + ('a' - 'A'))
	default:
		return rune(b), rune(b)
	}
}

// macroMessage expands message(e, text) to e itself: it compiles exactly
// as e. The text argument is discarded; neither this macro nor the
// compiler produces a node or a diagnostic carrying it.
func macroMessage(args []ast.Node) (ast.Node, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("message takes exactly two arguments, got %d", len(args))
	}
	return args[0], nil
}

// macroError expands error(e, text) the same way message does, to e
// itself with text discarded. The compiler, not the macro, appends a halt
// after the expansion, so a match that gets through e ends the run
// aborted; compilation itself is not affected.
func macroError(args []ast.Node) (ast.Node, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("error takes exactly two arguments, got %d", len(args))
	}
	return args[0], nil
}
