// Package prelude supplies RPL's built-in, read-only bindings: the
// always-available patterns (`.`, `$`, `^`, `~`, `halt`), the macros
// (`find`, `findall`, `keepto`, `ci`, `message`, `error`), and the `net`
// sub-package of address patterns.
//
// Every binding here is plain ast.Node data built once at package init
// and never mutated afterward, matching spec.md's "shared read-only
// prelude... engines hold a read reference, never a mutable one" design
// note. Building prelude patterns as AST (rather than, say, Go functions)
// means they go through the exact same compiler path as user-written
// RPL, so there is only one pattern-lowering implementation in the
// whole system.
package prelude

import (
	"github.com/rosie-lang/rpl/ast"
	"github.com/rosie-lang/rpl/source"
)

// builtinRef is the zero-width source reference attached to every
// prelude-constructed node: prelude patterns have no backing file.
var builtinRef = source.Ref{Origin: source.Builtin}

func lit(s string) ast.Node { return ast.NewLiteral(builtinRef, []byte(s)) }

func ident(name string) ast.Node { return ast.NewIdent(builtinRef, name, "") }

func seq(nodes ...ast.Node) ast.Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return ast.NewSequence(builtinRef, nodes)
}

func choice(nodes ...ast.Node) ast.Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return ast.NewChoice(builtinRef, nodes)
}

func rep(min int, max *int, e ast.Node) ast.Node {
	return ast.NewRepetition(builtinRef, min, max, e, false)
}

func star(e ast.Node) ast.Node { return rep(0, nil, e) }
func plus(e ast.Node) ast.Node { return rep(1, nil, e) }

func exactly(n int, e ast.Node) ast.Node {
	m := n
	return rep(n, &m, e)
}

func class(items ...ast.ClassItem) ast.Node {
	return ast.NewCharClass(builtinRef, items, false)
}

func crange(lo, hi rune) ast.ClassItem { return ast.CharRange(lo, hi) }

// joinExact builds n copies of item separated by sep, the AST-level
// equivalent of hucsmn/peg's Jnn(n, item, sep) (pegutil/address.go).
// n == 0 matches the empty string.
func joinExact(n int, item, sep ast.Node) ast.Node {
	if n <= 0 {
		return lit("")
	}
	nodes := make([]ast.Node, 0, 2*n-1)
	nodes = append(nodes, item)
	for i := 1; i < n; i++ {
		nodes = append(nodes, sep, item)
	}
	return seq(nodes...)
}

// joinRange builds an ordered choice trying the longest join first, down
// to the shortest, the AST-level equivalent of Jmn(min, max, item, sep).
// Ordering longest-first matches PEG's first-match-wins discipline: a
// shorter join that happens to be a prefix of a longer one must not win
// just because it comes first.
func joinRange(min, max int, item, sep ast.Node) ast.Node {
	alts := make([]ast.Node, 0, max-min+1)
	for n := max; n >= min; n-- {
		alts = append(alts, joinExact(n, item, sep))
	}
	return choice(alts...)
}
