package runtime

// Matcher is a compiled, ready-to-run pattern: the root of a Node tree
// produced by the compiler package. The field is unexported so only
// this package's NewMatcher can construct one, the same sealing
// discipline as the Node interface itself.
type Matcher struct {
	root Node
}

// NewMatcher wraps a compiled Node tree as a runnable Matcher. Called by
// the compiler once lowering and grammar tying finish.
func NewMatcher(root Node) *Matcher {
	return &Matcher{root: root}
}

// MatchResult is the outcome of one Run call. Start/End bound the whole
// match (even if Root has no named captures at all, e.g. matching a
// bare alias); Root's Subs hold whatever named captures occurred at the
// top level. There is no teacher analogue — peg.Result is a flat
// Groups/Captures pair with no notion of a partial/soft-aborted run.
type MatchResult struct {
	Ok      bool
	Start   int
	End     int
	Aborted bool
	Root    *MatchTree
}

// Run matches m against input starting at offset start. A failed match
// (Ok false, Aborted false) is not an error: it's an ordinary outcome
// every caller must check for, the same way peg.ConfiguredMatch returns
// Result.Ok rather than an error for a plain dismatch. Run returns a
// non-nil error only for host-fatal conditions (nil matcher,
// out-of-range start, callstack overflow, loop limit, or a compiler bug
// surfacing as errUndefinedRule / ErrAcceptsEmpty).
func Run(m *Matcher, input []byte, start int, cfg RunConfig) (*MatchResult, error) {
	if m == nil || m.root == nil {
		return nil, errNilPattern
	}
	if start < 0 || start > len(input) {
		return nil, errStartOutOfRange
	}

	ctx := newContext(m.root, input, start, cfg)
	if err := ctx.match(); err != nil {
		return nil, err
	}

	root := &MatchTree{Start: start, Subs: ctx.capstack[0].subs}

	if ctx.aborted {
		root.End = ctx.at
		return &MatchResult{Start: start, End: ctx.at, Aborted: true, Root: root}, nil
	}

	res := &MatchResult{Start: start, Ok: ctx.retOk}
	if ctx.retOk {
		res.End = ctx.at
		root.End = ctx.at
		res.Root = root
	}
	return res, nil
}
