package runtime

// seqNode matches its children in order, dismatching as soon as one
// child dismatches. Mirrors combining.go's patternSequence.
type seqNode struct {
	exps []Node
}

// Seq builds an ordered sequence. A single-element sequence collapses to
// that element, mirroring prelude/build.go's seq helper at the AST level.
func Seq(exps ...Node) Node {
	if len(exps) == 1 {
		return exps[0]
	}
	return &seqNode{exps: exps}
}

func (p *seqNode) match(ctx *Context) error {
	if !ctx.justReturned() {
		if len(p.exps) == 0 {
			return ctx.returnOk(0)
		}
		ctx.locals.i = 0
		return ctx.call(p.exps[0])
	}

	if !ctx.retOk {
		return ctx.returnFail()
	}
	ctx.consume(ctx.retN)
	ctx.locals.i++
	if ctx.locals.i >= len(p.exps) {
		return ctx.returnOk(ctx.n)
	}
	return ctx.call(p.exps[ctx.locals.i])
}

// choiceNode tries its children in order, committing to the first one
// that matches (ordered/PEG choice, no ambiguity). Mirrors
// combining.go's patternAlternative.
type choiceNode struct {
	exps []Node
}

// Choice builds an ordered alternative. A single-element choice
// collapses to that element.
func Choice(exps ...Node) Node {
	if len(exps) == 1 {
		return exps[0]
	}
	return &choiceNode{exps: exps}
}

func (p *choiceNode) match(ctx *Context) error {
	if !ctx.justReturned() {
		if len(p.exps) == 0 {
			return ctx.returnFail()
		}
		ctx.locals.i = 0
		return ctx.call(p.exps[0])
	}

	if ctx.retOk {
		ctx.consume(ctx.retN)
		return ctx.returnOk(ctx.n)
	}
	ctx.locals.i++
	if ctx.locals.i >= len(p.exps) {
		return ctx.returnFail()
	}
	return ctx.call(p.exps[ctx.locals.i])
}

// repeatNode matches body between min and max times (max<0 meaning
// unbounded), greedily, with no backtracking into already-matched
// iterations — the teacher's Qmn family collapsed into one shape keyed
// by (min,max) instead of five separate named constructors.
type repeatNode struct {
	min, max int
	body     Node
}

// Repeat builds a bounded or unbounded repetition of body. max<0 means
// unbounded (star/plus); max==min means an exact count. A body that
// matches while consuming zero bytes makes the loop fail fast with
// ErrAcceptsEmpty rather than spin forever — see that error's doc
// comment.
func Repeat(min, max int, body Node) Node {
	return &repeatNode{min: min, max: max, body: body}
}

func Star(body Node) Node        { return Repeat(0, -1, body) }
func Plus(body Node) Node        { return Repeat(1, -1, body) }
func Optional(body Node) Node    { return Repeat(0, 1, body) }
func Exactly(n int, body Node) Node { return Repeat(n, n, body) }

func (p *repeatNode) match(ctx *Context) error {
	if !ctx.justReturned() {
		ctx.locals.i = 0
		if p.max == 0 {
			return ctx.returnOk(0)
		}
		return ctx.call(p.body)
	}

	if ctx.retOk {
		if ctx.retN == 0 {
			return ErrAcceptsEmpty
		}
		ctx.consume(ctx.retN)
		ctx.locals.i++
		if p.max >= 0 && ctx.locals.i >= p.max {
			return ctx.returnOk(ctx.n)
		}
		if p.max < 0 && ctx.reachedLoopLimit() {
			return errLoopLimit
		}
		return ctx.call(p.body)
	}

	if ctx.locals.i >= p.min {
		return ctx.returnOk(ctx.n)
	}
	return ctx.returnFail()
}
