package runtime

import (
	"context"
	"unicode/utf8"
)

// RunConfig tunes one Run call, mirroring the teacher's peg.Config
// (CallstackLimit, LoopLimit) plus the resource/cancellation additions
// spec.md section 5 asks for: an allocation ceiling and a cooperative
// cancellation context.
type RunConfig struct {
	// CallstackLimit bounds trampoline call depth; zero or negative means
	// unlimited. Mirrors peg.Config.CallstackLimit.
	CallstackLimit int

	// LoopLimit bounds the iteration count of a single qualifier with no
	// upper bound (`*`, `+`, `{n,}`); a qualifier with its own maximum is
	// bounded by that instead. Zero or negative means unlimited. Mirrors peg.Config.LoopLimit, kept as a
	// defense in depth alongside the compile-time ErrAcceptsEmpty check.
	LoopLimit int

	// AllocLimit bounds the approximate byte size of the call/capture
	// stacks; zero or negative means unlimited. Exceeding it soft-aborts
	// the run (partial result, Aborted true) rather than panicking.
	AllocLimit int

	// Ctx is polled at the cooperative cancellation safe points spec.md
	// section 5 names (qualifier iteration, choice commit, grammar rule
	// entry); nil is treated as context.Background().
	Ctx context.Context
}

// DefaultRunConfig mirrors peg.go's defaultConfig values.
func DefaultRunConfig() RunConfig {
	return RunConfig{CallstackLimit: 500, LoopLimit: 500}
}

const (
	approxStackFrameBytes = 96
	approxCapFrameBytes   = 64
)

// localValues is per-frame scratch state, mirroring context.go's
// localValues; i is the loop counter shared by every qualifier Node, j a
// second slot Repeat uses to detect a zero-width iteration.
type localValues struct {
	i, j int
}

// stackFrame is a backed-up trampoline frame, mirroring context.go's
// stackFrame. Captures are deliberately NOT part of the frame: the
// capture stack is threaded through calls unconditionally (begin/end
// calls are always lexically paired around a call/return, exactly as
// in the teacher), so it needs no save/restore of its own.
type stackFrame struct {
	pat    Node
	at, n  int
	locals localValues
	levels int
}

// capFrame accumulates the named subtrees produced while matching one
// capture's body. The root frame (index 0, empty Name) collects every
// top-level capture that was never itself wrapped by a parent capture.
type capFrame struct {
	name  string
	start int
	subs  []*MatchTree
}

// Context is the trampoline driving one Run call. Every Node's match
// method receives one and reports completion through call/execute
// (descend) or returnOk/returnFail (answer upward), never through
// native Go recursion.
type Context struct {
	cfg RunConfig

	input []byte
	at    int // absolute cursor into input
	n     int // bytes consumed by the CURRENT frame

	pat    Node
	locals localValues
	isret  bool
	retOk  bool
	retN   int

	levels    int
	callstack []stackFrame

	capstack []capFrame

	aborted bool
}

func newContext(pat Node, input []byte, at int, cfg RunConfig) *Context {
	if cfg.Ctx == nil {
		cfg.Ctx = context.Background()
	}
	return &Context{
		cfg:      cfg,
		input:    input,
		at:       at,
		pat:      pat,
		capstack: []capFrame{{}},
	}
}

// match runs the trampoline until pat becomes nil (the whole tree has
// answered back to the root) or a fatal error occurs. halt and the
// allocation ceiling are not fatal: they mark the run aborted and stop
// the loop early, leaving whatever was matched/captured so far intact.
func (ctx *Context) match() error {
	for ctx.pat != nil {
		select {
		case <-ctx.cfg.Ctx.Done():
			ctx.aborted = true
			return nil
		default:
		}

		err := ctx.pat.match(ctx)
		switch err {
		case nil:
			// continue
		case errHalted, errHeapCeiling:
			ctx.aborted = true
			return nil
		default:
			return err
		}
	}
	return nil
}

// call invokes callee as a fresh trampoline frame, backing up the
// caller's state exactly as context.go's call does.
func (ctx *Context) call(callee Node) error {
	if ctx.cfg.CallstackLimit > 0 && ctx.levels >= ctx.cfg.CallstackLimit {
		return errCallstackOverflow
	}
	if err := ctx.checkBudget(); err != nil {
		return err
	}

	ctx.callstack = append(ctx.callstack, stackFrame{
		pat:    ctx.pat,
		at:     ctx.at,
		n:      ctx.n,
		locals: ctx.locals,
		levels: ctx.levels,
	})
	ctx.levels++

	ctx.n = 0
	ctx.pat = callee
	ctx.locals = localValues{}
	ctx.isret = false
	return nil
}

// execute invokes callee without pushing a new callstack frame (a tail
// call); no text may have been consumed by the current frame yet,
// mirroring context.go's execute precondition.
func (ctx *Context) execute(callee Node) error {
	if ctx.n != 0 {
		return errExecuteWhenConsumed
	}
	if ctx.cfg.CallstackLimit > 0 && ctx.levels >= ctx.cfg.CallstackLimit {
		return errCallstackOverflow
	}
	ctx.levels++
	ctx.pat = callee
	ctx.locals = localValues{}
	ctx.isret = false
	return nil
}

// returnOk answers to the caller that n bytes were matched.
func (ctx *Context) returnOk(n int) error {
	ctx.isret = true
	ctx.retOk = true
	ctx.retN = n
	return ctx.popFrame()
}

// returnFail answers to the caller that the current frame dismatched.
func (ctx *Context) returnFail() error {
	ctx.isret = true
	ctx.retOk = false
	ctx.retN = 0
	return ctx.popFrame()
}

func (ctx *Context) popFrame() error {
	if len(ctx.callstack) == 0 {
		ctx.pat = nil
		return nil
	}
	frame := ctx.callstack[len(ctx.callstack)-1]
	ctx.callstack = ctx.callstack[:len(ctx.callstack)-1]
	ctx.levels--

	ctx.pat = frame.pat
	ctx.at = frame.at
	ctx.n = frame.n
	ctx.locals = frame.locals
	ctx.levels = frame.levels
	return nil
}

// justReturned reports (and clears) whether the previous iteration of
// the trampoline just answered back into this frame, mirroring
// context.go's justReturned — every composite Node's match method polls
// this first to decide "am I dispatching a child, or resuming after one
// returned".
func (ctx *Context) justReturned() bool {
	isret := ctx.isret
	ctx.isret = false
	return isret
}

func (ctx *Context) reachedLoopLimit() bool {
	return ctx.cfg.LoopLimit > 0 && ctx.locals.i >= ctx.cfg.LoopLimit
}

// consume advances the absolute cursor and the current frame's matched
// span by n bytes.
func (ctx *Context) consume(n int) {
	ctx.n += n
	ctx.at += n
}

// span returns the bytes matched so far in the current frame.
func (ctx *Context) span() []byte {
	return ctx.input[ctx.at-ctx.n : ctx.at]
}

// readNext returns up to n bytes starting at the cursor.
func (ctx *Context) readNext(n int) []byte {
	end := ctx.at + n
	if end > len(ctx.input) {
		end = len(ctx.input)
	}
	if end < ctx.at {
		end = ctx.at
	}
	return ctx.input[ctx.at:end]
}

// readPrev returns up to n bytes immediately before the cursor. The
// boundary primitive's lookbehind uses readPrevRune instead.
func (ctx *Context) readPrev(n int) []byte {
	start := ctx.at - n
	if start < 0 {
		start = 0
	}
	return ctx.input[start:ctx.at]
}

// readRune decodes the rune at the cursor without consuming it.
func (ctx *Context) readRune() (r rune, n int) {
	if ctx.at >= len(ctx.input) {
		return 0, 0
	}
	return utf8.DecodeRune(ctx.input[ctx.at:])
}

// readPrevRune decodes the rune immediately before the cursor without
// consuming it, used by the boundary primitive.
func (ctx *Context) readPrevRune() (r rune, n int) {
	if ctx.at <= 0 {
		return 0, 0
	}
	return utf8.DecodeLastRune(ctx.input[:ctx.at])
}

func (ctx *Context) checkBudget() error {
	if ctx.cfg.AllocLimit <= 0 {
		return nil
	}
	used := len(ctx.callstack)*approxStackFrameBytes + len(ctx.capstack)*approxCapFrameBytes
	if used > ctx.cfg.AllocLimit {
		return errHeapCeiling
	}
	return nil
}

// beginCapture starts accumulating a new named (or, if name=="",
// transparent) capture frame.
func (ctx *Context) beginCapture(name string) error {
	if err := ctx.checkBudget(); err != nil {
		return err
	}
	ctx.capstack = append(ctx.capstack, capFrame{name: name, start: ctx.at})
	return nil
}

// endCapture closes the innermost capture frame. If matched is false the
// whole subtree (and any subs it accumulated) is discarded. If the
// frame's name is empty (an alias reference, or any other transparent
// grouping), its subs are spliced directly into the parent frame instead
// of wrapping them in a node of their own, matching spec.md's "unnamed
// matches produce no node but may contribute subs to their parent".
func (ctx *Context) endCapture(matched bool) error {
	if len(ctx.capstack) < 2 {
		return errCornerCase
	}
	top := ctx.capstack[len(ctx.capstack)-1]
	ctx.capstack = ctx.capstack[:len(ctx.capstack)-1]

	if !matched {
		return nil
	}

	parent := &ctx.capstack[len(ctx.capstack)-1]
	if top.name == "" {
		parent.subs = append(parent.subs, top.subs...)
		return nil
	}
	parent.subs = append(parent.subs, &MatchTree{
		Name:  top.name,
		Start: top.start,
		End:   ctx.at,
		Subs:  top.subs,
	})
	return nil
}

