package runtime

// startAnchorNode and endAnchorNode implement the `^` and `$` builtins:
// zero-width, true only at the very start or end of the input. These
// (plus Halt and the boundary node in boundary.go) are the constructs
// SPEC_FULL.md's prelude binds directly to ast.Primitive rather than
// expanding as ordinary combinators, since none of them can be expressed
// in terms of the other combinators without reaching into byte-level
// runtime state the AST layer doesn't have access to.
type startAnchorNode struct{}

// StartAnchor is the `^` builtin.
func StartAnchor() Node { return startAnchorNode{} }

func (startAnchorNode) match(ctx *Context) error {
	if ctx.at == 0 {
		return ctx.returnOk(0)
	}
	return ctx.returnFail()
}

type endAnchorNode struct{}

// EndAnchor is the `$` builtin.
func EndAnchor() Node { return endAnchorNode{} }

func (endAnchorNode) match(ctx *Context) error {
	if ctx.at == len(ctx.input) {
		return ctx.returnOk(0)
	}
	return ctx.returnFail()
}

// haltNode is the `halt` builtin: it never returns normally, it
// unwinds the whole run as a soft abort (see Context.match). There is
// no teacher analogue — hucsmn/peg has no notion of aborting a match
// early short of a host-fatal error — so this is new code serving
// spec.md section 4.3's halt entry.
type haltNode struct{}

// Halt is the `halt` builtin.
func Halt() Node { return haltNode{} }

func (haltNode) match(ctx *Context) error {
	return errHalted
}
