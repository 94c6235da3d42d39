package runtime

import "bytes"

// literalNode matches an exact byte sequence. Mirrors text.go's
// patternText, minus the prefix-tree machinery that file uses to match
// many literals at once — a compiled RPL literal is always a single
// fixed string, so Choice over several literalNodes already gives the
// compiler the same behavior Alt(T(...), T(...), ...) would.
type literalNode struct {
	bytes []byte
}

// Literal matches b exactly at the cursor.
func Literal(b []byte) Node {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &literalNode{bytes: cp}
}

func (p *literalNode) match(ctx *Context) error {
	got := ctx.readNext(len(p.bytes))
	if !bytes.Equal(got, p.bytes) {
		return ctx.returnFail()
	}
	ctx.consume(len(p.bytes))
	return ctx.returnOk(ctx.n)
}

// classNode matches a single byte against a 256-entry membership table,
// the ASCII-locale generalization of rune.go's patternRuneSet/
// patternRuneRange — RPL character classes are defined over bytes, not
// Unicode code points, per the platform-independent ASCII locale
// requirement.
type classNode struct {
	table      [256]bool
	complement bool
}

// ByteRange is an inclusive [Lo,Hi] byte range, the runtime-level
// counterpart of ast.RangeItem.
type ByteRange struct {
	Lo, Hi byte
}

// CharClass builds a byte class from a set of inclusive ranges (a
// single-byte range covers a literal listed byte). complement inverts
// membership, mirroring ast.CharClass.Complement.
func CharClass(ranges []ByteRange, complement bool) Node {
	var table [256]bool
	for _, r := range ranges {
		for b := int(r.Lo); b <= int(r.Hi); b++ {
			table[b] = true
		}
	}
	return &classNode{table: table, complement: complement}
}

func (p *classNode) match(ctx *Context) error {
	b := ctx.readNext(1)
	if len(b) == 0 {
		return ctx.returnFail()
	}
	in := p.table[b[0]]
	if p.complement {
		in = !in
	}
	if !in {
		return ctx.returnFail()
	}
	ctx.consume(1)
	return ctx.returnOk(ctx.n)
}

// anyRuneNode is the "." builtin: any single UTF-8 rune, or a single
// invalid byte when the cursor doesn't sit on a valid UTF-8 encoding.
// Mirrors rune.go's patternAnyRune, generalized from "any char other
// than none" to operate directly on the input []byte.
type anyRuneNode struct{}

// AnyRune matches one UTF-8 rune (or one raw byte, if invalid UTF-8).
func AnyRune() Node { return anyRuneNode{} }

func (anyRuneNode) match(ctx *Context) error {
	_, n := ctx.readRune()
	if n == 0 {
		return ctx.returnFail()
	}
	ctx.consume(n)
	return ctx.returnOk(ctx.n)
}
