// Package runtime executes a compiled RPL matcher against a byte slice.
//
// The execution model is a direct generalization of hucsmn/peg's
// context.go: a single *Context* struct drives a trampoline over a tree
// of Node values so that deeply nested or highly repetitive patterns
// don't recurse natively on the Go call stack. Every Node's match method
// returns by calling one of ctx.call/ctx.execute (descend into a callee)
// or ctx.returnOk/ctx.returnFail (answer to the caller); the for loop in
// Context.match, which Run drives, is the only native recursion in the
// whole runtime.
//
// Unlike the teacher, captures form a labeled tree (spec's {name, start,
// end, subs}) instead of a flat Groups/Captures pair, there is a halt
// sentinel that aborts a run early, and Run takes a context.Context for
// cooperative cancellation plus a heap allocation ceiling.
package runtime

// Node is implemented by every compiled matcher fragment. The match
// method is unexported, sealing the interface to this package the same
// way peg.Pattern's match method does in the teacher — only this
// package's constructors (Seq, Choice, Literal, ...) may produce Nodes,
// so the compiler package can only ever compose them, never forge one.
type Node interface {
	match(ctx *Context) error
}
