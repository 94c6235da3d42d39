package runtime

import "errors"

// ErrAcceptsEmpty is the error a Repeat node's match method returns if its
// body matches while consuming zero bytes — looping would never terminate.
// The compiler statically rejects nullable quantifier bodies at compile
// time (a QuantifiedEmpty diagnostic, per spec.md section 4.4) so a correct
// compilation never triggers this; it exists as the runtime's own defense
// in depth, grounded on the teacher's LoopLimit-based soft guard
// (context.go's reachedLoopLimit).
var ErrAcceptsEmpty = errors.New("runtime: repeated body may accept the empty string")

// errStartOutOfRange is returned by Run when the start offset falls
// outside the input slice.
var errStartOutOfRange = errors.New("runtime: start offset out of range")

// errUndefinedRule means a Grammar.Ref was matched before the matching
// Define ran; this would be a compiler bug, since the compiler always
// ties every rule before handing the grammar to Run.
var errUndefinedRule = errors.New("runtime: undefined grammar rule")

// errCallstackOverflow mirrors peg.go's errorCallstackOverflow: the
// trampoline's call depth exceeded Config.CallstackLimit.
var errCallstackOverflow = errors.New("runtime: callstack limit exceeded")

// errLoopLimit mirrors errorReachedLoopLimit: a qualifier iterated past
// Config.LoopLimit without the pattern itself rejecting empty bodies
// (defense in depth alongside the compile-time ErrAcceptsEmpty check).
var errLoopLimit = errors.New("runtime: loop limit exceeded")

// errHeapCeiling is returned internally when the capture/callstack
// working set exceeds the configured allocation ceiling; Run converts
// it into a soft-aborted Result rather than propagating it to the
// caller, per spec.md section 5's "soft abort" resource policy.
var errHeapCeiling = errors.New("runtime: allocation ceiling exceeded")

// errNilPattern mirrors peg.go's errorNilMainPattern.
var errNilPattern = errors.New("runtime: nil matcher")

// errHalted is returned by the halt primitive's match method; Context.match
// treats it the same as errHeapCeiling, a soft abort rather than a fatal
// error, since halt is a deliberate author-requested early stop rather than
// a resource violation.
var errHalted = errors.New("runtime: halted")

// errExecuteWhenConsumed mirrors peg.go's invariant that execute (a tail
// call, no new stackFrame) may only be used when the current frame hasn't
// consumed any input yet — violating it would silently drop consumed bytes
// on return.
var errExecuteWhenConsumed = errors.New("runtime: execute called after consuming input")

// errCornerCase guards Context.endCapture's invariant that the root capture
// frame is never popped; reaching it means a compiled Node mismatched its
// begin/end capture calls.
var errCornerCase = errors.New("runtime: capture stack underflow")
