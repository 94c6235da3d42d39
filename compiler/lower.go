package compiler

import (
	"github.com/rosie-lang/rpl/ast"
	"github.com/rosie-lang/rpl/rplenv"
	"github.com/rosie-lang/rpl/runtime"
	"github.com/rosie-lang/rpl/source"
)

// lower turns one AST expression node into a runtime.Node. cooked tracks
// the current tokenization mode: true inserts a runtime.Boundary() node
// between a Sequence's siblings and between a Repetition's copies, false
// concatenates directly. The parser never computes this itself (every
// ast.Repetition it builds carries Cooked: false unconditionally) — per
// spec.md section 4.6, threading `~` between siblings is mechanically the
// compiler's job, realized here as a bool threaded down the recursion and
// flipped by ast.Cooked/ast.Raw, rather than read back off the AST node.
func (c *compiler) lower(n ast.Node, cooked bool) runtime.Node {
	switch v := n.(type) {
	case *ast.Literal:
		return runtime.Literal(v.Value)

	case *ast.Ident:
		return c.lowerIdent(v)

	case *ast.Sequence:
		return c.lowerSequence(v, cooked)

	case *ast.Choice:
		alts := make([]runtime.Node, len(v.Exps))
		for i, e := range v.Exps {
			alts[i] = c.lower(e, cooked)
		}
		return runtime.Choice(alts...)

	case *ast.Predicate:
		body := c.lower(v.Exp, cooked)
		if v.Kind == ast.Lookahead {
			return runtime.And(body)
		}
		return runtime.Not(body)

	case *ast.Repetition:
		return c.lowerRepetition(v, cooked)

	case *ast.CharClass:
		return c.lowerCharClass(v)

	case *ast.Primitive:
		return c.lowerPrimitive(v)

	case *ast.Cooked:
		return c.lower(v.Exp, true)

	case *ast.Raw:
		return c.lower(v.Exp, false)

	case *ast.Capture:
		return c.lowerCapture(v, cooked)

	case *ast.Grammar:
		return c.lowerGrammar(v)

	case *ast.Application:
		return c.lowerApplication(v, cooked)

	case *ast.SyntaxError:
		// The parser already diagnosed this; there is no expression to
		// compile, so lower to an always-fail placeholder rather than
		// crash the rest of the compile.
		return runtime.Choice()

	default:
		c.errorf(source.GrammarError, n.Ref(), "compiler: unhandled AST node %T", n)
		return runtime.Choice()
	}
}

// lowerIdent resolves id, lowers (and caches) the binding's body, and
// wraps it in a capture under the binding's own name — unless the
// binding is an alias, in which case the wrapper is transparent (name
// ""), per the alias semantics spec.md's glossary describes: "alias
// bindings never produce a capture node of their own name when
// referenced" (rplenv.Entry.IsAlias's doc comment).
func (c *compiler) lowerIdent(id *ast.Ident) runtime.Node {
	entry, ok := c.resolve(id)
	if !ok {
		c.errorf(source.UndefinedIdentifier, id.Ref(), "undefined identifier %q", qualifiedName(id))
		return runtime.Choice()
	}
	if entry.Kind != rplenv.PatternEntry {
		c.errorf(source.UndefinedIdentifier, id.Ref(), "%q is a %s, not a pattern", qualifiedName(id), entry.Kind)
		return runtime.Choice()
	}

	body := c.lowerBody(entry.Exp)
	name := entry.Name
	if entry.IsAlias {
		name = ""
	}
	return runtime.Capture(name, body)
}

// resolve looks name up in env, qualifying it as "pkg.name" first when
// the identifier carries a package prefix — the flat-key convention an
// ImportPackage call is expected to use when it merges a resolved
// package's flattened bindings into the importing file's scope, since
// rplenv.Env has no nested per-package namespace of its own.
func (c *compiler) resolve(id *ast.Ident) (rplenv.Entry, bool) {
	name := id.LocalName
	if id.PackageName != "" {
		name = id.PackageName + "." + id.LocalName
	}
	return c.env.Lookup(name)
}

func qualifiedName(id *ast.Ident) string {
	if id.PackageName == "" {
		return id.LocalName
	}
	return id.PackageName + "." + id.LocalName
}

// lowerBody lowers a binding's expression exactly once, caching the
// result by AST identity so a pattern referenced from N places is only
// compiled once. A tied grammar rule's body (see tieGrammar) is looked up
// in tiedRefs first, ahead of the ordinary cache, so every reference to
// that rule name — sibling or outside — resolves to the one shared
// runtime.Grammar.Ref instead of a second, independently lowered copy
// (which, for a self-recursive rule, would never finish lowering at
// all). A referenced binding's body always lowers fresh in cooked mode,
// regardless of the tokenization mode at its call site: once compiled, a
// named pattern is an opaque unit whose own cooked/raw structure was
// fixed where it was declared, the same way calling a grammar rule
// doesn't inherit the caller's quantifier bookkeeping.
func (c *compiler) lowerBody(exp ast.Node) runtime.Node {
	if ref, ok := c.tiedRefs[exp]; ok {
		return ref
	}
	if cached, ok := c.cache[exp]; ok {
		return cached
	}
	body := c.lower(exp, true)
	c.cache[exp] = body
	return body
}

// lowerSequence splices a boundary between siblings when cooked, per
// spec.md section 4.6.
func (c *compiler) lowerSequence(v *ast.Sequence, cooked bool) runtime.Node {
	if len(v.Exps) == 0 {
		return runtime.Literal(nil)
	}
	nodes := make([]runtime.Node, 0, 2*len(v.Exps)-1)
	nodes = append(nodes, c.lower(v.Exps[0], cooked))
	for _, e := range v.Exps[1:] {
		if cooked {
			nodes = append(nodes, runtime.Boundary())
		}
		nodes = append(nodes, c.lower(e, cooked))
	}
	return runtime.Seq(nodes...)
}

// lowerRepetition validates the range, probes for a nullable body (the
// "attempt body^1" check from spec.md section 4.4, skipped entirely in
// grammarMode since a recursive rule set can't be safely probed before
// every rule in it has been tied), and threads cooked-mode boundaries
// through the repeated copies via joinRuntimeRange.
func (c *compiler) lowerRepetition(v *ast.Repetition, cooked bool) runtime.Node {
	max := -1
	if v.Max != nil {
		max = *v.Max
	}
	if v.Min < 0 || (v.Max != nil && max < v.Min) {
		c.errorf(source.RepetitionRange, v.Ref(), "invalid repetition range {%d,%d}", v.Min, max)
		return c.lower(v.Exp, cooked)
	}

	body := c.lower(v.Exp, cooked)
	if !c.grammarMode && acceptsEmpty(body) {
		c.errorf(source.QuantifiedEmpty, v.Ref(), "repeated pattern may match the empty string")
		return body
	}

	// A repeated character class matches a run of adjacent characters
	// (`[0-9]+` spans all of "123"), so its copies are joined without
	// boundaries even in cooked mode.
	if _, isClass := v.Exp.(*ast.CharClass); !cooked || isClass {
		return runtime.Repeat(v.Min, max, body)
	}
	return joinRuntimeRange(v.Min, max, body)
}

// lowerCharClass lowers a bracket expression to a 256-entry byte table.
// Ranges and list items outside the single-byte range [0,0xFF] are
// clamped rather than rejected: RPL classes are defined over bytes in a
// platform-independent ASCII locale (spec.md section 4.4), so a rune
// like U+00E9 named directly in a class literal is out of that locale's
// scope by construction, not a distinct error condition worth its own
// diagnostic kind. The one exception is the complement of the empty class
// (the prelude's "."), which lowers to runtime.AnyRune: one whole UTF-8
// character rather than one byte.
func (c *compiler) lowerCharClass(v *ast.CharClass) runtime.Node {
	if len(v.Items) == 0 && v.Complement {
		return runtime.AnyRune()
	}
	var ranges []runtime.ByteRange
	for _, item := range v.Items {
		switch item.Kind {
		case ast.NamedItem:
			rs, ok := lookupNamedCharset(item.Name)
			if !ok {
				c.errorf(source.UndefinedCharset, v.Ref(), "undefined character class %q", item.Name)
				continue
			}
			ranges = append(ranges, rs...)
		case ast.RangeItem:
			ranges = append(ranges, runtime.ByteRange{Lo: clampByte(item.Lo), Hi: clampByte(item.Hi)})
		case ast.ListItem:
			for _, r := range item.Chars {
				b := clampByte(r)
				ranges = append(ranges, runtime.ByteRange{Lo: b, Hi: b})
			}
		}
	}
	return runtime.CharClass(ranges, v.Complement)
}

func clampByte(r rune) byte {
	if r < 0 {
		return 0
	}
	if r > 0xFF {
		return 0xFF
	}
	return byte(r)
}

func (c *compiler) lowerPrimitive(v *ast.Primitive) runtime.Node {
	switch v.Name {
	case "^":
		return runtime.StartAnchor()
	case "$":
		return runtime.EndAnchor()
	case "~":
		return runtime.Boundary()
	case "halt":
		return runtime.Halt()
	default:
		c.errorf(source.GrammarError, v.Ref(), "unknown primitive %q", v.Name)
		return runtime.Choice()
	}
}

// lowerCapture implements spec.md section 4.4's re-capture rule: if the
// captured expression is (possibly underneath a cooked/raw grouping) itself
// another capture, the outer label replaces the inner one directly over
// the same subtree instead of nesting two MatchTree wrappers with
// identical span and children. Node identity can't be used to detect this
// after lowering (runtime.Node carries no exported structure to inspect,
// by design — see runtime.Node's doc comment), so the check happens here,
// on the AST, before lowering ever runs.
func (c *compiler) lowerCapture(v *ast.Capture, cooked bool) runtime.Node {
	inner := v.Exp
	if cap, ok := stripGroups(inner).(*ast.Capture); ok {
		c.warnf(source.ReCapture, v.Ref(), "capture %q re-labels inner capture %q", v.Name, cap.Name)
		inner = cap.Exp
	}
	return runtime.Capture(v.Name, c.lower(inner, cooked))
}

// stripGroups unwraps any chain of cooked/raw grouping wrappers to find
// the expression they enclose, so `name1 = (name2 = exp)` is recognized
// as a re-capture the same as the unparenthesized form would be.
func stripGroups(n ast.Node) ast.Node {
	for {
		switch v := n.(type) {
		case *ast.Cooked:
			n = v.Exp
		case *ast.Raw:
			n = v.Exp
		default:
			return n
		}
	}
}

// lowerApplication expands a macro call — find, findall, keepto, ci,
// message, error — into a plain expression via its MacroFunc and lowers
// that, per spec.md section 4.3's "macros are pure AST->AST; they run
// before compilation". error(s, tag?) additionally marks the run
// aborted once its expansion has matched ("like message then sets halt",
// spec.md section 4.3): the macro itself only rewrites AST and has no
// channel back to the compiler, so the halt splice happens here, at the
// one call site that knows this was "error" and not "message". The
// expansions of find, findall, keepto and ci are sequences the caller did
// not write (a skip loop, one class per letter), so they are lowered in
// raw mode, with no boundaries between their parts.
func (c *compiler) lowerApplication(v *ast.Application, cooked bool) runtime.Node {
	entry, ok := c.env.Lookup(v.MacroName)
	if !ok || entry.Kind != rplenv.MacroEntry {
		c.errorf(source.UndefinedIdentifier, v.Ref(), "undefined macro %q", v.MacroName)
		return runtime.Choice()
	}
	expanded, err := entry.Macro(v.Args)
	if err != nil {
		c.errorf(source.Syntax, v.Ref(), "%v", err)
		return runtime.Choice()
	}
	switch v.MacroName {
	case "find", "findall", "keepto", "ci":
		cooked = false
	}
	body := c.lower(expanded, cooked)
	if v.MacroName == "error" {
		return runtime.Seq(body, runtime.Halt())
	}
	return body
}
