package compiler

import (
	"github.com/rosie-lang/rpl/ast"
	"github.com/rosie-lang/rpl/rplenv"
	"github.com/rosie-lang/rpl/runtime"
	"github.com/rosie-lang/rpl/source"
)

// bindGrammar handles a top-level `grammar ... end` statement: its rules
// become ordinary, permanently-bound top-level patterns, addressable from
// anywhere else in the same environment, not just from within the block.
func (c *compiler) bindGrammar(g *ast.Grammar) {
	c.tieGrammar(g, false)
}

// lowerGrammar handles `grammar ... end` used as an expression (e.g. the
// right-hand side of a binding, or nested inside a larger expression):
// its rule names exist only long enough to tie the knot and are not
// visible anywhere else, so tieGrammar is asked to scope them to a
// temporary Env frame. The result is a reference to the grammar's entry
// point, Rules[0].
func (c *compiler) lowerGrammar(g *ast.Grammar) runtime.Node {
	rg := c.tieGrammar(g, true)
	if rg == nil || len(g.Rules) == 0 {
		return runtime.Choice()
	}
	return rg.Ref(g.Rules[0].Name)
}

// tieGrammar ties a `grammar ... end` block's rules into one
// runtime.Grammar, generalizing the teacher's single-namespace grammar
// knot-tying (context.go's scopes stack used only while resolving V
// references) into RPL's binding environment. When scoped is true, rule
// names are bound into a temporary Env frame that is popped again once
// every rule body has been lowered (an expression-position grammar);
// when false they are bound into the current (permanent) scope instead
// (a top-level grammar statement). Returns nil, having already recorded a
// diagnostic, if the rules are malformed or left-recursive.
func (c *compiler) tieGrammar(g *ast.Grammar, scoped bool) *runtime.Grammar {
	names := map[string]ast.Node{}
	for _, r := range g.Rules {
		if _, dup := names[r.Name]; dup {
			c.errorf(source.GrammarError, g.Ref(), "rule %q declared more than once in this grammar", r.Name)
			return nil
		}
		names[r.Name] = r.Exp
	}

	for name := range names {
		if hasLeftRecursion(names, name) {
			c.errorf(source.GrammarError, g.Ref(), "rule %q is left-recursive", name)
			return nil
		}
	}

	rg := runtime.NewGrammar()

	if scoped {
		c.env.Enter()
		defer c.env.Leave()
	}

	// Forward-declare every rule name as a tied reference before lowering
	// any body, so sibling references (and, for an unscoped grammar,
	// references from outside the block entirely) resolve to the same
	// shared runtime.Grammar instead of each re-lowering their own copy
	// of the rule's AST.
	for _, r := range g.Rules {
		c.tiedRefs[r.Exp] = rg.Ref(r.Name)
		if err := c.env.Bind(r.Name, rplenv.Entry{
			Kind:    rplenv.PatternEntry,
			Name:    r.Name,
			Exp:     r.Exp,
			IsAlias: r.IsAlias,
		}); err != nil {
			c.errorf(source.GrammarError, g.Ref(), "%v", err)
		}
	}

	wasGrammarMode := c.grammarMode
	c.grammarMode = true
	for _, r := range g.Rules {
		body := c.lower(r.Exp, true)
		rg.Define(r.Name, body)
		c.cache[r.Exp] = body
	}
	c.grammarMode = wasGrammarMode

	return rg
}

// leftmostRefs computes which rule names could be the very first thing
// executed at n's position without crossing a byte-consuming node —
// exactly the set a PEG must never recurse through back to its own start
// without having consumed anything, on pain of looping forever. Predicates
// pass through because `!X`/`&X` never consume either, so a
// self-referencing predicate body is just as non-terminating as a bare
// self-reference would be.
func leftmostRefs(n ast.Node) []string {
	switch v := n.(type) {
	case *ast.Literal:
		if len(v.Value) == 0 {
			return nil
		}
		return nil
	case *ast.Ident:
		if v.PackageName != "" {
			return nil
		}
		return []string{v.LocalName}
	case *ast.Sequence:
		for _, e := range v.Exps {
			return leftmostRefs(e)
		}
		return nil
	case *ast.Choice:
		var out []string
		for _, e := range v.Exps {
			out = append(out, leftmostRefs(e)...)
		}
		return out
	case *ast.Repetition:
		return leftmostRefs(v.Exp)
	case *ast.Predicate:
		return leftmostRefs(v.Exp)
	case *ast.Capture:
		return leftmostRefs(v.Exp)
	case *ast.Cooked:
		return leftmostRefs(v.Exp)
	case *ast.Raw:
		return leftmostRefs(v.Exp)
	default:
		// CharClass, Primitive, Application, and anything else either
		// always consumes something or is opaque to this analysis.
		return nil
	}
}

// hasLeftRecursion reports whether start is reachable from its own
// transitive leftmostRefs closure within rules.
func hasLeftRecursion(rules map[string]ast.Node, start string) bool {
	visited := map[string]bool{}
	var walk func(name string) bool
	walk = func(name string) bool {
		if visited[name] {
			return false
		}
		visited[name] = true
		body, ok := rules[name]
		if !ok {
			return false
		}
		for _, ref := range leftmostRefs(body) {
			if ref == start {
				return true
			}
			if walk(ref) {
				return true
			}
		}
		return false
	}
	return walk(start)
}
