// Package compiler lowers a parsed ast.Block into a runtime.Matcher,
// consulting an rplenv.Env for identifier and macro resolution the same
// way the teacher's context.go consults its scopes stack while tying a
// grammar's V references — generalized here to run over every binding in
// a whole source file or REPL line, not just inside one grammar block.
//
// Compilation never stops at the first problem: every diagnosable AST
// node that can be skipped over is skipped over (an undefined identifier
// lowers to an always-fail placeholder, a malformed repetition lowers to
// its body alone), so one pass can surface as many diagnostics as
// possible, per spec.md section 4.4's closing paragraph.
package compiler

import (
	"fmt"

	"github.com/rosie-lang/rpl/ast"
	"github.com/rosie-lang/rpl/rplenv"
	"github.com/rosie-lang/rpl/runtime"
	"github.com/rosie-lang/rpl/source"
)

// compiler holds the state threaded through one Compile call.
type compiler struct {
	env *rplenv.Env

	diags []source.Diagnostic

	// cache memoizes lower(node) by AST identity, so a binding referenced
	// from several places is only lowered once — mirrors the Env's own
	// "first lookup wins" memoization spirit, applied to compiled output
	// instead of bindings.
	cache map[ast.Node]runtime.Node

	// tiedRefs holds, for a rule body belonging to some grammar, the
	// already-tied runtime.Grammar.Ref for that rule. lower consults this
	// before the ordinary cache so references to a grammar's rule names
	// — from a sibling rule or from anywhere else entirely — all resolve
	// to the one shared tied grammar instead of re-lowering (and, for a
	// recursive rule, infinitely re-lowering) its AST.
	tiedRefs map[ast.Node]runtime.Node

	// grammarMode suppresses the quantified-empty probe while lowering a
	// grammar's rule bodies, per spec.md section 4.4: the probe runs the
	// body against empty input, which cannot be done safely before every
	// rule in a mutually recursive set has been tied.
	grammarMode bool
}

// Compile lowers block against env: every Binding/Grammar/Import/
// PackageDecl statement is processed for its effect on env, and — if the
// block ends in a bare trailing expression (REPL/compile-expression mode)
// — that expression is lowered into the returned Matcher. A block with no
// Trailing returns a nil Matcher; the caller (ordinarily the engine,
// loading a library source file) only wanted the bindings' side effect on
// env.
func Compile(block ast.Block, env *rplenv.Env) (*runtime.Matcher, []source.Diagnostic) {
	c := &compiler{
		env:      env,
		cache:    map[ast.Node]runtime.Node{},
		tiedRefs: map[ast.Node]runtime.Node{},
	}

	for _, stmt := range block.Statements {
		c.statement(stmt)
	}

	if block.Trailing == nil {
		return nil, c.diags
	}
	root := c.lower(block.Trailing, true)
	return runtime.NewMatcher(root), c.diags
}

func (c *compiler) errorf(kind source.Kind, ref source.Ref, format string, args ...interface{}) {
	c.diags = append(c.diags, source.Diagnostic{
		Severity: source.SeverityError,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Ref:      ref,
	})
}

func (c *compiler) warnf(kind source.Kind, ref source.Ref, format string, args ...interface{}) {
	c.diags = append(c.diags, source.Diagnostic{
		Severity: source.SeverityWarning,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Ref:      ref,
	})
}

func (c *compiler) statement(n ast.Node) {
	switch v := n.(type) {
	case *ast.Binding:
		c.bindBinding(v)
	case *ast.Grammar:
		c.bindGrammar(v)
	case *ast.Import:
		// Resolving an import path to a package's bindings is the
		// engine/loader's job (SPEC_FULL.md section 3.9's injected
		// PackageLoader); by the time a block reaches the compiler, an
		// already-resolved import has had its package's flattened
		// bindings merged into env under its alias by the caller.
	case *ast.PackageDecl:
		// No compile-time effect: the package name only matters to the
		// loader deciding where a compiled unit's bindings get filed.
	case *ast.SyntaxError:
		// The parser already recorded this diagnostic; nothing further
		// to do, and nothing to lower.
	default:
		c.errorf(source.GrammarError, n.Ref(), "unexpected top-level statement %T", n)
	}
}

func (c *compiler) bindBinding(b *ast.Binding) {
	if err := c.env.Bind(b.Name, rplenv.Entry{
		Kind:    rplenv.PatternEntry,
		Name:    b.Name,
		Exp:     b.Exp,
		IsAlias: b.IsAlias,
	}); err != nil {
		c.errorf(source.GrammarError, b.Ref(), "%v", err)
	}
}
