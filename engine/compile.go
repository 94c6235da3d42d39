package engine

import (
	"github.com/rosie-lang/rpl/compiler"
	"github.com/rosie-lang/rpl/parser"
	"github.com/rosie-lang/rpl/source"
)

// CompileExpression parses and compiles src as one REPL-style
// expression, returning a handle for later Match/Trace calls. Any
// binding src declares ahead of its trailing expression (e.g. a local
// helper pattern) is scoped to this one call only — pushed onto a
// temporary env frame and popped again before returning, the same
// scoping lowerGrammar gives an expression-position grammar — so two
// CompileExpression calls never see each other's scratch bindings the
// way two LoadSource calls are meant to.
func (e *Engine) CompileExpression(src []byte) (matcherID int, diags []source.Diagnostic, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkOpen(); err != nil {
		return 0, nil, err
	}

	block, pdiags, lexErr := parser.Parse(source.Input, src)
	if lexErr != nil {
		return 0, nil, &EngineError{Kind: source.Syntax, Message: lexErr.Error()}
	}

	e.env.Enter()
	defer e.env.Leave()

	m, cdiags := compiler.Compile(block, e.env)
	diags = append(pdiags, cdiags...)
	if m == nil {
		return 0, diags, &EngineError{Kind: source.EngineCallFailed, Message: "source has no trailing expression to compile"}
	}

	e.nextID++
	e.matchers[e.nextID] = m
	return e.nextID, diags, nil
}

// FreeMatcher releases a handle returned by CompileExpression. Freeing
// an already-freed or never-issued handle is a NoSuchPattern error, not
// a silent no-op — spec.md's taxonomy marks it fatal for the call so a
// caller's double-free bug surfaces immediately.
func (e *Engine) FreeMatcher(matcherID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkOpen(); err != nil {
		return err
	}
	if _, ok := e.matchers[matcherID]; !ok {
		return &EngineError{Kind: source.NoSuchPattern, Message: "no such matcher handle"}
	}
	delete(e.matchers, matcherID)
	return nil
}
