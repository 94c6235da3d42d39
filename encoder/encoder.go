// Package encoder turns a runtime.MatchResult back into bytes a caller
// can actually use: a colored one-line preview, a JSON tree for foreign
// callers, the plain leaf text, the whole matched line, a boolean, or a
// count. Every encoder here is a stateless function of (result, input)
// per spec.md section 4.7 — none of them retain state between calls, the
// same way runtime's lowered Nodes carry no per-instance mutable state of
// their own.
package encoder

import (
	"fmt"

	"github.com/rosie-lang/rpl/runtime"
)

// Func is the shape every named encoder implements, so the engine facade
// can dispatch on a plain string without a type switch per format.
type Func func(res *runtime.MatchResult, input []byte) ([]byte, error)

var byName = map[string]Func{
	"tree":  treeFunc,
	"json":  JSON,
	"subs":  subsFunc,
	"line":  lineFunc,
	"bool":  boolFunc,
	"count": countFunc,
}

// Lookup returns the encoder registered under name, or false if none is.
// The engine facade turns a false result into a NoSuchEncoder diagnostic.
func Lookup(name string) (Func, bool) {
	f, ok := byName[name]
	return f, ok
}

func treeFunc(res *runtime.MatchResult, input []byte) ([]byte, error) {
	return []byte(Tree(res, input)), nil
}

func subsFunc(res *runtime.MatchResult, input []byte) ([]byte, error) {
	return []byte(Subs(res, input)), nil
}

func lineFunc(res *runtime.MatchResult, input []byte) ([]byte, error) {
	return []byte(Line(res, input)), nil
}

func boolFunc(res *runtime.MatchResult, input []byte) ([]byte, error) {
	return []byte(Bool(res)), nil
}

func countFunc(res *runtime.MatchResult, input []byte) ([]byte, error) {
	return []byte(fmt.Sprintf("%d", Count(res))), nil
}
