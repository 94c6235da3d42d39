package encoder

import (
	"strings"

	"github.com/rosie-lang/rpl/runtime"
)

// Subs renders just the printable text of every leaf capture, one per
// line, in left-to-right order — the format a shell pipeline greps or
// cuts on, with none of the structure json carries.
func Subs(res *runtime.MatchResult, input []byte) string {
	if res == nil || res.Root == nil {
		return ""
	}
	var b strings.Builder
	for _, leaf := range leaves(res.Root) {
		b.WriteString(leafText(leaf, input))
		b.WriteByte('\n')
	}
	return b.String()
}

// leaves collects every MatchTree frame with no sub-captures of its own,
// in left-to-right order. A tree with no named captures at all has
// exactly one leaf: the root itself.
func leaves(t *runtime.MatchTree) []*runtime.MatchTree {
	if len(t.Subs) == 0 {
		return []*runtime.MatchTree{t}
	}
	var out []*runtime.MatchTree
	for _, sub := range t.Subs {
		out = append(out, leaves(sub)...)
	}
	return out
}
