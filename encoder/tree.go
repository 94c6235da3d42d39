package encoder

import (
	"hash/fnv"
	"strings"

	"github.com/rosie-lang/rpl/runtime"
)

var treePalette = []string{
	"\x1b[31m", "\x1b[32m", "\x1b[33m", "\x1b[34m",
	"\x1b[35m", "\x1b[36m", "\x1b[91m", "\x1b[92m",
	"\x1b[93m", "\x1b[94m", "\x1b[95m", "\x1b[96m",
}

const treeReset = "\x1b[0m"

// Tree renders the matched span as a single line of text with each named
// capture's range wrapped in an ANSI color keyed by its pattern name, so
// the same name always gets the same color across a run. There is no
// teacher analogue for this one; it's grounded on the line+caret idiom
// source.Diagnostic.Excerpt uses for parse errors, adapted from a
// two-line caret to inline color since a match tree has many ranges to
// mark at once instead of one.
func Tree(res *runtime.MatchResult, input []byte) string {
	if res == nil || res.Root == nil {
		return ""
	}
	var b strings.Builder
	writeSpan(&b, res.Root.Subs, res.Start, res.End, input)
	return b.String()
}

// writeSpan emits input[from:to] as plain text except for the byte
// ranges covered by subs, which are wrapped in their own color and may
// themselves recurse into nested subs. Colors don't stack: a parent's
// color does not resume after a nested sub's reset, the same tradeoff
// every flat-escape-code preview tool makes.
func writeSpan(b *strings.Builder, subs []*runtime.MatchTree, from, to int, input []byte) {
	cursor := from
	for _, sub := range subs {
		if sub.Start > cursor {
			b.Write(input[cursor:sub.Start])
		}
		b.WriteString(colorFor(sub.Name))
		if len(sub.Subs) > 0 {
			writeSpan(b, sub.Subs, sub.Start, sub.End, input)
		} else {
			b.Write(input[sub.Start:sub.End])
		}
		b.WriteString(treeReset)
		cursor = sub.End
	}
	if cursor < to {
		b.Write(input[cursor:to])
	}
}

func colorFor(name string) string {
	if name == "" {
		return ""
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	return treePalette[h.Sum32()%uint32(len(treePalette))]
}
