package encoder

import (
	"github.com/rosie-lang/rpl/runtime"
)

// Line returns the entire source line the match started on, not just the
// matched span — the format for "grep -l"-style filtering where the
// match is a filter, not the payload. Grounded on the same line-finding
// walk source.Diagnostic.Excerpt uses for its caret line.
func Line(res *runtime.MatchResult, input []byte) string {
	if res == nil || (!res.Ok && !res.Aborted) {
		return ""
	}
	start := res.Start
	for start > 0 && input[start-1] != '\n' {
		start--
	}
	end := res.Start
	for end < len(input) && input[end] != '\n' {
		end++
	}
	line := string(input[start:end])
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line
}

// Bool renders whether the match succeeded, for callers that only want
// a filter predicate and nothing else.
func Bool(res *runtime.MatchResult) string {
	if res != nil && res.Ok {
		return "true"
	}
	return "false"
}

// Count reports how many matches the result carries, for pairing with a
// top-level findall: each of findall's hits lands as one top-level named
// sub-capture. A plain match with no named captures of its own still
// counts as one match once it succeeds.
func Count(res *runtime.MatchResult) int {
	if res == nil || !res.Ok {
		return 0
	}
	if n := len(res.Root.Subs); n > 0 {
		return n
	}
	return 1
}
