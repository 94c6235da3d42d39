package encoder

import (
	"encoding/json"

	"github.com/rosie-lang/rpl/runtime"
)

// node is the wire shape of one match-tree frame, per spec.md's
// {type, s, e, data, subs} nesting. Field names are lowercase to match
// the spec literally rather than following Go's exported-JSON-tag
// convention of mirroring the Go name.
type node struct {
	Type string  `json:"type"`
	S    int     `json:"s"`
	E    int     `json:"e"`
	Data string  `json:"data"`
	Subs []*node `json:"subs"`
}

// JSON renders the match tree as nested JSON, the format foreign callers
// (anything outside this module) consume. A dismatch with no tree at all
// encodes as the bare JSON literal null, the same way encoding/json
// already represents a nil pointer.
func JSON(res *runtime.MatchResult, input []byte) ([]byte, error) {
	if res == nil || res.Root == nil {
		return []byte("null"), nil
	}
	return json.Marshal(toNode(res.Root, input))
}

func toNode(t *runtime.MatchTree, input []byte) *node {
	n := &node{
		Type: t.Name,
		S:    t.Start,
		E:    t.End,
		Data: leafText(t, input),
	}
	if len(t.Subs) > 0 {
		n.Subs = make([]*node, len(t.Subs))
		for i, sub := range t.Subs {
			n.Subs[i] = toNode(sub, input)
		}
	}
	return n
}

// leafText prefers a node's Text payload, when one is set, over slicing
// input.
func leafText(t *runtime.MatchTree, input []byte) string {
	if t.Text != "" {
		return t.Text
	}
	if t.Start < 0 || t.End > len(input) || t.Start > t.End {
		return ""
	}
	return string(input[t.Start:t.End])
}
