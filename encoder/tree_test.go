package encoder

import (
	"strings"
	"testing"

	"github.com/rosie-lang/rpl/runtime"
)

func TestTreeNoMatchIsEmpty(t *testing.T) {
	if got := Tree(&runtime.MatchResult{Ok: false}, []byte("x")); got != "" {
		t.Errorf("Tree(no match) = %q, want empty", got)
	}
}

func TestTreePlainMatchHasNoColorCodes(t *testing.T) {
	input := []byte("hello")
	res := &runtime.MatchResult{Ok: true, Start: 0, End: 5, Root: &runtime.MatchTree{Start: 0, End: 5}}
	got := Tree(res, input)
	if got != "hello" {
		t.Errorf("Tree(plain) = %q, want %q", got, "hello")
	}
}

func TestTreeWrapsNamedSubsInColor(t *testing.T) {
	input := []byte("key: value")
	root := &runtime.MatchTree{
		Start: 0, End: 10,
		Subs: []*runtime.MatchTree{
			{Name: "key", Start: 0, End: 3},
			{Name: "value", Start: 5, End: 10},
		},
	}
	res := &runtime.MatchResult{Ok: true, Start: 0, End: 10, Root: root}

	got := Tree(res, input)
	if !strings.Contains(got, "key") || !strings.Contains(got, "value") {
		t.Fatalf("Tree output lost the underlying text: %q", got)
	}
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("Tree output has no ANSI escape at all: %q", got)
	}
	if !strings.Contains(got, treeReset) {
		t.Errorf("Tree output never resets color: %q", got)
	}
	// The unnamed gap between "key" and "value" (": ") must survive
	// untouched between the two colored ranges.
	if !strings.Contains(got, ": ") {
		t.Errorf("Tree output dropped the gap between captures: %q", got)
	}
}

func TestColorForIsDeterministic(t *testing.T) {
	if colorFor("same") != colorFor("same") {
		t.Error("colorFor should return the same color for the same name every time")
	}
}

func TestColorForEmptyNameIsUncolored(t *testing.T) {
	if colorFor("") != "" {
		t.Error("colorFor(\"\") should not emit an escape code")
	}
}
