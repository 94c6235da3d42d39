package encoder

import (
	"testing"

	"github.com/rosie-lang/rpl/runtime"
)

func TestLineReturnsTheWholeLine(t *testing.T) {
	input := []byte("first line\nsecond line\nthird")
	res := &runtime.MatchResult{Ok: true, Start: 18, End: 22} // "line" inside "second line"
	if got := Line(res, input); got != "second line" {
		t.Errorf("Line = %q, want %q", got, "second line")
	}
}

func TestLineStripsTrailingCR(t *testing.T) {
	input := []byte("one\r\ntwo\r\n")
	res := &runtime.MatchResult{Ok: true, Start: 5, End: 6}
	if got := Line(res, input); got != "two" {
		t.Errorf("Line = %q, want %q", got, "two")
	}
}

func TestLineNoMatchIsEmpty(t *testing.T) {
	if got := Line(&runtime.MatchResult{Ok: false}, []byte("x")); got != "" {
		t.Errorf("Line(no match) = %q, want empty", got)
	}
}

func TestBool(t *testing.T) {
	if got := Bool(&runtime.MatchResult{Ok: true}); got != "true" {
		t.Errorf("Bool(ok) = %q, want true", got)
	}
	if got := Bool(&runtime.MatchResult{Ok: false}); got != "false" {
		t.Errorf("Bool(not ok) = %q, want false", got)
	}
}

func TestCountNoMatchIsZero(t *testing.T) {
	if got := Count(&runtime.MatchResult{Ok: false}); got != 0 {
		t.Errorf("Count(no match) = %d, want 0", got)
	}
}

func TestCountPlainMatchIsOne(t *testing.T) {
	res := &runtime.MatchResult{Ok: true, Root: &runtime.MatchTree{}}
	if got := Count(res); got != 1 {
		t.Errorf("Count(plain match) = %d, want 1", got)
	}
}

func TestCountCountsTopLevelSubs(t *testing.T) {
	res := &runtime.MatchResult{Ok: true, Root: &runtime.MatchTree{
		Subs: []*runtime.MatchTree{{Name: "hit"}, {Name: "hit"}, {Name: "hit"}},
	}}
	if got := Count(res); got != 3 {
		t.Errorf("Count(findall x3) = %d, want 3", got)
	}
}
