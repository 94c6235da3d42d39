package compiler

import (
	"testing"

	"github.com/rosie-lang/rpl/runtime"
)

func runNode(t *testing.T, n runtime.Node, input string) *runtime.MatchResult {
	t.Helper()
	res, err := runtime.Run(runtime.NewMatcher(n), []byte(input), 0, runtime.DefaultRunConfig())
	if err != nil {
		t.Fatalf("Run(%q): unexpected error %v", input, err)
	}
	return res
}

func TestJoinRuntimeExactZeroIsEmptyMatch(t *testing.T) {
	n := joinRuntimeExact(0, runtime.Literal([]byte("a")))
	res := runNode(t, n, "a")
	if !res.Ok || res.End != 0 {
		t.Fatalf("joinRuntimeExact(0, ...) should match zero bytes, got %+v", res)
	}
}

func TestJoinRuntimeExactInsertsBoundaryBetweenCopies(t *testing.T) {
	// Each "a;" copy ends in punctuation and the next starts on a word
	// byte, so the boundary inserted between copies always holds.
	n := joinRuntimeExact(3, runtime.Literal([]byte("a;")))
	res := runNode(t, n, "a;a;a;")
	if !res.Ok || res.End != 6 {
		t.Fatalf("expected 3 copies of \"a;\" to match, got %+v", res)
	}
}

func TestJoinRuntimeExactRejectsSameCategoryAdjacency(t *testing.T) {
	// Two adjacent word-category literals never cross a boundary.
	n := joinRuntimeExact(2, runtime.Literal([]byte("a")))
	res := runNode(t, n, "aa")
	if res.Ok {
		t.Fatalf("expected two joined word-category copies to reject adjacency with no boundary, got %+v", res)
	}
}

func TestJoinRuntimeRangeBoundedLongestFirst(t *testing.T) {
	n := joinRuntimeRange(1, 3, runtime.Literal([]byte("a;")))
	res := runNode(t, n, "a;a;a;")
	if !res.Ok || res.End != 6 {
		t.Fatalf("expected the longest (3-copy) alternative to win, got %+v", res)
	}
}

func TestJoinRuntimeRangeStarHasNoLeadingBoundary(t *testing.T) {
	// min=0, max=-1 (star): the very first copy should not require a
	// leading boundary, only the ones after it.
	n := joinRuntimeRange(0, -1, runtime.Literal([]byte("a;")))
	res := runNode(t, n, "a;a;")
	if !res.Ok || res.End != 4 {
		t.Fatalf("expected star to match both copies without a leading boundary, got %+v", res)
	}
}

func TestJoinRuntimeRangeStarMatchesEmpty(t *testing.T) {
	n := joinRuntimeRange(0, -1, runtime.Literal([]byte("a;")))
	res := runNode(t, n, "")
	if !res.Ok || res.End != 0 {
		t.Fatalf("expected star to accept zero copies, got %+v", res)
	}
}

func TestJoinRuntimeRangePlusRequiresAtLeastOne(t *testing.T) {
	n := joinRuntimeRange(1, -1, runtime.Literal([]byte("a;")))
	res := runNode(t, n, "")
	if res.Ok {
		t.Fatalf("expected plus to reject zero copies, got %+v", res)
	}
}

func TestAcceptsEmptyDetectsNullableBody(t *testing.T) {
	if !acceptsEmpty(runtime.Optional(runtime.Literal([]byte("a")))) {
		t.Errorf("an optional body should be reported as accepting the empty string")
	}
	if acceptsEmpty(runtime.Literal([]byte("a"))) {
		t.Errorf("a literal that always consumes a byte should not be reported as nullable")
	}
}
