package encoder

import (
	"testing"

	"github.com/rosie-lang/rpl/runtime"
)

func TestLookupKnownNames(t *testing.T) {
	for _, name := range []string{"tree", "json", "subs", "line", "bool", "count"} {
		if _, ok := Lookup(name); !ok {
			t.Errorf("Lookup(%q) not found", name)
		}
	}
}

func TestLookupUnknownName(t *testing.T) {
	if _, ok := Lookup("xml"); ok {
		t.Error("Lookup(\"xml\") should not be found")
	}
}

func TestRegisteredFuncsDoNotPanicOnNoMatch(t *testing.T) {
	res := &runtime.MatchResult{Ok: false}
	input := []byte("irrelevant")
	for name, f := range byName {
		if _, err := f(res, input); err != nil {
			t.Errorf("%s encoder returned an error on a plain dismatch: %v", name, err)
		}
	}
}
