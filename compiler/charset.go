package compiler

import "github.com/rosie-lang/rpl/runtime"

// namedCharsets maps a POSIX bracket-class name (the "name" in `[:name:]`)
// to its ASCII byte ranges. RPL classes operate on bytes, not Unicode code
// points (spec.md section 4.4's "platform-independent ASCII locale"), so
// these tables are fixed once and never consult the host's locale the way
// the teacher's rune.go consults unicode.RangeTables for named Unicode
// scripts/categories — a deliberate narrowing grounded on the spec's own
// wording, not an oversight.
var namedCharsets = map[string][]runtime.ByteRange{
	"alpha":  {{Lo: 'A', Hi: 'Z'}, {Lo: 'a', Hi: 'z'}},
	"digit":  {{Lo: '0', Hi: '9'}},
	"alnum":  {{Lo: 'A', Hi: 'Z'}, {Lo: 'a', Hi: 'z'}, {Lo: '0', Hi: '9'}},
	"upper":  {{Lo: 'A', Hi: 'Z'}},
	"lower":  {{Lo: 'a', Hi: 'z'}},
	"space":  {{Lo: '\t', Hi: '\r'}, {Lo: ' ', Hi: ' '}},
	"punct":  {{Lo: '!', Hi: '/'}, {Lo: ':', Hi: '@'}, {Lo: '[', Hi: '`'}, {Lo: '{', Hi: '~'}},
	"cntrl":  {{Lo: 0x00, Hi: 0x1f}, {Lo: 0x7f, Hi: 0x7f}},
	"print":  {{Lo: 0x20, Hi: 0x7e}},
	"graph":  {{Lo: 0x21, Hi: 0x7e}},
	"xdigit": {{Lo: '0', Hi: '9'}, {Lo: 'A', Hi: 'F'}, {Lo: 'a', Hi: 'f'}},
	"blank":  {{Lo: '\t', Hi: '\t'}, {Lo: ' ', Hi: ' '}},
}

// lookupNamedCharset resolves a `[:name:]` class to its ranges, reporting
// whether name is a known POSIX class.
func lookupNamedCharset(name string) ([]runtime.ByteRange, bool) {
	ranges, ok := namedCharsets[name]
	return ranges, ok
}
