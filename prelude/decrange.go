package prelude

import (
	"strconv"

	"github.com/rosie-lang/rpl/ast"
)

var digit = class(crange('0', '9'))
var nonZeroDigit = class(crange('1', '9'))

// decUpTo builds a pattern matching the decimal representation, with no
// redundant leading zero, of any integer in [0, max]. It is the AST-level
// equivalent of pegutil's DecIntegerBetween(0, max), used for CIDR prefix
// lengths (net.cidrv4's "/0".."/32", net.cidrv6's "/0".."/128") where the
// teacher's version additionally accepts redundant leading zeros via a
// numeric-value injector; this implementation stays within pure PEG
// (ordered choice over digit strings) and does not accept "007", which
// is out of scope without a semantic-value check the RPL matcher has no
// opcode for. See DESIGN.md.
func decUpTo(max int) ast.Node {
	s := strconv.Itoa(max)
	alts := []ast.Node{exactLengthBound(s, true)}
	for n := len(s) - 1; n >= 1; n-- {
		if n == 1 {
			alts = append(alts, digit)
		} else {
			alts = append(alts, seq(nonZeroDigit, exactly(n-1, digit)))
		}
	}
	return choice(alts...)
}

// exactLengthBound returns a pattern matching exactly len(max) decimal
// digits whose value is <= max's own value, the standard digit-by-digit
// recursive bound used to turn a numeric range into a finite-alphabet
// grammar. topLevel suppresses a leading zero only at the very first
// digit of the whole number; recursive calls on the trailing digits must
// allow a leading zero there (e.g. 100-109 has '0' as its middle digit),
// so only the outermost call passes topLevel=true.
func exactLengthBound(max string, topLevel bool) ast.Node {
	if len(max) == 0 {
		return lit("")
	}
	first := max[0]
	rest := max[1:]

	loStart := byte('0')
	if topLevel && len(max) > 1 {
		loStart = '1'
	}

	var alts []ast.Node
	for d := loStart; d < first; d++ {
		if len(rest) == 0 {
			alts = append(alts, lit(string(d)))
		} else {
			alts = append(alts, seq(lit(string(d)), exactly(len(rest), digit)))
		}
	}
	if len(rest) == 0 {
		alts = append(alts, lit(string(first)))
	} else {
		alts = append(alts, seq(lit(string(first)), exactLengthBound(rest, false)))
	}
	return choice(alts...)
}
