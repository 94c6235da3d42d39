package prelude

import (
	"github.com/rosie-lang/rpl/ast"
	"github.com/rosie-lang/rpl/rplenv"
)

// hexDigit matches one hexadecimal digit, upper or lower case.
var hexDigit = class(crange('0', '9'), crange('a', 'f'), crange('A', 'F'))

// hexPair matches exactly two hex digits, the byte-octet shape MAC and
// EUI64 addresses are built from.
var hexPair = exactly(2, hexDigit)

func slash(e ast.Node) ast.Node { return seq(lit("/"), e) }

// mac is six hex-pairs joined by ':', grounded on pegutil/address.go's MAC
// (Jnn(6, hexPair, S(":"))) but expressed as an AST join instead of a
// peg.Pattern combinator.
var mac = joinExact(6, hexPair, lit(":"))

// eui64 is eight hex-pairs joined by ':', the EUI-64 extension of mac.
var eui64 = joinExact(8, hexPair, lit(":"))

// decByte matches a decimal octet 0-255, built by decUpTo the same
// digit-by-digit way as every other bounded number in this file.
var decByte = decUpTo(255)

// ipv4 is four decByte groups joined by '.'.
var ipv4 = joinExact(4, decByte, lit("."))

// cidrv4 is an ipv4 address followed by a "/" and a prefix length 0-32.
var cidrv4 = seq(ipv4, slash(decUpTo(32)))

// ipv6Hextet is one to four hex digits, one "word" of an IPv6 address.
var ipv6Hextet = rep(1, intPtr(4), hexDigit)

// ipv6Full is the non-abbreviated eight-hextet form.
var ipv6Full = joinExact(8, ipv6Hextet, lit(":"))

// ipv6Compressed approximates the "::" zero-run abbreviation: 0 to 7
// hextet groups, "::", then 0 to 7 more hextet groups, excluding the case
// already covered by ipv6Full. This is a simplified rendition of full
// RFC 4291 IPv6 textual form (it does not reject a second "::", and does
// not special-case an embedded trailing IPv4 literal) — noted in
// DESIGN.md as an intentionally scoped-down fidelity decision, matching
// the digit-DP simplification already made for decUpTo.
var ipv6Compressed = seq(
	joinRange(0, 7, ipv6Hextet, lit(":")),
	lit("::"),
	joinRange(0, 7, ipv6Hextet, lit(":")),
)

var ipv6 = choice(ipv6Full, ipv6Compressed)

// cidrv6 is an ipv6 address followed by a "/" and a prefix length 0-128.
var cidrv6 = seq(ipv6, slash(decUpTo(128)))

// ipAny is either address family, v4 first since it is the more common
// and more restrictive shape.
var ipAny = choice(ipv4, ipv6)

func intPtr(n int) *int { return &n }

// Net returns the "net" package's entries: mac, eui64, ipv4, cidrv4,
// ipv6, cidrv6, and any (= ipv4 / ipv6), grounded on
// pegutil/address.go's MAC/EUI64/IPv4/CIDRv4/IPv6/CIDRv6 family, ported
// from peg.Pattern combinators to this module's AST vocabulary.
func Net() map[string]rplenv.Entry {
	return map[string]rplenv.Entry{
		"mac":    {Kind: rplenv.PatternEntry, Name: "mac", Exp: mac},
		"eui64":  {Kind: rplenv.PatternEntry, Name: "eui64", Exp: eui64},
		"ipv4":   {Kind: rplenv.PatternEntry, Name: "ipv4", Exp: ipv4},
		"cidrv4": {Kind: rplenv.PatternEntry, Name: "cidrv4", Exp: cidrv4},
		"ipv6":   {Kind: rplenv.PatternEntry, Name: "ipv6", Exp: ipv6},
		"cidrv6": {Kind: rplenv.PatternEntry, Name: "cidrv6", Exp: cidrv6},
		"any":    {Kind: rplenv.PatternEntry, Name: "any", Exp: ipAny},
	}
}
