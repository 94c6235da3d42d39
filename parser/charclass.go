package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/rosie-lang/rpl/ast"
	"github.com/rosie-lang/rpl/source"
)

// parseCharClass reads a bracket expression starting at the current "["
// token directly off the raw byte source rather than off the token stream.
// Bracket content (ranges, named classes, escapes) is a different lexical
// world from the rest of RPL, so it is easier and more reliable to scan it
// by hand than to coax the general tokenizer into it; this mirrors how
// hand-written PEG parsers in the pack treat bracket expressions as an
// escape hatch from the main lexer.
func (p *parser) parseCharClass() ast.Node {
	start := p.offset()
	items, complement, end, err := scanCharClass(p.src, start)
	ref := source.Ref{Origin: p.origin, Start: start, End: end, Text: p.src}
	if err != nil {
		p.diag(source.Syntax, ref, err.Error())
	}
	for p.pos < len(p.toks) && p.toks[p.pos].pos.Offset < end {
		p.pos++
	}
	return ast.NewCharClass(ref, items, complement)
}

// scanCharClass parses a `[...]` bracket expression starting at src[start]
// ('[' itself). It returns the class items, whether the whole class is
// complemented, and the byte offset just past the closing ']'.
func scanCharClass(src []byte, start int) (items []ast.ClassItem, complement bool, end int, err error) {
	if start >= len(src) || src[start] != '[' {
		return nil, false, start, fmt.Errorf("internal: scanCharClass not at '['")
	}
	i := start + 1
	// A bare `[:name:]` is a complete named class on its own.
	if i < len(src) && src[i] == ':' {
		j := i + 1
		for j < len(src) && src[j] != ':' && src[j] != ']' {
			j++
		}
		if j+1 < len(src) && src[j] == ':' && src[j+1] == ']' {
			return []ast.ClassItem{ast.NamedCharset(string(src[i+1 : j]))}, false, j + 2, nil
		}
	}
	if i < len(src) && src[i] == '^' {
		complement = true
		i++
	}

	var pending []rune
	flush := func() {
		if len(pending) > 0 {
			items = append(items, ast.CharList(append([]rune(nil), pending...)))
			pending = nil
		}
	}

	for i < len(src) {
		c := src[i]
		if c == ']' {
			flush()
			return items, complement, i + 1, nil
		}
		if c == '[' && i+1 < len(src) && src[i+1] == ':' {
			j := i + 2
			for j < len(src) && src[j] != ':' {
				j++
			}
			if j+1 < len(src) && src[j] == ':' && src[j+1] == ']' {
				flush()
				items = append(items, ast.NamedCharset(string(src[i+2:j])))
				i = j + 2
				continue
			}
			pending = append(pending, '[')
			i++
			continue
		}

		r, sz := readClassRune(src, i)
		i += sz

		if i < len(src) && src[i] == '-' && i+1 < len(src) && src[i+1] != ']' {
			i++
			r2, sz2 := readClassRune(src, i)
			i += sz2
			flush()
			items = append(items, ast.CharRange(r, r2))
			continue
		}
		pending = append(pending, r)
	}
	flush()
	return items, complement, i, fmt.Errorf("unterminated character class")
}

// readClassRune decodes one (possibly backslash-escaped) rune starting at
// src[i] and returns it with the number of bytes it consumed.
func readClassRune(src []byte, i int) (rune, int) {
	if src[i] == '\\' && i+1 < len(src) {
		switch src[i+1] {
		case 'n':
			return '\n', 2
		case 't':
			return '\t', 2
		case 'r':
			return '\r', 2
		case '\\', ']', '^', '-', '[':
			return rune(src[i+1]), 2
		default:
			r, sz := utf8.DecodeRune(src[i+1:])
			return r, 1 + sz
		}
	}
	r, sz := utf8.DecodeRune(src[i:])
	return r, sz
}
