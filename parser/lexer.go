package parser

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// tokenDef is the RPL lexical grammar, built once with participle's simple
// lexer generator the way stencil's grammar package builds liftLexer:
// a table of named regexes tried in order at each position. RPL's parser
// walks the resulting token slice by hand instead of handing the lexer
// to participle's declarative Parser[T], since the grammar needs
// diagnostic-collecting recovery that a struct-tag grammar can't express.
var tokenDef = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Dots", Pattern: `\.\.`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.]*`},
	{Name: "Punct", Pattern: `[(){}\[\]/*+?!&=,.^:~$-]`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

// token is a single lexeme with its rule name and source position.
type token struct {
	kind  string
	value string
	pos   lexer.Position
}

func (t token) eof() bool { return t.kind == "" }

// tokenize runs tokenDef over src and returns every non-trivia token, in
// order, with Comment and Whitespace tokens already elided. Elision is done
// by hand here because participle.Elide is an option on the declarative
// Parser[T], not on a bare lexer.Definition.
func tokenize(origin string, src []byte) ([]token, error) {
	lx, err := tokenDef.Lex(origin, bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("rpl: lex %s: %w", origin, err)
	}
	symbols := tokenDef.Symbols()
	names := make(map[lexer.TokenType]string, len(symbols))
	for name, id := range symbols {
		names[id] = name
	}

	var out []token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, fmt.Errorf("rpl: lex %s: %w", origin, err)
		}
		if tok.EOF() {
			break
		}
		name := names[tok.Type]
		if name == "Comment" || name == "Whitespace" {
			continue
		}
		out = append(out, token{kind: name, value: tok.Value, pos: tok.Pos})
	}
	return out, nil
}
