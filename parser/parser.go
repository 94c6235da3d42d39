// Package parser turns RPL source bytes into an ast.Block, collecting
// diagnostics instead of stopping at the first syntax error. A recursive-
// descent reader drives the token stream built by tokenize (lexer.go),
// peeking one token past the current one to spot a `name =` statement and
// backtracking where a construct is ambiguous (a `name=exp` capture, a `{`
// that may open a quantifier); on an unexpected token it records a Diagnostic,
// splices an ast.SyntaxError placeholder into the tree, and resynchronizes
// at the next statement boundary rather than aborting the whole parse.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rosie-lang/rpl/ast"
	"github.com/rosie-lang/rpl/source"
)

type parser struct {
	origin string
	src    []byte
	toks   []token
	pos    int
	diags  []source.Diagnostic
}

// Parse tokenizes and parses one RPL source unit (a file, or a REPL line).
// The returned Block's Trailing field is non-nil only when the source ends
// in a bare expression rather than a statement.
func Parse(origin string, src []byte) (ast.Block, []source.Diagnostic, error) {
	toks, err := tokenize(origin, src)
	if err != nil {
		return ast.Block{}, nil, err
	}
	p := &parser{origin: origin, src: src, toks: toks}
	return p.parseBlock(), p.diags, nil
}

// --- token cursor helpers ---------------------------------------------

func (p *parser) cur() token {
	if p.pos >= len(p.toks) {
		return token{}
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return token{}
	}
	return p.toks[p.pos+n]
}

func (p *parser) atEOF() bool { return p.pos >= len(p.toks) }

func (p *parser) at(kind string) bool { return p.cur().kind == kind }

func (p *parser) atVal(kind, val string) bool {
	t := p.cur()
	return t.kind == kind && t.value == val
}

func (p *parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

// offset is the byte offset of the current token, or end-of-source at EOF.
func (p *parser) offset() int {
	if t := p.cur(); !t.eof() {
		return t.pos.Offset
	}
	return len(p.src)
}

func (p *parser) refFrom(start int) source.Ref {
	return source.Ref{Origin: p.origin, Start: start, End: p.offset(), Text: p.src}
}

func (p *parser) diag(kind source.Kind, ref source.Ref, format string, args ...interface{}) int {
	msg := fmt.Sprintf(format, args...)
	idx := len(p.diags)
	p.diags = append(p.diags, source.Diagnostic{Severity: source.SeverityError, Kind: kind, Message: msg, Ref: ref})
	return idx
}

// syntaxErrorAt records a Syntax diagnostic for the current token and
// returns a placeholder node to splice into the tree in its place.
func (p *parser) syntaxErrorAt(start int, format string, args ...interface{}) *ast.SyntaxError {
	ref := p.refFrom(start)
	idx := p.diag(source.Syntax, ref, format, args...)
	return ast.NewSyntaxError(ref, idx)
}

// expectPunct consumes a Punct token with the given value, or records a
// syntax error and leaves the cursor in place.
func (p *parser) expectPunct(val string) bool {
	if p.atVal("Punct", val) {
		p.advance()
		return true
	}
	p.syntaxErrorAt(p.offset(), "expected %q", val)
	return false
}

func (p *parser) expectIdent(what string) (string, bool) {
	if p.at("Ident") {
		return p.advance().value, true
	}
	p.syntaxErrorAt(p.offset(), "expected %s", what)
	return "", false
}

// --- statement-level grammar -------------------------------------------

func (p *parser) parseBlock() ast.Block {
	var blk ast.Block
	for !p.atEOF() {
		if p.isStatementStart() {
			blk.Statements = append(blk.Statements, p.parseStatement())
			continue
		}
		blk.Trailing = p.parseExpr()
		if !p.atEOF() {
			p.syntaxErrorAt(p.offset(), "unexpected trailing input after expression")
		}
		break
	}
	return blk
}

func (p *parser) isStatementStart() bool {
	t := p.cur()
	if t.eof() || t.kind != "Ident" {
		return false
	}
	switch t.value {
	case "import", "package", "grammar", "alias":
		return true
	}
	nxt := p.peekAt(1)
	return nxt.kind == "Punct" && nxt.value == "="
}

func (p *parser) parseStatement() ast.Node {
	t := p.cur()
	if t.kind == "Ident" {
		switch t.value {
		case "import":
			return p.parseImport()
		case "package":
			return p.parsePackageDecl()
		case "grammar":
			return p.parseGrammar()
		}
	}
	return p.parseBinding()
}

// resyncStatement skips tokens until the next likely statement start, so a
// single malformed statement does not prevent diagnosing the rest of the
// file.
func (p *parser) resyncStatement() {
	for !p.atEOF() && !p.isStatementStart() {
		p.advance()
	}
}

func (p *parser) parseImport() ast.Node {
	start := p.offset()
	p.advance() // "import"

	var path string
	switch {
	case p.at("String"):
		path = unquote(p.advance().value)
	case p.at("Ident"):
		path = p.advance().value
	default:
		e := p.syntaxErrorAt(start, "expected import path")
		p.resyncStatement()
		return e
	}

	alias := ""
	if p.atVal("Ident", "as") {
		p.advance()
		name, ok := p.expectIdent("import alias")
		if !ok {
			p.resyncStatement()
			return p.syntaxErrorAt(start, "malformed import")
		}
		alias = name
	}
	return ast.NewImport(p.refFrom(start), path, alias)
}

func (p *parser) parsePackageDecl() ast.Node {
	start := p.offset()
	p.advance() // "package"
	name, ok := p.expectIdent("package name")
	if !ok {
		p.resyncStatement()
		return p.syntaxErrorAt(start, "malformed package declaration")
	}
	return ast.NewPackageDecl(p.refFrom(start), name)
}

func (p *parser) parseGrammar() ast.Node {
	start := p.offset()
	p.advance() // "grammar"

	var rules []ast.Rule
	for !p.atEOF() && !p.atVal("Ident", "end") {
		alias := false
		if p.atVal("Ident", "alias") {
			p.advance()
			alias = true
		}
		name, ok := p.expectIdent("rule name")
		if !ok {
			p.resyncStatement()
			return p.syntaxErrorAt(start, "malformed grammar")
		}
		if !p.expectPunct("=") {
			p.resyncStatement()
			return p.syntaxErrorAt(start, "malformed grammar")
		}
		exp := p.parseExpr()
		rules = append(rules, ast.Rule{Name: name, Exp: exp, IsAlias: alias})
	}
	if p.atVal("Ident", "end") {
		p.advance()
	} else {
		p.syntaxErrorAt(p.offset(), "expected %q to close grammar", "end")
	}
	return ast.NewGrammar(p.refFrom(start), rules)
}

func (p *parser) parseBinding() ast.Node {
	start := p.offset()
	alias := false
	if p.atVal("Ident", "alias") {
		p.advance()
		alias = true
	}
	name, ok := p.expectIdent("binding name")
	if !ok {
		p.resyncStatement()
		return p.syntaxErrorAt(start, "malformed binding")
	}
	if !p.expectPunct("=") {
		p.resyncStatement()
		return p.syntaxErrorAt(start, "malformed binding")
	}
	exp := p.parseExpr()
	return ast.NewBinding(p.refFrom(start), name, exp, alias)
}

// --- expression-level grammar (the PEG itself) --------------------------

// parseExpr parses a full pattern expression: a choice of sequences.
func (p *parser) parseExpr() ast.Node {
	start := p.offset()
	alts := []ast.Node{p.parseSeq()}
	for p.atVal("Punct", "/") {
		p.advance()
		alts = append(alts, p.parseSeq())
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return ast.NewChoice(p.refFrom(start), alts)
}

// seqEnd reports whether the current token cannot start another sequence
// element, i.e. it closes some enclosing construct.
func (p *parser) seqEnd() bool {
	if p.atEOF() {
		return true
	}
	t := p.cur()
	if t.kind == "Punct" {
		switch t.value {
		case ")", "}", "/", ",":
			return true
		}
	}
	if t.kind == "Ident" {
		switch t.value {
		case "end", "import", "package", "alias":
			return true
		}
	}
	return false
}

func (p *parser) parseSeq() ast.Node {
	start := p.offset()
	var exps []ast.Node
	for !p.seqEnd() {
		// An identifier that starts a new line begins the next statement
		// (or the trailing expression), not another element of this one.
		if len(exps) > 0 && p.at("Ident") && p.cur().pos.Line > p.toks[p.pos-1].pos.Line {
			break
		}
		before := p.pos
		exps = append(exps, p.parseUnary())
		if p.pos == before {
			// parseUnary made no progress: avoid an infinite loop by
			// consuming the offending token as a syntax error.
			exps[len(exps)-1] = p.syntaxErrorAt(p.offset(), "unexpected token %q", p.cur().value)
			p.advance()
		}
	}
	if len(exps) == 0 {
		return p.syntaxErrorAt(start, "expected an expression")
	}
	if len(exps) == 1 {
		return exps[0]
	}
	return ast.NewSequence(p.refFrom(start), exps)
}

func (p *parser) parseUnary() ast.Node {
	start := p.offset()
	switch {
	case p.atVal("Punct", "!"):
		p.advance()
		return ast.NewPredicate(p.refFrom(start), ast.Negation, p.parseUnary())
	case p.atVal("Punct", "&"):
		p.advance()
		return ast.NewPredicate(p.refFrom(start), ast.Lookahead, p.parseUnary())
	}
	return p.parseCapture()
}

// parseCapture looks for the `name=exp` form; it backtracks to a plain
// postfix expression if the `=` does not follow, since a bare identifier
// followed by something else is just a pattern reference.
func (p *parser) parseCapture() ast.Node {
	start := p.offset()
	if p.at("Ident") && !isReservedWord(p.cur().value) {
		save := p.pos
		name := p.advance().value
		if p.atVal("Punct", "=") {
			p.advance()
			return ast.NewCapture(p.refFrom(start), name, p.parsePostfix())
		}
		p.pos = save
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Node {
	e := p.parsePrimary()
	for {
		ref := p.refFrom(e.Ref().Start)
		switch {
		case p.atVal("Punct", "*"):
			p.advance()
			e = ast.NewRepetition(ref, 0, nil, e, false)
		case p.atVal("Punct", "+"):
			p.advance()
			e = ast.NewRepetition(ref, 1, nil, e, false)
		case p.atVal("Punct", "?"):
			p.advance()
			one := 1
			e = ast.NewRepetition(ref, 0, &one, e, false)
		case p.atVal("Punct", "{"):
			min, max, ok := p.tryQuantifierBrace()
			if !ok {
				return e
			}
			e = ast.NewRepetition(ref, min, max, e, false)
		default:
			return e
		}
	}
}

// tryQuantifierBrace attempts to read a `{n}` / `{n,}` / `{n,m}` suffix.
// It backtracks cleanly (leaving the cursor untouched) when the brace
// turns out to open a raw group instead, e.g. in `e1 {e2}`.
func (p *parser) tryQuantifierBrace() (min int, max *int, ok bool) {
	save := p.pos
	p.advance() // "{"
	if !p.at("Number") {
		p.pos = save
		return 0, nil, false
	}
	n1, _ := strconv.Atoi(p.advance().value)
	if p.atVal("Punct", "}") {
		p.advance()
		m := n1
		return n1, &m, true
	}
	if p.atVal("Punct", ",") {
		p.advance()
		if p.at("Number") {
			n2, _ := strconv.Atoi(p.advance().value)
			if !p.atVal("Punct", "}") {
				p.pos = save
				return 0, nil, false
			}
			p.advance()
			return n1, &n2, true
		}
		if p.atVal("Punct", "}") {
			p.advance()
			return n1, nil, true
		}
	}
	p.pos = save
	return 0, nil, false
}

func (p *parser) parsePrimary() ast.Node {
	start := p.offset()
	switch {
	case p.at("String"):
		return ast.NewLiteral(p.refFrom(start), []byte(unquote(p.advance().value)))

	case p.atVal("Punct", "["):
		return p.parseCharClass()

	case p.atVal("Punct", "("):
		p.advance()
		e := p.parseExpr()
		p.expectPunct(")")
		return ast.NewCooked(p.refFrom(start), e)

	case p.atVal("Punct", "{"):
		p.advance()
		e := p.parseExpr()
		p.expectPunct("}")
		return ast.NewRaw(p.refFrom(start), e)

	case p.atVal("Punct", "."), p.atVal("Punct", "^"), p.atVal("Punct", "$"), p.atVal("Punct", "~"):
		sym := p.advance().value
		return ast.NewIdent(p.refFrom(start), sym, "")

	case p.atVal("Ident", "grammar"):
		// A grammar body can appear either as its own top-level statement
		// or as the right-hand side of a binding (`name = grammar ... end`);
		// both forms share this same reader.
		return p.parseGrammar()

	case p.at("Ident"):
		name := p.advance().value
		if p.atVal("Punct", "(") {
			return p.parseApplication(start, name)
		}
		local, pkg := splitQualified(name)
		return ast.NewIdent(p.refFrom(start), local, pkg)

	default:
		tok := p.cur()
		if !tok.eof() {
			p.advance()
		}
		return p.syntaxErrorAt(start, "unexpected token %q", tokDesc(tok))
	}
}

func (p *parser) parseApplication(start int, macro string) ast.Node {
	p.advance() // "("
	var args []ast.Node
	if !p.atVal("Punct", ")") {
		args = append(args, p.parseExpr())
		for p.atVal("Punct", ",") {
			p.advance()
			args = append(args, p.parseExpr())
		}
	}
	p.expectPunct(")")
	return ast.NewApplication(p.refFrom(start), macro, args)
}

// --- lexical helpers -----------------------------------------------------

func splitQualified(name string) (local, pkg string) {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:], name[:i]
	}
	return name, ""
}

func isReservedWord(name string) bool {
	switch name {
	case "import", "package", "grammar", "alias", "end", "as":
		return true
	}
	return false
}

// unquote strips the surrounding quotes from a String token and resolves
// its C-like backslash escapes. Malformed escapes fall back to the raw
// inner text rather than failing the whole parse.
func unquote(raw string) string {
	s, err := strconv.Unquote(raw)
	if err != nil {
		if len(raw) >= 2 {
			return raw[1 : len(raw)-1]
		}
		return raw
	}
	return s
}

func tokDesc(t token) string {
	if t.eof() {
		return "<eof>"
	}
	return t.value
}
