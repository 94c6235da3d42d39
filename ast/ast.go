// Package ast defines the tagged, immutable abstract syntax tree produced
// by the parser and consumed by the compiler. Every node variant in
// spec.md section 3 has a corresponding Go type here; composite nodes hold
// their children by value or by pointer slice, never by interface{} maps,
// so the compiler can switch over concrete types exhaustively.
package ast

import "github.com/rosie-lang/rpl/source"

// Node is implemented by every AST node. Nodes are acyclic and immutable
// once returned by the parser.
type Node interface {
	Ref() source.Ref
	node()
}

// base embeds the source reference shared by every node.
type base struct {
	ref source.Ref
}

// Ref returns the node's source reference.
func (b base) Ref() source.Ref { return b.ref }

func (base) node() {}

// NewBase is a constructor helper for embedding into concrete node types.
func NewBase(ref source.Ref) base { return base{ref: ref} }

// Literal is an exact byte string to match.
type Literal struct {
	base
	Value []byte
}

// Ident is an alternative name for Ref disambiguated from Go's "reference"
// meaning; the spec's "ref" AST variant is named Ident here for the same
// reason e.g. Go's own ast.Ident is not called ast.Ref.
type Ident struct {
	base
	LocalName   string
	PackageName string // empty when unqualified
}

// PredicateKind enumerates the two zero-width predicate forms.
type PredicateKind int

const (
	// Negation is "!exp": matches iff exp does not match, consumes nothing.
	Negation PredicateKind = iota
	// Lookahead is "&exp": matches iff exp matches, consumes nothing.
	Lookahead
)

func (k PredicateKind) String() string {
	if k == Negation {
		return "!"
	}
	return "&"
}

// Sequence matches each of Exps in order.
type Sequence struct {
	base
	Exps []Node
}

// Choice matches the first of Exps that matches.
type Choice struct {
	base
	Exps []Node
}

// Predicate is a zero-width negation or lookahead.
type Predicate struct {
	base
	Kind PredicateKind
	Exp  Node
}

// Repetition is exp{Min,Max}; Max == nil means unbounded.
type Repetition struct {
	base
	Min    int
	Max    *int
	Exp    Node
	Cooked bool // always false from the parser; the compiler tracks cooked mode itself and ignores it
}

// ClassItem is one component of a CharClass: a named class, a rune range,
// or an explicit list of runes. It never appears as a standalone AST node
// outside a CharClass, since a bracket expression's complement applies to
// the union of its items, not to each item individually.
type ClassItem struct {
	// Exactly one of these is populated, selected by Kind.
	Kind  ClassItemKind
	Name  string // Kind == NamedItem
	Lo    rune   // Kind == RangeItem
	Hi    rune   // Kind == RangeItem
	Chars []rune // Kind == ListItem
}

// ClassItemKind tags the active field of a ClassItem.
type ClassItemKind int

const (
	NamedItem ClassItemKind = iota
	RangeItem
	ListItem
)

// NamedCharset is the spec's named_charset{name, complement?} variant: a
// standalone reference to a named character class, e.g. [:alpha:].
func NamedCharset(name string) ClassItem { return ClassItem{Kind: NamedItem, Name: name} }

// CharRange is the spec's range{lo, hi, complement?} variant.
func CharRange(lo, hi rune) ClassItem { return ClassItem{Kind: RangeItem, Lo: lo, Hi: hi} }

// CharList is the spec's charlist{chars, complement?} variant.
func CharList(chars []rune) ClassItem { return ClassItem{Kind: ListItem, Chars: chars} }

// CharClass is a bracket expression `[items...]`, optionally complemented
// as a whole (`[^items...]`). A class with exactly one item and
// Complement set realizes the spec's per-variant "complement?" field;
// a class with multiple items realizes union composition
// (e.g. `[a-zA-Z0-9_]` is four items in one class).
type CharClass struct {
	base
	Items      []ClassItem
	Complement bool
}

// Primitive is a runtime-native zero-width or control construct that has
// no expansion as ordinary combinators: start-of-input, end-of-input,
// the token boundary, and halt. The prelude binds "^", "$", "~", and
// "halt" to these; everything else the prelude exports (".", the macros)
// is built from ordinary AST nodes instead.
type Primitive struct {
	base
	Name string
}

func NewPrimitive(ref source.Ref, name string) *Primitive { return &Primitive{NewBase(ref), name} }

// Cooked wraps an expression in cooked tokenization mode: the compiler
// inserts boundary matchers between siblings of Sequence/Repetition.
type Cooked struct {
	base
	Exp Node
}

// Raw wraps an expression in raw tokenization mode: no boundaries are
// inserted between siblings.
type Raw struct {
	base
	Exp Node
}

// Capture names the subtree produced by matching Exp.
type Capture struct {
	base
	Name string
	Exp  Node
}

// Rule is one production of a Grammar.
type Rule struct {
	Name    string
	Exp     Node
	IsAlias bool
}

// Grammar is a set of mutually recursive named productions; Rules[0] is
// the entry point.
type Grammar struct {
	base
	Rules []Rule
}

// Binding is a top-level `name = exp` or `alias name = exp` statement.
type Binding struct {
	base
	Name    string
	Exp     Node
	IsAlias bool
}

// Application is a macro call such as find(E) or ci(E), expanded to a
// plain expression before compilation.
type Application struct {
	base
	MacroName string
	Args      []Node
}

// Import is a top-level `import path [as alias]` statement.
type Import struct {
	base
	ImportPath string
	Alias      string // empty when not aliased
}

// PackageDecl is a top-level `package name` statement.
type PackageDecl struct {
	base
	Name string
}

// SyntaxError is an in-tree placeholder left by the parser at a
// recoverable parse failure; parsing continues after it so that later,
// unrelated statements can still be checked. DiagnosticIndex refers back
// into the Diagnostic list returned alongside the tree.
type SyntaxError struct {
	base
	DiagnosticIndex int
}

// Block is the result of parsing a whole source file or REPL line: zero or
// more top-level statements, plus an optional trailing expression used in
// REPL/compile-expression mode.
type Block struct {
	Statements []Node // Binding | Grammar | Import | PackageDecl | SyntaxError
	Trailing   Node   // nil unless the source ends with a bare expression
}

func NewLiteral(ref source.Ref, value []byte) *Literal { return &Literal{NewBase(ref), value} }
func NewIdent(ref source.Ref, local, pkg string) *Ident {
	return &Ident{NewBase(ref), local, pkg}
}
func NewSequence(ref source.Ref, exps []Node) *Sequence { return &Sequence{NewBase(ref), exps} }
func NewChoice(ref source.Ref, exps []Node) *Choice     { return &Choice{NewBase(ref), exps} }
func NewPredicate(ref source.Ref, kind PredicateKind, exp Node) *Predicate {
	return &Predicate{NewBase(ref), kind, exp}
}
func NewRepetition(ref source.Ref, min int, max *int, exp Node, cooked bool) *Repetition {
	return &Repetition{NewBase(ref), min, max, exp, cooked}
}
func NewCapture(ref source.Ref, name string, exp Node) *Capture {
	return &Capture{NewBase(ref), name, exp}
}
func NewCharClass(ref source.Ref, items []ClassItem, complement bool) *CharClass {
	return &CharClass{NewBase(ref), items, complement}
}
func NewCooked(ref source.Ref, exp Node) *Cooked { return &Cooked{NewBase(ref), exp} }
func NewRaw(ref source.Ref, exp Node) *Raw       { return &Raw{NewBase(ref), exp} }
func NewGrammar(ref source.Ref, rules []Rule) *Grammar { return &Grammar{NewBase(ref), rules} }
func NewBinding(ref source.Ref, name string, exp Node, alias bool) *Binding {
	return &Binding{NewBase(ref), name, exp, alias}
}
func NewApplication(ref source.Ref, macro string, args []Node) *Application {
	return &Application{NewBase(ref), macro, args}
}
func NewImport(ref source.Ref, path, alias string) *Import {
	return &Import{NewBase(ref), path, alias}
}
func NewPackageDecl(ref source.Ref, name string) *PackageDecl {
	return &PackageDecl{NewBase(ref), name}
}
func NewSyntaxError(ref source.Ref, diagnosticIndex int) *SyntaxError {
	return &SyntaxError{NewBase(ref), diagnosticIndex}
}
