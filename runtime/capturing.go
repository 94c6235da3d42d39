package runtime

// captureNode wraps body and, if it matches, records a MatchTree under
// name. An empty name behaves as a transparent grouping (an alias
// reference or any other unnamed construct): endCapture splices its subs
// straight into the parent instead of wrapping them, so unnamed matches
// never appear as nodes themselves but still contribute whatever named
// captures occurred inside them. Mirrors capturing.go's CK/CC/CT
// begin/call/end bracket, generalized from flat Groups/Captures output
// to the {name,start,end,subs} tree spec.md's data model calls for.
type captureNode struct {
	name string
	body Node
}

// Capture wraps body so a successful match records a MatchTree. Pass ""
// for name to get a transparent grouping (spec.md's alias semantics).
func Capture(name string, body Node) Node {
	return &captureNode{name: name, body: body}
}

func (p *captureNode) match(ctx *Context) error {
	if !ctx.justReturned() {
		if err := ctx.beginCapture(p.name); err != nil {
			return err
		}
		return ctx.call(p.body)
	}

	if ctx.retOk {
		ctx.consume(ctx.retN)
	}
	if err := ctx.endCapture(ctx.retOk); err != nil {
		return err
	}
	if !ctx.retOk {
		return ctx.returnFail()
	}
	return ctx.returnOk(ctx.n)
}

// Grammar ties a set of mutually recursive rules together. Rules are
// declared forward (Ref may be called before the matching Define) and
// resolved lazily at match time, which is what lets grammar bodies
// refer to each other and to themselves before every rule's body has
// been compiled — generalizes capturing.go's Let/V/CV dynamic-scope
// lookup into a plain pointer fixup, since this runtime's grammar
// structure is static once compiled (no dynamically rebound variables),
// so there's no need for context.go's scopes stack at all.
type Grammar struct {
	rules map[string]Node
}

// NewGrammar returns an empty, as-yet-untied grammar.
func NewGrammar() *Grammar {
	return &Grammar{rules: make(map[string]Node)}
}

// Define binds name to body. Call once per rule after all Refs that
// need it have already been created.
func (g *Grammar) Define(name string, body Node) {
	g.rules[name] = body
}

// Ref returns a Node that, at match time, runs whatever Define bound to
// name — tail-called via Context.execute so recursive/mutually
// recursive rules don't grow the callstack per reference, only per
// byte actually consumed between rule boundaries.
func (g *Grammar) Ref(name string) Node {
	return &grammarRefNode{g: g, name: name}
}

type grammarRefNode struct {
	g    *Grammar
	name string
}

func (p *grammarRefNode) match(ctx *Context) error {
	body := p.g.rules[p.name]
	if body == nil {
		return errUndefinedRule
	}
	return ctx.execute(body)
}
