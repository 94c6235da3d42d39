package runtime

// MatchTree is one named capture node, per spec.md's {name, start, end,
// subs} match tree. Start/End are byte offsets into the input the
// matcher ran against. Text, when non-empty, is a literal payload that
// encoders show instead of the input span; no node built by this
// module's compiler sets it, so it is empty in every tree Run produces.
type MatchTree struct {
	Name  string
	Start int
	End   int
	Subs  []*MatchTree
	Text  string
}
