package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a node back to RPL source syntax. It is the inverse side
// of the parser used by the round-trip property in spec.md section 8:
// parsing Print(Parse(s)) must produce a structurally equal tree to
// Parse(s). Character-class members are written without escapes and an
// import path is written bare, so a class listing `]`, `\`, `^` or `-`,
// or an import path that is not an identifier, does not survive the
// round trip.
func Print(n Node) string {
	var b strings.Builder
	print1(&b, n)
	return b.String()
}

// PrintBlock renders every top-level statement followed by the optional
// trailing expression, one statement per line.
func PrintBlock(blk Block) string {
	var b strings.Builder
	for _, s := range blk.Statements {
		b.WriteString(Print(s))
		b.WriteByte('\n')
	}
	if blk.Trailing != nil {
		b.WriteString(Print(blk.Trailing))
		b.WriteByte('\n')
	}
	return b.String()
}

func print1(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Literal:
		b.WriteString(strconv.Quote(string(v.Value)))
	case *Ident:
		if v.PackageName != "" {
			fmt.Fprintf(b, "%s.%s", v.PackageName, v.LocalName)
		} else {
			b.WriteString(v.LocalName)
		}
	case *Sequence:
		for i, e := range v.Exps {
			if i > 0 {
				b.WriteByte(' ')
			}
			printParen(b, e, v)
		}
	case *Choice:
		for i, e := range v.Exps {
			if i > 0 {
				b.WriteString(" / ")
			}
			printParen(b, e, v)
		}
	case *Predicate:
		b.WriteString(v.Kind.String())
		printParen(b, v.Exp, v)
	case *Repetition:
		printParen(b, v.Exp, v)
		b.WriteByte(' ')
		b.WriteString(quantifierSuffix(v.Min, v.Max))
	case *CharClass:
		b.WriteByte('[')
		if v.Complement {
			b.WriteByte('^')
		}
		for _, item := range v.Items {
			switch item.Kind {
			case NamedItem:
				fmt.Fprintf(b, "[:%s:]", item.Name)
			case RangeItem:
				fmt.Fprintf(b, "%c-%c", item.Lo, item.Hi)
			case ListItem:
				b.WriteString(string(item.Chars))
			}
		}
		b.WriteByte(']')
	case *Primitive:
		b.WriteString(v.Name)
	case *Cooked:
		b.WriteByte('(')
		print1(b, v.Exp)
		b.WriteByte(')')
	case *Raw:
		b.WriteByte('{')
		print1(b, v.Exp)
		b.WriteByte('}')
	case *Capture:
		fmt.Fprintf(b, "%s=", v.Name)
		printParen(b, v.Exp, v)
	case *Grammar:
		b.WriteString("grammar\n")
		for _, r := range v.Rules {
			if r.IsAlias {
				b.WriteString("  alias ")
			} else {
				b.WriteString("  ")
			}
			fmt.Fprintf(b, "%s = %s\n", r.Name, Print(r.Exp))
		}
		b.WriteString("end")
	case *Binding:
		if v.IsAlias {
			b.WriteString("alias ")
		}
		fmt.Fprintf(b, "%s = %s", v.Name, Print(v.Exp))
	case *Application:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = Print(a)
		}
		fmt.Fprintf(b, "%s(%s)", v.MacroName, strings.Join(args, ", "))
	case *Import:
		if v.Alias != "" {
			fmt.Fprintf(b, "import %s as %s", v.ImportPath, v.Alias)
		} else {
			fmt.Fprintf(b, "import %s", v.ImportPath)
		}
	case *PackageDecl:
		fmt.Fprintf(b, "package %s", v.Name)
	case *SyntaxError:
		b.WriteString("<syntax-error>")
	default:
		fmt.Fprintf(b, "<?%T>", n)
	}
}

// printParen adds parentheses around a child when printing it bare inside
// parent would change how it re-parses (e.g. a choice nested in a
// sequence).
func printParen(b *strings.Builder, child Node, parent Node) bool {
	needs := false
	switch child.(type) {
	case *Choice:
		needs = true
	case *Sequence:
		_, inChoice := parent.(*Choice)
		needs = !inChoice
	}
	if needs {
		b.WriteByte('(')
		print1(b, child)
		b.WriteByte(')')
		return true
	}
	print1(b, child)
	return false
}

func quantifierSuffix(min int, max *int) string {
	switch {
	case max == nil && min == 0:
		return "*"
	case max == nil && min == 1:
		return "+"
	case max != nil && min == 0 && *max == 1:
		return "?"
	case max != nil && min == *max:
		return fmt.Sprintf("{%d}", min)
	case max == nil:
		return fmt.Sprintf("{%d,}", min)
	default:
		return fmt.Sprintf("{%d,%d}", min, *max)
	}
}
