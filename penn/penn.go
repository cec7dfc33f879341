package penn

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/wippyai/parse-bridge/errors"
)

// Node is a bracketed tree node. A leaf has a label and no children.
type Node struct {
	Label    string
	Children []*Node
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// IsPreterminal reports whether n has exactly one child and it is a leaf.
func (n *Node) IsPreterminal() bool {
	return len(n.Children) == 1 && n.Children[0].IsLeaf()
}

// Leaves returns the leaves in left-to-right order.
func (n *Node) Leaves() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(x *Node) {
		if x.IsLeaf() {
			out = append(out, x)
			return
		}
		for _, c := range x.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Yield returns the leaf labels in order.
func (n *Node) Yield() []string {
	leaves := n.Leaves()
	out := make([]string, len(leaves))
	for i, l := range leaves {
		out[i] = l.Label
	}
	return out
}

// String renders n in indented form.
func (n *Node) String() string { return Format(n) }

// Grammar

type file struct {
	Trees []*tree `@@*`
}

type tree struct {
	Label string  `"(" @Atom?`
	Items []*item `@@* ")"`
}

type item struct {
	Tree *tree   `  @@`
	Word *string `| @Atom`
}

var pennLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Punct", Pattern: `[()]`},
	{Name: "Atom", Pattern: `[^\s()]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var pennParser = participle.MustBuild[file](
	participle.Lexer(pennLexer),
	participle.Elide("Whitespace"),
)

func (t *tree) node() *Node {
	n := &Node{Label: t.Label}
	for _, it := range t.Items {
		switch {
		case it.Tree != nil:
			n.Children = append(n.Children, it.Tree.node())
		case it.Word != nil:
			n.Children = append(n.Children, &Node{Label: *it.Word})
		}
	}
	return n
}

// ParseAll reads every tree in s.
func ParseAll(s string) ([]*Node, error) {
	f, err := pennParser.ParseString("", s)
	if err != nil {
		return nil, errors.ParseFailed("penn trees", err)
	}
	out := make([]*Node, len(f.Trees))
	for i, t := range f.Trees {
		out[i] = t.node()
	}
	return out, nil
}

// Parse reads exactly one tree.
func Parse(s string) (*Node, error) {
	trees, err := ParseAll(s)
	if err != nil {
		return nil, err
	}
	if len(trees) != 1 {
		return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
			Detail("expected one tree, found %d", len(trees)).
			Build()
	}
	return trees[0], nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Node {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// Format renders n in indented bracket notation.
func Format(n *Node) string {
	var b strings.Builder
	format(&b, n, 0)
	return b.String()
}

func format(b *strings.Builder, n *Node, indent int) {
	if n.IsLeaf() {
		b.WriteString(n.Label)
		return
	}

	b.WriteByte('(')
	b.WriteString(n.Label)

	broken := false
	for _, c := range n.Children {
		if !broken && (c.IsLeaf() || c.IsPreterminal()) {
			b.WriteByte(' ')
			formatCompact(b, c)
			continue
		}
		broken = true
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", indent+2))
		format(b, c, indent+2)
	}
	b.WriteByte(')')
}

// FormatCompact renders n on a single line.
func FormatCompact(n *Node) string {
	var b strings.Builder
	formatCompact(&b, n)
	return b.String()
}

func formatCompact(b *strings.Builder, n *Node) {
	if n.IsLeaf() {
		b.WriteString(n.Label)
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Label)
	for _, c := range n.Children {
		b.WriteByte(' ')
		formatCompact(b, c)
	}
	b.WriteByte(')')
}
