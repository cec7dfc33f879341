package nlphost

import (
	"math"

	"github.com/wippyai/parse-bridge/host"
	"github.com/wippyai/parse-bridge/nlp"
	"github.com/wippyai/parse-bridge/penn"
)

// Tree is a labeled, optionally scored tree node.
type Tree struct {
	label    string
	children []*Tree
	score    float64
}

// TreeFromPenn copies a bracket tree. Nodes are unscored.
func TreeFromPenn(n *penn.Node) *Tree {
	t := &Tree{label: n.Label, score: math.NaN()}
	for _, c := range n.Children {
		t.children = append(t.children, TreeFromPenn(c))
	}
	return t
}

// ForeignType distinguishes leaves from inner nodes.
func (t *Tree) ForeignType() string {
	if t.IsLeaf() {
		return nlp.TypeTreeLeaf
	}
	return nlp.TypeTreeNode
}

func (t *Tree) Value() string { return t.label }
func (t *Tree) Score() float64 { return t.score }
func (t *Tree) IsLeaf() bool { return len(t.children) == 0 }
func (t *Tree) Children() []*Tree { return t.children }
func (t *Tree) NumChildren() int { return len(t.children) }
func (t *Tree) SetScore(s float64) { t.score = s }
func (t *Tree) PennString() string { return penn.Format(t.penn()) }
func (t *Tree) String() string { return penn.FormatCompact(t.penn()) }
func (t *Tree) IsPreTerminal() bool { return len(t.children) == 1 && t.children[0].IsLeaf() }

// Iterator walks the subtree in pre-order.
func (t *Tree) Iterator() *host.Iterator {
	var nodes []any
	var walk func(*Tree)
	walk = func(n *Tree) {
		nodes = append(nodes, n)
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t)
	return host.IteratorOf(nodes...)
}

// LocalTrees returns every node that is neither a leaf nor a preterminal.
func (t *Tree) LocalTrees() *host.HashSet {
	set := host.NewHashSet()
	var walk func(*Tree)
	walk = func(n *Tree) {
		if n.IsLeaf() || n.IsPreTerminal() {
			return
		}
		set.Add(n)
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t)
	return set
}

func (t *Tree) penn() *penn.Node {
	n := &penn.Node{Label: t.label}
	for _, c := range t.children {
		n.Children = append(n.Children, c.penn())
	}
	return n
}
