package standoff

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/wippyai/parse-bridge/errors"
	"github.com/wippyai/parse-bridge/nlp"
	"github.com/wippyai/parse-bridge/penn"
)

const none = -1

// node is one arena entry. Terminals carry a token index, non-terminals a
// label.
type node struct {
	label    string
	token    int
	parent   int
	children []int
}

// Tree is a parse of one sentence whose terminals carry the sentence tokens.
// Nodes live in an arena and are addressed by index; a Tree is never modified
// after it is built.
type Tree struct {
	nodes    []node
	sentence Sentence
}

// Node is a handle to one node of a Tree.
type Node struct {
	tree *Tree
	id   int
}

// source is the shape the builder walks: foreign trees and bracket trees.
type source interface {
	label(ctx context.Context) (string, error)
	leaf(ctx context.Context) (bool, error)
	children(ctx context.Context) ([]source, error)
}

type foreignSource struct{ t *nlp.Tree }

func (s foreignSource) label(ctx context.Context) (string, error) { return s.t.Label(ctx) }
func (s foreignSource) leaf(ctx context.Context) (bool, error)    { return s.t.IsLeaf(ctx) }

func (s foreignSource) children(ctx context.Context) ([]source, error) {
	kids, err := s.t.Children(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]source, len(kids))
	for i, k := range kids {
		out[i] = foreignSource{k}
	}
	return out, nil
}

type pennSource struct{ n *penn.Node }

func (s pennSource) label(context.Context) (string, error) { return s.n.Label, nil }
func (s pennSource) leaf(context.Context) (bool, error)    { return s.n.IsLeaf(), nil }

func (s pennSource) children(context.Context) ([]source, error) {
	out := make([]source, len(s.n.Children))
	for i, k := range s.n.Children {
		out[i] = pennSource{k}
	}
	return out, nil
}

// Build walks a foreign parse tree depth-first and attaches the sentence
// tokens to its leaves in order. The leaf and token counts must agree.
func Build(ctx context.Context, t *nlp.Tree, s Sentence) (*Tree, error) {
	return build(ctx, foreignSource{t}, s)
}

// BuildPenn is Build over a native bracket tree.
func BuildPenn(n *penn.Node, s Sentence) (*Tree, error) {
	return build(context.Background(), pennSource{n}, s)
}

func build(ctx context.Context, root source, s Sentence) (*Tree, error) {
	b := &builder{tree: &Tree{sentence: s}}
	if _, err := b.walk(ctx, root, none); err != nil {
		return nil, err
	}
	if b.leaves != len(s) {
		return nil, errors.SpanCountMismatch(b.leaves, len(s))
	}
	return b.tree, nil
}

type builder struct {
	tree   *Tree
	cursor int
	leaves int
}

func (b *builder) walk(ctx context.Context, src source, parent int) (int, error) {
	leaf, err := src.leaf(ctx)
	if err != nil {
		return none, err
	}

	id := len(b.tree.nodes)
	if leaf {
		b.leaves++
		tok := none
		if b.cursor < len(b.tree.sentence) {
			tok = b.cursor
			b.cursor++
		}
		b.tree.nodes = append(b.tree.nodes, node{token: tok, parent: parent})
		return id, nil
	}

	label, err := src.label(ctx)
	if err != nil {
		return none, err
	}
	b.tree.nodes = append(b.tree.nodes, node{label: label, token: none, parent: parent})

	kids, err := src.children(ctx)
	if err != nil {
		return none, err
	}
	for _, k := range kids {
		cid, err := b.walk(ctx, k, id)
		if err != nil {
			return none, err
		}
		b.tree.nodes[id].children = append(b.tree.nodes[id].children, cid)
	}
	return id, nil
}

// Root returns the root node.
func (t *Tree) Root() Node { return Node{tree: t, id: 0} }

// Sentence returns the tokens the tree was built over.
func (t *Tree) Sentence() Sentence { return t.sentence }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// At returns the node at c.
func (t *Tree) At(c Coordinate) (Node, bool) { return t.Root().at(c) }

// Find returns the coordinates of every node labeled label, in pre-order.
func (t *Tree) Find(label string) []Coordinate {
	var out []Coordinate
	for n := range t.Root().Walk() {
		if !n.IsLeaf() && n.Label() == label {
			out = append(out, n.Coordinate())
		}
	}
	return out
}

// String renders the tree in indented bracket notation with normalized words
// at the leaves.
func (t *Tree) String() string { return penn.Format(t.Root().Penn()) }

// Inspect returns the root label and the token count.
func (t *Tree) Inspect() string {
	return fmt.Sprintf("<Tree (%s), %d tokens>", t.Root().Label(), len(t.sentence))
}

func (n Node) entry() *node { return &n.tree.nodes[n.id] }

// Tree returns the tree the node belongs to.
func (n Node) Tree() *Tree { return n.tree }

// IsLeaf reports whether the node is a terminal.
func (n Node) IsLeaf() bool { return n.entry().token != none }

// Token returns the terminal's token.
func (n Node) Token() (Token, bool) {
	e := n.entry()
	if e.token == none {
		return Token{}, false
	}
	return n.tree.sentence[e.token], true
}

// Label returns the non-terminal label, or the normalized word of a terminal.
func (n Node) Label() string {
	if tok, ok := n.Token(); ok {
		return tok.Word
	}
	return n.entry().label
}

// Children returns the child nodes in order.
func (n Node) Children() []Node {
	kids := n.entry().children
	out := make([]Node, len(kids))
	for i, id := range kids {
		out[i] = Node{tree: n.tree, id: id}
	}
	return out
}

// Parent returns the parent node; the root has none.
func (n Node) Parent() (Node, bool) {
	p := n.entry().parent
	if p == none {
		return Node{}, false
	}
	return Node{tree: n.tree, id: p}, true
}

// Coordinate returns the node's path from the root.
func (n Node) Coordinate() Coordinate {
	var rev []int
	for id := n.id; n.tree.nodes[id].parent != none; {
		p := n.tree.nodes[id].parent
		for i, c := range n.tree.nodes[p].children {
			if c == id {
				rev = append(rev, i)
				break
			}
		}
		id = p
	}
	c := make(Coordinate, len(rev))
	for i, v := range rev {
		c[len(rev)-1-i] = v
	}
	return c
}

// Walk visits the subtree in pre-order.
func (n Node) Walk() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		n.walk(yield)
	}
}

func (n Node) walk(yield func(Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, c := range n.Children() {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// Leaves returns the terminals of the subtree left to right.
func (n Node) Leaves() []Node {
	var out []Node
	for x := range n.Walk() {
		if x.IsLeaf() {
			out = append(out, x)
		}
	}
	return out
}

// OriginalString reproduces the text under the node verbatim, including the
// spacing after its last token.
func (n Node) OriginalString() string {
	var b strings.Builder
	for _, l := range n.Leaves() {
		tok, _ := l.Token()
		b.WriteString(tok.Current)
		b.WriteString(tok.After)
	}
	return b.String()
}

// Penn copies the subtree into a bracket tree.
func (n Node) Penn() *penn.Node {
	if n.IsLeaf() {
		return &penn.Node{Label: n.Label()}
	}
	p := &penn.Node{Label: n.Label()}
	for _, c := range n.Children() {
		p.Children = append(p.Children, c.Penn())
	}
	return p
}

func (n Node) String() string { return penn.FormatCompact(n.Penn()) }
