package standoff

import (
	"github.com/wippyai/parse-bridge/errors"
)

// Merge returns a new tree in which two adjacent siblings are grouped under a
// new node labeled label. The receiver is left as it was.
func (t *Tree) Merge(label string, targets ...Coordinate) (*Tree, error) {
	if len(targets) != 2 {
		return nil, errors.InvalidTargetCount(2, len(targets))
	}

	nodes := make([]Node, 2)
	for i, c := range targets {
		n, ok := t.At(c)
		if !ok {
			return nil, errors.New(errors.PhaseBracket, errors.KindInvalidInput).
				Path(c.String()).
				Detail("no node at coordinate").
				Build()
		}
		nodes[i] = n
	}

	a, b := targets[0], targets[1]
	if len(a) == 0 || len(b) == 0 {
		return nil, errors.InvalidInput(errors.PhaseBracket, "cannot merge the root")
	}
	if len(a) != len(b) || !a[:len(a)-1].IsPrefixOf(b) {
		return nil, errors.InvalidInput(errors.PhaseBracket, "merge targets "+a.String()+" and "+b.String()+" are not siblings")
	}
	first, second := a[len(a)-1], b[len(b)-1]
	if first > second {
		first, second = second, first
	}
	if second-first != 1 {
		return nil, errors.InvalidInput(errors.PhaseBracket, "merge targets "+a.String()+" and "+b.String()+" are not adjacent")
	}

	parent, _ := nodes[0].Parent()
	out := &Tree{sentence: t.sentence}
	out.copyFrom(t.Root(), none, mergeAt{parent: parent.id, first: first, label: label})
	return out, nil
}

type mergeAt struct {
	parent int
	first  int
	label  string
}

// copyFrom appends a copy of src and its subtree, grouping the two children
// of m.parent starting at m.first under a new node.
func (t *Tree) copyFrom(src Node, parent int, m mergeAt) int {
	e := src.entry()
	id := len(t.nodes)
	t.nodes = append(t.nodes, node{label: e.label, token: e.token, parent: parent})

	kids := src.Children()
	for i := 0; i < len(kids); i++ {
		if src.id == m.parent && i == m.first {
			gid := len(t.nodes)
			t.nodes = append(t.nodes, node{label: m.label, token: none, parent: id})
			for _, k := range kids[i : i+2] {
				cid := t.copyFrom(k, gid, m)
				t.nodes[gid].children = append(t.nodes[gid].children, cid)
			}
			t.nodes[id].children = append(t.nodes[id].children, gid)
			i++
			continue
		}
		cid := t.copyFrom(kids[i], id, m)
		t.nodes[id].children = append(t.nodes[id].children, cid)
	}
	return id
}
