package standoff

import (
	"strings"

	"github.com/wippyai/parse-bridge/errors"
)

// item is a leaf or an inserted marker in the bracketing list.
type item struct {
	leaf  Node
	coord Coordinate
	mark  string
	close bool
}

func (it item) isMark() bool { return it.leaf.tree == nil }

type spanState int

const (
	beforeSpan spanState = iota
	insideSpan
	afterSpan
)

// Bracketed reproduces the text under the node with open and close markers
// around the yield of each target. Targets are coordinates relative to n and
// must be disjoint or properly nested. The spacing after a token stays with
// it: it goes after any close markers that directly follow the token, unless
// only close markers remain, in which case it goes right after the token.
func (n Node) Bracketed(targets []Coordinate, open, close string) (string, error) {
	var items []item
	for x := range n.Walk() {
		if x.IsLeaf() {
			items = append(items, item{leaf: x, coord: x.relativeTo(n)})
		}
	}

	for _, target := range targets {
		sub, ok := n.at(target)
		if !ok {
			return "", errors.New(errors.PhaseBracket, errors.KindInvalidInput).
				Path(target.String()).
				Detail("no node at coordinate").
				Build()
		}
		if len(sub.Leaves()) == 0 {
			return "", errors.New(errors.PhaseBracket, errors.KindInvalidInput).
				Path(target.String()).
				Detail("node has an empty yield").
				Build()
		}
		items = insertSpan(items, target, open, close)
	}

	var b strings.Builder
	for i := 0; i < len(items); i++ {
		it := items[i]
		if it.isMark() {
			b.WriteString(it.mark)
			continue
		}
		tok, _ := it.leaf.Token()
		b.WriteString(tok.Current)

		j := i + 1
		for j < len(items) && items[j].isMark() && items[j].close {
			j++
		}
		if j == len(items) {
			b.WriteString(tok.After)
			for _, c := range items[i+1 : j] {
				b.WriteString(c.mark)
			}
		} else {
			for _, c := range items[i+1 : j] {
				b.WriteString(c.mark)
			}
			b.WriteString(tok.After)
		}
		i = j - 1
	}
	return b.String(), nil
}

// insertSpan places one open marker before the first leaf in the target's
// yield and one close marker before the first leaf after it, or at the end.
func insertSpan(items []item, target Coordinate, open, close string) []item {
	state := beforeSpan
	for i := 0; i < len(items) && state != afterSpan; i++ {
		if items[i].isMark() {
			continue
		}
		in := target.IsPrefixOf(items[i].coord)
		switch {
		case state == beforeSpan && in:
			items = insertAt(items, i, item{mark: open})
			i++
			state = insideSpan
		case state == insideSpan && !in:
			items = insertAt(items, i, item{mark: close, close: true})
			state = afterSpan
		}
	}
	if state == insideSpan {
		items = append(items, item{mark: close, close: true})
	}
	return items
}

func insertAt(items []item, i int, it item) []item {
	items = append(items, item{})
	copy(items[i+1:], items[i:])
	items[i] = it
	return items
}

// at resolves a coordinate relative to n.
func (n Node) at(c Coordinate) (Node, bool) {
	cur := n
	for _, i := range c {
		kids := cur.entry().children
		if i < 0 || i >= len(kids) {
			return Node{}, false
		}
		cur = Node{tree: n.tree, id: kids[i]}
	}
	return cur, true
}

func (n Node) relativeTo(ancestor Node) Coordinate {
	full, base := n.Coordinate(), ancestor.Coordinate()
	return full[len(base):]
}
