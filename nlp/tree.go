package nlp

import (
	"context"
	"fmt"
	"iter"
	"math"

	parsebridge "github.com/wippyai/parse-bridge"
	"github.com/wippyai/parse-bridge/bridge"
	"github.com/wippyai/parse-bridge/errors"
	"github.com/wippyai/parse-bridge/penn"
)

// Tree wraps a foreign tree node. Label, score, leaf flag and children are
// loaded on first use and kept.
type Tree struct {
	*bridge.Object

	label    *string
	score    *float64
	leaf     *bool
	children []*Tree
	loaded   bool
}

// NewTree wraps obj as a tree.
func NewTree(obj *bridge.Object) *Tree {
	return &Tree{Object: obj}
}

// TreeConverter converts tree handles to *Tree.
func TreeConverter(_ context.Context, b *bridge.Bridge, ref parsebridge.Ref) (any, error) {
	return NewTree(b.Wrap(ref)), nil
}

// Label returns the node label, or the word for a leaf.
func (t *Tree) Label(ctx context.Context) (string, error) {
	if t.label != nil {
		return *t.label, nil
	}
	v, err := bridge.Call[string](ctx, t.Object, "value")
	if err != nil {
		return "", err
	}
	t.label = &v
	return v, nil
}

// Score returns the node score, NaN when the parser assigned none.
func (t *Tree) Score(ctx context.Context) (float64, error) {
	if t.score != nil {
		return *t.score, nil
	}
	v, err := t.Invoke(ctx, "score")
	if err != nil {
		return 0, err
	}
	s := math.NaN()
	switch x := v.(type) {
	case float64:
		s = x
	case float32:
		s = float64(x)
	case nil:
	default:
		return 0, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
			Type(t.TypeName()).
			Member("score").
			Detail("score returned %T", v).
			Build()
	}
	t.score = &s
	return s, nil
}

// IsLeaf reports whether the node is a leaf.
func (t *Tree) IsLeaf(ctx context.Context) (bool, error) {
	if t.leaf != nil {
		return *t.leaf, nil
	}
	v, err := bridge.Call[bool](ctx, t.Object, "isLeaf")
	if err != nil {
		return false, err
	}
	t.leaf = &v
	return v, nil
}

// Children returns the child trees in order.
func (t *Tree) Children(ctx context.Context) ([]*Tree, error) {
	if t.loaded {
		return t.children, nil
	}
	v, err := t.Invoke(ctx, "children")
	if err != nil {
		return nil, err
	}
	items, _ := v.([]any)
	kids := make([]*Tree, 0, len(items))
	for i, it := range items {
		c, ok := it.(*Tree)
		if !ok {
			return nil, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
				Type(t.TypeName()).
				Member("children").
				Path(fmt.Sprint(i)).
				Detail("child is %T", it).
				Build()
		}
		kids = append(kids, c)
	}
	t.children = kids
	t.loaded = true
	return kids, nil
}

// Walk visits the subtree in pre-order through the foreign iterator.
func (t *Tree) Walk(ctx context.Context) iter.Seq2[*Tree, error] {
	return func(yield func(*Tree, error) bool) {
		for v, err := range t.Iterate(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}
			n, ok := v.(*Tree)
			if !ok {
				yield(nil, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
					Type(t.TypeName()).
					Member("iterator").
					Detail("iterator yielded %T", v).
					Build())
				return
			}
			if !yield(n, nil) {
				return
			}
		}
	}
}

// Leaves returns the leaf nodes left to right.
func (t *Tree) Leaves(ctx context.Context) ([]*Tree, error) {
	var out []*Tree
	var walk func(*Tree) error
	walk = func(n *Tree) error {
		leaf, err := n.IsLeaf(ctx)
		if err != nil {
			return err
		}
		if leaf {
			out = append(out, n)
			return nil
		}
		kids, err := n.Children(ctx)
		if err != nil {
			return err
		}
		for _, c := range kids {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(t); err != nil {
		return nil, err
	}
	return out, nil
}

// LocalTrees returns the phrasal subtrees as a native set.
func (t *Tree) LocalTrees(ctx context.Context) (*bridge.Set, error) {
	v, err := t.Invoke(ctx, "localTrees")
	if err != nil {
		return nil, err
	}
	set, ok := v.(*bridge.Set)
	if !ok {
		return nil, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
			Type(t.TypeName()).
			Member("localTrees").
			Detail("localTrees returned %T", v).
			Build()
	}
	return set, nil
}

// Penn copies the subtree into a native bracket tree.
func (t *Tree) Penn(ctx context.Context) (*penn.Node, error) {
	label, err := t.Label(ctx)
	if err != nil {
		return nil, err
	}
	n := &penn.Node{Label: label}
	kids, err := t.Children(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range kids {
		cn, err := c.Penn(ctx)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, cn)
	}
	return n, nil
}

// String renders the subtree in indented bracket notation.
func (t *Tree) String() string {
	n, err := t.Penn(context.Background())
	if err != nil {
		return t.Object.Inspect()
	}
	return penn.Format(n)
}

// Inspect returns the label, with the score when there is one.
func (t *Tree) Inspect() string {
	ctx := context.Background()
	label, err := t.Label(ctx)
	if err != nil {
		return t.Object.Inspect()
	}
	score, err := t.Score(ctx)
	if err != nil || math.IsNaN(score) {
		return "(" + label + ")"
	}
	return fmt.Sprintf("(%s [%.2f])", label, score)
}
