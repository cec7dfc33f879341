package nlp_test

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wippyai/parse-bridge/bridge"
	"github.com/wippyai/parse-bridge/errors"
	"github.com/wippyai/parse-bridge/nlp"
	"github.com/wippyai/parse-bridge/nlphost"
)

var treebankDir, _ = filepath.Abs("../nlphost/testdata")

func newBridge(t *testing.T) *bridge.Bridge {
	t.Helper()
	rt, err := nlphost.NewRuntime()
	require.NoError(t, err)
	return bridge.New(rt, bridge.WithRegistry(nlp.NewRegistry()))
}

func newParser(t *testing.T, b *bridge.Bridge) *nlp.LexicalizedParser {
	t.Helper()
	p, err := nlp.NewLexicalizedParser(context.Background(), b, "$(ROOT)/treebank.mrg", treebankDir)
	require.NoError(t, err)
	return p
}

func TestLexicalizedParser(t *testing.T) {
	b := newBridge(t)
	p := newParser(t, b)

	require.Equal(t, filepath.Join(treebankDir, "treebank.mrg"), p.Grammar())
	require.Equal(t, "LexicalizedParser(treebank.mrg)", p.String())
	require.Equal(t, p.String(), p.Inspect())

	tree, err := p.Apply(context.Background(), "This is a sentence.")
	require.NoError(t, err)
	require.IsType(t, &nlp.Tree{}, tree)
}

func TestLexicalizedParser_MissingGrammar(t *testing.T) {
	b := newBridge(t)
	_, err := nlp.NewLexicalizedParser(context.Background(), b, "$(ROOT)/nope.ser.gz", t.TempDir())
	require.Error(t, err)
	require.Equal(t, errors.KindConstruction, errors.KindOf(err))
}

func TestLexicalizedParser_Options(t *testing.T) {
	b := newBridge(t)
	p, err := nlp.NewLexicalizedParser(context.Background(), b, "$(ROOT)/treebank.mrg", treebankDir,
		"-maxLength", "80", "-retainTmpSubcategories")
	require.NoError(t, err)

	flags, err := p.Invoke(context.Background(), "optionFlags")
	require.NoError(t, err)
	require.Equal(t, []any{"-maxLength", "80", "-retainTmpSubcategories"}, flags)
}

func TestExpandRoot(t *testing.T) {
	require.Equal(t, "/opt/parser/englishPCFG.ser.gz", nlp.ExpandRoot("$(ROOT)/englishPCFG.ser.gz", "/opt/parser"))
	require.Equal(t, "plain.gz", nlp.ExpandRoot("plain.gz", "/opt"))
}

func TestTree_LocalTrees(t *testing.T) {
	ctx := context.Background()
	tree, err := newParser(t, newBridge(t)).Apply(ctx, "This is a sentence.")
	require.NoError(t, err)

	local, err := tree.LocalTrees(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, local.Len())

	labels := bridge.NewSet()
	for _, it := range local.Items() {
		l, err := it.(*nlp.Tree).Label(ctx)
		require.NoError(t, err)
		labels.Add(l)
	}
	require.True(t, labels.Equal(bridge.NewSet("S", "NP", "VP", "ROOT", "NP")))
}

func TestTree_Walk(t *testing.T) {
	ctx := context.Background()
	tree, err := newParser(t, newBridge(t)).Apply(ctx, "This is a sentence.")
	require.NoError(t, err)

	var labels []string
	for n, err := range tree.Walk(ctx) {
		require.NoError(t, err)
		l, err := n.Label(ctx)
		require.NoError(t, err)
		labels = append(labels, l)
	}
	require.Equal(t, "ROOT S NP DT This VP VBZ is NP DT a NN sentence . .", strings.Join(labels, " "))
}

func TestTree_Accessors(t *testing.T) {
	ctx := context.Background()
	tree, err := newParser(t, newBridge(t)).Apply(ctx, "This is a sentence.")
	require.NoError(t, err)

	leaf, err := tree.IsLeaf(ctx)
	require.NoError(t, err)
	require.False(t, leaf)

	score, err := tree.Score(ctx)
	require.NoError(t, err)
	require.True(t, math.IsNaN(score))
	require.Equal(t, "(ROOT)", tree.Inspect())

	kids, err := tree.Children(ctx)
	require.NoError(t, err)
	require.Len(t, kids, 1)

	leaves, err := tree.Leaves(ctx)
	require.NoError(t, err)
	require.Len(t, leaves, 5)
	require.Equal(t, nlp.TypeTreeLeaf, leaves[0].TypeName())

	want := strings.Join([]string{
		"(ROOT",
		"  (S",
		"    (NP (DT This))",
		"    (VP (VBZ is)",
		"      (NP (DT a) (NN sentence)))",
		"    (. .)))",
	}, "\n")
	require.Equal(t, want, tree.String())

	foreign, err := bridge.Call[string](ctx, tree.Object, "pennString")
	require.NoError(t, err)
	require.Equal(t, want, foreign)
}

func TestFeatureLabel(t *testing.T) {
	ctx := context.Background()
	b := newBridge(t)

	obj, err := b.New(ctx, nlp.TypeFeatureLabel)
	require.NoError(t, err)
	label := &nlp.FeatureLabel{Object: obj}

	begin, err := b.New(ctx, nlp.TypeInteger, 3)
	require.NoError(t, err)
	_, err = label.Invoke(ctx, "put", "BEGIN_POS", begin)
	require.NoError(t, err)
	_, err = label.Invoke(ctx, "put", "END_POS", 7)
	require.NoError(t, err)
	_, err = label.Invoke(ctx, "put", "current", "word")
	require.NoError(t, err)

	b0, e0, err := label.Position(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, b0)
	require.Equal(t, 7, e0)

	require.Equal(t, "word [3,7]", label.String())
	require.Equal(t, "{BEGIN_POS=3, END_POS=7, current=word}", label.Inspect())

	key, err := label.Invoke(ctx, "BEGIN_POSITION_KEY")
	require.NoError(t, err)
	require.Equal(t, "BEGIN_POS", key)
	key, err = label.Invoke(ctx, "CURRENT_KEY")
	require.NoError(t, err)
	require.Equal(t, "current", key)
}

func TestIntValue(t *testing.T) {
	ctx := context.Background()
	b := newBridge(t)

	n, err := nlp.IntValue(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	boxed, err := b.New(ctx, nlp.TypeInteger, 9)
	require.NoError(t, err)
	n, err = nlp.IntValue(ctx, boxed)
	require.NoError(t, err)
	require.Equal(t, 9, n)

	_, err = nlp.IntValue(ctx, "nine")
	require.Equal(t, errors.KindTypeMismatch, errors.KindOf(err))
}

func TestWord(t *testing.T) {
	ctx := context.Background()
	b := newBridge(t)

	mk := func(s string) *nlp.Word {
		obj, err := b.New(ctx, nlp.TypeWord, s)
		require.NoError(t, err)
		return &nlp.Word{Object: obj}
	}

	a, a2, c := mk("dog"), mk("dog"), mk("cat")
	require.False(t, a.Same(a2.Object))
	require.True(t, a.Equal(a2))
	require.False(t, a.Equal(c))
	require.False(t, a.Equal(nil))
	require.Equal(t, "dog", a.String())
	require.Equal(t, "dog", a.Inspect())
}

func TestDocumentPreprocessor(t *testing.T) {
	ctx := context.Background()
	b := newBridge(t)

	dp, err := nlp.NewDocumentPreprocessor(ctx, b, false)
	require.NoError(t, err)
	require.Equal(t, "<DocumentPreprocessor>", dp.String())
	require.Equal(t, "<DocumentPreprocessor>", dp.Inspect())

	sents, err := dp.Sentences(ctx, "This is a sentence.  So is this.")
	require.NoError(t, err)
	require.Len(t, sents, 2)
	require.Equal(t, "This is a sentence .", sents[0].String())
	require.Equal(t, "So is this .", sents[1].String())
	require.IsType(t, &nlp.Word{}, sents[0][0])
}

func TestParserProvider(t *testing.T) {
	ctx := context.Background()
	b := newBridge(t)

	opens := 0
	provider := nlp.NewParserProvider(func(ctx context.Context) (*nlp.LexicalizedParser, error) {
		opens++
		return nlp.NewLexicalizedParser(ctx, b, "$(ROOT)/treebank.mrg", treebankDir)
	})

	p1, err := provider.Parser(ctx)
	require.NoError(t, err)
	p2, err := provider.Parser(ctx)
	require.NoError(t, err)
	require.Same(t, p1, p2)

	tree, err := provider.Apply(ctx, "The cat sat on the mat.")
	require.NoError(t, err)
	label, err := tree.Label(ctx)
	require.NoError(t, err)
	require.Equal(t, "ROOT", label)
	require.Equal(t, 1, opens)

	failing := nlp.NewParserProvider(func(ctx context.Context) (*nlp.LexicalizedParser, error) {
		return nlp.NewLexicalizedParser(ctx, b, "/missing", "")
	})
	_, err = failing.Apply(ctx, "x")
	require.Error(t, err)
	_, err = failing.Parser(ctx)
	require.Error(t, err)
}
