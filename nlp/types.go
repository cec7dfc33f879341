package nlp

import (
	"context"

	parsebridge "github.com/wippyai/parse-bridge"
	"github.com/wippyai/parse-bridge/bridge"
	"github.com/wippyai/parse-bridge/errors"
)

// Foreign class names.
const (
	TypeTree                 = "nlp.trees.Tree"
	TypeTreeNode             = "nlp.trees.LabeledScoredTreeNode"
	TypeTreeLeaf             = "nlp.trees.LabeledScoredTreeLeaf"
	TypeFeatureLabel         = "nlp.ling.FeatureLabel"
	TypeWord                 = "nlp.ling.Word"
	TypeLexicalizedParser    = "nlp.parser.LexicalizedParser"
	TypeDocumentPreprocessor = "nlp.process.DocumentPreprocessor"
	TypePTBTokenizer         = "nlp.process.PTBTokenizer"
	TypeTokenizerFactory     = "nlp.process.TokenizerFactory"
	TypeInteger              = "lang.Integer"
	TypeStringReader         = "io.StringReader"
)

// NewRegistry returns a bridge registry with the collection converters and
// the NLP wrappers installed.
func NewRegistry() *bridge.Registry {
	reg := bridge.NewRegistry()
	Register(reg)
	return reg
}

// Register installs converters for trees, labels and words.
func Register(reg *bridge.Registry) {
	reg.Register(TypeTree, TreeConverter)
	reg.Register(TypeTreeNode, TreeConverter)
	reg.Register(TypeTreeLeaf, TreeConverter)
	reg.Register(TypeFeatureLabel, func(_ context.Context, b *bridge.Bridge, ref parsebridge.Ref) (any, error) {
		return &FeatureLabel{Object: b.Wrap(ref)}, nil
	})
	reg.Register(TypeWord, func(_ context.Context, b *bridge.Bridge, ref parsebridge.Ref) (any, error) {
		return &Word{Object: b.Wrap(ref)}, nil
	})
}

// IntValue coerces a foreign integer to int. Plain numbers pass through and
// boxed integers are unboxed through intValue.
func IntValue(ctx context.Context, v any) (int, error) {
	if n, ok := bridge.AsInt(v); ok {
		return n, nil
	}
	if obj, ok := v.(*bridge.Object); ok {
		raw, err := obj.Invoke(ctx, "intValue")
		if err != nil {
			return 0, err
		}
		if n, ok := bridge.AsInt(raw); ok {
			return n, nil
		}
		v = raw
	}
	return 0, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
		Type(TypeInteger).
		Detail("cannot use %T as an integer", v).
		Build()
}
