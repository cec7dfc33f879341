package nlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/wippyai/parse-bridge/bridge"
	"github.com/wippyai/parse-bridge/errors"
)

// DocumentPreprocessor wraps the foreign sentence splitter.
type DocumentPreprocessor struct {
	*bridge.Object
}

// NewDocumentPreprocessor creates a preprocessor with the default tokenizer.
func NewDocumentPreprocessor(ctx context.Context, b *bridge.Bridge, suppressEscaping bool) (*DocumentPreprocessor, error) {
	obj, err := b.New(ctx, TypeDocumentPreprocessor, suppressEscaping)
	if err != nil {
		return nil, err
	}
	return &DocumentPreprocessor{Object: obj}, nil
}

// NewDocumentPreprocessorWith creates a preprocessor around a tokenizer
// factory object.
func NewDocumentPreprocessorWith(ctx context.Context, b *bridge.Bridge, factory *bridge.Object) (*DocumentPreprocessor, error) {
	obj, err := b.New(ctx, TypeDocumentPreprocessor, factory)
	if err != nil {
		return nil, err
	}
	return &DocumentPreprocessor{Object: obj}, nil
}

// Sentences splits text into sentences of converted tokens.
func (d *DocumentPreprocessor) Sentences(ctx context.Context, text string) ([]TokenList, error) {
	reader, err := d.Bridge().New(ctx, TypeStringReader, text)
	if err != nil {
		return nil, err
	}
	v, err := d.Invoke(ctx, "getSentencesFromText", reader)
	if err != nil {
		return nil, err
	}

	raw, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
			Type(d.TypeName()).
			Member("getSentencesFromText").
			Detail("returned %T", v).
			Build()
	}

	out := make([]TokenList, len(raw))
	for i, s := range raw {
		toks, ok := s.([]any)
		if !ok {
			return nil, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
				Type(d.TypeName()).
				Member("getSentencesFromText").
				Path(fmt.Sprint(i)).
				Detail("sentence is %T", s).
				Build()
		}
		out[i] = TokenList(toks)
	}
	return out, nil
}

func (d *DocumentPreprocessor) String() string { return "<DocumentPreprocessor>" }

// Inspect returns the debug form.
func (d *DocumentPreprocessor) Inspect() string { return d.String() }

// TokenList is one sentence of converted tokens.
type TokenList []any

// String joins the tokens with single spaces.
func (l TokenList) String() string {
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = fmt.Sprint(t)
	}
	return strings.Join(parts, " ")
}
