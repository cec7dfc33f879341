package standoff

import (
	"context"
	"fmt"

	"github.com/wippyai/parse-bridge/bridge"
	"github.com/wippyai/parse-bridge/errors"
	"github.com/wippyai/parse-bridge/nlp"
)

// Preprocessor splits text into sentences of offset-carrying tokens.
type Preprocessor struct {
	dp        *nlp.DocumentPreprocessor
	tokenizer string
}

// NewPreprocessor creates a preprocessor over the named tokenizer class,
// nlp.TypePTBTokenizer when empty. The tokenizer runs in invertible mode so
// every token keeps its raw text, whitespace and offsets.
func NewPreprocessor(ctx context.Context, b *bridge.Bridge, tokenizer string) (*Preprocessor, error) {
	if tokenizer == "" {
		tokenizer = nlp.TypePTBTokenizer
	}

	// factory(tokenizeNLs, invertible, suppressEscaping)
	v, err := b.InvokeStatic(ctx, tokenizer, "factory", false, true, false)
	if err != nil {
		return nil, errors.Construction("tokenizer "+tokenizer, err)
	}
	factory, ok := v.(*bridge.Object)
	if !ok {
		return nil, errors.Construction("tokenizer "+tokenizer,
			fmt.Errorf("factory returned %T", v))
	}

	dp, err := nlp.NewDocumentPreprocessorWith(ctx, b, factory)
	if err != nil {
		return nil, err
	}
	return &Preprocessor{dp: dp, tokenizer: tokenizer}, nil
}

// Tokenizer returns the tokenizer class name.
func (p *Preprocessor) Tokenizer() string { return p.tokenizer }

// Sentences tokenizes text. Sentence boundaries are the tokenizer's.
func (p *Preprocessor) Sentences(ctx context.Context, text string) ([]Sentence, error) {
	lists, err := p.dp.Sentences(ctx, text)
	if err != nil {
		return nil, err
	}
	out := make([]Sentence, 0, len(lists))
	for _, l := range lists {
		s, err := NewSentence(ctx, l)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *Preprocessor) String() string {
	return "<Preprocessor " + p.tokenizer + ">"
}
