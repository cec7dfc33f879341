package nlphost

import (
	"fmt"

	"github.com/wippyai/parse-bridge/host"
)

// PTBTokenizer tokenizes the text of one reader.
type PTBTokenizer struct {
	reader     *StringReader
	tokenizer  Tokenizer
	invertible bool
}

// NewPTBTokenizer creates a non-invertible tokenizer over r.
func NewPTBTokenizer(r *StringReader) *PTBTokenizer {
	return &PTBTokenizer{reader: r}
}

// Tokenize returns every token as a label when invertible, or a word.
func (p *PTBTokenizer) Tokenize() *host.ArrayList {
	return tokenList(p.tokenizer.Tokenize(p.reader.s), p.invertible)
}

func tokenList(toks []Token, invertible bool) *host.ArrayList {
	list := host.NewArrayList()
	for _, tok := range toks {
		if invertible {
			list.Add(LabelFromToken(tok))
		} else {
			list.Add(NewWord(tok.Word))
		}
	}
	return list
}

// TokenizerFactory creates tokenizers with fixed options.
type TokenizerFactory struct {
	tokenizeNLs      bool
	invertible       bool
	suppressEscaping bool
}

// Factory is the static PTBTokenizer.factory member. Invertible tokenizers
// produce labels with offsets and surrounding whitespace.
func Factory(tokenizeNLs, invertible, suppressEscaping bool) *TokenizerFactory {
	return &TokenizerFactory{
		tokenizeNLs:      tokenizeNLs,
		invertible:       invertible,
		suppressEscaping: suppressEscaping,
	}
}

func (f *TokenizerFactory) GetTokenizer(r *StringReader) *PTBTokenizer {
	return &PTBTokenizer{
		reader:     r,
		tokenizer:  Tokenizer{SuppressEscaping: f.suppressEscaping},
		invertible: f.invertible,
	}
}

func (f *TokenizerFactory) String() string {
	return fmt.Sprintf("TokenizerFactory(invertible=%t)", f.invertible)
}

// DocumentPreprocessor splits text into sentences of tokens.
type DocumentPreprocessor struct {
	factory *TokenizerFactory
}

// NewDocumentPreprocessor accepts no argument, a suppressEscaping flag, or a
// tokenizer factory.
func NewDocumentPreprocessor(args ...any) (*DocumentPreprocessor, error) {
	switch len(args) {
	case 0:
		return &DocumentPreprocessor{factory: Factory(false, false, false)}, nil
	case 1:
		switch a := args[0].(type) {
		case bool:
			return &DocumentPreprocessor{factory: Factory(false, false, a)}, nil
		case *TokenizerFactory:
			return &DocumentPreprocessor{factory: a}, nil
		}
		return nil, fmt.Errorf("unsupported argument %T", args[0])
	}
	return nil, fmt.Errorf("expected at most 1 argument, got %d", len(args))
}

// GetSentencesFromText returns a list of sentences, each a list of tokens.
func (d *DocumentPreprocessor) GetSentencesFromText(r *StringReader) *host.ArrayList {
	tok := Tokenizer{SuppressEscaping: d.factory.suppressEscaping}
	out := host.NewArrayList()
	for _, s := range Sentences(tok.Tokenize(r.s)) {
		out.Add(tokenList(s, d.factory.invertible))
	}
	return out
}
