package standoff

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/wippyai/parse-bridge/nlp"
)

// Parser parses one sentence of text. *nlp.LexicalizedParser and
// *nlp.ParserProvider both satisfy it.
type Parser interface {
	Apply(ctx context.Context, sentence string) (*nlp.Tree, error)
}

// ParsedText holds one standoff tree per sentence of a text.
type ParsedText []*Tree

// Parse splits text into sentences and parses each one. The parser sees the
// reconstructed sentence text.
func Parse(ctx context.Context, text string, pre *Preprocessor, parser Parser) (ParsedText, error) {
	sents, err := pre.Sentences(ctx, text)
	if err != nil {
		return nil, err
	}
	out := make(ParsedText, 0, len(sents))
	for _, s := range sents {
		t, err := parseSentence(ctx, s, parser)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func parseSentence(ctx context.Context, s Sentence, parser Parser) (*Tree, error) {
	ft, err := parser.Apply(ctx, s.String())
	if err != nil {
		return nil, err
	}
	return Build(ctx, ft, s)
}

// Inspect returns the sentence count.
func (p ParsedText) Inspect() string {
	return fmt.Sprintf("<ParsedText, %d sentences>", len(p))
}

// String joins the sentence trees with spaces.
func (p ParsedText) String() string {
	parts := make([]string, len(p))
	for i, t := range p {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// FirstSentenceWith parses text one sentence at a time and returns the first
// sentence whose parse has leaves for both words. Parsing stops at the match.
func FirstSentenceWith(ctx context.Context, text string, pre *Preprocessor, parser Parser, word1, word2 string) (*Tree, bool, error) {
	sents, err := pre.Sentences(ctx, text)
	if err != nil {
		return nil, false, err
	}
	for _, s := range sents {
		t, err := parseSentence(ctx, s, parser)
		if err != nil {
			return nil, false, err
		}
		var words []string
		for _, l := range t.Root().Leaves() {
			tok, _ := l.Token()
			words = append(words, tok.Current, tok.Word)
		}
		if slices.Contains(words, word1) && slices.Contains(words, word2) {
			return t, true, nil
		}
	}
	return nil, false, nil
}
