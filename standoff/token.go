package standoff

import (
	"context"
	"fmt"
	"strings"

	"github.com/wippyai/parse-bridge/bridge"
	"github.com/wippyai/parse-bridge/errors"
	"github.com/wippyai/parse-bridge/nlp"
)

// Token is one token of the source text with its normalized form, the
// whitespace around it and its character offsets. Begin is inclusive and End
// exclusive.
type Token struct {
	Current string
	Word    string
	Before  string
	After   string
	Begin   int
	End     int
}

// String returns the token with its offsets, "John [4,8]".
func (t Token) String() string {
	return fmt.Sprintf("%s [%d,%d]", t.Current, t.Begin, t.End)
}

// TokenFromLabel reads a foreign token label into a Token.
func TokenFromLabel(ctx context.Context, l *nlp.FeatureLabel) (Token, error) {
	var (
		t   Token
		err error
	)
	if t.Current, err = l.Current(ctx); err != nil {
		return Token{}, err
	}
	if t.Word, err = l.Word(ctx); err != nil {
		return Token{}, err
	}
	if t.Before, err = l.Before(ctx); err != nil {
		return Token{}, err
	}
	if t.After, err = l.After(ctx); err != nil {
		return Token{}, err
	}
	if t.Begin, t.End, err = l.Position(ctx); err != nil {
		return Token{}, err
	}
	if t.Begin >= t.End {
		return Token{}, errors.New(errors.PhaseAnnotate, errors.KindInvalidData).
			Type(l.TypeName()).
			Value(t.Current).
			Detail("empty span [%d,%d]", t.Begin, t.End).
			Build()
	}
	return t, nil
}

// Sentence is a run of tokens in reading order.
type Sentence []Token

// NewSentence converts one sentence of foreign labels.
func NewSentence(ctx context.Context, labels nlp.TokenList) (Sentence, error) {
	s := make(Sentence, 0, len(labels))
	for i, v := range labels {
		var l *nlp.FeatureLabel
		switch x := v.(type) {
		case *nlp.FeatureLabel:
			l = x
		case *bridge.Object:
			l = &nlp.FeatureLabel{Object: x}
		default:
			return nil, errors.New(errors.PhaseAnnotate, errors.KindTypeMismatch).
				Path(fmt.Sprint(i)).
				Detail("token is %T, not a label", v).
				Build()
		}
		t, err := TokenFromLabel(ctx, l)
		if err != nil {
			return nil, err
		}
		s = append(s, t)
	}
	return s, nil
}

// String reproduces the source text the sentence covers, without the spacing
// after its last token.
func (s Sentence) String() string {
	if len(s) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range s[:len(s)-1] {
		b.WriteString(t.Current)
		b.WriteString(t.After)
	}
	b.WriteString(s[len(s)-1].Current)
	return b.String()
}

// Inspect lists every token with its offsets.
func (s Sentence) Inspect() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return "<Sentence " + strings.Join(parts, " ") + ">"
}

// Words returns the normalized form of every token.
func (s Sentence) Words() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.Word
	}
	return out
}
