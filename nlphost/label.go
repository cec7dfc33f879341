package nlphost

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Label keys.
const (
	BeginPositionKey = "BEGIN_POS"
	EndPositionKey   = "END_POS"
	CurrentKey       = "current"
	WordKey          = "word"
	BeforeKey        = "before"
	AfterKey         = "after"
)

// Integer is a boxed integer.
type Integer struct {
	v int
}

// NewInteger boxes v.
func NewInteger(v int) *Integer { return &Integer{v: v} }

func (i *Integer) IntValue() int { return i.v }
func (i *Integer) String() string { return strconv.Itoa(i.v) }

// StringReader is a character source over a string.
type StringReader struct {
	s string
}

// NewStringReader creates a reader over s.
func NewStringReader(s string) *StringReader { return &StringReader{s: s} }

func (r *StringReader) String() string { return r.s }

// FeatureLabel is a key-value token annotation.
type FeatureLabel struct {
	fields map[string]any
}

// NewFeatureLabel creates an empty label.
func NewFeatureLabel() *FeatureLabel {
	return &FeatureLabel{fields: make(map[string]any)}
}

// LabelFromToken creates a label carrying every field of tok. Offsets are
// stored boxed.
func LabelFromToken(tok Token) *FeatureLabel {
	l := NewFeatureLabel()
	l.fields[CurrentKey] = tok.Current
	l.fields[WordKey] = tok.Word
	l.fields[BeforeKey] = tok.Before
	l.fields[AfterKey] = tok.After
	l.fields[BeginPositionKey] = NewInteger(tok.Begin)
	l.fields[EndPositionKey] = NewInteger(tok.End)
	return l
}

func (l *FeatureLabel) Get(key string) any {
	return l.fields[key]
}

// Put stores v under key and returns the previous value.
func (l *FeatureLabel) Put(key string, v any) any {
	old := l.fields[key]
	l.fields[key] = v
	return old
}

func (l *FeatureLabel) Current() string { return l.str(CurrentKey) }
func (l *FeatureLabel) Word() string { return l.str(WordKey) }
func (l *FeatureLabel) Before() string { return l.str(BeforeKey) }
func (l *FeatureLabel) After() string { return l.str(AfterKey) }

func (l *FeatureLabel) str(key string) string {
	if s, ok := l.fields[key].(string); ok {
		return s
	}
	return ""
}

// String lists every field in key order, {BEGIN_POS=3, END_POS=7, current=word}.
func (l *FeatureLabel) String() string {
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, l.fields[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Word is a plain token.
type Word struct {
	word string
}

// NewWord creates a word.
func NewWord(w string) *Word { return &Word{word: w} }

func (w *Word) Word() string { return w.word }
func (w *Word) String() string { return w.word }
