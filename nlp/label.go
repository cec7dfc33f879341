package nlp

import (
	"context"
	"fmt"

	"github.com/wippyai/parse-bridge/bridge"
)

// FeatureLabel wraps a token label carrying its text, its normalized form,
// the whitespace around it and its character offsets.
type FeatureLabel struct {
	*bridge.Object
}

// Current returns the token as it appears in the text.
func (l *FeatureLabel) Current(ctx context.Context) (string, error) {
	return bridge.Call[string](ctx, l.Object, "current")
}

// Word returns the normalized token.
func (l *FeatureLabel) Word(ctx context.Context) (string, error) {
	return bridge.Call[string](ctx, l.Object, "word")
}

// Before returns the whitespace preceding the token.
func (l *FeatureLabel) Before(ctx context.Context) (string, error) {
	return bridge.Call[string](ctx, l.Object, "before")
}

// After returns the whitespace following the token.
func (l *FeatureLabel) After(ctx context.Context) (string, error) {
	return bridge.Call[string](ctx, l.Object, "after")
}

// Get returns the raw value stored under key.
func (l *FeatureLabel) Get(ctx context.Context, key string) (any, error) {
	return l.Invoke(ctx, "get", key)
}

// Position returns the begin and end character offsets. The keys are static
// members of the label class, reached through the instance.
func (l *FeatureLabel) Position(ctx context.Context) (begin, end int, err error) {
	if begin, err = l.offset(ctx, "BEGIN_POSITION_KEY"); err != nil {
		return 0, 0, err
	}
	if end, err = l.offset(ctx, "END_POSITION_KEY"); err != nil {
		return 0, 0, err
	}
	return begin, end, nil
}

func (l *FeatureLabel) offset(ctx context.Context, keyMember string) (int, error) {
	key, err := bridge.Call[string](ctx, l.Object, keyMember)
	if err != nil {
		return 0, err
	}
	v, err := l.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return IntValue(ctx, v)
}

// String returns the token with its offsets, "word [3,7]".
func (l *FeatureLabel) String() string {
	ctx := context.Background()
	cur, err := l.Current(ctx)
	if err != nil {
		return l.Object.Inspect()
	}
	b, e, err := l.Position(ctx)
	if err != nil {
		return l.Object.Inspect()
	}
	return fmt.Sprintf("%s [%d,%d]", cur, b, e)
}

// Inspect returns the foreign rendering with every field.
func (l *FeatureLabel) Inspect() string {
	return l.Object.String()
}

// Word wraps a plain token. Words compare by their text.
type Word struct {
	*bridge.Object
	value *string
}

// Value returns the token text.
func (w *Word) Value(ctx context.Context) (string, error) {
	if w.value != nil {
		return *w.value, nil
	}
	v, err := bridge.Call[string](ctx, w.Object, "word")
	if err != nil {
		return "", err
	}
	w.value = &v
	return v, nil
}

// Equal reports whether two words have the same text.
func (w *Word) Equal(other *Word) bool {
	if other == nil {
		return false
	}
	ctx := context.Background()
	a, err := w.Value(ctx)
	if err != nil {
		return false
	}
	b, err := other.Value(ctx)
	if err != nil {
		return false
	}
	return a == b
}

func (w *Word) String() string {
	v, err := w.Value(context.Background())
	if err != nil {
		return w.Object.Inspect()
	}
	return v
}

// Inspect returns the word text.
func (w *Word) Inspect() string {
	return w.String()
}
