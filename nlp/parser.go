package nlp

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wippyai/parse-bridge/bridge"
	"github.com/wippyai/parse-bridge/errors"
)

// RootVar is replaced by the parser root directory in grammar paths.
const RootVar = "$(ROOT)"

// ExpandRoot substitutes root for every $(ROOT) in path.
func ExpandRoot(path, root string) string {
	return strings.ReplaceAll(path, RootVar, root)
}

// LexicalizedParser wraps a foreign statistical parser loaded from a grammar
// file.
type LexicalizedParser struct {
	*bridge.Object
	grammar string
}

// NewLexicalizedParser loads the grammar at path, after $(ROOT) expansion,
// and applies the command-line style option flags.
func NewLexicalizedParser(ctx context.Context, b *bridge.Bridge, grammar, root string, options ...string) (*LexicalizedParser, error) {
	path := ExpandRoot(grammar, root)

	obj, err := b.New(ctx, TypeLexicalizedParser, path)
	if err != nil {
		return nil, err
	}

	flags := make([]any, len(options))
	for i, o := range options {
		flags[i] = o
	}
	if _, err := obj.Invoke(ctx, "setOptionFlags", flags); err != nil {
		return nil, errors.Construction("parser options", err)
	}

	return &LexicalizedParser{Object: obj, grammar: path}, nil
}

// Grammar returns the expanded grammar path.
func (p *LexicalizedParser) Grammar() string { return p.grammar }

// Apply parses one sentence of text.
func (p *LexicalizedParser) Apply(ctx context.Context, sentence string) (*Tree, error) {
	v, err := p.Invoke(ctx, "apply", sentence)
	if err != nil {
		return nil, err
	}
	t, ok := v.(*Tree)
	if !ok {
		return nil, errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
			Type(p.TypeName()).
			Member("apply").
			Detail("apply returned %T", v).
			Build()
	}
	return t, nil
}

func (p *LexicalizedParser) String() string {
	return "LexicalizedParser(" + filepath.Base(p.grammar) + ")"
}

// Inspect returns the display form.
func (p *LexicalizedParser) Inspect() string { return p.String() }

// ParserProvider opens a parser on first use and hands the same instance to
// every later caller. Loading a grammar can take seconds.
type ParserProvider struct {
	open   func(ctx context.Context) (*LexicalizedParser, error)
	parser *LexicalizedParser
	err    error
	once   sync.Once
}

// NewParserProvider creates a provider that calls open at most once.
func NewParserProvider(open func(ctx context.Context) (*LexicalizedParser, error)) *ParserProvider {
	return &ParserProvider{open: open}
}

// Parser returns the shared parser, opening it if needed. A failed open is
// remembered and returned to every caller.
func (p *ParserProvider) Parser(ctx context.Context) (*LexicalizedParser, error) {
	p.once.Do(func() {
		p.parser, p.err = p.open(ctx)
	})
	return p.parser, p.err
}

// Apply parses sentence with the shared parser.
func (p *ParserProvider) Apply(ctx context.Context, sentence string) (*Tree, error) {
	parser, err := p.Parser(ctx)
	if err != nil {
		return nil, err
	}
	return parser.Apply(ctx, sentence)
}
