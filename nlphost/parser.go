package nlphost

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/wippyai/parse-bridge/penn"
)

// TreebankParser answers parse requests from a bracketed treebank file. A
// sentence is looked up by its token sequence; unknown sentences get a flat
// tree with one preterminal per token.
type TreebankParser struct {
	trees   map[string]*penn.Node
	grammar string
	flags   []string
}

// NewTreebankParser loads the treebank at path.
func NewTreebankParser(path string) (*TreebankParser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load grammar: %w", err)
	}
	trees, err := penn.ParseAll(string(data))
	if err != nil {
		return nil, fmt.Errorf("load grammar %s: %w", filepath.Base(path), err)
	}

	p := &TreebankParser{
		trees:   make(map[string]*penn.Node, len(trees)),
		grammar: path,
	}
	for _, t := range trees {
		p.trees[strings.Join(t.Yield(), " ")] = t
	}
	return p, nil
}

// SetOptionFlags records command-line style parser options.
func (p *TreebankParser) SetOptionFlags(flags []string) {
	p.flags = append([]string(nil), flags...)
}

func (p *TreebankParser) OptionFlags() []string { return p.flags }

// Apply parses one sentence.
func (p *TreebankParser) Apply(sentence string) *Tree {
	toks := Tokenizer{}.Tokenize(sentence)
	words := make([]string, len(toks))
	for i, t := range toks {
		words[i] = t.Word
	}

	if n, ok := p.trees[strings.Join(words, " ")]; ok {
		return TreeFromPenn(n)
	}
	return TreeFromPenn(flatTree(words))
}

// Size returns the number of known sentences.
func (p *TreebankParser) Size() int { return len(p.trees) }

func (p *TreebankParser) String() string {
	return "LexicalizedParser(" + filepath.Base(p.grammar) + ")"
}

// flatTree builds (ROOT (S (X w) ...)); punctuation is tagged with itself.
func flatTree(words []string) *penn.Node {
	s := &penn.Node{Label: "S"}
	for _, w := range words {
		tag := "X"
		if isPunct(w) {
			tag = w
		}
		s.Children = append(s.Children, &penn.Node{
			Label:    tag,
			Children: []*penn.Node{{Label: w}},
		})
	}
	return &penn.Node{Label: "ROOT", Children: []*penn.Node{s}}
}

func isPunct(w string) bool {
	switch w {
	case "-LRB-", "-RRB-", "-LSB-", "-RSB-", "-LCB-", "-RCB-", "``", "''":
		return true
	}
	for _, r := range w {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}
