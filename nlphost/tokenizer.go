package nlphost

import (
	"regexp"
	"strings"
	"unicode"
)

// Token is one tokenizer output. Offsets count runes. After always equals the
// next token's Before.
type Token struct {
	Current string
	Word    string
	Before  string
	After   string
	Begin   int
	End     int
}

var (
	escapes = map[string]string{
		"(": "-LRB-",
		")": "-RRB-",
		"[": "-LSB-",
		"]": "-RSB-",
		"{": "-LCB-",
		"}": "-RCB-",
	}

	abbreviations = map[string]bool{
		"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
		"st": true, "jr": true, "sr": true, "inc": true, "ltd": true,
		"co": true, "corp": true, "vs": true, "etc": true, "no": true,
		"jan": true, "feb": true, "mar": true, "apr": true, "jun": true,
		"jul": true, "aug": true, "sep": true, "sept": true, "oct": true,
		"nov": true, "dec": true, "mt": true, "gen": true, "gov": true,
	}

	dottedAbbrev = regexp.MustCompile(`^(\pL\.)+\pL$`)

	clitics = []string{"'s", "'m", "'d", "'ll", "'re", "'ve"}

	sentenceEnd = map[string]bool{".": true, "!": true, "?": true, "...": true}

	sentenceCloser = map[string]bool{
		")": true, "]": true, "}": true, "\"": true, "'": true,
		"''": true, "-RRB-": true, "-RSB-": true, "-RCB-": true,
	}
)

const (
	prefixPunct = "([{\"'`$#"
	suffixPunct = ")]}\"',;:?!%"
)

// Tokenizer splits text into Penn Treebank style tokens.
type Tokenizer struct {
	// SuppressEscaping keeps brackets and quotes as written in Word.
	SuppressEscaping bool
}

// Tokenize splits text into tokens, keeping offsets and surrounding
// whitespace so the text can be rebuilt exactly.
func (t Tokenizer) Tokenize(text string) []Token {
	runes := []rune(text)
	var out []Token

	i := 0
	ws := 0
	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}

		start := i
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			i++
		}
		before := string(runes[ws:start])

		pieces := splitChunk(runes[start:i])
		for k, p := range pieces {
			tok := Token{
				Current: p.text,
				Word:    t.normalize(p.text, p.leading),
				Begin:   start + p.offset,
				End:     start + p.offset + len([]rune(p.text)),
			}
			if k == 0 {
				tok.Before = before
			}
			if n := len(out); n > 0 {
				out[n-1].After = tok.Before
			}
			out = append(out, tok)
		}
		ws = i
	}

	if n := len(out); n > 0 {
		out[n-1].After = string(runes[ws:])
	}
	return out
}

// Sentences groups tokens into sentences. A sentence ends after terminal
// punctuation and any closing brackets or quotes that follow it.
func Sentences(tokens []Token) [][]Token {
	var out [][]Token
	start := 0
	for i := 0; i < len(tokens); i++ {
		if !sentenceEnd[tokens[i].Current] {
			continue
		}
		for i+1 < len(tokens) && sentenceCloser[tokens[i+1].Word] {
			i++
		}
		out = append(out, tokens[start:i+1])
		start = i + 1
	}
	if start < len(tokens) {
		out = append(out, tokens[start:])
	}
	return out
}

func (t Tokenizer) normalize(s string, leading bool) string {
	if t.SuppressEscaping {
		return s
	}
	if e, ok := escapes[s]; ok {
		return e
	}
	switch s {
	case "\"":
		if leading {
			return "``"
		}
		return "''"
	case "'":
		if leading {
			return "`"
		}
	}
	return s
}

type piece struct {
	text    string
	offset  int
	leading bool
}

// splitChunk splits one whitespace-free run into tokens.
func splitChunk(chunk []rune) []piece {
	var prefix, suffix []piece

	lo, hi := 0, len(chunk)

	if isClitic(string(chunk)) {
		return []piece{{text: string(chunk)}}
	}

	for lo < hi && strings.ContainsRune(prefixPunct, chunk[lo]) {
		if hi-lo > 1 && chunk[lo] == '`' && chunk[lo+1] == '`' {
			prefix = append(prefix, piece{text: "``", offset: lo, leading: true})
			lo += 2
			continue
		}
		if chunk[lo] == '\'' && isClitic(string(chunk[lo:hi])) {
			break
		}
		prefix = append(prefix, piece{text: string(chunk[lo]), offset: lo, leading: true})
		lo++
	}

	for lo < hi {
		last := chunk[hi-1]
		switch {
		case hi-lo >= 3 && string(chunk[hi-3:hi]) == "...":
			suffix = append(suffix, piece{text: "...", offset: hi - 3})
			hi -= 3
			continue
		case hi-lo >= 2 && last == '\'' && chunk[hi-2] == '\'':
			suffix = append(suffix, piece{text: "''", offset: hi - 2})
			hi -= 2
			continue
		case last == '.':
			if isAbbreviation(string(chunk[lo : hi-1])) {
				break
			}
			suffix = append(suffix, piece{text: ".", offset: hi - 1})
			hi--
			continue
		case strings.ContainsRune(suffixPunct, last):
			suffix = append(suffix, piece{text: string(last), offset: hi - 1})
			hi--
			continue
		}
		break
	}

	out := prefix
	if lo < hi {
		out = append(out, splitCore(chunk[lo:hi], lo)...)
	}
	for k := len(suffix) - 1; k >= 0; k-- {
		out = append(out, suffix[k])
	}
	return out
}

// splitCore separates contractions: don't -> do n't, John's -> John 's.
func splitCore(core []rune, offset int) []piece {
	s := string(core)
	lower := strings.ToLower(s)

	if len(core) > 3 && strings.HasSuffix(lower, "n't") {
		cut := len(core) - 3
		return []piece{
			{text: string(core[:cut]), offset: offset},
			{text: string(core[cut:]), offset: offset + cut},
		}
	}

	for _, c := range clitics {
		if len(lower) > len(c) && strings.HasSuffix(lower, c) {
			cut := len(core) - len([]rune(c))
			return []piece{
				{text: string(core[:cut]), offset: offset},
				{text: string(core[cut:]), offset: offset + cut},
			}
		}
	}

	return []piece{{text: s, offset: offset}}
}

func isClitic(s string) bool {
	lower := strings.ToLower(s)
	if lower == "n't" {
		return true
	}
	for _, c := range clitics {
		if lower == c {
			return true
		}
	}
	return false
}

func isAbbreviation(core string) bool {
	if core == "" {
		return false
	}
	if abbreviations[strings.ToLower(core)] {
		return true
	}
	if dottedAbbrev.MatchString(core) {
		return true
	}
	// initials, but not the words I and A
	r := []rune(core)
	return len(r) == 1 && unicode.IsUpper(r[0]) && r[0] != 'I' && r[0] != 'A'
}
