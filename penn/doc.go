// Package penn reads and writes Penn Treebank bracket notation.
//
//	(ROOT (S (NP (DT This)) (VP (VBZ is) (NP (DT a) (NN sentence))) (. .)))
//
// Parse reads one tree and ParseAll reads a whole treebank file. Format
// renders the indented layout used by treebank tools: preterminals stay on
// their parent's line until the first phrasal child, after which each child
// starts a new line two spaces deeper. FormatCompact renders a single line.
package penn
