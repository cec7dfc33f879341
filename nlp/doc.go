// Package nlp wraps the foreign natural-language classes reached through a
// bridge: trees, token labels, words, the sentence preprocessor and the
// lexicalized parser.
//
// NewRegistry returns a bridge registry that converts tree, label and word
// handles to *Tree, *FeatureLabel and *Word, so values returned by any
// invocation arrive already wrapped:
//
//	b := bridge.New(rt, bridge.WithRegistry(nlp.NewRegistry()))
//	parser, err := nlp.NewLexicalizedParser(ctx, b, "$(ROOT)/englishPCFG.ser.gz", root)
//	tree, err := parser.Apply(ctx, "This is a sentence.")
//	fmt.Println(tree)
//
// Tree accessors load once and keep their values. Trees render as indented
// bracket notation; Inspect gives the label and score.
//
// The parser is an ordinary caller-owned value. ParserProvider opens it lazily
// and exactly once for callers that share one.
package nlp
