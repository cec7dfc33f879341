// Package nlphost provides reference NLP classes for the in-process host
// runtime: boxed integers, string readers, token labels and words, a Penn
// Treebank style tokenizer, a sentence preprocessor, trees and a parser backed
// by a bracketed treebank file.
//
// The tokenizer is invertible. Each token keeps the text as written, its
// normalized form (( becomes -LRB-), its rune offsets and the whitespace on
// either side, so a token sequence rebuilds its source text exactly.
//
// TreebankParser stands in for a statistical parser. It looks sentences up by
// their normalized token sequence and returns a flat tree for sentences the
// treebank does not contain.
//
//	rt, err := nlphost.NewRuntime()
//	b := bridge.New(rt, bridge.WithRegistry(nlp.NewRegistry()))
package nlphost
