// Package standoff annotates text with parse trees while keeping every
// token's offsets and surrounding whitespace, so the source can be reproduced
// verbatim or with markers around chosen constituents.
//
// A Preprocessor tokenizes text through the foreign tokenizer in invertible
// mode. Build attaches the tokens of one Sentence to the leaves of a parse
// tree, left to right; the leaf and token counts must agree. The resulting
// Tree is an arena of nodes addressed by Coordinate:
//
//	pre, _ := standoff.NewPreprocessor(ctx, b, "")
//	text, _ := standoff.Parse(ctx, "He (John) is tall.", pre, parser)
//	s, _ := text[0].Root().Bracketed([]standoff.Coordinate{{0, 0}}, "[", "]")
//	// [He (John)] is tall.
//
// Trees are read-only. Merge returns a new tree.
package standoff
