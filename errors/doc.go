// Package errors provides structured error types for parse-bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: foreign type and member, tree path, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
//		Type("util.ArrayList").
//		Member("get").
//		Detail("argument 0: cannot convert string to int").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownMember("nlp.trees.Tree", "pennString")
//	err := errors.SpanCountMismatch(leaves, tokens)
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind reports whether any error in a chain has a given Kind.
package errors
