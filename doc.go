// Package parsebridge bridges a reflective foreign object runtime to native Go
// values and builds offset-preserving standoff annotation on top of it.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	parsebridge/      Root package with the Runtime contract and Ref handles
//	├── bridge/       Conversion registry and the generic foreign object wrapper
//	├── host/         In-process reflective runtime backed by Go types
//	├── engine/       WebAssembly runtime (wazero) exposing modules as classes
//	├── resource/     Handle table for objects owned by a runtime
//	├── nlp/          Tree, label, word, parser and preprocessor wrappers
//	├── nlphost/      Reference NLP classes hosted in the in-process runtime
//	├── penn/         Penn treebank bracket notation reader and writer
//	├── standoff/     Standoff tokens, sentences, trees and bracketing
//	├── config/       YAML configuration
//	├── tracing/      OpenTelemetry provider
//	├── errors/       Structured error types
//	└── cmd/run/      Command-line tool
//
// # Quick Start
//
//	rt := host.New()
//	if err := nlphost.Register(rt); err != nil {
//	    log.Fatal(err)
//	}
//	b := bridge.New(rt, bridge.WithRegistry(nlp.NewRegistry()))
//
//	pre, err := standoff.NewPreprocessor(ctx, b, nlp.TypePTBTokenizer)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	parser, err := nlp.NewLexicalizedParser(ctx, b, "$(ROOT)/treebank.mrg", root)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := standoff.Parse(ctx, "He (John) is tall.  So is she.", pre, parser)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s, _ := text[0].Root().Bracketed([]standoff.Coordinate{{0, 0}}, "[", "]")
//	fmt.Println(s) // "[He (John)] is tall.  "
//
// # Dispatch
//
// Member calls go to the instance first. When the runtime reports the member
// as unknown on the instance, the call is retried once as a static member of
// the object's type. Any other failure propagates unchanged.
//
// # Thread Safety
//
// Bridge calls are blocking round trips into the foreign runtime and the
// bridge adds no locking of its own. Use a bridge from a single goroutine
// unless the runtime behind it is known to be safe for concurrent use.
// Standoff values are immutable once built and may be shared freely.
package parsebridge
