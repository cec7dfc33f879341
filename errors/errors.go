package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseInvoke    Phase = "invoke"    // foreign member calls
	PhaseConvert   Phase = "convert"   // foreign to native conversion
	PhaseConstruct Phase = "construct" // foreign object and resource construction
	PhaseAnnotate  Phase = "annotate"  // standoff token and tree building
	PhaseBracket   Phase = "bracket"   // bracketed rendering and tree edits
	PhaseHost      Phase = "host"      // class registration
	PhaseLoad      Phase = "load"      // module and grammar loading
	PhaseParse     Phase = "parse"     // bracket notation and WIT parsing
	PhaseConfig    Phase = "config"    // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownMember      Kind = "unknown_member"
	KindConstruction       Kind = "construction"
	KindSpanCountMismatch  Kind = "span_count_mismatch"
	KindInvalidTargetCount Kind = "invalid_target_count"
	KindInvocation         Kind = "invocation"
	KindTypeMismatch       Kind = "type_mismatch"
	KindInvalidData        Kind = "invalid_data"
	KindInvalidInput       Kind = "invalid_input"
	KindNotFound           Kind = "not_found"
	KindNotInitialized     Kind = "not_initialized"
	KindRegistration       Kind = "registration"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindUnsupported        Kind = "unsupported"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Member string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" || e.Member != "" {
		b.WriteString(": ")
		switch {
		case e.Type != "" && e.Member != "":
			b.WriteString(e.Type)
			b.WriteByte('.')
			b.WriteString(e.Member)
		case e.Type != "":
			b.WriteString(e.Type)
		default:
			b.WriteString(e.Member)
		}
	}

	if e.Detail != "" {
		if e.Type != "" || e.Member != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any *Error in err's chain has the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// KindOf returns the Kind of the outermost *Error in err's chain, or "" if
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the tree or field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the foreign type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Member sets the foreign member name
func (b *Builder) Member(m string) *Builder {
	b.err.Member = m
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UnknownMember creates an error for a member the foreign type does not declare
func UnknownMember(typeName, member string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindUnknownMember,
		Type:   typeName,
		Member: member,
		Detail: "unknown member",
	}
}

// Invocation wraps a failure raised by the foreign member itself
func Invocation(typeName, member string, cause error) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindInvocation,
		Type:   typeName,
		Member: member,
		Cause:  cause,
	}
}

// Construction creates an error for a missing or malformed external resource
func Construction(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindConstruction,
		Detail: what,
		Cause:  cause,
	}
}

// SpanCountMismatch creates an error for a tree whose leaves disagree with its tokens
func SpanCountMismatch(leaves, tokens int) *Error {
	return &Error{
		Phase:  PhaseAnnotate,
		Kind:   KindSpanCountMismatch,
		Detail: fmt.Sprintf("tree has %d leaves but sentence has %d tokens", leaves, tokens),
		Value:  leaves,
	}
}

// InvalidTargetCount creates an error for an operation given the wrong number of targets
func InvalidTargetCount(want, got int) *Error {
	return &Error{
		Phase:  PhaseBracket,
		Kind:   KindInvalidTargetCount,
		Detail: fmt.Sprintf("expected exactly %d target nodes, got %d", want, got),
		Value:  got,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, foreignType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Type:   foreignType,
		Detail: fmt.Sprintf("cannot use Go type %s", goType),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(typeName, member string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindRegistration,
		Type:   typeName,
		Member: member,
		Cause:  cause,
	}
}

// Load creates a module or grammar loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
