package graph

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fatal resolution failure.
type ErrorKind string

const (
	// UnresolvedReference: a pointer has no declared target.
	UnresolvedReference ErrorKind = "unresolved-reference"
	// InvalidInputDocument: the source is malformed or structurally
	// unrecognizable.
	InvalidInputDocument ErrorKind = "invalid-input-document"
	// AmbiguousInference: raw-data inference cannot unify a property's
	// observed shapes into a representable union.
	AmbiguousInference ErrorKind = "ambiguous-inference"
	// CompositionConflict: merge-all produced an unresolvable clash while
	// strict composition is enabled.
	CompositionConflict ErrorKind = "composition-conflict"
	// NameCollision: deterministic suffixing was exhausted.
	NameCollision ErrorKind = "name-collision"
)

// Error is a terminal resolution failure. Path is the pointer or structural
// path from a root to the failure site, so callers can locate the offending
// fragment in the source document.
type Error struct {
	Kind ErrorKind
	Path string
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, e.Msg)
}

// Errorf builds a classified error with a breadcrumb path.
func Errorf(kind ErrorKind, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the classification from err, or "" when err is not a
// resolution error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
