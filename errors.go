package fts

import (
	"errors"
	"fmt"
)

// Structural errors: violations of the engine's own invariants, always
// fatal to the operation in progress. Callers should treat these as bugs
// in their own usage rather than something to retry.
var (
	// ErrOutOfOrderInsertion is returned by TokenSetBuilder.Insert when a
	// word sorts before the previously inserted word.
	ErrOutOfOrderInsertion = errors.New("fts: out of order word insertion")

	// ErrDuplicateIndex is returned by Vector.Insert when the index is
	// already present.
	ErrDuplicateIndex = errors.New("fts: duplicate vector index")

	// ErrMalformedFieldRef is returned by ParseFieldRef when the string
	// does not contain the "/" separator.
	ErrMalformedFieldRef = errors.New("fts: malformed field ref")

	// ErrIllegalFieldName is returned by Builder.Field when the field
	// name contains "/", which is reserved for FieldRef encoding.
	ErrIllegalFieldName = errors.New("fts: field name must not contain '/'")

	// ErrUnregisteredPipelineFunction is returned when loading a
	// serialized pipeline references a label with no registered function.
	ErrUnregisteredPipelineFunction = errors.New("fts: unregistered pipeline function")

	// ErrUnknownField names the condition of a query clause or
	// range/comparator naming a field the index was not built with. No
	// function in this package returns it: ParseQuery reports an unknown
	// field as a *QueryParseError.
	ErrUnknownField = errors.New("fts: unknown field")
)

// QueryParseError reports a problem compiling a query string, with byte
// offsets into the source so a caller can underline the offending span.
type QueryParseError struct {
	Message    string
	Start, End int
}

func (e *QueryParseError) Error() string {
	return fmt.Sprintf("fts: query parse error at %d:%d: %s", e.Start, e.End, e.Message)
}

func newQueryParseError(msg string, start, end int) *QueryParseError {
	return &QueryParseError{Message: msg, Start: start, End: end}
}
