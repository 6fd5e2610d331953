// Package errs defines the closed error taxonomy for the prediction pipeline.
// Every failure below the orchestrator is wrapped into one of these kinds so
// the HTTP layer can map it to a status without inspecting internals.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindUnknown covers anything that escaped classification.
	KindUnknown Kind = iota
	// KindConfiguration marks a missing credential or misconfiguration;
	// fatal per-process, detected before any network call.
	KindConfiguration
	// KindSymbolNotFound marks an unresolvable user query.
	KindSymbolNotFound
	// KindNoData marks a provider response with no price series.
	KindNoData
	// KindDataInsufficient marks a series too short for the rolling windows.
	KindDataInsufficient
	// KindTraining marks a failed model fit.
	KindTraining
	// KindArtifactNotFound marks a load for a symbol that was never trained.
	KindArtifactNotFound
	// KindCorruptArtifact marks a stored model that failed to decode.
	KindCorruptArtifact
	// KindRelay marks a transport failure posting to the backend.
	KindRelay
	// KindUpstream marks a provider transport or parse failure.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindSymbolNotFound:
		return "symbol_not_found"
	case KindNoData:
		return "no_data"
	case KindDataInsufficient:
		return "data_insufficient"
	case KindTraining:
		return "training"
	case KindArtifactNotFound:
		return "artifact_not_found"
	case KindCorruptArtifact:
		return "corrupt_artifact"
	case KindRelay:
		return "relay"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error is a kinded pipeline error. Message is the only user-visible part.
type Error struct {
	Kind    Kind
	Symbol  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a kinded error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a kinded error with formatting.
func Newf(kind Kind, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// Wrap attaches an underlying cause to a kinded error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithSymbol tags the error with the symbol being processed.
func (e *Error) WithSymbol(symbol string) *Error {
	e.Symbol = symbol
	return e
}

// KindOf extracts the kind from any error, KindUnknown if it is not kinded.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the user-visible message for an error. Unclassified
// errors never leak their text to callers.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
