package agrizone

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Kind tags every error the core can return, per the spec's error table.
// Callers dispatch on Kind rather than matching message strings.
type Kind int

const (
	ErrKindInvalidInput Kind = iota
	ErrKindNoValidPixels
	ErrKindDegenerateFeature
	ErrKindInvalidClusterCount
	ErrKindInsufficientSamples
	ErrKindClusteringFailure
	ErrKindNoZones
	ErrKindAllZonesFiltered
	ErrKindNoSamples
	ErrKindCancelled
)

func (k Kind) String() string {
	switch k {
	case ErrKindInvalidInput:
		return "InvalidInput"
	case ErrKindNoValidPixels:
		return "NoValidPixels"
	case ErrKindDegenerateFeature:
		return "DegenerateFeature"
	case ErrKindInvalidClusterCount:
		return "InvalidClusterCount"
	case ErrKindInsufficientSamples:
		return "InsufficientSamples"
	case ErrKindClusteringFailure:
		return "ClusteringFailure"
	case ErrKindNoZones:
		return "NoZones"
	case ErrKindAllZonesFiltered:
		return "AllZonesFiltered"
	case ErrKindNoSamples:
		return "NoSamples"
	case ErrKindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is the single error type Run returns. It carries a Kind for
// dispatch, a human-readable message, optional structured fields, and
// (via eris) the wrapped cause and its stack trace when one exists.
type Error struct {
	Kind   Kind
	Msg    string
	Fields map[string]any
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("agrizone: %s: %s: %v", e.Kind, e.Msg, e.cause)
	}
	return fmt.Sprintf("agrizone: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Is lets errors.Is(err, agrizone.ErrKind(X)) style checks work by Kind,
// via a sentinel wrapper (see ErrKind below).
func (e *Error) Is(target error) bool {
	k, ok := target.(kindSentinel)
	return ok && e.Kind == k.Kind
}

type kindSentinel struct{ Kind Kind }

func (kindSentinel) Error() string { return "" }

// ErrKind builds a sentinel usable with errors.Is to test an error's Kind
// without a type assertion:
//
//	if errors.Is(err, agrizone.ErrKind(agrizone.ErrKindNoZones)) { ... }
func ErrKind(k Kind) error { return kindSentinel{Kind: k} }

func newError(kind Kind, msg string, fields ...map[string]any) *Error {
	e := &Error{Kind: kind, Msg: msg}
	if len(fields) > 0 {
		e.Fields = fields[0]
	}
	return e
}

func wrapError(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, cause: eris.Wrap(cause, msg)}
}

func withField(e *Error, key string, val any) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]any, 1)
	}
	e.Fields[key] = val
	return e
}
