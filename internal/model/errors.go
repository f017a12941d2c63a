package model

import "errors"

// Sentinel errors shared across the engine. Components return these
// directly (or wrapped with fmt.Errorf("...: %w", ...)) so callers can
// use errors.Is.
var (
	ErrEmptyInput         = errors.New("empty input")
	ErrBadSignatureLength = errors.New("bad signature length")
	ErrMissingRecord      = errors.New("missing record")
	ErrParameterMismatch  = errors.New("parameter mismatch")
	ErrAdapterUnavailable = errors.New("adapter unavailable")
	ErrMalformedRecord    = errors.New("malformed record")
)
