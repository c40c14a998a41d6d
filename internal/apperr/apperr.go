package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure for status mapping and history records.
type Kind string

const (
	KindInvalidReference    Kind = "invalid_reference"
	KindMetadataUnavailable Kind = "metadata_unavailable"
	KindAcquisitionFailed   Kind = "acquisition_failed"
	KindTranscriptionFailed Kind = "transcription_failed"
)

// Error is a classified pipeline failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a classified error wrapping an underlying cause.
// Pass nil cause for pure input errors.
func Errorf(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		Err:  cause,
	}
}

// KindOf extracts the failure kind from an error chain.
// Unclassified errors count as acquisition-stage failures.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindAcquisitionFailed
}

// StatusCode maps a failure kind to the HTTP status the handler emits.
func (k Kind) StatusCode() int {
	if k == KindInvalidReference {
		return 400
	}
	return 500
}
