package domain

import (
	"encoding/json"
	"errors"
)

var (
	ErrNotFound                 = errors.New("not found")
	ErrAlreadyExists            = errors.New("already exists")
	ErrInvalidRequest           = errors.New("invalid request")
	ErrUpstreamUnavailable      = errors.New("upstream unavailable")
	ErrUpstreamRejected         = errors.New("upstream rejected request")
	ErrEmptyResponse            = errors.New("upstream returned no usable content")
	ErrInvalidSynthesisResponse = errors.New("invalid synthesis response")
	ErrStorageUnavailable       = errors.New("storage unavailable")
	ErrDecodeFailure            = errors.New("image decode failure")
)

// SynthesisResponseError is returned when the synthesis service answered with
// well-formed JSON that carries no image list. The raw body is preserved so
// callers can surface it for diagnosis.
type SynthesisResponseError struct {
	Raw json.RawMessage
}

func (e *SynthesisResponseError) Error() string {
	return "synthesis response contained no images"
}

func (e *SynthesisResponseError) Unwrap() error {
	return ErrInvalidSynthesisResponse
}

// RawUpstreamPayload extracts the preserved upstream body from an error chain,
// or nil when the failure carried none.
func RawUpstreamPayload(err error) json.RawMessage {
	var sre *SynthesisResponseError
	if errors.As(err, &sre) {
		return sre.Raw
	}
	return nil
}
