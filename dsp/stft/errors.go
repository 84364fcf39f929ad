package stft

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParam is wrapped by every ParamError.
	ErrInvalidParam = errors.New("stft: invalid parameter")
	// ErrWindowEnvelope indicates the overlap-add window envelope is ~0 at
	// some output sample, so it cannot be normalised.
	ErrWindowEnvelope = errors.New("stft: window overlap-add envelope is zero")
	// ErrShapeMismatch indicates a spectrogram that does not fit the transform.
	ErrShapeMismatch = errors.New("stft: spectrogram shape mismatch")
)

// ParamError reports an invalid transform parameter.
type ParamError struct {
	Param string
	Value int
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("stft: invalid %s: %d", e.Param, e.Value)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParam
}
