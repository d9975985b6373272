// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     speech
// Description: Error kinds reported by speech backends
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package speech

import (
	"errors"
	"fmt"
)

var (
	// ErrUnintelligible means the audio held no recognizable speech.
	// Expected on silence or noise and never worth logging above debug.
	ErrUnintelligible = errors.New("speech unintelligible")

	// ErrBackendUnavailable matches every ServiceError, including LLM failures
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// ServiceError is a transport or service failure of a remote backend
type ServiceError struct {
	Backend    string
	Op         string
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed (status %d): %v", e.Backend, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Backend, e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is makes every ServiceError match ErrBackendUnavailable
func (e *ServiceError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

// NewServiceError wraps err unless it already is a ServiceError
// or an unintelligible-audio condition.
func NewServiceError(backend, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnintelligible) {
		return err
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &ServiceError{Backend: backend, Op: op, Err: err}
}
