package discovery

import (
	"errors"
	"fmt"
)

// ErrMalformedResult marks a store response that cannot be trusted (rows without identity).
var ErrMalformedResult = errors.New("malformed retrieval result")

// RetrievalError wraps a store failure observed in a retrieval state.
type RetrievalError struct {
	State State
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed in %s state: %v", e.State, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// ConfigurationError is returned when the categorizer cannot honour its fallback guarantee.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "categorization misconfigured: " + e.Reason
}

// PartialWriteError records a failed association write for one business during a batch.
type PartialWriteError struct {
	BusinessID uint
	CategoryID uint
	Err        error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("failed to link business %d to category %d: %v", e.BusinessID, e.CategoryID, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
