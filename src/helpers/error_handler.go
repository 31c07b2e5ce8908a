package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mms-curvature/src/logger"
	"mms-curvature/src/utils"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type CurvatureError struct {
	Message string
	Cause   error
}

func (e *CurvatureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CurvatureError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As checks
type ConfigurationError struct{ CurvatureError }
type NetworkError struct{ CurvatureError }
type DataSourceError struct{ CurvatureError }
type DatabaseError struct{ CurvatureError }
type ValidationError struct{ CurvatureError }

func NewConfigurationError(msg string, cause error) error {
	return &ConfigurationError{CurvatureError{Message: msg, Cause: cause}}
}

func NewNetworkError(msg string, cause error) error {
	return &NetworkError{CurvatureError{Message: msg, Cause: cause}}
}

func NewDataSourceError(msg string, cause error) error {
	return &DataSourceError{CurvatureError{Message: msg, Cause: cause}}
}

func NewDatabaseError(msg string, cause error) error {
	return &DatabaseError{CurvatureError{Message: msg, Cause: cause}}
}

func NewValidationError(msg string, cause error) error {
	return &ValidationError{CurvatureError{Message: msg, Cause: cause}}
}

// -----------------------------------------------------------------------------

// RangeNotCoveredError reports a series that does not span the requested
// interval.
type RangeNotCoveredError struct {
	Series         string
	WantStart      float64
	WantEnd        float64
	AvailableStart float64
	AvailableEnd   float64
}

func (e *RangeNotCoveredError) Error() string {
	return fmt.Sprintf("range not covered: %s spans [%s, %s], need [%s, %s]",
		e.Series,
		utils.FormatTime(e.AvailableStart), utils.FormatTime(e.AvailableEnd),
		utils.FormatTime(e.WantStart), utils.FormatTime(e.WantEnd))
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// RetryWithBackoff runs fn up to maxRetries+1 times, doubling the delay after
// every failure. It stops early when ctx is cancelled or fn returns an error
// wrapped with Permanent, in which case the unwrapped error is returned.
func RetryWithBackoff[T any](
	ctx context.Context,
	log *logger.Logger,
	operation string,
	maxRetries int,
	baseDelay time.Duration,
	fn func() (T, error),
) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		res, err := fn()
		if err == nil {
			return res, nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return zero, perm.err
		}

		lastErr = err
		if attempt == maxRetries {
			break
		}

		delay := baseDelay * (1 << attempt)
		if log != nil {
			log.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt+1, maxRetries+1, operation, err, delay)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	return zero, NewNetworkError(fmt.Sprintf("%s failed after %d attempts", operation, maxRetries+1), lastErr)
}
