// Package errdefs defines the closed error taxonomy shared across the game
// engine. Components wrap failures with one of the exported sentinels so
// callers can classify errors with errors.Is and map them to user guidance.
package errdefs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound marks operations with nothing to act on, such as a guess
	// with no round in progress or stats for a missing session.
	ErrNotFound = errors.New("not found")
	// ErrNoImages marks an empty cache entry after a fetch attempt.
	ErrNoImages = errors.New("no images")
	// ErrNoValidImages marks a cache entry where every file fails the
	// format or size checks.
	ErrNoValidImages = errors.New("no valid images")
	// ErrUpstream marks a non-success response from the search or download
	// provider.
	ErrUpstream = errors.New("upstream provider error")
	// ErrValidation marks a file that failed type or size validation.
	ErrValidation = errors.New("validation error")
	// ErrStateConflict marks operations rejected by current state, such as
	// starting a session twice.
	ErrStateConflict = errors.New("state conflict")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUpstream
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether the caller may usefully retry the operation.
func Retryable(err error) bool {
	return errors.Is(err, ErrNoImages) ||
		errors.Is(err, ErrNoValidImages) ||
		errors.Is(err, ErrUpstream)
}

// UserCorrectable reports whether the error should surface as guidance
// rather than a failure.
func UserCorrectable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrStateConflict)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "failure"
	}
	return strings.Join(parts, ": ")
}
