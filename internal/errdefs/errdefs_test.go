package errdefs_test

import (
	"errors"
	"strings"
	"testing"

	"fieldguide/internal/errdefs"
)

func TestWrapPreservesMarkerAndCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := errdefs.Wrap(errdefs.ErrUpstream, "fetch", "search", "status 503", cause)

	if !errors.Is(err, errdefs.ErrUpstream) {
		t.Fatal("expected marker to survive wrapping")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to survive wrapping")
	}
	if !strings.Contains(err.Error(), "fetch: search: status 503") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestClassifiers(t *testing.T) {
	t.Parallel()

	if !errdefs.Retryable(errdefs.Wrap(errdefs.ErrNoValidImages, "selector", "scan", "", nil)) {
		t.Fatal("exhaustion should be retryable")
	}
	if errdefs.Retryable(errdefs.Wrap(errdefs.ErrStateConflict, "session", "start", "", nil)) {
		t.Fatal("state conflicts are not retryable")
	}
	if !errdefs.UserCorrectable(errdefs.ErrNotFound) {
		t.Fatal("not-found should be user correctable")
	}
	if errdefs.UserCorrectable(errdefs.ErrUpstream) {
		t.Fatal("upstream errors are not user correctable")
	}
}
