package api_test

import (
	"errors"
	"net/http"
	"testing"

	"fieldguide/internal/api"
	"fieldguide/internal/errdefs"
)

func TestClassifyAndHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		kind   api.ErrorKind
		status int
	}{
		{"not found", errdefs.Wrap(errdefs.ErrNotFound, "game", "guess", "", nil), api.KindNotFound, http.StatusNotFound},
		{"no images", errdefs.Wrap(errdefs.ErrNoImages, "mediacache", "fetch", "", nil), api.KindNoImages, http.StatusServiceUnavailable},
		{"no valid images", errdefs.Wrap(errdefs.ErrNoValidImages, "selector", "scan", "", nil), api.KindNoValidImages, http.StatusServiceUnavailable},
		{"upstream", errdefs.Wrap(errdefs.ErrUpstream, "fetch", "search", "", nil), api.KindUpstream, http.StatusBadGateway},
		{"validation", errdefs.Wrap(errdefs.ErrValidation, "game", "present", "", nil), api.KindValidation, http.StatusBadRequest},
		{"state conflict", errdefs.Wrap(errdefs.ErrStateConflict, "game", "session", "", nil), api.KindStateConflict, http.StatusConflict},
		{"unknown", errors.New("boom"), api.KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := api.Classify(tc.err); got != tc.kind {
				t.Fatalf("Classify = %q, want %q", got, tc.kind)
			}
			if got := api.HTTPStatus(tc.err); got != tc.status {
				t.Fatalf("HTTPStatus = %d, want %d", got, tc.status)
			}
		})
	}
}

func TestGuidanceNeverLeaksDetail(t *testing.T) {
	t.Parallel()

	err := errdefs.Wrap(errdefs.ErrUpstream, "fetch", "search", "status 503 from provider", nil)
	resp := api.NewErrorResponse(err)
	if resp.Kind != api.KindUpstream {
		t.Fatalf("unexpected kind %q", resp.Kind)
	}
	if resp.Error == "" || resp.Error == err.Error() {
		t.Fatalf("guidance should be a user message, got %q", resp.Error)
	}
}
