// Package api exposes game operations as transport-friendly DTOs for the
// daemon HTTP server and the CLI. It owns the mapping from the internal
// error taxonomy to user guidance and HTTP status codes.
package api
