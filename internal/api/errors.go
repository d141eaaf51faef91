package api

import (
	"errors"
	"net/http"

	"fieldguide/internal/errdefs"
)

// ErrorKind is the wire label for a classified error.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindNoImages      ErrorKind = "no_images"
	KindNoValidImages ErrorKind = "no_valid_images"
	KindUpstream      ErrorKind = "upstream_error"
	KindValidation    ErrorKind = "validation_error"
	KindStateConflict ErrorKind = "state_conflict"
	KindInternal      ErrorKind = "internal"
)

// ErrorResponse is the JSON error envelope for every failed API call.
type ErrorResponse struct {
	Error string    `json:"error"`
	Kind  ErrorKind `json:"kind"`
}

// Classify maps an error to its taxonomy kind.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, errdefs.ErrNotFound):
		return KindNotFound
	case errors.Is(err, errdefs.ErrNoImages):
		return KindNoImages
	case errors.Is(err, errdefs.ErrNoValidImages):
		return KindNoValidImages
	case errors.Is(err, errdefs.ErrUpstream):
		return KindUpstream
	case errors.Is(err, errdefs.ErrValidation):
		return KindValidation
	case errors.Is(err, errdefs.ErrStateConflict):
		return KindStateConflict
	default:
		return KindInternal
	}
}

// HTTPStatus maps an error to the status code its kind warrants.
func HTTPStatus(err error) int {
	switch Classify(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindNoImages, KindNoValidImages:
		return http.StatusServiceUnavailable
	case KindUpstream:
		return http.StatusBadGateway
	case KindValidation:
		return http.StatusBadRequest
	case KindStateConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Guidance turns a classified error into the message a player should see.
// Unrecognized errors get a generic line; the detail stays in the logs.
func Guidance(err error) string {
	switch Classify(err) {
	case KindNotFound:
		return "Nothing to act on here. Ask for a round first."
	case KindNoImages:
		return "No images could be found for that one. Try another round."
	case KindNoValidImages:
		return "Found images, but none were usable. Try another round."
	case KindUpstream:
		return "The image provider is having trouble. Try again shortly."
	case KindValidation:
		return "That request was not valid."
	case KindStateConflict:
		return "Already in progress."
	default:
		return "Something went wrong."
	}
}

// NewErrorResponse builds the wire envelope for an error.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: Guidance(err), Kind: Classify(err)}
}
