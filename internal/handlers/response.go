package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-logbook/internal/apperror"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// MessageResponse is returned by endpoints that have nothing else to say.
type MessageResponse struct {
	Message string `json:"message"`
}

var errInvalidBody = apperror.ValidationFailed("body", "invalid JSON")

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch apperror.Kind(err) {
	case apperror.ErrValidation:
		return http.StatusBadRequest
	case apperror.ErrDuplicateIdentity:
		return http.StatusConflict
	case apperror.ErrNotConfirmed, apperror.ErrForbidden:
		return http.StatusForbidden
	case apperror.ErrNotFound:
		return http.StatusNotFound
	case apperror.ErrAIUnavailable:
		return http.StatusServiceUnavailable
	case apperror.ErrAIRequestFailed:
		return http.StatusBadGateway
	case apperror.ErrRequestPending:
		return http.StatusTooManyRequests
	case apperror.ErrUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status of its kind. Unclassified errors
// are logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, logger *log.Logger, err error) {
	status := statusFor(err)
	body := ErrorResponse{Error: err.Error()}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body.Field = appErr.Field
	}
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
		body = ErrorResponse{Error: "internal server error"}
	}
	writeJSON(w, r, status, body)
}

// decode reads a JSON body into v.
func decode(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return errInvalidBody
	}
	return nil
}
