// Package controllers contains the HTTP handlers. Controllers stay thin:
// bind, validate, call a service, map the result onto the response envelope.
package controllers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/printipid/printipid/app/services"
	"github.com/printipid/printipid/pkg/logger"
	"github.com/printipid/printipid/pkg/response"
)

// respondServiceError maps service-layer sentinel errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrInvalidTrackingToken):
		response.NotFound(w)

	case errors.Is(err, services.ErrVersionConflict):
		response.Conflict(w, "Resource was modified by another request, reload and retry")

	case errors.Is(err, services.ErrInvalidTransition):
		response.Conflict(w, userMessage(err))

	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w)

	case errors.Is(err, services.ErrDisallowedExtension):
		response.Error(w, http.StatusUnprocessableEntity, userMessage(err))

	case errors.Is(err, services.ErrInvalidStatusFilter):
		response.ValidationError(w, map[string]string{"status": userMessage(err)})

	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, "Invalid email or password")

	case errors.Is(err, services.ErrEmailTaken):
		response.Conflict(w, "Email already registered")

	default:
		logger.Error("controllers: unhandled service error", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// userMessage strips the internal package prefix from a service error.
func userMessage(err error) string {
	return strings.TrimPrefix(err.Error(), "services: ")
}

// decodeBase64 accepts raw base64 or a full data URL and returns the payload.
func decodeBase64(s string) ([]byte, error) {
	if idx := strings.Index(s, ";base64,"); idx != -1 && strings.HasPrefix(s, "data:") {
		s = s[idx+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(s)
}
