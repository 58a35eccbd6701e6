package services

import (
	"errors"

	"github.com/printipid/printipid/pkg/docstore"
)

// Sentinel errors returned by the service layer. Controllers map these onto
// HTTP status codes.
var (
	// ErrInvalidCredentials is returned when login fails. The same error is
	// used for unknown email and wrong password so the response does not
	// leak which one was wrong.
	ErrInvalidCredentials = errors.New("services: invalid credentials")

	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("services: email already registered")

	// ErrInvalidTransition is returned when an order status or payment
	// status change is not permitted from the current state.
	ErrInvalidTransition = errors.New("services: invalid transition")

	// ErrDisallowedExtension is returned when an uploaded file's extension
	// is not on the allow-list for its attachment kind.
	ErrDisallowedExtension = errors.New("services: file extension not allowed")

	// ErrForbidden is returned when a user acts on a resource they do not own.
	ErrForbidden = errors.New("services: forbidden")

	// ErrInvalidStatusFilter is returned when an order listing is filtered
	// by a status that does not exist.
	ErrInvalidStatusFilter = errors.New("services: unknown status filter")

	// ErrInvalidTrackingToken is returned when a guest tracking token fails
	// to decrypt or references a missing order.
	ErrInvalidTrackingToken = errors.New("services: invalid tracking token")

	// ErrNotFound aliases the store's not-found error so callers only import
	// the services package.
	ErrNotFound = docstore.ErrNotFound

	// ErrVersionConflict aliases the store's CAS conflict error.
	ErrVersionConflict = docstore.ErrVersionConflict
)
