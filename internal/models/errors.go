package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a unique field (e.g. email) is already taken.
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidCredentials is returned when a login attempt fails.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNoEligibleRate is returned when the carrier filter leaves no rate to
	// purchase. No upstream buy and no local record may happen after this.
	ErrNoEligibleRate = errors.New("no eligible rates available for this shipment")

	// ErrDuplicateShipment is returned when a label with the same upstream
	// shipment id has already been stored.
	ErrDuplicateShipment = errors.New("shipment has already been recorded")

	// ErrNotRefundable is returned when the upstream carrier refuses the
	// refund. This is a policy outcome, not a transport failure; the label
	// keeps its current status.
	ErrNotRefundable = errors.New("shipping label is not eligible for refund")

	// ErrAlreadyCancelled is returned when cancelling a label twice.
	ErrAlreadyCancelled = errors.New("shipping label is already cancelled")
)

// ErrorResponse is the generic error body returned by all handlers.
type ErrorResponse struct {
	Message string `json:"message"`
}
