package domain

import "errors"

// Definition is a business error with a stable code.
type Definition struct {
	Code    string
	Message string
}

func (d Definition) Error() string {
	return d.Message
}

// With returns d carrying a more specific message. errors.Is still matches d.
func (d Definition) With(message string) error {
	return &detailed{def: d, message: message}
}

type detailed struct {
	def     Definition
	message string
}

func (e *detailed) Error() string {
	return e.def.Message + ": " + e.message
}

func (e *detailed) Unwrap() error {
	return e.def
}

var (
	BookingReferenceRequired = Definition{Code: "BOOKING_REFERENCE_REQUIRED", Message: "Please enter a booking number"}
	BookingReferenceTooShort = Definition{Code: "BOOKING_REFERENCE_TOO_SHORT", Message: "Booking number must be at least 6 characters"}
	TripNotFound             = Definition{Code: "TRIP_NOT_FOUND", Message: "Trip not found"}
	TripNotAvailable         = Definition{Code: "TRIP_NOT_AVAILABLE", Message: "No booking is loaded to save"}
	ReminderInvalid          = Definition{Code: "REMINDER_INVALID", Message: "Reminder is invalid"}
	ItineraryNotAvailable    = Definition{Code: "ITINERARY_NOT_AVAILABLE", Message: "No booking is loaded to export"}
	InvalidRequest           = Definition{Code: "INVALID_REQUEST", Message: "Request body is invalid"}
)

// AsDefinition extracts the business error from err, if any.
func AsDefinition(err error) (Definition, bool) {
	var d Definition
	if errors.As(err, &d) {
		return d, true
	}
	return Definition{}, false
}
