package httperr

import "errors"

// Business codes shared between usecases and handlers.
const (
	CodeInvalidToken    = "invalid_token"
	CodeNotFound        = "booking_not_found"
	CodeInvalidState    = "invalid_state"
	CodePastEvent       = "past_event"
	CodeTooCloseToEvent = "too_close_to_event"
	CodeTooSoon         = "too_soon"
	CodeTimeConflict    = "time_conflict"
	CodeRateLimited     = "rate_limited"
	CodeUpstream        = "upstream_error"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode extracts the code from a BusinessError, or "" for other errors.
func BusinessCode(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// ValidationError carries a user-facing message for malformed input.
// It always maps to HTTP 400.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

func ErrValidation(message string) error {
	return ValidationError{Message: message}
}

func AsValidation(err error) (ValidationError, bool) {
	var ve ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
