package httperr

import (
	"log"

	"github.com/gin-gonic/gin"
)

var businessMessages = map[string]string{
	CodeInvalidToken:    "Invalid token format.",
	CodeNotFound:        "Booking not found.",
	CodeInvalidState:    "The booking is not in a state that allows this action.",
	CodePastEvent:       "Cannot modify a past event.",
	CodeTooCloseToEvent: "Cannot modify a booking within 24 hours of the event.",
	CodeTooSoon:         "The selected time must be at least 4 hours in the future.",
	CodeTimeConflict:    "The selected time slot is already booked. Please choose another time.",
	CodeRateLimited:     "Too many requests. Please try again later.",
	CodeUpstream:        "An external service is unavailable. Please try again later.",
}

// Respond maps a usecase error to the HTTP response the caller sees.
// Provider response bodies and stack detail stay in server logs only.
func Respond(c *gin.Context, err error) {
	if ve, ok := AsValidation(err); ok {
		BadRequest(c, "validation_error", ve.Message)
		return
	}

	code := BusinessCode(err)
	msg, known := businessMessages[code]
	if !known {
		log.Printf("internal error: %v", err)
		Internal(c, "internal_error", "Internal server error.")
		return
	}

	switch code {
	case CodeNotFound:
		NotFound(c, code, msg)
	case CodeTimeConflict:
		Conflict(c, code, msg)
	case CodeRateLimited:
		TooManyRequests(c, code, msg)
	case CodeUpstream:
		log.Printf("upstream error: %v", err)
		Internal(c, code, msg)
	default:
		BadRequest(c, code, msg)
	}
}
