package booking

import "github.com/jglobal-bizschool/coaching-api/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusConfirmed   Status = "confirmed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

// Transitions are one-way: confirmed -> cancelled, or
// confirmed -> rescheduled (with a new confirmed row inserted).
// Nothing leaves cancelled or rescheduled.

func InitialStatus() Status {
	return StatusConfirmed
}

func CanTransition(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}
