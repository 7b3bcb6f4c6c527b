package booking

import (
	"time"

	"github.com/jglobal-bizschool/coaching-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanTransition(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}

func MarkRescheduled(b *models.Booking, now time.Time) error {
	if err := CanTransition(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusRescheduled)
	b.RescheduledAt = &now
	return nil
}

// End returns the derived end instant of a booking's session.
func End(b *models.Booking) time.Time {
	return b.EventDate.Add(SessionDuration)
}
