package booking

import (
	"time"

	"github.com/jglobal-bizschool/coaching-api/internal/httperr"
	"github.com/jglobal-bizschool/coaching-api/internal/models"
)

const (
	// Every session is exactly 30 minutes; end time is always derived.
	SessionDuration = 30 * time.Minute

	// Minimum gap between now and a new (or rescheduled-to) slot.
	LeadTime = 4 * time.Hour

	// Cancel/reschedule is closed inside this window before the event.
	ModifyCutoff = 24 * time.Hour
)

func HoursUntil(event, now time.Time) float64 {
	return event.Sub(now).Hours()
}

// CanCancel gates the cancel protocol: confirmed status, future event,
// more than 24 hours out. Exactly 24h0m still passes.
func CanCancel(b *models.Booking, now time.Time) error {
	if err := CanTransition(Status(b.Status)); err != nil {
		return err
	}
	if b.EventDate.Before(now) {
		return httperr.ErrBusiness(httperr.CodePastEvent)
	}
	if HoursUntil(b.EventDate, now) < ModifyCutoff.Hours() {
		return httperr.ErrBusiness(httperr.CodeTooCloseToEvent)
	}
	return nil
}

// CanReschedule adds the one-hop rule: a booking that is itself the
// product of a reschedule can never be rescheduled again.
func CanReschedule(b *models.Booking, now time.Time) error {
	if b.OriginalBookingID != nil {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return CanCancel(b, now)
}

// ValidateNewSlot gates the target interval of a create or reschedule.
func ValidateNewSlot(start, now time.Time) error {
	if start.Before(now) {
		return httperr.ErrBusiness(httperr.CodePastEvent)
	}
	if start.Sub(now) < LeadTime {
		return httperr.ErrBusiness(httperr.CodeTooSoon)
	}
	return nil
}
