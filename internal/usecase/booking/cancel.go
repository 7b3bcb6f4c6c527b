package booking

import (
	"context"
	"log"
	"time"

	"github.com/jglobal-bizschool/coaching-api/internal/audit"
	domain "github.com/jglobal-bizschool/coaching-api/internal/domain/booking"
	"github.com/jglobal-bizschool/coaching-api/internal/httperr"
	"github.com/jglobal-bizschool/coaching-api/internal/models"
	"github.com/jglobal-bizschool/coaching-api/internal/notify"
	"github.com/jglobal-bizschool/coaching-api/internal/scheduling"
	"github.com/jglobal-bizschool/coaching-api/internal/timezone"
)

type CancelBooking struct {
	repo     domain.Repository
	gateway  scheduling.Gateway
	notifier *notify.BookingNotifier
	audit    *audit.Dispatcher

	now func() time.Time
}

func NewCancelBooking(
	repo domain.Repository,
	gateway scheduling.Gateway,
	notifier *notify.BookingNotifier,
	auditDispatcher *audit.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		audit:    auditDispatcher,
		now:      timezone.Now,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	token string,
	locale string,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Resolve the active booking in the chain. A token issued before
	//    a reschedule redirects to the replacement row.
	// --------------------------------------------------
	b, _, err := resolveByToken(ctx, uc.repo, token, true)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Status and time-window gates
	// --------------------------------------------------
	now := uc.now()
	if err := domain.CanCancel(b, now); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Best-effort release of external resources
	// --------------------------------------------------
	if b.GoogleCalendarEventID != "" {
		if err := uc.gateway.Release(ctx, b.GoogleCalendarEventID); err != nil {
			log.Printf("cancel booking: release event %s: %v", b.GoogleCalendarEventID, err)
		}
	}
	if b.ZoomMeetingID != "" {
		if err := uc.gateway.DeleteMeeting(ctx, b.ZoomMeetingID); err != nil {
			log.Printf("cancel booking: delete meeting %s: %v", b.ZoomMeetingID, err)
		}
	}

	// --------------------------------------------------
	// 4. Atomic conditional update; a concurrent cancel or reschedule
	//    on the same row makes exactly one caller lose here.
	// --------------------------------------------------
	ok, err := uc.repo.CancelIfConfirmed(ctx, b.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidState)
	}

	b.Status = string(domain.StatusCancelled)
	b.CancelledAt = &now

	// --------------------------------------------------
	// 5. Fire-and-forget side effects
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	uc.notifier.BookingCancelled(locale, b)

	return b, nil
}
