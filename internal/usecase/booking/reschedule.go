package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jglobal-bizschool/coaching-api/internal/audit"
	domain "github.com/jglobal-bizschool/coaching-api/internal/domain/booking"
	"github.com/jglobal-bizschool/coaching-api/internal/httperr"
	"github.com/jglobal-bizschool/coaching-api/internal/models"
	"github.com/jglobal-bizschool/coaching-api/internal/notify"
	"github.com/jglobal-bizschool/coaching-api/internal/scheduling"
	"github.com/jglobal-bizschool/coaching-api/internal/timezone"
	"github.com/jglobal-bizschool/coaching-api/internal/validators"
)

type RescheduleBookingInput struct {
	Token  string
	Date   string
	Time   string
	Locale string
}

type RescheduleBooking struct {
	repo     domain.Repository
	gateway  scheduling.Gateway
	notifier *notify.BookingNotifier
	audit    *audit.Dispatcher

	now func() time.Time
}

func NewRescheduleBooking(
	repo domain.Repository,
	gateway scheduling.Gateway,
	notifier *notify.BookingNotifier,
	auditDispatcher *audit.Dispatcher,
) *RescheduleBooking {
	return &RescheduleBooking{
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		audit:    auditDispatcher,
		now:      timezone.Now,
	}
}

func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	in RescheduleBookingInput,
) (*models.Booking, error) {

	if err := validators.Required(in.Date, "Date"); err != nil {
		return nil, err
	}
	if err := validators.Required(in.Time, "Time"); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1. Resolve the active booking and gate it. The one-hop rule lives
	//    in CanReschedule: a replacement row can never be moved again.
	// --------------------------------------------------
	oldBooking, _, err := resolveByToken(ctx, uc.repo, in.Token, true)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if err := domain.CanReschedule(oldBooking, now); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Validate the target interval
	// --------------------------------------------------
	newStart, err := timezone.ParseDateTime(in.Date, in.Time)
	if err != nil {
		return nil, httperr.ErrValidation("Invalid date or time")
	}
	newEnd := newStart.Add(domain.SessionDuration)

	if err := domain.ValidateNewSlot(newStart, now); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Conflict check on the new interval
	// --------------------------------------------------
	busy, err := uc.gateway.ListBusy(ctx, newStart, newEnd)
	if err != nil {
		log.Printf("reschedule booking: list busy: %v", err)
		return nil, httperr.ErrBusiness(httperr.CodeUpstream)
	}

	for _, iv := range busy {
		if (domain.Interval{Start: iv.Start, End: iv.End}).Overlaps(newStart, newEnd) {
			return nil, httperr.ErrBusiness(httperr.CodeTimeConflict)
		}
	}

	// --------------------------------------------------
	// 4. Best-effort release of the OLD resources
	// --------------------------------------------------
	if oldBooking.GoogleCalendarEventID != "" {
		if err := uc.gateway.Release(ctx, oldBooking.GoogleCalendarEventID); err != nil {
			log.Printf("reschedule booking: release old event %s: %v", oldBooking.GoogleCalendarEventID, err)
		}
	}
	if oldBooking.ZoomMeetingID != "" {
		if err := uc.gateway.DeleteMeeting(ctx, oldBooking.ZoomMeetingID); err != nil {
			log.Printf("reschedule booking: delete old meeting %s: %v", oldBooking.ZoomMeetingID, err)
		}
	}

	// --------------------------------------------------
	// 5. Acquire NEW resources. Contact fields are copied from the old
	//    row; the client supplies only date and time.
	// --------------------------------------------------
	topic := fmt.Sprintf("Free Coaching X %s %s", oldBooking.FirstName, oldBooking.LastName)

	meeting, err := uc.gateway.CreateMeeting(ctx, topic, newStart, 30, []scheduling.Registrant{
		{Email: oldBooking.Email, FirstName: oldBooking.FirstName, LastName: oldBooking.LastName},
	})
	if err != nil {
		log.Printf("reschedule booking: create meeting: %v", err)
		return nil, httperr.ErrBusiness(httperr.CodeUpstream)
	}

	joinURL := meeting.JoinLinksByEmail[oldBooking.Email]

	oldLocal := oldBooking.EventDate.In(timezone.Location()).Format("2006-01-02 15:04")

	eventID, err := uc.gateway.Reserve(ctx, scheduling.EventInput{
		Summary: topic,
		Description: eventDescription(
			oldBooking.FirstName, oldBooking.LastName, oldBooking.Email,
			oldBooking.Phone, oldBooking.Message, joinURL, oldLocal,
		),
		Start: newStart,
		End:   newEnd,
	})
	if err != nil {
		log.Printf("reschedule booking: reserve event: %v", err)
		if delErr := uc.gateway.DeleteMeeting(ctx, meeting.ID); delErr != nil {
			log.Printf("reschedule booking: cleanup meeting %s: %v", meeting.ID, delErr)
		}
		return nil, httperr.ErrBusiness(httperr.CodeUpstream)
	}

	// --------------------------------------------------
	// 6. Insert the replacement row and retire the old one together
	// --------------------------------------------------
	newBooking := &models.Booking{
		FirstName:             oldBooking.FirstName,
		LastName:              oldBooking.LastName,
		Email:                 oldBooking.Email,
		Phone:                 oldBooking.Phone,
		Message:               oldBooking.Message,
		EventDate:             newStart,
		Status:                string(domain.InitialStatus()),
		GoogleCalendarEventID: eventID,
		ZoomMeetingID:         meeting.ID,
		ZoomJoinURL:           joinURL,
		OriginalBookingID:     &oldBooking.ID,
	}

	if err := uc.repo.CreateRescheduled(ctx, newBooking, oldBooking.ID, now); err != nil {
		if relErr := uc.gateway.Release(ctx, eventID); relErr != nil {
			log.Printf("reschedule booking: cleanup event %s: %v", eventID, relErr)
		}
		if delErr := uc.gateway.DeleteMeeting(ctx, meeting.ID); delErr != nil {
			log.Printf("reschedule booking: cleanup meeting %s: %v", meeting.ID, delErr)
		}
		return nil, err
	}

	oldBooking.Status = string(domain.StatusRescheduled)
	oldBooking.RescheduledAt = &now

	// --------------------------------------------------
	// 7. Fire-and-forget side effects
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Action:   "booking_rescheduled",
		Entity:   "booking",
		EntityID: &newBooking.ID,
		Metadata: map[string]any{"original_booking_id": oldBooking.ID},
	})

	uc.notifier.BookingRescheduled(in.Locale, oldBooking, newBooking)

	return newBooking, nil
}
