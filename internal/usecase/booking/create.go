package booking

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jglobal-bizschool/coaching-api/internal/audit"
	domain "github.com/jglobal-bizschool/coaching-api/internal/domain/booking"
	"github.com/jglobal-bizschool/coaching-api/internal/httperr"
	"github.com/jglobal-bizschool/coaching-api/internal/models"
	"github.com/jglobal-bizschool/coaching-api/internal/notify"
	"github.com/jglobal-bizschool/coaching-api/internal/ratelimit"
	"github.com/jglobal-bizschool/coaching-api/internal/scheduling"
	"github.com/jglobal-bizschool/coaching-api/internal/timezone"
	"github.com/jglobal-bizschool/coaching-api/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	Date string
	Time string

	FirstName string
	LastName  string
	Email     string
	Phone     string
	Message   string

	Locale    string
	ClientKey string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	gateway  scheduling.Gateway
	limiter  ratelimit.Limiter
	notifier *notify.BookingNotifier
	audit    *audit.Dispatcher
}

func NewCreateBooking(
	repo domain.Repository,
	gateway scheduling.Gateway,
	limiter ratelimit.Limiter,
	notifier *notify.BookingNotifier,
	auditDispatcher *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		gateway:  gateway,
		limiter:  limiter,
		notifier: notifier,
		audit:    auditDispatcher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Admission control
	// --------------------------------------------------
	if err := allow(ctx, uc.limiter, in.ClientKey); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Input validation
	// --------------------------------------------------
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	start, err := timezone.ParseDateTime(in.Date, in.Time)
	if err != nil {
		return nil, httperr.ErrValidation("Invalid date or time")
	}
	end := start.Add(domain.SessionDuration)

	// --------------------------------------------------
	// 3. Authoritative conflict check. The advisory slot list may be
	//    stale; the calendar decides.
	// --------------------------------------------------
	busy, err := uc.gateway.ListBusy(ctx, start, end)
	if err != nil {
		log.Printf("create booking: list busy: %v", err)
		return nil, httperr.ErrBusiness(httperr.CodeUpstream)
	}

	for _, iv := range busy {
		if (domain.Interval{Start: iv.Start, End: iv.End}).Overlaps(start, end) {
			return nil, httperr.ErrBusiness(httperr.CodeTimeConflict)
		}
	}

	// --------------------------------------------------
	// 4. Meeting room first: its join link goes into the calendar
	//    event description, so ordering is fixed.
	// --------------------------------------------------
	topic := fmt.Sprintf("Free Coaching X %s %s", in.FirstName, in.LastName)

	meeting, err := uc.gateway.CreateMeeting(ctx, topic, start, 30, []scheduling.Registrant{
		{Email: in.Email, FirstName: in.FirstName, LastName: in.LastName},
	})
	if err != nil {
		log.Printf("create booking: create meeting: %v", err)
		return nil, httperr.ErrBusiness(httperr.CodeUpstream)
	}

	joinURL := meeting.JoinLinksByEmail[in.Email]

	// --------------------------------------------------
	// 5. Calendar event, compensating the meeting on failure
	// --------------------------------------------------
	eventID, err := uc.gateway.Reserve(ctx, scheduling.EventInput{
		Summary:     topic,
		Description: eventDescription(in.FirstName, in.LastName, in.Email, in.Phone, in.Message, joinURL, ""),
		Start:       start,
		End:         end,
	})
	if err != nil {
		log.Printf("create booking: reserve event: %v", err)
		if delErr := uc.gateway.DeleteMeeting(ctx, meeting.ID); delErr != nil {
			log.Printf("create booking: cleanup meeting %s: %v", meeting.ID, delErr)
		}
		return nil, httperr.ErrBusiness(httperr.CodeUpstream)
	}

	// --------------------------------------------------
	// 6. Persist
	// --------------------------------------------------
	b := &models.Booking{
		FirstName:             in.FirstName,
		LastName:              in.LastName,
		Email:                 in.Email,
		Phone:                 in.Phone,
		Message:               in.Message,
		EventDate:             start,
		Status:                string(domain.InitialStatus()),
		GoogleCalendarEventID: eventID,
		ZoomMeetingID:         meeting.ID,
		ZoomJoinURL:           joinURL,
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		log.Printf("create booking: insert: %v", err)
		if relErr := uc.gateway.Release(ctx, eventID); relErr != nil {
			log.Printf("create booking: cleanup event %s: %v", eventID, relErr)
		}
		if delErr := uc.gateway.DeleteMeeting(ctx, meeting.ID); delErr != nil {
			log.Printf("create booking: cleanup meeting %s: %v", meeting.ID, delErr)
		}
		return nil, err
	}

	// --------------------------------------------------
	// 7. Fire-and-forget side effects
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	uc.notifier.BookingConfirmed(in.Locale, b)

	return b, nil
}

func validateCreateInput(in CreateBookingInput) error {
	if err := validators.Required(in.Date, "Date"); err != nil {
		return err
	}
	if err := validators.Required(in.Time, "Time"); err != nil {
		return err
	}
	if err := validators.Required(in.FirstName, "First Name"); err != nil {
		return err
	}
	if err := validators.Required(in.LastName, "Last Name"); err != nil {
		return err
	}
	if err := validators.Required(in.Email, "Email"); err != nil {
		return err
	}
	if err := validators.Email(in.Email); err != nil {
		return err
	}
	if in.Message != "" {
		if err := validators.MinLength(in.Message, 10, "Message"); err != nil {
			return err
		}
		if err := validators.MaxLength(in.Message, 2000, "Message"); err != nil {
			return err
		}
	}
	return nil
}

// eventDescription embeds the booking context in the calendar event so the
// operator can reconstruct it from the calendar alone.
func eventDescription(firstName, lastName, email, phone, message, joinURL, rescheduledFrom string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Free coaching session with %s %s\n", firstName, lastName)
	fmt.Fprintf(&b, "Email: %s\n", email)
	if phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", phone)
	}
	if message != "" {
		fmt.Fprintf(&b, "Message: %s\n", message)
	}
	fmt.Fprintf(&b, "Zoom link: %s", joinURL)
	if rescheduledFrom != "" {
		fmt.Fprintf(&b, "\n(Rescheduled from %s)", rescheduledFrom)
	}

	return b.String()
}

// allow checks admission control; a limiter backend failure is logged and
// the request is admitted rather than blocked on infrastructure.
func allow(ctx context.Context, limiter ratelimit.Limiter, key string) error {
	ok, err := limiter.Allow(ctx, key)
	if err != nil {
		log.Printf("rate limiter unavailable: %v", err)
		return nil
	}
	if !ok {
		return httperr.ErrBusiness(httperr.CodeRateLimited)
	}
	return nil
}
