package booking

import (
	"context"
	"math"
	"time"

	domain "github.com/jglobal-bizschool/coaching-api/internal/domain/booking"
	"github.com/jglobal-bizschool/coaching-api/internal/models"
	"github.com/jglobal-bizschool/coaching-api/internal/timezone"
)

// BookingDetails is the token-scoped read model: the booking plus the
// gate flags the client needs to decide which actions to offer.
type BookingDetails struct {
	Booking *models.Booking

	CanReschedule              bool
	CanCancel                  bool
	HoursUntilEvent            float64
	IsRedirectedFromOldBooking bool
}

type GetBooking struct {
	repo domain.Repository

	now func() time.Time
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{
		repo: repo,
		now:  timezone.Now,
	}
}

func (uc *GetBooking) Execute(
	ctx context.Context,
	token string,
) (*BookingDetails, error) {

	// Reads walk the chain regardless of status so a token still shows
	// its booking after cancellation.
	b, redirected, err := resolveByToken(ctx, uc.repo, token, false)
	if err != nil {
		return nil, err
	}

	now := uc.now()

	return &BookingDetails{
		Booking:                    b,
		CanReschedule:              domain.CanReschedule(b, now) == nil,
		CanCancel:                  domain.CanCancel(b, now) == nil,
		HoursUntilEvent:            math.Round(domain.HoursUntil(b.EventDate, now)*10) / 10,
		IsRedirectedFromOldBooking: redirected,
	}, nil
}
