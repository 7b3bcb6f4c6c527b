package booking

import (
	"context"
	"log"
	"regexp"
	"time"

	domain "github.com/jglobal-bizschool/coaching-api/internal/domain/booking"
	"github.com/jglobal-bizschool/coaching-api/internal/httperr"
	"github.com/jglobal-bizschool/coaching-api/internal/ratelimit"
	"github.com/jglobal-bizschool/coaching-api/internal/scheduling"
	"github.com/jglobal-bizschool/coaching-api/internal/timezone"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type GetAvailableSlots struct {
	gateway scheduling.Gateway
	limiter ratelimit.Limiter

	now func() time.Time
}

func NewGetAvailableSlots(
	gateway scheduling.Gateway,
	limiter ratelimit.Limiter,
) *GetAvailableSlots {
	return &GetAvailableSlots{
		gateway: gateway,
		limiter: limiter,
		now:     timezone.Now,
	}
}

// Execute returns the open "HH:MM" slots for a date, template order
// preserved. Advisory only; Create re-checks the calendar.
func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	date string,
	clientKey string,
) ([]string, error) {

	if err := allow(ctx, uc.limiter, clientKey); err != nil {
		return nil, err
	}

	if !datePattern.MatchString(date) {
		return nil, httperr.ErrValidation("Invalid date format")
	}

	day, err := timezone.ParseDate(date)
	if err != nil {
		return nil, httperr.ErrValidation("Invalid date")
	}

	dayStart := day
	dayEnd := day.Add(24*time.Hour - time.Second)

	busyIntervals, err := uc.gateway.ListBusy(ctx, dayStart, dayEnd)
	if err != nil {
		log.Printf("available slots: list busy: %v", err)
		return nil, httperr.ErrBusiness(httperr.CodeUpstream)
	}

	busy := make([]domain.Interval, 0, len(busyIntervals))
	for _, iv := range busyIntervals {
		busy = append(busy, domain.Interval{Start: iv.Start, End: iv.End})
	}

	return domain.AvailableSlots(day, busy, uc.now()), nil
}
