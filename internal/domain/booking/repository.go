package booking

import (
	"context"
	"time"

	"github.com/jglobal-bizschool/coaching-api/internal/models"
)

type Repository interface {
	// -------- Lookup --------
	FindByToken(
		ctx context.Context,
		token string,
	) (*models.Booking, error)

	// FindLatestDescendant returns the most recently created row whose
	// original_booking_id matches, regardless of status. Nil when none.
	FindLatestDescendant(
		ctx context.Context,
		bookingID uint,
	) (*models.Booking, error)

	// FindLatestConfirmedDescendant is the same walk restricted to
	// confirmed rows, used when resolving a mutation target.
	FindLatestConfirmedDescendant(
		ctx context.Context,
		bookingID uint,
	) (*models.Booking, error)

	// -------- Writes --------

	// CreateBooking inserts the row and fills ID plus a fresh
	// cancellation token atomically.
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// CancelIfConfirmed flips status to cancelled with cancelled_at=now,
	// conditioned on the row still being confirmed. Returns false when
	// the condition failed (a concurrent transition won).
	CancelIfConfirmed(
		ctx context.Context,
		bookingID uint,
		now time.Time,
	) (bool, error)

	// CreateRescheduled inserts the replacement row and marks the old row
	// rescheduled in one transaction. The old-row update is conditioned on
	// status still being confirmed; the pair commits together or not at all.
	CreateRescheduled(
		ctx context.Context,
		newBooking *models.Booking,
		oldBookingID uint,
		now time.Time,
	) error

	// -------- Admin --------
	ListBookings(
		ctx context.Context,
	) ([]models.Booking, error)
}
