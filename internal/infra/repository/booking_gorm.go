package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/jglobal-bizschool/coaching-api/internal/domain/booking"
	"github.com/jglobal-bizschool/coaching-api/internal/httperr"
	"github.com/jglobal-bizschool/coaching-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Lookup
// --------------------------------------------------

func (r *BookingGormRepository) FindByToken(
	ctx context.Context,
	token string,
) (*models.Booking, error) {

	var b models.Booking
	res := r.db.WithContext(ctx).
		Where("cancellation_token = ?", token).
		Limit(1).
		Find(&b)

	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &b, nil
}

func (r *BookingGormRepository) FindLatestDescendant(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	res := r.db.WithContext(ctx).
		Where("original_booking_id = ?", bookingID).
		Order("created_at DESC").
		Limit(1).
		Find(&b)

	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &b, nil
}

func (r *BookingGormRepository) FindLatestConfirmedDescendant(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	res := r.db.WithContext(ctx).
		Where("original_booking_id = ? AND status = ?", bookingID, string(domain.StatusConfirmed)).
		Order("created_at DESC").
		Limit(1).
		Find(&b)

	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &b, nil
}

// --------------------------------------------------
// Writes
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	// A token collision trips the unique index; that is a constraint
	// violation surfaced as an insert error, not silently retried.
	b.CancellationToken = uuid.NewString()

	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingGormRepository) CancelIfConfirmed(
	ctx context.Context,
	bookingID uint,
	now time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, string(domain.StatusConfirmed)).
		Updates(map[string]any{
			"status":       string(domain.StatusCancelled),
			"cancelled_at": now,
		})

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *BookingGormRepository) CreateRescheduled(
	ctx context.Context,
	newBooking *models.Booking,
	oldBookingID uint,
	now time.Time,
) error {

	newBooking.CancellationToken = uuid.NewString()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		res := tx.
			Model(&models.Booking{}).
			Where("id = ? AND status = ?", oldBookingID, string(domain.StatusConfirmed)).
			Updates(map[string]any{
				"status":         string(domain.StatusRescheduled),
				"rescheduled_at": now,
			})

		if res.Error != nil {
			return res.Error
		}

		// A concurrent cancel or reschedule already won.
		if res.RowsAffected == 0 {
			return httperr.ErrBusiness(httperr.CodeInvalidState)
		}

		return tx.Create(newBooking).Error
	})
}

// --------------------------------------------------
// Admin
// --------------------------------------------------

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Order("event_date DESC").
		Find(&bookings).Error

	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
