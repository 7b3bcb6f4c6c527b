package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FirstName string `gorm:"size:100" json:"first_name"`
	LastName  string `gorm:"size:100" json:"last_name"`
	Email     string `gorm:"size:255" json:"email"`
	Phone     string `gorm:"size:50" json:"phone"`
	Message   string `gorm:"size:2000" json:"message"`

	// Session start in the business timezone. Duration is always 30 minutes;
	// the end instant is derived, never stored.
	EventDate time.Time `gorm:"index" json:"event_date"`

	Status string `gorm:"size:20;default:'confirmed'" json:"status"`

	// Opaque secret handed to the client for self-service access.
	// The row id is never exposed outside the admin dashboard.
	CancellationToken string `gorm:"size:36;uniqueIndex" json:"cancellation_token"`

	GoogleCalendarEventID string `gorm:"size:255" json:"google_calendar_event_id"`
	ZoomMeetingID         string `gorm:"size:64" json:"zoom_meeting_id"`
	ZoomJoinURL           string `gorm:"size:512" json:"zoom_join_url"`

	// Back-reference to the booking this row replaced via reschedule.
	OriginalBookingID *uint `gorm:"index" json:"original_booking_id"`

	RescheduledAt *time.Time `json:"rescheduled_at"`
	CancelledAt   *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
