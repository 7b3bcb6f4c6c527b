package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jglobal-bizschool/coaching-api/internal/httperr"
	"github.com/jglobal-bizschool/coaching-api/internal/models"
	ucBooking "github.com/jglobal-bizschool/coaching-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createUC     *ucBooking.CreateBooking
	cancelUC     *ucBooking.CancelBooking
	rescheduleUC *ucBooking.RescheduleBooking
	getUC        *ucBooking.GetBooking
	slotsUC      *ucBooking.GetAvailableSlots
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	cancelUC *ucBooking.CancelBooking,
	rescheduleUC *ucBooking.RescheduleBooking,
	getUC *ucBooking.GetBooking,
	slotsUC *ucBooking.GetAvailableSlots,
) *BookingHandler {
	return &BookingHandler{
		createUC:     createUC,
		cancelUC:     cancelUC,
		rescheduleUC: rescheduleUC,
		getUC:        getUC,
		slotsUC:      slotsUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:mm
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
}

type RescheduleBookingRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type AvailableSlotsRequest struct {
	Date string `json:"date" binding:"required"`
}

// ======================================================
// RESPONSES
// ======================================================

// BookingView exposes only the public fields; the row id never leaves
// the admin dashboard.
type BookingView struct {
	FirstName            string     `json:"firstName"`
	LastName             string     `json:"lastName"`
	Email                string     `json:"email"`
	PhoneNumber          string     `json:"phoneNumber"`
	Message              string     `json:"message"`
	EventDate            time.Time  `json:"eventDate"`
	Status               string     `json:"status"`
	ZoomJoinURL          string     `json:"zoomJoinUrl"`
	CreatedAt            time.Time  `json:"createdAt"`
	RescheduledAt        *time.Time `json:"rescheduledAt"`
	CancelledAt          *time.Time `json:"cancelledAt"`
	IsRescheduledBooking bool       `json:"isRescheduledBooking"`
}

func toBookingView(b *models.Booking) BookingView {
	return BookingView{
		FirstName:            b.FirstName,
		LastName:             b.LastName,
		Email:                b.Email,
		PhoneNumber:          b.Phone,
		Message:              b.Message,
		EventDate:            b.EventDate,
		Status:               b.Status,
		ZoomJoinURL:          b.ZoomJoinURL,
		CreatedAt:            b.CreatedAt,
		RescheduledAt:        b.RescheduledAt,
		CancelledAt:          b.CancelledAt,
		IsRescheduledBooking: b.OriginalBookingID != nil,
	}
}

func locale(c *gin.Context) string {
	if l := c.GetHeader("X-Locale"); l != "" {
		return l
	}
	return "ja"
}

// ======================================================
// AVAILABLE SLOTS
// ======================================================

func (h *BookingHandler) AvailableSlots(c *gin.Context) {
	var req AvailableSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	slots, err := h.slotsUC.Execute(c.Request.Context(), req.Date, c.ClientIP())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":           req.Date,
		"availableSlots": slots,
	})
}

// ======================================================
// BOOK
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		Date:      req.Date,
		Time:      req.Time,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Locale:    locale(c),
		ClientKey: c.ClientIP(),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"booking":           toBookingView(b),
		"cancellationToken": b.CancellationToken,
	})
}

// ======================================================
// MANAGE (token-scoped)
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	details, err := h.getUC.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":                    toBookingView(details.Booking),
		"canReschedule":              details.CanReschedule,
		"canCancel":                  details.CanCancel,
		"hoursUntilEvent":            details.HoursUntilEvent,
		"isRedirectedFromOldBooking": details.IsRedirectedFromOldBooking,
	})
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	_, err := h.cancelUC.Execute(c.Request.Context(), c.Param("token"), locale(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking cancelled successfully",
	})
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	var req RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.rescheduleUC.Execute(c.Request.Context(), ucBooking.RescheduleBookingInput{
		Token:  c.Param("token"),
		Date:   req.Date,
		Time:   req.Time,
		Locale: locale(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"booking":           toBookingView(b),
		"cancellationToken": b.CancellationToken,
	})
}
