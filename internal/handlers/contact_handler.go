package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jglobal-bizschool/coaching-api/internal/httperr"
	"github.com/jglobal-bizschool/coaching-api/internal/models"
	"github.com/jglobal-bizschool/coaching-api/internal/notify"
	"github.com/jglobal-bizschool/coaching-api/internal/ratelimit"
	"github.com/jglobal-bizschool/coaching-api/internal/validators"
)

type ContactHandler struct {
	db       *gorm.DB
	limiter  ratelimit.Limiter
	notifier *notify.BookingNotifier
}

func NewContactHandler(db *gorm.DB, limiter ratelimit.Limiter, notifier *notify.BookingNotifier) *ContactHandler {
	return &ContactHandler{
		db:       db,
		limiter:  limiter,
		notifier: notifier,
	}
}

type ContactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

func (h *ContactHandler) Create(c *gin.Context) {
	allowed, err := h.limiter.Allow(c.Request.Context(), c.ClientIP())
	if err != nil {
		log.Printf("contact: rate limiter unavailable: %v", err)
	} else if !allowed {
		httperr.TooManyRequests(c, httperr.CodeRateLimited, "Too many requests. Please try again later.")
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if err := h.validate(req); err != nil {
		httperr.Respond(c, err)
		return
	}

	msg := models.ContactMessage{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Message:   req.Message,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&msg).Error; err != nil {
		httperr.Internal(c, "failed_to_save_message", "Failed to save message.")
		return
	}

	h.notifier.ContactReceived(&msg)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ContactHandler) validate(req ContactRequest) error {
	if err := validators.Required(req.FirstName, "First name"); err != nil {
		return err
	}
	if err := validators.Required(req.LastName, "Last name"); err != nil {
		return err
	}
	if err := validators.Required(req.Email, "Email"); err != nil {
		return err
	}
	if err := validators.Email(req.Email); err != nil {
		return err
	}
	if err := validators.Required(req.Message, "Message"); err != nil {
		return err
	}
	if err := validators.MinLength(req.Message, 10, "Message"); err != nil {
		return err
	}
	return validators.MaxLength(req.Message, 2000, "Message")
}
