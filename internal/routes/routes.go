package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/jglobal-bizschool/coaching-api/internal/audit"
	"github.com/jglobal-bizschool/coaching-api/internal/config"
	"github.com/jglobal-bizschool/coaching-api/internal/handlers"
	infraRepo "github.com/jglobal-bizschool/coaching-api/internal/infra/repository"
	"github.com/jglobal-bizschool/coaching-api/internal/middleware"
	"github.com/jglobal-bizschool/coaching-api/internal/notify"
	"github.com/jglobal-bizschool/coaching-api/internal/ratelimit"
	"github.com/jglobal-bizschool/coaching-api/internal/scheduling"
	ucBooking "github.com/jglobal-bizschool/coaching-api/internal/usecase/booking"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	redisClient *redis.Client,
	gateway scheduling.Gateway,
	cfg *config.Config,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	mailer := notify.NewResendMailer(cfg.ResendAPIKey)
	notifyDispatcher := notify.NewDispatcher(mailer)
	notifier := notify.NewBookingNotifier(notifyDispatcher, cfg.FromEmail, cfg.LecturerEmail, cfg.AppURL)

	// Window sizes follow the public site's per-endpoint limits.
	bookLimiter := ratelimit.NewRedisLimiter(redisClient, "book", 5, 30*time.Minute)
	slotsLimiter := ratelimit.NewRedisLimiter(redisClient, "slots", 30, 5*time.Minute)
	contactLimiter := ratelimit.NewRedisLimiter(redisClient, "contact", 5, 15*time.Minute)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		gateway,
		bookLimiter,
		notifier,
		auditDispatcher,
	)

	cancelBookingUC := ucBooking.NewCancelBooking(
		bookingRepo,
		gateway,
		notifier,
		auditDispatcher,
	)

	rescheduleBookingUC := ucBooking.NewRescheduleBooking(
		bookingRepo,
		gateway,
		notifier,
		auditDispatcher,
	)

	getBookingUC := ucBooking.NewGetBooking(bookingRepo)

	availableSlotsUC := ucBooking.NewGetAvailableSlots(gateway, slotsLimiter)

	// ======================================================
	// HANDLERS
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		cancelBookingUC,
		rescheduleBookingUC,
		getBookingUC,
		availableSlotsUC,
	)

	contactHandler := handlers.NewContactHandler(db, contactLimiter, notifier)
	adminHandler := handlers.NewAdminHandler(db, bookingRepo, cfg)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// FREE COACHING (public)
		// ------------------------------
		coaching := api.Group("/free-coaching")
		{
			coaching.POST("/available-slots", bookingHandler.AvailableSlots)
			coaching.POST("/book", bookingHandler.Create)

			coaching.GET("/manage/:token", bookingHandler.Get)
			coaching.POST("/manage/:token/cancel", bookingHandler.Cancel)
			coaching.POST("/manage/:token/reschedule", bookingHandler.Reschedule)
		}

		// ------------------------------
		// CONTACT (public)
		// ------------------------------
		api.POST("/contact", contactHandler.Create)

		// ------------------------------
		// ADMIN
		// ------------------------------
		api.POST("/admin/login", adminHandler.Login)

		secured := api.Group("/admin")
		secured.Use(middleware.AdminAuthMiddleware(cfg))
		{
			secured.GET("/bookings", adminHandler.ListBookings)
			secured.GET("/audit-logs", adminHandler.ListAuditLogs)
		}
	}
}
