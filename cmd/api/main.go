package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jglobal-bizschool/coaching-api/internal/config"
	dbpkg "github.com/jglobal-bizschool/coaching-api/internal/db"
	"github.com/jglobal-bizschool/coaching-api/internal/middleware"
	"github.com/jglobal-bizschool/coaching-api/internal/ratelimit"
	"github.com/jglobal-bizschool/coaching-api/internal/routes"
	"github.com/jglobal-bizschool/coaching-api/internal/scheduling"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	redisClient := ratelimit.NewClient(cfg.RedisURL)

	calendar, err := scheduling.NewCalendarClient(
		cfg.GoogleServiceEmail,
		cfg.GooglePrivateKey,
		cfg.GoogleCalendarID,
	)
	if err != nil {
		log.Fatalf("failed to init calendar client: %v", err)
	}

	zoom := scheduling.NewZoomClient(
		cfg.ZoomAccountID,
		cfg.ZoomClientID,
		cfg.ZoomClientSecret,
	)

	gateway := scheduling.NewGateway(calendar, zoom)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, redisClient, gateway, cfg)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
