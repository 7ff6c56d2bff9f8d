package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tastytrove/backend/config"
	"github.com/tastytrove/backend/internal/database"
	"github.com/tastytrove/backend/internal/server"
	"github.com/tastytrove/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db.Gorm); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	rdb, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, rate limiting and stats caching disabled: %v", err)
		rdb = nil
	}

	ctx := context.Background()

	identity, err := service.NewIdentityService(ctx, db.Gorm, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize identity provider: %v", err)
	}

	var s3 *config.S3Config
	if cfg.AWSRegion != "" {
		s3, err = config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Printf("S3 unavailable, uploads disabled: %v", err)
			s3 = nil
		}
	} else {
		log.Printf("AWS_REGION not set, uploads disabled")
	}

	srv := server.New(cfg, db, rdb, identity, s3)

	go func() {
		log.Printf("Server listening on %s:%s", cfg.ServerHost, cfg.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}
	log.Printf("Server stopped")
}
