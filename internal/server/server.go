package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/tastytrove/backend/config"
	"github.com/tastytrove/backend/internal/api"
	"github.com/tastytrove/backend/internal/database"
	"github.com/tastytrove/backend/internal/service"
)

// Server owns the HTTP listener and its dependencies.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	db     *database.DB
	rdb    *redis.Client
}

// New assembles the gin engine, mounts the API under /api/v1 and prepares
// the listener. Redis and S3 are optional; the affected features degrade
// instead of failing startup.
func New(cfg *config.Config, db *database.DB, rdb *redis.Client, identity *service.IdentityService, s3 *config.S3Config) *Server {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		engine: engine,
		db:     db,
		rdb:    rdb,
		http: &http.Server{
			Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler:      engine,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	engine.GET("/health", s.health)

	v1 := engine.Group("/api/v1")
	api.RegisterRoutes(v1, db.Gorm, rdb, identity, s3)

	return s
}

// Engine exposes the underlying gin engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// health reports database and cache connectivity. The cache being down
// degrades the response but keeps the status 200; the database being down
// does not.
func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{
		"status":   "ok",
		"database": "up",
		"cache":    "disabled",
	}

	if err := s.db.HealthCheck(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = "down"
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}

	if s.rdb != nil {
		status["cache"] = "up"
		if err := s.rdb.Ping(ctx).Err(); err != nil {
			status["cache"] = "down"
		}
	}

	c.JSON(http.StatusOK, status)
}
