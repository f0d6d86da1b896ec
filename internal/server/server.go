// file: internal/server/server.go
// version: 1.4.0
// guid: 2a3b4c5d-6e7f-8a9b-0c1d-2e3f4a5b6c7d

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gramseva/gazetteer/internal/config"
	"github.com/gramseva/gazetteer/internal/database"
	"github.com/gramseva/gazetteer/internal/gazetteer"
	"github.com/gramseva/gazetteer/internal/metrics"
	"github.com/gramseva/gazetteer/internal/server/middleware"
)

// Server wires the search engine and the store behind the HTTP API.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	store      database.Store
	engine     *gazetteer.Engine
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates a new server instance
func NewServer(store database.Store) *Server {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Register metrics (idempotent)
	metrics.Register()

	server := &Server{
		router: router,
		store:  store,
		engine: gazetteer.NewEngine(store),
	}

	server.setupRoutes()

	return server
}

// Router exposes the underlying handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM.
func (s *Server) Start(cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	go func() {
		log.Printf("[INFO] Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Refresh the per-type place gauges while running.
	ticker := time.NewTicker(30 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.updatePlaceGauges()
			case <-quit:
				return
			}
		}
	}()
	s.updatePlaceGauges()

	<-quit

	log.Println("[INFO] Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("[INFO] Server exited")
	return nil
}

func (s *Server) updatePlaceGauges() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts, err := s.store.CountByType(ctx)
	if err != nil {
		log.Printf("[DEBUG] failed to count places for gauges: %v", err)
		return
	}
	for t, n := range counts {
		metrics.SetPlaces(string(t), n)
	}
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint (both paths for compatibility)
	s.router.GET("/healthz", s.healthCheck)
	s.router.GET("/api/v1/health", s.healthCheck)

	limiter := middleware.NewIPRateLimiter(
		config.AppConfig.RateLimitPerSecond,
		config.AppConfig.RateLimitBurst,
	)

	api := s.router.Group("/api/v1")
	api.Use(limiter.Middleware())
	{
		api.GET("/search", s.handleSearch)

		api.GET("/places", s.listPlaces)
		api.POST("/places", s.createPlace)
		api.GET("/places/:id", s.getPlace)
		api.PUT("/places/:id", s.updatePlace)
		api.DELETE("/places/:id", s.deletePlace)
		api.GET("/places/:id/children", s.listChildren)
		api.GET("/places/:id/translations", s.listTranslations)
		api.POST("/places/:id/translations", s.addTranslation)

		api.GET("/stats", s.getStats)
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	counts, err := s.store.CountByType(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}

	places := make(map[string]int, len(counts))
	total := 0
	for t, n := range counts {
		places[string(t)] = n
		total += n
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"places": places,
		"total":  total,
	})
}

func (s *Server) getStats(c *gin.Context) {
	counts, err := s.store.CountByType(c.Request.Context())
	if err != nil {
		RespondWithInternalError(c, "failed to gather stats")
		return
	}
	RespondWithOK(c, counts)
}
