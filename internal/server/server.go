// Package server exposes the classifier over HTTP: image analysis, health,
// vocabulary introspection, and Prometheus metrics. Every response — success
// or failure — carries a JSON body.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/verdant-labs/cropscan/internal/classify"
	"github.com/verdant-labs/cropscan/internal/config"
)

// Server routes HTTP requests to the classifier and the advisory lookup.
type Server struct {
	cls    *classify.Classifier
	cfg    config.ServerConfig
	router *gin.Engine
}

// New builds the router. The classifier is injected once at construction and
// shared read-only across requests.
func New(cls *classify.Classifier, cfg config.ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{cls: cls, cfg: cfg}

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(requestIDMiddleware())
	r.Use(metricsMiddleware())
	r.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		slog.Error("handler panicked", "panic", err, "request_id", requestID(c))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"error": "Server error. Please try again."})
	}))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	r.GET("/classes", s.handleClasses)
	r.POST("/analyze", s.handleAnalyze)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	c.AllowHeaders = []string{"Content-Type", "Authorization"}
	if len(origins) == 1 && origins[0] == "*" {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

const requestIDKey = "request_id"

// requestIDMiddleware tags each request with a uuid, echoed in the
// X-Request-ID header and attached to log lines.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
