// Package server exposes the engine over HTTP/JSON.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/learnloop/internal/engine"
	"github.com/abhisek/learnloop/internal/logging"
	"github.com/abhisek/learnloop/internal/monitoring"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server routes HTTP requests to the engine.
type Server struct {
	engine  *engine.Engine
	metrics *monitoring.Metrics
	db      Pinger
	logger  *zap.Logger
	router  *gin.Engine
}

// New builds the router. mode is a gin mode ("debug", "release", "test").
func New(eng *engine.Engine, metrics *monitoring.Metrics, db Pinger, logger *zap.Logger, mode string) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	if mode != "" {
		gin.SetMode(mode)
	}

	s := &Server{
		engine:  eng,
		metrics: metrics,
		db:      db,
		logger:  logger,
		router:  gin.New(),
	}
	s.router.Use(gin.Recovery(), s.requestLogger(), metrics.MetricsMiddleware())
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.health)
	if s.metrics != nil {
		s.router.GET("/metrics", s.metrics.PrometheusHandler())
	}

	v1 := s.router.Group("/v1")
	{
		v1.GET("/courses", s.listCourses)
		v1.GET("/courses/:course/scoreboard", s.scoreboard)

		v1.POST("/events", s.submitEvent)

		learner := v1.Group("/learners/:learner")
		learner.GET("/items/:item/schedule", s.schedule)
		learner.GET("/courses/:course/schedules", s.schedules)
		learner.GET("/courses/:course/due", s.due)
		learner.GET("/courses/:course/next", s.nextByType)
		learner.GET("/courses/:course/progress", s.progress)

		learner.GET("/playertype", s.profile)
		learner.PUT("/playertype", s.submitQuestionnaire)
		learner.POST("/playertype/classify", s.classify)

		v1.GET("/playertype/questionnaire", s.questionnaire)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	if s.db != nil {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			fail(c, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}
	success(c, gin.H{"status": "ok"})
}
