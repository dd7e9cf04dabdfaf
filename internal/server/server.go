package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/viewport"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MapBuilder produces shipment maps and viewports.
type MapBuilder interface {
	Build(ctx context.Context, shipmentID string, device *viewport.GeoPoint) (*models.MapView, error)
	Refresh(ctx context.Context, shipmentID string, device *viewport.GeoPoint) (*models.MapView, error)
	Fit(points []viewport.GeoPoint, padding *float64) (viewport.Region, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the map API together with health and metrics endpoints.
type Server struct {
	log  *slog.Logger
	maps MapBuilder
	db   Pinger
	reg  prometheus.Gatherer
}

// New creates a Server.
func New(log *slog.Logger, maps MapBuilder, db Pinger, reg prometheus.Gatherer) *Server {
	return &Server{log: log, maps: maps, db: db, reg: reg}
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	v1.GET("/shipments/:id/map", s.shipmentMap)
	v1.POST("/shipments/:id/refresh", s.refreshShipmentMap)
	v1.POST("/viewport", s.fitViewport)

	return r
}

// Run serves the API on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "Starting HTTP server", "port", port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownTimeout := 5 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}

	return nil
}

func (s *Server) healthz(c *gin.Context) {
	ctx := c.Request.Context()
	s.log.DebugContext(ctx, "Performing health checks...")

	status, body := http.StatusOK, "OK"
	if err := s.db.Ping(ctx); err != nil {
		s.log.ErrorContext(ctx, "Database ping failed", "error", err)
		status, body = http.StatusServiceUnavailable, "DB ping failed"
	}

	c.String(status, body)
	s.log.DebugContext(ctx, "Health checks completed", "status", status)
}

// accessLog logs every request at a level derived from the response status.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelDebug
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		s.log.LogAttrs(c.Request.Context(), level, c.Request.Method+" "+c.FullPath(),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes_out", c.Writer.Size()),
		)
	}
}
