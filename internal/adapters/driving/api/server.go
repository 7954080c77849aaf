package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aditya-mahendru/docMgr/internal/logger"
)

// Version is the API version reported by the root endpoint.
const Version = "1.0.0"

// DefaultBodyLimit caps request bodies.
const DefaultBodyLimit = "100M"

// Server is the HTTP server for docmgr.
type Server struct {
	ports *Ports
	echo  *echo.Echo
}

// NewServer creates a new HTTP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(DefaultBodyLimit))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	s := &Server{ports: ports, echo: e}
	s.registerRoutes()
	return s, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves HTTP on addr.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context, addr string) error {
	s.echo.Server.ReadHeaderTimeout = 10 * time.Second

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.echo.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleRoot)
	s.echo.GET("/health", s.handleHealth)

	g := s.echo.Group("/api")
	g.POST("/documents/upload", s.handleUpload)
	g.POST("/documents/upload-multiple", s.handleUploadMultiple)
	g.GET("/documents", s.handleListDocuments)
	g.GET("/documents/:id", s.handleGetDocument)
	g.DELETE("/documents/:id", s.handleDeleteDocument)
	g.GET("/documents/:id/chunks", s.handleGetChunks)
	g.POST("/documents/:id/reprocess", s.handleReprocess)
	g.POST("/search", s.handleSearch)
	g.GET("/vector/stats", s.handleVectorStats)
}
