package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tradebot/internal/interfaces"
	"tradebot/internal/logger"
	"tradebot/internal/render"
)

// Options configures Server.
type Options struct {
	Addr            string
	RunTimeout      time.Duration
	ShutdownTimeout time.Duration
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
}

// Server exposes the advisor over HTTP. Only one run executes at a time.
type Server struct {
	echo    *echo.Echo
	advisor interfaces.Advisor
	opts    Options
	running sync.Mutex
}

func New(adv interfaces.Advisor, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, advisor: adv, opts: opts}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info(c.Request().Context(), "HTTP request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
			)
			return nil
		},
	}))

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.health)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))

	g := s.echo.Group("/api/v1")
	g.POST("/suggestions", s.suggestions)
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", s.opts.Addr)
		if err := s.echo.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	logger.Info(ctx, "HTTP server stopped")
	return nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// suggestions runs the pipeline once. ?format=text returns the plain text
// report instead of JSON.
func (s *Server) suggestions(c echo.Context) error {
	if !s.running.TryLock() {
		return c.JSON(http.StatusConflict, render.FailureView{
			Error:     "a suggestion run is already in progress",
			Retryable: true,
		})
	}
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(c.Request().Context(), s.opts.RunTimeout)
	defer cancel()

	asText := strings.EqualFold(c.QueryParam("format"), "text")

	report, err := s.advisor.Run(ctx)
	if err != nil {
		status := http.StatusBadGateway
		if !render.NewFailureView(err).Retryable {
			status = http.StatusInternalServerError
		}
		if asText {
			c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
			c.Response().WriteHeader(status)
			return render.Failure(c.Response(), err)
		}
		return c.JSON(status, render.NewFailureView(err))
	}

	if asText {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
		c.Response().WriteHeader(http.StatusOK)
		return render.Text(c.Response(), report)
	}
	return c.JSON(http.StatusOK, render.NewView(report))
}
