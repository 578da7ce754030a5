package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"opsassistant/internal/backend"
	"opsassistant/internal/cache"
	"opsassistant/internal/config"
	"opsassistant/internal/handlers"
	"opsassistant/internal/metrics"
	"opsassistant/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Server represents the dashboard server
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	logger   zerolog.Logger
	store    cache.Store
	api      *backend.Client
	sessions *session.Manager
}

// New creates a new server instance over the shared session store
func New(cfg *config.Config, store cache.Store, logger zerolog.Logger) *Server {
	return &Server{
		config:   cfg,
		logger:   logger,
		store:    store,
		api:      backend.New(cfg.BackendURL, cfg.BackendTimeoutDuration(), logger),
		sessions: session.NewManager(store, cfg.SessionTTL(), cfg.SessionCookieSecure, logger),
	}
}

// zerologMiddleware creates a zerolog-based logging middleware for Echo
func (s *Server) zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			event := s.logger.Info().
				Str("method", req.Method).
				Str("uri", req.RequestURI).
				Str("remote_ip", c.RealIP()).
				Int("status", res.Status).
				Int64("latency_ms", time.Since(start).Milliseconds()).
				Str("user_agent", req.UserAgent())
			if sess := session.FromContext(c); sess != nil {
				event = event.Str("session_id", sess.ID)
			}
			event.Msg("HTTP request")

			return err
		}
	}
}

// metricsMiddleware records request latency by route
func (s *Server) metricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Code
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// corsMiddleware lets the configured dashboard origins send the session
// cookie. Without configured origins any origin may call the API, but
// browsers then withhold the cookie from cross-origin requests.
func (s *Server) corsMiddleware() echo.MiddlewareFunc {
	if len(s.config.CORSAllowedOrigins) == 0 {
		return middleware.CORS()
	}
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.config.CORSAllowedOrigins,
		AllowCredentials: true,
	})
}

// Initialize sets up the Echo framework with middleware and routes
func (s *Server) Initialize() {
	s.echo = echo.New()

	// Middleware
	s.echo.Use(s.zerologMiddleware())
	s.echo.Use(middleware.Recover())
	s.echo.Use(s.corsMiddleware())
	if s.config.MetricsEnabled {
		s.echo.Use(s.metricsMiddleware())
	}

	// Hide Echo banner
	s.echo.HideBanner = true

	// Setup routes
	s.setupRoutes()
}

// setupRoutes configures all the application routes
func (s *Server) setupRoutes() {
	logger := s.logger
	pageSize := s.config.InboxPageSize

	// Swagger documentation
	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	// Health endpoints (keep at root level for monitoring)
	s.echo.GET("/healthz", handlers.HealthHandler(s.config.Version))
	s.echo.GET("/healthz/backend", handlers.BackendHealthHandler(s.api))
	storeChecker, _ := s.store.(handlers.HealthChecker)
	s.echo.GET("/healthz/store", handlers.StoreHealthHandler(s.config.SessionStore, storeChecker))

	if s.config.MetricsEnabled {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	// API group with /api prefix, every request carries a session
	api := s.echo.Group("/api", session.Middleware(s.sessions))

	api.GET("/", handlers.RootHandler(s.config.Version))

	// Inbox
	api.GET("/inbox", handlers.InboxHandler(s.api, logger))
	api.POST("/inbox/reset", handlers.InboxResetHandler(s.api, pageSize, logger))
	api.POST("/inbox/more", handlers.InboxMoreHandler(s.api, pageSize, logger))
	api.POST("/inbox/selection/:id", handlers.ToggleSelectionHandler(s.api, logger))
	api.POST("/inbox/analyze-selected", handlers.AnalyzeSelectedHandler(s.api, logger))

	// History
	api.GET("/history", handlers.HistoryHandler(s.api, logger))
	api.GET("/history/export", handlers.ExportHistoryHandler(s.api, logger))
	api.PUT("/history/:id/reply", handlers.SuggestedReplyHandler(s.api, logger))

	// Email actions
	api.POST("/analyze-email", handlers.AnalyzeEmailHandler(s.api, logger))
	api.POST("/send-reply", handlers.SendReplyHandler(s.api, logger))
	api.POST("/create-draft", handlers.CreateDraftHandler(s.api, logger))

	// Knowledge base
	api.GET("/knowledge", handlers.KnowledgeHandler(s.api, logger))
	api.POST("/knowledge", handlers.AddKnowledgeHandler(s.api, logger))
	api.DELETE("/knowledge/:id", handlers.DeleteKnowledgeHandler(s.api, logger))

	// Settings
	api.GET("/settings", handlers.SettingsHandler(s.api, logger))
	api.POST("/settings", handlers.SaveSettingsHandler(s.api, logger))

	// Dashboard and Gmail connection
	api.GET("/analytics", handlers.AnalyticsHandler(s.api, logger))
	api.GET("/gmail-status", handlers.GmailStatusHandler(s.api, logger))
	api.POST("/connect", handlers.ConnectHandler(s.api, logger))
	api.POST("/logout", handlers.LogoutHandler(s.api, s.sessions, logger))
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().
		Str("port", s.config.Port).
		Str("backend", s.api.BaseURL()).
		Str("session_store", s.config.SessionStore).
		Msg("Server starting")
	return s.echo.Start(":" + s.config.Port)
}

// Shutdown stops the HTTP server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
