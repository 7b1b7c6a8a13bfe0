package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services groups the application services exposed over HTTP.
type Services struct {
	Users    domain.UserService
	Items    domain.ItemService
	Bookings domain.BookingService
	Requests domain.RequestService
}

// HTTPServer serves the ShareIt JSON API.
type HTTPServer struct {
	cfg    *config.APIConfig
	svc    Services
	ready  Pinger
	logger *zerolog.Logger
	router *gin.Engine
	server *http.Server
}

func NewHTTPServer(cfg *config.APIConfig, svc Services, ready Pinger, logger *zerolog.Logger) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	srv := &HTTPServer{cfg: cfg, svc: svc, ready: ready, logger: logger}
	srv.router = srv.routes()
	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return srv
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.Use(requestID(), accessLog(s.logger), recovery(s.logger))

	if len(s.cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  s.cfg.CORS.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", userIDHeader},
			ExposeHeaders: []string{"Content-Length", requestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/readyz", s.handleReady)

	users := r.Group("/users")
	users.POST("", s.createUser)
	users.GET("", s.listUsers)
	users.GET("/:id", s.getUser)
	users.PATCH("/:id", s.updateUser)
	users.DELETE("/:id", s.deleteUser)

	items := r.Group("/items")
	items.GET("/search", s.searchItems)
	items.POST("", s.createItem)
	items.GET("", s.listOwnerItems)
	items.GET("/:id", s.getItem)
	items.PATCH("/:id", s.updateItem)
	items.POST("/:id/comment", s.addComment)

	bookings := r.Group("/bookings")
	bookings.POST("", s.createBooking)
	bookings.GET("", s.listUserBookings)
	bookings.GET("/owner", s.listOwnerBookings)
	bookings.GET("/owner/export", s.exportOwnerBookings)
	bookings.GET("/:id", s.getBooking)
	bookings.PATCH("/:id", s.approveBooking)
	bookings.PATCH("/:id/cancel", s.cancelBooking)

	requests := r.Group("/requests")
	requests.POST("", s.createRequest)
	requests.GET("", s.listOwnRequests)
	requests.GET("/all", s.listOtherRequests)
	requests.GET("/:id", s.getRequest)

	r.NoRoute(func(c *gin.Context) {
		writeError(c, s.logger, fmt.Errorf("%w: no route %s %s", domain.ErrNotFound, c.Request.Method, c.Request.URL.Path))
	})
	return r
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleReady(c *gin.Context) {
	if s.ready == nil {
		c.String(http.StatusOK, "ok")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.ready.PingContext(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("readiness check failed")
		c.String(http.StatusServiceUnavailable, "unavailable")
		return
	}
	c.String(http.StatusOK, "ok")
}
