package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"hallbook/internal/auth"
	"hallbook/internal/availability"
	"hallbook/internal/booking"
	"hallbook/internal/config"
	"hallbook/internal/hall"
	"hallbook/internal/user"

	"github.com/gin-gonic/gin"
)

const (
	readHeaderTimeout = 5 * time.Second
	visitorTTL        = 3 * time.Minute
)

// Handlers are the HTTP entry points mounted by the server.
type Handlers struct {
	Users        *user.Handler
	Halls        *hall.Handler
	Bookings     *booking.Handler
	Availability *availability.Handler
}

type Server struct {
	router  *gin.Engine
	httpSrv *http.Server
	limiter *RateLimiter
}

func New(cfg *config.Config, h Handlers, health Pinger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())

	router.GET("/health", Health(health))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, visitorTTL)
	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)

	protected := router.Group("/")
	protected.Use(authMiddleware, RateLimitMiddleware(limiter))
	{
		protected.GET("/me", h.Users.GetMe)

		protected.GET("/halls", h.Halls.ListHalls)
		protected.GET("/halls/:hallID", h.Halls.GetHall)
		protected.GET("/availability", h.Availability.CheckAvailability)

		protected.POST("/bookings", h.Bookings.CreateBooking)
		protected.GET("/bookings", h.Bookings.ListMyBookings)
		protected.GET("/bookings/:bookingID", h.Bookings.GetBooking)
		protected.DELETE("/bookings/:bookingID", h.Bookings.CancelBooking)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(user.RoleAdmin), RateLimitMiddleware(limiter))
	{
		admin.POST("/halls", h.Halls.CreateHall)
		admin.PUT("/halls/:hallID", h.Halls.UpdateHall)
		admin.DELETE("/halls/:hallID", h.Halls.DeleteHall)
		admin.GET("/halls/:hallID/bookings", h.Bookings.ListBookingsByHall)
	}

	return &Server{
		router:  router,
		limiter: limiter,
		httpSrv: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.httpSrv.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
