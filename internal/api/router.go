package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"salon-booking-backend/config"
	"salon-booking-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mw.RequestID(), mw.Logger(log), gin.Recovery(), mw.CORS(cfg.AllowOrigins))

	r.GET("/health", h.Health)

	caching := func(c *gin.Context) { c.Next() }
	if h.cache != nil {
		caching = h.cache.Middleware()
	}

	api := r.Group("/api")
	if cfg.RateLimitPerSec > 0 {
		api.Use(mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader))
	}
	{
		api.GET("/services", caching, h.GetServices)
		api.GET("/availability", caching, h.GetAvailability)
		api.POST("/bookings", h.CreateBooking)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
		api.POST("/auth/login", h.Login)
	}

	admin := api.Group("/admin", mw.RequireAdmin(h.auth))
	{
		admin.GET("/me", h.Me)

		admin.GET("/bookings", h.ListBookings)
		admin.POST("/bookings", h.CreateAdminBooking)
		admin.GET("/bookings/export", h.ExportBookings)
		admin.GET("/bookings/calendar.ics", h.CalendarBookings)

		admin.GET("/hours", h.GetHours)
		admin.PUT("/hours", h.PutHours)

		admin.GET("/rules", h.ListRules)
		admin.POST("/rules", h.CreateRule)
		admin.DELETE("/rules/:id", h.DeleteRule)
	}

	return r
}
