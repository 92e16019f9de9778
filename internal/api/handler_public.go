package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salon-booking-backend/internal/booking"
	"salon-booking-backend/internal/model"
)

// subscription is the browser PushSubscription JSON shape.
type subscription struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256DH string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

type bookingRequest struct {
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email"`
	ServiceID    string        `json:"serviceId"`
	Date         string        `json:"date"`
	Time         string        `json:"time"`
	Subscription *subscription `json:"subscription"`
}

func (r bookingRequest) toRequest() booking.Request {
	req := booking.Request{
		Name:      r.Name,
		Phone:     r.Phone,
		Email:     r.Email,
		ServiceID: r.ServiceID,
		Date:      r.Date,
		Time:      r.Time,
	}
	if s := r.Subscription; s != nil {
		req.Push = model.PushSubscription{Endpoint: s.Endpoint, P256DH: s.Keys.P256DH, Auth: s.Keys.Auth}
	}
	return req
}

// Health reports liveness and which storage backend is serving requests.
func (h *Handler) Health(c *gin.Context) {
	body := gin.H{
		"ok":      true,
		"time":    h.now().UTC().Format(time.RFC3339),
		"storage": h.store.Mode(),
	}
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.log.Warn("health ping failed", zap.Error(err))
		body["ok"] = false
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

// GetServices returns the catalog, flat and grouped by category.
func (h *Handler) GetServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"services":   h.catalog.All(),
		"categories": h.catalog.ByCategory(),
	})
}

// GetAvailability returns the bookable start times for a date and service.
func (h *Handler) GetAvailability(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	serviceID := strings.TrimSpace(c.Query("serviceId"))

	var missing []string
	if date == "" {
		missing = append(missing, "date")
	}
	if serviceID == "" {
		missing = append(missing, "serviceId")
	}
	if len(missing) > 0 {
		writeError(c, &booking.MissingFieldsError{Fields: missing})
		return
	}

	avail, err := h.bookings.Availability(c.Request.Context(), date, serviceID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, avail)
}

// CreateBooking admits a customer booking. Email is required.
func (h *Handler) CreateBooking(c *gin.Context) {
	h.createBooking(c, h.bookings.BookPublic)
}

func (h *Handler) createBooking(c *gin.Context, book func(ctx context.Context, req booking.Request) (model.Booking, error)) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	b, err := book(c.Request.Context(), req.toRequest())
	if err != nil {
		writeError(c, err)
		return
	}
	h.invalidate()

	c.JSON(http.StatusCreated, gin.H{"success": true, "booking": b})
}
