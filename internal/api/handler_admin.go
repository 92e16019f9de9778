package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salon-booking-backend/internal/clock"
	"salon-booking-backend/internal/export"
	"salon-booking-backend/internal/model"
	"salon-booking-backend/internal/schedule"
)

// fromQuery reads the optional from=YYYY-MM-DD filter.
func fromQuery(c *gin.Context) (string, error) {
	from := strings.TrimSpace(c.Query("from"))
	if from == "" {
		return "", nil
	}
	if _, err := clock.ParseDate(from); err != nil {
		return "", err
	}
	return from, nil
}

// ListBookings returns bookings on or after from.
func (h *Handler) ListBookings(c *gin.Context) {
	from, err := fromQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	bookings, err := h.store.ListBookings(c.Request.Context(), from)
	if err != nil {
		writeError(c, err)
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// CreateAdminBooking admits a booking taken by staff. Email is optional.
func (h *Handler) CreateAdminBooking(c *gin.Context) {
	h.createBooking(c, h.bookings.BookAdmin)
}

// ExportBookings streams bookings on or after from as an xlsx workbook.
func (h *Handler) ExportBookings(c *gin.Context) {
	from, err := fromQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	bookings, err := h.store.ListBookings(c.Request.Context(), from)
	if err != nil {
		writeError(c, err)
		return
	}
	buf, err := export.Bookings(bookings)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(from)+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// CalendarBookings serves bookings on or after from as an iCalendar feed.
func (h *Handler) CalendarBookings(c *gin.Context) {
	from, err := fromQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	bookings, err := h.store.ListBookings(c.Request.Context(), from)
	if err != nil {
		writeError(c, err)
		return
	}
	feed, err := export.Calendar(bookings, h.studio, h.now())
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="bookings.ics"`)
	c.Data(http.StatusOK, export.CalendarContentType, []byte(feed))
}

// GetHours returns the base opening hours.
func (h *Handler) GetHours(c *gin.Context) {
	hours, err := h.store.GetHours(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hours)
}

// PutHours replaces the base opening hours.
func (h *Handler) PutHours(c *gin.Context) {
	var hours model.StoreHours
	if err := c.ShouldBindJSON(&hours); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	hours, err := schedule.NormalizeHours(hours)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.store.SaveHours(c.Request.Context(), hours); err != nil {
		writeError(c, err)
		return
	}
	h.invalidate()

	c.JSON(http.StatusOK, hours)
}

// ListRules returns rules on or after from.
func (h *Handler) ListRules(c *gin.Context) {
	from, err := fromQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	rules, err := h.store.ListRules(c.Request.Context(), from)
	if err != nil {
		writeError(c, err)
		return
	}
	if rules == nil {
		rules = []model.DayRule{}
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// CreateRule stores a date-scoped override. A date holds at most one rule per kind.
func (h *Handler) CreateRule(c *gin.Context) {
	var rule model.DayRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	rule.ID, rule.CreatedAt = "", time.Time{}
	rule, err := schedule.NormalizeRule(rule)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.store.CreateRule(c.Request.Context(), &rule); err != nil {
		writeError(c, err)
		return
	}
	h.invalidate()
	h.log.Info("rule created", zap.String("date", rule.Date), zap.String("kind", string(rule.Kind)))

	c.JSON(http.StatusCreated, rule)
}

// DeleteRule removes a rule. Unknown ids succeed.
func (h *Handler) DeleteRule(c *gin.Context) {
	if err := h.store.DeleteRule(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	h.invalidate()

	c.JSON(http.StatusOK, gin.H{"success": true})
}
