package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-booking-backend/internal/auth"
	"salon-booking-backend/internal/booking"
	"salon-booking-backend/internal/clock"
	"salon-booking-backend/internal/schedule"
	"salon-booking-backend/internal/store"
)

var errInvalidRequest = errors.New("invalid request body")

// errorCodes is checked in order; the first match decides status and code.
var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{booking.ErrSlotTaken, http.StatusConflict, "slot_taken"},
	{store.ErrDuplicateRule, http.StatusConflict, "duplicate_rule"},
	{schedule.ErrInvalidRule, http.StatusBadRequest, "invalid_rule"},
	{schedule.ErrInvalidHours, http.StatusBadRequest, "invalid_hours"},
	{booking.ErrMissingFields, http.StatusBadRequest, "missing_fields"},
	{booking.ErrInvalidService, http.StatusBadRequest, "invalid_service"},
	{booking.ErrInvalidEmail, http.StatusBadRequest, "invalid_email"},
	{clock.ErrMalformedTime, http.StatusBadRequest, "malformed_time"},
	{clock.ErrMalformedDate, http.StatusBadRequest, "malformed_date"},
	{booking.ErrStoreClosed, http.StatusBadRequest, "store_closed"},
	{booking.ErrOutsideHours, http.StatusBadRequest, "outside_hours"},
	{booking.ErrBlockedSlot, http.StatusBadRequest, "blocked_slot"},
	{errInvalidRequest, http.StatusBadRequest, "invalid_request"},
	{auth.ErrInvalidCredential, http.StatusUnauthorized, "invalid_credentials"},
	{auth.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{auth.ErrForbidden, http.StatusForbidden, "forbidden"},
	{auth.ErrNotConfigured, http.StatusInternalServerError, "not_configured"},
	{store.ErrUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
}

// writeError maps err to a JSON error response. Server-side failures are
// attached to the gin context for the request logger and not echoed.
func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal"
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			status, code = e.status, e.code
			break
		}
	}

	body := gin.H{"error": err.Error(), "code": code}
	switch code {
	case "slot_taken":
		body["error"] = "time slot no longer available"
		body["retry"] = "choose a different slot"
	case "missing_fields":
		var mf *booking.MissingFieldsError
		if errors.As(err, &mf) {
			body["fields"] = mf.Fields
		}
	}
	if status >= http.StatusInternalServerError {
		c.Error(err)
		body["error"] = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, body)
}
