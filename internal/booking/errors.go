package booking

import (
	"errors"
	"strings"

	"salon-booking-backend/internal/store"
)

var (
	ErrInvalidService = errors.New("invalid service")
	ErrMissingFields  = errors.New("missing required fields")
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrStoreClosed    = errors.New("store is closed on this date")
	ErrOutsideHours   = errors.New("selected time is outside store hours")
	ErrBlockedSlot    = errors.New("selected time is not available (blocked)")
	// ErrSlotTaken is the store's conflict error, so callers can match either.
	ErrSlotTaken = store.ErrSlotTaken
)

// MissingFieldsError lists the absent request fields. It matches ErrMissingFields.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingFields
}
