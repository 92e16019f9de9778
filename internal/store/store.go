package store

import (
	"context"
	"errors"

	"salon-booking-backend/internal/model"
)

var (
	// ErrSlotTaken is returned when a confirmed booking already occupies part of the requested range.
	ErrSlotTaken = errors.New("time slot no longer available")
	// ErrDuplicateRule is returned when the date already has a rule of the same kind.
	ErrDuplicateRule = errors.New("a rule of this kind already exists for the date")
	// ErrUnavailable wraps failures of the underlying database.
	ErrUnavailable = errors.New("store unavailable")
)

// RuleStore persists date-scoped overrides.
type RuleStore interface {
	FindRules(ctx context.Context, date string) ([]model.DayRule, error)
	CreateRule(ctx context.Context, rule *model.DayRule) error
	DeleteRule(ctx context.Context, id string) error
	// ListRules returns rules dated on or after from (all when from is empty), ordered by date.
	ListRules(ctx context.Context, from string) ([]model.DayRule, error)
}

// BookingStore persists bookings.
type BookingStore interface {
	FindBookings(ctx context.Context, date string) ([]model.Booking, error)
	// CreateBooking inserts b unless a confirmed booking on the same date
	// overlaps it, in which case it returns ErrSlotTaken. The check and the
	// insert are atomic with respect to other CreateBooking calls.
	CreateBooking(ctx context.Context, b *model.Booking) error
	// ListBookings returns bookings dated on or after from, ordered by date then time.
	ListBookings(ctx context.Context, from string) ([]model.Booking, error)
}

// HoursStore persists the base opening hours.
type HoursStore interface {
	GetHours(ctx context.Context) (model.StoreHours, error)
	SaveHours(ctx context.Context, hours model.StoreHours) error
}

// Store defines the interface for all persistence operations.
type Store interface {
	RuleStore
	BookingStore
	HoursStore
	// Mode names the backing implementation, e.g. "postgres" or "memory".
	Mode() string
	Ping(ctx context.Context) error
}
