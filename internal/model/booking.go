package model

import (
	"time"

	"salon-booking-backend/internal/clock"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const StatusConfirmed BookingStatus = "confirmed"

// BookingSource records which entry point admitted a booking.
type BookingSource string

const (
	SourcePublic BookingSource = "public"
	SourceAdmin  BookingSource = "admin"
)

// Booking is a confirmed appointment. EndTime and the minute columns are
// denormalized from Time and DurationMinutes for overlap queries.
type Booking struct {
	ID              string           `gorm:"primaryKey;size:36" json:"id"`
	Name            string           `gorm:"size:128;not null" json:"name"`
	Phone           string           `gorm:"size:64;not null" json:"phone"`
	Email           string           `gorm:"size:256" json:"email,omitempty"`
	ServiceID       string           `gorm:"size:32;not null" json:"serviceId"`
	ServiceName     string           `gorm:"size:128;not null" json:"serviceName"`
	ServiceCategory string           `gorm:"size:64;not null" json:"serviceCategory"`
	Date            string           `gorm:"size:10;not null;index:idx_bookings_date_time,priority:1" json:"date"`
	Time            string           `gorm:"size:5;not null;index:idx_bookings_date_time,priority:2" json:"time"`
	EndTime         string           `gorm:"size:5;not null" json:"endTime"`
	DurationMinutes int              `gorm:"not null" json:"durationMinutes"`
	StartMinute     int              `gorm:"not null" json:"-"`
	EndMinute       int              `gorm:"not null" json:"-"`
	Status          BookingStatus    `gorm:"size:16;not null;default:confirmed" json:"status"`
	Source          BookingSource    `gorm:"size:16;not null" json:"source"`
	Push            PushSubscription `gorm:"embedded;embeddedPrefix:push_" json:"-"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// Interval returns the booking's occupied [time, endTime) range.
func (b Booking) Interval() clock.Interval {
	return clock.Interval{Start: clock.Minutes(b.StartMinute), End: clock.Minutes(b.EndMinute)}
}
