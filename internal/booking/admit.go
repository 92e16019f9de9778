// Package booking admits appointment requests against the schedule.
package booking

import (
	"fmt"
	"net/mail"
	"strings"

	"salon-booking-backend/internal/catalog"
	"salon-booking-backend/internal/clock"
	"salon-booking-backend/internal/model"
	"salon-booking-backend/internal/schedule"
)

// Request is an unvalidated booking request.
type Request struct {
	Name      string                 `json:"name"`
	Phone     string                 `json:"phone"`
	Email     string                 `json:"email"`
	ServiceID string                 `json:"serviceId"`
	Date      string                 `json:"date"`
	Time      string                 `json:"time"`
	Push      model.PushSubscription `json:"subscription"`
}

// ServiceLookup resolves a service id to its catalog entry.
type ServiceLookup interface {
	Lookup(id string) (catalog.Service, error)
}

// Admit decides whether req can be booked given the base hours, the rules and
// the existing bookings of its date. Checks run in a fixed order and the first
// failure is returned. Only confirmed bookings on req.Date count as conflicts.
// The returned booking is confirmed but not yet persisted.
func Admit(req Request, services ServiceLookup, hours model.StoreHours, rules []model.DayRule, existing []model.Booking) (model.Booking, error) {
	svc, err := services.Lookup(req.ServiceID)
	if err != nil {
		return model.Booking{}, fmt.Errorf("%w: %q", ErrInvalidService, req.ServiceID)
	}

	start, err := clock.ParseTime(req.Time)
	if err != nil {
		return model.Booking{}, err
	}
	slot := clock.Interval{Start: start, End: start + clock.Minutes(svc.DurationMinutes)}

	res, err := schedule.Resolve(req.Date, hours, rules)
	if err != nil {
		return model.Booking{}, err
	}
	if res.Closed {
		return model.Booking{}, ErrStoreClosed
	}
	if slot.Start < res.Open || slot.End > res.Close {
		return model.Booking{}, fmt.Errorf("%w: open %s-%s", ErrOutsideHours, res.Open, res.Close)
	}
	for _, b := range res.Blocks {
		if slot.Overlaps(b) {
			return model.Booking{}, fmt.Errorf("%w: %s", ErrBlockedSlot, b)
		}
	}
	for _, b := range existing {
		if b.Date != req.Date || b.Status != model.StatusConfirmed {
			continue
		}
		if slot.Overlaps(b.Interval()) {
			return model.Booking{}, ErrSlotTaken
		}
	}

	return model.Booking{
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		ServiceID:       svc.ID,
		ServiceName:     svc.Name,
		ServiceCategory: svc.Category,
		Date:            req.Date,
		Time:            slot.Start.String(),
		EndTime:         slot.End.String(),
		DurationMinutes: svc.DurationMinutes,
		StartMinute:     int(slot.Start),
		EndMinute:       int(slot.End),
		Status:          model.StatusConfirmed,
		Push:            req.Push,
	}, nil
}

// validate trims req in place and checks the fields required by the entry
// point. Email is validated whenever present.
func validate(req *Request, emailRequired bool) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)

	fields := []struct {
		name  string
		value string
		need  bool
	}{
		{"name", req.Name, true},
		{"phone", req.Phone, true},
		{"email", req.Email, emailRequired},
		{"serviceId", req.ServiceID, true},
		{"date", req.Date, true},
		{"time", req.Time, true},
	}
	var missing []string
	for _, f := range fields {
		if f.need && f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	if req.Email != "" {
		addr, err := mail.ParseAddress(req.Email)
		if err != nil || addr.Address != req.Email {
			return fmt.Errorf("%w: %q", ErrInvalidEmail, req.Email)
		}
	}
	return nil
}
