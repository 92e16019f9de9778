package booking

import (
	"context"

	"go.uber.org/zap"

	"salon-booking-backend/internal/clock"
	"salon-booking-backend/internal/model"
	"salon-booking-backend/internal/schedule"
	"salon-booking-backend/internal/store"
)

// Notifier hands a confirmed booking off for delivery. Implementations must
// not block on delivery.
type Notifier interface {
	Dispatch(b model.Booking)
}

// Availability is the bookable slot list of one service on one date.
type Availability struct {
	Date      string   `json:"date"`
	ServiceID string   `json:"serviceId"`
	Duration  int      `json:"duration"`
	Open      string   `json:"open"`
	Close     string   `json:"close"`
	Closed    bool     `json:"closed"`
	Slots     []string `json:"slots"`
}

// Service runs admissions and availability queries against a store.
type Service struct {
	store    store.Store
	services ServiceLookup
	notifier Notifier
	log      *zap.Logger
}

// NewService creates a booking service. A nil notifier disables confirmations.
func NewService(st store.Store, services ServiceLookup, notifier Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, services: services, notifier: notifier, log: log}
}

// BookPublic admits a customer booking. Email is required.
func (s *Service) BookPublic(ctx context.Context, req Request) (model.Booking, error) {
	if err := validate(&req, true); err != nil {
		return model.Booking{}, err
	}
	return s.book(ctx, req, model.SourcePublic)
}

// BookAdmin admits a booking entered by staff. Email is optional; the caller
// is responsible for checking the admin role.
func (s *Service) BookAdmin(ctx context.Context, req Request) (model.Booking, error) {
	if err := validate(&req, false); err != nil {
		return model.Booking{}, err
	}
	return s.book(ctx, req, model.SourceAdmin)
}

func (s *Service) book(ctx context.Context, req Request, source model.BookingSource) (model.Booking, error) {
	hours, rules, err := s.day(ctx, req.Date)
	if err != nil {
		return model.Booking{}, err
	}
	existing, err := s.store.FindBookings(ctx, req.Date)
	if err != nil {
		return model.Booking{}, err
	}
	if res, err := schedule.Resolve(req.Date, hours, rules); err == nil {
		s.logWarnings(req.Date, res.Warnings)
	}

	b, err := Admit(req, s.services, hours, rules, existing)
	if err != nil {
		return model.Booking{}, err
	}
	b.Source = source

	// The store repeats the overlap check atomically; a booking committed
	// since FindBookings surfaces here as ErrSlotTaken.
	if err := s.store.CreateBooking(ctx, &b); err != nil {
		return model.Booking{}, err
	}

	s.log.Info("booking confirmed",
		zap.String("id", b.ID),
		zap.String("date", b.Date),
		zap.String("time", b.Time),
		zap.String("service", b.ServiceID),
		zap.String("source", string(b.Source)),
	)
	if s.notifier != nil {
		s.notifier.Dispatch(b)
	}
	return b, nil
}

// Availability lists the free start times for serviceID on date.
func (s *Service) Availability(ctx context.Context, date, serviceID string) (Availability, error) {
	svc, err := s.services.Lookup(serviceID)
	if err != nil {
		return Availability{}, ErrInvalidService
	}

	hours, rules, err := s.day(ctx, date)
	if err != nil {
		return Availability{}, err
	}
	res, err := schedule.Resolve(date, hours, rules)
	if err != nil {
		return Availability{}, err
	}
	s.logWarnings(date, res.Warnings)

	out := Availability{
		Date:      date,
		ServiceID: svc.ID,
		Duration:  svc.DurationMinutes,
		Open:      res.Open.String(),
		Close:     res.Close.String(),
		Closed:    res.Closed,
		Slots:     []string{},
	}
	if res.Closed {
		return out, nil
	}

	bookings, err := s.store.FindBookings(ctx, date)
	if err != nil {
		return Availability{}, err
	}
	booked := make([]clock.Interval, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == model.StatusConfirmed {
			booked = append(booked, b.Interval())
		}
	}
	out.Slots = schedule.Starts(schedule.Available(res, schedule.DefaultStep, svc.DurationMinutes, booked))
	return out, nil
}

func (s *Service) day(ctx context.Context, date string) (model.StoreHours, []model.DayRule, error) {
	hours, err := s.store.GetHours(ctx)
	if err != nil {
		return model.StoreHours{}, nil, err
	}
	rules, err := s.store.FindRules(ctx, date)
	if err != nil {
		return model.StoreHours{}, nil, err
	}
	return hours, rules, nil
}

func (s *Service) logWarnings(date string, warnings []string) {
	for _, w := range warnings {
		s.log.Warn("rule ignored", zap.String("date", date), zap.String("reason", w))
	}
}
