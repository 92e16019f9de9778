package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"salon-booking-backend/internal/clock"
	"salon-booking-backend/internal/model"
)

// memoryStore keeps everything in process memory. Data is lost on restart.
type memoryStore struct {
	mu       sync.RWMutex
	rules    []model.DayRule
	bookings []model.Booking
	hours    model.StoreHours
	now      func() time.Time
}

// NewMemoryStore creates a store with no persistence, seeded with hours.
func NewMemoryStore(hours model.StoreHours) Store {
	return &memoryStore{hours: hours, now: time.Now}
}

func (s *memoryStore) Mode() string { return "memory" }

func (s *memoryStore) Ping(context.Context) error { return nil }

func (s *memoryStore) FindRules(_ context.Context, date string) ([]model.DayRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.DayRule
	for _, r := range s.rules {
		if r.Date == date {
			out = append(out, cloneRule(r))
		}
	}
	return out, nil
}

func (s *memoryStore) CreateRule(_ context.Context, rule *model.DayRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rules {
		if r.Date == rule.Date && r.Kind == rule.Kind {
			return ErrDuplicateRule
		}
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = s.now().UTC()
	}
	s.rules = append(s.rules, cloneRule(*rule))
	return nil
}

func (s *memoryStore) DeleteRule(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.rules {
		if r.ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memoryStore) ListRules(_ context.Context, from string) ([]model.DayRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.DayRule
	for _, r := range s.rules {
		if from == "" || r.Date >= from {
			out = append(out, cloneRule(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *memoryStore) FindBookings(_ context.Context, date string) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Booking
	for _, b := range s.bookings {
		if b.Date == date {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

// CreateBooking holds the write lock across the overlap check and the append.
func (s *memoryStore) CreateBooking(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bookings {
		if existing.Date != b.Date || existing.Status != model.StatusConfirmed {
			continue
		}
		if clock.Overlaps(clock.Minutes(b.StartMinute), clock.Minutes(b.EndMinute),
			clock.Minutes(existing.StartMinute), clock.Minutes(existing.EndMinute)) {
			return ErrSlotTaken
		}
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now().UTC()
	}
	s.bookings = append(s.bookings, *b)
	return nil
}

func (s *memoryStore) ListBookings(_ context.Context, from string) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Booking
	for _, b := range s.bookings {
		if from == "" || b.Date >= from {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date+out[i].Time < out[j].Date+out[j].Time
	})
	return out, nil
}

func (s *memoryStore) GetHours(context.Context) (model.StoreHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hours, nil
}

func (s *memoryStore) SaveHours(_ context.Context, hours model.StoreHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hours.ID = model.StoreHoursID
	hours.UpdatedAt = s.now().UTC()
	s.hours = hours
	return nil
}

func cloneRule(r model.DayRule) model.DayRule {
	if r.Blocks != nil {
		r.Blocks = append([]model.Block(nil), r.Blocks...)
	}
	return r
}
