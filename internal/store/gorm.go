package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"salon-booking-backend/internal/model"
)

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db           *gorm.DB
	defaultHours model.StoreHours
}

// NewGormStore creates a new GORM-backed store. defaultHours is returned by
// GetHours until hours are saved.
func NewGormStore(db *gorm.DB, defaultHours model.StoreHours) Store {
	return &gormStore{db: db, defaultHours: defaultHours}
}

func (s *gormStore) Mode() string {
	return s.db.Dialector.Name()
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *gormStore) FindRules(ctx context.Context, date string) ([]model.DayRule, error) {
	var rules []model.DayRule
	if err := s.db.WithContext(ctx).Where("date = ?", date).Order("created_at ASC").Find(&rules).Error; err != nil {
		return nil, unavailable("find rules", err)
	}
	return rules, nil
}

// CreateRule inserts rule, enforcing a single rule per kind and date.
func (s *gormStore) CreateRule(ctx context.Context, rule *model.DayRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.DayRule{}).
			Where("date = ? AND kind = ?", rule.Date, rule.Kind).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateRule
		}
		return tx.Create(rule).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicateRule), isUniqueViolation(err):
		return ErrDuplicateRule
	default:
		return unavailable("create rule", err)
	}
}

func (s *gormStore) DeleteRule(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&model.DayRule{}, "id = ?", id).Error; err != nil {
		return unavailable("delete rule", err)
	}
	return nil
}

func (s *gormStore) ListRules(ctx context.Context, from string) ([]model.DayRule, error) {
	q := s.db.WithContext(ctx)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	var rules []model.DayRule
	if err := q.Order("date ASC").Order("created_at ASC").Find(&rules).Error; err != nil {
		return nil, unavailable("list rules", err)
	}
	return rules, nil
}

func (s *gormStore) FindBookings(ctx context.Context, date string) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.db.WithContext(ctx).Where("date = ?", date).Order("time ASC").Find(&bookings).Error; err != nil {
		return nil, unavailable("find bookings", err)
	}
	return bookings, nil
}

// CreateBooking checks for an overlapping confirmed booking and inserts b in
// one transaction. On postgres the bookings_no_overlap exclusion constraint
// backs the check; on sqlite immediate transactions serialize writers.
func (s *gormStore) CreateBooking(ctx context.Context, b *model.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Booking{}).
			Where("date = ? AND status = ? AND start_minute < ? AND ? < end_minute",
				b.Date, model.StatusConfirmed, b.EndMinute, b.StartMinute).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrSlotTaken
		}
		return tx.Create(b).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSlotTaken), IsOverlapViolation(err):
		return ErrSlotTaken
	default:
		return unavailable("create booking", err)
	}
}

func (s *gormStore) ListBookings(ctx context.Context, from string) ([]model.Booking, error) {
	q := s.db.WithContext(ctx)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	var bookings []model.Booking
	if err := q.Order("date ASC").Order("time ASC").Find(&bookings).Error; err != nil {
		return nil, unavailable("list bookings", err)
	}
	return bookings, nil
}

func (s *gormStore) GetHours(ctx context.Context) (model.StoreHours, error) {
	var hours model.StoreHours
	err := s.db.WithContext(ctx).First(&hours, model.StoreHoursID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.defaultHours, nil
	}
	if err != nil {
		return model.StoreHours{}, unavailable("get hours", err)
	}
	return hours, nil
}

func (s *gormStore) SaveHours(ctx context.Context, hours model.StoreHours) error {
	hours.ID = model.StoreHoursID
	if err := s.db.WithContext(ctx).Save(&hours).Error; err != nil {
		return unavailable("save hours", err)
	}
	return nil
}

// IsOverlapViolation reports whether err is the postgres exclusion constraint
// rejecting an overlapping booking.
func IsOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
