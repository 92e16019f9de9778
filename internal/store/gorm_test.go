package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"salon-booking-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// Any matches every argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

var testHours = model.StoreHours{
	ID:      model.StoreHoursID,
	Weekday: model.OpenClose{Open: "09:00", Close: "19:00"},
	Weekend: model.OpenClose{Open: "10:00", Close: "18:00"},
}

func TestGormStore_ListRules(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB, testHours)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "day_rules" WHERE date >= $1 ORDER BY date ASC,created_at ASC`)).
		WithArgs("2026-10-01").
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "kind", "open", "close", "blocks", "note"}).
			AddRow("r1", "2026-10-14", "blocks", "", "", `[{"start":"13:00","end":"14:00"}]`, "lunch").
			AddRow("r2", "2026-10-20", "closed", "", "", nil, ""))

	rules, err := s.ListRules(context.Background(), "2026-10-01")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, model.RuleBlocks, rules[0].Kind)
	assert.Equal(t, []model.Block{{Start: "13:00", End: "14:00"}}, rules[0].Blocks)
	assert.Equal(t, "lunch", rules[0].Note)
	assert.Equal(t, model.RuleClosed, rules[1].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_FindRulesUnavailable(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB, testHours)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "day_rules" WHERE date = $1`)).
		WithArgs("2026-10-14").
		WillReturnError(errors.New("connection refused"))

	_, err := s.FindRules(context.Background(), "2026-10-14")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateBookingOverlapPrecheck(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB, testHours)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "bookings" WHERE date = $1 AND status = $2 AND start_minute < $3 AND $4 < end_minute`)).
		WithArgs("2026-10-14", model.StatusConfirmed, 11*60, 10*60+15).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	b := &model.Booking{Date: "2026-10-14", Time: "10:15", StartMinute: 10*60 + 15, EndMinute: 11 * 60}
	err := s.CreateBooking(context.Background(), b)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CreateRuleDuplicatePrecheck(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB, testHours)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "day_rules" WHERE date = $1 AND kind = $2`)).
		WithArgs("2026-10-14", model.RuleHours).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	rule := &model.DayRule{Date: "2026-10-14", Kind: model.RuleHours, Open: "12:00", Close: "16:00"}
	err := s.CreateRule(context.Background(), rule)
	assert.ErrorIs(t, err, ErrDuplicateRule)
	assert.NotEmpty(t, rule.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetHoursDefaultsWhenMissing(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB, testHours)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "store_hours" WHERE "store_hours"."id" = $1`)).
		WithArgs(model.StoreHoursID, Any{}).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	hours, err := s.GetHours(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testHours, hours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConstraintErrorMapping(t *testing.T) {
	overlap := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"})
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})

	assert.True(t, IsOverlapViolation(overlap))
	assert.False(t, IsOverlapViolation(unique))
	assert.False(t, IsOverlapViolation(errors.New("23P01")))

	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: day_rules.date, day_rules.kind")))
	assert.False(t, isUniqueViolation(overlap))
	assert.False(t, isUniqueViolation(nil))
}
