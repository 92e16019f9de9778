package model

import "time"

// OpenClose is an opening window expressed as HH:MM wall-clock strings.
type OpenClose struct {
	Open  string `gorm:"size:5;not null" json:"open"`
	Close string `gorm:"size:5;not null" json:"close"`
}

// StoreHours holds the base opening hours. A single row (ID 1) is persisted.
type StoreHours struct {
	ID        int64     `gorm:"primaryKey" json:"-"`
	Weekday   OpenClose `gorm:"embedded;embeddedPrefix:weekday_" json:"weekday"`
	Weekend   OpenClose `gorm:"embedded;embeddedPrefix:weekend_" json:"weekend"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StoreHoursID is the primary key of the singleton hours row.
const StoreHoursID int64 = 1

// For returns the weekend or weekday window.
func (h StoreHours) For(weekend bool) OpenClose {
	if weekend {
		return h.Weekend
	}
	return h.Weekday
}

func (StoreHours) TableName() string { return "store_hours" }
