package model

import "time"

// RuleKind is the type of a date-scoped override.
type RuleKind string

const (
	RuleClosed RuleKind = "closed"
	RuleHours  RuleKind = "hours"
	RuleBlocks RuleKind = "blocks"
)

// Valid reports whether k is one of the known kinds.
func (k RuleKind) Valid() bool {
	switch k {
	case RuleClosed, RuleHours, RuleBlocks:
		return true
	}
	return false
}

// Block is a carved-out sub-interval of a day.
type Block struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayRule overrides the base hours on a single calendar date.
// At most one rule of each kind exists per date.
type DayRule struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_day_rules_date_kind,priority:1" json:"date"`
	Kind      RuleKind  `gorm:"size:16;not null;uniqueIndex:idx_day_rules_date_kind,priority:2" json:"kind"`
	Open      string    `gorm:"size:5" json:"open,omitempty"`
	Close     string    `gorm:"size:5" json:"close,omitempty"`
	Blocks    []Block   `gorm:"serializer:json" json:"blocks"`
	Note      string    `gorm:"size:512" json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}
