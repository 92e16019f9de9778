package schedule

import (
	"errors"
	"fmt"
	"strings"

	"salon-booking-backend/internal/clock"
	"salon-booking-backend/internal/model"
)

var (
	// ErrInvalidRule is returned when a rule cannot be stored as given.
	ErrInvalidRule = errors.New("invalid rule")
	// ErrInvalidHours is returned when base hours are malformed or inverted.
	ErrInvalidHours = errors.New("invalid store hours")
)

// NormalizeRule validates r for storage and rewrites its times in canonical
// HH:MM form. Fields that do not apply to the rule's kind are cleared.
func NormalizeRule(r model.DayRule) (model.DayRule, error) {
	if _, err := clock.ParseDate(r.Date); err != nil {
		return r, err
	}
	if !r.Kind.Valid() {
		return r, fmt.Errorf("%w: kind must be closed|hours|blocks", ErrInvalidRule)
	}
	r.Note = strings.TrimSpace(r.Note)

	switch r.Kind {
	case model.RuleClosed:
		r.Open, r.Close, r.Blocks = "", "", nil
	case model.RuleHours:
		if r.Open == "" || r.Close == "" {
			return r, fmt.Errorf("%w: hours rule needs open and close", ErrInvalidRule)
		}
		window, err := clock.ParseInterval(r.Open, r.Close)
		if err != nil {
			return r, fmt.Errorf("%w: %w", ErrInvalidRule, err)
		}
		r.Open, r.Close, r.Blocks = window.Start.String(), window.End.String(), nil
	case model.RuleBlocks:
		if len(r.Blocks) == 0 {
			return r, fmt.Errorf("%w: blocks rule needs at least one block", ErrInvalidRule)
		}
		blocks := make([]model.Block, 0, len(r.Blocks))
		for _, b := range r.Blocks {
			iv, err := clock.ParseInterval(b.Start, b.End)
			if err != nil {
				return r, fmt.Errorf("%w: block %s-%s: %w", ErrInvalidRule, b.Start, b.End, err)
			}
			blocks = append(blocks, model.Block{Start: iv.Start.String(), End: iv.End.String()})
		}
		r.Open, r.Close, r.Blocks = "", "", blocks
	}
	return r, nil
}

// NormalizeHours validates both windows of h and canonicalizes their times.
func NormalizeHours(h model.StoreHours) (model.StoreHours, error) {
	weekday, err := clock.ParseInterval(h.Weekday.Open, h.Weekday.Close)
	if err != nil {
		return h, fmt.Errorf("%w: weekday: %w", ErrInvalidHours, err)
	}
	weekend, err := clock.ParseInterval(h.Weekend.Open, h.Weekend.Close)
	if err != nil {
		return h, fmt.Errorf("%w: weekend: %w", ErrInvalidHours, err)
	}
	h.Weekday = model.OpenClose{Open: weekday.Start.String(), Close: weekday.End.String()}
	h.Weekend = model.OpenClose{Open: weekend.Start.String(), Close: weekend.End.String()}
	return h, nil
}
