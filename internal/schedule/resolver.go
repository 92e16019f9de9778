// Package schedule turns base hours, date rules and bookings into bookable slots.
package schedule

import (
	"fmt"

	"salon-booking-backend/internal/clock"
	"salon-booking-backend/internal/model"
)

// Resolution is the effective schedule of one date.
type Resolution struct {
	Date   string
	Closed bool
	Open   clock.Minutes
	Close  clock.Minutes
	// Blocks are returned in the order the rule lists them.
	Blocks []clock.Interval
	// Warnings describe rules that were ignored.
	Warnings []string
}

// Window returns the effective [Open, Close) range.
func (r Resolution) Window() clock.Interval {
	return clock.Interval{Start: r.Open, End: r.Close}
}

// Resolve derives the effective hours and blocks for date. Only rules whose
// Date equals date are considered. Inputs are never modified.
func Resolve(date string, hours model.StoreHours, rules []model.DayRule) (Resolution, error) {
	weekend, err := clock.IsWeekend(date)
	if err != nil {
		return Resolution{}, err
	}
	base := hours.For(weekend)
	open, err := clock.ParseTime(base.Open)
	if err != nil {
		return Resolution{}, fmt.Errorf("base opening time: %w", err)
	}
	closeAt, err := clock.ParseTime(base.Close)
	if err != nil {
		return Resolution{}, fmt.Errorf("base closing time: %w", err)
	}

	res := Resolution{Date: date, Open: open, Close: closeAt}

	var hoursRule, blocksRule *model.DayRule
	for i := range rules {
		r := &rules[i]
		if r.Date != date {
			continue
		}
		switch r.Kind {
		case model.RuleClosed:
			res.Closed = true
		case model.RuleHours:
			if hoursRule != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("duplicate hours rule %s ignored", r.ID))
				continue
			}
			hoursRule = r
		case model.RuleBlocks:
			if blocksRule != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("duplicate blocks rule %s ignored", r.ID))
				continue
			}
			blocksRule = r
		default:
			res.Warnings = append(res.Warnings, fmt.Sprintf("rule %s has unknown kind %q", r.ID, r.Kind))
		}
	}
	if res.Closed {
		return res, nil
	}

	if hoursRule != nil && hoursRule.Open != "" && hoursRule.Close != "" {
		window, err := clock.ParseInterval(hoursRule.Open, hoursRule.Close)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("hours rule %s ignored: %v", hoursRule.ID, err))
		} else {
			res.Open, res.Close = window.Start, window.End
		}
	}

	if blocksRule != nil {
		for _, b := range blocksRule.Blocks {
			iv, err := clock.ParseInterval(b.Start, b.End)
			if err != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("block %s-%s of rule %s ignored: %v", b.Start, b.End, blocksRule.ID, err))
				continue
			}
			res.Blocks = append(res.Blocks, iv)
		}
	}
	return res, nil
}
