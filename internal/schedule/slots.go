package schedule

import "salon-booking-backend/internal/clock"

// DefaultStep is the spacing between candidate slot starts, in minutes.
const DefaultStep = 15

// Generate enumerates [t, t+duration) for t = open, open+step, ... while the
// slot still ends at or before closeAt. Output is ascending by start.
func Generate(open, closeAt clock.Minutes, step, duration int) []clock.Interval {
	if duration <= 0 {
		return nil
	}
	if step <= 0 {
		step = DefaultStep
	}
	var out []clock.Interval
	for t := open; t+clock.Minutes(duration) <= closeAt; t += clock.Minutes(step) {
		out = append(out, clock.Interval{Start: t, End: t + clock.Minutes(duration)})
	}
	return out
}

// Filter keeps the candidates that overlap neither a booking nor a block.
// Candidate order is preserved.
func Filter(candidates, booked, blocks []clock.Interval) []clock.Interval {
	out := make([]clock.Interval, 0, len(candidates))
	for _, c := range candidates {
		if overlapsAny(c, booked) || overlapsAny(c, blocks) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Available runs generation and filtering for a resolved date. A closed date
// yields no slots.
func Available(res Resolution, step, duration int, booked []clock.Interval) []clock.Interval {
	if res.Closed {
		return nil
	}
	return Filter(Generate(res.Open, res.Close, step, duration), booked, res.Blocks)
}

func overlapsAny(iv clock.Interval, others []clock.Interval) bool {
	for _, o := range others {
		if clock.Overlaps(iv.Start, iv.End, o.Start, o.End) {
			return true
		}
	}
	return false
}

// Starts renders the start time of each interval.
func Starts(intervals []clock.Interval) []string {
	out := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, iv.Start.String())
	}
	return out
}
