package export

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"salon-booking-backend/internal/clock"
	"salon-booking-backend/internal/model"
)

// CalendarContentType is the MIME type of the generated feed.
const CalendarContentType = "text/calendar; charset=utf-8"

// icsLocal is the floating date-time form; bookings carry studio-local times.
const icsLocal = "20060102T150405"

// Calendar renders confirmed bookings as an iCalendar feed, one VEVENT each.
// Times are floating so calendar clients show them in the studio's wall time.
func Calendar(bookings []model.Booking, studio string, stamp time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + studio + "//salond//EN")

	for _, b := range bookings {
		if b.Status != model.StatusConfirmed {
			continue
		}
		start, err := localTime(b.Date, b.Time)
		if err != nil {
			return "", fmt.Errorf("booking %s: %w", b.ID, err)
		}
		end, err := localTime(b.Date, b.EndTime)
		if err != nil {
			return "", fmt.Errorf("booking %s: %w", b.ID, err)
		}

		event := cal.AddEvent(b.ID + "@" + strings.ToLower(strings.ReplaceAll(studio, " ", "-")))
		event.SetDtStampTime(stamp.UTC())
		event.SetProperty(ics.ComponentPropertyDtStart, start)
		event.SetProperty(ics.ComponentPropertyDtEnd, end)
		event.SetSummary(b.ServiceName + " - " + b.Name)
		event.SetDescription(describe(b))
		event.SetStatus(ics.ObjectStatusConfirmed)
	}
	return cal.Serialize(), nil
}

func localTime(date, hhmm string) (string, error) {
	day, err := clock.ParseDate(date)
	if err != nil {
		return "", err
	}
	m, err := clock.ParseTime(hhmm)
	if err != nil {
		return "", err
	}
	return day.Add(time.Duration(m) * time.Minute).Format(icsLocal), nil
}

func describe(b model.Booking) string {
	lines := []string{"Phone: " + b.Phone}
	if b.Email != "" {
		lines = append(lines, "Email: "+b.Email)
	}
	lines = append(lines, fmt.Sprintf("Duration: %d min", b.DurationMinutes), "Booked via "+string(b.Source))
	return strings.Join(lines, "\n")
}
