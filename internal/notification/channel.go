package notification

import (
	"context"
	"errors"

	"salon-booking-backend/internal/model"
)

// Channel delivers a confirmation over one medium.
type Channel interface {
	Name() string
	// Applies reports whether b carries the contact details this channel needs.
	Applies(b model.Booking) bool
	Send(ctx context.Context, b model.Booking) error
}

// permanentError marks a delivery failure that retrying cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that retry loops give up immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
