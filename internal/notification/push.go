package notification

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"salon-booking-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// PushChannel sends confirmations to the browser subscription attached to a booking.
type PushChannel struct {
	options *webpush.Options
	studio  Studio
	sender  NotificationSender
}

// NewPushChannel creates a web push channel signed with the given VAPID options.
func NewPushChannel(options *webpush.Options, studio Studio) *PushChannel {
	return &PushChannel{options: options, studio: studio, sender: &WebPushSender{}}
}

func (c *PushChannel) Name() string { return "push" }

func (c *PushChannel) Applies(b model.Booking) bool { return !b.Push.IsZero() }

func (c *PushChannel) Send(ctx context.Context, b model.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := pushBody(b, c.studio)
	if err != nil {
		return Permanent(err)
	}

	// Manually construct the webpush.Subscription object
	sub := &webpush.Subscription{
		Endpoint: b.Push.Endpoint,
		Keys: webpush.Keys{
			P256dh: b.Push.P256DH,
			Auth:   b.Push.Auth,
		},
	}

	resp, err := c.sender.Send(payload, sub, c.options)
	if err != nil {
		return fmt.Errorf("push to %s: %w", sub.Endpoint, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return Permanent(fmt.Errorf("push subscription %s expired: %s", sub.Endpoint, resp.Status))
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("push service %s: %s", sub.Endpoint, resp.Status)
	case resp.StatusCode >= 400:
		return Permanent(fmt.Errorf("push rejected by %s: %s", sub.Endpoint, resp.Status))
	}
	return nil
}
