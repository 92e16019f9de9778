package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"salon-booking-backend/internal/model"
)

// Studio is the branding printed on confirmations.
type Studio struct {
	Name    string
	URL     string
	Phone   string
	Address string
}

// Message is a rendered confirmation.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<div style="font-family: system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial;">
  <h2 style="margin:0 0 8px">{{.Studio.Name}} - Booking Confirmed</h2>
  <p style="margin:0 0 12px">Hi {{.Booking.Name}}, thanks for booking with us!</p>
  <table role="presentation" style="width:100%;max-width:520px;border-collapse:collapse">
    <tr><td style="padding:8px;border:1px solid #eee;background:#fafafa;width:160px">Service</td><td style="padding:8px;border:1px solid #eee">{{.Booking.ServiceCategory}} - {{.Booking.ServiceName}}</td></tr>
    <tr><td style="padding:8px;border:1px solid #eee;background:#fafafa">Date</td><td style="padding:8px;border:1px solid #eee">{{.Booking.Date}}</td></tr>
    <tr><td style="padding:8px;border:1px solid #eee;background:#fafafa">Time</td><td style="padding:8px;border:1px solid #eee">{{.Booking.Time}}-{{.Booking.EndTime}}</td></tr>
  </table>
  {{if .Studio.Phone}}<p style="margin:12px 0">Need to make a change? Reply to this email or call <b>{{.Studio.Phone}}</b>.</p>{{end}}
  <p style="margin:0;color:#555;font-size:12px">{{.Studio.Address}}{{if .Studio.URL}} <a href="{{.Studio.URL}}">{{.Studio.URL}}</a>{{end}}</p>
</div>
`))

// Confirmation renders the booking confirmation for b.
func Confirmation(b model.Booking, studio Studio) (Message, error) {
	var html bytes.Buffer
	if err := confirmationHTML.Execute(&html, struct {
		Booking model.Booking
		Studio  Studio
	}{b, studio}); err != nil {
		return Message{}, fmt.Errorf("render confirmation: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s - Booking Confirmed\n", studio.Name)
	fmt.Fprintf(&text, "Hi %s,\n", b.Name)
	fmt.Fprintf(&text, "Service: %s - %s\n", b.ServiceCategory, b.ServiceName)
	fmt.Fprintf(&text, "Date: %s\n", b.Date)
	fmt.Fprintf(&text, "Time: %s-%s\n", b.Time, b.EndTime)
	if studio.Phone != "" {
		fmt.Fprintf(&text, "Need changes? Reply to this email or call %s.\n", studio.Phone)
	}
	if footer := strings.TrimSpace(studio.Address + " " + studio.URL); footer != "" {
		text.WriteString(footer + "\n")
	}

	return Message{
		Subject: fmt.Sprintf("%s - Booking confirmed for %s at %s", studio.Name, b.Date, b.Time),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// pushPayload is the JSON body the service worker receives.
type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

func pushBody(b model.Booking, studio Studio) ([]byte, error) {
	return json.Marshal(pushPayload{
		Title: studio.Name + " - Booking Confirmed",
		Body:  fmt.Sprintf("%s on %s at %s", b.ServiceName, b.Date, b.Time),
		URL:   studio.URL,
	})
}
