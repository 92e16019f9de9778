package notification

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"

	"salon-booking-backend/internal/model"
)

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailChannel sends confirmations over SMTP with PLAIN auth.
type EmailChannel struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Studio   Studio

	sendMail SendMailFunc
}

// NewEmailChannel creates an SMTP channel. From defaults to the username.
func NewEmailChannel(host string, port int, username, password, from string, studio Studio) *EmailChannel {
	if from == "" {
		from = username
	}
	return &EmailChannel{
		Host: host, Port: port, Username: username, Password: password, From: from, Studio: studio,
		sendMail: smtp.SendMail,
	}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Applies(b model.Booking) bool { return b.Email != "" }

// Send renders and delivers the confirmation. smtp.SendMail has no context
// support, so ctx is only checked before dialing.
func (c *EmailChannel) Send(ctx context.Context, b model.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := Confirmation(b, c.Studio)
	if err != nil {
		return Permanent(err)
	}
	raw, err := c.compose(b.Email, msg)
	if err != nil {
		return Permanent(err)
	}
	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	auth := smtp.PlainAuth("", c.Username, c.Password, c.Host)
	if err := c.sendMail(addr, auth, c.From, []string{b.Email}, raw); err != nil {
		return fmt.Errorf("smtp send to %s: %w", b.Email, err)
	}
	return nil
}

// compose builds a multipart/alternative message with text and HTML parts.
func (c *EmailChannel) compose(to string, msg Message) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for _, part := range []struct{ contentType, content string }{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "From: %s\r\n", c.From)
	fmt.Fprintf(&out, "To: %s\r\n", to)
	fmt.Fprintf(&out, "Reply-To: %s\r\n", c.Username)
	fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", msg.Subject))
	out.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&out, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())
	out.Write(body.Bytes())
	return out.Bytes(), nil
}
