package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/hamed0406/hostmon/internal/domain"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Email sends one plain-text mail per event over SMTP.
type Email struct {
	Addr string // host:port
	From string
	To   []string

	auth smtp.Auth
	send sendMailFunc
}

// NewEmail returns nil when addr is empty. PLAIN auth is used when username is
// set.
func NewEmail(addr, from string, to []string, username, password string) *Email {
	if addr == "" {
		return nil
	}
	e := &Email{Addr: addr, From: from, To: to, send: smtp.SendMail}
	if username != "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		e.auth = smtp.PlainAuth("", username, password, host)
	}
	return e
}

func (e *Email) Name() string { return "email" }

func (e *Email) Notify(ctx context.Context, ev domain.Event) error {
	msg := e.message(ev)
	send := e.send
	if send == nil {
		send = smtp.SendMail
	}

	// net/smtp has no context support; the goroutine finishes on its own
	// dial/IO errors if ctx ends first.
	done := make(chan error, 1)
	go func() { done <- send(e.Addr, e.auth, e.From, e.To, msg) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("smtp %s: %w", e.Addr, ctx.Err())
	}
}

func (e *Email) message(ev domain.Event) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", e.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(e.To, ", "))
	fmt.Fprintf(&b, "Subject: [hostmon] %s\r\n", ev.Title())
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(text(ev), "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
