package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// Message is a plain-text transactional email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer is the outbound notification collaborator. Implementations must block
// until dispatch is accepted or failed; the caller compensates on error.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers messages over a plain SMTP connection. Each attempt is
// bounded by the configured timeout and a failed attempt is retried once.
type SMTPMailer struct {
	host    string
	port    int
	from    string
	timeout time.Duration
}

// NewSMTPMailer builds a mailer from explicit settings; no ambient lookups.
func NewSMTPMailer(host string, port int, from string, timeout time.Duration) *SMTPMailer {
	return &SMTPMailer{
		host:    host,
		port:    port,
		from:    from,
		timeout: timeout,
	}
}

// Send dispatches the message, retrying once on failure.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = m.sendOnce(msg); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("send mail to %s: %w", msg.To, lastErr)
}

func (m *SMTPMailer) sendOnce(msg Message) error {
	addr := net.JoinHostPort(m.host, strconv.Itoa(m.port))
	conn, err := net.DialTimeout("tcp", addr, m.timeout)
	if err != nil {
		return err
	}
	// The deadline bounds the whole SMTP conversation, not just the dial.
	if err := conn.SetDeadline(time.Now().Add(m.timeout)); err != nil {
		conn.Close()
		return err
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if err := client.Mail(m.from); err != nil {
		return err
	}
	if err := client.Rcpt(msg.To); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(format(m.from, msg))); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func format(from string, msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return b.String()
}
