package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// Sender delivers a single message with optional file attachments.
type Sender interface {
	Send(to, subject, htmlBody string, attachments ...string) error
}

// SMTPSender delivers mail over SMTP. Sends are bounded by a timeout because
// the underlying dialer has none of its own.
type SMTPSender struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer:  gomail.NewDialer(host, port, username, password),
		from:    from,
		timeout: 15 * time.Second,
	}
}

func (s *SMTPSender) Send(to, subject, htmlBody string, attachments ...string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, "Lost and Found System")
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	for _, path := range attachments {
		m.Attach(path)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.dialer.DialAndSend(m)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("sending mail to %s: %w", to, err)
		}
		return nil
	case <-time.After(s.timeout):
		return fmt.Errorf("sending mail to %s: timed out after %s", to, s.timeout)
	}
}
