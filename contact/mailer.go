package contact

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"
)

// Mailer delivers a rendered message. Configured reports whether the
// transport has the credentials it needs to send at all.
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, m Message) error
}

// SMTPConfig is the mail credential pair plus the relay address.
type SMTPConfig struct {
	Host     string // default "smtp.gmail.com"
	Port     string // default "587"
	Username string // EMAIL_USER
	Password string // EMAIL_PASS
}

// Configured reports whether both credentials are present.
func (c SMTPConfig) Configured() bool {
	return c.Username != "" && c.Password != ""
}

func (c *SMTPConfig) setDefaults() {
	if c.Host == "" {
		c.Host = "smtp.gmail.com"
	}
	if c.Port == "" {
		c.Port = "587"
	}
}

// SMTPMailer sends mail through an SMTP relay with STARTTLS and PLAIN auth.
type SMTPMailer struct {
	cfg SMTPConfig
	now func() time.Time
}

// NewSMTPMailer creates a mailer for cfg.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	cfg.setDefaults()
	return &SMTPMailer{cfg: cfg, now: time.Now}
}

// Configured reports whether the mailer has credentials.
func (s *SMTPMailer) Configured() bool {
	return s.cfg.Configured()
}

// Send delivers m. The dial honors ctx; the SMTP exchange is bounded by
// the context deadline when one is set.
func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	if !s.cfg.Configured() {
		return ErrNotConfigured
	}
	data, err := m.Bytes(s.now())
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if err := c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(m.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range m.To {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}
	return c.Quit()
}
