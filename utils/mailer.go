package utils

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/cppla/requestdesk/config"
)

// ErrMailNotConfigured is returned by Send when relay credentials are missing.
var ErrMailNotConfigured = errors.New("mail relay credentials not configured")

// DefaultMailTimeout bounds one SMTP session when Mailer.Timeout is unset.
const DefaultMailTimeout = 30 * time.Second

// Mailer sends HTML notifications to the operator through an SMTP relay.
type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	To       string
	TLS      bool
	// Timeout bounds the whole SMTP session. Zero means DefaultMailTimeout.
	Timeout time.Duration
}

// NewMailer builds a Mailer from the relay settings in cfg.
func NewMailer(cfg config.AppConfig) *Mailer {
	return &Mailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		FromName: cfg.SMTPFromName,
		To:       cfg.NotifyTo,
		TLS:      cfg.SMTPTLS,
	}
}

// Send delivers one HTML message to the configured recipient.
func (m *Mailer) Send(ctx context.Context, subject, htmlBody string) error {
	if m.Username == "" || m.Password == "" {
		return ErrMailNotConfigured
	}
	to := m.To
	if to == "" {
		to = m.Username
	}
	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	msg := m.buildMessage(to, subject, htmlBody, time.Now())

	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultMailTimeout
	}
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp relay: %w", err)
	}
	_ = conn.SetDeadline(time.Now().Add(timeout))
	// Cancelling ctx aborts a session stuck on a silent relay.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()
	if m.TLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: m.Host}); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}
	if err := c.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(m.Username); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := wc.Write(msg); err != nil {
		_ = wc.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp relay rejected message: %w", err)
	}
	return c.Quit()
}

func (m *Mailer) buildMessage(to, subject, htmlBody string, now time.Time) []byte {
	fromName := m.FromName
	if fromName == "" {
		fromName = "Product Requests"
	}
	headers := [][2]string{
		{"From", fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", fromName), m.Username)},
		{"To", to},
		{"Subject", mime.QEncoding.Encode("UTF-8", subject)},
		{"Date", now.Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}
	var msg strings.Builder
	for _, h := range headers {
		msg.WriteString(h[0] + ": " + h[1] + "\r\n")
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return []byte(msg.String())
}
