package notifiers

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"

	"github.com/kova98/aidigest/models"
)

var ErrMissingCredentials = errors.New("missing email credentials")

// Session is the part of an SMTP client the mailer drives.
type Session interface {
	Auth(a sasl.Client) error
	SendMail(from string, to []string, r io.Reader) error
	Quit() error
	Close() error
}

// DialFunc opens an implicit-TLS SMTP session.
type DialFunc func(addr string, tlsConfig *tls.Config) (Session, error)

type Option func(*Mailer)

// WithDialer replaces the function used to open SMTP sessions.
func WithDialer(dial DialFunc) Option {
	return func(m *Mailer) {
		if dial != nil {
			m.dial = dial
		}
	}
}

// WithClock replaces the clock used for the Date header.
func WithClock(now func() time.Time) Option {
	return func(m *Mailer) {
		if now != nil {
			m.now = now
		}
	}
}

type Mailer struct {
	logger   *slog.Logger
	smtpHost string
	smtpPort int
	from     string
	password string
	dial     DialFunc
	now      func() time.Time
}

func NewMailer(logger *slog.Logger, smtpHost string, smtpPort int, from, password string, opts ...Option) *Mailer {
	m := &Mailer{
		logger:   logger,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		from:     strings.TrimSpace(from),
		password: password,
		dial:     dialTLS,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func dialTLS(addr string, tlsConfig *tls.Config) (Session, error) {
	client, err := smtp.DialTLS(addr, tlsConfig)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Send delivers one message over a fresh implicit-TLS session. The session is closed
// whether or not delivery succeeds. Nothing is dialed when a credential is missing.
func (m *Mailer) Send(ctx context.Context, mail models.Email) error {
	if mail.From == "" {
		mail.From = m.from
	}
	if err := checkCredentials(mail.From, m.password, mail.To); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	message, err := BuildMessage(mail, m.now())
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.smtpHost, strconv.Itoa(m.smtpPort))
	session, err := m.dial(addr, &tls.Config{ServerName: m.smtpHost, MinVersion: tls.VersionTLS12})
	if err != nil {
		return errors.Wrapf(err, "send email: dial %s", addr)
	}
	defer session.Close()

	if err := session.Auth(sasl.NewPlainClient("", envelopeAddress(m.from), m.password)); err != nil {
		return errors.Wrap(err, "send email: auth")
	}

	if err := session.SendMail(envelopeAddress(mail.From), []string{envelopeAddress(mail.To)}, bytes.NewReader(message)); err != nil {
		m.logger.Error("Failed to send email", "error", err)
		return errors.Wrap(err, "send email: transmit")
	}

	if err := session.Quit(); err != nil {
		m.logger.Debug("smtp quit failed after delivery", "error", err)
	}

	m.logger.Info("email sent", "recipient", mail.To, "subject", mail.Subject)
	return nil
}

func checkCredentials(from, password, to string) error {
	var missing []string
	if strings.TrimSpace(from) == "" {
		missing = append(missing, "sender")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(to) == "" {
		missing = append(missing, "recipient")
	}
	if len(missing) > 0 {
		return errors.Wrap(ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}
