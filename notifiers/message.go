package notifiers

import (
	"bytes"
	"io"
	"net/mail"
	"strings"
	"time"

	gomail "github.com/emersion/go-message/mail"
	"github.com/pkg/errors"

	"github.com/kova98/aidigest/models"
)

const senderName = "AI Digest"

// BuildMessage encodes email as a multipart/mixed message holding a single
// quoted-printable UTF-8 text part of the email's body type.
func BuildMessage(email models.Email, now time.Time) ([]byte, error) {
	from, err := mail.ParseAddress(email.From)
	if err != nil {
		return nil, errors.Wrap(err, "build message: parse from")
	}
	if from.Name == "" {
		from.Name = senderName
	}
	to, err := mail.ParseAddress(email.To)
	if err != nil {
		return nil, errors.Wrap(err, "build message: parse to")
	}

	var h gomail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*gomail.Address{from})
	h.SetAddressList("To", []*gomail.Address{to})
	h.SetSubject(sanitizeHeaderValue(email.Subject))
	if err := h.GenerateMessageID(); err != nil {
		return nil, errors.Wrap(err, "build message: message id")
	}
	for key, value := range email.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		h.Set(key, sanitizeHeaderValue(value))
	}

	var buf bytes.Buffer
	mw, err := gomail.CreateWriter(&buf, h)
	if err != nil {
		return nil, errors.Wrap(err, "build message: create writer")
	}

	var th gomail.InlineHeader
	th.SetContentType(email.BodyType.ContentType(), map[string]string{"charset": "utf-8"})
	th.Set("Content-Transfer-Encoding", "quoted-printable")

	pw, err := mw.CreateSingleInline(th)
	if err != nil {
		return nil, errors.Wrap(err, "build message: create part")
	}
	if _, err := io.WriteString(pw, email.Body); err != nil {
		return nil, errors.Wrap(err, "build message: write body")
	}
	if err := pw.Close(); err != nil {
		return nil, errors.Wrap(err, "build message: close part")
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, "build message: close writer")
	}

	return buf.Bytes(), nil
}

func sanitizeHeaderValue(value string) string {
	clean := strings.ReplaceAll(value, "\r", " ")
	clean = strings.ReplaceAll(clean, "\n", " ")
	return strings.TrimSpace(clean)
}

func envelopeAddress(value string) string {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address == "" {
		return strings.TrimSpace(value)
	}
	return addr.Address
}
