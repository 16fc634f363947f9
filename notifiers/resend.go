package notifiers

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v3"

	"github.com/kova98/aidigest/enums"
	"github.com/kova98/aidigest/models"
)

// ResendMailer delivers through the Resend HTTP API instead of SMTP. The API key takes
// the place of the sender password.
type ResendMailer struct {
	logger *slog.Logger
	client *resend.Client
	from   string
	apiKey string
}

func NewResendMailer(logger *slog.Logger, apiKey, from string) *ResendMailer {
	return &ResendMailer{
		logger: logger,
		client: resend.NewClient(apiKey),
		from:   strings.TrimSpace(from),
		apiKey: apiKey,
	}
}

// WithBaseURL points the client at another API host.
func (r *ResendMailer) WithBaseURL(raw string) (*ResendMailer, error) {
	u, err := url.Parse(strings.TrimRight(raw, "/") + "/")
	if err != nil {
		return nil, errors.Wrap(err, "resend: parse base url")
	}
	r.client.BaseURL = u
	return r, nil
}

func (r *ResendMailer) Send(ctx context.Context, mail models.Email) error {
	if mail.From == "" {
		mail.From = r.from
	}
	if err := checkCredentials(mail.From, r.apiKey, mail.To); err != nil {
		return err
	}

	from := mail.From
	if !strings.Contains(from, "<") {
		from = senderName + " <" + from + ">"
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      []string{mail.To},
		Subject: mail.Subject,
		Headers: mail.Headers,
	}
	if mail.BodyType == enums.BodyTypeHTML {
		req.Html = mail.Body
	} else {
		req.Text = mail.Body
	}

	sent, err := r.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		r.logger.Error("Failed to send email", "error", err)
		return errors.Wrap(err, "resend: send email")
	}

	r.logger.Info("email sent", "recipient", mail.To, "subject", mail.Subject, "id", sent.Id)
	return nil
}
