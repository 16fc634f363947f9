package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kova98/aidigest/enums"
	"github.com/kova98/aidigest/models"
	"github.com/kova98/aidigest/prompts"
)

type Stage string

const (
	StageIdle        Stage = "idle"
	StageFetching    Stage = "fetching"
	StageFetched     Stage = "fetched"
	StageFetchFailed Stage = "fetch_failed"
	StageFormatting  Stage = "formatting"
	StageFormatted   Stage = "formatted"
	StageSending     Stage = "sending"
	StageSent        Stage = "sent"
	StageSendFailed  Stage = "send_failed"
)

const runHeader = "X-Digest-Run"

var banner = strings.Repeat("=", 50)

type DigestFetcher interface {
	FetchDigest(ctx context.Context, date time.Time) (string, error)
}

type BodyFormatter interface {
	Format(digest string, date time.Time) string
	BodyType() enums.BodyType
}

type Sender interface {
	Send(ctx context.Context, mail models.Email) error
}

// Report is the outcome of one run. Digest is kept whenever the fetch succeeded,
// even if delivery failed afterwards.
type Report struct {
	RunID     string
	Stage     Stage
	Digest    string
	Body      string
	BodyType  enums.BodyType
	Err       error
	FetchTime time.Duration
	SendTime  time.Duration
}

type Notifier struct {
	logger    *slog.Logger
	fetcher   DigestFetcher
	formatter BodyFormatter
	sender    Sender
	profile   models.PromptProfile
	from      string
	to        string
	out       io.Writer
	now       func() time.Time
	dryRun    bool
}

type NotifierOptions struct {
	Profile models.PromptProfile
	From    string
	To      string
	Out     io.Writer
	Now     func() time.Time
	DryRun  bool
}

func NewNotifier(logger *slog.Logger, fetcher DigestFetcher, formatter BodyFormatter, sender Sender, opts NotifierOptions) *Notifier {
	n := &Notifier{
		logger:    logger,
		fetcher:   fetcher,
		formatter: formatter,
		sender:    sender,
		profile:   opts.Profile,
		from:      opts.From,
		to:        opts.To,
		out:       opts.Out,
		now:       opts.Now,
		dryRun:    opts.DryRun,
	}
	if n.out == nil {
		n.out = io.Discard
	}
	if n.now == nil {
		n.now = time.Now
	}
	return n
}

// Run fetches, formats and sends one digest. Failures end the run in a failed stage
// and are returned in the report, never as a panic.
func (n *Notifier) Run(ctx context.Context) Report {
	report := Report{RunID: uuid.NewString(), Stage: StageIdle}
	logger := n.logger.With("run_id", report.RunID)
	date := n.now()

	n.printf("\n%s\n🤖 AI DAILY DIGEST - starting\n%s\n\n", banner, banner)

	report.Stage = StageFetching
	logger.Info("fetching digest", "date", date.Format(time.DateOnly))
	start := time.Now()
	digest, err := n.fetch(ctx, date)
	report.FetchTime = time.Since(start)
	if err != nil {
		report.Stage = StageFetchFailed
		report.Err = err
		logger.Error("fetch digest", "error", err, "elapsed_ms", report.FetchTime.Milliseconds())
		n.printf("\n❌ Could not generate the digest: %v\n", err)
		return report
	}
	report.Stage = StageFetched
	report.Digest = digest
	logger.Info("digest fetched", "chars", len(digest), "elapsed_ms", report.FetchTime.Milliseconds())

	n.printf("\n%s\n📰 GENERATED DIGEST:\n%s\n\n%s\n\n%s\n\n", banner, banner, digest, banner)

	report.Stage = StageFormatting
	report.Body, report.BodyType = n.format(logger, digest, date)
	report.Stage = StageFormatted

	if n.dryRun {
		logger.Info("dry run, email not sent", "body_type", report.BodyType)
		n.printf("%s\n", report.Body)
		return report
	}

	report.Stage = StageSending
	mail := models.Email{
		From:     n.from,
		To:       n.to,
		Subject:  prompts.Stamp(n.profile, n.profile.Subject, date),
		Body:     report.Body,
		BodyType: report.BodyType,
		Headers:  map[string]string{runHeader: report.RunID},
	}
	n.printf("📧 Sending the email to %s...\n", n.to)
	start = time.Now()
	err = n.send(ctx, mail)
	report.SendTime = time.Since(start)
	if err != nil {
		report.Stage = StageSendFailed
		report.Err = err
		logger.Error("send digest", "error", err, "elapsed_ms", report.SendTime.Milliseconds())
		n.printf("\n⚠️ Digest generated but not sent: %v\n", err)
		return report
	}

	report.Stage = StageSent
	logger.Info("digest sent", "recipient", n.to, "elapsed_ms", report.SendTime.Milliseconds())
	n.printf("\n✅ Digest sent successfully!\n")
	return report
}

func (n *Notifier) fetch(ctx context.Context, date time.Time) (digest string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("fetch digest: panic: %v", r)
		}
	}()
	return n.fetcher.FetchDigest(ctx, date)
}

// format falls back to the raw digest sent as plain text when the formatter panics.
func (n *Notifier) format(logger *slog.Logger, digest string, date time.Time) (body string, bodyType enums.BodyType) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("format digest: falling back to raw text", "panic", r)
			body, bodyType = digest, enums.BodyTypeText
		}
	}()
	return n.formatter.Format(digest, date), n.formatter.BodyType()
}

func (n *Notifier) send(ctx context.Context, mail models.Email) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("send digest: panic: %v", r)
		}
	}()
	return n.sender.Send(ctx, mail)
}

func (n *Notifier) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(n.out, format, args...); err != nil {
		n.logger.Debug("write console output", "error", err)
	}
}
