package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kova98/aidigest/config"
	"github.com/kova98/aidigest/enums"
	"github.com/kova98/aidigest/formatters"
	"github.com/kova98/aidigest/notifiers"
	"github.com/kova98/aidigest/prompts"
	"github.com/kova98/aidigest/sources"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "aidigest",
		Short:         "Ask a language model for today's AI news and email the digest",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if err := cfg.ApplyFlags(cmd); err != nil {
				return err
			}

			logger := newLogger(cfg, os.Stderr)
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, logger, cmd.OutOrStdout())
		},
	}
	config.RegisterFlags(rootCmd)
	profileFlag := rootCmd.Flags().Lookup("profile")
	profileFlag.Usage += " [" + strings.Join(prompts.Names(), ", ") + "]"

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run returns an error only for setup problems. Pipeline failures are reported on the
// console and in the logs and still exit 0.
func run(ctx context.Context, cfg config.AppConfig, logger *slog.Logger, out io.Writer) error {
	profile, err := prompts.Load(cfg.PromptProfile)
	if err != nil {
		return errors.Wrap(err, "load prompt profile")
	}

	httpClient, err := sources.NewHTTPClient(cfg.ProxyURL, cfg.RequestTimeout)
	if err != nil {
		return errors.Wrap(err, "create http client")
	}
	fetcher := sources.NewOpenAIFetcher(logger, httpClient, sources.OpenAIOptions{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}, profile)

	formatter := formatters.New(profile, cfg.Format, cfg.HTMLMode)

	if !cfg.DryRun {
		if err := cfg.CheckMail(); err != nil {
			logger.Warn("email will not be sent", "error", err)
		}
	}

	notifier := NewNotifier(logger, fetcher, formatter, newSender(cfg, logger), NotifierOptions{
		Profile: profile,
		From:    cfg.SenderEmail,
		To:      cfg.ReceiverEmail,
		Out:     out,
		DryRun:  cfg.DryRun,
	})

	report := notifier.Run(ctx)
	logger.Info("run finished",
		"run_id", report.RunID,
		"stage", report.Stage,
		"fetch_ms", report.FetchTime.Milliseconds(),
		"send_ms", report.SendTime.Milliseconds())
	return nil
}

func newSender(cfg config.AppConfig, logger *slog.Logger) Sender {
	if cfg.MailProvider == enums.MailProviderResend {
		return notifiers.NewResendMailer(logger, cfg.EmailPassword, cfg.SenderEmail)
	}
	return notifiers.NewMailer(logger, cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail, cfg.EmailPassword)
}

func newLogger(cfg config.AppConfig, w io.Writer) *slog.Logger {
	opts := slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(w, &opts))
	}
	return slog.New(slog.NewJSONHandler(w, &opts))
}
