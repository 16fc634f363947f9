package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kova98/aidigest/enums"
)

// RegisterFlags attaches the flags that override environment values.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("format", "", "Email body format: text or html (overrides EMAIL_FORMAT)")
	flags.String("html-mode", "", "HTML rendering: literal or markdown (overrides HTML_MODE)")
	flags.String("profile", "", "Prompt profile name (overrides PROMPT_PROFILE)")
	flags.Bool("dry-run", false, "Fetch and format the digest but do not send it")
	flags.String("log-level", "", "Logging level: debug, info, warn, error (overrides LOG_LEVEL)")
}

// ApplyFlags overrides cfg with every flag set on the command line. Unknown values are
// rejected so a mistyped flag never silently falls back to a default.
func (c *AppConfig) ApplyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()

	if flags.Changed("format") {
		raw, err := flags.GetString("format")
		if err != nil {
			return err
		}
		format := enums.ParseBodyType(raw)
		if format == enums.BodyTypeInvalid {
			return errors.Errorf("invalid --format %q: want text or html", raw)
		}
		c.Format = format
	}

	if flags.Changed("html-mode") {
		raw, err := flags.GetString("html-mode")
		if err != nil {
			return err
		}
		mode := enums.ParseHTMLMode(raw)
		if mode == enums.HTMLModeInvalid {
			return errors.Errorf("invalid --html-mode %q: want literal or markdown", raw)
		}
		c.HTMLMode = mode
	}

	if flags.Changed("profile") {
		raw, err := flags.GetString("profile")
		if err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			return errors.New("invalid --profile: empty name")
		}
		c.PromptProfile = raw
	}

	if flags.Changed("dry-run") {
		dryRun, err := flags.GetBool("dry-run")
		if err != nil {
			return err
		}
		c.DryRun = dryRun
	}

	if flags.Changed("log-level") {
		raw, err := flags.GetString("log-level")
		if err != nil {
			return err
		}
		level, err := ParseLogLevel(raw)
		if err != nil {
			return errors.Wrap(err, "invalid --log-level")
		}
		c.LogLevel = level
	}

	return nil
}
