package config

import (
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kova98/aidigest/enums"
)

func parsedCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "aidigest"}
	RegisterFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestApplyFlags_Overrides(t *testing.T) {
	cfg := AppConfig{Format: enums.BodyTypeText, HTMLMode: enums.HTMLModeLiteral, PromptProfile: "fr", LogLevel: slog.LevelInfo}
	cmd := parsedCommand(t, "--format", "html", "--html-mode", "markdown", "--profile", "en", "--dry-run", "--log-level", "debug")

	require.NoError(t, cfg.ApplyFlags(cmd))

	assert.Equal(t, enums.BodyTypeHTML, cfg.Format)
	assert.Equal(t, enums.HTMLModeMarkdown, cfg.HTMLMode)
	assert.Equal(t, "en", cfg.PromptProfile)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestApplyFlags_UnsetFlagsKeepEnvValues(t *testing.T) {
	cfg := AppConfig{Format: enums.BodyTypeHTML, HTMLMode: enums.HTMLModeMarkdown, PromptProfile: "en", LogLevel: slog.LevelWarn}

	require.NoError(t, cfg.ApplyFlags(parsedCommand(t)))

	assert.Equal(t, enums.BodyTypeHTML, cfg.Format)
	assert.Equal(t, enums.HTMLModeMarkdown, cfg.HTMLMode)
	assert.Equal(t, "en", cfg.PromptProfile)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestApplyFlags_RejectsBadValues(t *testing.T) {
	tests := [][]string{
		{"--format", "pdf"},
		{"--html-mode", "fancy"},
		{"--profile", " "},
		{"--log-level", "loud"},
	}

	for _, args := range tests {
		cfg := AppConfig{}
		assert.Error(t, cfg.ApplyFlags(parsedCommand(t, args...)), args)
	}
}
