package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/kova98/aidigest/models"
	"github.com/kova98/aidigest/prompts"
)

const chatCompletionsPath = "/chat/completions"

var (
	ErrMissingAPIKey = errors.New("openai api key is not set")
	ErrEmptyDigest   = errors.New("model returned no content")
)

// APIError is a non-2xx answer from the completion endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("openai returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("openai returned status %d: %s", e.StatusCode, e.Message)
}

type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// OpenAIFetcher asks a chat-completion model for the day's AI news.
type OpenAIFetcher struct {
	logger  *slog.Logger
	client  *resty.Client
	opts    OpenAIOptions
	profile models.PromptProfile
}

func NewOpenAIFetcher(logger *slog.Logger, httpClient *http.Client, opts OpenAIOptions, profile models.PromptProfile) *OpenAIFetcher {
	client := resty.NewWithClient(httpClient).
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &OpenAIFetcher{
		logger:  logger,
		client:  client,
		opts:    opts,
		profile: profile,
	}
}

// BuildRequest returns the completion request sent for the given day.
func (f *OpenAIFetcher) BuildRequest(date time.Time) models.ChatCompletionRequest {
	return models.ChatCompletionRequest{
		Model: f.opts.Model,
		Messages: []models.ChatMessage{
			{Role: models.RoleSystem, Content: f.profile.SystemPrompt},
			{Role: models.RoleUser, Content: prompts.Stamp(f.profile, f.profile.UserPrompt, date)},
		},
		Temperature: f.opts.Temperature,
		MaxTokens:   f.opts.MaxTokens,
	}
}

// FetchDigest performs one completion request and returns the first choice's text.
// There is no retry: any failure is returned to the caller as is.
func (f *OpenAIFetcher) FetchDigest(ctx context.Context, date time.Time) (string, error) {
	if f.opts.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	var (
		result  models.ChatCompletionResponse
		apiErr  models.ChatErrorResponse
		started = time.Now()
	)

	f.logger.Info("requesting ai news summaries", "model", f.opts.Model, "profile", f.profile.Name)

	resp, err := f.client.R().
		SetContext(ctx).
		SetAuthToken(f.opts.APIKey).
		SetBody(f.BuildRequest(date)).
		Post(chatCompletionsPath)
	if err != nil {
		return "", errors.Wrap(err, "fetch digest: chat completion request")
	}

	// Error bodies may be plain text or HTML from a proxy.
	if resp.IsError() {
		var message string
		if json.Unmarshal(resp.Body(), &apiErr) == nil {
			message = apiErr.Error.Message
		}
		if message == "" {
			message = truncate(strings.TrimSpace(string(resp.Body())), 300)
		}
		return "", errors.Wrap(&APIError{StatusCode: resp.StatusCode(), Message: message}, "fetch digest")
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", errors.Wrap(err, "fetch digest: decode response")
	}

	if len(result.Choices) == 0 {
		return "", errors.Wrap(ErrEmptyDigest, "fetch digest: no choices")
	}

	content := result.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errors.Wrap(ErrEmptyDigest, "fetch digest: empty message")
	}

	attrs := []any{"elapsed_ms", time.Since(started).Milliseconds(), "chars", len(content)}
	if result.Usage != nil {
		attrs = append(attrs, "total_tokens", result.Usage.TotalTokens)
	}
	f.logger.Info("summaries generated", attrs...)

	return content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
