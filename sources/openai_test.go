package sources

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kova98/aidigest/models"
	"github.com/kova98/aidigest/prompts"
)

var testDate = time.Date(2026, 10, 18, 7, 30, 0, 0, time.UTC)

type fakeAPI struct {
	hits     atomic.Int32
	lastBody models.ChatCompletionRequest
	lastAuth string
	status   int
	response string
}

func (a *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.hits.Add(1)
	a.lastAuth = r.Header.Get("Authorization")
	body, _ := io.ReadAll(r.Body)
	_ = json.Unmarshal(body, &a.lastBody)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(a.status)
	_, _ = io.WriteString(w, a.response)
}

func newTestFetcher(t *testing.T, api *fakeAPI, apiKey string) *OpenAIFetcher {
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	profile, err := prompts.Load("fr")
	require.NoError(t, err)

	return NewOpenAIFetcher(slog.New(slog.NewTextHandler(io.Discard, nil)), server.Client(), OpenAIOptions{
		APIKey:      apiKey,
		BaseURL:     server.URL + "/v1/",
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   2000,
	}, profile)
}

func TestFetchDigest_Success(t *testing.T) {
	api := &fakeAPI{
		status:   http.StatusOK,
		response: `{"id":"cmpl-1","choices":[{"index":0,"message":{"role":"assistant","content":"  ## 1. Title\n\nRésumé : text  "}}],"usage":{"total_tokens":42}}`,
	}
	fetcher := newTestFetcher(t, api, "sk-test")

	digest, err := fetcher.FetchDigest(context.Background(), testDate)

	require.NoError(t, err)
	assert.Equal(t, "  ## 1. Title\n\nRésumé : text  ", digest, "content is returned as sent")
	assert.Equal(t, int32(1), api.hits.Load())
	assert.Equal(t, "Bearer sk-test", api.lastAuth)
	assert.Equal(t, "gpt-4o-mini", api.lastBody.Model)
	assert.Equal(t, 0.7, api.lastBody.Temperature)
	assert.Equal(t, 2000, api.lastBody.MaxTokens)
	require.Len(t, api.lastBody.Messages, 2)
	assert.Equal(t, models.RoleSystem, api.lastBody.Messages[0].Role)
	assert.Equal(t, models.RoleUser, api.lastBody.Messages[1].Role)
	assert.Contains(t, api.lastBody.Messages[1].Content, "18/10/2026")
}

func TestFetchDigest_MissingAPIKeyMakesNoRequest(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK, response: `{}`}
	fetcher := newTestFetcher(t, api, "")

	digest, err := fetcher.FetchDigest(context.Background(), testDate)

	assert.Empty(t, digest)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
	assert.Equal(t, int32(0), api.hits.Load())
}

func TestFetchDigest_APIErrorSurfacesMessage(t *testing.T) {
	api := &fakeAPI{
		status:   http.StatusUnauthorized,
		response: `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
	}
	fetcher := newTestFetcher(t, api, "sk-wrong")

	_, err := fetcher.FetchDigest(context.Background(), testDate)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Incorrect API key provided", apiErr.Message)
	assert.Equal(t, int32(1), api.hits.Load(), "no retry")
}

func TestFetchDigest_ServerErrorWithoutJSONBody(t *testing.T) {
	api := &fakeAPI{status: http.StatusBadGateway, response: `upstream unavailable`}
	fetcher := newTestFetcher(t, api, "sk-test")

	_, err := fetcher.FetchDigest(context.Background(), testDate)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
	assert.Contains(t, err.Error(), "502")
	assert.NotContains(t, err.Error(), "chat completion request")
}

func TestFetchDigest_ServerErrorWithHTMLBody(t *testing.T) {
	api := &fakeAPI{status: http.StatusServiceUnavailable, response: `<html><body>503 Service Unavailable</body></html>`}
	fetcher := newTestFetcher(t, api, "sk-test")

	_, err := fetcher.FetchDigest(context.Background(), testDate)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "503 Service Unavailable")
}

func TestFetchDigest_NoChoices(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK, response: `{"choices":[]}`}
	fetcher := newTestFetcher(t, api, "sk-test")

	_, err := fetcher.FetchDigest(context.Background(), testDate)

	assert.True(t, errors.Is(err, ErrEmptyDigest))
}

func TestFetchDigest_EmptyContent(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK, response: `{"choices":[{"message":{"content":"   "}}]}`}
	fetcher := newTestFetcher(t, api, "sk-test")

	_, err := fetcher.FetchDigest(context.Background(), testDate)

	assert.True(t, errors.Is(err, ErrEmptyDigest))
}

func TestFetchDigest_MalformedJSON(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK, response: `{"choices":[`}
	fetcher := newTestFetcher(t, api, "sk-test")

	_, err := fetcher.FetchDigest(context.Background(), testDate)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestFetchDigest_TransportError(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK}
	server := httptest.NewServer(api)
	server.Close()

	profile, err := prompts.Load("en")
	require.NoError(t, err)
	fetcher := NewOpenAIFetcher(slog.New(slog.NewTextHandler(io.Discard, nil)), &http.Client{Timeout: time.Second},
		OpenAIOptions{APIKey: "sk-test", BaseURL: server.URL, Model: "m"}, profile)

	_, err = fetcher.FetchDigest(context.Background(), testDate)

	assert.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestBuildRequest_UsesProfile(t *testing.T) {
	profile, err := prompts.Load("en")
	require.NoError(t, err)
	fetcher := NewOpenAIFetcher(slog.Default(), http.DefaultClient, OpenAIOptions{Model: "m", Temperature: 0.3, MaxTokens: 10}, profile)

	req := fetcher.BuildRequest(testDate)

	assert.Equal(t, profile.SystemPrompt, req.Messages[0].Content)
	assert.Contains(t, req.Messages[1].Content, "October 18, 2026")
	assert.Equal(t, 0.3, req.Temperature)
	assert.Equal(t, 10, req.MaxTokens)
}

func TestAPIError_Message(t *testing.T) {
	assert.Equal(t, "openai returned status 500", (&APIError{StatusCode: 500}).Error())
	assert.Equal(t, "openai returned status 429: slow down", (&APIError{StatusCode: 429, Message: "slow down"}).Error())
}
