package scribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"capforge/internal/config"
	"capforge/internal/services"
)

// Client drives the provider's upload, submit, and poll endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the transport (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient constructs a provider client from configuration.
func NewClient(cfg config.Scribe, opts ...Option) *Client {
	client := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.SpeechModel,
		// No timeout: upload sizes and provider queue latency are
		// unbounded; cancellation comes from the caller's context.
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	if c.apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "scribe", "", "provider API key is not set", nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "scribe", "build request", path, err)
	}
	req.Header.Set("Authorization", c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "scribe", "request", path, err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		return nil, services.Wrap(services.ErrAuth, "scribe", "", "provider rejected the API key", nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := readErrorMessage(resp.Body)
		resp.Body.Close()
		return nil, services.Wrap(services.ErrTranscription, "scribe", "request",
			fmt.Sprintf("%s: http %d: %s", path, resp.StatusCode, message), nil)
	}
	return resp, nil
}

func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

// Upload sends the media payload and returns the provider's payload URL.
func (c *Client) Upload(ctx context.Context, payload []byte) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/v2/upload", bytes.NewReader(payload), "application/octet-stream")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", services.Wrap(services.ErrTranscription, "scribe", "upload", "decode response", err)
	}
	if decoded.UploadURL == "" {
		return "", services.Wrap(services.ErrTranscription, "scribe", "upload", "provider returned no upload url", nil)
	}
	return decoded.UploadURL, nil
}

// Submit starts a transcription job for an uploaded payload. An empty
// language code requests automatic language detection.
func (c *Client) Submit(ctx context.Context, audioURL, languageCode string) (string, error) {
	body, err := json.Marshal(submitRequest{
		AudioURL:     audioURL,
		SpeechModel:  c.model,
		LanguageCode: languageCode,
	})
	if err != nil {
		return "", services.Wrap(services.ErrTranscription, "scribe", "submit", "encode request", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/v2/transcript", bytes.NewReader(body), "application/json")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload jobPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", services.Wrap(services.ErrTranscription, "scribe", "submit", "decode response", err)
	}
	if strings.TrimSpace(payload.ID) == "" {
		return "", services.Wrap(services.ErrTranscription, "scribe", "submit", "provider returned no job id", nil)
	}
	return payload.ID, nil
}

// Poll fetches the current state of a transcription job.
func (c *Client) Poll(ctx context.Context, jobID string) (Job, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v2/transcript/"+jobID, nil, "")
	if err != nil {
		return Job{}, err
	}
	defer resp.Body.Close()

	var payload jobPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Job{}, services.Wrap(services.ErrTranscription, "scribe", "poll", "decode response", err)
	}
	job, err := payload.toJob()
	if err != nil {
		return Job{}, services.Wrap(services.ErrTranscription, "scribe", "poll", "", err)
	}
	return job, nil
}
