package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"

	// maxInputChars bounds how much of the window is sent upstream.
	maxInputChars = 8000
)

// Anthropic summarizes via the Anthropic Messages API.
type Anthropic struct {
	apiKey    string
	model     string
	maxTokens int
	endpoint  string
	client    *http.Client
	limiter   *rate.Limiter
}

// NewAnthropic builds a client whose per-request budget is timeout.
// The same budget usually also arrives via the caller's context; the
// client timeout backstops callers that pass a bare context.
func NewAnthropic(apiKey, model string, maxTokens int, timeout time.Duration) *Anthropic {
	return &Anthropic{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		endpoint:  anthropicEndpoint,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(1), 1),
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Summarize sends one blocking request and returns the model's reply
// verbatim. The caller's context carries the deadline; cancellation
// aborts the request.
func (s *Anthropic) Summarize(ctx context.Context, text string) (*Summary, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	reply, err := s.callAPI(ctx, buildPrompt(text))
	if err != nil {
		return nil, err
	}
	return &Summary{Text: reply}, nil
}

func buildPrompt(text string) string {
	if len(text) > maxInputChars {
		text = text[:maxInputChars]
	}
	return fmt.Sprintf(`You are a reading companion. Summarize the following book excerpt.

Provide:
1. 5 bullet points covering the key ideas, in the order they appear
2. A short "Practical application" section with one or two concrete takeaways

Excerpt:
%s`, text)
}

func (s *Anthropic) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := anthropicRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: failed to read response: %w", err)
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("anthropic: failed to parse response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("anthropic: API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("anthropic: empty response")
	}

	return apiResp.Content[0].Text, nil
}
