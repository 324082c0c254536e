// ABOUTME: HTTP client for the external generateContent service
// ABOUTME: Sends stateless single-query requests and maps failures to typed errors

package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Failure kinds. Callers match with errors.Is; the orchestrator converts both
// into the same user-visible retry message.
var (
	// ErrRequestFailed covers transport errors and non-2xx statuses
	ErrRequestFailed = errors.New("generation request failed")
	// ErrMalformedResponse covers bodies without the expected candidate shape
	ErrMalformedResponse = errors.New("malformed generation response")
)

// systemInstruction is sent ahead of every query. It is fixed: the service
// receives the same guidance on every call.
const systemInstruction = `You are a helpful customer support assistant. Provide accurate, concise information about products, orders, shipping, and store policies.

Important guidelines:
- Keep responses very brief - aim for 2-3 short paragraphs maximum
- Use simple, clear language
- Be friendly but professional
- When providing information, prioritize accuracy and brevity
- Organize information with bullet points when appropriate
- Never make up information - if you don't know, say so`

// Fixed generation parameters, identical for every call.
const (
	temperature     = 0.4
	topK            = 40
	topP            = 0.95
	maxOutputTokens = 500
)

// safetyCategories are each requested at the same fixed threshold.
var safetyCategories = []string{
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

const safetyThreshold = "BLOCK_MEDIUM_AND_ABOVE"

// Config holds the settings needed to reach the generation service
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls the generation service. It is stateless: no memory of previous
// calls is held, and no prior conversation turns are ever included in a
// request.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a generation client. Pass nil logger for default.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "genai"),
	}
}

// Wire types for the generateContent request body
type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

// Wire types for the generateContent response body
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content candidateContent `json:"content"`
}

type candidateContent struct {
	Parts []part `json:"parts"`
}

// Generate sends the query to the generation service and returns the reply
// text. Only the fixed system instruction and the current query are sent,
// never prior turns. Returns ErrRequestFailed for transport/status failures
// and ErrMalformedResponse when the body lacks the expected shape.
func (c *Client) Generate(ctx context.Context, query string) (string, error) {
	body := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: systemInstruction}}},
			{Role: "user", Parts: []part{{Text: query}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			TopK:            topK,
			TopP:            topP,
			MaxOutputTokens: maxOutputTokens,
		},
		SafetySettings: buildSafetySettings(),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.cfg.BaseURL, c.cfg.Model, url.QueryEscape(c.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a bounded chunk of the error body for the log only; the raw
		// error never reaches the conversation surface.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("generation request rejected",
			"status", resp.StatusCode,
			"detail", string(detail))
		return "", fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	// Only the first candidate's first part is used, even when the service
	// returns more.
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: missing candidate text", ErrMalformedResponse)
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("%w: empty candidate text", ErrMalformedResponse)
	}

	c.logger.Debug("generated response", "length", len(text))
	return text, nil
}

func buildSafetySettings() []safetySetting {
	settings := make([]safetySetting, len(safetyCategories))
	for i, category := range safetyCategories {
		settings[i] = safetySetting{Category: category, Threshold: safetyThreshold}
	}
	return settings
}
