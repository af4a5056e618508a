package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"arcade-bot/internal/config"

	"github.com/rs/zerolog/log"
)

// Client talks to the generative content provider. Responses are treated as
// an untrusted contract: shape is validated before use and a transient
// overload is the only condition worth retrying.
type Client struct {
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	http       *http.Client

	attempts    int
	backoffBase time.Duration
}

func New(cfg config.ProviderConfig, attempts int, backoffBase time.Duration) *Client {
	if attempts < 1 {
		attempts = 1
	}
	if backoffBase <= 0 {
		backoffBase = time.Second
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		textModel:   cfg.TextModel,
		imageModel:  cfg.ImageModel,
		http:        &http.Client{Timeout: timeout},
		attempts:    attempts,
		backoffBase: backoffBase,
	}
}

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType   string   `json:"responseMimeType,omitempty"`
	ResponseModalities []string `json:"responseModalities,omitempty"`
	Temperature        float64  `json:"temperature,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Complete returns a free-form completion for an assistant reply.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{Temperature: 0.8},
	}
	if system != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}
	parts, err := c.generate(ctx, c.textModel, req)
	if err != nil {
		return "", err
	}
	text := collectText(parts)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrBadPayload)
	}
	return text, nil
}

// GenerateJSON asks for structured output and unmarshals it into out. The
// raw text may arrive wrapped in a fenced code block; the wrapper is
// stripped before parsing. A parse failure is ErrBadPayload and is not
// retried, since a malformed answer rarely improves on replay.
func (c *Client) GenerateJSON(ctx context.Context, prompt string, out any) error {
	req := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	}
	parts, err := c.generate(ctx, c.textModel, req)
	if err != nil {
		return err
	}
	raw := ExtractJSON(collectText(parts))
	if raw == "" {
		return fmt.Errorf("%w: empty response", ErrBadPayload)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return nil
}

// GenerateImage returns raw image bytes for a text prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	req := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseModalities: []string{"IMAGE", "TEXT"}},
	}
	parts, err := c.generate(ctx, c.imageModel, req)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		if p.InlineData == nil {
			continue
		}
		img, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
		}
		return img, nil
	}
	return nil, ErrNoImage
}

func (c *Client) generate(ctx context.Context, model string, req generateRequest) ([]part, error) {
	var parts []part
	err := c.withRetry(ctx, func() error {
		var err error
		parts, err = c.doGenerate(ctx, model, req)
		return err
	})
	return parts, err
}

func (c *Client) doGenerate(ctx context.Context, model string, req generateRequest) ([]part, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrOverloaded
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("provider status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if len(out.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrBadPayload)
	}
	return out.Candidates[0].Content.Parts, nil
}

// withRetry runs fn up to c.attempts times, backing off exponentially, but
// only while the failure is the transient overload signal.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	delay := c.backoffBase
	var err error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, ErrOverloaded) {
			return err
		}
		if attempt == c.attempts {
			break
		}
		log.Warn().
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("provider overloaded, retrying")
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return err
}

func collectText(parts []part) string {
	var b strings.Builder
	for _, p := range parts {
		if p.Text != "" {
			b.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(b.String())
}
