package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperr "github.com/fadonmez/backend/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const chatCompletionsEndpoint = "/chat/completions"

// DefaultTimeout bounds a call when the configured timeout is not positive.
const DefaultTimeout = 20 * time.Second

// ClientConfig configures an OpenAI-compatible chat completions client.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxTokens  int
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens"`
	TopP           float64        `json:"top_p"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Client calls the model over HTTP. Calls are rate limited client-side and bounded
// by the configured timeout. Failed calls are never retried.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	prompts    PromptBuilder
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewClient creates an Enricher backed by a chat completions endpoint.
func NewClient(cfg ClientConfig, prompts PromptBuilder, validate *validator.Validate, logger zerolog.Logger) *Client {
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		prompts:    prompts,
		validate:   validate,
		logger:     logger.With().Str("service", "EnrichmentClient").Logger(),
	}
}

func (c *Client) Enrich(ctx context.Context, req Request) (*Result, error) {
	prompt, err := c.prompts.Build(req)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperr.EnrichmentFailed("enrichment is busy, try again later", err)
	}

	start := time.Now()
	content, err := c.complete(ctx, prompt)
	if err != nil {
		c.logger.Error().Err(err).
			Str("word", req.WordName).
			Str("mode", req.Mode.String()).
			Dur("duration", time.Since(start)).
			Msg("Enrichment call failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.EnrichmentFailed("enrichment timed out", err)
		}
		return nil, apperr.EnrichmentFailed("enrichment service unavailable", err)
	}

	res, err := parseReply(c.validate, req, content)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("word", req.WordName).
			Str("mode", req.Mode.String()).
			Msg("Enrichment returned an unusable reply")
		return nil, err
	}
	c.logger.Debug().
		Str("word", req.WordName).
		Str("mode", req.Mode.String()).
		Dur("duration", time.Since(start)).
		Msg("Enrichment succeeded")
	return res, nil
}

// complete sends one chat completion and returns the first choice's content.
func (c *Client) complete(ctx context.Context, prompt Prompt) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature:    0.7,
		MaxTokens:      c.cfg.MaxTokens,
		TopP:           1,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling chat request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + chatCompletionsEndpoint
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling chat completions: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("chat completions returned HTTP %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("chat completions returned HTTP %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", errors.New("chat response has no choices")
	}
	return chat.Choices[0].Message.Content, nil
}
