package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/pactlens/pactlens/internal/llm"
)

const maxTokens = 4096

// Config for the OpenAI completion client.
type Config struct {
	APIKey  string
	BaseURL string        // default https://api.openai.com/v1
	Model   string        // e.g. "gpt-4o-mini"
	Timeout time.Duration // http client timeout
}

// Client adapts the OpenAI chat/completions endpoint to llm.Completer.
// It is constructed once at startup and shared across requests; the SDK's
// HTTP client tolerates concurrent calls without serialization.
type Client struct {
	api *openai.Client
	cfg Config
	log *slog.Logger
}

// NewClient validates configuration and builds the client. A missing API key
// fails construction rather than the first request.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{api: openai.NewClientWithConfig(apiCfg), cfg: cfg, log: logger}, nil
}

// Model returns the model identifier stamped into analysis provenance.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete performs one chat completion. In JSON mode the payload is
// parse-checked here; a response that is not a single valid JSON document
// yields an llm.MalformedResponseError. No retries are performed.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResult, error) {
	start := time.Now()

	apiReq := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	}
	if req.JSONMode {
		apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		c.log.Error("llm.complete.http_error",
			"model", c.cfg.Model,
			"json_mode", req.JSONMode,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.CompletionResult{}, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llm.CompletionResult{}, llm.NewMalformedResponseError(fmt.Errorf("no choices in response"), "")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	if !req.JSONMode {
		c.log.Debug("llm.complete.ok",
			"model", c.cfg.Model,
			"json_mode", false,
			"content_len", len(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.CompletionResult{Text: content}, nil
	}

	payload := stripCodeFences(content)
	if !json.Valid([]byte(payload)) {
		c.log.Error("llm.complete.invalid_json",
			"model", c.cfg.Model,
			"content_len", len(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.CompletionResult{}, llm.NewMalformedResponseError(fmt.Errorf("payload is not valid JSON"), payload)
	}

	c.log.Debug("llm.complete.ok",
		"model", c.cfg.Model,
		"json_mode", true,
		"content_len", len(payload),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return llm.CompletionResult{JSON: json.RawMessage(payload)}, nil
}

// stripCodeFences removes a wrapping ```json ... ``` block some models emit
// despite the json_object response format.
func stripCodeFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.Index(t, "\n"); i >= 0 {
		t = t[i+1:] // drop the fence language tag line
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
