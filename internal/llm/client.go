// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm implements the pipeline's generation, entailment, and
// rewrite capabilities on an OpenAI-compatible chat completion API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pdiddy/summary-engine/internal/httputil"
	"github.com/pdiddy/summary-engine/pkg/types"
)

// DefaultModel is requested when no model is configured.
const DefaultModel = "openai/gpt-oss-120b"

// defaultAPIBase is the DeepInfra OpenAI-compatible API root.
const defaultAPIBase = "https://api.deepinfra.com/v1/openai"

// Backend calls an OpenAI-compatible chat completion endpoint. It
// implements the Generator, EntailmentChecker, and Rewriter capabilities
// consumed by the pipeline.
type Backend struct {
	APIKey     string
	Model      string
	BaseURL    string
	UserAgent  string
	MaxRetries int
	Client     *http.Client

	// Cache, when set, stores responses keyed by the full request shape.
	Cache *Cache
}

// chatRequest is the request body for the chat completions API.
type chatRequest struct {
	Model       string              `json:"model"`
	Messages    []types.ChatMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

// chatResponse is the response body from the chat completions API.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// chatChoice is a single completion choice in the API response.
type chatChoice struct {
	Message types.ChatMessage `json:"message"`
}

// Generate sends one chat completion request and returns the assistant
// message content.
func (b *Backend) Generate(ctx context.Context, messages []types.ChatMessage, temperature float64, maxTokens int) (string, error) {
	return b.chat(ctx, "chat completion", messages, temperature, maxTokens)
}

// chat is the shared request path for all three capabilities. op labels
// the capability in errors.
func (b *Backend) chat(ctx context.Context, op string, messages []types.ChatMessage, temperature float64, maxTokens int) (string, error) {
	model := b.Model
	if model == "" {
		model = DefaultModel
	}

	if b.Cache != nil {
		content, ok, err := b.Cache.Get(ctx, model, messages, temperature, maxTokens)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: response cache read failed: %v\n", err)
		} else if ok {
			return content, nil
		}
	}

	reqBody := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", &types.GenerationError{Op: op, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	base := b.BaseURL
	if base == "" {
		base = defaultAPIBase
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", &types.GenerationError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, b.MaxRetries)
	if err != nil {
		return "", &types.GenerationError{Op: op, Err: fmt.Errorf("calling chat API: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &types.GenerationError{Op: op, Err: fmt.Errorf("chat API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", &types.GenerationError{Op: op, Err: fmt.Errorf("decoding chat response: %w", err)}
	}
	if len(cResp.Choices) == 0 {
		return "", &types.GenerationError{Op: op, Err: fmt.Errorf("chat API returned no choices")}
	}
	content := cResp.Choices[0].Message.Content

	if b.Cache != nil {
		if err := b.Cache.Put(ctx, model, messages, temperature, maxTokens, content); err != nil {
			fmt.Fprintf(os.Stderr, "warning: response cache write failed: %v\n", err)
		}
	}

	return content, nil
}
