package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// Completer is the single-exchange completion contract shared by the
// understanding and reply components. Implementations send one
// system+user exchange and return the raw completion text.
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int32) (string, error)
}

// Client wraps the GenAI SDK for one-shot chat completions.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewClient creates a completion client. A missing API key or model
// fails here, at startup, rather than on the first call. The model
// name comes from configuration; there is no fallback here.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if model == "" {
		return nil, fmt.Errorf("model name required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{client: c, model: model, timeout: timeout}, nil
}

// Complete sends one system+user exchange and returns the completion
// text. Sampling runs near-deterministic: these calls do structured
// extraction and short confirmations, not creative generation.
func (c *Client) Complete(ctx context.Context, system, user string, maxTokens int32) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.1),
		MaxOutputTokens: maxTokens,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), cfg)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("completion returned no text")
	}
	return text, nil
}
