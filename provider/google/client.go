package google

import (
	"context"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/toolrun"
)

// Client wraps the Google GenAI SDK to implement ai.CompletionProvider.
type Client struct {
	client *genai.Client
}

// ClientOption configures the Google client.
type ClientOption func(*genai.ClientConfig)

// WithBaseURL overrides the Gemini API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *genai.ClientConfig) {
		c.HTTPOptions.BaseURL = url
	}
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Client{client: client}, nil
}

// Complete sends one GenerateContent request.
func (c *Client) Complete(ctx context.Context, req *ai.Request) (*ai.Response, error) {
	contents, config := buildRequest(req)
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}
	return convertResponse(resp), nil
}

var _ ai.CompletionProvider = (*Client)(nil)
