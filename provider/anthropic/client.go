package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	ai "github.com/spetersoncode/toolrun"
)

// Client wraps the Anthropic SDK to implement ai.CompletionProvider.
type Client struct {
	client anthropic.Client
}

// ClientOption configures the Anthropic client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	opts []option.RequestOption
}

// WithBaseURL points the client at a different Messages API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.opts = append(c.opts, option.WithBaseURL(url))
	}
}

// WithRequestOptions appends raw SDK request options.
func WithRequestOptions(opts ...option.RequestOption) ClientOption {
	return func(c *clientConfig) {
		c.opts = append(c.opts, opts...)
	}
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey)}, cfg.opts...)
	return &Client{client: anthropic.NewClient(reqOpts...)}
}

// Complete sends one Messages API request.
func (c *Client) Complete(ctx context.Context, req *ai.Request) (*ai.Response, error) {
	resp, err := c.client.Messages.New(ctx, buildParams(req))
	if err != nil {
		return nil, wrapError(err)
	}
	return convertResponse(resp), nil
}

var _ ai.CompletionProvider = (*Client)(nil)
