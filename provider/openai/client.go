package openai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	ai "github.com/spetersoncode/toolrun"
)

// DefaultBaseURL is the public OpenAI endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Client wraps the OpenAI SDK to implement ai.CompletionProvider.
type Client struct {
	client openai.Client
	azure  bool
}

// ClientOption configures the OpenAI client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL       string
	azureEndpoint string
	apiVersion    string
	extra         []option.RequestOption
}

// WithBaseURL points the client at an OpenAI-compatible endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithAzure sends requests to an Azure OpenAI resource. The request model
// names the deployment.
func WithAzure(endpoint, apiVersion string) ClientOption {
	return func(c *clientConfig) {
		c.azureEndpoint = endpoint
		c.apiVersion = apiVersion
	}
}

// WithRequestOptions appends raw SDK request options.
func WithRequestOptions(opts ...option.RequestOption) ClientOption {
	return func(c *clientConfig) {
		c.extra = append(c.extra, opts...)
	}
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var reqOpts []option.RequestOption
	if cfg.azureEndpoint != "" {
		reqOpts = append(reqOpts,
			azure.WithEndpoint(cfg.azureEndpoint, cfg.apiVersion),
			azure.WithAPIKey(apiKey),
		)
	} else {
		reqOpts = append(reqOpts, option.WithAPIKey(apiKey))
		if cfg.baseURL != "" {
			reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
		}
	}
	reqOpts = append(reqOpts, cfg.extra...)

	return &Client{
		client: openai.NewClient(reqOpts...),
		azure:  cfg.azureEndpoint != "",
	}
}

// Complete sends one chat completion request.
func (c *Client) Complete(ctx context.Context, req *ai.Request) (*ai.Response, error) {
	resp, err := c.client.Chat.Completions.New(ctx, buildParams(req))
	if err != nil {
		return nil, wrapError(err)
	}
	return convertResponse(resp), nil
}

var _ ai.CompletionProvider = (*Client)(nil)
