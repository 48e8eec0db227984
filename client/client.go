package client

import (
	"context"
	"errors"
	"fmt"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/model"
	"github.com/spetersoncode/toolrun/provider/anthropic"
	"github.com/spetersoncode/toolrun/provider/google"
	"github.com/spetersoncode/toolrun/provider/openai"
)

// ErrUnknownProvider is returned for a model whose provider has no adapter.
var ErrUnknownProvider = errors.New("client: unknown provider")

// APIKeys holds API keys for different providers.
type APIKeys struct {
	Anthropic string
	OpenAI    string
	Google    string
}

// Config holds what is needed to reach each provider.
type Config struct {
	APIKeys APIKeys

	// OpenAIBaseURL overrides the OpenAI endpoint. Ignored for Azure.
	OpenAIBaseURL string
	// AzureEndpoint, when set, routes OpenAI models to an Azure deployment.
	AzureEndpoint   string
	AzureAPIVersion string
}

// ErrMissingAPIKey is returned when the model's provider has no API key.
type ErrMissingAPIKey struct {
	Provider ai.Provider
	Model    string
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("no API key configured for %s (required by model %q)", e.Provider, e.Model)
}

// New returns the completion provider serving m.
func New(ctx context.Context, cfg Config, m model.ChatModel) (ai.CompletionProvider, error) {
	switch m.Provider() {
	case ai.ProviderOpenAI:
		if cfg.APIKeys.OpenAI == "" {
			return nil, &ErrMissingAPIKey{Provider: ai.ProviderOpenAI, Model: m.String()}
		}
		var opts []openai.ClientOption
		switch {
		case cfg.AzureEndpoint != "":
			opts = append(opts, openai.WithAzure(cfg.AzureEndpoint, cfg.AzureAPIVersion))
		case cfg.OpenAIBaseURL != "" && cfg.OpenAIBaseURL != openai.DefaultBaseURL:
			opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		return openai.New(cfg.APIKeys.OpenAI, opts...), nil

	case ai.ProviderAnthropic:
		if cfg.APIKeys.Anthropic == "" {
			return nil, &ErrMissingAPIKey{Provider: ai.ProviderAnthropic, Model: m.String()}
		}
		return anthropic.New(cfg.APIKeys.Anthropic), nil

	case ai.ProviderGoogle:
		if cfg.APIKeys.Google == "" {
			return nil, &ErrMissingAPIKey{Provider: ai.ProviderGoogle, Model: m.String()}
		}
		p, err := google.New(ctx, cfg.APIKeys.Google)
		if err != nil {
			return nil, fmt.Errorf("client: google: %w", err)
		}
		return p, nil

	default:
		return nil, fmt.Errorf("%w: %q (model %q)", ErrUnknownProvider, m.Provider(), m.String())
	}
}
