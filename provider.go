package toolrun

import "context"

// Provider identifies an AI provider.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
)

// CompletionProvider submits one completion request and returns the
// provider's response or a transport error.
type CompletionProvider interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// CompletionFunc adapts an ordinary function to CompletionProvider.
type CompletionFunc func(ctx context.Context, req *Request) (*Response, error)

// Complete calls f(ctx, req).
func (f CompletionFunc) Complete(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
