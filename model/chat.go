package model

import (
	"strings"

	ai "github.com/spetersoncode/toolrun"
)

// ChatModel represents a chat/completion model from any provider.
type ChatModel struct {
	id       string
	provider ai.Provider
	pricing  ChatPricing
	batch    *BatchPricing
}

// Custom creates a model that is not in the built-in table.
func Custom(id string, provider ai.Provider, pricing ChatPricing) ChatModel {
	return ChatModel{id: id, provider: provider, pricing: pricing}
}

// String returns the API identifier for this model.
func (m ChatModel) String() string { return m.id }

// Provider returns which provider this model belongs to.
func (m ChatModel) Provider() ai.Provider { return m.provider }

// Pricing returns the pricing for this model.
func (m ChatModel) Pricing() ChatPricing { return m.pricing }

// BatchPricing returns batch API pricing, if the model supports it.
func (m ChatModel) BatchPricing() (BatchPricing, bool) {
	if m.batch == nil {
		return BatchPricing{}, false
	}
	return *m.batch, true
}

// WithID returns a copy of the model addressed by a different identifier,
// such as an Azure deployment name, keeping its pricing.
func (m ChatModel) WithID(id string) ChatModel {
	m.id = id
	return m
}

// OpenAI models
var (
	GPT4o = ChatModel{id: "gpt-4o", provider: ai.ProviderOpenAI,
		pricing: ChatPricing{InputPerMillion: 2.50, OutputPerMillion: 10.00, CachedInputPerMillion: 1.25},
		batch:   &BatchPricing{InputPerMillion: 1.25, OutputPerMillion: 5.00}}
	GPT4oMini = ChatModel{id: "gpt-4o-mini", provider: ai.ProviderOpenAI,
		pricing: ChatPricing{InputPerMillion: 0.15, OutputPerMillion: 0.60, CachedInputPerMillion: 0.075},
		batch:   &BatchPricing{InputPerMillion: 0.075, OutputPerMillion: 0.30}}
	O1         = ChatModel{id: "o1", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 15.00, OutputPerMillion: 60.00, CachedInputPerMillion: 7.50}}
	O1Mini     = ChatModel{id: "o1-mini", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 12.00, CachedInputPerMillion: 1.50}}
	GPT35Turbo = ChatModel{id: "gpt-3.5-turbo", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 6.00}}
	GPT4       = ChatModel{id: "gpt-4", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 30.00, OutputPerMillion: 60.00}}
	GPT4Turbo  = ChatModel{id: "gpt-4-turbo", provider: ai.ProviderOpenAI, pricing: ChatPricing{InputPerMillion: 10.00, OutputPerMillion: 30.00}}

	// DefaultGPTModel is the default OpenAI model.
	DefaultGPTModel = O1
)

// Anthropic Claude models
var (
	ClaudeSonnet45 = ChatModel{id: "claude-sonnet-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 3.00, OutputPerMillion: 15.00}}
	ClaudeHaiku45  = ChatModel{id: "claude-haiku-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 1.00, OutputPerMillion: 5.00}}
	ClaudeOpus45   = ChatModel{id: "claude-opus-4-5", provider: ai.ProviderAnthropic, pricing: ChatPricing{InputPerMillion: 5.00, OutputPerMillion: 25.00}}

	// DefaultClaudeModel is the default Anthropic model.
	DefaultClaudeModel = ClaudeSonnet45
)

// Google Gemini models
var (
	Gemini25Pro   = ChatModel{id: "gemini-2.5-pro", provider: ai.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 1.25, OutputPerMillion: 10.00}}
	Gemini25Flash = ChatModel{id: "gemini-2.5-flash", provider: ai.ProviderGoogle, pricing: ChatPricing{InputPerMillion: 0.15, OutputPerMillion: 0.60}}

	// DefaultGeminiModel is the default Google model.
	DefaultGeminiModel = Gemini25Flash
)

var known = []ChatModel{
	GPT4o, GPT4oMini, O1, O1Mini, GPT35Turbo, GPT4, GPT4Turbo,
	ClaudeSonnet45, ClaudeHaiku45, ClaudeOpus45,
	Gemini25Pro, Gemini25Flash,
}

// Lookup finds a built-in model by identifier (case-insensitive).
func Lookup(id string) (ChatModel, bool) {
	for _, m := range known {
		if strings.EqualFold(m.id, id) {
			return m, true
		}
	}
	return ChatModel{}, false
}

// Known returns all built-in models.
func Known() []ChatModel {
	out := make([]ChatModel, len(known))
	copy(out, known)
	return out
}

// Default returns the default model for a provider.
func Default(p ai.Provider) ChatModel {
	switch p {
	case ai.ProviderAnthropic:
		return DefaultClaudeModel
	case ai.ProviderGoogle:
		return DefaultGeminiModel
	default:
		return DefaultGPTModel
	}
}
