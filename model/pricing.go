package model

// ChatPricing contains pricing per million tokens (USD) for chat models.
// Fields are zero if not applicable to a specific model.
type ChatPricing struct {
	// InputPerMillion is the standard input token pricing.
	InputPerMillion float64
	// OutputPerMillion is the standard output token pricing.
	OutputPerMillion float64
	// CachedInputPerMillion is for prompt-cached input tokens.
	// Check HasCachedPricing() before using.
	CachedInputPerMillion float64
}

// HasCachedPricing returns true if the model supports cached input pricing.
func (p ChatPricing) HasCachedPricing() bool {
	return p.CachedInputPerMillion > 0
}

// CachedInput returns the cached input price, falling back to the standard
// input price when the model has no cached tier.
func (p ChatPricing) CachedInput() float64 {
	if p.HasCachedPricing() {
		return p.CachedInputPerMillion
	}
	return p.InputPerMillion
}

// BatchPricing contains batch API pricing per million tokens (USD).
type BatchPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}
