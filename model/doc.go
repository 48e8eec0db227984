// Package model provides model identifiers with pricing for all supported providers.
//
// Models know their provider and their per-million-token prices. The budget
// package charges token usage against these prices:
//
//	m, ok := model.Lookup("gpt-4o")
//	if !ok {
//	    m = model.Custom("my-finetune", ai.ProviderOpenAI, model.ChatPricing{
//	        InputPerMillion:  3.00,
//	        OutputPerMillion: 12.00,
//	    })
//	}
//
// # Pricing Information
//
// Some pricing fields are model-specific. Use helper methods to check availability:
//
//	pricing := model.GPT4o.Pricing()
//	if pricing.HasCachedPricing() {
//	    cachedCost := float64(cachedTokens) / 1_000_000 * pricing.CachedInputPerMillion
//	}
//
//	if batch, ok := model.GPT4o.BatchPricing(); ok {
//	    batchCost := float64(inputTokens) / 1_000_000 * batch.InputPerMillion
//	}
package model
