// Package openai adapts the OpenAI chat completions API, and Azure OpenAI
// deployments, to toolrun.CompletionProvider.
package openai
