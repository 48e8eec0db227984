// Package anthropic adapts the Anthropic Messages API to
// toolrun.CompletionProvider.
//
// Stop reasons are mapped onto toolrun finish reasons: end_turn and
// stop_sequence become stop, max_tokens becomes length, tool_use becomes
// tool_calls and refusal becomes content_filter with the text moved into
// the message's Refusal field.
package anthropic
