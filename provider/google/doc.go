// Package google adapts the Gemini API to toolrun.CompletionProvider.
//
// Gemini does not always assign ids to function calls, so calls without one
// get a generated id. Function responses are sent back under the name of
// the call they answer.
package google
