package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/internal/transcript"
)

func TestBuildRequest(t *testing.T) {
	req := &ai.Request{
		Model: "gemini-2.5-flash",
		Messages: []ai.Message{
			ai.SystemMessage("one"),
			ai.SystemMessage("two"),
			ai.UserMessage("hi"),
		},
		Tools: []ai.Tool{{
			Name:        "lookup",
			Description: "Look up a record",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"id":{"type":"integer","minimum":1}},"required":["id"]}`),
		}},
		Settings: ai.ApplyOptions(ai.WithToolChoice(ai.ToolChoiceNamed("lookup"))),
	}

	contents, config := buildRequest(req)

	require.Len(t, contents, 1)
	require.NotNil(t, config.SystemInstruction)
	assert.Equal(t, "one\n\ntwo", config.SystemInstruction.Parts[0].Text)
	assert.InDelta(t, ai.DefaultTemperature, float64(*config.Temperature), 1e-6)
	assert.Equal(t, int32(ai.DefaultMaxCompletionTokens), config.MaxOutputTokens)

	require.Len(t, config.Tools, 1)
	decl := config.Tools[0].FunctionDeclarations[0]
	assert.Equal(t, "lookup", decl.Name)
	assert.Equal(t, genai.TypeObject, decl.Parameters.Type)
	assert.Equal(t, genai.TypeInteger, decl.Parameters.Properties["id"].Type)
	assert.Equal(t, 1.0, *decl.Parameters.Properties["id"].Minimum)
	assert.Equal(t, []string{"id"}, decl.Parameters.Required)

	fc := config.ToolConfig.FunctionCallingConfig
	assert.Equal(t, genai.FunctionCallingConfigModeAny, fc.Mode)
	assert.Equal(t, []string{"lookup"}, fc.AllowedFunctionNames)
}

func TestConvertToolChoice(t *testing.T) {
	assert.Equal(t, genai.FunctionCallingConfigModeAuto, convertToolChoice(ai.ToolChoiceAuto()).FunctionCallingConfig.Mode)
	assert.Equal(t, genai.FunctionCallingConfigModeNone, convertToolChoice(ai.ToolChoiceNone()).FunctionCallingConfig.Mode)
	assert.Equal(t, genai.FunctionCallingConfigModeAny, convertToolChoice(ai.ToolChoiceRequired()).FunctionCallingConfig.Mode)
}

func TestConvertMessages(t *testing.T) {
	t.Run("function responses carry the call name", func(t *testing.T) {
		msgs := []ai.Message{
			ai.UserMessage("go"),
			ai.AssistantToolCalls([]ai.ToolCall{
				{ID: "c1", Name: "lookup", Arguments: `{"id":1}`},
				{ID: "c2", Name: "count", Arguments: `{}`},
			}),
			{Role: ai.RoleUser, Content: "x", ToolResults: []ai.ToolResult{
				{ToolCallID: "c1", Content: `{"name":"a"}`},
				{ToolCallID: "c2", Content: "3"},
			}},
		}

		contents, system := convertMessages(msgs)

		assert.Nil(t, system)
		require.Len(t, contents, 3)
		assert.Equal(t, "model", contents[1].Role)
		assert.Equal(t, map[string]any{"id": float64(1)}, contents[1].Parts[0].FunctionCall.Args)

		results := contents[2].Parts
		require.Len(t, results, 2)
		assert.Equal(t, "lookup", results[0].FunctionResponse.Name)
		assert.Equal(t, map[string]any{"name": "a"}, results[0].FunctionResponse.Response)
		assert.Equal(t, "count", results[1].FunctionResponse.Name)
		assert.Equal(t, map[string]any{"output": "3"}, results[1].FunctionResponse.Response)
	})

	t.Run("malformed arguments are replayed as text", func(t *testing.T) {
		contents, _ := convertMessages([]ai.Message{
			ai.AssistantToolCalls([]ai.ToolCall{
				{ID: "c1", Name: "lookup", Arguments: `{"id":`},
				{ID: "c2", Name: "count", Arguments: ``},
			}),
		})

		require.NotEmpty(t, contents)
		parts := contents[0].Parts
		require.Len(t, parts, 2)
		assert.Equal(t, map[string]any{"arguments": `{"id":`}, parts[0].FunctionCall.Args)
		assert.Equal(t, map[string]any{}, parts[1].FunctionCall.Args)
	})

	t.Run("unanswered calls are filled in", func(t *testing.T) {
		contents, _ := convertMessages([]ai.Message{
			ai.AssistantToolCalls([]ai.ToolCall{{ID: "c1", Name: "lookup", Arguments: `{}`}}),
		})

		require.Len(t, contents, 2)
		resp := contents[1].Parts[0].FunctionResponse
		assert.Equal(t, "lookup", resp.Name)
		assert.Equal(t, map[string]any{"output": transcript.Unanswered}, resp.Response)
	})
}

func TestConvertResponse(t *testing.T) {
	t.Run("function calls get ids and tool_calls finish", func(t *testing.T) {
		resp := convertResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonStop,
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "thinking", Thought: true},
					{FunctionCall: &genai.FunctionCall{Name: "lookup", Args: map[string]any{"id": 2}}},
				}},
			}},
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
				PromptTokenCount:        50,
				CandidatesTokenCount:    4,
				ThoughtsTokenCount:      6,
				CachedContentTokenCount: 10,
			},
		})

		choice, ok := resp.FirstChoice()
		require.True(t, ok)
		assert.Equal(t, ai.FinishToolCalls, choice.FinishReason)
		assert.Empty(t, choice.Message.Content)
		require.Len(t, choice.Message.ToolCalls, 1)
		call := choice.Message.ToolCalls[0]
		assert.True(t, strings.HasPrefix(call.ID, "call_"))
		assert.JSONEq(t, `{"id":2}`, call.Arguments)
		assert.Equal(t, ai.Usage{PromptTokens: 50, CompletionTokens: 10, CachedPromptTokens: 10}, *resp.Usage)
	})

	t.Run("text reply", func(t *testing.T) {
		resp := convertResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonMaxTokens,
				Content:      &genai.Content{Parts: []*genai.Part{{Text: "Hel"}, {Text: "lo"}}},
			}},
		})

		choice, _ := resp.FirstChoice()
		assert.Equal(t, ai.FinishLength, choice.FinishReason)
		assert.Equal(t, "Hello", choice.Message.Content)
		assert.Nil(t, resp.Usage)
	})

	t.Run("safety stop is a refusal", func(t *testing.T) {
		resp := convertResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		})

		choice, _ := resp.FirstChoice()
		assert.Equal(t, ai.FinishContentFilter, choice.FinishReason)
		assert.Equal(t, "response blocked: SAFETY", choice.Message.Refusal)
	})

	t.Run("blocked prompt", func(t *testing.T) {
		resp := convertResponse(&genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
		})

		choice, ok := resp.FirstChoice()
		require.True(t, ok)
		assert.Equal(t, ai.FinishContentFilter, choice.FinishReason)
		assert.Contains(t, choice.Message.Refusal, "prompt blocked")
	})

	t.Run("no candidates", func(t *testing.T) {
		_, ok := convertResponse(&genai.GenerateContentResponse{}).FirstChoice()
		assert.False(t, ok)
	})
}

func TestWrapError(t *testing.T) {
	t.Run("API errors are categorized", func(t *testing.T) {
		err := wrapError(fmt.Errorf("call: %w", genai.APIError{Code: 503, Message: "unavailable"}))
		assert.True(t, ai.IsTransient(err))
		assert.Equal(t, 503, ai.StatusCodeOf(err))

		err = wrapError(genai.APIError{Code: 400, Message: "bad"})
		assert.True(t, ai.IsUserInput(err))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		plain := errors.New("dial tcp: connection refused")
		assert.Same(t, plain, wrapError(plain))
	})
}
