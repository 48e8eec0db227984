package openai

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/spetersoncode/toolrun"
)

func TestBuildParams(t *testing.T) {
	t.Run("copies settings and tools", func(t *testing.T) {
		req := &ai.Request{
			Model:    "gpt-4o",
			Messages: []ai.Message{ai.SystemMessage("sys"), ai.UserMessage("hi")},
			Tools: []ai.Tool{{
				Name:        "search",
				Description: "Search files",
				Parameters:  json.RawMessage(`{"type":"object","properties":{"q":{"type":"string"}}}`),
				Strict:      true,
			}},
			Settings: ai.ApplyOptions(ai.WithToolChoice(ai.ToolChoiceNamed("search"))),
		}

		params := buildParams(req)

		assert.Equal(t, "gpt-4o", params.Model)
		assert.Len(t, params.Messages, 2)
		assert.Equal(t, ai.DefaultTemperature, params.Temperature.Value)
		assert.Equal(t, int64(ai.DefaultMaxCompletionTokens), params.MaxCompletionTokens.Value)
		require.Len(t, params.Tools, 1)
		assert.Equal(t, "search", params.Tools[0].Function.Name)
		assert.True(t, params.Tools[0].Function.Strict.Value)
		assert.Equal(t, "object", params.Tools[0].Function.Parameters["type"])
		require.NotNil(t, params.ToolChoice.OfChatCompletionNamedToolChoice)
		assert.Equal(t, "search", params.ToolChoice.OfChatCompletionNamedToolChoice.Function.Name)
	})

	t.Run("no tools leaves tool choice unset", func(t *testing.T) {
		params := buildParams(&ai.Request{Model: "m", Settings: ai.DefaultSettings()})
		assert.Empty(t, params.Tools)
		assert.Nil(t, params.ToolChoice.OfChatCompletionNamedToolChoice)
		assert.False(t, params.ToolChoice.OfAuto.Valid())
	})
}

func TestConvertToolChoice(t *testing.T) {
	assert.Equal(t, "auto", convertToolChoice(ai.ToolChoiceAuto()).OfAuto.Value)
	assert.Equal(t, "none", convertToolChoice(ai.ToolChoiceNone()).OfAuto.Value)
	assert.Equal(t, "required", convertToolChoice(ai.ToolChoiceRequired()).OfAuto.Value)
}

func TestConvertMessages(t *testing.T) {
	t.Run("tool results become tool messages", func(t *testing.T) {
		msgs := []ai.Message{
			ai.UserMessage("find it"),
			ai.AssistantToolCalls([]ai.ToolCall{
				{ID: "c1", Name: "a", Arguments: "{}"},
				{ID: "c2", Name: "b", Arguments: "{}"},
			}),
			{Role: ai.RoleUser, Content: "one\ntwo", ToolResults: []ai.ToolResult{
				{ToolCallID: "c1", Content: "one"},
				{ToolCallID: "c2", Content: "two"},
			}},
		}

		out := convertMessages(msgs)

		require.Len(t, out, 4)
		require.NotNil(t, out[0].OfUser)
		require.NotNil(t, out[1].OfAssistant)
		assert.Len(t, out[1].OfAssistant.ToolCalls, 2)
		require.NotNil(t, out[2].OfTool)
		assert.Equal(t, "c1", out[2].OfTool.ToolCallID)
		require.NotNil(t, out[3].OfTool)
		assert.Equal(t, "c2", out[3].OfTool.ToolCallID)
	})

	t.Run("unanswered calls get placeholder results", func(t *testing.T) {
		msgs := []ai.Message{
			ai.AssistantToolCalls([]ai.ToolCall{{ID: "c1", Name: "a", Arguments: "{}"}}),
			ai.UserMessage("try again"),
		}

		out := convertMessages(msgs)

		require.Len(t, out, 3)
		require.NotNil(t, out[1].OfTool)
		assert.Equal(t, "c1", out[1].OfTool.ToolCallID)
		require.NotNil(t, out[2].OfUser)
	})

	t.Run("refusal and developer roles", func(t *testing.T) {
		out := convertMessages([]ai.Message{
			{Role: ai.RoleDeveloper, Content: "dev"},
			ai.AssistantRefusal("no"),
		})

		require.Len(t, out, 2)
		assert.NotNil(t, out[0].OfSystem)
		require.NotNil(t, out[1].OfAssistant)
		assert.Equal(t, "no", out[1].OfAssistant.Refusal.Value)
	})
}

func TestComplete(t *testing.T) {
	t.Run("round trips through the HTTP API", func(t *testing.T) {
		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &got)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{
				"id": "chatcmpl-1",
				"object": "chat.completion",
				"created": 1,
				"model": "gpt-4o",
				"choices": [{
					"index": 0,
					"finish_reason": "tool_calls",
					"message": {
						"role": "assistant",
						"content": null,
						"refusal": null,
						"tool_calls": [{
							"id": "call_1",
							"type": "function",
							"function": {"name": "search", "arguments": "{\"q\":\"x\"}"}
						}]
					}
				}],
				"usage": {
					"prompt_tokens": 120,
					"completion_tokens": 7,
					"total_tokens": 127,
					"prompt_tokens_details": {"cached_tokens": 100}
				}
			}`)
		}))
		defer srv.Close()

		c := New("test-key", WithBaseURL(srv.URL+"/"), WithRequestOptions(option.WithMaxRetries(0)))
		resp, err := c.Complete(t.Context(), &ai.Request{
			Model:    "gpt-4o",
			Messages: []ai.Message{ai.UserMessage("hi")},
			Settings: ai.DefaultSettings(),
		})

		require.NoError(t, err)
		assert.Equal(t, "gpt-4o", got["model"])
		choice, ok := resp.FirstChoice()
		require.True(t, ok)
		assert.Equal(t, ai.FinishToolCalls, choice.FinishReason)
		require.Len(t, choice.Message.ToolCalls, 1)
		assert.Equal(t, ai.ToolCall{ID: "call_1", Name: "search", Arguments: `{"q":"x"}`}, choice.Message.ToolCalls[0])
		require.NotNil(t, resp.Usage)
		assert.Equal(t, ai.Usage{PromptTokens: 120, CompletionTokens: 7, CachedPromptTokens: 100}, *resp.Usage)
	})

	t.Run("API errors are categorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":{"message":"slow down","type":"rate_limit"}}`)
		}))
		defer srv.Close()

		c := New("test-key", WithBaseURL(srv.URL+"/"), WithRequestOptions(option.WithMaxRetries(0)))
		_, err := c.Complete(t.Context(), &ai.Request{Model: "gpt-4o", Settings: ai.DefaultSettings()})

		require.Error(t, err)
		assert.True(t, ai.IsTransient(err))
		assert.Equal(t, 429, ai.StatusCodeOf(err))
		var apiErr *openai.Error
		assert.ErrorAs(t, err, &apiErr)
	})
}

func TestConvertResponseWithoutUsage(t *testing.T) {
	resp := convertResponse(&openai.ChatCompletion{
		ID: "x",
		Choices: []openai.ChatCompletionChoice{{
			FinishReason: "stop",
			Message:      openai.ChatCompletionMessage{Content: "hello"},
		}},
	})

	assert.Nil(t, resp.Usage)
	choice, ok := resp.FirstChoice()
	require.True(t, ok)
	assert.Equal(t, "hello", choice.Message.Content)
	assert.Equal(t, ai.FinishStop, choice.FinishReason)
}
