package anthropic

import (
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/rs/zerolog/log"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/internal/transcript"
)

// maxTemperature is the upper bound the Messages API accepts.
const maxTemperature = 1.0

func buildParams(req *ai.Request) anthropic.MessageNewParams {
	s := req.Settings
	maxTokens := s.MaxCompletionTokens
	if maxTokens <= 0 {
		maxTokens = ai.DefaultMaxCompletionTokens
	}

	msgs, system := convertMessages(req.Messages)
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   maxTokens,
		Messages:    msgs,
		Temperature: anthropic.Float(min(s.Temperature, maxTemperature)),
	}
	if len(system) > 0 {
		params.System = system
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
		params.ToolChoice = convertToolChoice(s.ToolChoice)
	}
	return params
}

func convertMessages(messages []ai.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var result []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	for _, msg := range transcript.Pair(messages) {
		switch {
		case msg.Role == ai.RoleSystem || msg.Role == ai.RoleDeveloper:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})

		case len(msg.ToolResults) > 0:
			blocks := make([]anthropic.ContentBlockParamUnion, len(msg.ToolResults))
			for i, tr := range msg.ToolResults {
				blocks[i] = anthropic.NewToolResultBlock(tr.ToolCallID, tr.Content, false)
			}
			result = append(result, anthropic.NewUserMessage(blocks...))

		case msg.Role == ai.RoleAssistant && len(msg.ToolCalls) > 0:
			blocks := make([]anthropic.ContentBlockParamUnion, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				blocks[i] = anthropic.NewToolUseBlock(tc.ID, toolInput(tc), tc.Name)
			}
			result = append(result, anthropic.NewAssistantMessage(blocks...))

		case msg.Role == ai.RoleAssistant:
			text := msg.Content
			if text == "" {
				text = msg.Refusal
			}
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(text)))

		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return result, system
}

// toolInput decodes call arguments for a tool_use block. Arguments that are
// not a JSON object are kept verbatim under "arguments".
func toolInput(tc ai.ToolCall) map[string]any {
	var input map[string]any
	err := json.Unmarshal([]byte(tc.Arguments), &input)
	if err == nil && input != nil {
		return input
	}
	if strings.TrimSpace(tc.Arguments) == "" {
		return map[string]any{}
	}
	log.Debug().Err(err).Str("tool", tc.Name).Str("call_id", tc.ID).Msg("replaying undecodable tool arguments as text")
	return map[string]any{"arguments": tc.Arguments}
}

func convertResponse(resp *anthropic.Message) *ai.Response {
	var text strings.Builder
	var calls []ai.ToolCall
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			calls = append(calls, ai.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: string(block.Input),
			})
		}
	}

	msg := ai.Message{Role: ai.RoleAssistant, ToolCalls: calls}
	reason := convertStopReason(resp.StopReason)
	if reason == ai.FinishContentFilter {
		msg.Refusal = text.String()
		if msg.Refusal == "" {
			msg.Refusal = "The model declined to respond."
		}
	} else {
		msg.Content = text.String()
	}

	out := &ai.Response{
		ID:      resp.ID,
		Model:   string(resp.Model),
		Choices: []ai.Choice{{FinishReason: reason, Message: msg}},
	}

	u := resp.Usage
	if u.InputTokens > 0 || u.OutputTokens > 0 {
		out.Usage = &ai.Usage{
			PromptTokens:       u.InputTokens + u.CacheReadInputTokens + u.CacheCreationInputTokens,
			CompletionTokens:   u.OutputTokens,
			CachedPromptTokens: u.CacheReadInputTokens,
		}
	}
	return out
}

func convertStopReason(reason anthropic.StopReason) ai.FinishReason {
	switch reason {
	case anthropic.StopReasonEndTurn, anthropic.StopReasonStopSequence:
		return ai.FinishStop
	case anthropic.StopReasonMaxTokens:
		return ai.FinishLength
	case anthropic.StopReasonToolUse:
		return ai.FinishToolCalls
	case anthropic.StopReasonRefusal:
		return ai.FinishContentFilter
	default:
		return ai.FinishReason(reason)
	}
}
