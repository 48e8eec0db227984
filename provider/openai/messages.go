package openai

import (
	"github.com/openai/openai-go"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/internal/transcript"
)

func buildParams(req *ai.Request) openai.ChatCompletionNewParams {
	s := req.Settings
	params := openai.ChatCompletionNewParams{
		Model:           req.Model,
		Messages:        convertMessages(req.Messages),
		Temperature:     openai.Float(s.Temperature),
		PresencePenalty: openai.Float(s.PresencePenalty),
	}
	if s.MaxCompletionTokens > 0 {
		params.MaxCompletionTokens = openai.Int(s.MaxCompletionTokens)
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
		params.ToolChoice = convertToolChoice(s.ToolChoice)
	}
	return params
}

func convertMessages(messages []ai.Message) []openai.ChatCompletionMessageParamUnion {
	var result []openai.ChatCompletionMessageParamUnion
	for _, msg := range transcript.Pair(messages) {
		switch {
		case len(msg.ToolResults) > 0:
			// One tool message per result, in call order.
			for _, tr := range msg.ToolResults {
				result = append(result, openai.ToolMessage(tr.Content, tr.ToolCallID))
			}

		case msg.Role == ai.RoleAssistant && len(msg.ToolCalls) > 0:
			calls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				calls[i] = openai.ChatCompletionMessageToolCallParam{
					ID: tc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				}
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{ToolCalls: calls},
			})

		case msg.Role == ai.RoleAssistant && msg.Refusal != "":
			result = append(result, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{Refusal: openai.String(msg.Refusal)},
			})

		case msg.Role == ai.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))

		case msg.Role == ai.RoleSystem || msg.Role == ai.RoleDeveloper:
			result = append(result, openai.SystemMessage(msg.Content))

		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

func convertResponse(resp *openai.ChatCompletion) *ai.Response {
	out := &ai.Response{
		ID:      resp.ID,
		Model:   resp.Model,
		Choices: make([]ai.Choice, len(resp.Choices)),
	}
	for i, c := range resp.Choices {
		out.Choices[i] = ai.Choice{
			FinishReason: ai.FinishReason(c.FinishReason),
			Message: ai.Message{
				Role:      ai.RoleAssistant,
				Content:   c.Message.Content,
				Refusal:   c.Message.Refusal,
				ToolCalls: extractToolCalls(c.Message),
			},
		}
	}

	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		out.Usage = &ai.Usage{
			PromptTokens:       resp.Usage.PromptTokens,
			CompletionTokens:   resp.Usage.CompletionTokens,
			CachedPromptTokens: resp.Usage.PromptTokensDetails.CachedTokens,
		}
	}
	return out
}
