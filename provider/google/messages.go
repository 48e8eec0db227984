package google

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	ai "github.com/spetersoncode/toolrun"
	"github.com/spetersoncode/toolrun/internal/transcript"
)

func buildRequest(req *ai.Request) ([]*genai.Content, *genai.GenerateContentConfig) {
	s := req.Settings
	contents, system := convertMessages(req.Messages)

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(s.Temperature)),
		PresencePenalty: genai.Ptr(float32(s.PresencePenalty)),
	}
	if s.MaxCompletionTokens > 0 {
		config.MaxOutputTokens = int32(s.MaxCompletionTokens)
	}
	if system != nil {
		config.SystemInstruction = system
	}
	if len(req.Tools) > 0 {
		config.Tools = convertTools(req.Tools)
		config.ToolConfig = convertToolChoice(s.ToolChoice)
	}
	return contents, config
}

func convertMessages(messages []ai.Message) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var system []string
	// Function responses must carry the name of the call they answer.
	names := map[string]string{}

	for _, msg := range transcript.Pair(messages) {
		switch {
		case msg.Role == ai.RoleSystem || msg.Role == ai.RoleDeveloper:
			system = append(system, msg.Content)

		case len(msg.ToolResults) > 0:
			parts := make([]*genai.Part, len(msg.ToolResults))
			for i, tr := range msg.ToolResults {
				parts[i] = &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       tr.ToolCallID,
					Name:     names[tr.ToolCallID],
					Response: functionResponse(tr.Content),
				}}
			}
			contents = append(contents, &genai.Content{Role: string(genai.RoleUser), Parts: parts})

		case msg.Role == ai.RoleAssistant && len(msg.ToolCalls) > 0:
			parts := make([]*genai.Part, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				names[tc.ID] = tc.Name
				parts[i] = &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   tc.ID,
					Name: tc.Name,
					Args: functionArgs(tc),
				}}
			}
			contents = append(contents, &genai.Content{Role: string(genai.RoleModel), Parts: parts})

		case msg.Role == ai.RoleAssistant:
			text := msg.Content
			if text == "" {
				text = msg.Refusal
			}
			contents = append(contents, genai.NewContentFromText(text, genai.RoleModel))

		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	if len(system) == 0 {
		return contents, nil
	}
	return contents, genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
}

// functionArgs decodes the arguments of a call replayed from history. Text
// that is not a JSON object, such as the malformed arguments of a retried
// turn, is kept verbatim under "arguments".
func functionArgs(tc ai.ToolCall) map[string]any {
	var args map[string]any
	err := json.Unmarshal([]byte(tc.Arguments), &args)
	if err == nil && args != nil {
		return args
	}
	if strings.TrimSpace(tc.Arguments) == "" {
		return map[string]any{}
	}
	log.Debug().Err(err).Str("tool", tc.Name).Str("call_id", tc.ID).Msg("replaying undecodable tool arguments as text")
	return map[string]any{"arguments": tc.Arguments}
}

// functionResponse wraps tool output the way Gemini expects: JSON objects
// are passed through, anything else goes under "output".
func functionResponse(content string) map[string]any {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err == nil && obj != nil {
		return obj
	}
	return map[string]any{"output": content}
}

func convertResponse(resp *genai.GenerateContentResponse) *ai.Response {
	out := &ai.Response{
		ID:    resp.ResponseID,
		Model: resp.ModelVersion,
	}

	if len(resp.Candidates) == 0 {
		// The prompt itself was blocked.
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			out.Choices = []ai.Choice{{
				FinishReason: ai.FinishContentFilter,
				Message: ai.Message{
					Role:    ai.RoleAssistant,
					Refusal: "prompt blocked: " + string(resp.PromptFeedback.BlockReason),
				},
			}}
		}
	}

	for _, cand := range resp.Candidates {
		msg := ai.Message{Role: ai.RoleAssistant}
		var text strings.Builder
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				switch {
				case part.FunctionCall != nil:
					msg.ToolCalls = append(msg.ToolCalls, convertFunctionCall(part.FunctionCall))
				case part.Text != "" && !part.Thought:
					text.WriteString(part.Text)
				}
			}
		}

		reason := convertFinishReason(cand.FinishReason)
		switch {
		case len(msg.ToolCalls) > 0:
			reason = ai.FinishToolCalls
		case reason == ai.FinishContentFilter:
			msg.Refusal = text.String()
			if msg.Refusal == "" {
				msg.Refusal = "response blocked: " + string(cand.FinishReason)
			}
		default:
			msg.Content = text.String()
		}
		out.Choices = append(out.Choices, ai.Choice{FinishReason: reason, Message: msg})
	}

	if u := resp.UsageMetadata; u != nil && (u.PromptTokenCount > 0 || u.CandidatesTokenCount > 0) {
		out.Usage = &ai.Usage{
			PromptTokens:       int64(u.PromptTokenCount),
			CompletionTokens:   int64(u.CandidatesTokenCount + u.ThoughtsTokenCount),
			CachedPromptTokens: int64(u.CachedContentTokenCount),
		}
	}
	return out
}

func convertFunctionCall(fc *genai.FunctionCall) ai.ToolCall {
	id := fc.ID
	if id == "" {
		id = "call_" + uuid.NewString()
	}
	args := "{}"
	if len(fc.Args) > 0 {
		if b, err := json.Marshal(fc.Args); err == nil {
			args = string(b)
		}
	}
	return ai.ToolCall{ID: id, Name: fc.Name, Arguments: args}
}

func convertFinishReason(reason genai.FinishReason) ai.FinishReason {
	switch reason {
	case genai.FinishReasonStop:
		return ai.FinishStop
	case genai.FinishReasonMaxTokens:
		return ai.FinishLength
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonBlocklist,
		genai.FinishReasonProhibitedContent, genai.FinishReasonSPII:
		return ai.FinishContentFilter
	default:
		return ai.FinishReason(strings.ToLower(string(reason)))
	}
}
