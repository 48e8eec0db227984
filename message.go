package toolrun

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleDeveloper Role = "developer"
)

// Message represents a single message in a conversation.
//
// An assistant message carries exactly one of Content, Refusal or ToolCalls.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content,omitempty"`
	// Refusal holds the model's refusal text. Only set on assistant messages.
	Refusal string `json:"refusal,omitempty"`
	// ToolCalls contains tool invocation requests from an assistant message,
	// in the order the model produced them.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
	// ToolResults optionally links a user message carrying tool output back to
	// the calls it answers. Content still holds the joined text; providers use
	// ToolResults to render native tool-result blocks.
	ToolResults []ToolResult `json:"toolResults,omitempty"`
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage creates an assistant content message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// AssistantRefusal creates an assistant refusal message.
func AssistantRefusal(refusal string) Message {
	return Message{Role: RoleAssistant, Refusal: refusal}
}

// AssistantToolCalls creates an assistant message recording tool calls.
func AssistantToolCalls(calls []ToolCall) Message {
	cp := make([]ToolCall, len(calls))
	copy(cp, calls)
	return Message{Role: RoleAssistant, ToolCalls: cp}
}

// FinishReason is the provider's classification of why generation stopped.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishToolCalls     FinishReason = "tool_calls"
	FinishContentFilter FinishReason = "content_filter"
)

// Choice is one candidate completion.
type Choice struct {
	FinishReason FinishReason `json:"finishReason,omitempty"`
	Message      Message      `json:"message"`
}

// Response represents a complete response from a completion provider.
type Response struct {
	ID      string   `json:"id,omitempty"`
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
	// Usage is nil when the provider did not report token usage.
	Usage *Usage `json:"usage,omitempty"`
}

// FirstChoice returns the first choice and whether one exists.
func (r *Response) FirstChoice() (Choice, bool) {
	if r == nil || len(r.Choices) == 0 {
		return Choice{}, false
	}
	return r.Choices[0], true
}

// Usage contains token usage information for a request.
type Usage struct {
	PromptTokens     int64 `json:"promptTokens"`
	CompletionTokens int64 `json:"completionTokens"`
	// CachedPromptTokens is the subset of PromptTokens served from the
	// provider's prompt cache, when reported.
	CachedPromptTokens int64 `json:"cachedPromptTokens,omitempty"`
}
