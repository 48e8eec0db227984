package toolrun

import "encoding/json"

// Tool describes a function that can be called by the model.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string `json:"name"`
	// Description explains what the tool does (helps the model decide when to use it).
	Description string `json:"description,omitempty"`
	// Parameters is a JSON Schema object defining the function parameters.
	Parameters json.RawMessage `json:"parameters"`
	// Strict asks providers that support it to enforce the schema exactly.
	Strict bool `json:"strict,omitempty"`
}

// ToolCall represents a request from the model to invoke a tool.
type ToolCall struct {
	// ID is a unique identifier for this tool call (used to match results).
	ID string `json:"id"`
	// Name is the name of the tool to invoke.
	Name string `json:"name"`
	// Arguments is a JSON string containing the arguments to pass.
	Arguments string `json:"arguments"`
}

// ToolResult represents the result of executing a tool call.
type ToolResult struct {
	// ToolCallID matches the ID from the corresponding ToolCall.
	ToolCallID string `json:"toolCallId"`
	// Content is the result content to return to the model.
	Content string `json:"content"`
}

// ToolChoiceMode controls how the model uses tools.
type ToolChoiceMode string

const (
	// ToolChoiceModeAuto lets the model decide when to use tools (default).
	ToolChoiceModeAuto ToolChoiceMode = "auto"
	// ToolChoiceModeNone disables tool use for the request.
	ToolChoiceModeNone ToolChoiceMode = "none"
	// ToolChoiceModeRequired forces the model to use some tool.
	ToolChoiceModeRequired ToolChoiceMode = "required"
	// ToolChoiceModeNamed forces the model to call one specific tool.
	ToolChoiceModeNamed ToolChoiceMode = "named"
)

// ToolChoice is a tool choice mode plus, for ToolChoiceModeNamed, the tool name.
type ToolChoice struct {
	Mode ToolChoiceMode `json:"mode"`
	Name string         `json:"name,omitempty"`
}

// ToolChoiceAuto lets the model decide.
func ToolChoiceAuto() ToolChoice { return ToolChoice{Mode: ToolChoiceModeAuto} }

// ToolChoiceNone disables tools.
func ToolChoiceNone() ToolChoice { return ToolChoice{Mode: ToolChoiceModeNone} }

// ToolChoiceRequired forces a tool call.
func ToolChoiceRequired() ToolChoice { return ToolChoice{Mode: ToolChoiceModeRequired} }

// ToolChoiceNamed forces a call to the named tool.
func ToolChoiceNamed(name string) ToolChoice {
	return ToolChoice{Mode: ToolChoiceModeNamed, Name: name}
}

// String renders the choice as "auto", "none", "required" or "named(<tool>)".
func (c ToolChoice) String() string {
	if c.Mode == ToolChoiceModeNamed {
		return "named(" + c.Name + ")"
	}
	if c.Mode == "" {
		return string(ToolChoiceModeAuto)
	}
	return string(c.Mode)
}
