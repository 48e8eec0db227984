package google

import (
	"encoding/json"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/toolrun"
)

func convertTools(tools []ai.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}
	funcs := make([]*genai.FunctionDeclaration, len(tools))
	for i, t := range tools {
		funcs[i] = &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  convertSchema(t.Parameters),
		}
	}
	return []*genai.Tool{{FunctionDeclarations: funcs}}
}

func convertToolChoice(choice ai.ToolChoice) *genai.ToolConfig {
	fc := &genai.FunctionCallingConfig{Mode: genai.FunctionCallingConfigModeAuto}
	switch choice.Mode {
	case ai.ToolChoiceModeNone:
		fc.Mode = genai.FunctionCallingConfigModeNone
	case ai.ToolChoiceModeRequired:
		fc.Mode = genai.FunctionCallingConfigModeAny
	case ai.ToolChoiceModeNamed:
		fc.Mode = genai.FunctionCallingConfigModeAny
		fc.AllowedFunctionNames = []string{choice.Name}
	}
	return &genai.ToolConfig{FunctionCallingConfig: fc}
}

// convertSchema translates the JSON Schema subset toolrun generates into a
// genai.Schema. Unknown keywords are dropped.
func convertSchema(raw json.RawMessage) *genai.Schema {
	if len(raw) == 0 {
		return nil
	}
	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil
	}
	return convertSchemaObject(schema)
}

var schemaTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

func convertSchemaObject(schema map[string]any) *genai.Schema {
	result := &genai.Schema{}

	if typ, ok := schema["type"].(string); ok {
		result.Type = schemaTypes[typ]
	}
	if desc, ok := schema["description"].(string); ok {
		result.Description = desc
	}
	if enum, ok := schema["enum"].([]any); ok {
		for _, e := range enum {
			if s, ok := e.(string); ok {
				result.Enum = append(result.Enum, s)
			}
		}
	}
	if v, ok := schema["minimum"].(float64); ok {
		result.Minimum = genai.Ptr(v)
	}
	if v, ok := schema["maximum"].(float64); ok {
		result.Maximum = genai.Ptr(v)
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		result.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if m, ok := prop.(map[string]any); ok {
				result.Properties[name] = convertSchemaObject(m)
			}
		}
	}
	if required, ok := schema["required"].([]any); ok {
		for _, r := range required {
			if s, ok := r.(string); ok {
				result.Required = append(result.Required, s)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		result.Items = convertSchemaObject(items)
	}
	return result
}
