package askpage

import (
	"context"
	"encoding/json"
)

// ToolInputKey names the single string argument every Tool receives.
const ToolInputKey = "query"

// Tool is a callable an agent may invoke with a single text input.
type Tool struct {
	Name        string
	Description string
	Func        func(ctx context.Context, input string) (string, error)
}

// ToolInputSchema returns the JSON schema shared by every Tool's arguments.
func ToolInputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			ToolInputKey: map[string]any{
				"type":        "string",
				"description": "Natural-language input for the tool.",
			},
		},
		"required": []string{ToolInputKey},
	}
}

// ParseToolInput extracts the tool input from a call's JSON arguments.
// Arguments that are not a JSON object are passed through as plain text.
func ParseToolInput(arguments string) string {
	var args map[string]any
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return arguments
	}
	if v, ok := args[ToolInputKey].(string); ok {
		return v
	}
	// Models occasionally rename the argument; take the only string given.
	for _, v := range args {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
