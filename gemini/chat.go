package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/askpage"
	"google.golang.org/genai"
)

// toolOutputKey holds a tool's text result inside a function response.
const toolOutputKey = "output"

// Ensure ChatModel implements askpage.ChatModel at compile time.
var _ askpage.ChatModel = (*ChatModel)(nil)

// ChatModel calls GenerateContent.
type ChatModel struct {
	client      *genai.Client
	model       string
	temperature float32
}

// Model returns the model identifier requests are sent to.
func (m *ChatModel) Model() string {
	return m.model
}

// Chat sends the conversation with function declarations for req.Tools.
func (m *ChatModel) Chat(ctx context.Context, req askpage.ChatRequest) (*askpage.ChatResponse, error) {
	system, contents, err := BuildContents(req.Messages)
	if err != nil {
		return nil, err
	}
	config := BuildConfig(system, m.temperature, req.Tools)

	result, err := m.client.Models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("Gemini generate content: %w", err)
	}
	return ParseResponse(result)
}

// BuildConfig returns the GenerateContentConfig for one call.
func BuildConfig(system string, temperature float32, tools []askpage.Tool) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if len(tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, len(tools))
		for i, tool := range tools {
			decls[i] = &genai.FunctionDeclaration{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						askpage.ToolInputKey: {
							Type:        genai.TypeString,
							Description: "Natural-language input for the tool.",
						},
					},
					Required: []string{askpage.ToolInputKey},
				},
			}
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return config
}

// BuildContents splits messages into the system instruction and the
// conversation contents Gemini expects. System messages are concatenated.
func BuildContents(messages []askpage.Message) (string, []*genai.Content, error) {
	var (
		system   []string
		contents []*genai.Content
	)

	for _, msg := range messages {
		switch msg.Role {
		case askpage.RoleSystem:
			system = append(system, msg.Content)
		case askpage.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
				continue
			}
			content := &genai.Content{Role: string(genai.RoleModel)}
			if msg.Content != "" {
				content.Parts = append(content.Parts, &genai.Part{Text: msg.Content})
			}
			for _, tc := range msg.ToolCalls {
				args := map[string]any{}
				if tc.Arguments != "" {
					if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
						return "", nil, fmt.Errorf("tool call %s arguments: %w", tc.ID, err)
					}
				}
				content.Parts = append(content.Parts, &genai.Part{
					FunctionCall: &genai.FunctionCall{ID: tc.ID, Name: tc.Name, Args: args},
				})
			}
			contents = append(contents, content)
		case askpage.RoleTool:
			part := genai.NewPartFromFunctionResponse(msg.Name, map[string]any{toolOutputKey: msg.Content})
			part.FunctionResponse.ID = msg.ToolCallID
			// Consecutive tool results belong to one turn.
			if n := len(contents); n > 0 && isFunctionResponseTurn(contents[n-1]) {
				contents[n-1].Parts = append(contents[n-1].Parts, part)
				continue
			}
			contents = append(contents, &genai.Content{Role: string(genai.RoleUser), Parts: []*genai.Part{part}})
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	return strings.Join(system, "\n\n"), contents, nil
}

func isFunctionResponseTurn(c *genai.Content) bool {
	return c.Role == string(genai.RoleUser) && len(c.Parts) > 0 && c.Parts[0].FunctionResponse != nil
}

// ParseResponse converts a Gemini response. Function calls without an ID
// get a positional one so tool results can be matched.
func ParseResponse(result *genai.GenerateContentResponse) (*askpage.ChatResponse, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, askpage.Errorf(askpage.EINTERNAL, "Gemini returned no candidates")
	}

	resp := &askpage.ChatResponse{}
	for i, fc := range result.FunctionCalls() {
		args, err := json.Marshal(fc.Args)
		if err != nil {
			return nil, fmt.Errorf("function call %s arguments: %w", fc.Name, err)
		}
		id := fc.ID
		if id == "" {
			id = fmt.Sprintf("call_%d", i)
		}
		resp.ToolCalls = append(resp.ToolCalls, askpage.ToolCall{ID: id, Name: fc.Name, Arguments: string(args)})
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
	}
	resp.Content = text.String()

	return resp, nil
}
