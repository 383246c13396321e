package openai

import (
	"context"
	"fmt"

	"github.com/fwojciec/askpage"
	"github.com/openai/openai-go/v3"
)

// Ensure ChatModel implements askpage.ChatModel at compile time.
var _ askpage.ChatModel = (*ChatModel)(nil)

// ChatModel calls the chat completions endpoint.
type ChatModel struct {
	client      openai.Client
	model       string
	temperature float64
}

// Model returns the model identifier requests are sent to.
func (m *ChatModel) Model() string {
	return m.model
}

// Chat sends the conversation and declared tools and returns the first choice.
func (m *ChatModel) Chat(ctx context.Context, req askpage.ChatRequest) (*askpage.ChatResponse, error) {
	params := openai.ChatCompletionNewParams{
		Messages:    ConvertMessages(req.Messages),
		Model:       openai.ChatModel(m.model),
		Temperature: openai.Float(m.temperature),
	}
	if len(req.Tools) > 0 {
		params.Tools = ConvertTools(req.Tools)
	}

	completion, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, askpage.Errorf(askpage.EINTERNAL, "OpenAI returned no choices")
	}

	msg := completion.Choices[0].Message
	resp := &askpage.ChatResponse{Content: msg.Content}
	for _, tc := range msg.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, askpage.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return resp, nil
}

// ConvertMessages converts askpage messages to OpenAI message params.
func ConvertMessages(messages []askpage.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case askpage.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case askpage.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				result = append(result, openai.AssistantMessage(msg.Content))
				continue
			}
			result = append(result, assistantToolCallMessage(msg))
		case askpage.RoleTool:
			result = append(result, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}

	return result
}

func assistantToolCallMessage(msg askpage.Message) openai.ChatCompletionMessageParamUnion {
	calls := make([]openai.ChatCompletionMessageToolCallUnionParam, len(msg.ToolCalls))
	for i, tc := range msg.ToolCalls {
		calls[i] = openai.ChatCompletionMessageToolCallUnionParam{
			OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
				ID: tc.ID,
				Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			},
		}
	}

	assistant := openai.ChatCompletionAssistantMessageParam{ToolCalls: calls}
	if msg.Content != "" {
		assistant.Content.OfString = openai.String(msg.Content)
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}

// ConvertTools declares tools as OpenAI functions taking one string argument.
func ConvertTools(tools []askpage.Tool) []openai.ChatCompletionToolUnionParam {
	result := make([]openai.ChatCompletionToolUnionParam, len(tools))
	for i, tool := range tools {
		result[i] = openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  openai.FunctionParameters(askpage.ToolInputSchema()),
			},
		)
	}
	return result
}
