// Package agent runs a function-calling agent: the model either answers
// directly or asks for tools, whose results are fed back until it answers.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/askpage"
)

// DefaultMaxIterations bounds model calls per Run.
const DefaultMaxIterations = 15

// StoppedAnswer is returned when the model keeps calling tools past the limit.
const StoppedAnswer = "Agent stopped due to iteration limit."

// InputVariable is replaced by the user's input in Prompt.UserTemplate.
const InputVariable = "{input}"

// Prompt lays out each model call: a fixed system instruction, then the
// conversation history, then the user turn.
type Prompt struct {
	System string

	// UserTemplate renders the user turn. Empty means the input verbatim.
	UserTemplate string
}

// Messages builds the conversation for one Run.
func (p Prompt) Messages(history []askpage.Message, input string) []askpage.Message {
	msgs := make([]askpage.Message, 0, len(history)+2)
	if p.System != "" {
		msgs = append(msgs, askpage.Message{Role: askpage.RoleSystem, Content: p.System})
	}
	msgs = append(msgs, history...)

	user := input
	if p.UserTemplate != "" {
		user = strings.ReplaceAll(p.UserTemplate, InputVariable, input)
	}
	return append(msgs, askpage.Message{Role: askpage.RoleUser, Content: user})
}

// Agent answers inputs with a chat model that may call Tools.
// Every Run records the input and the final answer in History.
type Agent struct {
	Model   askpage.ChatModel
	Tools   []askpage.Tool
	History *askpage.History
	Prompt  Prompt

	// MaxIterations defaults to DefaultMaxIterations.
	MaxIterations int
}

// Run answers input. Tool errors abort the run and are returned unchanged.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	msgs := a.Prompt.Messages(a.History.Messages(), input)

	answer := StoppedAnswer
	for i := 0; i < a.maxIterations(); i++ {
		resp, err := a.Model.Chat(ctx, askpage.ChatRequest{Messages: msgs, Tools: a.Tools})
		if err != nil {
			return "", err
		}
		if len(resp.ToolCalls) == 0 {
			answer = resp.Content
			break
		}

		msgs = append(msgs, askpage.Message{
			Role:      askpage.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			out, err := a.invoke(ctx, call)
			if err != nil {
				return "", err
			}
			msgs = append(msgs, askpage.Message{
				Role:       askpage.RoleTool,
				Content:    out,
				ToolCallID: call.ID,
				Name:       call.Name,
			})
		}
	}

	a.History.Append(
		askpage.Message{Role: askpage.RoleUser, Content: input},
		askpage.Message{Role: askpage.RoleAssistant, Content: answer},
	)
	return answer, nil
}

// invoke runs the tool named by call. An unknown name is reported back to
// the model as the tool's output rather than failing the run.
func (a *Agent) invoke(ctx context.Context, call askpage.ToolCall) (string, error) {
	for _, tool := range a.Tools {
		if tool.Name == call.Name {
			out, err := tool.Func(ctx, askpage.ParseToolInput(call.Arguments))
			if err != nil {
				return "", fmt.Errorf("tool %s: %w", tool.Name, err)
			}
			return out, nil
		}
	}

	names := make([]string, len(a.Tools))
	for i, tool := range a.Tools {
		names[i] = tool.Name
	}
	return fmt.Sprintf("%s is not a valid tool, try one of [%s].", call.Name, strings.Join(names, ", ")), nil
}

func (a *Agent) maxIterations() int {
	if a.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return a.MaxIterations
}
