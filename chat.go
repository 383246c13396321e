package askpage

import "context"

// Role identifies the author of a conversation message.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// ToolCalls holds the tool invocations requested by an assistant message.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`

	// ToolCallID and Name identify the call a tool message answers.
	ToolCallID string `json:"toolCallId,omitempty"`
	Name       string `json:"name,omitempty"`
}

// ToolCall is a model's request to invoke a tool.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON object
}

// ChatRequest is a single call to a chat model.
type ChatRequest struct {
	Messages []Message
	Tools    []Tool
}

// ChatResponse is the model's reply. Either Content or ToolCalls is set.
type ChatResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// ChatModel generates replies from a hosted language model.
// Model name and sampling temperature are bound at construction.
type ChatModel interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// Embedder computes vector embeddings for text.
type Embedder interface {
	// EmbedDocuments embeds texts for storage, one vector per text, in order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Provider creates the chat model and embedder of one model vendor.
type Provider interface {
	// ChatModel returns a client bound to model and temperature.
	// An empty model selects the provider's default.
	ChatModel(model string, temperature float64) (ChatModel, error)

	// Embedder returns the provider's embedding client.
	Embedder() (Embedder, error)
}
