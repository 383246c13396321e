package assistant

import (
	"strings"

	"github.com/fwojciec/askpage"
	"github.com/fwojciec/askpage/agent"
	"github.com/fwojciec/askpage/rag"
)

// Defaults for the built-in prompt and tool.
const (
	DefaultTemperature = 0.2

	SystemPrompt = "Você é um assistente especialista em Inteligência Artificial e Machine Learning. Responda sempre com detalhes técnicos."

	ToolName        = "ai_knowledge_base"
	ToolDescription = "Útil para responder perguntas complexas sobre inteligência artificial."
)

// Config is the injected configuration of an Assistant.
// Zero values select defaults, except Temperature, where 0 is a valid choice.
type Config struct {
	URL         string
	Model       string // provider default when empty
	Temperature float64
	UserAgent   string // askpage.DefaultUserAgent when empty

	TopK          int
	ChunkSize     int
	ChunkOverlap  int
	MaxIterations int

	SystemPrompt string
}

// Validate returns an error if the configuration is unusable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return askpage.Errorf(askpage.EINVALID, "URL required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return askpage.Errorf(askpage.EINVALID, "temperature must be between 0 and 2, got %v", c.Temperature)
	}
	if c.TopK < 0 || c.ChunkSize < 0 || c.ChunkOverlap < 0 || c.MaxIterations < 0 {
		return askpage.Errorf(askpage.EINVALID, "top-k, chunk size, chunk overlap and iteration limit must not be negative")
	}
	return nil
}

func (c Config) withDefaults() Config {
	c.UserAgent = askpage.ResolveUserAgent(c.UserAgent)
	if c.TopK == 0 {
		c.TopK = rag.DefaultTopK
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = askpage.DefaultChunkSize
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = askpage.DefaultChunkOverlap
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = agent.DefaultMaxIterations
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = SystemPrompt
	}
	return c
}
