// Package rag implements a conversational retrieval pipeline over an
// askpage.Index: condense the follow-up question, retrieve, then answer
// from the retrieved context.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/askpage"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 4

const condensePrompt = `Given the following conversation and a follow up question, rephrase the follow up question to be a standalone question, in its original language.

Chat History:
%s
Follow Up Input: %s
Standalone question:`

const answerPrompt = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

%s

Question: %s
Helpful Answer:`

// Chain answers questions about indexed content, using History to resolve
// follow-up questions and recording every answered question in it.
type Chain struct {
	Model    askpage.ChatModel
	Embedder askpage.Embedder
	Index    askpage.Index
	History  *askpage.History

	// TopK defaults to DefaultTopK.
	TopK int
}

// Result is the outcome of one Call.
type Result struct {
	// Question is the standalone question used for retrieval.
	Question string
	Answer   string
	Sources  []*askpage.Chunk
}

// Call answers question and appends the exchange to History.
func (c *Chain) Call(ctx context.Context, question string) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, askpage.Errorf(askpage.EINVALID, "question required")
	}

	standalone := question
	if c.History.Len() > 0 {
		var err error
		standalone, err = c.condense(ctx, question)
		if err != nil {
			return nil, err
		}
	}

	embedding, err := c.Embedder.EmbedQuery(ctx, standalone)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	results, err := c.Index.Search(ctx, embedding, c.topK())
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	sources := make([]*askpage.Chunk, len(results))
	for i, r := range results {
		sources[i] = r.Chunk
	}

	resp, err := c.Model.Chat(ctx, askpage.ChatRequest{
		Messages: []askpage.Message{{
			Role:    askpage.RoleUser,
			Content: fmt.Sprintf(answerPrompt, askpage.FormatChunks(sources), standalone),
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	c.History.Append(
		askpage.Message{Role: askpage.RoleUser, Content: question},
		askpage.Message{Role: askpage.RoleAssistant, Content: resp.Content},
	)

	return &Result{Question: standalone, Answer: resp.Content, Sources: sources}, nil
}

// Run answers question and lists the sources after the answer.
// Its signature fits askpage.Tool.Func.
func (c *Chain) Run(ctx context.Context, question string) (string, error) {
	result, err := c.Call(ctx, question)
	if err != nil {
		return "", err
	}
	return result.Answer + FormatSources(result.Sources), nil
}

// condense rewrites question as a standalone question given History.
func (c *Chain) condense(ctx context.Context, question string) (string, error) {
	resp, err := c.Model.Chat(ctx, askpage.ChatRequest{
		Messages: []askpage.Message{{
			Role:    askpage.RoleUser,
			Content: fmt.Sprintf(condensePrompt, FormatHistory(c.History.Messages()), question),
		}},
	})
	if err != nil {
		return "", fmt.Errorf("condensing question: %w", err)
	}

	standalone := strings.TrimSpace(resp.Content)
	if standalone == "" {
		return question, nil
	}
	return standalone, nil
}

func (c *Chain) topK() int {
	if c.TopK <= 0 {
		return DefaultTopK
	}
	return c.TopK
}

// FormatHistory renders the human and assistant turns of a conversation,
// one per line. Tool traffic and system messages are left out.
func FormatHistory(messages []askpage.Message) string {
	var sb strings.Builder
	for _, m := range messages {
		switch {
		case m.Role == askpage.RoleUser:
			fmt.Fprintf(&sb, "Human: %s\n", m.Content)
		case m.Role == askpage.RoleAssistant && len(m.ToolCalls) == 0:
			fmt.Fprintf(&sb, "Assistant: %s\n", m.Content)
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatSources lists distinct chunk labels and their links under a heading.
// Links point at the chunk's section when it has one.
// It returns "" when there are no sources.
func FormatSources(sources []*askpage.Chunk) string {
	if len(sources) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nFontes:")
	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		line := s.Label()
		if link := sourceLink(s.Metadata); link != "" && link != line {
			line += " (" + link + ")"
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		sb.WriteString("\n- " + line)
	}
	return sb.String()
}

func sourceLink(m askpage.ChunkMetadata) string {
	if m.SourceURL == "" || m.Anchor == "" {
		return m.SourceURL
	}
	return m.SourceURL + "#" + m.Anchor
}
