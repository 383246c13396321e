package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fwojciec/askpage"
)

// DefaultURL is the page the chat command loads when none is given.
const DefaultURL = "https://pt.wikipedia.org/wiki/Intelig%C3%AAncia_artificial"

// Assistant is an askpage.Assistant holding resources until closed.
type Assistant interface {
	askpage.Assistant
	Close() error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NewAssistant builds an assistant for url.
	NewAssistant func(ctx context.Context, url string, flags AssistantFlags) (Assistant, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Chat ChatCmd `cmd:"" default:"withargs" help:"Chat about a web page (default command)"`
	Ask  AskCmd  `cmd:"" help:"Ask a single question about a web page"`
}

// AssistantFlags configure how the page is loaded and answered.
type AssistantFlags struct {
	Provider    string  `enum:"openai,gemini" default:"openai" help:"Model provider (openai, gemini)"`
	Model       string  `short:"m" help:"Chat model; provider default when empty"`
	Temperature float64 `short:"t" default:"0.2" help:"Sampling temperature between 0 and 2"`
	Render      bool    `help:"Render the page in a headless browser before extracting"`
	Extract     string  `enum:"main,body,full" default:"main" help:"Extract main content, the page body without navigation, or the full page (main, body, full)"`
	Index       string  `enum:"memory,sqlite" default:"memory" help:"Vector index (memory, sqlite)"`
	DB          string  `name:"db" default:":memory:" help:"SQLite database path for --index=sqlite"`
	TopK        int     `name:"top-k" default:"4" help:"Chunks retrieved per question"`
	Verbose     bool    `short:"v" help:"Log fetches, model calls and tool calls to stderr"`
}

// ChatCmd is the "chat" subcommand.
type ChatCmd struct {
	URL            string `arg:"" optional:"" default:"https://pt.wikipedia.org/wiki/Intelig%C3%AAncia_artificial" help:"Page to load"`
	AssistantFlags `embed:""`
}

// Run loads the page and starts the question loop.
func (c *ChatCmd) Run(deps *Dependencies) error {
	a, err := deps.NewAssistant(deps.Ctx, c.URL, c.AssistantFlags)
	if err != nil {
		return err
	}
	defer a.Close()

	return Repl(deps.Ctx, deps.Stdin, deps.Stdout, a)
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	URL            string `arg:"" help:"Page to load"`
	Question       string `arg:"" help:"Question to ask about the page"`
	AssistantFlags `embed:""`
}

// Run loads the page, answers one question and prints the answer.
func (c *AskCmd) Run(deps *Dependencies) error {
	a, err := deps.NewAssistant(deps.Ctx, c.URL, c.AssistantFlags)
	if err != nil {
		return err
	}
	defer a.Close()

	answer, err := a.RunQuery(deps.Ctx, c.Question)
	if err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
