package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env holds settings read from the environment.
type Env struct {
	UserAgent      string `env:"USER_AGENT"`
	OpenAIAPIKey   string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `env:"OPENAI_BASE_URL"`
	GeminiAPIKey   string `env:"GEMINI_API_KEY"`
	EmbeddingModel string `env:"ASKPAGE_EMBEDDING_MODEL"`
}

// LoadEnv loads .env files (default ".env") into the process environment,
// ignoring missing ones, then parses Env. Variables already set win.
func LoadEnv(files ...string) (Env, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Env{}, fmt.Errorf("load .env: %w", err)
	}

	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}

// ParseEnv parses Env from environ instead of the process environment.
func ParseEnv(environ map[string]string) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: environ}); err != nil {
		return Env{}, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}
