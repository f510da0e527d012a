package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Budget modes for the context assembler.
const (
	BudgetChars  = "chars"
	BudgetTokens = "tokens"
)

// Embedding providers.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type Config struct {
	DocPath string `env:"DOC_PATH"`
	Addr    string `env:"ADDR" envDefault:":8080"`

	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"200"`

	TopK          int     `env:"TOP_K" envDefault:"5"`
	MinSimilarity float32 `env:"MIN_SIMILARITY" envDefault:"0"`

	MaxContextSize int    `env:"MAX_CONTEXT_SIZE" envDefault:"4000"`
	ContextBudget  string `env:"CONTEXT_BUDGET" envDefault:"chars"`
	TokenEncoding  string `env:"TOKEN_ENCODING" envDefault:"cl100k_base"`

	EmbedProvider string `env:"EMBED_PROVIDER" envDefault:"ollama"`
	EmbedModel    string `env:"EMBED_MODEL" envDefault:"nomic-embed-text"`
	EmbedRetries  int    `env:"EMBED_RETRIES" envDefault:"0"`

	OpenAIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OllamaURL     string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`

	ChatModel    string        `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	ModelTimeout time.Duration `env:"MODEL_TIMEOUT" envDefault:"30s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`
}

func Init(cfg *Config) error {
	return env.Parse(cfg)
}

// Error reports an invalid configuration value. Configuration is checked
// before any request is served; an Error here is fatal.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Validate fails fast on any value the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.DocPath == "" {
		return &Error{Field: "DOC_PATH", Reason: "document path is required"}
	}
	if c.ChunkSize <= 0 {
		return &Error{Field: "CHUNK_SIZE", Reason: "must be positive"}
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return &Error{Field: "CHUNK_OVERLAP", Reason: fmt.Sprintf("must satisfy 0 <= overlap < chunk size (%d)", c.ChunkSize)}
	}
	if c.TopK <= 0 {
		return &Error{Field: "TOP_K", Reason: "must be positive"}
	}
	if c.MinSimilarity < -1 || c.MinSimilarity > 1 {
		return &Error{Field: "MIN_SIMILARITY", Reason: "must be within [-1, 1]"}
	}
	if c.MaxContextSize <= 0 {
		return &Error{Field: "MAX_CONTEXT_SIZE", Reason: "must be positive"}
	}
	if c.ContextBudget != BudgetChars && c.ContextBudget != BudgetTokens {
		return &Error{Field: "CONTEXT_BUDGET", Reason: "must be 'chars' or 'tokens'"}
	}
	switch c.EmbedProvider {
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return &Error{Field: "OPENAI_API_KEY", Reason: "required for the openai embed provider"}
		}
	case ProviderOllama:
		if c.OllamaURL == "" {
			return &Error{Field: "OLLAMA_URL", Reason: "required for the ollama embed provider"}
		}
	default:
		return &Error{Field: "EMBED_PROVIDER", Reason: "must be 'openai' or 'ollama'"}
	}
	if c.EmbedModel == "" {
		return &Error{Field: "EMBED_MODEL", Reason: "embedding model is required"}
	}
	if c.EmbedRetries < 0 {
		return &Error{Field: "EMBED_RETRIES", Reason: "must not be negative"}
	}
	if c.ChatModel == "" {
		return &Error{Field: "CHAT_MODEL", Reason: "chat model is required"}
	}
	if c.ModelTimeout <= 0 {
		return &Error{Field: "MODEL_TIMEOUT", Reason: "must be positive"}
	}
	return nil
}
