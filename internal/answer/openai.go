package answer

import (
	"context"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ChatGenerator talks to an OpenAI-compatible chat completion endpoint.
// Pointing baseURL at an Ollama server's /v1 route works the same way.
type ChatGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewChatGenerator(apiKey, baseURL, model string, timeout time.Duration) *ChatGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &ChatGenerator{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

func (g *ChatGenerator) Generate(ctx context.Context, query, contextText string, history []Message) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	for _, m := range history {
		if err := validRole(m.Role); err != nil {
			return "", &Error{Model: g.model, Err: err}
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt(contextText, query),
	})

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: messages,
	})
	if err != nil {
		return "", &Error{Model: g.model, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Model: g.model, Err: errEmptyCompletion}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
