package embed

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder generates embeddings through the OpenAI API (or any
// OpenAI-compatible endpoint via baseURL).
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

func NewOpenAIEmbedder(apiKey, baseURL, model string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, errors.New("openai embedder: api key not set")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	dim := 1536 // text-embedding-3-small
	if model == "text-embedding-3-large" {
		dim = 3072
	}

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		dim:    dim,
	}, nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, &Error{Op: "request", Model: e.ModelInfo(), Err: errors.New("cannot embed empty text")}
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, &Error{Op: "request", Model: e.ModelInfo(), Err: err}
	}
	if len(resp.Data) == 0 {
		return nil, &Error{Op: "response", Model: e.ModelInfo(), Err: errors.New("no embedding data returned")}
	}

	v := resp.Data[0].Embedding
	if err := checkVector(v); err != nil {
		return nil, &Error{Op: "response", Model: e.ModelInfo(), Err: err}
	}
	l2normalize(v)

	return v, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dim
}

func (e *OpenAIEmbedder) ModelInfo() string {
	return "openai-" + e.model
}
