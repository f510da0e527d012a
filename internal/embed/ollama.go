package embed

import (
	"context"

	chromem "github.com/philippgille/chromem-go"
)

// OllamaEmbedder embeds through a local Ollama instance, reusing
// chromem's embedding function for the API call. Ollama does not expose
// the model dimension up front, so it is recorded from the first call.
type OllamaEmbedder struct {
	fn    chromem.EmbeddingFunc
	model string
	dim   int
}

// NewOllamaEmbedder expects the Ollama base URL without the /api suffix,
// e.g. http://localhost:11434.
func NewOllamaEmbedder(baseURL, model string) *OllamaEmbedder {
	return &OllamaEmbedder{
		fn:    chromem.NewEmbeddingFuncOllama(model, baseURL+"/api"),
		model: model,
	}
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v, err := e.fn(ctx, text)
	if err != nil {
		return nil, &Error{Op: "request", Model: e.ModelInfo(), Err: err}
	}
	if err := checkVector(v); err != nil {
		return nil, &Error{Op: "response", Model: e.ModelInfo(), Err: err}
	}
	l2normalize(v)

	if e.dim == 0 {
		e.dim = len(v)
	}
	return v, nil
}

func (e *OllamaEmbedder) Dimension() int {
	return e.dim
}

func (e *OllamaEmbedder) ModelInfo() string {
	return "ollama-" + e.model
}
