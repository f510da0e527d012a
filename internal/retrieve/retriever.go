package retrieve

import (
	"context"
	"fmt"

	"docchat/internal/embed"
	"docchat/internal/index"
)

// Retriever embeds a query and ranks candidate chunks against the live
// index. Errors from the embedder or the index propagate untouched:
// masking a retrieval failure would feed the answer step wrong or empty
// context and produce a misleading answer.
type Retriever struct {
	Embedder      embed.Embedder
	Index         *index.Handle
	TopK          int
	MinSimilarity float32
}

func New(embedder embed.Embedder, handle *index.Handle, topK int, minSimilarity float32) *Retriever {
	return &Retriever{
		Embedder:      embedder,
		Index:         handle,
		TopK:          topK,
		MinSimilarity: minSimilarity,
	}
}

// Retrieve returns up to TopK results in index ranking order. The
// optional similarity floor drops weak hits but never reorders.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]index.Result, error) {
	queryVec, err := r.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := r.Index.Load().Search(queryVec, r.TopK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	if r.MinSimilarity > 0 {
		kept := results[:0]
		for _, res := range results {
			if res.Score >= r.MinSimilarity {
				kept = append(kept, res)
			}
		}
		results = kept
	}
	return results, nil
}
