package index

import (
	"context"
	"fmt"
	"sync"

	"docchat/internal/embed"
	"docchat/internal/splitter"
)

// Build embeds all chunks and assembles a fresh index. Embedding runs
// with bounded concurrency; inserts happen afterwards in sequence order
// so the index layout is deterministic. Any embedding failure aborts the
// build.
func Build(ctx context.Context, chunks []splitter.Chunk, embedder embed.Embedder, workers int) (*Index, error) {
	if workers <= 0 {
		workers = 4
	}

	vectors := make([][]float32, len(chunks))
	errs := make([]error, len(chunks))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := range chunks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				errs[i] = ctx.Err()
				return
			}
			vectors[i], errs[i] = embedder.Embed(ctx, chunks[i].Text)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d: %w", chunks[i].Seq, err)
		}
	}

	ix := New()
	for i, ch := range chunks {
		if err := ix.Insert(ch, vectors[i]); err != nil {
			return nil, fmt.Errorf("inserting chunk %d: %w", ch.Seq, err)
		}
	}
	return ix, nil
}
