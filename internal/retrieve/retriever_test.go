package retrieve

import (
	"context"
	"errors"
	"testing"

	"docchat/internal/embed"
	"docchat/internal/index"
	"docchat/internal/splitter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// axisEmbedder maps known queries to fixed unit vectors.
type axisEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (a *axisEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if a.err != nil {
		return nil, a.err
	}
	v, ok := a.vectors[text]
	if !ok {
		return nil, errors.New("unknown text")
	}
	return v, nil
}

func (a *axisEmbedder) Dimension() int    { return 2 }
func (a *axisEmbedder) ModelInfo() string { return "axis" }

func buildHandle(t *testing.T) *index.Handle {
	t.Helper()
	ix := index.New()
	require.NoError(t, ix.Insert(splitter.Chunk{Seq: 0, Text: "east doc"}, []float32{1, 0}))
	require.NoError(t, ix.Insert(splitter.Chunk{Seq: 1, Text: "north doc"}, []float32{0, 1}))
	require.NoError(t, ix.Insert(splitter.Chunk{Seq: 2, Text: "northeast doc"}, []float32{0.7071, 0.7071}))
	return index.NewHandle(ix)
}

func TestRetrieve_RanksByQuerySimilarity(t *testing.T) {
	emb := &axisEmbedder{vectors: map[string][]float32{"going north": {0, 1}}}
	r := New(emb, buildHandle(t), 2, 0)

	results, err := r.Retrieve(context.Background(), "going north")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "north doc", results[0].Chunk.Text)
	assert.Equal(t, "northeast doc", results[1].Chunk.Text)
}

func TestRetrieve_MinSimilarityFiltersWithoutReordering(t *testing.T) {
	emb := &axisEmbedder{vectors: map[string][]float32{"north": {0, 1}}}
	r := New(emb, buildHandle(t), 3, 0.5)

	results, err := r.Retrieve(context.Background(), "north")
	require.NoError(t, err)
	require.Len(t, results, 2, "the orthogonal chunk falls below the floor")

	assert.Equal(t, "north doc", results[0].Chunk.Text)
	assert.Equal(t, "northeast doc", results[1].Chunk.Text)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestRetrieve_EmbedderErrorPropagates(t *testing.T) {
	wantErr := &embed.Error{Op: "request", Model: "axis", Err: errors.New("down")}
	emb := &axisEmbedder{err: wantErr}
	r := New(emb, buildHandle(t), 3, 0)

	_, err := r.Retrieve(context.Background(), "anything")
	require.Error(t, err)

	var embedErr *embed.Error
	assert.True(t, errors.As(err, &embedErr), "typed embedding error is not masked")
}

func TestRetrieve_EmptyIndexReturnsEmpty(t *testing.T) {
	emb := &axisEmbedder{vectors: map[string][]float32{"q": {1, 0}}}
	r := New(emb, index.NewHandle(nil), 3, 0)

	results, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, results)
}
