package index

import (
	"fmt"
	"math"
	"sort"

	"docchat/internal/splitter"
)

// Entry pairs a chunk with its embedding. Entries are created during the
// build and immutable afterwards; the whole index is discarded and
// rebuilt when the document changes.
type Entry struct {
	Chunk  splitter.Chunk
	Vector []float32
}

// Result is one ranked search hit.
type Result struct {
	Chunk splitter.Chunk
	Score float32
	Rank  int
}

// DimensionMismatchError means a vector does not match the dimension
// established by the index's first insert. It signals a misconfigured or
// corrupted build and halts indexing.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("index: vector dimension %d does not match index dimension %d", e.Got, e.Want)
}

// Index is a flat in-memory vector index over one document's chunks.
// It is safe for concurrent reads once built; rebuilds go through a new
// Index swapped in via Handle.
type Index struct {
	entries []Entry
	dim     int
}

func New() *Index {
	return &Index{}
}

// Insert appends an entry. The first insert fixes the index dimension;
// a mismatching vector is rejected and the index left unchanged.
func (ix *Index) Insert(ch splitter.Chunk, vec []float32) error {
	if len(vec) == 0 {
		return &DimensionMismatchError{Want: ix.dim, Got: 0}
	}
	if ix.dim == 0 {
		ix.dim = len(vec)
	} else if len(vec) != ix.dim {
		return &DimensionMismatchError{Want: ix.dim, Got: len(vec)}
	}

	ix.entries = append(ix.entries, Entry{Chunk: ch, Vector: vec})
	return nil
}

// Search returns the k entries most similar to the query by cosine
// similarity, highest first, ties broken by ascending chunk sequence so
// results are deterministic. k larger than the index returns everything
// ranked; an empty index returns an empty slice, not an error.
func (ix *Index) Search(query []float32, k int) ([]Result, error) {
	if len(ix.entries) == 0 {
		return nil, nil
	}
	if len(query) != ix.dim {
		return nil, &DimensionMismatchError{Want: ix.dim, Got: len(query)}
	}

	results := make([]Result, 0, len(ix.entries))
	for _, e := range ix.entries {
		results = append(results, Result{
			Chunk: e.Chunk,
			Score: cosine(query, e.Vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Seq < results[j].Chunk.Seq
	})

	if k > 0 && k < len(results) {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

func (ix *Index) Len() int {
	return len(ix.entries)
}

func (ix *Index) Dimension() int {
	return ix.dim
}

// cosine computes cosine similarity; vectors arrive L2-normalized from
// the embedder but the norms are still divided out so the metric holds
// for any input.
func cosine(a, b []float32) float32 {
	var dot, na, nb float32
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(na))) * float32(math.Sqrt(float64(nb))))
}
