package embed

import (
	"context"
	"fmt"
	"math"
)

// Embedder maps text to a fixed-dimension vector. One instance serves
// both call sites (chunk embedding at build time, query embedding at
// query time) so the vector spaces stay comparable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimension reports the vector dimension, or 0 when the provider
	// only reveals it on the first call.
	Dimension() int

	// ModelInfo identifies the provider and model for logging.
	ModelInfo() string
}

// Error wraps an embedding failure: a provider error or a malformed
// vector (wrong dimension, non-finite values).
type Error struct {
	Op    string
	Model string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("embed %s (%s): %v", e.Op, e.Model, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// checkVector rejects empty vectors and non-finite components.
func checkVector(v []float32) error {
	if len(v) == 0 {
		return fmt.Errorf("empty vector")
	}
	for i, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite value at index %d", i)
		}
	}
	return nil
}

// l2normalize scales the vector to unit length, making the dot product
// equal cosine similarity.
func l2normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
