package splitter

import (
	"docchat/internal/config"
)

// Chunk is one retrievable slice of a document. Start and End are rune
// offsets into the source text, Seq is the stable ordering index used as
// the tie-breaker during ranking.
type Chunk struct {
	Seq     int
	Start   int
	End     int
	Text    string
	Source  string
	Section string
}

// Splitter divides raw document text into an ordered chunk sequence.
type Splitter interface {
	Split(content, source string) ([]Chunk, error)

	// Name identifies the splitter for logging.
	Name() string
}

// Config holds the shared splitting parameters.
type Config struct {
	ChunkSize    int // max characters per chunk
	ChunkOverlap int // characters shared between consecutive chunks
}

func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return &config.Error{Field: "CHUNK_SIZE", Reason: "must be positive"}
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return &config.Error{Field: "CHUNK_OVERLAP", Reason: "must satisfy 0 <= overlap < chunk size"}
	}
	return nil
}
