package splitter

// TextSplitter walks the source in a sliding window of ChunkSize runes,
// advancing by ChunkSize-ChunkOverlap per step. Ignoring overlap, the
// chunks cover every rune of the document exactly once; the final chunk
// may be shorter and ends exactly at the document's end.
type TextSplitter struct {
	cfg Config
}

func NewTextSplitter(cfg Config) *TextSplitter {
	return &TextSplitter{cfg: cfg}
}

func (s *TextSplitter) Name() string {
	return "text"
}

func (s *TextSplitter) Split(content, source string) ([]Chunk, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(content)
	if len(runes) == 0 {
		return nil, nil
	}

	step := s.cfg.ChunkSize - s.cfg.ChunkOverlap
	var chunks []Chunk
	for start := 0; ; start += step {
		end := start + s.cfg.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, Chunk{
			Seq:    len(chunks),
			Start:  start,
			End:    end,
			Text:   string(runes[start:end]),
			Source: source,
		})

		if end >= len(runes) {
			break
		}
	}

	return chunks, nil
}
