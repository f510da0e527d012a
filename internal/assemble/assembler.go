package assemble

import (
	"fmt"
	"strings"

	"docchat/internal/index"
)

const (
	// NoContextMarker is the explicit empty-retrieval signal; the answer
	// step must never be handed fabricated context in its place.
	NoContextMarker = "[no context available]"

	// TruncationMarker flags a cut chunk so the answer step is not given
	// a false impression of completeness.
	TruncationMarker = "[truncated]"

	separator = "\n---\n"
)

// Ref points back at one chunk included in a bundle.
type Ref struct {
	Source  string
	Section string
	Seq     int
	Start   int
	End     int
	Score   float32
}

// Bundle is the bounded context handed to the answer step.
type Bundle struct {
	Text      string
	Refs      []Ref
	Truncated bool
	Empty     bool
}

// Assembler concatenates ranked chunks under a size budget. Complete
// chunks are preferred: assembly stops at the first chunk that would
// exceed the budget, and only the single top-ranked chunk is ever
// truncated (when it alone does not fit). Output is deterministic for
// the same results and budget.
type Assembler struct {
	maxSize int
	sizer   Sizer
}

func New(maxSize int, sizer Sizer) *Assembler {
	if sizer == nil {
		sizer = CharSizer{}
	}
	return &Assembler{maxSize: maxSize, sizer: sizer}
}

func (a *Assembler) Assemble(results []index.Result) (Bundle, error) {
	if len(results) == 0 {
		return Bundle{Text: NoContextMarker, Empty: true}, nil
	}

	var blocks []string
	var refs []Ref

	for _, res := range results {
		if containedInPrior(res.Chunk.Text, refs, results) {
			continue
		}

		block := blockHeader(res) + res.Chunk.Text
		candidate := strings.Join(append(blocks[:len(blocks):len(blocks)], block), separator)

		size, err := a.sizer.Size(candidate)
		if err != nil {
			return Bundle{}, fmt.Errorf("measuring context: %w", err)
		}

		if size <= a.maxSize {
			blocks = append(blocks, block)
			refs = append(refs, ref(res))
			continue
		}

		if len(blocks) == 0 {
			// even the top chunk exceeds the budget
			text, err := a.truncateTop(res)
			if err != nil {
				return Bundle{}, err
			}
			return Bundle{Text: text, Refs: []Ref{ref(res)}, Truncated: true}, nil
		}
		break
	}

	return Bundle{Text: strings.Join(blocks, separator), Refs: refs}, nil
}

// truncateTop cuts the top chunk to the largest prefix that still fits
// together with the truncation marker.
func (a *Assembler) truncateTop(res index.Result) (string, error) {
	full := blockHeader(res) + res.Chunk.Text
	suffix := "\n" + TruncationMarker

	prefix, err := a.fitPrefix(full, suffix)
	if err != nil {
		return "", err
	}
	if prefix == "" {
		// budget too small for any content; emit what fits of the marker
		return a.fitPrefix(TruncationMarker, "")
	}
	return prefix + suffix, nil
}

// fitPrefix binary-searches the longest rune prefix of s such that
// prefix+suffix stays within the budget.
func (a *Assembler) fitPrefix(s, suffix string) (string, error) {
	runes := []rune(s)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		size, err := a.sizer.Size(string(runes[:mid]) + suffix)
		if err != nil {
			return "", fmt.Errorf("measuring context: %w", err)
		}
		if size <= a.maxSize {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo]), nil
}

func blockHeader(res index.Result) string {
	return fmt.Sprintf("[%s %d..%d score=%.2f]\n", res.Chunk.Source, res.Chunk.Start, res.Chunk.End, res.Score)
}

func ref(res index.Result) Ref {
	return Ref{
		Source:  res.Chunk.Source,
		Section: res.Chunk.Section,
		Seq:     res.Chunk.Seq,
		Start:   res.Chunk.Start,
		End:     res.Chunk.End,
		Score:   res.Score,
	}
}

// containedInPrior reports whether text already appears inside a chunk
// selected earlier, which happens with overlapping windows. The
// higher-ranked copy wins.
func containedInPrior(text string, selected []Ref, results []index.Result) bool {
	if text == "" {
		return false
	}
	for _, r := range selected {
		for _, res := range results {
			if res.Chunk.Seq == r.Seq && res.Chunk.Source == r.Source &&
				len(res.Chunk.Text) > len(text) && strings.Contains(res.Chunk.Text, text) {
				return true
			}
		}
	}
	return false
}
