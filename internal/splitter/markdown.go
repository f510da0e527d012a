package splitter

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownSplitter splits on markdown headings so chunks follow the
// document's own section boundaries. Sections larger than ChunkSize are
// re-split with the sliding window. Splitting on structure is a quality
// heuristic; when the document has no usable heading structure Split
// returns an error and the caller falls back to the TextSplitter.
type MarkdownSplitter struct {
	cfg Config
}

func NewMarkdownSplitter(cfg Config) *MarkdownSplitter {
	return &MarkdownSplitter{cfg: cfg}
}

func (m *MarkdownSplitter) Name() string {
	return "markdown"
}

// structure summarizes the parsed document for strategy selection.
type structure struct {
	headingCounts map[int]int
	paragraphs    int
}

func (m *MarkdownSplitter) Split(content, source string) ([]Chunk, error) {
	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}

	st := analyze(content)
	level, err := selectLevel(st)
	if err != nil {
		return nil, fmt.Errorf("markdown splitter cannot process this content: %w", err)
	}

	return m.splitAtLevel(content, source, level), nil
}

// analyze parses the document once and counts headings per level.
func analyze(content string) structure {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader([]byte(content)))

	st := structure{headingCounts: make(map[int]int)}
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if heading, ok := n.(*ast.Heading); ok {
				st.headingCounts[heading.Level]++
			}
			if _, ok := n.(*ast.Paragraph); ok {
				st.paragraphs++
			}
		}
		return ast.WalkContinue, nil
	})
	return st
}

// selectLevel picks the deepest heading level that still yields a useful
// number of sections. H1/H2 need fewer occurrences than H3/H4.
func selectLevel(st structure) (int, error) {
	for level := 1; level <= 4; level++ {
		min := 3
		if level >= 3 {
			min = 5
		}
		count := 0
		for l := 1; l <= level; l++ {
			count += st.headingCounts[l]
		}
		if count >= min {
			return level, nil
		}
	}
	return 0, fmt.Errorf("no usable heading structure (headings: %v, paragraphs: %d)",
		st.headingCounts, st.paragraphs)
}

// splitAtLevel walks the source line by line, starting a new section at
// every heading of the target level or above. Rune offsets are tracked
// so each chunk's Start/End map back into the source text.
func (m *MarkdownSplitter) splitAtLevel(content, source string, level int) []Chunk {
	var chunks []Chunk
	var sectionStart, offset int
	section := ""

	flush := func(end int) {
		textSlice := sliceRunes(content, sectionStart, end)
		if strings.TrimSpace(textSlice) == "" {
			return
		}
		chunks = append(chunks, m.sectionChunks(textSlice, source, section, sectionStart, len(chunks))...)
	}

	for _, line := range strings.SplitAfter(content, "\n") {
		if h := headingLevel(line); h > 0 && h <= level {
			flush(offset)
			sectionStart = offset
			section = strings.TrimSpace(strings.TrimLeft(strings.TrimRight(line, "\n"), "#"))
		}
		offset += len([]rune(line))
	}
	flush(offset)

	// re-number after section windowing
	for i := range chunks {
		chunks[i].Seq = i
	}
	return chunks
}

// sectionChunks windows an oversized section; small sections stay whole.
func (m *MarkdownSplitter) sectionChunks(text, source, section string, base, seq int) []Chunk {
	runes := []rune(text)
	if len(runes) <= m.cfg.ChunkSize {
		return []Chunk{{
			Seq:     seq,
			Start:   base,
			End:     base + len(runes),
			Text:    text,
			Source:  source,
			Section: section,
		}}
	}

	inner := NewTextSplitter(m.cfg)
	parts, _ := inner.Split(text, source) // cfg already validated

	for i := range parts {
		parts[i].Start += base
		parts[i].End += base
		parts[i].Section = section
	}
	return parts
}

func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || n >= len(line) || line[n] != ' ' {
		return 0
	}
	return n
}

func sliceRunes(s string, start, end int) string {
	runes := []rune(s)
	if start > len(runes) {
		start = len(runes)
	}
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}
