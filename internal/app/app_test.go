package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"docchat/internal/answer"
	"docchat/internal/assemble"
	"docchat/internal/config"
	"docchat/internal/index"
	"docchat/internal/loader"
	"docchat/internal/retrieve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapEmbedder returns canned unit vectors keyed by exact text.
type mapEmbedder struct {
	vectors map[string][]float32
}

func (m *mapEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v, ok := m.vectors[text]
	if !ok {
		return nil, errors.New("no vector for: " + text)
	}
	return v, nil
}

func (m *mapEmbedder) Dimension() int    { return 2 }
func (m *mapEmbedder) ModelInfo() string { return "map" }

// recordingGenerator captures what the answer step was given.
type recordingGenerator struct {
	gotQuery   string
	gotContext string
	gotHistory []answer.Message
	reply      string
	err        error
	calls      int
}

func (g *recordingGenerator) Generate(_ context.Context, query, contextText string, history []answer.Message) (string, error) {
	g.calls++
	g.gotQuery = query
	g.gotContext = contextText
	g.gotHistory = history
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func testConfig(docPath string) *config.Config {
	return &config.Config{
		DocPath:        docPath,
		ChunkSize:      1000,
		ChunkOverlap:   200,
		TopK:           3,
		MaxContextSize: 2000,
		ContextBudget:  config.BudgetChars,
	}
}

func newTestApp(cfg *config.Config, emb *mapEmbedder, gen *recordingGenerator) *App {
	handle := index.NewHandle(nil)
	return &App{
		cfg:       cfg,
		log:       charmlog.New(io.Discard),
		loader:    loader.NewFileLoader(),
		embedder:  emb,
		handle:    handle,
		retriever: retrieve.New(emb, handle, cfg.TopK, cfg.MinSimilarity),
		assembler: assemble.New(cfg.MaxContextSize, assemble.CharSizer{}),
		generator: gen,
	}
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildIndexAndAnswer(t *testing.T) {
	docText := "Billing happens on the first of each month."
	path := writeDoc(t, "faq.txt", docText)

	emb := &mapEmbedder{vectors: map[string][]float32{
		docText:            {1, 0},
		"when am I billed": {1, 0},
	}}
	gen := &recordingGenerator{reply: "On the first of each month."}
	a := newTestApp(testConfig(path), emb, gen)

	require.NoError(t, a.BuildIndex(context.Background()))
	assert.Equal(t, 1, a.IndexSize())

	reply, err := a.Answer(context.Background(), "when am I billed", nil)
	require.NoError(t, err)

	assert.True(t, reply.ContextFound)
	assert.Equal(t, "On the first of each month.", reply.Answer)
	require.Len(t, reply.Sources, 1)
	assert.Equal(t, path, reply.Sources[0].Source)

	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.gotContext, docText, "the generator sees the retrieved chunk")
}

func TestAnswer_EmptyIndexSkipsGenerator(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{"anything": {1, 0}}}
	gen := &recordingGenerator{reply: "should not be used"}
	a := newTestApp(testConfig("unused.txt"), emb, gen)

	reply, err := a.Answer(context.Background(), "anything", nil)
	require.NoError(t, err)

	assert.False(t, reply.ContextFound)
	assert.Equal(t, noContextAnswer, reply.Answer)
	assert.Empty(t, reply.Sources)
	assert.Zero(t, gen.calls, "the chat model is never called without context")
}

func TestAnswer_SimilarityFloorLeadsToNoContext(t *testing.T) {
	docText := "Shipping takes three days."
	path := writeDoc(t, "shipping.txt", docText)

	cfg := testConfig(path)
	cfg.MinSimilarity = 0.5

	emb := &mapEmbedder{vectors: map[string][]float32{
		docText:          {1, 0},
		"unrelated query": {0, 1},
	}}
	gen := &recordingGenerator{}
	a := newTestApp(cfg, emb, gen)

	require.NoError(t, a.BuildIndex(context.Background()))

	reply, err := a.Answer(context.Background(), "unrelated query", nil)
	require.NoError(t, err)
	assert.False(t, reply.ContextFound)
	assert.Zero(t, gen.calls)
}

func TestAnswer_GeneratorErrorPropagates(t *testing.T) {
	docText := "Refunds are manual."
	path := writeDoc(t, "refunds.txt", docText)

	emb := &mapEmbedder{vectors: map[string][]float32{
		docText: {1, 0},
		"q":     {1, 0},
	}}
	gen := &recordingGenerator{err: &answer.Error{Model: "m", Err: errors.New("overloaded")}}
	a := newTestApp(testConfig(path), emb, gen)

	require.NoError(t, a.BuildIndex(context.Background()))

	_, err := a.Answer(context.Background(), "q", nil)
	require.Error(t, err)

	var genErr *answer.Error
	assert.True(t, errors.As(err, &genErr))
}

func TestAnswer_HistoryReachesGenerator(t *testing.T) {
	docText := "The export button lives in settings."
	path := writeDoc(t, "export.txt", docText)

	emb := &mapEmbedder{vectors: map[string][]float32{
		docText:     {1, 0},
		"and then?": {1, 0},
	}}
	gen := &recordingGenerator{reply: "Open settings."}
	a := newTestApp(testConfig(path), emb, gen)

	require.NoError(t, a.BuildIndex(context.Background()))

	history := []answer.Message{
		{Role: answer.RoleUser, Content: "how do I export?"},
		{Role: answer.RoleAssistant, Content: "Use the export button."},
	}
	_, err := a.Answer(context.Background(), "and then?", history)
	require.NoError(t, err)
	assert.Equal(t, history, gen.gotHistory)
}

func TestBuildIndex_MissingDocumentFails(t *testing.T) {
	emb := &mapEmbedder{vectors: map[string][]float32{}}
	a := newTestApp(testConfig(filepath.Join(t.TempDir(), "gone.txt")), emb, &recordingGenerator{})

	assert.Error(t, a.BuildIndex(context.Background()))
}

func TestSplit_MarkdownWithoutStructureFallsBack(t *testing.T) {
	cfg := testConfig("plain.md")
	cfg.ChunkSize = 10
	cfg.ChunkOverlap = 0
	a := newTestApp(cfg, &mapEmbedder{}, &recordingGenerator{})

	doc := loader.Document{Source: "plain.md", Text: "no headings here, just a plain paragraph of text"}
	chunks, err := a.split(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, chunks)
}

func TestNewSizer(t *testing.T) {
	cfg := testConfig("x.txt")
	s, err := newSizer(cfg)
	require.NoError(t, err)
	assert.IsType(t, assemble.CharSizer{}, s)
}
