package app

import (
	"context"
	"fmt"
	"time"

	charmlog "github.com/charmbracelet/log"

	"docchat/internal/answer"
	"docchat/internal/assemble"
	"docchat/internal/config"
	"docchat/internal/embed"
	"docchat/internal/index"
	"docchat/internal/loader"
	"docchat/internal/retrieve"
	"docchat/internal/splitter"
)

// buildWorkers bounds concurrent embedding calls during indexing.
const buildWorkers = 4

// noContextAnswer is returned without consulting the chat model when
// retrieval finds nothing relevant.
const noContextAnswer = "I could not find anything about that in the documentation."

// Reply is the outcome of one answered question.
type Reply struct {
	Answer       string
	ContextFound bool
	Sources      []assemble.Ref
}

// App wires the document pipeline together: load, split, embed, index
// on one side; retrieve, assemble, generate on the other.
type App struct {
	cfg *config.Config
	log *charmlog.Logger

	loader    loader.Loader
	embedder  embed.Embedder
	handle    *index.Handle
	retriever *retrieve.Retriever
	assembler *assemble.Assembler
	generator answer.Generator
}

func New(cfg *config.Config, log *charmlog.Logger) (*App, error) {
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	sizer, err := newSizer(cfg)
	if err != nil {
		return nil, err
	}

	handle := index.NewHandle(nil)

	return &App{
		cfg:       cfg,
		log:       log,
		loader:    loader.NewFileLoader(),
		embedder:  embedder,
		handle:    handle,
		retriever: retrieve.New(embedder, handle, cfg.TopK, cfg.MinSimilarity),
		assembler: assemble.New(cfg.MaxContextSize, sizer),
		generator: answer.NewChatGenerator(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.ChatModel, cfg.ModelTimeout),
	}, nil
}

func newEmbedder(cfg *config.Config) (embed.Embedder, error) {
	var base embed.Embedder
	switch cfg.EmbedProvider {
	case config.ProviderOpenAI:
		e, err := embed.NewOpenAIEmbedder(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.EmbedModel)
		if err != nil {
			return nil, err
		}
		base = e
	case config.ProviderOllama:
		base = embed.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbedModel)
	default:
		return nil, &config.Error{Field: "EMBED_PROVIDER", Reason: "unknown provider " + cfg.EmbedProvider}
	}

	return embed.WithRetry(embed.WithTimeout(base, cfg.ModelTimeout), cfg.EmbedRetries, 500*time.Millisecond), nil
}

func newSizer(cfg *config.Config) (assemble.Sizer, error) {
	if cfg.ContextBudget == config.BudgetTokens {
		return assemble.NewTokenSizer(cfg.TokenEncoding)
	}
	return assemble.CharSizer{}, nil
}

// BuildIndex loads the configured document, splits it, embeds every
// chunk and swaps the finished index in. Requests keep being served
// from the previous index until the swap.
func (a *App) BuildIndex(ctx context.Context) error {
	started := time.Now()

	doc, err := a.loader.Load(ctx, a.cfg.DocPath)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	chunks, err := a.split(doc)
	if err != nil {
		return fmt.Errorf("splitting document: %w", err)
	}

	ix, err := index.Build(ctx, chunks, a.embedder, buildWorkers)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	a.handle.Swap(ix)
	a.log.Info("index rebuilt",
		"source", doc.Source,
		"chunks", ix.Len(),
		"dim", ix.Dimension(),
		"model", a.embedder.ModelInfo(),
		"took", time.Since(started).Round(time.Millisecond))
	return nil
}

func (a *App) split(doc loader.Document) ([]splitter.Chunk, error) {
	scfg := splitter.Config{ChunkSize: a.cfg.ChunkSize, ChunkOverlap: a.cfg.ChunkOverlap}

	sp := splitter.ForSource(doc.Source, scfg)
	chunks, err := sp.Split(doc.Text, doc.Source)
	if err != nil && sp.Name() != "text" {
		a.log.Warn("structured split failed, using plain windows", "splitter", sp.Name(), "err", err)
		return splitter.NewTextSplitter(scfg).Split(doc.Text, doc.Source)
	}
	return chunks, err
}

// Answer runs the query side of the pipeline. When no relevant context
// exists the fixed fallback is returned and the chat model is not
// called: an unguided model would invent an answer.
func (a *App) Answer(ctx context.Context, query string, history []answer.Message) (Reply, error) {
	results, err := a.retriever.Retrieve(ctx, query)
	if err != nil {
		return Reply{}, err
	}

	bundle, err := a.assembler.Assemble(results)
	if err != nil {
		return Reply{}, err
	}
	if bundle.Empty {
		a.log.Debug("no context for query", "query", query)
		return Reply{Answer: noContextAnswer, ContextFound: false}, nil
	}
	if bundle.Truncated {
		a.log.Debug("context truncated to budget", "budget", a.cfg.MaxContextSize)
	}

	text, err := a.generator.Generate(ctx, query, bundle.Text, history)
	if err != nil {
		return Reply{}, fmt.Errorf("generating answer: %w", err)
	}

	return Reply{Answer: text, ContextFound: true, Sources: bundle.Refs}, nil
}

// IndexSize reports the number of chunks in the live index.
func (a *App) IndexSize() int {
	return a.handle.Load().Len()
}
