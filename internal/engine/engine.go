// Package engine is the handle callers hold. It owns the document registry
// and inverted index for its lifetime and exposes crawl, index, search,
// snippet, and snapshot operations over them.
//
// An Engine is not safe for concurrent use: IndexAll must not run while
// Search or Snippet calls are in flight on the same instance.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/crawler"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/extract"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/registry"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/snapshot"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/snippet"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/metrics"
)

var errClosed = apperrors.New(apperrors.ErrInvalidInput, 0, "engine is closed")

type Engine struct {
	cfg       *config.Config
	reg       *registry.Registry
	idx       *index.MemoryIndex
	extractor extract.Extractor
	searcher  *searcher.Searcher
	snippets  *snippet.Service
	metrics   *metrics.Metrics
	logger    *slog.Logger
	indexed   bool
	closed    bool

	onProgress func(indexer.Progress)
}

// Option customises an Engine at construction.
type Option func(*Engine)

// WithExtractor replaces the PDF extractor.
func WithExtractor(ex extract.Extractor) Option {
	return func(e *Engine) { e.extractor = ex }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithProgress installs a per-document callback for IndexAll.
func WithProgress(fn func(indexer.Progress)) Option {
	return func(e *Engine) { e.onProgress = fn }
}

// New creates an empty engine. A nil cfg uses config.Default().
func New(cfg *config.Config, opts ...Option) *Engine {
	return build(cfg, opts)
}

func build(cfg *config.Config, opts []Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{
		cfg:    cfg,
		reg:    registry.New(),
		idx:    index.NewMemoryIndex(),
		logger: logger.WithComponent("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.extractor == nil {
		e.extractor = extract.NewPDFExtractor()
	}
	e.wire()
	return e
}

func (e *Engine) wire() {
	e.searcher = searcher.New(e.idx, e.metrics)
	e.snippets = snippet.New(e.reg, e.extractor, e.cfg.Engine.SnippetWindow, e.metrics)
}

// Close releases all document and occurrence data. Results previously
// returned remain valid because they are copies.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.idx.Reset()
	e.reg = nil
	e.idx = nil
	e.searcher = nil
	e.snippets = nil
	return nil
}

// Crawl registers every PDF under root and reports each one to obs.
func (e *Engine) Crawl(root string, obs crawler.Observer) (int, error) {
	if e.closed {
		return 0, errClosed
	}
	return crawler.New(e.reg, e.cfg.Crawler, e.metrics).Crawl(root, obs)
}

// IndexAll runs one full indexing pass over the registered documents. It may
// run once per engine; reindexing means building a new engine.
func (e *Engine) IndexAll() (indexer.Report, error) {
	if e.closed {
		return indexer.Report{}, errClosed
	}
	if e.indexed || e.idx.Terms() > 0 {
		return indexer.Report{}, apperrors.New(apperrors.ErrInvalidInput, 0,
			"engine already holds an index; create a new engine to reindex")
	}
	ix := indexer.New(e.extractor, e.idx, e.cfg.Engine.Workers, e.metrics)
	ix.OnProgress = e.onProgress
	report := ix.IndexAll(e.reg)
	e.indexed = true
	return report, nil
}

// Search returns the occurrences of word. A closed engine or unknown word
// yields an empty result.
func (e *Engine) Search(word string) []searcher.Result {
	if e.closed {
		return []searcher.Result{}
	}
	return e.searcher.Search(word)
}

func (e *Engine) ResolveDocumentPath(docID int) (string, error) {
	if e.closed {
		return "", errClosed
	}
	return e.reg.Resolve(docID)
}

// Snippet returns the text around an occurrence identified by document id.
func (e *Engine) Snippet(docID, pageNum int, byteOffset int64) (string, error) {
	if e.closed {
		return "", errClosed
	}
	return e.snippets.ForDocument(docID, pageNum, byteOffset)
}

// SnippetAt returns the text around an occurrence in the file at path.
func (e *Engine) SnippetAt(path string, pageNum int, byteOffset int64) (string, error) {
	if e.closed {
		return "", errClosed
	}
	return e.snippets.ForPath(path, pageNum, byteOffset)
}

// Documents returns a copy of the registered documents.
func (e *Engine) Documents() []registry.Document {
	if e.closed {
		return nil
	}
	return e.reg.Documents()
}

type Stats struct {
	Documents   int
	Terms       int
	Occurrences int
}

func (e *Engine) Stats() Stats {
	if e.closed {
		return Stats{}
	}
	return Stats{
		Documents:   e.reg.Count(),
		Terms:       e.idx.Terms(),
		Occurrences: e.idx.Occurrences(),
	}
}

// Save writes the engine state to path, atomically replacing any existing
// snapshot.
func (e *Engine) Save(path string) error {
	if e.closed {
		return errClosed
	}
	state := &snapshot.State{
		Documents: e.reg.Documents(),
		Terms:     e.idx.Snapshot(),
	}
	err := snapshot.NewWriter().Write(path, state)
	e.metrics.SnapshotOp("save", err)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Load restores an engine from the snapshot at path. A missing file fails
// with ErrNotFound and a damaged one with ErrFormat, so callers can fall back
// to reindexing.
func Load(path string, cfg *config.Config, opts ...Option) (*Engine, error) {
	e := build(cfg, opts)

	state, err := snapshot.Read(path)
	e.metrics.SnapshotOp("load", err)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	reg, err := registry.FromDocuments(state.Documents)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", errors.Join(apperrors.ErrFormat, err))
	}
	e.idx.Load(state.Terms)
	if err := checkIntegrity(reg, e.idx); err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", path, err)
	}
	e.reg = reg
	e.wire()
	e.indexed = true
	e.metrics.SetTerms(e.idx.Terms())
	e.logger.Info("snapshot loaded",
		"path", path,
		"docs", reg.Count(),
		"terms", e.idx.Terms(),
	)
	return e, nil
}

// checkIntegrity fails with ErrFormat when a posting names a document the
// registry does not hold.
func checkIntegrity(reg *registry.Registry, idx *index.MemoryIndex) error {
	if maxID := idx.MaxDocID(); maxID >= reg.Count() {
		return apperrors.Newf(apperrors.ErrFormat, 0,
			"posting references document %d but only %d are registered", maxID, reg.Count())
	}
	return nil
}
