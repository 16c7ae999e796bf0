// Package indexer builds the inverted index from every registered document.
// Extraction may run on several workers, but results are merged strictly in
// document id order so posting lists always follow traversal order.
package indexer

import (
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/extract"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/registry"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/metrics"
)

// Failure records a document that contributed no occurrences.
type Failure struct {
	DocID int
	Path  string
	Err   error
}

// Report summarises one indexing pass.
type Report struct {
	Attempted   int
	Succeeded   int
	Failed      int
	Pages       int
	Occurrences int
	Failures    []Failure
	Duration    time.Duration
}

// Progress is passed to OnProgress after each document is merged.
type Progress struct {
	Position int
	Total    int
	DocID    int
	Path     string
	Err      error
}

type Indexer struct {
	extractor extract.Extractor
	idx       *index.MemoryIndex
	workers   int
	metrics   *metrics.Metrics
	logger    *slog.Logger

	// OnProgress, if set, is called synchronously in document order.
	OnProgress func(Progress)
}

func New(ex extract.Extractor, idx *index.MemoryIndex, workers int, m *metrics.Metrics) *Indexer {
	if workers < 1 {
		workers = 1
	}
	return &Indexer{
		extractor: ex,
		idx:       idx,
		workers:   workers,
		metrics:   m,
		logger:    logger.WithComponent("indexer"),
	}
}

type extraction struct {
	pages []string
	err   error
}

// IndexAll extracts and tokenises every document in reg in ascending id order.
// A document that fails extraction is recorded in the report and skipped; the
// pass always runs to completion. The index is expected to be empty.
func (ix *Indexer) IndexAll(reg *registry.Registry) Report {
	start := time.Now()
	docs := reg.Documents()
	report := Report{Attempted: len(docs)}
	occBefore := ix.idx.Occurrences()

	ix.logger.Info("indexing started", "documents", len(docs), "workers", ix.workers)

	for batchStart := 0; batchStart < len(docs); batchStart += ix.workers {
		batchEnd := min(batchStart+ix.workers, len(docs))
		batch := docs[batchStart:batchEnd]
		results := ix.extractBatch(batch)

		for i, doc := range batch {
			res := results[i]
			position := batchStart + i + 1
			if res.err != nil {
				report.Failed++
				report.Failures = append(report.Failures, Failure{DocID: doc.ID, Path: doc.Path, Err: res.err})
				ix.metrics.DocumentIndexed(false, 0)
				ix.logger.Warn("document extraction failed, skipping",
					"doc_id", doc.ID,
					"path", doc.Path,
					"error", res.err,
				)
			} else {
				ix.merge(doc.ID, res.pages)
				if err := reg.SetPageCount(doc.ID, len(res.pages)); err != nil {
					ix.logger.Error("recording page count", "doc_id", doc.ID, "error", err)
				}
				report.Succeeded++
				report.Pages += len(res.pages)
				ix.metrics.DocumentIndexed(true, len(res.pages))
				ix.logger.Info("indexing document",
					"position", position,
					"total", len(docs),
					"doc_id", doc.ID,
					"path", doc.Path,
					"pages", len(res.pages),
				)
			}
			if ix.OnProgress != nil {
				ix.OnProgress(Progress{
					Position: position,
					Total:    len(docs),
					DocID:    doc.ID,
					Path:     doc.Path,
					Err:      res.err,
				})
			}
		}
	}

	report.Occurrences = ix.idx.Occurrences() - occBefore
	report.Duration = time.Since(start)
	ix.metrics.SetTerms(ix.idx.Terms())
	ix.logger.Info("indexing complete",
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"terms", ix.idx.Terms(),
		"occurrences", report.Occurrences,
		"duration", report.Duration,
	)
	return report
}

// extractBatch runs extraction for batch concurrently; results[i] belongs to
// batch[i].
func (ix *Indexer) extractBatch(batch []registry.Document) []extraction {
	results := make([]extraction, len(batch))
	if len(batch) == 1 {
		pages, err := ix.extractor.ExtractPages(batch[0].Path)
		results[0] = extraction{pages: pages, err: err}
		return results
	}
	var g errgroup.Group
	for i, doc := range batch {
		i, doc := i, doc
		g.Go(func() error {
			pages, err := ix.extractor.ExtractPages(doc.Path)
			results[i] = extraction{pages: pages, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (ix *Indexer) merge(docID int, pages []string) {
	for pageNum, text := range pages {
		for _, tok := range tokenizer.Tokenize(text) {
			ix.idx.Add(tok.Term, index.Occurrence{
				DocID:      docID,
				PageNum:    pageNum,
				ByteOffset: int64(tok.Offset),
			})
		}
	}
}
