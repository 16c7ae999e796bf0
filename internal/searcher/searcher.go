// Package searcher answers exact-word lookups against the inverted index.
package searcher

import (
	"time"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/metrics"
)

// Result is one occurrence handed to a caller. It is an owned copy; holding
// it does not keep engine state alive.
type Result struct {
	DocID      int   `json:"doc_id"`
	PageNum    int   `json:"page_num"`
	ByteOffset int64 `json:"byte_offset"`
}

type Searcher struct {
	idx     *index.MemoryIndex
	metrics *metrics.Metrics
}

func New(idx *index.MemoryIndex, m *metrics.Metrics) *Searcher {
	return &Searcher{idx: idx, metrics: m}
}

// Search normalises word the same way indexing does and returns its
// occurrences in posting order. An unknown or empty word yields an empty,
// non-nil slice.
func (s *Searcher) Search(word string) []Result {
	start := time.Now()
	term := tokenizer.Normalize(word)
	var postings index.PostingList
	if term != "" {
		postings = s.idx.Search(term)
	}
	results := make([]Result, len(postings))
	for i, p := range postings {
		results[i] = Result{
			DocID:      p.DocID,
			PageNum:    p.PageNum,
			ByteOffset: p.ByteOffset,
		}
	}
	s.metrics.SearchServed(len(results), time.Since(start))
	return results
}
