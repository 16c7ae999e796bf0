// Package benchmark contains Go benchmarks for the memory index, snapshot
// codec, and search pipeline, measuring throughput and allocation behaviour.
package benchmark

import (
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/registry"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/snapshot"
)

const pageText = "search engine with word level indexing and page precise snippet lookup over many documents"

func buildIndex(docs int) (*index.MemoryIndex, []registry.Document) {
	mi := index.NewMemoryIndex()
	regDocs := make([]registry.Document, docs)
	tokens := tokenizer.Tokenize(pageText)
	for d := 0; d < docs; d++ {
		regDocs[d] = registry.Document{ID: d, Path: fmt.Sprintf("/corpus/doc-%d.pdf", d), PageCount: 1}
		for _, tok := range tokens {
			mi.Add(tok.Term, index.Occurrence{DocID: d, PageNum: 0, ByteOffset: int64(tok.Offset)})
		}
	}
	return mi, regDocs
}

// BenchmarkMemoryIndexAdd measures per-page insert throughput into the
// in-memory inverted index.
func BenchmarkMemoryIndexAdd(b *testing.B) {
	mi := index.NewMemoryIndex()
	tokens := tokenizer.Tokenize(pageText)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tok := range tokens {
			mi.Add(tok.Term, index.Occurrence{DocID: i, ByteOffset: int64(tok.Offset)})
		}
	}
}

// BenchmarkMemoryIndexSearch measures single-term lookup latency over 10 000
// documents. Search copies the posting list, so cost grows with its length.
func BenchmarkMemoryIndexSearch(b *testing.B) {
	mi, _ := buildIndex(10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = mi.Search("search")
	}
}

// BenchmarkMemoryIndexSearchParallel measures concurrent read throughput.
func BenchmarkMemoryIndexSearchParallel(b *testing.B) {
	mi, _ := buildIndex(10000)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = mi.Search("snippet")
		}
	})
}

func BenchmarkSnapshotEncode(b *testing.B) {
	for _, docs := range []int{100, 1000, 10000} {
		mi, regDocs := buildIndex(docs)
		state := &snapshot.State{Documents: regDocs, Terms: mi.Snapshot()}
		b.Run(fmt.Sprintf("docs_%d", docs), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := snapshot.Encode(state); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSnapshotDecode(b *testing.B) {
	for _, docs := range []int{100, 1000, 10000} {
		mi, regDocs := buildIndex(docs)
		data, err := snapshot.Encode(&snapshot.State{Documents: regDocs, Terms: mi.Snapshot()})
		if err != nil {
			b.Fatal(err)
		}
		b.Run(fmt.Sprintf("docs_%d", docs), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for i := 0; i < b.N; i++ {
				if _, err := snapshot.Decode(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
