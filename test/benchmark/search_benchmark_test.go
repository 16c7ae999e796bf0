package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/searcher"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/snippet"
)

// BenchmarkSearch measures the searcher's normalize-and-copy path for
// different posting-list sizes.
func BenchmarkSearch(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		mi := index.NewMemoryIndex()
		for d := 0; d < n; d++ {
			mi.Add("acme", index.Occurrence{DocID: d, ByteOffset: 13})
		}
		s := searcher.New(mi, nil)
		b.Run(fmt.Sprintf("postings_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = s.Search("  ACME ")
			}
		})
	}
}

// BenchmarkSnippetWindow measures window extraction with and without line
// breaks to collapse.
func BenchmarkSnippetWindow(b *testing.B) {
	texts := map[string]string{
		"flat":      strings.Repeat("plain words on a single line ", 200),
		"multiline": strings.Repeat("words split\nacross\r\nmany lines ", 200),
		"unicode":   strings.Repeat("ünïcödé wörds über alles ", 200),
	}
	for name, text := range texts {
		offset := len(text) / 2
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = snippet.Window(text, offset, snippet.DefaultWindow)
			}
		})
	}
}
