package benchmark

import (
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer/tokenizer"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Section 4.2 of the agreement, dated 2021-03-14, states that the
        licensee shall keep all records for at least seven years. Records
        include invoices, delivery notes, and signed acceptance forms. The
        licensor may audit these records once per calendar year with thirty
        days' written notice.`,
	"long": strings.Repeat(`Extracted page text rarely looks like prose: hyphen-
        ated words break across lines, ligatures and accented letters such as
        café, naïve and Zürich appear next to part numbers like X-200/B, and
        headers repeat on every page. Tokenization keeps runs of letters and
        digits and records where each run starts. `, 20),
}

func BenchmarkTokenize(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = tokenizer.Tokenize(text)
			}
		})
	}
}

func BenchmarkTokenizeParallel(b *testing.B) {
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = tokenizer.Tokenize(text)
		}
	})
}

func BenchmarkNormalize(b *testing.B) {
	words := []string{"Acme", "  ZÜRICH ", "x-200", "naïve"}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = tokenizer.Normalize(words[i%len(words)])
	}
}
