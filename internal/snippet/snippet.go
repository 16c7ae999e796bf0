// Package snippet rebuilds a short window of page text around a recorded
// occurrence by re-extracting the page from its source document.
package snippet

import (
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/extract"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/registry"
	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/metrics"
)

// DefaultWindow is the number of bytes taken on each side of an offset.
const DefaultWindow = 80

type Service struct {
	reg       *registry.Registry
	extractor extract.Extractor
	window    int
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New returns a Service. reg may be nil when only ForPath is used.
func New(reg *registry.Registry, ex extract.Extractor, window int, m *metrics.Metrics) *Service {
	if window < 1 {
		window = DefaultWindow
	}
	return &Service{
		reg:       reg,
		extractor: ex,
		window:    window,
		metrics:   m,
		logger:    logger.WithComponent("snippet"),
	}
}

// ForDocument resolves docID through the registry and returns the snippet.
func (s *Service) ForDocument(docID, pageNum int, byteOffset int64) (string, error) {
	if s.reg == nil {
		return "", apperrors.New(apperrors.ErrNotFound, 0, "no document registry attached")
	}
	path, err := s.reg.Resolve(docID)
	if err != nil {
		s.metrics.SnippetServed("error")
		return "", err
	}
	return s.ForPath(path, pageNum, byteOffset)
}

// ForPath re-extracts the page and returns up to window bytes on each side of
// byteOffset with line breaks collapsed to single spaces. It fails with
// ErrStaleOffset when the page no longer exists or is too short.
func (s *Service) ForPath(path string, pageNum int, byteOffset int64) (string, error) {
	if byteOffset < 0 || pageNum < 0 {
		s.metrics.SnippetServed("error")
		return "", apperrors.Newf(apperrors.ErrInvalidInput, 0,
			"negative coordinates page=%d offset=%d", pageNum, byteOffset)
	}
	text, _, err := s.extractor.ExtractPage(path, pageNum)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.metrics.SnippetServed("stale")
			return "", apperrors.Newf(apperrors.ErrStaleOffset, 0, "%s: page %d no longer exists", path, pageNum)
		}
		s.metrics.SnippetServed("error")
		return "", err
	}
	if byteOffset >= int64(len(text)) {
		s.metrics.SnippetServed("stale")
		s.logger.Warn("source text shorter than indexed offset",
			"path", path,
			"page", pageNum,
			"offset", byteOffset,
			"page_len", len(text),
		)
		return "", apperrors.Newf(apperrors.ErrStaleOffset, 0,
			"%s: offset %d beyond page %d length %d", path, byteOffset, pageNum, len(text))
	}

	s.metrics.SnippetServed("ok")
	return Window(text, int(byteOffset), s.window), nil
}

// Window returns w bytes before offset through w bytes past the end of the word
// starting at offset, clamped to the text and widened to whole UTF-8
// sequences, with each run of line breaks replaced by one space. The word
// itself is always included whatever its length.
func Window(text string, offset, w int) string {
	start := max(0, offset-w)
	end := min(len(text), tokenizer.WordEnd(text, offset)+w)
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	return collapseNewlines(text[start:end])
}

func collapseNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inBreak := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\n' || c == '\r' {
			if !inBreak {
				b.WriteByte(' ')
				inBreak = true
			}
			continue
		}
		inBreak = false
		b.WriteByte(c)
	}
	return b.String()
}
