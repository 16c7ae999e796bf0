// Package extract produces per-page plain text for documents. Page text is
// never cached; callers re-extract whenever they need it.
package extract

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/logger"
)

// Extractor turns a document into page text.
type Extractor interface {
	// ExtractPages returns one UTF-8 string per page in reading order.
	ExtractPages(path string) ([]string, error)
	// ExtractPage returns the text of the zero-based page and the document's
	// page count.
	ExtractPage(path string, page int) (string, int, error)
}

// PDFExtractor reads PDF files with github.com/ledongthuc/pdf.
type PDFExtractor struct {
	logger *slog.Logger
}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{
		logger: logger.WithComponent("extractor"),
	}
}

func (e *PDFExtractor) ExtractPages(path string) (pages []string, err error) {
	defer recoverUnreadable(path, &err)

	f, err := os.Open(path)
	if err != nil {
		return nil, unreadable(path, err)
	}
	defer f.Close()
	r, err := newReader(f)
	if err != nil {
		return nil, unreadable(path, err)
	}

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		text, err := pageText(r, i)
		if err != nil {
			return nil, unreadable(path, fmt.Errorf("page %d: %w", i-1, err))
		}
		pages = append(pages, text)
	}
	e.logger.Debug("document extracted", "path", path, "pages", n)
	return pages, nil
}

func (e *PDFExtractor) ExtractPage(path string, page int) (text string, count int, err error) {
	defer recoverUnreadable(path, &err)

	f, err := os.Open(path)
	if err != nil {
		return "", 0, unreadable(path, err)
	}
	defer f.Close()
	r, err := newReader(f)
	if err != nil {
		return "", 0, unreadable(path, err)
	}

	count = r.NumPage()
	if page < 0 || page >= count {
		return "", count, apperrors.Newf(apperrors.ErrNotFound, 0,
			"page %d not in %s (%d pages)", page, path, count)
	}
	text, err = pageText(r, page+1)
	if err != nil {
		return "", count, unreadable(path, fmt.Errorf("page %d: %w", page, err))
	}
	return text, count, nil
}

// newReader parses the cross-reference table of an already opened file. The
// caller owns f, so it is closed even when the parser panics.
var newReader = func(f *os.File) (*pdf.Reader, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return pdf.NewReader(f, info.Size())
}

// pageText extracts one 1-based page. Pages without a content object yield
// empty text so page numbering stays aligned.
func pageText(r *pdf.Reader, num int) (string, error) {
	p := r.Page(num)
	if p.V.IsNull() {
		return "", nil
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(text, "�"), nil
}

func unreadable(path string, cause error) error {
	return apperrors.Newf(apperrors.ErrUnreadable, 0, "%s: %v", path, cause)
}

// recoverUnreadable converts a panic from the PDF parser into ErrUnreadable;
// the parser panics on some malformed cross-reference tables.
func recoverUnreadable(path string, err *error) {
	if r := recover(); r != nil {
		*err = unreadable(path, fmt.Errorf("parser panic: %v", r))
	}
}
