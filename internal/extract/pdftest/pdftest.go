// Package pdftest builds small PDF fixtures and fake extractors for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
)

// Build returns a minimal PDF with one page per argument. Each page is drawn
// as a single line in Helvetica, so page text must not contain newlines.
func Build(pages ...string) []byte {
	numObjs := 3 + 2*len(pages)
	offsets := make([]int, numObjs+1)
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, text := range pages {
		pageObj, contentObj := 4+2*i, 5+2*i
		writeObj(pageObj, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			contentObj))
		stream := fmt.Sprintf("BT\n/F1 12 Tf\n72 720 Td\n(%s) Tj\nET", escape(text))
		writeObj(contentObj, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", numObjs+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= numObjs; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", numObjs+1, xref)
	return buf.Bytes()
}

// WriteFile writes a generated PDF to dir/name and returns its path.
func WriteFile(t testing.TB, dir, name string, pages ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating fixture directory: %v", err)
	}
	if err := os.WriteFile(path, Build(pages...), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}

// WriteCorrupt writes a file with a .pdf name that is not a PDF.
func WriteCorrupt(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("this is definitely not a pdf\x00\x01"), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// Fake is an in-memory extractor keyed by path. Paths listed in Broken fail
// with ErrUnreadable. Docs and Broken must not change while extraction runs.
type Fake struct {
	Docs   map[string][]string
	Broken map[string]bool
	Calls  atomic.Int64
}

func NewFake() *Fake {
	return &Fake{
		Docs:   make(map[string][]string),
		Broken: make(map[string]bool),
	}
}

func (f *Fake) ExtractPages(path string) ([]string, error) {
	f.Calls.Add(1)
	if f.Broken[path] {
		return nil, apperrors.Newf(apperrors.ErrUnreadable, 0, "%s: corrupt", path)
	}
	pages, ok := f.Docs[path]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrUnreadable, 0, "%s: no such file", path)
	}
	out := make([]string, len(pages))
	copy(out, pages)
	return out, nil
}

func (f *Fake) ExtractPage(path string, page int) (string, int, error) {
	pages, err := f.ExtractPages(path)
	if err != nil {
		return "", 0, err
	}
	if page < 0 || page >= len(pages) {
		return "", len(pages), apperrors.Newf(apperrors.ErrNotFound, 0, "page %d not in %s", page, path)
	}
	return pages[page], len(pages), nil
}
