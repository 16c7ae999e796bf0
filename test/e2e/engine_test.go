// Package e2e contains end-to-end tests that run the full pipeline over real
// PDF files written to a temporary directory: crawl, extract, index, save,
// load, search, and snippet.
//
// Run with:
//
//	go test -v -timeout=120s ./test/e2e/...
package e2e

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/engine"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/extract/pdftest"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Engine.DataDir = t.TempDir()
	cfg.Engine.Workers = 2
	return cfg
}

func indexDir(t *testing.T, cfg *config.Config, root string) *engine.Engine {
	t.Helper()
	e := engine.New(cfg)
	_, err := e.Crawl(root, nil)
	require.NoError(t, err)
	_, err = e.IndexAll()
	require.NoError(t, err)
	return e
}

func TestFullPipeline(t *testing.T) {
	root := t.TempDir()
	pdftest.WriteFile(t, root, "acme.pdf", "Sam works at Acme")
	pdftest.WriteFile(t, root, "reports/q1.pdf", "Quarterly revenue grew", "Acme signed two contracts")
	pdftest.WriteFile(t, root, "reports/archive/old.PDF", "Nothing relevant here")
	pdftest.WriteCorrupt(t, root, "reports/broken.pdf")
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("Acme"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "reports", ".hidden.pdf.bak"), []byte("x"), 0o644))

	cfg := testConfig(t)
	e := engine.New(cfg)
	defer e.Close()

	n, err := e.Crawl(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	report, err := e.IndexAll()
	require.NoError(t, err)
	assert.Equal(t, 4, report.Attempted)
	assert.Equal(t, 3, report.Succeeded)
	require.Equal(t, 1, report.Failed)
	assert.Equal(t, "broken.pdf", filepath.Base(report.Failures[0].Path))

	results := e.Search("ACME")
	require.Len(t, results, 2)
	for _, r := range results {
		path, err := e.ResolveDocumentPath(r.DocID)
		require.NoError(t, err)
		snip, err := e.Snippet(r.DocID, r.PageNum, r.ByteOffset)
		require.NoError(t, err)
		assert.Contains(t, snip, "Acme", path)
	}

	q1 := e.Search("contracts")
	require.Len(t, q1, 1)
	assert.Equal(t, 1, q1[0].PageNum)

	assert.Empty(t, e.Search("relevanth"))
	assert.Empty(t, e.Search("broken"))
}

func TestSaveLoadAcrossEngines(t *testing.T) {
	root := t.TempDir()
	pdftest.WriteFile(t, root, "acme.pdf", "Sam works at Acme")
	pdftest.WriteFile(t, root, "other.pdf", "Acme again, and again")

	cfg := testConfig(t)
	first := indexDir(t, cfg, root)
	require.NoError(t, first.Save(cfg.IndexPath()))
	want := first.Search("again")
	wantStats := first.Stats()
	require.NoError(t, first.Close())

	second, err := engine.Load(cfg.IndexPath(), cfg)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, want, second.Search("again"))
	assert.Equal(t, wantStats, second.Stats())
	for _, d := range second.Documents() {
		assert.Equal(t, 1, d.PageCount, d.Path)
	}

	sam := second.Search("sam")
	require.Len(t, sam, 1)
	snip, err := second.Snippet(sam[0].DocID, sam[0].PageNum, sam[0].ByteOffset)
	require.NoError(t, err)
	assert.Contains(t, snip, "Sam works at Acme")
}

func TestSnippetAfterSourceChanged(t *testing.T) {
	root := t.TempDir()
	path := pdftest.WriteFile(t, root, "long.pdf", strings.Repeat("word ", 50)+"target")

	cfg := testConfig(t)
	e := indexDir(t, cfg, root)
	defer e.Close()

	results := e.Search("target")
	require.Len(t, results, 1)

	pdftest.WriteFile(t, root, "long.pdf", "short")
	_, err := e.SnippetAt(path, results[0].PageNum, results[0].ByteOffset)
	assert.True(t, errors.Is(err, apperrors.ErrStaleOffset), "got %v", err)

	require.NoError(t, os.Remove(path))
	_, err = e.Snippet(results[0].DocID, results[0].PageNum, results[0].ByteOffset)
	assert.True(t, errors.Is(err, apperrors.ErrUnreadable), "got %v", err)
}

func TestLoadCorruptSnapshot(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.IndexPath(), []byte("garbage"), 0o644))

	_, err := engine.Load(cfg.IndexPath(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFormat))
	assert.Equal(t, apperrors.ExitCorrupt, apperrors.ExitCode(err))
}
