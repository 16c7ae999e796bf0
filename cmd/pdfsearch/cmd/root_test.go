package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/extract/pdftest"
	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestIndexThenSearch(t *testing.T) {
	docs := t.TempDir()
	data := t.TempDir()
	pdftest.WriteFile(t, docs, "acme.pdf", "Sam works at Acme")

	out, err := run(t, "index", docs, "--data-dir", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Found PDF:")
	assert.Contains(t, out, "Indexed 1 of 1 documents (0 failed)")

	out, err = run(t, "search", "acme", "--data-dir", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 occurrence:")
	assert.Contains(t, out, "1. acme.pdf - Page 1")
	assert.Contains(t, out, "...Sam works at Acme")

	out, err = run(t, "search", "nobody", "--data-dir", data)
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchJSON(t *testing.T) {
	docs := t.TempDir()
	data := t.TempDir()
	pdftest.WriteFile(t, docs, "a.pdf", "alpha beta alpha")

	out, err := run(t, "search", "alpha", "--data-dir", data, "--dir", docs, "--format", "json")
	require.NoError(t, err)

	var hits []searchHit
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 2)
	assert.Less(t, hits[0].ByteOffset, hits[1].ByteOffset)
	assert.Contains(t, hits[0].Snippet, "alpha beta")

	out, err = run(t, "search", "alpha", "--data-dir", data, "--format", "json", "--limit", "1", "--no-snippet")
	require.NoError(t, err)
	var limited []searchHit
	require.NoError(t, json.Unmarshal([]byte(out), &limited))
	require.Len(t, limited, 1)
	assert.Empty(t, limited[0].Snippet)
	assert.NotContains(t, out, `"snippet"`)
}

func TestSearchWithoutIndex(t *testing.T) {
	_, err := run(t, "search", "acme", "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, apperrors.ExitNotFound, apperrors.ExitCode(err))

	_, err = run(t, "search", "acme", "--data-dir", t.TempDir(), "--reindex")
	assert.Equal(t, apperrors.ExitUsage, apperrors.ExitCode(err))
}

func TestIndexInvalidRoot(t *testing.T) {
	_, err := run(t, "index", "/does/not/exist", "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, apperrors.ExitUsage, apperrors.ExitCode(err))
}

func TestDocsAndSnippet(t *testing.T) {
	docs := t.TempDir()
	data := t.TempDir()
	pdftest.WriteFile(t, docs, "one.pdf", "first page", "second page")

	_, err := run(t, "index", docs, "--data-dir", data, "-q")
	require.NoError(t, err)

	out, err := run(t, "docs", "--data-dir", data)
	require.NoError(t, err)
	assert.Contains(t, out, "2 pages")
	assert.Contains(t, out, "1 documents, 3 words, 4 occurrences")

	out, err = run(t, "snippet", "0", "1", "0", "--data-dir", data)
	require.NoError(t, err)
	assert.Contains(t, out, "second page")

	_, err = run(t, "snippet", "0", "x", "0", "--data-dir", data)
	assert.Equal(t, apperrors.ExitUsage, apperrors.ExitCode(err))

	_, err = run(t, "snippet", "7", "0", "0", "--data-dir", data)
	assert.Equal(t, apperrors.ExitNotFound, apperrors.ExitCode(err))
}
