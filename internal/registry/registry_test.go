package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
)

func TestRegisterIssuesSequentialIDs(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Register("/docs/a.pdf"))
	assert.Equal(t, 1, r.Register("/docs/b.pdf"))
	assert.Equal(t, 2, r.Register("/docs/a.pdf"))
	assert.Equal(t, 3, r.Count())

	path, err := r.Resolve(1)
	require.NoError(t, err)
	assert.Equal(t, "/docs/b.pdf", path)
}

func TestResolveOutOfRange(t *testing.T) {
	r := New()
	r.Register("/docs/a.pdf")

	for _, id := range []int{-1, 1, 100} {
		_, err := r.Resolve(id)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound), "id %d", id)
	}
}

func TestPageCountAndDocumentsCopy(t *testing.T) {
	r := New()
	id := r.Register("/docs/a.pdf")
	require.NoError(t, r.SetPageCount(id, 7))
	assert.Error(t, r.SetPageCount(5, 1))

	docs := r.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, 7, docs[0].PageCount)

	docs[0].Path = "mutated"
	path, _ := r.Resolve(id)
	assert.Equal(t, "/docs/a.pdf", path)
}

func TestFromDocuments(t *testing.T) {
	r, err := FromDocuments([]Document{{ID: 0, Path: "a.pdf", PageCount: 2}, {ID: 1, Path: "b.pdf"}})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, 2, r.Register("c.pdf"))

	_, err = FromDocuments([]Document{{ID: 1, Path: "a.pdf"}})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
