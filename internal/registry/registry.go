// Package registry holds the table of discovered documents. Identifiers are
// issued sequentially from zero in registration order and never reused.
package registry

import (
	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
)

// Document is a registered source file.
type Document struct {
	ID        int
	Path      string
	PageCount int
}

// Registry is append-only and not safe for concurrent mutation; the crawler
// is its single writer.
type Registry struct {
	docs []Document
}

func New() *Registry {
	return &Registry{}
}

// Register appends path and returns its id.
func (r *Registry) Register(path string) int {
	id := len(r.docs)
	r.docs = append(r.docs, Document{ID: id, Path: path})
	return id
}

func (r *Registry) Resolve(id int) (string, error) {
	doc, err := r.Get(id)
	if err != nil {
		return "", err
	}
	return doc.Path, nil
}

func (r *Registry) Get(id int) (Document, error) {
	if id < 0 || id >= len(r.docs) {
		return Document{}, apperrors.Newf(apperrors.ErrNotFound, 0,
			"document id %d outside registered range [0, %d)", id, len(r.docs))
	}
	return r.docs[id], nil
}

// SetPageCount records the page count learned during extraction.
func (r *Registry) SetPageCount(id int, pages int) error {
	if id < 0 || id >= len(r.docs) {
		return apperrors.Newf(apperrors.ErrNotFound, 0, "document id %d not registered", id)
	}
	r.docs[id].PageCount = pages
	return nil
}

func (r *Registry) Count() int {
	return len(r.docs)
}

// Documents returns a copy of every document in id order.
func (r *Registry) Documents() []Document {
	out := make([]Document, len(r.docs))
	copy(out, r.docs)
	return out
}

// FromDocuments rebuilds a registry from a persisted table. Documents must be
// in id order with ids 0..n-1.
func FromDocuments(docs []Document) (*Registry, error) {
	r := &Registry{docs: make([]Document, len(docs))}
	for i, d := range docs {
		if d.ID != i {
			return nil, apperrors.Newf(apperrors.ErrInvalidInput, 0,
				"document table out of order: position %d holds id %d", i, d.ID)
		}
		r.docs[i] = d
	}
	return r, nil
}
