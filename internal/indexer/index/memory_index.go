package index

import (
	"sort"
	"sync"
)

// MemoryIndex maps normalised words to their posting lists.
type MemoryIndex struct {
	mu          sync.RWMutex
	index       map[string]PostingList
	occurrences int
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		index: make(map[string]PostingList),
	}
}

// Add appends occ to term's posting list. An occurrence identical to the last
// one recorded for the term is dropped.
func (m *MemoryIndex) Add(term string, occ Occurrence) {
	if term == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	postings := m.index[term]
	if n := len(postings); n > 0 && postings[n-1] == occ {
		return
	}
	m.index[term] = append(postings, occ)
	m.occurrences++
}

// Search returns a copy of term's posting list, or nil if the term is absent.
func (m *MemoryIndex) Search(term string) PostingList {
	m.mu.RLock()
	defer m.mu.RUnlock()
	postings, exists := m.index[term]
	if !exists {
		return nil
	}
	result := make(PostingList, len(postings))
	copy(result, postings)
	return result
}

// Snapshot returns every term with a copy of its postings, sorted by term.
func (m *MemoryIndex) Snapshot() []TermEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]TermEntry, 0, len(m.index))
	for term, postings := range m.index {
		cp := make(PostingList, len(postings))
		copy(cp, postings)
		entries = append(entries, TermEntry{
			Term:     term,
			Postings: cp,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Term < entries[j].Term
	})
	return entries
}

// Load replaces the index content with entries, keeping each posting list in
// the order given.
func (m *MemoryIndex) Load(entries []TermEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = make(map[string]PostingList, len(entries))
	m.occurrences = 0
	for _, e := range entries {
		cp := make(PostingList, len(e.Postings))
		copy(cp, e.Postings)
		m.index[e.Term] = cp
		m.occurrences += len(cp)
	}
}

func (m *MemoryIndex) Terms() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.index)
}

func (m *MemoryIndex) Occurrences() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.occurrences
}

// MaxDocID returns the largest document id referenced by any posting, or -1
// for an empty index.
func (m *MemoryIndex) MaxDocID() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	maxID := -1
	for _, postings := range m.index {
		for _, p := range postings {
			if p.DocID > maxID {
				maxID = p.DocID
			}
		}
	}
	return maxID
}

func (m *MemoryIndex) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = make(map[string]PostingList)
	m.occurrences = 0
}
