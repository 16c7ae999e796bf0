// Package snapshot persists the document table and inverted index as one
// binary file. The layout is
//
//	header   24 bytes  magic, version, doc count, term count, body size
//	body              document table followed by the term table, uvarint encoded
//	footer    8 bytes  xxhash64 of the body
//
// Files are replaced atomically, so readers see either the previous snapshot
// or the new one, never a partial write.
package snapshot

import (
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/registry"
)

const (
	MagicBytes    uint32 = 0xD0C0C0DE
	FormatVersion uint32 = 2
	HeaderSize    int    = 24
	FooterSize    int    = 8
)

// Header is the fixed-size prefix of every snapshot file.
type Header struct {
	Magic     uint32
	Version   uint32
	DocCount  uint32
	TermCount uint32
	BodySize  uint64
}

// State is the unit of persistence: every registered document plus every
// term with its ordered postings.
type State struct {
	Documents []registry.Document
	Terms     []index.TermEntry
}
