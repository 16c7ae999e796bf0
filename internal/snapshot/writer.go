package snapshot

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/gofrs/flock"
	"github.com/google/renameio"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/logger"
)

// Writer serialises engine state into snapshot files.
type Writer struct {
	logger *slog.Logger
}

func NewWriter() *Writer {
	return &Writer{logger: logger.WithComponent("snapshot")}
}

// Write encodes state and atomically replaces the file at path. Concurrent
// writers in other processes are serialised through a lock file next to it.
func (w *Writer) Write(path string, state *State) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquiring snapshot lock: %w", err)
	}
	defer lock.Unlock()

	data, err := Encode(state)
	if err != nil {
		return err
	}

	pending, err := renameio.TempFile(dir, path)
	if err != nil {
		return fmt.Errorf("creating temp snapshot file: %w", err)
	}
	defer pending.Cleanup()

	if err := pending.Chmod(0644); err != nil {
		return fmt.Errorf("setting snapshot permissions: %w", err)
	}
	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replacing snapshot file: %w", err)
	}
	w.logger.Info("snapshot written",
		"path", path,
		"docs", len(state.Documents),
		"terms", len(state.Terms),
		"bytes", len(data),
	)
	return nil
}

// Encode returns the complete file image for state.
func Encode(state *State) ([]byte, error) {
	body := make([]byte, 0, 64*len(state.Terms)+32*len(state.Documents))
	for i, doc := range state.Documents {
		if doc.ID != i {
			return nil, fmt.Errorf("document table out of order: position %d holds id %d", i, doc.ID)
		}
		body = binary.AppendUvarint(body, uint64(len(doc.Path)))
		body = append(body, doc.Path...)
		body = binary.AppendUvarint(body, uint64(doc.PageCount))
	}
	seen := make(map[string]struct{}, len(state.Terms))
	for _, entry := range state.Terms {
		if entry.Term == "" {
			return nil, fmt.Errorf("term table holds an empty term")
		}
		if _, dup := seen[entry.Term]; dup {
			return nil, fmt.Errorf("term %q appears twice", entry.Term)
		}
		seen[entry.Term] = struct{}{}
		body = binary.AppendUvarint(body, uint64(len(entry.Term)))
		body = append(body, entry.Term...)
		body = binary.AppendUvarint(body, uint64(len(entry.Postings)))
		for _, p := range entry.Postings {
			if p.DocID < 0 || p.DocID >= len(state.Documents) {
				return nil, fmt.Errorf("term %q references unknown document %d", entry.Term, p.DocID)
			}
			if p.PageNum < 0 || p.ByteOffset < 0 {
				return nil, fmt.Errorf("term %q has negative coordinates %+v", entry.Term, p)
			}
			body = binary.AppendUvarint(body, uint64(p.DocID))
			body = binary.AppendUvarint(body, uint64(p.PageNum))
			body = binary.AppendUvarint(body, uint64(p.ByteOffset))
		}
	}

	out := make([]byte, HeaderSize, HeaderSize+len(body)+FooterSize)
	binary.LittleEndian.PutUint32(out[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(out[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(state.Documents)))
	binary.LittleEndian.PutUint32(out[12:16], uint32(len(state.Terms)))
	binary.LittleEndian.PutUint64(out[16:24], uint64(len(body)))
	out = append(out, body...)
	out = binary.LittleEndian.AppendUint64(out, xxhash.Sum64(body))
	return out, nil
}
