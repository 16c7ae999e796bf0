package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/registry"
	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
)

// Read loads the snapshot at path. A missing file fails with ErrNotFound,
// other I/O problems are returned wrapped, and anything that is present but
// does not decode cleanly fails with ErrFormat.
func Read(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Newf(apperrors.ErrNotFound, 0, "snapshot %s does not exist", path)
		}
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	state, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return state, nil
}

// ReadHeader reads and validates only the fixed header of the snapshot at
// path, checking that the file is as long as the header says.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Header{}, apperrors.Newf(apperrors.ErrNotFound, 0, "snapshot %s does not exist", path)
		}
		return Header{}, fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		return Header{}, fmt.Errorf("%s: %w", path, formatErr("reading header: %v", err))
	}
	header, err := parseHeader(buf)
	if err != nil {
		return Header{}, fmt.Errorf("%s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		return Header{}, fmt.Errorf("stat snapshot %s: %w", path, err)
	}
	if want := uint64(HeaderSize+FooterSize) + header.BodySize; uint64(info.Size()) != want {
		return Header{}, fmt.Errorf("%s: %w", path, formatErr("file size %d, header expects %d", info.Size(), want))
	}
	return header, nil
}

func parseHeader(b []byte) (Header, error) {
	h := Header{
		Magic:     binary.LittleEndian.Uint32(b[0:4]),
		Version:   binary.LittleEndian.Uint32(b[4:8]),
		DocCount:  binary.LittleEndian.Uint32(b[8:12]),
		TermCount: binary.LittleEndian.Uint32(b[12:16]),
		BodySize:  binary.LittleEndian.Uint64(b[16:24]),
	}
	if h.Magic != MagicBytes {
		return Header{}, formatErr("bad magic bytes %x", h.Magic)
	}
	if h.Version != FormatVersion {
		return Header{}, formatErr("unsupported version %d", h.Version)
	}
	return h, nil
}

// Decode parses a complete file image produced by Encode.
func Decode(data []byte) (*State, error) {
	if len(data) < HeaderSize+FooterSize {
		return nil, formatErr("file too short: %d bytes", len(data))
	}
	header, err := parseHeader(data[:HeaderSize])
	if err != nil {
		return nil, err
	}
	if header.BodySize != uint64(len(data)-HeaderSize-FooterSize) {
		return nil, formatErr("body size %d does not match file size %d", header.BodySize, len(data))
	}
	body := data[HeaderSize : len(data)-FooterSize]
	checksum := binary.LittleEndian.Uint64(data[len(data)-FooterSize:])
	if xxhash.Sum64(body) != checksum {
		return nil, formatErr("checksum mismatch")
	}

	c := &cursor{buf: body}
	// Every document needs at least two bytes, every term at least two.
	if uint64(header.DocCount)*2 > header.BodySize || uint64(header.TermCount)*2 > header.BodySize {
		return nil, formatErr("counts exceed body size")
	}
	state := &State{
		Documents: make([]registry.Document, 0, header.DocCount),
		Terms:     make([]index.TermEntry, 0, header.TermCount),
	}
	for i := 0; i < int(header.DocCount); i++ {
		path := c.bytes()
		pages := c.uvarint()
		if c.err != nil {
			return nil, formatErr("document %d: %v", i, c.err)
		}
		state.Documents = append(state.Documents, registry.Document{
			ID:        i,
			Path:      string(path),
			PageCount: int(pages),
		})
	}
	seen := make(map[string]struct{}, header.TermCount)
	for i := 0; i < int(header.TermCount); i++ {
		term := c.bytes()
		count := c.uvarint()
		if c.err != nil {
			return nil, formatErr("term %d: %v", i, c.err)
		}
		if len(term) == 0 {
			return nil, formatErr("term %d is empty", i)
		}
		if _, dup := seen[string(term)]; dup {
			return nil, formatErr("term %q appears twice", term)
		}
		seen[string(term)] = struct{}{}
		if count > uint64(c.remaining())/3 {
			return nil, formatErr("term %q: posting count %d exceeds remaining data", term, count)
		}
		postings := make(index.PostingList, 0, count)
		for j := uint64(0); j < count; j++ {
			docID := c.uvarint()
			page := c.uvarint()
			offset := c.uvarint()
			if c.err != nil {
				return nil, formatErr("term %q posting %d: %v", term, j, c.err)
			}
			if docID >= uint64(header.DocCount) {
				return nil, formatErr("term %q references unknown document %d", term, docID)
			}
			postings = append(postings, index.Occurrence{
				DocID:      int(docID),
				PageNum:    int(page),
				ByteOffset: int64(offset),
			})
		}
		state.Terms = append(state.Terms, index.TermEntry{
			Term:     string(term),
			Postings: postings,
		})
	}
	if c.remaining() != 0 {
		return nil, formatErr("%d trailing bytes after term table", c.remaining())
	}
	return state, nil
}

func formatErr(format string, args ...any) error {
	return apperrors.Newf(apperrors.ErrFormat, 0, format, args...)
}

type cursor struct {
	buf []byte
	pos int
	err error
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}

func (c *cursor) uvarint() uint64 {
	if c.err != nil {
		return 0
	}
	v, n := binary.Uvarint(c.buf[c.pos:])
	if n <= 0 {
		c.err = errors.New("malformed varint")
		return 0
	}
	c.pos += n
	return v
}

func (c *cursor) bytes() []byte {
	n := c.uvarint()
	if c.err != nil {
		return nil
	}
	if n > uint64(c.remaining()) {
		c.err = fmt.Errorf("length %d exceeds remaining %d bytes", n, c.remaining())
		return nil
	}
	b := c.buf[c.pos : c.pos+int(n)]
	c.pos += int(n)
	return b
}
