package index

// Occurrence locates one instance of a word: the document, the zero-based
// page, and the byte offset into that page's extracted UTF-8 text.
type Occurrence struct {
	DocID      int
	PageNum    int
	ByteOffset int64
}

// PostingList is the ordered occurrence list for one word: documents in
// indexing order, pages ascending, positions ascending within a page.
type PostingList []Occurrence

type TermEntry struct {
	Term     string
	Postings PostingList
}
