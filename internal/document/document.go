// Package document parses uploaded document content into pages, text, and
// descriptive metadata behind a format-neutral interface.
package document

import "time"

// Info holds the descriptive metadata a document carries about itself.
// Fields the document does not declare are left zero.
type Info struct {
	Title    string
	Author   string
	Creator  string
	Producer string
	Format   string
	Created  time.Time
	Modified time.Time
}

// Doc is a parsed document. Page numbers are 1-based.
type Doc interface {
	// PageCount returns the number of pages in the document.
	PageCount() int
	// PageText extracts the plain text of a single page. Pages without
	// extractable text return an empty string and no error.
	PageText(page int) (string, error)
	// Info returns the document's descriptive metadata.
	Info() Info
}

// Parser turns raw document bytes into a Doc. Implementations must reject
// content they cannot fully read.
type Parser interface {
	Parse(data []byte) (Doc, error)
}
