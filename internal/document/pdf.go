package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFParser parses PDF documents. Content is validated and the page count
// resolved through pdfcpu; text and metadata extraction go through a
// separate reader tolerant of partially damaged files.
type PDFParser struct{}

// NewPDFParser creates a PDF parser.
func NewPDFParser() Parser {
	return PDFParser{}
}

// Parse validates the PDF and prepares it for page and metadata access.
func (PDFParser) Parse(data []byte) (Doc, error) {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	return &pdfDoc{
		reader: reader,
		pages:  count,
		format: detectFormat(data),
	}, nil
}

type pdfDoc struct {
	reader *pdf.Reader
	pages  int
	format string
}

func (d *pdfDoc) PageCount() int {
	return d.pages
}

// PageText recovers from extraction panics; malformed page content streams
// surface as errors, not crashes.
func (d *pdfDoc) PageText(page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("extract page %d text: %v", page, r)
		}
	}()

	if page < 1 || page > d.pages {
		return "", fmt.Errorf("page %d out of range [1, %d]", page, d.pages)
	}

	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}

	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extract page %d text: %w", page, err)
	}

	return text, nil
}

func (d *pdfDoc) Info() Info {
	info := Info{Format: d.format}

	func() {
		defer func() { recover() }()

		meta := d.reader.Trailer().Key("Info")
		if meta.IsNull() {
			return
		}

		info.Title = meta.Key("Title").Text()
		info.Author = meta.Key("Author").Text()
		info.Creator = meta.Key("Creator").Text()
		info.Producer = meta.Key("Producer").Text()
		info.Created = parsePDFDate(meta.Key("CreationDate").Text())
		info.Modified = parsePDFDate(meta.Key("ModDate").Text())
	}()

	return info
}

// detectFormat reads the PDF version from the file header, e.g. "PDF 1.7".
func detectFormat(data []byte) string {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return ""
	}

	version := data[5:]
	if i := bytes.IndexAny(version, "\r\n \t"); i >= 0 {
		version = version[:i]
	}
	if len(version) == 0 {
		return ""
	}

	return "PDF " + string(version)
}

var pdfDateLayouts = []string{
	"20060102150405Z0700",
	"20060102150405",
	"200601021504",
	"2006010215",
	"20060102",
	"200601",
	"2006",
}

// parsePDFDate parses the PDF date format D:YYYYMMDDHHmmSSOHH'mm'.
// Unparseable values return the zero time.
func parsePDFDate(s string) time.Time {
	s = strings.TrimPrefix(strings.TrimSpace(s), "D:")
	s = strings.ReplaceAll(s, "'", "")
	if s == "" {
		return time.Time{}
	}

	for _, layout := range pdfDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
