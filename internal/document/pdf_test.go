package document

import (
	"bytes"
	"fmt"
	"testing"
	"time"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"version 1.4", []byte("%PDF-1.4\nrest"), "PDF 1.4"},
		{"version 1.7", []byte("%PDF-1.7\r\nrest"), "PDF 1.7"},
		{"version 2.0", []byte("%PDF-2.0\n"), "PDF 2.0"},
		{"no header", []byte("not a pdf"), ""},
		{"empty", nil, ""},
		{"bare marker", []byte("%PDF-"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePDFDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			"full with offset",
			"D:20240315142530+05'30'",
			time.Date(2024, 3, 15, 14, 25, 30, 0, time.FixedZone("", 5*3600+30*60)),
		},
		{
			"full utc",
			"D:20240315142530Z",
			time.Date(2024, 3, 15, 14, 25, 30, 0, time.UTC),
		},
		{
			"no timezone",
			"D:20240315142530",
			time.Date(2024, 3, 15, 14, 25, 30, 0, time.UTC),
		},
		{
			"date only",
			"D:20240315",
			time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			"year only",
			"D:2024",
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{"empty", "", time.Time{}},
		{"garbage", "not a date", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePDFDate(tt.input)
			if !got.Equal(tt.want) {
				t.Errorf("parsePDFDate(%q): got %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRejectsInvalidContent(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"plain text", []byte("just some text")},
		{"truncated header", []byte("%PDF-1.4")},
	}

	parser := NewPDFParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parser.Parse(tt.data); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestParseMinimalDocument(t *testing.T) {
	parser := NewPDFParser()

	doc, err := parser.Parse(minimalPDF())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if doc.PageCount() != 1 {
		t.Errorf("page count: got %d, want 1", doc.PageCount())
	}

	info := doc.Info()
	if info.Format != "PDF 1.4" {
		t.Errorf("format: got %q, want PDF 1.4", info.Format)
	}
	if info.Title != "Test Document" {
		t.Errorf("title: got %q, want Test Document", info.Title)
	}
	if want := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC); !info.Created.Equal(want) {
		t.Errorf("created: got %v, want %v", info.Created, want)
	}
}

func TestPageTextOutOfRange(t *testing.T) {
	parser := NewPDFParser()

	doc, err := parser.Parse(minimalPDF())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := doc.PageText(0); err == nil {
		t.Error("expected error for page 0")
	}
	if _, err := doc.PageText(2); err == nil {
		t.Error("expected error for page past end")
	}
}

// minimalPDF builds a one-page document with exact xref offsets computed
// as the body is written.
func minimalPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 5)
	writeObj := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>")
	writeObj(4, "<< /Title (Test Document) /CreationDate (D:20240315100000Z) >>")

	xref := buf.Len()
	buf.WriteString("xref\n0 5\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i < 5; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 5 /Root 1 0 R /Info 4 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)

	return buf.Bytes()
}
