package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/examiner/internal/analysis"
	"github.com/JaimeStill/examiner/internal/document"
	"github.com/JaimeStill/examiner/internal/reports"
	"github.com/JaimeStill/examiner/internal/workflow"
)

type fakeDoc struct {
	pages []string
	info  document.Info
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) PageText(page int) (string, error) {
	if page < 1 || page > len(d.pages) {
		return "", fmt.Errorf("page %d out of range", page)
	}
	return d.pages[page-1], nil
}

func (d *fakeDoc) Info() document.Info { return d.info }

type fakeParser struct {
	doc document.Doc
	err error
}

func (p *fakeParser) Parse(data []byte) (document.Doc, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.doc, nil
}

func words(n int, extra ...string) string {
	parts := make([]string, 0, n+len(extra))
	for i := range n {
		parts = append(parts, fmt.Sprintf("word%d", i))
	}
	parts = append(parts, extra...)
	return strings.Join(parts, " ")
}

func newDocumentEnv(t *testing.T, parser document.Parser) *env {
	t.Helper()

	e := &env{
		journal: newRecordingJournal(),
		reports: &fakeReports{},
		source:  &fakeSource{data: map[string][]byte{}},
		ids:     &idSeq{},
		clock:   &fakeClock{t: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)},
	}

	orch, err := workflow.New(workflow.Runtime{
		Tasks:   analysis.Tasks(parser),
		Journal: e.journal,
		Reports: e.reports,
		Source:  e.source,
		Logger:  testLogger(),
		NewID:   e.ids.next,
		Now:     e.clock.now,
	})
	if err != nil {
		t.Fatalf("create orchestrator: %v", err)
	}

	e.orch = orch
	return e
}

func TestRunProducesFullReport(t *testing.T) {
	parser := &fakeParser{doc: &fakeDoc{
		pages: []string{
			words(246, "contact support@example.com", "see https://example.com/docs"),
			words(250),
		},
		info: document.Info{
			Title:   "Quarterly Review",
			Author:  "Finance",
			Format:  "PDF 1.7",
			Created: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}}

	e := newDocumentEnv(t, parser)

	runID, err := e.orch.Start(context.Background(), workflow.Document{
		Path: "incoming/reports/quarterly.pdf",
		Size: 4096,
		Data: []byte("%PDF-1.7"),
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	final := waitTerminal(t, e.journal, runID)
	if final.Phase != workflow.PhasePersisted {
		t.Fatalf("final phase: got %s", final.Phase)
	}

	stored := e.reports.stored()
	if len(stored) != 1 {
		t.Fatalf("puts: got %d, want 1", len(stored))
	}
	report := stored[0]

	if report.FileName != "quarterly.pdf" {
		t.Errorf("fileName: got %s", report.FileName)
	}
	if report.BlobPath != "incoming/reports/quarterly.pdf" {
		t.Errorf("blobPath: got %s", report.BlobPath)
	}

	text := report.Analyses.Text
	if !text.HasText || !strings.Contains(text.ExtractedText, "support@example.com") {
		t.Errorf("text analysis: got %+v", text)
	}

	meta := report.Analyses.Metadata
	if meta.Title != "Quarterly Review" || meta.Author != "Finance" {
		t.Errorf("metadata analysis: got %+v", meta)
	}

	stats := report.Analyses.Statistics
	if stats.PageCount != 2 || stats.WordCount != 500 {
		t.Errorf("statistics counts: got %+v", stats)
	}
	if stats.AvgWordsPerPage != 250 || stats.ReadingTimeMin != 2.5 {
		t.Errorf("statistics rates: got %+v", stats)
	}

	sensitive := report.Analyses.Sensitive
	if len(sensitive.Emails) != 1 || sensitive.Emails[0] != "support@example.com" {
		t.Errorf("sensitive emails: got %v", sensitive.Emails)
	}
	if len(sensitive.URLs) != 1 || sensitive.URLs[0] != "https://example.com/docs" {
		t.Errorf("sensitive urls: got %v", sensitive.URLs)
	}

	if report.Summary.Format != "PDF 1.7" || !report.Summary.HasText {
		t.Errorf("summary: got %+v", report.Summary)
	}

	if final.Outcome == nil || final.Outcome.Status != reports.StatusStored {
		t.Errorf("outcome: got %+v", final.Outcome)
	}
}

func TestRunSurvivesUnparseableDocument(t *testing.T) {
	parser := &fakeParser{err: errors.New("parse document: damaged xref")}
	e := newDocumentEnv(t, parser)

	runID, err := e.orch.Start(context.Background(), workflow.Document{
		Path: "incoming/broken.pdf",
		Size: 128,
		Data: []byte("not a pdf"),
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	final := waitTerminal(t, e.journal, runID)
	if final.Phase != workflow.PhasePersisted {
		t.Fatalf("a run with failing analyses must still persist, got %s", final.Phase)
	}

	stored := e.reports.stored()
	if len(stored) != 1 {
		t.Fatalf("puts: got %d, want 1", len(stored))
	}

	analyses := stored[0].Analyses
	if analyses.Text.Error == "" || analyses.Text.HasText {
		t.Errorf("text failure payload: got %+v", analyses.Text)
	}
	if analyses.Metadata.Error == "" {
		t.Errorf("metadata failure payload: got %+v", analyses.Metadata)
	}
	if analyses.Statistics.Error == "" || analyses.Statistics.WordCount != 0 {
		t.Errorf("statistics failure payload: got %+v", analyses.Statistics)
	}
	if analyses.Sensitive.Error == "" || analyses.Sensitive.Emails == nil {
		t.Errorf("sensitive failure payload: got %+v", analyses.Sensitive)
	}

	if stored[0].Summary.Format != "Unknown" || stored[0].Summary.HasText {
		t.Errorf("summary fallback: got %+v", stored[0].Summary)
	}
}
