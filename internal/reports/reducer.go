package reports

import (
	"strings"
	"time"

	"github.com/JaimeStill/examiner/internal/analysis"
)

// defaultFormat labels reports whose document declared no format.
const defaultFormat = "Unknown"

// ReduceInput carries everything the reduce step needs. ID and AnalyzedAt
// are assigned by the caller so the same input always yields the same report.
type ReduceInput struct {
	ID         string
	Path       string
	AnalyzedAt time.Time
	Results    analysis.Results
}

// Reduce combines the four analysis results into a single report. It is a
// pure function of its input.
func Reduce(in ReduceInput) *Report {
	fileName := in.Path
	if i := strings.LastIndex(in.Path, "/"); i >= 0 {
		fileName = in.Path[i+1:]
	}

	format := in.Results.Metadata.Format
	if format == "" {
		format = defaultFormat
	}

	return &Report{
		ID:         in.ID,
		FileName:   fileName,
		BlobPath:   in.Path,
		AnalyzedAt: in.AnalyzedAt,
		Analyses:   in.Results,
		Summary: Summary{
			Format:  format,
			HasText: in.Results.Text.HasText,
		},
	}
}
