// Package analysis defines the document analysis tasks and the fixed result
// layout they feed into. Tasks report faults in-band through their result
// payloads rather than aborting the run that launched them.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/examiner/internal/document"
)

// Kind identifies an analysis task and its slot in the report layout.
type Kind string

const (
	KindText       Kind = "text"
	KindMetadata   Kind = "metadata"
	KindStatistics Kind = "statistics"
	KindSensitive  Kind = "sensitive_data"
)

// Kinds returns all task kinds in report order.
func Kinds() []Kind {
	return []Kind{KindText, KindMetadata, KindStatistics, KindSensitive}
}

var errMissing = errors.New("analysis result missing")

// Input carries the document a task operates on.
type Input struct {
	Path string
	Data []byte
	Size int64
}

// Result is a single task's outcome. Exactly one payload field is set,
// matching Kind.
type Result struct {
	Kind       Kind
	Text       *TextResult
	Metadata   *MetadataResult
	Statistics *StatisticsResult
	Sensitive  *SensitiveResult
}

// Err returns the in-band error of the result's payload, or empty when the
// task succeeded.
func (r Result) Err() string {
	switch r.Kind {
	case KindText:
		if r.Text != nil {
			return r.Text.Error
		}
	case KindMetadata:
		if r.Metadata != nil {
			return r.Metadata.Error
		}
	case KindStatistics:
		if r.Statistics != nil {
			return r.Statistics.Error
		}
	case KindSensitive:
		if r.Sensitive != nil {
			return r.Sensitive.Error
		}
	}
	return ""
}

// Results is the assembled report layout. Slot order is fixed regardless of
// task completion order.
type Results struct {
	Text       TextResult       `json:"text"`
	Metadata   MetadataResult   `json:"metadata"`
	Statistics StatisticsResult `json:"statistics"`
	Sensitive  SensitiveResult  `json:"sensitive_data"`
}

// Collect assembles task results into the fixed report layout. Missing or
// mismatched slots become that task's failure payload so a report always
// carries all four sections.
func Collect(results []Result) Results {
	out := Results{
		Text:       *textFailure(errMissing),
		Metadata:   *metadataFailure(errMissing),
		Statistics: *statisticsFailure(errMissing),
		Sensitive:  *sensitiveFailure(errMissing),
	}

	for _, r := range results {
		switch {
		case r.Kind == KindText && r.Text != nil:
			out.Text = *r.Text
		case r.Kind == KindMetadata && r.Metadata != nil:
			out.Metadata = *r.Metadata
		case r.Kind == KindStatistics && r.Statistics != nil:
			out.Statistics = *r.Statistics
		case r.Kind == KindSensitive && r.Sensitive != nil:
			out.Sensitive = *r.Sensitive
		}
	}

	return out
}

// Task is a runnable analysis unit. Run never returns an error; faults are
// downgraded into the result payload.
type Task struct {
	Kind Kind
	Run  func(ctx context.Context, in Input) Result
}

// Tasks returns the four analysis tasks in report order, each hardened
// against panics from malformed document content.
func Tasks(p document.Parser) []Task {
	return []Task{
		guard(textTask(p)),
		guard(metadataTask(p)),
		guard(statisticsTask(p)),
		guard(sensitiveTask(p)),
	}
}

func guard(t Task) Task {
	run := t.Run
	t.Run = func(ctx context.Context, in Input) (res Result) {
		defer func() {
			if r := recover(); r != nil {
				res = failureFor(t.Kind, fmt.Errorf("task panic: %v", r))
			}
		}()
		return run(ctx, in)
	}
	return t
}

func failureFor(kind Kind, err error) Result {
	switch kind {
	case KindText:
		return Result{Kind: kind, Text: textFailure(err)}
	case KindMetadata:
		return Result{Kind: kind, Metadata: metadataFailure(err)}
	case KindStatistics:
		return Result{Kind: kind, Statistics: statisticsFailure(err)}
	default:
		return Result{Kind: kind, Sensitive: sensitiveFailure(err)}
	}
}
