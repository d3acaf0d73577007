package analysis

import (
	"context"
	"strings"

	"github.com/JaimeStill/examiner/internal/document"
)

// wordsPerMinute is the reading speed used for the estimated reading time.
const wordsPerMinute = 200

// StatisticsResult holds page and word counts derived from document text.
type StatisticsResult struct {
	PageCount       int     `json:"page_count"`
	WordCount       int     `json:"word_count"`
	AvgWordsPerPage float64 `json:"avg_words_per_page"`
	ReadingTimeMin  float64 `json:"estimated_reading_time_min"`
	Error           string  `json:"error,omitempty"`
}

func statisticsFailure(err error) *StatisticsResult {
	return &StatisticsResult{Error: err.Error()}
}

func statisticsTask(p document.Parser) Task {
	return Task{
		Kind: KindStatistics,
		Run: func(ctx context.Context, in Input) Result {
			doc, err := p.Parse(in.Data)
			if err != nil {
				return Result{Kind: KindStatistics, Statistics: statisticsFailure(err)}
			}

			pageCount := doc.PageCount()

			var b strings.Builder
			for i := 1; i <= pageCount; i++ {
				text, err := doc.PageText(i)
				if err != nil {
					return Result{Kind: KindStatistics, Statistics: statisticsFailure(err)}
				}
				b.WriteString(text)
				b.WriteString("\n")
			}

			wordCount := len(strings.Fields(b.String()))

			var avg float64
			if pageCount > 0 {
				avg = float64(wordCount) / float64(pageCount)
			}

			return Result{Kind: KindStatistics, Statistics: &StatisticsResult{
				PageCount:       pageCount,
				WordCount:       wordCount,
				AvgWordsPerPage: avg,
				ReadingTimeMin:  float64(wordCount) / wordsPerMinute,
			}}
		},
	}
}
