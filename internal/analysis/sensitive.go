package analysis

import (
	"context"
	"regexp"
	"strings"

	"github.com/JaimeStill/examiner/internal/document"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+?\d{1,3}[\s\-.]?)?(?:\(?\d{3}\)?[\s\-.]?)\d{3}[\s\-.]?\d{4}`)
	urlPattern   = regexp.MustCompile(`https?://[^\s]+|www\.[^\s]+`)
	datePattern  = regexp.MustCompile(`(?i)\b\d{4}[-/]\d{1,2}[-/]\d{1,2}\b|\b\d{1,2}[-/]\d{1,2}[-/]\d{4}\b|\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4}\b`)
)

// SensitiveResult lists pattern matches found in document text. Slices are
// always present, never null, so consumers can index without guarding.
type SensitiveResult struct {
	Emails []string `json:"emails"`
	Phones []string `json:"phones"`
	URLs   []string `json:"urls"`
	Dates  []string `json:"dates"`
	Error  string   `json:"error,omitempty"`
}

func sensitiveFailure(err error) *SensitiveResult {
	return &SensitiveResult{
		Emails: []string{},
		Phones: []string{},
		URLs:   []string{},
		Dates:  []string{},
		Error:  err.Error(),
	}
}

func sensitiveTask(p document.Parser) Task {
	return Task{
		Kind: KindSensitive,
		Run: func(ctx context.Context, in Input) Result {
			doc, err := p.Parse(in.Data)
			if err != nil {
				return Result{Kind: KindSensitive, Sensitive: sensitiveFailure(err)}
			}

			var b strings.Builder
			for i := 1; i <= doc.PageCount(); i++ {
				text, err := doc.PageText(i)
				if err != nil {
					return Result{Kind: KindSensitive, Sensitive: sensitiveFailure(err)}
				}
				b.WriteString(text)
				b.WriteString("\n")
			}

			text := b.String()

			return Result{Kind: KindSensitive, Sensitive: &SensitiveResult{
				Emails: scan(emailPattern, text),
				Phones: scan(phonePattern, text),
				URLs:   scan(urlPattern, text),
				Dates:  scan(datePattern, text),
			}}
		},
	}
}

func scan(pattern *regexp.Regexp, text string) []string {
	matches := pattern.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}
