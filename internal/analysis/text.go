package analysis

import (
	"context"
	"strings"

	"github.com/JaimeStill/examiner/internal/document"
)

// TextResult holds extracted document text. Confidence and language are
// fixed placeholders until a language detection stage exists.
type TextResult struct {
	HasText       bool    `json:"hasText"`
	ExtractedText string  `json:"extractedText"`
	Confidence    float64 `json:"confidence"`
	Language      string  `json:"language,omitempty"`
	Error         string  `json:"error,omitempty"`
}

func textFailure(err error) *TextResult {
	return &TextResult{
		HasText:       false,
		ExtractedText: "",
		Error:         err.Error(),
	}
}

func textTask(p document.Parser) Task {
	return Task{
		Kind: KindText,
		Run: func(ctx context.Context, in Input) Result {
			doc, err := p.Parse(in.Data)
			if err != nil {
				return Result{Kind: KindText, Text: textFailure(err)}
			}

			var pages []string
			for i := 1; i <= doc.PageCount(); i++ {
				text, err := doc.PageText(i)
				if err != nil {
					return Result{Kind: KindText, Text: textFailure(err)}
				}
				if text != "" {
					pages = append(pages, text)
				}
			}

			return Result{Kind: KindText, Text: &TextResult{
				HasText:       len(pages) > 0,
				ExtractedText: strings.Join(pages, "\n"),
				Confidence:    0.0,
				Language:      "unknown",
			}}
		},
	}
}
