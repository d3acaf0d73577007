package analysis

import (
	"context"
	"time"

	"github.com/JaimeStill/examiner/internal/document"
)

// MetadataResult holds the document's self-declared metadata. Fields the
// document does not declare are omitted.
type MetadataResult struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Creator      string `json:"creator,omitempty"`
	Producer     string `json:"producer,omitempty"`
	CreationDate string `json:"creation_date,omitempty"`
	ModDate      string `json:"mod_date,omitempty"`
	Format       string `json:"format,omitempty"`
	Error        string `json:"error,omitempty"`
}

func metadataFailure(err error) *MetadataResult {
	return &MetadataResult{
		Title:  "",
		Author: "",
		Error:  err.Error(),
	}
}

func metadataTask(p document.Parser) Task {
	return Task{
		Kind: KindMetadata,
		Run: func(ctx context.Context, in Input) Result {
			doc, err := p.Parse(in.Data)
			if err != nil {
				return Result{Kind: KindMetadata, Metadata: metadataFailure(err)}
			}

			info := doc.Info()

			return Result{Kind: KindMetadata, Metadata: &MetadataResult{
				Title:        info.Title,
				Author:       info.Author,
				Creator:      info.Creator,
				Producer:     info.Producer,
				CreationDate: formatInfoDate(info.Created),
				ModDate:      formatInfoDate(info.Modified),
				Format:       info.Format,
			}}
		},
	}
}

func formatInfoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
