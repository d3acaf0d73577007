package api

import (
	"context"
	"fmt"
	"io"

	"github.com/JaimeStill/examiner/pkg/storage"
)

// blobSource adapts blob storage to the workflow's document source,
// fetching full document content for runs resumed before analysis.
type blobSource struct {
	store storage.System
}

func newBlobSource(store storage.System) *blobSource {
	return &blobSource{store: store}
}

func (s *blobSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	result, err := s.store.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}

	return data, nil
}
