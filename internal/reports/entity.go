package reports

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
)

// partitionTag groups all report entities under one table partition.
const partitionTag = "PDFAnalysis"

// Entity property names. Nested analysis payloads are stored as JSON strings
// because table entities are flat key-value pairs.
const (
	propFileName   = "FileName"
	propBlobPath   = "BlobPath"
	propAnalyzedAt = "AnalyzedAt"
	propSummary    = "Summary"
	propText       = "TextAnalysis"
	propMetadata   = "MetadataAnalysis"
	propStatistics = "StatisticsAnalysis"
	propSensitive  = "SensitiveAnalysis"
)

func marshalEntity(r *Report) ([]byte, error) {
	props := map[string]any{
		propFileName:   r.FileName,
		propBlobPath:   r.BlobPath,
		propAnalyzedAt: r.AnalyzedAt.UTC().Format(time.RFC3339Nano),
	}

	sections := []struct {
		key   string
		value any
	}{
		{propSummary, r.Summary},
		{propText, r.Analyses.Text},
		{propMetadata, r.Analyses.Metadata},
		{propStatistics, r.Analyses.Statistics},
		{propSensitive, r.Analyses.Sensitive},
	}

	for _, s := range sections {
		data, err := json.Marshal(s.value)
		if err != nil {
			return nil, fmt.Errorf("marshal report %s: %w", s.key, err)
		}
		props[s.key] = string(data)
	}

	entity := aztables.EDMEntity{
		Entity: aztables.Entity{
			PartitionKey: partitionTag,
			RowKey:       r.ID,
		},
		Properties: props,
	}

	return json.Marshal(entity)
}

func unmarshalEntity(data []byte) (*Report, error) {
	var entity aztables.EDMEntity
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	report := &Report{ID: entity.RowKey}

	var err error
	if report.FileName, err = stringProp(entity.Properties, propFileName); err != nil {
		return nil, err
	}
	if report.BlobPath, err = stringProp(entity.Properties, propBlobPath); err != nil {
		return nil, err
	}
	if report.AnalyzedAt, err = timeProp(entity.Properties, propAnalyzedAt); err != nil {
		return nil, err
	}
	if err = jsonProp(entity.Properties, propSummary, &report.Summary); err != nil {
		return nil, err
	}
	if err = jsonProp(entity.Properties, propText, &report.Analyses.Text); err != nil {
		return nil, err
	}
	if err = jsonProp(entity.Properties, propMetadata, &report.Analyses.Metadata); err != nil {
		return nil, err
	}
	if err = jsonProp(entity.Properties, propStatistics, &report.Analyses.Statistics); err != nil {
		return nil, err
	}
	if err = jsonProp(entity.Properties, propSensitive, &report.Analyses.Sensitive); err != nil {
		return nil, err
	}

	return report, nil
}

func unmarshalEntry(data []byte) (*Entry, error) {
	var entity aztables.EDMEntity
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	entry := &Entry{ID: entity.RowKey}

	var err error
	if entry.FileName, err = stringProp(entity.Properties, propFileName); err != nil {
		return nil, err
	}
	if entry.AnalyzedAt, err = timeProp(entity.Properties, propAnalyzedAt); err != nil {
		return nil, err
	}
	if err = jsonProp(entity.Properties, propSummary, &entry.Summary); err != nil {
		return nil, err
	}

	return entry, nil
}

func stringProp(props map[string]any, key string) (string, error) {
	v, ok := props[key]
	if !ok {
		return "", fmt.Errorf("%w: missing property %s", ErrMalformed, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: property %s is not a string", ErrMalformed, key)
	}
	return s, nil
}

func timeProp(props map[string]any, key string) (time.Time, error) {
	s, err := stringProp(props, key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: property %s: %v", ErrMalformed, key, err)
	}
	return t, nil
}

func jsonProp(props map[string]any, key string, target any) error {
	s, err := stringProp(props, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(s), target); err != nil {
		return fmt.Errorf("%w: property %s: %v", ErrMalformed, key, err)
	}
	return nil
}
