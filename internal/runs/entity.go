package runs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"github.com/JaimeStill/examiner/internal/workflow"
)

// partitionTag groups all run entities under one table partition.
const partitionTag = "Runs"

// Entity property names. The full checkpoint is stored as one JSON string;
// the flat properties exist so listings and the open-run filter never
// decode it.
const (
	propPath       = "Path"
	propETag       = "ETag"
	propPhase      = "Phase"
	propTerminal   = "Terminal"
	propFailedStep = "FailedStep"
	propStartedAt  = "StartedAt"
	propUpdatedAt  = "UpdatedAt"
	propCheckpoint = "Checkpoint"
)

func marshalRun(cp *workflow.Checkpoint) ([]byte, error) {
	snapshot, err := json.Marshal(cp)
	if err != nil {
		return nil, fmt.Errorf("marshal run %s: %w", cp.RunID, err)
	}

	entity := aztables.EDMEntity{
		Entity: aztables.Entity{
			PartitionKey: partitionTag,
			RowKey:       cp.RunID,
		},
		Properties: map[string]any{
			propPath:       cp.Path,
			propETag:       cp.ETag,
			propPhase:      string(cp.Phase),
			propTerminal:   cp.Phase.Terminal(),
			propFailedStep: cp.FailedStep,
			propStartedAt:  cp.StartedAt.UTC().Format(time.RFC3339Nano),
			propUpdatedAt:  cp.UpdatedAt.UTC().Format(time.RFC3339Nano),
			propCheckpoint: string(snapshot),
		},
	}

	return json.Marshal(entity)
}

func unmarshalRun(data []byte) (*workflow.Checkpoint, error) {
	var entity aztables.EDMEntity
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	raw, err := stringProp(entity.Properties, propCheckpoint)
	if err != nil {
		return nil, err
	}

	cp := &workflow.Checkpoint{}
	if err := json.Unmarshal([]byte(raw), cp); err != nil {
		return nil, fmt.Errorf("%w: checkpoint for %s: %v", ErrMalformed, entity.RowKey, err)
	}

	return cp, nil
}

func unmarshalEntry(data []byte) (*Entry, error) {
	var entity aztables.EDMEntity
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	entry := &Entry{RunID: entity.RowKey}

	var err error
	if entry.Path, err = stringProp(entity.Properties, propPath); err != nil {
		return nil, err
	}
	if entry.ETag, err = stringProp(entity.Properties, propETag); err != nil {
		return nil, err
	}
	if entry.Phase, err = stringProp(entity.Properties, propPhase); err != nil {
		return nil, err
	}
	if entry.FailedStep, err = stringProp(entity.Properties, propFailedStep); err != nil {
		return nil, err
	}
	if entry.StartedAt, err = timeProp(entity.Properties, propStartedAt); err != nil {
		return nil, err
	}
	if entry.UpdatedAt, err = timeProp(entity.Properties, propUpdatedAt); err != nil {
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
