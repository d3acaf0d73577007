package storage_test

import (
	"os"
	"testing"

	"github.com/JaimeStill/examiner/pkg/storage"
)

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := &storage.Config{
		ConnectionString: "UseDevelopmentStorage=true",
	}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.ContainerName != "documents" {
		t.Errorf("container: got %s, want documents", cfg.ContainerName)
	}
	if cfg.MaxListSize != 50 {
		t.Errorf("max list size: got %d, want 50", cfg.MaxListSize)
	}
}

func TestConfigFinalizeListCap(t *testing.T) {
	cfg := &storage.Config{
		ConnectionString: "UseDevelopmentStorage=true",
		MaxListSize:      10000,
	}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.MaxListSize != storage.MaxListCap {
		t.Errorf("max list size: got %d, want cap %d", cfg.MaxListSize, storage.MaxListCap)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr bool
	}{
		{
			"connection string only",
			storage.Config{ConnectionString: "UseDevelopmentStorage=true"},
			false,
		},
		{
			"service url only",
			storage.Config{ServiceURL: "https://account.blob.core.windows.net"},
			false,
		},
		{
			"neither",
			storage.Config{},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfigEnvOverride(t *testing.T) {
	os.Setenv("TEST_STORAGE_CONTAINER", "incoming")
	os.Setenv("TEST_STORAGE_MAX_LIST", "25")
	defer os.Unsetenv("TEST_STORAGE_CONTAINER")
	defer os.Unsetenv("TEST_STORAGE_MAX_LIST")

	cfg := &storage.Config{
		ConnectionString: "UseDevelopmentStorage=true",
	}

	err := cfg.Finalize(&storage.Env{
		ContainerName: "TEST_STORAGE_CONTAINER",
		MaxListSize:   "TEST_STORAGE_MAX_LIST",
	})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.ContainerName != "incoming" {
		t.Errorf("container: got %s, want incoming", cfg.ContainerName)
	}
	if cfg.MaxListSize != 25 {
		t.Errorf("max list size: got %d, want 25", cfg.MaxListSize)
	}
}

func TestConfigMerge(t *testing.T) {
	base := &storage.Config{
		ContainerName:    "documents",
		ConnectionString: "UseDevelopmentStorage=true",
		MaxListSize:      50,
	}

	base.Merge(&storage.Config{
		ContainerName: "incoming",
	})

	if base.ContainerName != "incoming" {
		t.Errorf("container: got %s, want incoming", base.ContainerName)
	}
	if base.ConnectionString != "UseDevelopmentStorage=true" {
		t.Error("merge should not clear connection string")
	}
	if base.MaxListSize != 50 {
		t.Error("merge should not clear max list size")
	}
}
