package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/tlower/internal/bufferize"
)

// createTestStore creates a fresh on-disk store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run record with minimal required fields.
func createTestRun(id, moduleName string) RunRecord {
	return RunRecord{
		ID:         id,
		ModuleName: moduleName,
		Options:    bufferize.DefaultOptions(),
		Status:     StatusOK,
	}
}
