package backend

import (
	"context"

	"daytrack/internal/store"
)

type BackendType string

const (
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

func (t BackendType) IsValid() bool {
	return t == MemoryBackend || t == SQLiteBackend
}

func (t BackendType) String() string {
	return string(t)
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult is the store plus its cleanup, which may be nil.
type BackendResult struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Close runs the cleanup if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type          BackendType
	SQLiteDBPath  string
	DataDirectory string
}
