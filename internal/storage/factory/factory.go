// Package factory is the backend-selection registry, grounded on the
// teacher's (since-deleted) internal/storage/factory/factory.go
// RegisterBackend/New pattern: an init() in this package's
// register_<name>.go file registers each backend's constructor under a
// name, and callers select a backend by config string alone, never
// importing a concrete backend package directly.
package factory

import (
	"context"
	"fmt"
	"sync"

	"github.com/chronograph-db/chronograph/internal/storage"
)

// Opener constructs a ready storage.SessionFactory from a config map
// (DSN, data directory, database name — interpretation is backend-
// specific).
type Opener func(ctx context.Context, settings map[string]string) (storage.SessionFactory, error)

var (
	mu       sync.Mutex
	registry = map[string]Opener{}
)

// Register adds an opener under name. Called from the init() functions
// in this package's register_*.go files, mirroring the teacher's
// registration pattern.
func Register(name string, open Opener) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = open
}

// New opens a session factory for the named backend.
func New(ctx context.Context, name string, settings map[string]string) (storage.SessionFactory, error) {
	mu.Lock()
	open, ok := registry[name]
	mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("factory: unknown storage backend %q", name)
	}
	return open(ctx, settings)
}

// Names returns the currently registered backend names.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	return out
}
