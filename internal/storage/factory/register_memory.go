package factory

import (
	"context"

	"github.com/chronograph-db/chronograph/internal/storage"
	"github.com/chronograph-db/chronograph/internal/storage/memory"
)

func init() {
	Register("memory", func(ctx context.Context, settings map[string]string) (storage.SessionFactory, error) {
		return memory.NewBackend(), nil
	})
}
