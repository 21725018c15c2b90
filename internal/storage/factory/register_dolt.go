package factory

import (
	"context"
	"fmt"

	"github.com/chronograph-db/chronograph/internal/storage"
	"github.com/chronograph-db/chronograph/internal/storage/dolt"
)

func init() {
	Register("dolt", func(ctx context.Context, settings map[string]string) (storage.SessionFactory, error) {
		dataDir, ok := settings["data_dir"]
		if !ok {
			return nil, fmt.Errorf("factory: dolt backend requires setting %q", "data_dir")
		}
		dbName := settings["database"]
		if dbName == "" {
			dbName = "chronograph"
		}
		return dolt.Open(ctx, dataDir, dbName)
	})
}
