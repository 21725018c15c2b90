package factory

import (
	"context"
	"fmt"

	"github.com/chronograph-db/chronograph/internal/storage"
	"github.com/chronograph-db/chronograph/internal/storage/mysql"
)

func init() {
	Register("mysql", func(ctx context.Context, settings map[string]string) (storage.SessionFactory, error) {
		dsn, ok := settings["dsn"]
		if !ok {
			return nil, fmt.Errorf("factory: mysql backend requires setting %q", "dsn")
		}
		return mysql.Open(ctx, dsn)
	})
}
