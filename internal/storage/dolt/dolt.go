// Package dolt is the thin chronograph backend wrapper over an embedded
// Dolt SQL server via github.com/dolthub/driver. Dolt itself versions
// every row, which is a literal production analog of this system's own
// versioned-repository contract; the schema and query layer live in
// internal/storage/sqlstore and are shared byte-for-byte with the mysql
// backend, since Dolt is MySQL wire-compatible.
package dolt

import (
	"context"
	"database/sql"

	_ "github.com/dolthub/driver"

	"github.com/chronograph-db/chronograph/internal/storage/sqlstore"
)

// Open connects to a Dolt database at dataDir (a local directory holding
// or to hold the Dolt repository) and applies the shared schema.
func Open(ctx context.Context, dataDir, dbName string) (*sqlstore.Store, error) {
	dsn := "file://" + dataDir + "?commitname=chronograph&commitemail=chronograph@localhost&database=" + dbName
	db, err := sql.Open("dolt", dsn)
	if err != nil {
		return nil, err
	}
	return sqlstore.Open(ctx, db)
}
