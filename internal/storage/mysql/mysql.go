// Package mysql is the thin chronograph backend wrapper over a real
// MySQL server via github.com/go-sql-driver/mysql. It shares the exact
// schema and query layer in internal/storage/sqlstore with the dolt
// backend, demonstrating the storage contract is backend-neutral: the
// two SQL backends differ only here, in driver name and DSN.
package mysql

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"github.com/chronograph-db/chronograph/internal/storage/sqlstore"
)

// Open connects to MySQL at dsn (standard go-sql-driver/mysql DSN form,
// e.g. "user:pass@tcp(host:3306)/dbname?parseTime=false") and applies
// the shared schema. parseTime must stay false/unset: timestamps are
// stored and parsed as ISO-8601 strings by sqlstore, not native
// driver-side time values.
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	return sqlstore.Open(ctx, db)
}
