package sqlstore

import (
	"context"
	"database/sql"

	"github.com/chronograph-db/chronograph/internal/payload"
	"github.com/chronograph-db/chronograph/internal/payload/jsoncodec"
	"github.com/chronograph-db/chronograph/internal/storage"
)

// executor is satisfied by both *sql.DB and *sql.Tx, grounded on the
// teacher's dbExecutor pattern (glimpsed via the since-deleted
// internal/storage/sqlite/metadata_index.go and delete.go) that lets
// repository code run unmodified whether or not a transaction is open.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is a shared MySQL-dialect backend over a *sql.DB; dolt and mysql
// thin wrappers construct one from their respective drivers and DSNs.
type Store struct {
	db    *sql.DB
	codec payload.Codec
}

// Open applies the schema to db and returns a ready Store. Callers own
// db's lifetime (driver selection and connection string are the thin
// backend wrapper's concern, not sqlstore's).
func Open(ctx context.Context, db *sql.DB) (*Store, error) {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, storage.StorageErr("sqlstore.Open", err)
		}
	}
	return &Store{db: db, codec: jsoncodec.New()}, nil
}

// NewSession implements storage.SessionFactory. Dolt and MySQL both
// support SERIALIZABLE isolation, required by spec §5 to preserve the
// per-id uniqueness-of-unexpired invariant under concurrent sessions.
func (s *Store) NewSession(ctx context.Context) (storage.Session, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, storage.StorageErr("sqlstore.NewSession", err)
	}
	return &sqlSession{store: s, tx: tx}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
