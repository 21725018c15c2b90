package sqlstore

import (
	"context"
	"database/sql"

	"github.com/chronograph-db/chronograph/internal/storage"
)

// sqlSession wraps one *sql.Tx; repositories built from it all share the
// same transaction, so writes are visible to reads within the session
// and are only durable once Commit succeeds.
type sqlSession struct {
	store  *Store
	tx     *sql.Tx
	closed bool
}

func (s *sqlSession) Graph() storage.Graph {
	return storage.Graph{
		Nodes:      &nodeRepo{store: s.store, exec: s.tx},
		Edges:      &edgeRepo{store: s.store, exec: s.tx},
		Components: &componentRepo{store: s.store, exec: s.tx},
	}
}

func (s *sqlSession) Commit(ctx context.Context) error {
	if s.closed {
		return storage.Internal("sqlstore.Session.Commit", "session already closed")
	}
	s.closed = true
	if err := s.tx.Commit(); err != nil {
		return storage.StorageErr("sqlstore.Session.Commit", err)
	}
	return nil
}

func (s *sqlSession) Rollback(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return storage.StorageErr("sqlstore.Session.Rollback", err)
	}
	return nil
}
