// Package storage defines the backend-neutral storage contract: versioned
// repositories per entity kind, the session/transaction resource that
// binds them, and the structured error surface every backend must honor.
// Concrete backends (internal/storage/memory, .../dolt, .../mysql) are
// interchangeable implementations of this contract.
package storage

import (
	"context"
	"time"

	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
)

// NodeRepository is the versioned repository for Node entities.
type NodeRepository interface {
	// Save inserts entity n. It is idempotent on (id, version): saving the
	// same (id, version) twice with identical content is a no-op, but
	// saving a second, different entity under an existing (id, version)
	// fails with KindConflict. Save never updates an existing row except
	// via Expire.
	Save(ctx context.Context, n entity.Node) error
	// Expire sets Expired = at on the currently-unexpired version of id,
	// returning whether a row was modified.
	Expire(ctx context.Context, id ids.Id, at time.Time) (bool, error)
	// Find returns the exact version named by loc.
	Find(ctx context.Context, loc ids.Locator) (entity.Node, bool, error)
	// FindActive returns the unexpired version of id, if any.
	FindActive(ctx context.Context, id ids.Id) (entity.Node, bool, error)
	// FindAt returns the version of id active at instant at: the highest
	// version with Created <= at and (not expired or Expired > at).
	FindAt(ctx context.Context, id ids.Id, at time.Time) (entity.Node, bool, error)
	// FindAll returns every version of id, ascending by version.
	FindAll(ctx context.Context, id ids.Id) ([]entity.Node, error)
	// AllIDs returns every id that has at least one version.
	AllIDs(ctx context.Context) ([]ids.Id, error)
	// AllActiveIDs returns every id that currently has an unexpired
	// version.
	AllActiveIDs(ctx context.Context) ([]ids.Id, error)
	// Delete hard-removes all versions of id, for administrative purge
	// only; it is never used for logical retirement (use Expire).
	Delete(ctx context.Context, id ids.Id) (bool, error)
}

// EdgeRepository is the versioned repository for Edge entities.
type EdgeRepository interface {
	Save(ctx context.Context, e entity.Edge) error
	Expire(ctx context.Context, id ids.Id, at time.Time) (bool, error)
	Find(ctx context.Context, loc ids.Locator) (entity.Edge, bool, error)
	FindActive(ctx context.Context, id ids.Id) (entity.Edge, bool, error)
	FindAt(ctx context.Context, id ids.Id, at time.Time) (entity.Edge, bool, error)
	FindAll(ctx context.Context, id ids.Id) ([]entity.Edge, error)
	AllIDs(ctx context.Context) ([]ids.Id, error)
	AllActiveIDs(ctx context.Context) ([]ids.Id, error)
	Delete(ctx context.Context, id ids.Id) (bool, error)
}

// ComponentRepository is the versioned repository for Component entities.
type ComponentRepository interface {
	Save(ctx context.Context, c entity.Component) error
	Expire(ctx context.Context, id ids.Id, at time.Time) (bool, error)
	Find(ctx context.Context, loc ids.Locator) (entity.Component, bool, error)
	FindActive(ctx context.Context, id ids.Id) (entity.Component, bool, error)
	FindAt(ctx context.Context, id ids.Id, at time.Time) (entity.Component, bool, error)
	FindAll(ctx context.Context, id ids.Id) ([]entity.Component, error)
	AllIDs(ctx context.Context) ([]ids.Id, error)
	AllActiveIDs(ctx context.Context) ([]ids.Id, error)
	Delete(ctx context.Context, id ids.Id) (bool, error)
}

// Graph is the graph-level repository aggregate: a single object binding
// all three entity-kind repositories to one session.
type Graph struct {
	Nodes      NodeRepository
	Edges      EdgeRepository
	Components ComponentRepository
}

// Session is a scoped acquisition of backend resources bracketing one
// unit of work. It must be released on every exit path: Commit or
// Rollback end it explicitly, and RunInSession rolls it back automatically
// if the caller's function returns without having committed (including via
// panic).
type Session interface {
	// Graph returns the repository aggregate bound to this session; reads
	// and writes through it participate in the session's transaction.
	Graph() Graph
	// Commit finalizes the session's writes. After Commit, the session is
	// closed and must not be used again.
	Commit(ctx context.Context) error
	// Rollback discards the session's writes. After Rollback, the session
	// is closed and must not be used again. Rolling back an already-closed
	// session is a no-op.
	Rollback(ctx context.Context) error
}

// SessionFactory yields fresh sessions against a configured backend.
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}

// RunInSession opens a session from factory, invokes fn, and commits on
// success. If fn returns an error, or the session is never explicitly
// committed (including because fn panics), the session is rolled back
// before RunInSession returns (or the panic propagates). This is the
// standard way to bracket one client call: the facade layer (§4.6) uses
// it for every operation.
func RunInSession(ctx context.Context, factory SessionFactory, fn func(Session) error) error {
	sess, err := factory.NewSession(ctx)
	if err != nil {
		return StorageErr("RunInSession", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = sess.Rollback(ctx)
		}
	}()

	if err := fn(sess); err != nil {
		return err
	}
	if err := sess.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}
