package facade

import (
	"context"
	"time"

	"github.com/chronograph-db/chronograph/internal/engine"
	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
	"github.com/chronograph-db/chronograph/internal/storage"
)

// EdgeService is the Edge facade (spec §4.6).
type EdgeService struct {
	factory storage.SessionFactory
	run     Runner
}

// Add creates an edge at version 1. Rejected with KindCycleRejected if
// it would close a cycle within a shared component.
func (s *EdgeService) Add(ctx context.Context, typ string, source, target ids.Locator, data payload.Data, components []ids.Locator, at time.Time) (entity.Edge, error) {
	var out entity.Edge
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		e, err := engine.New(sess.Graph()).AddEdge(ctx, typ, source, target, data, components, at)
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	return out, err
}

// Update changes type, data, and/or components; endpoints never change
// via Update (only a Node.Update cascade rewrites them).
func (s *EdgeService) Update(ctx context.Context, id ids.Id, upd engine.EdgeUpdate, at time.Time) (entity.Edge, error) {
	var out entity.Edge
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		e, err := engine.New(sess.Graph()).UpdateEdge(ctx, id, upd, at)
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	return out, err
}

// Expire expires id; no cascade.
func (s *EdgeService) Expire(ctx context.Context, id ids.Id, at time.Time) (entity.Edge, error) {
	var out entity.Edge
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		e, err := engine.New(sess.Graph()).ExpireEdge(ctx, id, at)
		if err != nil {
			return err
		}
		out = e
		return nil
	})
	return out, err
}

// Find returns the exact version named by loc.
func (s *EdgeService) Find(ctx context.Context, loc ids.Locator) (entity.Edge, bool, error) {
	var out entity.Edge
	var found bool
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		e, f, err := sess.Graph().Edges.Find(ctx, loc)
		if err != nil {
			return err
		}
		out, found = e, f
		return nil
	})
	return out, found, err
}

// FindActive returns the unexpired version of id, if any.
func (s *EdgeService) FindActive(ctx context.Context, id ids.Id) (entity.Edge, bool, error) {
	var out entity.Edge
	var found bool
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		e, f, err := sess.Graph().Edges.FindActive(ctx, id)
		if err != nil {
			return err
		}
		out, found = e, f
		return nil
	})
	return out, found, err
}

// FindAt returns the version of id active at instant at.
func (s *EdgeService) FindAt(ctx context.Context, id ids.Id, at time.Time) (entity.Edge, bool, error) {
	var out entity.Edge
	var found bool
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		e, f, err := sess.Graph().Edges.FindAt(ctx, id, at)
		if err != nil {
			return err
		}
		out, found = e, f
		return nil
	})
	return out, found, err
}

// FindAllVersions returns every version of id, ascending by version.
func (s *EdgeService) FindAllVersions(ctx context.Context, id ids.Id) ([]entity.Edge, error) {
	var out []entity.Edge
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		v, err := sess.Graph().Edges.FindAll(ctx, id)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// AllActiveIDs returns every id with an unexpired version.
func (s *EdgeService) AllActiveIDs(ctx context.Context) ([]ids.Id, error) {
	var out []ids.Id
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		v, err := sess.Graph().Edges.AllActiveIDs(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// AllIDs returns every id that has at least one version.
func (s *EdgeService) AllIDs(ctx context.Context) ([]ids.Id, error) {
	var out []ids.Id
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		v, err := sess.Graph().Edges.AllIDs(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Delete hard-removes every version of id. Administrative purge only.
func (s *EdgeService) Delete(ctx context.Context, id ids.Id) (bool, error) {
	var out bool
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		v, err := sess.Graph().Edges.Delete(ctx, id)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
