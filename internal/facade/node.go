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

// NodeService is the Node facade (spec §4.6).
type NodeService struct {
	factory storage.SessionFactory
	run     Runner
}

// Add creates a node at version 1.
func (s *NodeService) Add(ctx context.Context, typ string, data payload.Data, components []ids.Locator, at time.Time) (entity.Node, error) {
	var out entity.Node
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		n, err := engine.New(sess.Graph()).AddNode(ctx, typ, data, components, at)
		if err != nil {
			return err
		}
		out = n
		return nil
	})
	return out, err
}

// Update cascades per spec §4.4, rewriting every actively-incident edge.
func (s *NodeService) Update(ctx context.Context, id ids.Id, upd engine.NodeUpdate, at time.Time) (entity.Node, error) {
	var out entity.Node
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		n, err := engine.New(sess.Graph()).UpdateNode(ctx, id, upd, at)
		if err != nil {
			return err
		}
		out = n
		return nil
	})
	return out, err
}

// Expire expires id and every actively-incident edge.
func (s *NodeService) Expire(ctx context.Context, id ids.Id, at time.Time) (entity.Node, error) {
	var out entity.Node
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		n, err := engine.New(sess.Graph()).ExpireNode(ctx, id, at)
		if err != nil {
			return err
		}
		out = n
		return nil
	})
	return out, err
}

// Find returns the exact version named by loc.
func (s *NodeService) Find(ctx context.Context, loc ids.Locator) (entity.Node, bool, error) {
	var out entity.Node
	var found bool
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		n, f, err := sess.Graph().Nodes.Find(ctx, loc)
		if err != nil {
			return err
		}
		out, found = n, f
		return nil
	})
	return out, found, err
}

// FindActive returns the unexpired version of id, if any.
func (s *NodeService) FindActive(ctx context.Context, id ids.Id) (entity.Node, bool, error) {
	var out entity.Node
	var found bool
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		n, f, err := sess.Graph().Nodes.FindActive(ctx, id)
		if err != nil {
			return err
		}
		out, found = n, f
		return nil
	})
	return out, found, err
}

// FindAt returns the version of id active at instant at.
func (s *NodeService) FindAt(ctx context.Context, id ids.Id, at time.Time) (entity.Node, bool, error) {
	var out entity.Node
	var found bool
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		n, f, err := sess.Graph().Nodes.FindAt(ctx, id, at)
		if err != nil {
			return err
		}
		out, found = n, f
		return nil
	})
	return out, found, err
}

// FindAllVersions returns every version of id, ascending by version.
func (s *NodeService) FindAllVersions(ctx context.Context, id ids.Id) ([]entity.Node, error) {
	var out []entity.Node
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		v, err := sess.Graph().Nodes.FindAll(ctx, id)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// AllActiveIDs returns every id with an unexpired version.
func (s *NodeService) AllActiveIDs(ctx context.Context) ([]ids.Id, error) {
	var out []ids.Id
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		v, err := sess.Graph().Nodes.AllActiveIDs(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// AllIDs returns every id that has at least one version.
func (s *NodeService) AllIDs(ctx context.Context) ([]ids.Id, error) {
	var out []ids.Id
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		v, err := sess.Graph().Nodes.AllIDs(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

// Delete hard-removes every version of id. Administrative purge only;
// it is not how a node is logically retired (use Expire).
func (s *NodeService) Delete(ctx context.Context, id ids.Id) (bool, error) {
	var out bool
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		v, err := sess.Graph().Nodes.Delete(ctx, id)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
