package facade

import (
	"context"

	"github.com/chronograph-db/chronograph/internal/graphview"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/storage"
)

// GraphService is the Graph facade (spec §4.6): read-only traversal
// queries over a fresh copy-on-read snapshot of the active graph. Every
// call opens a session through Runner, builds a graphview.Snapshot from
// it, and lets Runner commit the session, which holds no writes.
type GraphService struct {
	factory storage.SessionFactory
	run     Runner
}

func (s *GraphService) snapshot(ctx context.Context) (*graphview.Snapshot, error) {
	var snap *graphview.Snapshot
	err := s.run(ctx, s.factory, func(sess storage.Session) error {
		built, err := graphview.Build(ctx, sess.Graph())
		if err != nil {
			return err
		}
		snap = built
		return nil
	})
	return snap, err
}

// HasPath reports whether any active-edge path connects a and b.
func (s *GraphService) HasPath(ctx context.Context, a, b ids.Id) (bool, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return false, err
	}
	return snap.PathExists(a, b), nil
}

// ShortestPath returns the shortest active-edge path from a to b.
func (s *GraphService) ShortestPath(ctx context.Context, a, b ids.Id) (graphview.Path, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.ShortestPath(a, b)
}

// AllPaths enumerates every simple path from a to b, bounded by
// maxDepth edges (0 uses graphview.DefaultMaxDepth).
func (s *GraphService) AllPaths(ctx context.Context, a, b ids.Id, maxDepth int) ([]graphview.Path, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.AllPaths(a, b, maxDepth), nil
}

// AllConnectedPaths returns, for every unordered pair of active nodes
// connected by a path, that pair's shortest path.
func (s *GraphService) AllConnectedPaths(ctx context.Context) (map[[2]ids.Id]graphview.Path, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.AllConnectedPaths(), nil
}

// Neighbors returns the distinct active node ids adjacent to id.
func (s *GraphService) Neighbors(ctx context.Context, id ids.Id) ([]ids.Id, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Neighbors(id), nil
}
