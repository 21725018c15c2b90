// Package graphview builds copy-on-read snapshots of the active graph
// and answers traversal queries over them (spec §4.5). A Snapshot is
// independent of subsequent mutations: once built, it never changes.
package graphview

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/storage"
)

// Snapshot is the active-entity view used by every traversal below.
type Snapshot struct {
	Nodes      map[ids.Id]entity.Node
	Edges      map[ids.Id]entity.Edge
	Components map[ids.Id]entity.Component

	outgoing map[ids.Id][]ids.Id // node id -> active edge ids where it is the source
	incoming map[ids.Id][]ids.Id // node id -> active edge ids where it is the target
}

// Build fetches every active node, edge, and component from graph and
// assembles a Snapshot. The three entity kinds are fetched concurrently
// via errgroup, bounding wall-clock time for large active sets.
func Build(ctx context.Context, graph storage.Graph) (*Snapshot, error) {
	s := &Snapshot{
		Nodes:      map[ids.Id]entity.Node{},
		Edges:      map[ids.Id]entity.Edge{},
		Components: map[ids.Id]entity.Component{},
		outgoing:   map[ids.Id][]ids.Id{},
		incoming:   map[ids.Id][]ids.Id{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loadActive(gctx, graph.Nodes.AllActiveIDs, graph.Nodes.FindActive, s.Nodes) })
	g.Go(func() error { return loadActive(gctx, graph.Edges.AllActiveIDs, graph.Edges.FindActive, s.Edges) })
	g.Go(func() error {
		return loadActive(gctx, graph.Components.AllActiveIDs, graph.Components.FindActive, s.Components)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, e := range s.Edges {
		s.outgoing[e.Source.ID] = append(s.outgoing[e.Source.ID], e.Locator.ID)
		s.incoming[e.Target.ID] = append(s.incoming[e.Target.ID], e.Locator.ID)
	}
	return s, nil
}

func loadActive[T any](
	ctx context.Context,
	allActiveIDs func(context.Context) ([]ids.Id, error),
	findActive func(context.Context, ids.Id) (T, bool, error),
	into map[ids.Id]T,
) error {
	activeIDs, err := allActiveIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range activeIDs {
		v, found, err := findActive(ctx, id)
		if err != nil {
			return err
		}
		if found {
			into[id] = v
		}
	}
	return nil
}

// Neighbors returns the distinct active node ids adjacent to id via any
// active edge (outgoing or incoming).
func (s *Snapshot) Neighbors(id ids.Id) []ids.Id {
	seen := map[ids.Id]bool{}
	var out []ids.Id
	for _, eid := range s.outgoing[id] {
		if other := s.Edges[eid].Target.ID; !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	for _, eid := range s.incoming[id] {
		if other := s.Edges[eid].Source.ID; !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// OutgoingEdges returns the active edges where id is the source.
func (s *Snapshot) OutgoingEdges(id ids.Id) []entity.Edge {
	out := make([]entity.Edge, 0, len(s.outgoing[id]))
	for _, eid := range s.outgoing[id] {
		out = append(out, s.Edges[eid])
	}
	return out
}

// IncomingEdges returns the active edges where id is the target.
func (s *Snapshot) IncomingEdges(id ids.Id) []entity.Edge {
	out := make([]entity.Edge, 0, len(s.incoming[id]))
	for _, eid := range s.incoming[id] {
		out = append(out, s.Edges[eid])
	}
	return out
}
