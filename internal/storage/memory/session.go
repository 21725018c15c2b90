package memory

import (
	"context"
	"time"

	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/storage"
)

// session buffers writes against a Backend until Commit; Rollback simply
// discards the buffer, since nothing has touched the backend's committed
// maps yet. This gives the memory backend the same auto-rollback-on-exit
// contract as the SQL backends without needing a real transaction.
type session struct {
	backend *Backend
	closed  bool

	nodeAdds      []nodeRow
	nodeExpires   map[ids.Id]time.Time
	edgeAdds      []edgeRow
	edgeExpires   map[ids.Id]time.Time
	compAdds      []componentRow
	compExpires   map[ids.Id]time.Time
	deletedNodes  map[ids.Id]bool
	deletedEdges  map[ids.Id]bool
	deletedComps  map[ids.Id]bool
}

func (s *session) Graph() storage.Graph {
	return storage.Graph{
		Nodes:      &nodeRepo{s: s},
		Edges:      &edgeRepo{s: s},
		Components: &componentRepo{s: s},
	}
}

func (s *session) Commit(ctx context.Context) error {
	if s.closed {
		return storage.Internal("memory.Session.Commit", "session already closed")
	}
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	for id := range s.deletedNodes {
		delete(b.nodes, id)
	}
	for id, at := range s.nodeExpires {
		applyNodeExpire(b.nodes[id], at)
	}
	for _, row := range s.nodeAdds {
		b.nodes[row.Locator.ID] = append(b.nodes[row.Locator.ID], row)
	}

	for id := range s.deletedEdges {
		delete(b.edges, id)
	}
	for id, at := range s.edgeExpires {
		applyEdgeExpire(b.edges[id], at)
	}
	for _, row := range s.edgeAdds {
		b.edges[row.Locator.ID] = append(b.edges[row.Locator.ID], row)
	}

	for id := range s.deletedComps {
		delete(b.components, id)
	}
	for id, at := range s.compExpires {
		applyComponentExpire(b.components[id], at)
	}
	for _, row := range s.compAdds {
		b.components[row.Locator.ID] = append(b.components[row.Locator.ID], row)
	}

	s.closed = true
	return nil
}

func (s *session) Rollback(ctx context.Context) error {
	s.closed = true
	return nil
}

func applyNodeExpire(versions []nodeRow, at time.Time) {
	for i := range versions {
		if versions[i].Expired.IsZero() {
			versions[i].Expired = at
			return
		}
	}
}

func applyEdgeExpire(versions []edgeRow, at time.Time) {
	for i := range versions {
		if versions[i].Expired.IsZero() {
			versions[i].Expired = at
			return
		}
	}
}

func applyComponentExpire(versions []componentRow, at time.Time) {
	for i := range versions {
		if versions[i].Expired.IsZero() {
			versions[i].Expired = at
			return
		}
	}
}
