package memory

import (
	"context"
	"sort"
	"time"

	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/storage"
)

type edgeRepo struct{ s *session }

func encodeEdge(b *Backend, op string, e entity.Edge) (edgeRow, error) {
	raw, err := b.codec.Serialize(e.Data)
	if err != nil {
		return edgeRow{}, storage.StorageErr(op, err)
	}
	return edgeRow{
		Locator:    e.Locator,
		Type:       e.Type,
		Source:     e.Source,
		Target:     e.Target,
		Raw:        raw,
		Class:      e.Data.Class,
		Components: append([]ids.Locator(nil), e.Components...),
		Created:    entity.TruncateToMillis(e.Created),
		Expired:    truncateIfSet(e.Expired),
	}, nil
}

func decodeEdge(b *Backend, op string, row edgeRow) (entity.Edge, error) {
	data, err := b.codec.Deserialize(row.Raw, row.Class)
	if err != nil {
		return entity.Edge{}, storage.StorageErr(op, err)
	}
	return entity.Edge{
		Locator:    row.Locator,
		Type:       row.Type,
		Source:     row.Source,
		Target:     row.Target,
		Data:       data,
		Components: row.Components,
		Temporal:   entity.Temporal{Created: row.Created, Expired: row.Expired},
	}, nil
}

func (s *session) effectiveEdgeVersions(id ids.Id) []edgeRow {
	b := s.backend
	b.mu.Lock()
	var out []edgeRow
	if !s.deletedEdges[id] {
		committed := b.edges[id]
		out = make([]edgeRow, len(committed))
		copy(out, committed)
	}
	b.mu.Unlock()

	if at, ok := s.edgeExpires[id]; ok {
		applyEdgeExpire(out, at)
	}
	for _, row := range s.edgeAdds {
		if row.Locator.ID == id {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Locator.Version < out[j].Locator.Version })
	return out
}

func findActiveEdgeRow(rows []edgeRow) (edgeRow, bool) {
	for _, r := range rows {
		if r.Expired.IsZero() {
			return r, true
		}
	}
	return edgeRow{}, false
}

func findEdgeRowAt(rows []edgeRow, at time.Time) (edgeRow, bool) {
	var best edgeRow
	found := false
	for _, r := range rows {
		if r.Created.After(at) {
			continue
		}
		if !r.Expired.IsZero() && !r.Expired.After(at) {
			continue
		}
		if !found || r.Locator.Version > best.Locator.Version {
			best = r
			found = true
		}
	}
	return best, found
}

func (r *edgeRepo) Save(ctx context.Context, e entity.Edge) error {
	const op = "memory.EdgeRepository.Save"
	rows := r.s.effectiveEdgeVersions(e.Locator.ID)
	for _, row := range rows {
		if row.Locator.Version == e.Locator.Version {
			existing, err := decodeEdge(r.s.backend, op, row)
			if err != nil {
				return err
			}
			if existing.Type == e.Type && existing.Data.Equal(e.Data) &&
				existing.Source == e.Source && existing.Target == e.Target {
				return nil
			}
			return storage.Conflict(op)
		}
	}
	row, err := encodeEdge(r.s.backend, op, e)
	if err != nil {
		return err
	}
	r.s.edgeAdds = append(r.s.edgeAdds, row)
	return nil
}

func (r *edgeRepo) Expire(ctx context.Context, id ids.Id, at time.Time) (bool, error) {
	active, ok := findActiveEdgeRow(r.s.effectiveEdgeVersions(id))
	if !ok {
		return false, nil
	}
	for i := range r.s.edgeAdds {
		if r.s.edgeAdds[i].Locator == active.Locator {
			r.s.edgeAdds[i].Expired = entity.TruncateToMillis(at)
			return true, nil
		}
	}
	if r.s.edgeExpires == nil {
		r.s.edgeExpires = make(map[ids.Id]time.Time)
	}
	r.s.edgeExpires[id] = entity.TruncateToMillis(at)
	return true, nil
}

func (r *edgeRepo) Find(ctx context.Context, loc ids.Locator) (entity.Edge, bool, error) {
	const op = "memory.EdgeRepository.Find"
	for _, row := range r.s.effectiveEdgeVersions(loc.ID) {
		if row.Locator.Version == loc.Version {
			e, err := decodeEdge(r.s.backend, op, row)
			return e, err == nil, err
		}
	}
	return entity.Edge{}, false, nil
}

func (r *edgeRepo) FindActive(ctx context.Context, id ids.Id) (entity.Edge, bool, error) {
	const op = "memory.EdgeRepository.FindActive"
	row, ok := findActiveEdgeRow(r.s.effectiveEdgeVersions(id))
	if !ok {
		return entity.Edge{}, false, nil
	}
	e, err := decodeEdge(r.s.backend, op, row)
	return e, err == nil, err
}

func (r *edgeRepo) FindAt(ctx context.Context, id ids.Id, at time.Time) (entity.Edge, bool, error) {
	const op = "memory.EdgeRepository.FindAt"
	row, ok := findEdgeRowAt(r.s.effectiveEdgeVersions(id), at)
	if !ok {
		return entity.Edge{}, false, nil
	}
	e, err := decodeEdge(r.s.backend, op, row)
	return e, err == nil, err
}

func (r *edgeRepo) FindAll(ctx context.Context, id ids.Id) ([]entity.Edge, error) {
	const op = "memory.EdgeRepository.FindAll"
	rows := r.s.effectiveEdgeVersions(id)
	out := make([]entity.Edge, 0, len(rows))
	for _, row := range rows {
		e, err := decodeEdge(r.s.backend, op, row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *edgeRepo) AllIDs(ctx context.Context) ([]ids.Id, error) {
	b := r.s.backend
	b.mu.Lock()
	set := make(map[ids.Id]bool, len(b.edges))
	for id, rows := range b.edges {
		if len(rows) > 0 && !r.s.deletedEdges[id] {
			set[id] = true
		}
	}
	b.mu.Unlock()
	for _, row := range r.s.edgeAdds {
		set[row.Locator.ID] = true
	}
	out := make([]ids.Id, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out, nil
}

func (r *edgeRepo) AllActiveIDs(ctx context.Context) ([]ids.Id, error) {
	all, err := r.AllIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ids.Id, 0, len(all))
	for _, id := range all {
		if _, ok := findActiveEdgeRow(r.s.effectiveEdgeVersions(id)); ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *edgeRepo) Delete(ctx context.Context, id ids.Id) (bool, error) {
	existed := len(r.s.effectiveEdgeVersions(id)) > 0
	if r.s.deletedEdges == nil {
		r.s.deletedEdges = make(map[ids.Id]bool)
	}
	r.s.deletedEdges[id] = true
	delete(r.s.edgeExpires, id)
	kept := r.s.edgeAdds[:0]
	for _, row := range r.s.edgeAdds {
		if row.Locator.ID != id {
			kept = append(kept, row)
		}
	}
	r.s.edgeAdds = kept
	return existed, nil
}
