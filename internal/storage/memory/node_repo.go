package memory

import (
	"context"
	"sort"
	"time"

	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/storage"
)

type nodeRepo struct{ s *session }

func encodeNode(b *Backend, op string, n entity.Node) (nodeRow, error) {
	raw, err := b.codec.Serialize(n.Data)
	if err != nil {
		return nodeRow{}, storage.StorageErr(op, err)
	}
	return nodeRow{
		Locator:    n.Locator,
		Type:       n.Type,
		Raw:        raw,
		Class:      n.Data.Class,
		Components: append([]ids.Locator(nil), n.Components...),
		Created:    entity.TruncateToMillis(n.Created),
		Expired:    truncateIfSet(n.Expired),
	}, nil
}

func decodeNode(b *Backend, op string, row nodeRow) (entity.Node, error) {
	data, err := b.codec.Deserialize(row.Raw, row.Class)
	if err != nil {
		return entity.Node{}, storage.StorageErr(op, err)
	}
	return entity.Node{
		Locator:    row.Locator,
		Type:       row.Type,
		Data:       data,
		Components: row.Components,
		Temporal:   entity.Temporal{Created: row.Created, Expired: row.Expired},
	}, nil
}

func truncateIfSet(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return entity.TruncateToMillis(t)
}

// effectiveNodeVersions merges committed backend state with this
// session's not-yet-committed writes, so reads within a session observe
// its own pending writes (read-your-writes) without mutating the
// backend until Commit.
func (s *session) effectiveNodeVersions(id ids.Id) []nodeRow {
	b := s.backend
	b.mu.Lock()
	var out []nodeRow
	if !s.deletedNodes[id] {
		committed := b.nodes[id]
		out = make([]nodeRow, len(committed))
		copy(out, committed)
	}
	b.mu.Unlock()

	if at, ok := s.nodeExpires[id]; ok {
		applyNodeExpire(out, at)
	}
	for _, row := range s.nodeAdds {
		if row.Locator.ID == id {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Locator.Version < out[j].Locator.Version })
	return out
}

func findActiveNodeRow(rows []nodeRow) (nodeRow, bool) {
	for _, r := range rows {
		if r.Expired.IsZero() {
			return r, true
		}
	}
	return nodeRow{}, false
}

func findNodeRowAt(rows []nodeRow, at time.Time) (nodeRow, bool) {
	var best nodeRow
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

func (r *nodeRepo) Save(ctx context.Context, n entity.Node) error {
	const op = "memory.NodeRepository.Save"
	rows := r.s.effectiveNodeVersions(n.Locator.ID)
	for _, row := range rows {
		if row.Locator.Version == n.Locator.Version {
			existing, err := decodeNode(r.s.backend, op, row)
			if err != nil {
				return err
			}
			if existing.Type == n.Type && existing.Data.Equal(n.Data) {
				return nil
			}
			return storage.Conflict(op)
		}
	}
	row, err := encodeNode(r.s.backend, op, n)
	if err != nil {
		return err
	}
	r.s.nodeAdds = append(r.s.nodeAdds, row)
	return nil
}

func (r *nodeRepo) Expire(ctx context.Context, id ids.Id, at time.Time) (bool, error) {
	active, ok := findActiveNodeRow(r.s.effectiveNodeVersions(id))
	if !ok {
		return false, nil
	}
	for i := range r.s.nodeAdds {
		if r.s.nodeAdds[i].Locator == active.Locator {
			r.s.nodeAdds[i].Expired = entity.TruncateToMillis(at)
			return true, nil
		}
	}
	if r.s.nodeExpires == nil {
		r.s.nodeExpires = make(map[ids.Id]time.Time)
	}
	r.s.nodeExpires[id] = entity.TruncateToMillis(at)
	return true, nil
}

func (r *nodeRepo) Find(ctx context.Context, loc ids.Locator) (entity.Node, bool, error) {
	const op = "memory.NodeRepository.Find"
	for _, row := range r.s.effectiveNodeVersions(loc.ID) {
		if row.Locator.Version == loc.Version {
			n, err := decodeNode(r.s.backend, op, row)
			return n, err == nil, err
		}
	}
	return entity.Node{}, false, nil
}

func (r *nodeRepo) FindActive(ctx context.Context, id ids.Id) (entity.Node, bool, error) {
	const op = "memory.NodeRepository.FindActive"
	row, ok := findActiveNodeRow(r.s.effectiveNodeVersions(id))
	if !ok {
		return entity.Node{}, false, nil
	}
	n, err := decodeNode(r.s.backend, op, row)
	return n, err == nil, err
}

func (r *nodeRepo) FindAt(ctx context.Context, id ids.Id, at time.Time) (entity.Node, bool, error) {
	const op = "memory.NodeRepository.FindAt"
	row, ok := findNodeRowAt(r.s.effectiveNodeVersions(id), at)
	if !ok {
		return entity.Node{}, false, nil
	}
	n, err := decodeNode(r.s.backend, op, row)
	return n, err == nil, err
}

func (r *nodeRepo) FindAll(ctx context.Context, id ids.Id) ([]entity.Node, error) {
	const op = "memory.NodeRepository.FindAll"
	rows := r.s.effectiveNodeVersions(id)
	out := make([]entity.Node, 0, len(rows))
	for _, row := range rows {
		n, err := decodeNode(r.s.backend, op, row)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *nodeRepo) AllIDs(ctx context.Context) ([]ids.Id, error) {
	b := r.s.backend
	b.mu.Lock()
	set := make(map[ids.Id]bool, len(b.nodes))
	for id, rows := range b.nodes {
		if len(rows) > 0 && !r.s.deletedNodes[id] {
			set[id] = true
		}
	}
	b.mu.Unlock()
	for _, row := range r.s.nodeAdds {
		set[row.Locator.ID] = true
	}
	out := make([]ids.Id, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out, nil
}

func (r *nodeRepo) AllActiveIDs(ctx context.Context) ([]ids.Id, error) {
	all, err := r.AllIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ids.Id, 0, len(all))
	for _, id := range all {
		if _, ok := findActiveNodeRow(r.s.effectiveNodeVersions(id)); ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *nodeRepo) Delete(ctx context.Context, id ids.Id) (bool, error) {
	existed := len(r.s.effectiveNodeVersions(id)) > 0
	if r.s.deletedNodes == nil {
		r.s.deletedNodes = make(map[ids.Id]bool)
	}
	r.s.deletedNodes[id] = true
	delete(r.s.nodeExpires, id)
	kept := r.s.nodeAdds[:0]
	for _, row := range r.s.nodeAdds {
		if row.Locator.ID != id {
			kept = append(kept, row)
		}
	}
	r.s.nodeAdds = kept
	return existed, nil
}
