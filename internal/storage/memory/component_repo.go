package memory

import (
	"context"
	"sort"
	"time"

	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/storage"
)

type componentRepo struct{ s *session }

func encodeComponent(b *Backend, op string, c entity.Component) (componentRow, error) {
	raw, err := b.codec.Serialize(c.Data)
	if err != nil {
		return componentRow{}, storage.StorageErr(op, err)
	}
	return componentRow{
		Locator: c.Locator,
		Type:    c.Type,
		Raw:     raw,
		Class:   c.Data.Class,
		Created: entity.TruncateToMillis(c.Created),
		Expired: truncateIfSet(c.Expired),
	}, nil
}

func decodeComponent(b *Backend, op string, row componentRow) (entity.Component, error) {
	data, err := b.codec.Deserialize(row.Raw, row.Class)
	if err != nil {
		return entity.Component{}, storage.StorageErr(op, err)
	}
	return entity.Component{
		Locator:  row.Locator,
		Type:     row.Type,
		Data:     data,
		Temporal: entity.Temporal{Created: row.Created, Expired: row.Expired},
	}, nil
}

func (s *session) effectiveComponentVersions(id ids.Id) []componentRow {
	b := s.backend
	b.mu.Lock()
	var out []componentRow
	if !s.deletedComps[id] {
		committed := b.components[id]
		out = make([]componentRow, len(committed))
		copy(out, committed)
	}
	b.mu.Unlock()

	if at, ok := s.compExpires[id]; ok {
		applyComponentExpire(out, at)
	}
	for _, row := range s.compAdds {
		if row.Locator.ID == id {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Locator.Version < out[j].Locator.Version })
	return out
}

func findActiveComponentRow(rows []componentRow) (componentRow, bool) {
	for _, r := range rows {
		if r.Expired.IsZero() {
			return r, true
		}
	}
	return componentRow{}, false
}

func findComponentRowAt(rows []componentRow, at time.Time) (componentRow, bool) {
	var best componentRow
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

func (r *componentRepo) Save(ctx context.Context, c entity.Component) error {
	const op = "memory.ComponentRepository.Save"
	rows := r.s.effectiveComponentVersions(c.Locator.ID)
	for _, row := range rows {
		if row.Locator.Version == c.Locator.Version {
			existing, err := decodeComponent(r.s.backend, op, row)
			if err != nil {
				return err
			}
			if existing.Type == c.Type && existing.Data.Equal(c.Data) {
				return nil
			}
			return storage.Conflict(op)
		}
	}
	row, err := encodeComponent(r.s.backend, op, c)
	if err != nil {
		return err
	}
	r.s.compAdds = append(r.s.compAdds, row)
	return nil
}

func (r *componentRepo) Expire(ctx context.Context, id ids.Id, at time.Time) (bool, error) {
	active, ok := findActiveComponentRow(r.s.effectiveComponentVersions(id))
	if !ok {
		return false, nil
	}
	for i := range r.s.compAdds {
		if r.s.compAdds[i].Locator == active.Locator {
			r.s.compAdds[i].Expired = entity.TruncateToMillis(at)
			return true, nil
		}
	}
	if r.s.compExpires == nil {
		r.s.compExpires = make(map[ids.Id]time.Time)
	}
	r.s.compExpires[id] = entity.TruncateToMillis(at)
	return true, nil
}

func (r *componentRepo) Find(ctx context.Context, loc ids.Locator) (entity.Component, bool, error) {
	const op = "memory.ComponentRepository.Find"
	for _, row := range r.s.effectiveComponentVersions(loc.ID) {
		if row.Locator.Version == loc.Version {
			c, err := decodeComponent(r.s.backend, op, row)
			return c, err == nil, err
		}
	}
	return entity.Component{}, false, nil
}

func (r *componentRepo) FindActive(ctx context.Context, id ids.Id) (entity.Component, bool, error) {
	const op = "memory.ComponentRepository.FindActive"
	row, ok := findActiveComponentRow(r.s.effectiveComponentVersions(id))
	if !ok {
		return entity.Component{}, false, nil
	}
	c, err := decodeComponent(r.s.backend, op, row)
	return c, err == nil, err
}

func (r *componentRepo) FindAt(ctx context.Context, id ids.Id, at time.Time) (entity.Component, bool, error) {
	const op = "memory.ComponentRepository.FindAt"
	row, ok := findComponentRowAt(r.s.effectiveComponentVersions(id), at)
	if !ok {
		return entity.Component{}, false, nil
	}
	c, err := decodeComponent(r.s.backend, op, row)
	return c, err == nil, err
}

func (r *componentRepo) FindAll(ctx context.Context, id ids.Id) ([]entity.Component, error) {
	const op = "memory.ComponentRepository.FindAll"
	rows := r.s.effectiveComponentVersions(id)
	out := make([]entity.Component, 0, len(rows))
	for _, row := range rows {
		c, err := decodeComponent(r.s.backend, op, row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *componentRepo) AllIDs(ctx context.Context) ([]ids.Id, error) {
	b := r.s.backend
	b.mu.Lock()
	set := make(map[ids.Id]bool, len(b.components))
	for id, rows := range b.components {
		if len(rows) > 0 && !r.s.deletedComps[id] {
			set[id] = true
		}
	}
	b.mu.Unlock()
	for _, row := range r.s.compAdds {
		set[row.Locator.ID] = true
	}
	out := make([]ids.Id, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out, nil
}

func (r *componentRepo) AllActiveIDs(ctx context.Context) ([]ids.Id, error) {
	all, err := r.AllIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ids.Id, 0, len(all))
	for _, id := range all {
		if _, ok := findActiveComponentRow(r.s.effectiveComponentVersions(id)); ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *componentRepo) Delete(ctx context.Context, id ids.Id) (bool, error) {
	existed := len(r.s.effectiveComponentVersions(id)) > 0
	if r.s.deletedComps == nil {
		r.s.deletedComps = make(map[ids.Id]bool)
	}
	r.s.deletedComps[id] = true
	delete(r.s.compExpires, id)
	kept := r.s.compAdds[:0]
	for _, row := range r.s.compAdds {
		if row.Locator.ID != id {
			kept = append(kept, row)
		}
	}
	r.s.compAdds = kept
	return existed, nil
}
