package engine

import (
	"context"
	"time"

	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/obslog"
	"github.com/chronograph-db/chronograph/internal/payload"
	"github.com/chronograph-db/chronograph/internal/storage"
)

// ComponentUpdate carries the optional fields of a Component.Update call.
type ComponentUpdate struct {
	Type *string
	Data *payload.Data
}

// AddComponent creates a component at version 1.
func (e *Engine) AddComponent(ctx context.Context, typ string, data payload.Data, t time.Time) (entity.Component, error) {
	c := entity.Component{
		Locator:  ids.Locator{ID: ids.New(), Version: 1},
		Type:     typ,
		Data:     data,
		Temporal: entity.Temporal{Created: entity.TruncateToMillis(t)},
	}
	if err := e.graph.Components.Save(ctx, c); err != nil {
		return entity.Component{}, err
	}
	return c, nil
}

// UpdateComponent is the deepest cascade in the system (spec §4.4):
// expire C, save C', then propagate the locator remap to every active
// edge and node referencing C, in the deterministic order spec §5
// mandates (edges first, then nodes, with an explicit RecreatedSet
// preventing a double version-bump on edges touched by both phases).
func (e *Engine) UpdateComponent(ctx context.Context, id ids.Id, upd ComponentUpdate, t time.Time) (entity.Component, error) {
	const op = "engine.Component.Update"
	active, found, err := e.graph.Components.FindActive(ctx, id)
	if err != nil {
		return entity.Component{}, err
	}
	if !found {
		return entity.Component{}, storage.NotActive(op)
	}

	newType := active.Type
	if upd.Type != nil {
		newType = *upd.Type
	}
	newData := active.Data
	if upd.Data != nil {
		newData = *upd.Data
	}

	truncT := entity.TruncateToMillis(t)
	if _, err := e.graph.Components.Expire(ctx, id, truncT); err != nil {
		return entity.Component{}, err
	}
	newLoc := active.Locator.Increment()
	newComp := entity.Component{
		Locator:  newLoc,
		Type:     newType,
		Data:     newData,
		Temporal: entity.Temporal{Created: truncT},
	}
	if err := e.graph.Components.Save(ctx, newComp); err != nil {
		return entity.Component{}, err
	}

	remap := RemapTable{active.Locator: newLoc}
	already := RecreatedSet{}

	// Edge-first phase: every edge whose active version carries
	// active.Locator gets expired and recreated with the remapped set,
	// same endpoints. Recorded in already so the node-cascade phase
	// below does not recreate it a second time.
	touched := 1 // the component itself

	edgeIDs, err := e.graph.Edges.AllActiveIDs(ctx)
	if err != nil {
		return entity.Component{}, err
	}
	for _, eid := range edgeIDs {
		ed, found, err := e.graph.Edges.FindActive(ctx, eid)
		if err != nil {
			return entity.Component{}, err
		}
		if !found || !containsLocator(ed.Components, active.Locator) {
			continue
		}
		newEdgeComponents := remap.Apply(ed.Components)
		if _, err := e.graph.Edges.Expire(ctx, eid, truncT); err != nil {
			return entity.Component{}, err
		}
		recreated := entity.Edge{
			Locator:    ed.Locator.Increment(),
			Type:       ed.Type,
			Source:     ed.Source,
			Target:     ed.Target,
			Data:       ed.Data,
			Components: newEdgeComponents,
			Temporal:   entity.Temporal{Created: truncT},
		}
		if err := e.graph.Edges.Save(ctx, recreated); err != nil {
			return entity.Component{}, err
		}
		already[eid] = true
		touched++
	}

	// Node-cascade phase: every node whose active version carries
	// active.Locator is recreated with remapped components via the
	// shared updateNode primitive, which in turn cascades that node's
	// own incident edges — skipping any already in `already`.
	nodeIDs, err := e.graph.Nodes.AllActiveIDs(ctx)
	if err != nil {
		return entity.Component{}, err
	}
	for _, nid := range nodeIDs {
		nd, found, err := e.graph.Nodes.FindActive(ctx, nid)
		if err != nil {
			return entity.Component{}, err
		}
		if !found || !containsLocator(nd.Components, active.Locator) {
			continue
		}
		remapped := remap.Apply(nd.Components)
		if _, err := e.updateNode(ctx, nid, NodeUpdate{Components: &remapped}, truncT, already, remap); err != nil {
			return entity.Component{}, err
		}
		touched++
	}

	obslog.Metrics.CascadeSize.Record(ctx, int64(touched))
	return newComp, nil
}

// ExpireComponent expires C only; no cascade to referencing elements —
// deliberate per spec §4.4, preserving the historical fact that an
// element was in this component before t.
func (e *Engine) ExpireComponent(ctx context.Context, id ids.Id, t time.Time) (entity.Component, error) {
	const op = "engine.Component.Expire"
	active, found, err := e.graph.Components.FindActive(ctx, id)
	if err != nil {
		return entity.Component{}, err
	}
	if !found {
		return entity.Component{}, storage.NotActive(op)
	}
	truncT := entity.TruncateToMillis(t)
	if _, err := e.graph.Components.Expire(ctx, id, truncT); err != nil {
		return entity.Component{}, err
	}
	active.Expired = truncT
	return active, nil
}
