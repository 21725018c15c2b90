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

// EdgeUpdate carries the optional fields of an Edge.Update call.
type EdgeUpdate struct {
	Type       *string
	Data       *payload.Data
	Components *[]ids.Locator
}

// AddEdge creates an edge at version 1. source and target must both be
// active node locators; adding the edge must not close a simple cycle
// within the active edges of any single component it carries
// (spec §4.4's "component must be acyclic" rule — only checked at add
// time, per the relaxation spec §8 scenario 6 permits).
func (e *Engine) AddEdge(ctx context.Context, typ string, source, target ids.Locator, data payload.Data, components []ids.Locator, t time.Time) (entity.Edge, error) {
	const op = "engine.Edge.Add"
	if err := e.requireActiveNodeLocator(ctx, op, source, t); err != nil {
		return entity.Edge{}, err
	}
	if err := e.requireActiveNodeLocator(ctx, op, target, t); err != nil {
		return entity.Edge{}, err
	}
	if err := e.validateComponentsActive(ctx, op, components, t); err != nil {
		return entity.Edge{}, err
	}

	cyclic, err := e.wouldCreateComponentCycle(ctx, source.ID, target.ID, components)
	if err != nil {
		return entity.Edge{}, err
	}
	if cyclic {
		obslog.Metrics.CycleRejections.Add(ctx, 1)
		return entity.Edge{}, storage.CycleRejected(op)
	}

	edge := entity.Edge{
		Locator:    ids.Locator{ID: ids.New(), Version: 1},
		Type:       typ,
		Source:     source,
		Target:     target,
		Data:       data,
		Components: components,
		Temporal:   entity.Temporal{Created: entity.TruncateToMillis(t)},
	}
	if err := e.graph.Edges.Save(ctx, edge); err != nil {
		return entity.Edge{}, err
	}
	return edge, nil
}

// UpdateEdge expires the active version and creates a new one with the
// same source/target, incremented version. Endpoints never change via
// Edge.Update — only a Node.Update cascade rewrites them.
func (e *Engine) UpdateEdge(ctx context.Context, id ids.Id, upd EdgeUpdate, t time.Time) (entity.Edge, error) {
	const op = "engine.Edge.Update"
	active, found, err := e.graph.Edges.FindActive(ctx, id)
	if err != nil {
		return entity.Edge{}, err
	}
	if !found {
		return entity.Edge{}, storage.NotActive(op)
	}

	newType := active.Type
	if upd.Type != nil {
		newType = *upd.Type
	}
	newData := active.Data
	if upd.Data != nil {
		newData = *upd.Data
	}
	newComponents := active.Components
	if upd.Components != nil {
		newComponents = *upd.Components
	}
	if err := e.validateComponentsActive(ctx, op, newComponents, t); err != nil {
		return entity.Edge{}, err
	}

	truncT := entity.TruncateToMillis(t)
	if _, err := e.graph.Edges.Expire(ctx, id, truncT); err != nil {
		return entity.Edge{}, err
	}
	newEdge := entity.Edge{
		Locator:    active.Locator.Increment(),
		Type:       newType,
		Source:     active.Source,
		Target:     active.Target,
		Data:       newData,
		Components: newComponents,
		Temporal:   entity.Temporal{Created: truncT},
	}
	if err := e.graph.Edges.Save(ctx, newEdge); err != nil {
		return entity.Edge{}, err
	}
	return newEdge, nil
}

// ExpireEdge expires the active version; no cascade.
func (e *Engine) ExpireEdge(ctx context.Context, id ids.Id, t time.Time) (entity.Edge, error) {
	const op = "engine.Edge.Expire"
	active, found, err := e.graph.Edges.FindActive(ctx, id)
	if err != nil {
		return entity.Edge{}, err
	}
	if !found {
		return entity.Edge{}, storage.NotActive(op)
	}
	truncT := entity.TruncateToMillis(t)
	if _, err := e.graph.Edges.Expire(ctx, id, truncT); err != nil {
		return entity.Edge{}, err
	}
	active.Expired = truncT
	return active, nil
}

func (e *Engine) requireActiveNodeLocator(ctx context.Context, op string, loc ids.Locator, t time.Time) error {
	n, found, err := e.graph.Nodes.Find(ctx, loc)
	if err != nil {
		return err
	}
	if !found || !n.ActiveAt(t) {
		return storage.InvalidArgument(op, "node locator not active at operation time: "+loc.String())
	}
	return nil
}

// wouldCreateComponentCycle reports whether adding an edge source->target
// carrying components would close a simple cycle within the subgraph of
// currently-active edges carrying one of those component locators,
// checked one component at a time: a cycle that closes only by mixing
// edges of different components is not rejected. Grounded on the teacher's (since-deleted)
// internal/storage/dolt/dependencies.go reachability-before-insert
// check, adapted from a recursive SQL CTE to an in-memory BFS since the
// engine works over a Graph interface, not a specific SQL dialect.
func (e *Engine) wouldCreateComponentCycle(ctx context.Context, sourceID, targetID ids.Id, components []ids.Locator) (bool, error) {
	for _, cloc := range components {
		reachable, err := e.reachesWithinComponent(ctx, targetID, sourceID, cloc)
		if err != nil {
			return false, err
		}
		if reachable {
			return true, nil
		}
	}
	return false, nil
}

func (e *Engine) reachesWithinComponent(ctx context.Context, from, to ids.Id, scope ids.Locator) (bool, error) {
	scoped, err := e.activeEdgesInComponent(ctx, scope)
	if err != nil {
		return false, err
	}
	if from == to {
		return true, nil
	}
	visited := map[ids.Id]bool{from: true}
	queue := []ids.Id{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ed := range scoped {
			if ed.Source.ID != cur || visited[ed.Target.ID] {
				continue
			}
			if ed.Target.ID == to {
				return true, nil
			}
			visited[ed.Target.ID] = true
			queue = append(queue, ed.Target.ID)
		}
	}
	return false, nil
}

func (e *Engine) activeEdgesInComponent(ctx context.Context, scope ids.Locator) ([]entity.Edge, error) {
	allIDs, err := e.graph.Edges.AllActiveIDs(ctx)
	if err != nil {
		return nil, err
	}
	var out []entity.Edge
	for _, eid := range allIDs {
		ed, found, err := e.graph.Edges.FindActive(ctx, eid)
		if err != nil {
			return nil, err
		}
		if found && containsLocator(ed.Components, scope) {
			out = append(out, ed)
		}
	}
	return out, nil
}
