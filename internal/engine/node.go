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

// NodeUpdate carries the optional fields of a Node.Update call; a nil
// field leaves that part of the node unchanged.
type NodeUpdate struct {
	Type       *string
	Data       *payload.Data
	Components *[]ids.Locator
}

// AddNode creates a node at version 1. Every locator in components must
// resolve to a component active at t.
func (e *Engine) AddNode(ctx context.Context, typ string, data payload.Data, components []ids.Locator, t time.Time) (entity.Node, error) {
	const op = "engine.Node.Add"
	if err := e.validateComponentsActive(ctx, op, components, t); err != nil {
		return entity.Node{}, err
	}
	n := entity.Node{
		Locator:    ids.Locator{ID: ids.New(), Version: 1},
		Type:       typ,
		Data:       data,
		Components: components,
		Temporal:   entity.Temporal{Created: entity.TruncateToMillis(t)},
	}
	if err := e.graph.Nodes.Save(ctx, n); err != nil {
		return entity.Node{}, err
	}
	return n, nil
}

// UpdateNode expires the active version of id and recreates it and
// every actively-incident edge, per spec §4.4.
func (e *Engine) UpdateNode(ctx context.Context, id ids.Id, upd NodeUpdate, t time.Time) (entity.Node, error) {
	return e.updateNode(ctx, id, upd, t, RecreatedSet{}, nil)
}

// updateNode is the internal primitive shared by a standalone
// Node.Update call and the node-cascade phase of Component.Update.
// already and remap are threaded in explicitly (spec §9): already
// prevents an edge touched in Component.Update's edge-first phase from
// being recreated a second time here; remap rewrites any component
// locator the cascade is in the middle of replacing.
func (e *Engine) updateNode(ctx context.Context, id ids.Id, upd NodeUpdate, t time.Time, already RecreatedSet, remap RemapTable) (entity.Node, error) {
	const op = "engine.Node.Update"
	active, found, err := e.graph.Nodes.FindActive(ctx, id)
	if err != nil {
		return entity.Node{}, err
	}
	if !found {
		return entity.Node{}, storage.NotActive(op)
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
		return entity.Node{}, err
	}

	incident, err := activeIncidentEdges(ctx, e.graph.Edges, id)
	if err != nil {
		return entity.Node{}, err
	}

	truncT := entity.TruncateToMillis(t)
	if _, err := e.graph.Nodes.Expire(ctx, id, truncT); err != nil {
		return entity.Node{}, err
	}
	newLoc := active.Locator.Increment()
	newNode := entity.Node{
		Locator:    newLoc,
		Type:       newType,
		Data:       newData,
		Components: newComponents,
		Temporal:   entity.Temporal{Created: truncT},
	}
	if err := e.graph.Nodes.Save(ctx, newNode); err != nil {
		return entity.Node{}, err
	}

	if already == nil {
		already = RecreatedSet{}
	}
	recreatedEdges := 0
	for _, oldEdge := range incident {
		if already[oldEdge.Locator.ID] {
			// Already recreated this operation (edge-first phase of a
			// Component.Update cascade): left pointing at its prior
			// endpoints. This is surprising but load-bearing, spec §9.
			continue
		}
		newSource := oldEdge.Source
		newTarget := oldEdge.Target
		if oldEdge.Source.ID == id {
			newSource = newLoc
		}
		if oldEdge.Target.ID == id {
			newTarget = newLoc
		}
		newEdgeComponents := remap.Apply(oldEdge.Components)
		if _, err := e.graph.Edges.Expire(ctx, oldEdge.Locator.ID, truncT); err != nil {
			return entity.Node{}, err
		}
		recreated := entity.Edge{
			Locator:    oldEdge.Locator.Increment(),
			Type:       oldEdge.Type,
			Source:     newSource,
			Target:     newTarget,
			Data:       oldEdge.Data,
			Components: newEdgeComponents,
			Temporal:   entity.Temporal{Created: truncT},
		}
		if err := e.graph.Edges.Save(ctx, recreated); err != nil {
			return entity.Node{}, err
		}
		already[oldEdge.Locator.ID] = true
		recreatedEdges++
	}

	obslog.Metrics.CascadeSize.Record(ctx, int64(1+recreatedEdges))
	return newNode, nil
}

// ExpireNode expires every actively-incident edge, then the node
// itself; after it returns no active edge references id.
func (e *Engine) ExpireNode(ctx context.Context, id ids.Id, t time.Time) (entity.Node, error) {
	const op = "engine.Node.Expire"
	active, found, err := e.graph.Nodes.FindActive(ctx, id)
	if err != nil {
		return entity.Node{}, err
	}
	if !found {
		return entity.Node{}, storage.NotActive(op)
	}

	incidentIDs, err := incidentEdgeIDs(ctx, e.graph.Edges, id)
	if err != nil {
		return entity.Node{}, err
	}
	truncT := entity.TruncateToMillis(t)
	for _, eid := range incidentIDs {
		if _, err := e.graph.Edges.Expire(ctx, eid, truncT); err != nil {
			return entity.Node{}, err
		}
	}
	if _, err := e.graph.Nodes.Expire(ctx, id, truncT); err != nil {
		return entity.Node{}, err
	}
	active.Expired = truncT
	return active, nil
}

func (e *Engine) validateComponentsActive(ctx context.Context, op string, components []ids.Locator, t time.Time) error {
	for _, cloc := range components {
		comp, found, err := e.graph.Components.Find(ctx, cloc)
		if err != nil {
			return err
		}
		if !found || !comp.ActiveAt(t) {
			return storage.InvalidArgument(op, "component locator not active at operation time: "+cloc.String())
		}
	}
	return nil
}

// incidentEdgeIDs returns every edge id that, in any version, names id
// as its source or target node id.
func incidentEdgeIDs(ctx context.Context, edges storage.EdgeRepository, id ids.Id) ([]ids.Id, error) {
	allIDs, err := edges.AllIDs(ctx)
	if err != nil {
		return nil, err
	}
	var out []ids.Id
	for _, eid := range allIDs {
		versions, err := edges.FindAll(ctx, eid)
		if err != nil {
			return nil, err
		}
		for _, v := range versions {
			if v.Source.ID == id || v.Target.ID == id {
				out = append(out, eid)
				break
			}
		}
	}
	return out, nil
}

func activeIncidentEdges(ctx context.Context, edges storage.EdgeRepository, id ids.Id) ([]entity.Edge, error) {
	eids, err := incidentEdgeIDs(ctx, edges, id)
	if err != nil {
		return nil, err
	}
	var out []entity.Edge
	for _, eid := range eids {
		e, found, err := edges.FindActive(ctx, eid)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, e)
		}
	}
	return out, nil
}
