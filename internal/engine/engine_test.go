package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chronograph-db/chronograph/internal/engine"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
	"github.com/chronograph-db/chronograph/internal/storage"
	"github.com/chronograph-db/chronograph/internal/storage/memory"
)

func newEngine(t *testing.T) (*engine.Engine, storage.Session) {
	t.Helper()
	b := memory.NewBackend()
	sess, err := b.NewSession(context.Background())
	require.NoError(t, err)
	return engine.New(sess.Graph()), sess
}

func d(class string) payload.Data { return payload.Data{Class: class, Attrs: map[string]any{}} }

// Scenario 1: chain update.
func TestChainUpdate(t *testing.T) {
	ctx := context.Background()
	e, sess := newEngine(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	a1, err := e.AddNode(ctx, "person", d("person"), nil, t0)
	require.NoError(t, err)
	b1, err := e.AddNode(ctx, "person", d("person"), nil, t0)
	require.NoError(t, err)
	edge1, err := e.AddEdge(ctx, "knows", a1.Locator, b1.Locator, d("edge"), nil, t0)
	require.NoError(t, err)

	a2, err := e.UpdateNode(ctx, a1.Locator.ID, engine.NodeUpdate{}, t1)
	require.NoError(t, err)
	require.Equal(t, int64(2), a2.Locator.Version)

	graph := sess.Graph()
	gotA1, found, err := graph.Nodes.Find(ctx, a1.Locator)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, t1, gotA1.Expired)

	gotEdge1, found, err := graph.Edges.Find(ctx, edge1.Locator)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, t1, gotEdge1.Expired)

	edge2, found, err := graph.Edges.FindActive(ctx, edge1.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), edge2.Locator.Version)
	require.Equal(t, a2.Locator, edge2.Source)
	require.Equal(t, b1.Locator, edge2.Target)
}

// Scenario 2: component propagation.
func TestComponentPropagation(t *testing.T) {
	ctx := context.Background()
	e, sess := newEngine(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)
	t2 := t1.Add(time.Minute)

	c1, err := e.AddComponent(ctx, "tag", d("tag"), t0)
	require.NoError(t, err)

	n, err := e.AddNode(ctx, "x", d("x"), []ids.Locator{c1.Locator}, t1)
	require.NoError(t, err)
	a, err := e.AddNode(ctx, "a", d("a"), nil, t1)
	require.NoError(t, err)
	f, err := e.AddEdge(ctx, "f", a.Locator, n.Locator, d("f"), []ids.Locator{c1.Locator}, t1)
	require.NoError(t, err)

	c2, err := e.UpdateComponent(ctx, c1.Locator.ID, engine.ComponentUpdate{}, t2)
	require.NoError(t, err)
	require.Equal(t, int64(2), c2.Locator.Version)
	require.Equal(t, t2, c2.Created)

	graph := sess.Graph()
	n2, found, err := graph.Nodes.FindActive(ctx, n.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), n2.Locator.Version)
	require.Equal(t, t2, n2.Created)
	require.Contains(t, n2.Components, c2.Locator)
	require.NotContains(t, n2.Components, c1.Locator)

	f2, found, err := graph.Edges.FindActive(ctx, f.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), f2.Locator.Version)
	require.Equal(t, t2, f2.Created)
	require.Contains(t, f2.Components, c2.Locator)
}

// Scenario 3: selective non-update.
func TestSelectiveNonUpdate(t *testing.T) {
	ctx := context.Background()
	e, sess := newEngine(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	c1, err := e.AddComponent(ctx, "tag", d("tag"), t0)
	require.NoError(t, err)
	c2, err := e.AddComponent(ctx, "tag", d("tag"), t0)
	require.NoError(t, err)

	n, err := e.AddNode(ctx, "n", d("n"), []ids.Locator{c1.Locator}, t0)
	require.NoError(t, err)
	x, err := e.AddNode(ctx, "x", d("x"), nil, t0)
	require.NoError(t, err)
	y, err := e.AddNode(ctx, "y", d("y"), nil, t0)
	require.NoError(t, err)
	edge, err := e.AddEdge(ctx, "e", x.Locator, y.Locator, d("e"), []ids.Locator{c2.Locator}, t0)
	require.NoError(t, err)

	_, err = e.UpdateComponent(ctx, c1.Locator.ID, engine.ComponentUpdate{}, t1)
	require.NoError(t, err)

	graph := sess.Graph()
	n2, found, err := graph.Nodes.FindActive(ctx, n.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), n2.Locator.Version)

	edgeStill, found, err := graph.Edges.FindActive(ctx, edge.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(1), edgeStill.Locator.Version)
	require.Equal(t, edge.Created, edgeStill.Created)
}

func TestCycleRejectionAtAdd(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c, err := e.AddComponent(ctx, "tag", d("tag"), t0)
	require.NoError(t, err)
	a, err := e.AddNode(ctx, "a", d("a"), nil, t0)
	require.NoError(t, err)
	b, err := e.AddNode(ctx, "b", d("b"), nil, t0)
	require.NoError(t, err)

	_, err = e.AddEdge(ctx, "e", a.Locator, b.Locator, d("e"), []ids.Locator{c.Locator}, t0)
	require.NoError(t, err)

	_, err = e.AddEdge(ctx, "e", b.Locator, a.Locator, d("e"), []ids.Locator{c.Locator}, t0)
	require.Error(t, err)
	require.Equal(t, storage.KindCycleRejected, storage.KindOf(err))
}

func TestNodeExpireNoIncidentEdges(t *testing.T) {
	ctx := context.Background()
	e, sess := newEngine(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	n, err := e.AddNode(ctx, "n", d("n"), nil, t0)
	require.NoError(t, err)

	expired, err := e.ExpireNode(ctx, n.Locator.ID, t1)
	require.NoError(t, err)
	require.Equal(t, t1, expired.Expired)

	_, found, err := sess.Graph().Nodes.FindActive(ctx, n.Locator.ID)
	require.NoError(t, err)
	require.False(t, found)
}

func TestComponentExpireNoCascade(t *testing.T) {
	ctx := context.Background()
	e, sess := newEngine(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	c, err := e.AddComponent(ctx, "tag", d("tag"), t0)
	require.NoError(t, err)
	n, err := e.AddNode(ctx, "n", d("n"), []ids.Locator{c.Locator}, t0)
	require.NoError(t, err)

	_, err = e.ExpireComponent(ctx, c.Locator.ID, t1)
	require.NoError(t, err)

	got, found, err := sess.Graph().Nodes.FindActive(ctx, n.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(1), got.Locator.Version)
	require.Contains(t, got.Components, c.Locator)

	_, found, err = sess.Graph().Components.FindActive(ctx, c.Locator.ID)
	require.NoError(t, err)
	require.False(t, found)
}

func TestPointInTimeLookup(t *testing.T) {
	ctx := context.Background()
	e, sess := newEngine(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)
	t2 := t1.Add(time.Minute)

	c, err := e.AddComponent(ctx, "tag", d("tag"), t0)
	require.NoError(t, err)
	n, err := e.AddNode(ctx, "n", d("n"), []ids.Locator{c.Locator}, t1)
	require.NoError(t, err)
	_, err = e.UpdateComponent(ctx, c.Locator.ID, engine.ComponentUpdate{}, t2)
	require.NoError(t, err)

	graph := sess.Graph()
	atT1, found, err := graph.Nodes.FindAt(ctx, n.Locator.ID, t1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(1), atT1.Locator.Version)

	atT2, found, err := graph.Nodes.FindAt(ctx, n.Locator.ID, t2)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), atT2.Locator.Version)

	_, found, err = graph.Nodes.FindAt(ctx, n.Locator.ID, t0)
	require.NoError(t, err)
	require.False(t, found)
}

// Pins the §9 Open Question: an edge touched in the edge-first phase of
// a Component.Update is skipped, not rewritten, when the node-cascade
// phase later recreates one of its endpoint nodes in the same
// operation — the edge keeps pointing at the endpoint's old version.
func TestEdgeAlreadyRecreatedSkipsEndpointRewrite(t *testing.T) {
	ctx := context.Background()
	e, sess := newEngine(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	c, err := e.AddComponent(ctx, "tag", d("tag"), t0)
	require.NoError(t, err)
	a, err := e.AddNode(ctx, "a", d("a"), []ids.Locator{c.Locator}, t0)
	require.NoError(t, err)
	b, err := e.AddNode(ctx, "b", d("b"), nil, t0)
	require.NoError(t, err)
	edge, err := e.AddEdge(ctx, "e", a.Locator, b.Locator, d("e"), []ids.Locator{c.Locator}, t0)
	require.NoError(t, err)

	_, err = e.UpdateComponent(ctx, c.Locator.ID, engine.ComponentUpdate{}, t1)
	require.NoError(t, err)

	graph := sess.Graph()
	a2, found, err := graph.Nodes.FindActive(ctx, a.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), a2.Locator.Version)

	edge2, found, err := graph.Edges.FindActive(ctx, edge.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), edge2.Locator.Version)
	require.Equal(t, a.Locator, edge2.Source, "edge recreated in edge-first phase keeps the pre-cascade source locator")
	require.NotEqual(t, a2.Locator, edge2.Source)
}

// Boundary behavior, spec §8: a node update on a node with both an
// incoming and an outgoing edge to the same neighbor must recreate
// each edge exactly once, keyed by edge id rather than neighbor id.
func TestNodeUpdateBothDirectionsToSameNeighbor(t *testing.T) {
	ctx := context.Background()
	e, sess := newEngine(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	x, err := e.AddNode(ctx, "x", d("x"), nil, t0)
	require.NoError(t, err)
	y, err := e.AddNode(ctx, "y", d("y"), nil, t0)
	require.NoError(t, err)
	out, err := e.AddEdge(ctx, "out", x.Locator, y.Locator, d("out"), nil, t0)
	require.NoError(t, err)
	in, err := e.AddEdge(ctx, "in", y.Locator, x.Locator, d("in"), nil, t0)
	require.NoError(t, err)

	x2, err := e.UpdateNode(ctx, x.Locator.ID, engine.NodeUpdate{}, t1)
	require.NoError(t, err)
	require.Equal(t, int64(2), x2.Locator.Version)

	graph := sess.Graph()
	out2, found, err := graph.Edges.FindActive(ctx, out.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), out2.Locator.Version)
	require.Equal(t, x2.Locator, out2.Source)
	require.Equal(t, y.Locator, out2.Target)

	in2, found, err := graph.Edges.FindActive(ctx, in.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), in2.Locator.Version)
	require.Equal(t, y.Locator, in2.Source)
	require.Equal(t, x2.Locator, in2.Target)

	y2, found, err := graph.Nodes.FindActive(ctx, y.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(1), y2.Locator.Version, "y has no component cascade reason to bump")
}

// Scenario 4: diamond with mixed component refs. A->B, A->C, B->D(refs
// C1), C->D; only B and C reference C1 directly. Component.Update(C1)
// must recreate B->D once in the edge-first phase (without rewriting
// its endpoints even though B is bumped later in the same operation,
// per the §9 Open Question), then bump B and C as nodes (D is
// untouched since it holds no C1 reference), recreating A->B, A->C,
// and C->D along the way because their endpoint nodes moved.
func TestDiamondWithMixedRefs(t *testing.T) {
	ctx := context.Background()
	e, sess := newEngine(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)
	t2 := t1.Add(time.Minute)

	c1, err := e.AddComponent(ctx, "tag", d("tag"), t0)
	require.NoError(t, err)

	a, err := e.AddNode(ctx, "a", d("a"), nil, t1)
	require.NoError(t, err)
	b, err := e.AddNode(ctx, "b", d("b"), []ids.Locator{c1.Locator}, t1)
	require.NoError(t, err)
	c, err := e.AddNode(ctx, "c", d("c"), []ids.Locator{c1.Locator}, t1)
	require.NoError(t, err)
	dNode, err := e.AddNode(ctx, "d", d("d"), nil, t1)
	require.NoError(t, err)

	ab, err := e.AddEdge(ctx, "ab", a.Locator, b.Locator, d("ab"), nil, t1)
	require.NoError(t, err)
	ac, err := e.AddEdge(ctx, "ac", a.Locator, c.Locator, d("ac"), nil, t1)
	require.NoError(t, err)
	bd, err := e.AddEdge(ctx, "bd", b.Locator, dNode.Locator, d("bd"), []ids.Locator{c1.Locator}, t1)
	require.NoError(t, err)
	cd, err := e.AddEdge(ctx, "cd", c.Locator, dNode.Locator, d("cd"), nil, t1)
	require.NoError(t, err)

	c2, err := e.UpdateComponent(ctx, c1.Locator.ID, engine.ComponentUpdate{}, t2)
	require.NoError(t, err)
	require.Equal(t, int64(2), c2.Locator.Version)

	graph := sess.Graph()

	a2, found, err := graph.Nodes.FindActive(ctx, a.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(1), a2.Locator.Version, "a holds no C1 reference")

	b2, found, err := graph.Nodes.FindActive(ctx, b.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), b2.Locator.Version)
	require.Contains(t, b2.Components, c2.Locator)

	c2Node, found, err := graph.Nodes.FindActive(ctx, c.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), c2Node.Locator.Version)
	require.Contains(t, c2Node.Components, c2.Locator)

	d2, found, err := graph.Nodes.FindActive(ctx, dNode.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(1), d2.Locator.Version, "d holds no C1 reference and is never a cascade target")

	// bd carries C1 directly, so it is recreated in the edge-first
	// phase, before b is bumped; its source keeps pointing at b's
	// pre-cascade (v1) locator, never rewritten to b2.
	bd2, found, err := graph.Edges.FindActive(ctx, bd.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), bd2.Locator.Version)
	require.Equal(t, b.Locator, bd2.Source, "edge-first recreation keeps the pre-cascade endpoint locator")
	require.NotEqual(t, b2.Locator, bd2.Source)
	require.Equal(t, dNode.Locator, bd2.Target)
	require.Contains(t, bd2.Components, c2.Locator)

	// ab and cd only bump because their endpoint nodes (b, c) moved
	// during the node-cascade phase; neither ever referenced C1.
	ab2, found, err := graph.Edges.FindActive(ctx, ab.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), ab2.Locator.Version)
	require.Equal(t, a.Locator, ab2.Source)
	require.Equal(t, b2.Locator, ab2.Target)

	ac2, found, err := graph.Edges.FindActive(ctx, ac.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), ac2.Locator.Version)
	require.Equal(t, a.Locator, ac2.Source)
	require.Equal(t, c2Node.Locator, ac2.Target)

	cd2, found, err := graph.Edges.FindActive(ctx, cd.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(2), cd2.Locator.Version)
	require.Equal(t, c2Node.Locator, cd2.Source)
	require.Equal(t, dNode.Locator, cd2.Target)
}

func TestExpireComponentNotActiveErrors(t *testing.T) {
	ctx := context.Background()
	e, _ := newEngine(t)
	_, err := e.ExpireComponent(ctx, ids.New(), time.Now().UTC())
	require.Error(t, err)
	require.Equal(t, storage.KindNotActive, storage.KindOf(err))
}
