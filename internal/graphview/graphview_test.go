package graphview_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chronograph-db/chronograph/internal/engine"
	"github.com/chronograph-db/chronograph/internal/graphview"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
	"github.com/chronograph-db/chronograph/internal/storage/memory"
)

func d(class string) payload.Data { return payload.Data{Class: class, Attrs: map[string]any{}} }

type chainIDs struct {
	a, b, c, dNode, isolated ids.Id
}

// builds A -> B -> C -> D, plus an isolated node.
func buildChain(t *testing.T) (*graphview.Snapshot, chainIDs) {
	t.Helper()
	ctx := context.Background()
	backend := memory.NewBackend()
	sess, err := backend.NewSession(ctx)
	require.NoError(t, err)
	e := engine.New(sess.Graph())
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a, err := e.AddNode(ctx, "n", d("n"), nil, t0)
	require.NoError(t, err)
	b, err := e.AddNode(ctx, "n", d("n"), nil, t0)
	require.NoError(t, err)
	c, err := e.AddNode(ctx, "n", d("n"), nil, t0)
	require.NoError(t, err)
	dNode, err := e.AddNode(ctx, "n", d("n"), nil, t0)
	require.NoError(t, err)
	isolated, err := e.AddNode(ctx, "n", d("n"), nil, t0)
	require.NoError(t, err)

	_, err = e.AddEdge(ctx, "next", a.Locator, b.Locator, d("edge"), nil, t0)
	require.NoError(t, err)
	_, err = e.AddEdge(ctx, "next", b.Locator, c.Locator, d("edge"), nil, t0)
	require.NoError(t, err)
	_, err = e.AddEdge(ctx, "next", c.Locator, dNode.Locator, d("edge"), nil, t0)
	require.NoError(t, err)

	snap, err := graphview.Build(ctx, sess.Graph())
	require.NoError(t, err)

	return snap, chainIDs{
		a:        a.Locator.ID,
		b:        b.Locator.ID,
		c:        c.Locator.ID,
		dNode:    dNode.Locator.ID,
		isolated: isolated.Locator.ID,
	}
}

func TestPathExists(t *testing.T) {
	snap, chain := buildChain(t)
	require.True(t, snap.PathExists(chain.a, chain.dNode))
	require.True(t, snap.PathExists(chain.dNode, chain.a), "edges are traversable in both directions")
	require.False(t, snap.PathExists(chain.a, chain.isolated))
	require.True(t, snap.PathExists(chain.a, chain.a))
}

func TestShortestPath(t *testing.T) {
	snap, chain := buildChain(t)

	path, err := snap.ShortestPath(chain.a, chain.dNode)
	require.NoError(t, err)
	require.Len(t, path, 7) // node, edge, node, edge, node, edge, node
	require.Equal(t, chain.a, path[0].Node.Locator.ID)
	require.Equal(t, chain.dNode, path[len(path)-1].Node.Locator.ID)
	for i, el := range path {
		if i%2 == 0 {
			require.NotNil(t, el.Node)
			require.Nil(t, el.Edge)
		} else {
			require.NotNil(t, el.Edge)
			require.Nil(t, el.Node)
		}
	}

	_, err = snap.ShortestPath(chain.a, chain.isolated)
	require.ErrorIs(t, err, graphview.ErrNoPath)

	same, err := snap.ShortestPath(chain.a, chain.a)
	require.NoError(t, err)
	require.Len(t, same, 1)
}

func TestAllPaths(t *testing.T) {
	snap, chain := buildChain(t)

	paths := snap.AllPaths(chain.a, chain.dNode, 0)
	require.Len(t, paths, 1)

	none := snap.AllPaths(chain.a, chain.isolated, 0)
	require.Empty(t, none)
}

func TestAllPathsRespectsMaxDepth(t *testing.T) {
	snap, chain := buildChain(t)

	paths := snap.AllPaths(chain.a, chain.dNode, 2) // chain needs 3 hops
	require.Empty(t, paths)

	paths = snap.AllPaths(chain.a, chain.dNode, 3)
	require.Len(t, paths, 1)
}

func TestAllConnectedPaths(t *testing.T) {
	snap, chain := buildChain(t)

	all := snap.AllConnectedPaths()
	_, fwd := all[[2]ids.Id{chain.a, chain.dNode}]
	_, rev := all[[2]ids.Id{chain.dNode, chain.a}]
	require.True(t, fwd || rev, "connected pair must appear in one canonical order")

	_, fwd = all[[2]ids.Id{chain.a, chain.isolated}]
	_, rev = all[[2]ids.Id{chain.isolated, chain.a}]
	require.False(t, fwd || rev, "disconnected pair must not appear")
}

func TestNeighborsAndIncidence(t *testing.T) {
	snap, chain := buildChain(t)

	require.ElementsMatch(t, []ids.Id{chain.a, chain.c}, snap.Neighbors(chain.b))
	require.Len(t, snap.OutgoingEdges(chain.b), 1)
	require.Len(t, snap.IncomingEdges(chain.b), 1)
	require.Empty(t, snap.Neighbors(chain.isolated))
}
