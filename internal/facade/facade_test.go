package facade_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chronograph-db/chronograph/internal/engine"
	"github.com/chronograph-db/chronograph/internal/facade"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
	"github.com/chronograph-db/chronograph/internal/storage"
	"github.com/chronograph-db/chronograph/internal/storage/memory"
)

func d(class string) payload.Data { return payload.Data{Class: class, Attrs: map[string]any{}} }

func newFacade() *facade.Facade {
	return facade.New(memory.NewBackend(), nil)
}

func TestNodeLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFacade()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	n, err := f.Node.Add(ctx, "person", d("person"), nil, t0)
	require.NoError(t, err)

	active, found, err := f.Node.FindActive(ctx, n.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, n.Locator, active.Locator)

	newType := "employee"
	t1 := t0.Add(time.Hour)
	updated, err := f.Node.Update(ctx, n.Locator.ID, engine.NodeUpdate{Type: &newType}, t1)
	require.NoError(t, err)
	require.Equal(t, int64(2), updated.Locator.Version)
	require.Equal(t, "employee", updated.Type)

	versions, err := f.Node.FindAllVersions(ctx, n.Locator.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)

	t2 := t1.Add(time.Hour)
	expired, err := f.Node.Expire(ctx, n.Locator.ID, t2)
	require.NoError(t, err)
	require.Equal(t, t2, expired.Expired)

	_, found, err = f.Node.FindActive(ctx, n.Locator.ID)
	require.NoError(t, err)
	require.False(t, found)
}

func TestEdgeFacadeAndGraphQueries(t *testing.T) {
	ctx := context.Background()
	f := newFacade()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a, err := f.Node.Add(ctx, "n", d("n"), nil, t0)
	require.NoError(t, err)
	b, err := f.Node.Add(ctx, "n", d("n"), nil, t0)
	require.NoError(t, err)
	c, err := f.Node.Add(ctx, "n", d("n"), nil, t0)
	require.NoError(t, err)

	_, err = f.Edge.Add(ctx, "knows", a.Locator, b.Locator, d("e"), nil, t0)
	require.NoError(t, err)
	_, err = f.Edge.Add(ctx, "knows", b.Locator, c.Locator, d("e"), nil, t0)
	require.NoError(t, err)

	hasPath, err := f.Graph.HasPath(ctx, a.Locator.ID, c.Locator.ID)
	require.NoError(t, err)
	require.True(t, hasPath)

	path, err := f.Graph.ShortestPath(ctx, a.Locator.ID, c.Locator.ID)
	require.NoError(t, err)
	require.Len(t, path, 5)

	neighbors, err := f.Graph.Neighbors(ctx, b.Locator.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{string(a.Locator.ID), string(c.Locator.ID)}, idsToStrings(neighbors))
}

func idsToStrings[T fmt.Stringer](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.String()
	}
	return out
}

func TestComponentFacadeCascade(t *testing.T) {
	ctx := context.Background()
	f := newFacade()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Minute)

	c, err := f.Component.Add(ctx, "tag", d("tag"), t0)
	require.NoError(t, err)

	n, err := f.Node.Add(ctx, "n", d("n"), []ids.Locator{c.Locator}, t0)
	require.NoError(t, err)

	c2, err := f.Component.Update(ctx, c.Locator.ID, engine.ComponentUpdate{}, t1)
	require.NoError(t, err)
	require.Equal(t, int64(2), c2.Locator.Version)

	n2, found, err := f.Node.FindActive(ctx, n.Locator.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Contains(t, n2.Components, c2.Locator)
}

func TestNodeExpireKindNotActive(t *testing.T) {
	ctx := context.Background()
	f := newFacade()
	_, err := f.Node.Expire(ctx, "missing", time.Now().UTC())
	require.Error(t, err)
	require.Equal(t, storage.KindNotActive, storage.KindOf(err))
}
