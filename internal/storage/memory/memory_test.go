package memory

import (
	"context"
	"testing"
	"time"

	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
	"github.com/chronograph-db/chronograph/internal/storage"
	"github.com/stretchr/testify/require"
)

func TestSaveFindRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	loc := ids.NewLocator()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := entity.Node{
		Locator: loc,
		Type:    "person",
		Data:    payload.Data{Class: "person", Attrs: map[string]any{"name": "Ada", "tags": []any{"x", "y"}}},
		Temporal: entity.Temporal{Created: created},
	}

	err := storage.RunInSession(ctx, b, func(sess storage.Session) error {
		return sess.Graph().Nodes.Save(ctx, n)
	})
	require.NoError(t, err)

	var got entity.Node
	var found bool
	err = storage.RunInSession(ctx, b, func(sess storage.Session) error {
		var err error
		got, found, err = sess.Graph().Nodes.Find(ctx, loc)
		return err
	})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, n.Type, got.Type)
	require.True(t, n.Data.Equal(got.Data))
	require.Equal(t, n.Created, got.Created)
}

func TestRollbackDiscardsUncommittedWrites(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	loc := ids.NewLocator()
	n := entity.Node{Locator: loc, Type: "x", Data: payload.Data{Class: "x"}, Temporal: entity.Temporal{Created: time.Now().UTC()}}

	sess, err := b.NewSession(ctx)
	require.NoError(t, err)
	require.NoError(t, sess.Graph().Nodes.Save(ctx, n))
	require.NoError(t, sess.Rollback(ctx))

	err = storage.RunInSession(ctx, b, func(sess storage.Session) error {
		_, found, err := sess.Graph().Nodes.Find(ctx, loc)
		require.False(t, found)
		return err
	})
	require.NoError(t, err)
}

func TestExpireThenFindActiveEmpty(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	loc := ids.NewLocator()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := entity.Node{Locator: loc, Type: "x", Data: payload.Data{Class: "x"}, Temporal: entity.Temporal{Created: created}}

	require.NoError(t, storage.RunInSession(ctx, b, func(sess storage.Session) error {
		return sess.Graph().Nodes.Save(ctx, n)
	}))

	at := created.Add(time.Hour)
	require.NoError(t, storage.RunInSession(ctx, b, func(sess storage.Session) error {
		ok, err := sess.Graph().Nodes.Expire(ctx, loc.ID, at)
		require.True(t, ok)
		return err
	}))

	require.NoError(t, storage.RunInSession(ctx, b, func(sess storage.Session) error {
		_, found, err := sess.Graph().Nodes.FindActive(ctx, loc.ID)
		require.False(t, found)
		return err
	}))
}

func TestSaveConflictingVersionFails(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	loc := ids.NewLocator()
	n1 := entity.Node{Locator: loc, Type: "a", Data: payload.Data{Class: "a"}, Temporal: entity.Temporal{Created: time.Now().UTC()}}
	n2 := entity.Node{Locator: loc, Type: "b", Data: payload.Data{Class: "b"}, Temporal: entity.Temporal{Created: time.Now().UTC()}}

	require.NoError(t, storage.RunInSession(ctx, b, func(sess storage.Session) error {
		return sess.Graph().Nodes.Save(ctx, n1)
	}))

	err := storage.RunInSession(ctx, b, func(sess storage.Session) error {
		return sess.Graph().Nodes.Save(ctx, n2)
	})
	require.Error(t, err)
	require.Equal(t, storage.KindConflict, storage.KindOf(err))
}

func TestDeletePurgesAllVersions(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	loc := ids.NewLocator()
	n := entity.Node{Locator: loc, Type: "x", Data: payload.Data{Class: "x"}, Temporal: entity.Temporal{Created: time.Now().UTC()}}

	require.NoError(t, storage.RunInSession(ctx, b, func(sess storage.Session) error {
		return sess.Graph().Nodes.Save(ctx, n)
	}))
	require.NoError(t, storage.RunInSession(ctx, b, func(sess storage.Session) error {
		ok, err := sess.Graph().Nodes.Delete(ctx, loc.ID)
		require.True(t, ok)
		return err
	}))
	require.NoError(t, storage.RunInSession(ctx, b, func(sess storage.Session) error {
		_, found, err := sess.Graph().Nodes.FindActive(ctx, loc.ID)
		require.False(t, found)
		return err
	}))
}
