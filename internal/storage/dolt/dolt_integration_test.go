//go:build integration

package dolt_test

import (
	"context"
	"testing"
	"time"

	tcdolt "github.com/testcontainers/testcontainers-go/modules/dolt"

	"github.com/chronograph-db/chronograph/internal/entity"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
	"github.com/chronograph-db/chronograph/internal/storage"
	"github.com/chronograph-db/chronograph/internal/storage/mysql"
	"github.com/stretchr/testify/require"
)

// TestDoltBackendRoundTrip runs the storage contract's round-trip law
// against a real Dolt sql-server in a container: save, find, expire,
// and find-active-after-expire all behave the
// same way they do against the in-memory backend in
// internal/storage/memory/memory_test.go. Dolt speaks the MySQL wire
// protocol, so the connection goes through the same sqlstore-backed
// internal/storage/mysql.Open the real MySQL backend uses — this test
// exists to prove the schema and queries in internal/storage/sqlstore
// are genuinely backend-neutral, not just that they pass against
// mysql.
//
// Requires a working Docker daemon; skipped unless built with the
// "integration" tag, the same gate the teacher's
// cmd/bd/dolt_metadata_e2e_test.go uses for its own dolt e2e test.
func TestDoltBackendRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcdolt.Run(ctx, "dolthub/dolt-sql-server:1.40.9",
		tcdolt.WithDatabase("chronograph"),
		tcdolt.WithUsername("root"),
		tcdolt.WithPassword(""),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	dsn, err := container.ConnectionString(ctx, "parseTime=false")
	require.NoError(t, err)

	store, err := mysql.Open(ctx, dsn)
	require.NoError(t, err)

	loc := ids.NewLocator()
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	n := entity.Node{
		Locator:  loc,
		Type:     "person",
		Data:     payload.Data{Class: "person.v1", Attrs: map[string]any{"name": "Ada"}},
		Temporal: entity.Temporal{Created: created},
	}

	err = storage.RunInSession(ctx, store, func(sess storage.Session) error {
		return sess.Graph().Nodes.Save(ctx, n)
	})
	require.NoError(t, err)

	var got entity.Node
	var found bool
	err = storage.RunInSession(ctx, store, func(sess storage.Session) error {
		var err error
		got, found, err = sess.Graph().Nodes.Find(ctx, loc)
		return err
	})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, n.Type, got.Type)
	require.True(t, n.Data.Equal(got.Data))
	require.Equal(t, n.Created, got.Created)

	expiredAt := created.Add(24 * time.Hour)
	err = storage.RunInSession(ctx, store, func(sess storage.Session) error {
		_, err := sess.Graph().Nodes.Expire(ctx, loc.ID, expiredAt)
		return err
	})
	require.NoError(t, err)

	err = storage.RunInSession(ctx, store, func(sess storage.Session) error {
		_, found, err = sess.Graph().Nodes.FindActive(ctx, loc.ID)
		return err
	})
	require.NoError(t, err)
	require.False(t, found, "expired node must not surface as active")
}
