// Package memory is the in-process storage backend: no external
// dependency, entities held in maps guarded by a mutex, Data payloads
// round-tripped through the property-map codec (internal/payload/propmap)
// so the flat storage shape described in spec §4.2 has a concrete home
// distinct from the dolt/mysql backends' JSON shape.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
	"github.com/chronograph-db/chronograph/internal/payload/propmap"
	"github.com/chronograph-db/chronograph/internal/storage"
)

// nodeRow, edgeRow, componentRow are the rows actually held in memory:
// Data is serialized through the codec on write and reconstructed on
// read, rather than kept as a live payload.Data value, so that the
// codec's round-trip law (spec §8) is exercised on every access rather
// than assumed.
type nodeRow struct {
	Locator    ids.Locator
	Type       string
	Raw        []byte
	Class      string
	Components []ids.Locator
	Created    time.Time
	Expired    time.Time
}

type edgeRow struct {
	Locator    ids.Locator
	Type       string
	Source     ids.Locator
	Target     ids.Locator
	Raw        []byte
	Class      string
	Components []ids.Locator
	Created    time.Time
	Expired    time.Time
}

type componentRow struct {
	Locator ids.Locator
	Type    string
	Raw     []byte
	Class   string
	Created time.Time
	Expired time.Time
}

// Backend is the shared, committed state for a memory-backed graph. One
// Backend may serve many sessions sequentially; per spec §5 the engine
// assumes at most one session mutates a given logical graph at a time.
type Backend struct {
	mu         sync.Mutex
	codec      payload.Codec
	nodes      map[ids.Id][]nodeRow
	edges      map[ids.Id][]edgeRow
	components map[ids.Id][]componentRow
}

// NewBackend returns an empty in-process backend.
func NewBackend() *Backend {
	return &Backend{
		codec:      propmap.New(),
		nodes:      make(map[ids.Id][]nodeRow),
		edges:      make(map[ids.Id][]edgeRow),
		components: make(map[ids.Id][]componentRow),
	}
}

// NewSession implements storage.SessionFactory.
func (b *Backend) NewSession(ctx context.Context) (storage.Session, error) {
	return &session{backend: b}, nil
}
