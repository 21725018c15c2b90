// Package engine is the integrity engine (spec §4.4): the cascading
// mutation logic that decides, for any update or expiration, which
// other entities must be expired, re-created, or re-linked so the
// graph's references stay consistent at every timestamp. The engine
// itself never retries and never suspends beyond the repository calls
// it makes — it is a unit of work against one storage.Graph bound to an
// already-open session.
package engine

import (
	"github.com/chronograph-db/chronograph/internal/storage"
)

// Engine runs cascading operations against graph. A fresh Engine should
// be constructed per session (it holds no state of its own beyond the
// Graph handle; all cascade-local state — RemapTable, RecreatedSet — is
// threaded explicitly through call arguments per spec §9, never held as
// engine-instance state).
type Engine struct {
	graph storage.Graph
}

// New binds an Engine to the repository aggregate of an open session.
func New(graph storage.Graph) *Engine {
	return &Engine{graph: graph}
}
