package entity

import (
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
)

// Component is an immutable record for one version of a metadata entity
// that nodes and edges reference by locator to express grouping. A
// component carries no back-reference to the elements that mention it —
// membership is expressed solely by the element carrying the component's
// locator in its own Components set — so the integrity engine finds a
// component's members by scanning the active elements' Components sets
// (see internal/engine) rather than reading anything stored on the
// component itself.
type Component struct {
	Locator ids.Locator
	Type    string
	Data    payload.Data
	Temporal
}
