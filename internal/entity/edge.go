package entity

import (
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
)

// Edge is an immutable record for one version of a directed arc between
// two node versions. Source and Target are bound to the specific endpoint
// versions that existed when this edge version was created — not merely
// the endpoint ids — so an edge's meaning never silently shifts when its
// endpoint is superseded; a fresh edge version is recreated instead (see
// the integrity engine's node-update cascade).
type Edge struct {
	Locator    ids.Locator
	Type       string
	Source     ids.Locator
	Target     ids.Locator
	Data       payload.Data
	Components []ids.Locator
	Temporal
}

// HasComponent reports whether this edge version carries cid among its
// component memberships.
func (e Edge) HasComponent(cid ids.Locator) bool {
	for _, c := range e.Components {
		if c == cid {
			return true
		}
	}
	return false
}
