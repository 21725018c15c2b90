package entity

import (
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/payload"
)

// Node is an immutable record for one version of a graph vertex. Created
// and Expired (via the embedded Temporal) establish the version's window
// of validity; ActiveAt is inherited from Temporal.
type Node struct {
	Locator    ids.Locator
	Type       string
	Data       payload.Data
	Components []ids.Locator
	Temporal
}

// HasComponent reports whether this node version carries cid among its
// component memberships.
func (n Node) HasComponent(cid ids.Locator) bool {
	for _, c := range n.Components {
		if c == cid {
			return true
		}
	}
	return false
}
