package engine

import "github.com/chronograph-db/chronograph/internal/ids"

// RemapTable maps an old component locator to its new locator during a
// Component.Update cascade; UpdateComponent builds it with exactly one
// {old -> new} pair for the component it updates. Spec §9 requires
// this be threaded explicitly through the call chain rather than held
// as ambient mutable state, so it is passed by value (a map is a
// reference type, but the table itself is never mutated after the
// single top-level Component.Update call that creates it).
type RemapTable map[ids.Locator]ids.Locator

// Apply returns components with any locator present in rt replaced by
// its remapped value; locators not in rt pass through unchanged.
func (rt RemapTable) Apply(components []ids.Locator) []ids.Locator {
	if rt == nil || len(components) == 0 {
		return components
	}
	out := make([]ids.Locator, len(components))
	for i, c := range components {
		if newLoc, ok := rt[c]; ok {
			out[i] = newLoc
		} else {
			out[i] = c
		}
	}
	return out
}

// RecreatedSet tracks edge ids already recreated during the current
// Component.Update operation's edge-first phase, so the subsequent
// node-cascade phase skips them rather than bumping their version a
// second time (spec §5 ordering guarantee, §9 Open Question).
type RecreatedSet map[ids.Id]bool

func containsLocator(locs []ids.Locator, target ids.Locator) bool {
	for _, l := range locs {
		if l == target {
			return true
		}
	}
	return false
}
