package entity

import "time"

// Temporal holds the created/expired fields shared by every versioned
// entity (Node, Edge, Component). Expired is the zero time.Time when the
// entity has no later version superseding it yet.
type Temporal struct {
	Created time.Time
	Expired time.Time // zero value means "not expired"
}

// HasExpired reports whether Expired has been set.
func (t Temporal) HasExpired() bool {
	return !t.Expired.IsZero()
}

// ActiveAt reports whether the entity was active at instant at: created at
// or before at, and either never expired or expired strictly after at.
// Expired is an exclusive upper bound, so a version is no longer active
// exactly at its own Expired instant — that instant belongs to whatever
// version superseded it.
func (t Temporal) ActiveAt(at time.Time) bool {
	if t.Created.After(at) {
		return false
	}
	if t.HasExpired() && !t.Expired.After(at) {
		return false
	}
	return true
}

// TruncateToMillis truncates at to millisecond resolution, matching the
// storage contract's on-disk timestamp precision so in-memory comparisons
// agree with round-tripped values.
func TruncateToMillis(at time.Time) time.Time {
	return at.Truncate(time.Millisecond)
}
