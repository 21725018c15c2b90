// Package payload defines the typed, opaque value attached to every node,
// edge, and component, plus the Codec contract used to move it to and from
// a storage backend.
package payload

// Data is the typed payload carried by a node, edge, or component. Class
// names the logical schema the caller expects (e.g. "person.v1") so a
// deserializer can validate or default shape without a central registry.
// Attrs is an opaque property bag; chronograph never inspects its contents.
type Data struct {
	Class string
	Attrs map[string]any
}

// Equal compares two Data values for field-for-field equality, treating a
// nil Attrs map as equivalent to an empty one.
func (d Data) Equal(other Data) bool {
	if d.Class != other.Class {
		return false
	}
	if len(d.Attrs) != len(other.Attrs) {
		return false
	}
	for k, v := range d.Attrs {
		ov, ok := other.Attrs[k]
		if !ok || !equalValue(v, ov) {
			return false
		}
	}
	return true
}

func equalValue(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			if !equalValue(v, bv[k]) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Codec serializes and deserializes Data to and from a backend's native
// byte representation. Backends with different storage shapes (a single
// JSON text column vs. a flat property-map table) register interchangeable
// codecs rather than each hand-rolling encoding logic.
type Codec interface {
	// Serialize renders d to bytes.
	Serialize(d Data) ([]byte, error)
	// Deserialize parses bytes back into a Data value. classHint is used
	// when the wire format does not self-describe the class (e.g. a bare
	// property map); codecs that embed the class in the payload may ignore
	// it in favor of what was encoded.
	Deserialize(raw []byte, classHint string) (Data, error)
}
