// Package jsoncodec implements the textual-structured payload codec: Data
// is rendered as a single self-describing JSON document, suited to
// backends that store the payload in one text/JSON column (sqlite, dolt,
// mysql).
package jsoncodec

import (
	"encoding/json"
	"fmt"

	"github.com/chronograph-db/chronograph/internal/payload"
)

// wireData mirrors payload.Data but gives the JSON document stable,
// intentional field names independent of the Go struct tags.
type wireData struct {
	Class string         `json:"class"`
	Attrs map[string]any `json:"attrs"`
}

// Codec implements payload.Codec using encoding/json.
type Codec struct{}

// New returns a ready-to-use textual-structured codec.
func New() Codec { return Codec{} }

// Serialize renders d as a single JSON object: {"class":..., "attrs":{...}}.
func (Codec) Serialize(d payload.Data) ([]byte, error) {
	out, err := json.Marshal(wireData{Class: d.Class, Attrs: d.Attrs})
	if err != nil {
		return nil, fmt.Errorf("jsoncodec: serialize: %w", err)
	}
	return out, nil
}

// Deserialize parses a JSON document produced by Serialize. The embedded
// class always wins over classHint; classHint is only used as a fallback
// when the document omits "class" (e.g. a bare property map was stored by
// an older writer).
func (Codec) Deserialize(raw []byte, classHint string) (payload.Data, error) {
	if len(raw) == 0 {
		return payload.Data{Class: classHint, Attrs: map[string]any{}}, nil
	}
	var w wireData
	if err := json.Unmarshal(raw, &w); err != nil {
		return payload.Data{}, fmt.Errorf("jsoncodec: deserialize: %w", err)
	}
	if w.Class == "" {
		w.Class = classHint
	}
	if w.Attrs == nil {
		w.Attrs = map[string]any{}
	}
	return payload.Data{Class: w.Class, Attrs: w.Attrs}, nil
}
