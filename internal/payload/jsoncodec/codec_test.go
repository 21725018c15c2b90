package jsoncodec

import (
	"testing"

	"github.com/chronograph-db/chronograph/internal/payload"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	c := New()
	d := payload.Data{
		Class: "person.v1",
		Attrs: map[string]any{
			"name": "Ada",
			"age":  float64(36),
			"tags": []any{"founder", "mathematician"},
		},
	}

	raw, err := c.Serialize(d)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := c.Deserialize(raw, "")
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !got.Equal(d) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, d)
	}
}

func TestDeserializeUsesClassHintWhenMissing(t *testing.T) {
	c := New()
	got, err := c.Deserialize([]byte(`{"attrs":{"a":1}}`), "fallback.v1")
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Class != "fallback.v1" {
		t.Fatalf("Class = %q, want fallback.v1", got.Class)
	}
}

func TestDeserializeEmptyBytes(t *testing.T) {
	c := New()
	got, err := c.Deserialize(nil, "empty.v1")
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Class != "empty.v1" || len(got.Attrs) != 0 {
		t.Fatalf("got %+v, want empty attrs with hinted class", got)
	}
}
