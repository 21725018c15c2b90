// Package propmap implements the property-map payload codec: Data is
// flattened into a single level of scalar-valued keys (dot-joined for
// nesting, index-joined for arrays), the shape a property-graph-style
// backend stores natively as a row of typed columns or key/value pairs
// rather than one opaque document.
//
// The flattening rule — index top-level scalars and one level of
// namespaced nesting via dot-joined keys — mirrors the metadata indexing
// approach used for bd's schemaless issue metadata, generalized here to
// arbitrary depth so the flatten/unflatten pair is a true inverse.
package propmap

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/chronograph-db/chronograph/internal/payload"
)

const classKey = "__class__"

// Codec implements payload.Codec by flattening Data.Attrs into a sorted,
// newline-delimited "key\tjson-scalar" property list.
type Codec struct{}

// New returns a ready-to-use property-map codec.
func New() Codec { return Codec{} }

// Serialize flattens d into a deterministic property list.
func (Codec) Serialize(d payload.Data) ([]byte, error) {
	flat := map[string]any{}
	flatten("", d.Attrs, flat)
	flat[classKey] = d.Class

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	for _, k := range keys {
		encoded, err := json.Marshal(flat[k])
		if err != nil {
			return nil, fmt.Errorf("propmap: serialize key %q: %w", k, err)
		}
		fmt.Fprintf(w, "%s\t%s\n", k, encoded)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("propmap: serialize: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize reconstructs Data from a property list produced by Serialize.
func (Codec) Deserialize(raw []byte, classHint string) (payload.Data, error) {
	flat := map[string]any{}
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		key, encoded, ok := strings.Cut(line, "\t")
		if !ok {
			return payload.Data{}, fmt.Errorf("propmap: malformed property line %q", line)
		}
		var v any
		if err := json.Unmarshal([]byte(encoded), &v); err != nil {
			return payload.Data{}, fmt.Errorf("propmap: deserialize key %q: %w", key, err)
		}
		flat[key] = v
	}
	if err := scanner.Err(); err != nil {
		return payload.Data{}, fmt.Errorf("propmap: deserialize: %w", err)
	}

	class, _ := flat[classKey].(string)
	delete(flat, classKey)
	if class == "" {
		class = classHint
	}

	return payload.Data{Class: class, Attrs: unflatten(flat)}, nil
}

// flatten walks attrs recursively, writing scalar leaves into out under
// dot-joined keys (prefix.key) and array elements under index-joined keys
// (prefix.0, prefix.1, ...).
func flatten(prefix string, attrs map[string]any, out map[string]any) {
	for k, v := range attrs {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		flattenValue(key, v, out)
	}
}

func flattenValue(key string, v any, out map[string]any) {
	switch tv := v.(type) {
	case map[string]any:
		flatten(key, tv, out)
	case []any:
		for i, elem := range tv {
			flattenValue(fmt.Sprintf("%s.%d", key, i), elem, out)
		}
	default:
		out[key] = v
	}
}

// unflatten is flatten's inverse: it rebuilds nested maps (and arrays,
// where a level's keys are a contiguous 0..N run of integers) from a flat
// dot/index-joined key set.
func unflatten(flat map[string]any) map[string]any {
	root := map[string]any{}
	for key, v := range flat {
		parts := strings.Split(key, ".")
		insert(root, parts, v)
	}
	for k, child := range root {
		root[k] = convertArrays(child)
	}
	return root
}

func insert(node map[string]any, parts []string, v any) {
	if len(parts) == 1 {
		node[parts[0]] = v
		return
	}
	child, ok := node[parts[0]].(map[string]any)
	if !ok {
		child = map[string]any{}
		node[parts[0]] = child
	}
	insert(child, parts[1:], v)
}

// convertArrays rewrites any map whose keys are exactly "0".."N-1" into a
// []any in index order, recursively.
func convertArrays(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, child := range m {
		m[k] = convertArrays(child)
	}
	if isIndexRun(m) {
		arr := make([]any, len(m))
		for k, child := range m {
			i, _ := strconv.Atoi(k)
			arr[i] = child
		}
		return arr
	}
	return m
}

func isIndexRun(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	for k := range m {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 || i >= len(m) {
			return false
		}
	}
	return true
}
