package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Tree is a nested settings document. Values are string, bool, int64,
// float64, []string or a nested Tree.
type Tree map[string]any

// ParseTree decodes a JSON object into a normalized Tree.
func ParseTree(data []byte) (Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode settings document: %w", err)
	}
	if raw == nil {
		return Tree{}, nil
	}
	return Normalize(raw)
}

// Normalize converts a generic decoded document (encoding/json, yaml, toml)
// into a Tree with canonical leaf types.
func Normalize(raw map[string]any) (Tree, error) {
	out := make(Tree, len(raw))
	for k, v := range raw {
		nv, err := normalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = nv
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Tree:
		return Normalize(t)
	case map[string]any:
		return Normalize(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", t.String())
		}
		return f, nil
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t), nil
		}
		return t, nil
	case float32:
		return normalizeValue(float64(t))
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint64:
		if t > math.MaxInt64 {
			return nil, fmt.Errorf("number %d out of range", t)
		}
		return int64(t), nil
	case string, bool:
		return t, nil
	case []string:
		return append([]string(nil), t...), nil
	case []any:
		strs := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("only lists of strings are supported, got %T", item)
			}
			strs = append(strs, s)
		}
		return strs, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// MarshalJSON encodes the tree with sorted keys (encoding/json sorts map keys).
func (t Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(t))
}

// Clone returns a deep copy that shares no maps or slices with t.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Tree:
		return t.Clone()
	case map[string]any:
		return Tree(t).Clone()
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// Get returns the value stored at path.
func (t Tree) Get(path Path) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	current := t
	for i, key := range path {
		v, ok := current[key]
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
			return v, true
		}
		next, ok := asTree(v)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// Set writes value at path, creating intermediate trees as needed.
// It fails when an intermediate segment already holds a scalar leaf.
func (t Tree) Set(path Path, value any) error {
	if err := path.Validate(); err != nil {
		return err
	}
	current := t
	for i, key := range path[:len(path)-1] {
		existing, ok := current[key]
		if !ok {
			next := Tree{}
			current[key] = next
			current = next
			continue
		}
		next, ok := asTree(existing)
		if !ok {
			return fmt.Errorf("cannot write %q: %q is a value, not a section", path.String(), path[:i+1].String())
		}
		current = next
	}
	current[path.Leaf()] = value
	return nil
}

// Delete removes the value at path. Empty parent sections are kept.
func (t Tree) Delete(path Path) bool {
	if len(path) == 0 {
		return false
	}
	parent := t
	if len(path) > 1 {
		v, ok := t.Get(path.Parent())
		if !ok {
			return false
		}
		parent, ok = asTree(v)
		if !ok {
			return false
		}
	}
	if _, ok := parent[path.Leaf()]; !ok {
		return false
	}
	delete(parent, path.Leaf())
	return true
}

// Equal reports deep equality. Integers and floats compare by numeric value.
func (t Tree) Equal(other Tree) bool {
	if len(t) != len(other) {
		return false
	}
	for k, v := range t {
		ov, ok := other[k]
		if !ok || !valuesEqual(v, ov) {
			return false
		}
	}
	return true
}

// LeafEqual reports whether two leaf values are equal under the rules of Equal.
func LeafEqual(a, b any) bool {
	return valuesEqual(a, b)
}

func valuesEqual(a, b any) bool {
	if at, ok := asTree(a); ok {
		bt, ok := asTree(b)
		return ok && at.Equal(bt)
	}
	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case []string:
		bv, ok := b.([]string)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return false
}

func asTree(v any) (Tree, bool) {
	switch t := v.(type) {
	case Tree:
		return t, true
	case map[string]any:
		return Tree(t), true
	}
	return nil, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
