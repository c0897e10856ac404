package settings

import "sort"

// ChangeType tells how a leaf differs between two trees.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

// Change is one differing leaf.
type Change struct {
	Path string     `json:"path"`
	Type ChangeType `json:"type"`
	From any        `json:"from,omitempty"`
	To   any        `json:"to,omitempty"`
}

// Diff returns the leaf-level differences from before to after, sorted by path.
func Diff(before, after Tree) []Change {
	var changes []Change
	diffInto(&changes, nil, before, after)
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

func diffInto(changes *[]Change, prefix Path, before, after Tree) {
	for key, bv := range before {
		path := prefix.Child(key)
		av, ok := after[key]
		if !ok {
			addLeaves(changes, path, bv, ChangeRemoved)
			continue
		}
		bt, bIsTree := asTree(bv)
		at, aIsTree := asTree(av)
		switch {
		case bIsTree && aIsTree:
			diffInto(changes, path, bt, at)
		case bIsTree || aIsTree:
			addLeaves(changes, path, bv, ChangeRemoved)
			addLeaves(changes, path, av, ChangeAdded)
		case !valuesEqual(bv, av):
			*changes = append(*changes, Change{Path: path.String(), Type: ChangeModified, From: bv, To: av})
		}
	}
	for key, av := range after {
		if _, ok := before[key]; !ok {
			addLeaves(changes, prefix.Child(key), av, ChangeAdded)
		}
	}
}

func addLeaves(changes *[]Change, path Path, v any, typ ChangeType) {
	if t, ok := asTree(v); ok {
		for key, sub := range t {
			addLeaves(changes, path.Child(key), sub, typ)
		}
		return
	}
	c := Change{Path: path.String(), Type: typ}
	if typ == ChangeRemoved {
		c.From = v
	} else {
		c.To = v
	}
	*changes = append(*changes, c)
}
