package settings

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rbac-console/admin-console/src/internal/errors"
)

// FieldKind is the declared input type of a settings field.
type FieldKind string

const (
	KindText        FieldKind = "text"
	KindEmail       FieldKind = "email"
	KindPassword    FieldKind = "password"
	KindColor       FieldKind = "color"
	KindSelect      FieldKind = "select"
	KindTextarea    FieldKind = "textarea"
	KindNumber      FieldKind = "number"
	KindCheckbox    FieldKind = "checkbox"
	KindMultiSelect FieldKind = "select-multiple"
)

// FieldDescriptor is the flat UI state of one input bound to a settings path.
type FieldDescriptor struct {
	Path Path      `json:"path"`
	Kind FieldKind `json:"kind"`
	// Value is the raw text of text-like and number inputs.
	Value string `json:"value,omitempty"`
	// Checked is the state of checkbox inputs.
	Checked bool `json:"checked,omitempty"`
	// Selected holds the chosen options of multi-select inputs, in order.
	Selected []string `json:"selected,omitempty"`
}

// Coerce converts the raw input into the leaf value stored in a Tree.
func (f FieldDescriptor) Coerce() (any, error) {
	switch f.Kind {
	case KindCheckbox:
		return f.Checked, nil
	case KindNumber:
		raw := strings.TrimSpace(f.Value)
		if raw == "" {
			return nil, fmt.Errorf("a number is required")
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a whole number", f.Value)
		}
		return n, nil
	case KindMultiSelect:
		selected := make([]string, len(f.Selected))
		copy(selected, f.Selected)
		return selected, nil
	default:
		return f.Value, nil
	}
}

// FieldError describes why one field could not be gathered.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// FieldErrors is a collection of field errors.
type FieldErrors []FieldError

// Error implements the error interface
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "no field errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d invalid field(s):\n", len(fe)))
	for i, err := range fe {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Path, err.Message))
	}
	return sb.String()
}

// Paths returns the dotted paths of all invalid fields.
func (fe FieldErrors) Paths() []string {
	paths := make([]string, len(fe))
	for i, e := range fe {
		paths[i] = e.Path
	}
	return paths
}

// Gather builds a fresh Tree from the given fields. Every field is coerced
// according to its kind; invalid input is reported for all offending paths at
// once as a VALIDATION_ERROR wrapping FieldErrors, and no tree is returned.
func Gather(fields []FieldDescriptor) (Tree, error) {
	tree := Tree{}
	var fieldErrors FieldErrors
	seen := make(map[string]bool, len(fields))

	for _, f := range fields {
		key := f.Path.String()
		if err := f.Path.Validate(); err != nil {
			fieldErrors = append(fieldErrors, FieldError{Path: key, Message: err.Error()})
			continue
		}
		if seen[key] {
			fieldErrors = append(fieldErrors, FieldError{Path: key, Message: "field is bound more than once"})
			continue
		}
		seen[key] = true

		value, err := f.Coerce()
		if err != nil {
			fieldErrors = append(fieldErrors, FieldError{Path: key, Message: err.Error()})
			continue
		}
		if existing, ok := tree.Get(f.Path); ok {
			if _, isSection := asTree(existing); isSection {
				fieldErrors = append(fieldErrors, FieldError{Path: key, Message: "path is a section, not a value"})
				continue
			}
		}
		if err := tree.Set(f.Path, value); err != nil {
			fieldErrors = append(fieldErrors, FieldError{Path: key, Message: err.Error()})
		}
	}

	if len(fieldErrors) > 0 {
		return nil, errors.NewValidationError("invalid settings input", fieldErrors)
	}
	return tree, nil
}

// Overlay gathers fields and writes their values over a deep copy of base.
// Leaves of base that no field covers keep their loaded type and value,
// including nulls, fractional numbers and empty sections.
func Overlay(base Tree, fields []FieldDescriptor) (Tree, error) {
	gathered, err := Gather(fields)
	if err != nil {
		return nil, err
	}

	out := base.Clone()
	if out == nil {
		out = Tree{}
	}
	var fieldErrors FieldErrors
	for _, f := range fields {
		if existing, ok := out.Get(f.Path); ok {
			if _, isSection := asTree(existing); isSection {
				fieldErrors = append(fieldErrors, FieldError{Path: f.Path.String(), Message: "path is a section, not a value"})
				continue
			}
		}
		value, _ := gathered.Get(f.Path)
		if err := out.Set(f.Path, value); err != nil {
			fieldErrors = append(fieldErrors, FieldError{Path: f.Path.String(), Message: err.Error()})
		}
	}

	if len(fieldErrors) > 0 {
		return nil, errors.NewValidationError("invalid settings input", fieldErrors)
	}
	return out, nil
}

// Flatten produces one field per leaf of the tree, sorted by path. Kinds are
// inferred from the leaf type so that Gather(Flatten(t)) reproduces t.
// Non-integral numbers become text fields and empty sections produce no
// field; both are lost on the way back.
func Flatten(t Tree) []FieldDescriptor {
	var fields []FieldDescriptor
	flattenInto(&fields, nil, t)
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Path.String() < fields[j].Path.String()
	})
	return fields
}

func flattenInto(fields *[]FieldDescriptor, prefix Path, t Tree) {
	for key, v := range t {
		path := prefix.Child(key)
		if sub, ok := asTree(v); ok {
			flattenInto(fields, path, sub)
			continue
		}
		*fields = append(*fields, FieldForValue(path, v))
	}
}

// FieldForValue builds the field descriptor representing a single leaf value.
func FieldForValue(path Path, v any) FieldDescriptor {
	switch val := v.(type) {
	case bool:
		return FieldDescriptor{Path: path, Kind: KindCheckbox, Checked: val}
	case int64:
		return FieldDescriptor{Path: path, Kind: KindNumber, Value: strconv.FormatInt(val, 10)}
	case int:
		return FieldDescriptor{Path: path, Kind: KindNumber, Value: strconv.Itoa(val)}
	case float64:
		return FieldDescriptor{Path: path, Kind: KindText, Value: strconv.FormatFloat(val, 'f', -1, 64)}
	case []string:
		return FieldDescriptor{Path: path, Kind: KindMultiSelect, Selected: append([]string(nil), val...)}
	case string:
		return FieldDescriptor{Path: path, Kind: KindText, Value: val}
	case nil:
		return FieldDescriptor{Path: path, Kind: KindText}
	default:
		return FieldDescriptor{Path: path, Kind: KindText, Value: fmt.Sprint(val)}
	}
}
