package forms

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rbac-console/admin-console/src/internal/settings"
)

// BoundField is a catalog field bound to a value for one render pass.
type BoundField struct {
	settings.FieldDescriptor
	Label   string   `json:"label,omitempty"`
	Section string   `json:"section,omitempty"`
	Group   string   `json:"group,omitempty"`
	Options []Option `json:"options,omitempty"`
	// Hidden marks a tree leaf the catalog does not describe.
	Hidden bool `json:"hidden,omitempty"`
}

var index = buildIndex()

type indexed struct {
	field   Field
	section string
	group   string
}

func buildIndex() map[string]indexed {
	idx := make(map[string]indexed)
	for _, s := range catalog {
		for _, g := range s.Groups {
			for _, f := range g.Fields {
				idx[f.Path] = indexed{field: f, section: s.ID, group: g.Title}
			}
		}
	}
	return idx
}

// Catalog returns the form sections in display order.
func Catalog() []Section {
	out := make([]Section, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog field for a dotted path.
func Lookup(path string) (Field, bool) {
	entry, ok := index[path]
	return entry.field, ok
}

// Paths returns every catalog path in display order.
func Paths() []string {
	var paths []string
	for _, s := range catalog {
		for _, g := range s.Groups {
			for _, f := range g.Fields {
				paths = append(paths, f.Path)
			}
		}
	}
	return paths
}

// Bind produces the fields for one render pass over tree. Catalog fields
// take the tree value when the leaf exists and the catalog default
// otherwise. Leaves outside the catalog follow as hidden fields, sorted by
// path.
func Bind(tree settings.Tree) []BoundField {
	var fields []BoundField
	for _, s := range catalog {
		for _, g := range s.Groups {
			for _, f := range g.Fields {
				path := settings.MustParsePath(f.Path)
				value, ok := tree.Get(path)
				if !ok {
					value = f.Default
				}
				fields = append(fields, BoundField{
					FieldDescriptor: Describe(path, f.Kind, value),
					Label:           f.Label,
					Section:         s.ID,
					Group:           g.Title,
					Options:         OptionsFor(f, tree),
				})
			}
		}
	}

	for _, extra := range settings.Flatten(tree) {
		if _, known := index[extra.Path.String()]; known {
			continue
		}
		fields = append(fields, BoundField{FieldDescriptor: extra, Hidden: true})
	}
	return fields
}

// Descriptors strips the presentation data from bound fields.
func Descriptors(fields []BoundField) []settings.FieldDescriptor {
	out := make([]settings.FieldDescriptor, len(fields))
	for i, f := range fields {
		out[i] = f.FieldDescriptor
	}
	return out
}

// Describe renders a tree value as the raw input state of a field of the
// given kind.
func Describe(path settings.Path, kind settings.FieldKind, value any) settings.FieldDescriptor {
	fd := settings.FieldDescriptor{Path: path, Kind: kind}
	switch kind {
	case settings.KindCheckbox:
		b, _ := value.(bool)
		fd.Checked = b
	case settings.KindMultiSelect:
		switch v := value.(type) {
		case []string:
			fd.Selected = append([]string{}, v...)
		case string:
			if v != "" {
				fd.Selected = []string{v}
			}
		}
	default:
		fd.Value = formatValue(value)
	}
	return fd
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []string:
		return strings.Join(v, ",")
	default:
		return ""
	}
}

// OptionsFor returns the choices of a select field. Dynamic lists are
// computed from tree; the current value is always offered so a render pass
// never silently changes it.
func OptionsFor(f Field, tree settings.Tree) []Option {
	var opts []Option
	switch f.OptionsFrom {
	case OptionsRoles:
		opts = roleOptions(tree)
	case OptionsTimezones:
		opts = options(timezoneNames...)
	default:
		if len(f.Options) == 0 {
			return nil
		}
		opts = append([]Option{}, f.Options...)
	}

	current, ok := tree.Get(settings.MustParsePath(f.Path))
	if s, isString := current.(string); ok && isString && s != "" && !hasOption(opts, s) {
		opts = append(opts, Option{Value: s, Label: s})
	}
	return opts
}

// roleOptions lists the roles defined under auth.roles, labelled by their
// name. Without roles the default role is the only choice.
func roleOptions(tree settings.Tree) []Option {
	raw, _ := tree.Get(settings.Path{"auth", "roles"})
	roles, ok := raw.(settings.Tree)
	if !ok || len(roles) == 0 {
		return []Option{{Value: "user", Label: "user"}}
	}

	keys := make([]string, 0, len(roles))
	for k := range roles {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]Option, 0, len(keys))
	for _, k := range keys {
		label := k
		if role, ok := roles[k].(settings.Tree); ok {
			if name, ok := role["name"].(string); ok && name != "" {
				label = name
			}
		}
		opts = append(opts, Option{Value: k, Label: label})
	}
	return opts
}

func hasOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
