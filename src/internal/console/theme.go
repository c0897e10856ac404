package console

import (
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/rbac-console/admin-console/src/internal/forms"
	"github.com/rbac-console/admin-console/src/internal/settings"
)

const themeTemplate = `:root {
  --primary-color: {{primary_color}};
  --secondary-color: {{secondary_color}};
}

body {
  font-family: {{font_family}};
}
{{compact}}
/* custom */
{{custom_css}}
`

const compactRules = `
body.compact-mode, body {
  --spacing: 0.5rem;
  font-size: 0.875rem;
}
`

var theme = fasttemplate.New(themeTemplate, "{{", "}}")

// RenderTheme builds the stylesheet for the appearance settings of tree.
// Missing or malformed values fall back to the form defaults.
func RenderTheme(tree settings.Tree) string {
	compact := ""
	if v, _ := tree.Get(settings.Path{"appearance", "layout", "compact_mode"}); v == true {
		compact = compactRules
	}

	return theme.ExecuteString(map[string]interface{}{
		"primary_color":   themeValue(tree, "appearance.theme.primary_color", sanitizeColor),
		"secondary_color": themeValue(tree, "appearance.theme.secondary_color", sanitizeColor),
		"font_family":     themeValue(tree, "appearance.theme.font_family", sanitizeFont),
		"compact":         compact,
		"custom_css":      customCSS(tree),
	})
}

func themeValue(tree settings.Tree, path string, sanitize func(string) (string, bool)) string {
	if v, ok := tree.Get(settings.MustParsePath(path)); ok {
		if s, isString := v.(string); isString {
			if clean, valid := sanitize(s); valid {
				return clean
			}
		}
	}
	f, _ := forms.Lookup(path)
	def, _ := f.Default.(string)
	clean, _ := sanitize(def)
	return clean
}

func sanitizeColor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 7 || !strings.HasPrefix(s, "#") {
		return "", false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", false
		}
	}
	return s, true
}

func sanitizeFont(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, `;{}<>"\`) {
		return "", false
	}
	if strings.Contains(s, " ") {
		return `"` + s + `", sans-serif`, true
	}
	return s + ", sans-serif", true
}

// customCSS returns the operator's stylesheet with anything that could
// close the surrounding style element removed.
func customCSS(tree settings.Tree) string {
	v, _ := tree.Get(settings.Path{"appearance", "custom_css"})
	s, _ := v.(string)
	return strings.ReplaceAll(s, "<", "")
}
