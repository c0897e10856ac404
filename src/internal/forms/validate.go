package forms

import (
	stderrors "errors"
	"fmt"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"

	"github.com/rbac-console/admin-console/src/internal/errors"
	"github.com/rbac-console/admin-console/src/internal/settings"
)

var validate = validator.New()

// Validate checks a gathered tree against the catalog rules. Leaves missing
// from tree are skipped, and so are leaves whose value equals the one in
// base: a value the server already holds is accepted as it is. A nil base
// checks every leaf. All failures are returned together as a
// VALIDATION_ERROR wrapping settings.FieldErrors.
func Validate(tree, base settings.Tree) error {
	var fieldErrors settings.FieldErrors

	for _, path := range Paths() {
		f := index[path].field
		p := settings.MustParsePath(path)
		value, ok := tree.Get(p)
		if !ok {
			continue
		}
		if old, held := base.Get(p); held && settings.LeafEqual(old, value) {
			continue
		}

		if msg := checkKind(f, value); msg != "" {
			fieldErrors = append(fieldErrors, settings.FieldError{Path: path, Message: msg})
			continue
		}

		if f.Rules != "" {
			if err := validate.Var(value, f.Rules); err != nil {
				fieldErrors = append(fieldErrors, settings.FieldError{Path: path, Message: ruleMessage(f, err)})
				continue
			}
		}

		if f.Kind == settings.KindSelect && f.OptionsFrom == OptionsStatic {
			if s, _ := value.(string); !hasOption(f.Options, s) {
				fieldErrors = append(fieldErrors, settings.FieldError{
					Path:    path,
					Message: fmt.Sprintf("%q is not one of the available options", s),
				})
			}
		}
	}

	if len(fieldErrors) > 0 {
		return errors.NewValidationError("settings failed validation", fieldErrors)
	}
	return nil
}

func checkKind(f Field, value any) string {
	switch f.Kind {
	case settings.KindCheckbox:
		if _, ok := value.(bool); !ok {
			return "must be true or false"
		}
	case settings.KindNumber:
		if _, ok := value.(int64); !ok {
			return "must be a whole number"
		}
	case settings.KindMultiSelect:
		if _, ok := value.([]string); !ok {
			return "must be a list of options"
		}
	default:
		if _, ok := value.(string); !ok {
			return "must be text"
		}
	}
	return ""
}

func ruleMessage(f Field, err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	e := verrs[0]
	switch e.Tag() {
	case "min":
		if f.Kind == settings.KindNumber {
			return fmt.Sprintf("must be >= %s", e.Param())
		}
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		if f.Kind == settings.KindNumber {
			return fmt.Sprintf("must be <= %s", e.Param())
		}
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "email":
		return "must be a valid email address"
	case "hexcolor":
		return "must be a hex color such as #1a73e8"
	case "timezone":
		return "must be a valid IANA timezone"
	case "hostname_rfc1123|ip":
		return "must be a host name or IP address"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}
