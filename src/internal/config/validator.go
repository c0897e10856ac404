package config

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rbac-console/admin-console/src/internal/errors"
)

// ValidateConfig validates the entire configuration and returns all
// validation errors as a CONFIG_ERROR wrapping ValidationErrors.
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	sections := []struct {
		name  string
		value any
		isNil bool
	}{
		{"api", c.API, c.API == nil},
		{"console", c.Console, c.Console == nil},
		{"auth", c.Auth, c.Auth == nil},
	}
	for _, s := range sections {
		if s.isNil {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: s.name,
				Message:   "configuration must contain '" + s.name + "' section",
			})
			continue
		}
		if err := validate.Struct(s.value); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, s.name)...)
		}
	}

	if c.API != nil && strings.HasSuffix(c.API.BaseURL, "/api") {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "api.base_url",
			Message:   "must be the server root; the /api prefix is added automatically",
		})
	}

	if c.Console != nil && c.Console.UIDir != "" {
		if info, err := os.Stat(c.GetAbsUIDir()); err != nil || !info.IsDir() {
			validationErrors = append(validationErrors, ValidationError{
				FieldPath: "console.ui_dir",
				Message:   "must be an existing directory: " + c.GetAbsUIDir(),
			})
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewConfigError("invalid configuration", validationErrors)
	}

	return nil
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if stderrors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				// e.Field() returns the TOML tag name because we registered TagNameFunc
				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + e.Field()
				} else {
					fieldPath = e.Field()
				}
			}

			validationErrors = append(validationErrors, ValidationError{
				FieldPath: fieldPath,
				Message:   getValidationMessage(e),
			})
		}
	}

	return validationErrors
}
