// Package forms describes the settings form: its sections, groups and
// fields, each bound to a settings path with a kind, a default, an option
// list and validation rules.
//
// Bind produces the field collection for one render pass from a settings
// tree. Leaves the catalog does not know about are carried as hidden fields
// so a save never drops them. Validate checks a gathered tree against the
// catalog rules using go-playground/validator.
package forms
