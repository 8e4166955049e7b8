// Package validators holds shared ozzo-validation rules and the conversion
// of validation failures into go-errors values.
package validators

import (
	"errors"
	"regexp"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

const TextCodeValidation = "VALIDATION_ERROR"

var (
	hexColor = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)
	slugKey  = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{0,63}$`)
)

// HexColor accepts #rgb and #rrggbb
var HexColor = validation.Match(hexColor).Error("must be a hex color such as #3B82F6")

// Key accepts lowercase content keys such as landing_hero_title
var Key = validation.Match(slugKey).Error("must be lowercase letters, digits, '_', '.' or '-'")

// IfSet returns rules only when the optional field was supplied. Supplied
// fields are required to be non-empty.
func IfSet(set bool, rules ...validation.Rule) []validation.Rule {
	if !set {
		return nil
	}
	return append([]validation.Rule{validation.Required}, rules...)
}

// ToError converts ozzo validation errors into a 400 go-errors value with
// per-field messages in the metadata. Other errors are returned unchanged.
func ToError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return goerrors.New(err.Error(), goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode(TextCodeValidation)
	}

	fields := make([]string, 0, len(fieldErrs))
	for f := range fieldErrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	meta := make(map[string]any, len(fields))
	for _, f := range fields {
		meta[f] = fieldErrs[f].Error()
	}

	return goerrors.New(fieldErrs.Error(), goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest).
		WithTextCode(TextCodeValidation).
		WithMetadata(map[string]any{"fields": meta})
}
