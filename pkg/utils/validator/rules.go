package validator

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Custom validation tags
const (
	TagNoWhitespace = "nowhitespace" // No whitespace characters
	TagTrimmed      = "trimmed"      // No leading/trailing spaces
	TagSlug         = "slug"         // Lowercase alphanumerics and hyphens
	TagURLPrefix    = "urlprefix"    // Path prefix without slashes at either end
)

var (
	slugRegex      = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	urlPrefixRegex = regexp.MustCompile(`^[A-Za-z0-9._~-]+(/[A-Za-z0-9._~-]+)*$`)
)

func (v *Validator) registerCustomRules() {
	_ = v.validate.RegisterValidation(TagNoWhitespace, validateNoWhitespace)
	_ = v.validate.RegisterValidation(TagTrimmed, validateTrimmed)
	_ = v.validate.RegisterValidation(TagSlug, validateSlug)
	_ = v.validate.RegisterValidation(TagURLPrefix, validateURLPrefix)
}

func validateNoWhitespace(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func validateTrimmed(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == strings.TrimSpace(value)
}

func validateSlug(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let 'required' handle empty values
	}
	return slugRegex.MatchString(value)
}

// validateURLPrefix accepts "", "api" and "api/internal", rejecting "/api".
func validateURLPrefix(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return urlPrefixRegex.MatchString(value)
}
