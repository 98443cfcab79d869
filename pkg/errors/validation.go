package errors

import (
	"regexp"
	"unicode"
)

// maxIDLength bounds dashboard and widget type identifiers.
const maxIDLength = 128

// idRegex matches identifiers that are safe as file names, redis keys and URL segments.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateDashboardID validates a dashboard identifier before it is used as a
// storage key. The rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateDashboardID(id string) error {
	return validateID("dashboard id", id)
}

// ValidateTypeID validates a widget type identifier from configuration or a request.
func ValidateTypeID(id string) error {
	return validateID("widget type id", id)
}

func validateID(what, id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "%s cannot be empty", what)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "%s too long (max %d characters)", what, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "%s contains invalid control characters", what)
		}
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid %s: %q", what, id)
	}
	return nil
}
