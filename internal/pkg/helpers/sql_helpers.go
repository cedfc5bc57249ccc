package helpers

import "strings"

// TrimToNil trims a submitted form value and converts a blank result to
// nil, so optional columns are cleared rather than left at their prior
// value.
func TrimToNil(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// StringOrEmpty dereferences an optional string column.
func StringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to v. Useful for optional columns in literals.
func Ptr[T any](v T) *T {
	return &v
}
