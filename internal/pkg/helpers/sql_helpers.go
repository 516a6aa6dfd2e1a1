package helpers

import "strings"

// TrimToNil trims s and returns nil when nothing is left
func TrimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// EscapeLike escapes LIKE wildcards so user input matches literally
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Contains builds a %term% pattern for ILIKE filters
func Contains(term string) string {
	return "%" + EscapeLike(strings.TrimSpace(term)) + "%"
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 { return &v }

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }
