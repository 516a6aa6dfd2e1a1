package validation

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Validation rule patterns
var (
	// StudentIndexPattern accepts short alphanumeric indexes such as 201001 or 2021/045
	StudentIndexPattern = regexp.MustCompile(`^[0-9A-Za-z/\-]{1,10}$`)

	PasswordMinLength = 6

	TitleMaxLength = 100
	URLMaxLength   = 255
)

// Upload allow-lists, compared case-insensitively
var (
	SeminarExtensions      = []string{".doc", ".docx", ".pdf"}
	ProfileImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
)

// Upload sub-folders under the storage root
const (
	SeminarFolder       = "seminars"
	StudentImagesFolder = "students"
	TeacherImagesFolder = "teachers"
)

// HasAllowedExtension reports whether filename ends with one of allowed
func HasAllowedExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// IsValidStudentIndex checks the external student index format
func IsValidStudentIndex(index string) bool {
	return StudentIndexPattern.MatchString(strings.TrimSpace(index))
}
