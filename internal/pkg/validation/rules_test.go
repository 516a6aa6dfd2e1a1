package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAllowedExtension(t *testing.T) {
	tests := []struct {
		filename string
		allowed  []string
		want     bool
	}{
		{"report.pdf", SeminarExtensions, true},
		{"REPORT.PDF", SeminarExtensions, true},
		{"essay.DocX", SeminarExtensions, true},
		{"notes.txt", SeminarExtensions, false},
		{"archive.pdf.zip", SeminarExtensions, false},
		{"noext", SeminarExtensions, false},
		{"me.WEBP", ProfileImageExtensions, true},
		{"me.gif", ProfileImageExtensions, false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, HasAllowedExtension(tt.filename, tt.allowed))
		})
	}
}

func TestIsValidStudentIndex(t *testing.T) {
	assert.True(t, IsValidStudentIndex("201001"))
	assert.True(t, IsValidStudentIndex(" 2021/045 "))
	assert.False(t, IsValidStudentIndex(""))
	assert.False(t, IsValidStudentIndex("12345678901"))
	assert.False(t, IsValidStudentIndex("20 10"))
}
