package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Semester is the academic half-year a course enrollment belongs to
type Semester string

const (
	SemesterWinter Semester = "Winter"
	SemesterSummer Semester = "Summer"
)

// semesterAliases maps case-folded input onto the canonical semester.
// Macedonian names are accepted in both Latin and Cyrillic script.
var semesterAliases = map[string]Semester{
	"winter": SemesterWinter,
	"zimski": SemesterWinter,
	"зимски": SemesterWinter,
	"summer": SemesterSummer,
	"leten":  SemesterSummer,
	"летен":  SemesterSummer,
}

// NormalizeSemester maps free-form input onto Winter or Summer. Blank or
// unrecognised input yields Winter; it never fails.
func NormalizeSemester(raw string) Semester {
	s := strings.TrimSpace(norm.NFC.String(raw))
	if s == "" {
		return SemesterWinter
	}
	// cases.Caser is stateful, so one per call
	if sem, ok := semesterAliases[cases.Fold().String(s)]; ok {
		return sem
	}
	return SemesterWinter
}

// MatchesSemesterNumber reports whether a student in their n-th study
// semester belongs to s. Odd semesters are Winter, even ones Summer.
func (s Semester) MatchesSemesterNumber(n int) bool {
	return (n%2 != 0) == (s == SemesterWinter)
}

// String implements fmt.Stringer
func (s Semester) String() string {
	return string(s)
}
