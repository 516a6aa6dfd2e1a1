package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func date(y int) *time.Time {
	d := time.Date(y, time.October, 1, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestStudent_EligibleFor(t *testing.T) {
	tests := []struct {
		name     string
		student  Student
		year     int
		semester Semester
		want     bool
	}{
		{"odd semester in winter", Student{EnrollmentDate: date(2022), CurrentSemester: intPtr(3)}, 2022, SemesterWinter, true},
		{"odd semester in summer", Student{EnrollmentDate: date(2022), CurrentSemester: intPtr(3)}, 2022, SemesterSummer, false},
		{"even semester in summer", Student{EnrollmentDate: date(2022), CurrentSemester: intPtr(4)}, 2022, SemesterSummer, true},
		{"even semester in winter", Student{EnrollmentDate: date(2022), CurrentSemester: intPtr(4)}, 2022, SemesterWinter, false},
		{"different year", Student{EnrollmentDate: date(2021), CurrentSemester: intPtr(3)}, 2022, SemesterWinter, false},
		{"no enrollment date", Student{CurrentSemester: intPtr(1)}, 2022, SemesterWinter, false},
		{"no current semester winter", Student{EnrollmentDate: date(2022)}, 2022, SemesterWinter, false},
		{"no current semester summer", Student{EnrollmentDate: date(2022)}, 2022, SemesterSummer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.student.EligibleFor(tt.year, tt.semester))
		})
	}
}

func TestEnrollment_State(t *testing.T) {
	e := Enrollment{}
	assert.True(t, e.IsActive())
	assert.False(t, e.HasPassed())

	e.Grade = intPtr(5)
	assert.False(t, e.HasPassed())
	e.Grade = intPtr(PassingGrade)
	assert.True(t, e.HasPassed())

	e.FinishDate = date(2023)
	assert.False(t, e.IsActive())
}

func TestCourse_TaughtBy(t *testing.T) {
	first, second := int64(1), int64(2)
	c := Course{FirstTeacherID: &first, SecondTeacherID: &second}
	assert.True(t, c.TaughtBy(1))
	assert.True(t, c.TaughtBy(2))
	assert.False(t, c.TaughtBy(3))
	assert.False(t, (&Course{}).TaughtBy(1))
}
