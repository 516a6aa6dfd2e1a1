package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func id(i int64) *int64 { return &i }

func TestScope_AllowsCourse(t *testing.T) {
	courses := []*Course{
		{ID: 1, FirstTeacherID: id(2)},
		{ID: 2, FirstTeacherID: id(1), SecondTeacherID: id(2)},
		{ID: 3, FirstTeacherID: id(1)},
		{ID: 4},
	}

	var visible []int64
	for _, c := range courses {
		if ForTeacher(2).AllowsCourse(c, false) {
			visible = append(visible, c.ID)
		}
	}
	assert.Equal(t, []int64{1, 2}, visible)

	for _, c := range courses {
		assert.True(t, Unrestricted.AllowsCourse(c, false))
		assert.False(t, Scope{}.AllowsCourse(c, true), "zero scope must match nothing")
	}

	assert.True(t, ForStudent(7).AllowsCourse(courses[3], true))
	assert.False(t, ForStudent(7).AllowsCourse(courses[3], false))
}

func TestScope_AllowsEnrollment(t *testing.T) {
	course := &Course{ID: 1, FirstTeacherID: id(2)}
	rows := []*Enrollment{
		{ID: 1, CourseID: 1, StudentID: 7},
		{ID: 2, CourseID: 1, StudentID: 8},
		{ID: 3, CourseID: 1, StudentID: 7},
	}

	var own []int64
	for _, e := range rows {
		if ForStudent(7).AllowsEnrollment(e, course) {
			own = append(own, e.ID)
		}
	}
	assert.Equal(t, []int64{1, 3}, own)

	assert.True(t, ForTeacher(2).AllowsEnrollment(rows[1], course))
	assert.False(t, ForTeacher(3).AllowsEnrollment(rows[1], course))
	assert.False(t, ForTeacher(2).AllowsEnrollment(rows[1], nil))
	assert.False(t, Scope{}.AllowsEnrollment(rows[0], course))
}
