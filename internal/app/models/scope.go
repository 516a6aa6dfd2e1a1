package models

// Scope restricts a query to the rows a caller may see. The zero value
// matches nothing.
type Scope struct {
	All       bool
	TeacherID *int64
	StudentID *int64
}

// Unrestricted is the admin scope
var Unrestricted = Scope{All: true}

// ForTeacher limits rows to courses taught by id
func ForTeacher(id int64) Scope {
	return Scope{TeacherID: &id}
}

// ForStudent limits rows to the student's own enrollments
func ForStudent(id int64) Scope {
	return Scope{StudentID: &id}
}

// AllowsCourse reports whether a course is visible. enrolled tells whether
// the scoped student holds an enrollment in it.
func (s Scope) AllowsCourse(c *Course, enrolled bool) bool {
	switch {
	case s.All:
		return true
	case s.TeacherID != nil:
		return c.TaughtBy(*s.TeacherID)
	case s.StudentID != nil:
		return enrolled
	}
	return false
}

// AllowsEnrollment reports whether an enrollment row is visible
func (s Scope) AllowsEnrollment(e *Enrollment, c *Course) bool {
	switch {
	case s.All:
		return true
	case s.TeacherID != nil:
		return c != nil && c.ID == e.CourseID && c.TaughtBy(*s.TeacherID)
	case s.StudentID != nil:
		return e.StudentID == *s.StudentID
	}
	return false
}
