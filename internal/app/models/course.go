package models

// Course represents a course and its (up to two) teachers.
type Course struct {
	ID              int64   `json:"id" db:"id" example:"1"`
	Title           string  `json:"title" db:"title" example:"Databases"`
	Credits         int     `json:"credits" db:"credits" example:"6"`
	Semester        int     `json:"semester" db:"semester" example:"3"`
	Programme       *string `json:"programme,omitempty" db:"programme" example:"Software Engineering"`
	EducationLevel  *string `json:"educationLevel,omitempty" db:"education_level" example:"Bachelor"`
	FirstTeacherID  *int64  `json:"firstTeacherId,omitempty" db:"first_teacher_id"`
	SecondTeacherID *int64  `json:"secondTeacherId,omitempty" db:"second_teacher_id"`

	// Relations (populated when needed)
	FirstTeacher  *Teacher `json:"firstTeacher,omitempty"`
	SecondTeacher *Teacher `json:"secondTeacher,omitempty"`
}

// TaughtBy reports whether teacherID is the first or second teacher
func (c *Course) TaughtBy(teacherID int64) bool {
	return (c.FirstTeacherID != nil && *c.FirstTeacherID == teacherID) ||
		(c.SecondTeacherID != nil && *c.SecondTeacherID == teacherID)
}

// CourseFilter narrows course listings
type CourseFilter struct {
	Title     string
	Semester  *int
	Programme string
	TeacherID *int64
}
