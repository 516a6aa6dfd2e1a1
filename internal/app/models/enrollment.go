package models

import "time"

// PassingGrade is the lowest grade that counts as having passed a course
const PassingGrade = 6

// Enrollment links a student to a course for one academic period and
// carries the grading record. A set FinishDate means the enrollment is over.
type Enrollment struct {
	ID               int64      `json:"id" db:"id" example:"1"`
	CourseID         int64      `json:"courseId" db:"course_id" example:"1"`
	StudentID        int64      `json:"studentId" db:"student_id" example:"1"`
	Semester         Semester   `json:"semester" db:"semester" example:"Winter"`
	Year             *int       `json:"year,omitempty" db:"year" example:"2024"`
	Grade            *int       `json:"grade,omitempty" db:"grade" example:"8"`
	SeminarURL       *string    `json:"seminarUrl,omitempty" db:"seminar_url"`
	ProjectURL       *string    `json:"projectUrl,omitempty" db:"project_url"`
	ExamPoints       *int       `json:"examPoints,omitempty" db:"exam_points"`
	SeminarPoints    *int       `json:"seminarPoints,omitempty" db:"seminar_points"`
	ProjectPoints    *int       `json:"projectPoints,omitempty" db:"project_points"`
	AdditionalPoints *int       `json:"additionalPoints,omitempty" db:"additional_points"`
	FinishDate       *time.Time `json:"finishDate,omitempty" db:"finish_date"`

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
	Course  *Course  `json:"course,omitempty"`
}

// IsActive reports whether the enrollment is still open for grading
func (e *Enrollment) IsActive() bool {
	return e.FinishDate == nil
}

// HasPassed reports whether the recorded grade is a pass
func (e *Enrollment) HasPassed() bool {
	return e.Grade != nil && *e.Grade >= PassingGrade
}

// InPeriod reports whether the enrollment belongs to year and semester
func (e *Enrollment) InPeriod(year int, semester Semester) bool {
	return e.Year != nil && *e.Year == year && e.Semester == semester
}

// GradeEdit is a teacher's overwrite of one enrollment's grading fields.
// Nil values clear the stored value.
type GradeEdit struct {
	EnrollmentID     int64
	ExamPoints       *int
	SeminarPoints    *int
	ProjectPoints    *int
	AdditionalPoints *int
	Grade            *int
	FinishDate       *time.Time
}

// Apply copies the edit onto e
func (g GradeEdit) Apply(e *Enrollment) {
	e.ExamPoints = g.ExamPoints
	e.SeminarPoints = g.SeminarPoints
	e.ProjectPoints = g.ProjectPoints
	e.AdditionalPoints = g.AdditionalPoints
	e.Grade = g.Grade
	e.FinishDate = g.FinishDate
}

// EnrollmentOrder selects the ordering of enrollment listings
type EnrollmentOrder int

const (
	// OrderByPeriod sorts by year desc, semester, student last then first name
	OrderByPeriod EnrollmentOrder = iota
	// OrderByStudentIndex sorts by the student's external index
	OrderByStudentIndex
)

// EnrollmentFilter narrows enrollment listings
type EnrollmentFilter struct {
	CourseID   *int64
	StudentID  *int64
	Year       *int
	Semester   *Semester
	ActiveOnly bool
	Order      EnrollmentOrder
}
