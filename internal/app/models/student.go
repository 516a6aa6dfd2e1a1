package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID               int64      `json:"id" db:"id" example:"1"`
	Index            string     `json:"index" db:"student_index" example:"201001"`
	FirstName        string     `json:"firstName" db:"first_name" example:"Petar"`
	LastName         string     `json:"lastName" db:"last_name" example:"Nikolov"`
	EnrollmentDate   *time.Time `json:"enrollmentDate,omitempty" db:"enrollment_date"`
	AcquiredCredits  *int       `json:"acquiredCredits,omitempty" db:"acquired_credits"`
	CurrentSemester  *int       `json:"currentSemester,omitempty" db:"current_semester" example:"3"`
	EducationLevel   *string    `json:"educationLevel,omitempty" db:"education_level" example:"Bachelor"`
	ProfileImagePath *string    `json:"profileImagePath,omitempty" db:"profile_image_path"`
	Version          int        `json:"version" db:"version"`
}

// FullName returns "First Last"
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// EligibleFor reports whether the student may be enrolled in a course held
// in the given academic year and semester: they must have started studies
// that year and be in a study semester of matching parity. Students without
// a current semester are never eligible.
func (s *Student) EligibleFor(year int, semester Semester) bool {
	if s.EnrollmentDate == nil || s.CurrentSemester == nil {
		return false
	}
	if s.EnrollmentDate.Year() != year {
		return false
	}
	return semester.MatchesSemesterNumber(*s.CurrentSemester)
}

// StudentFilter narrows student listings
type StudentFilter struct {
	Index     string
	FirstName string
	LastName  string
	CourseID  *int64
	Page      int
	Size      int
}
