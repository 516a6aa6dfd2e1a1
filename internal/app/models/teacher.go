package models

import "time"

// Teacher defines the teacher model based on the 'teachers' table
type Teacher struct {
	ID               int64      `json:"id" db:"id" example:"1"`
	FirstName        string     `json:"firstName" db:"first_name" example:"Ivan"`
	LastName         string     `json:"lastName" db:"last_name" example:"Petrovski"`
	Degree           *string    `json:"degree,omitempty" db:"degree" example:"PhD"`
	AcademicRank     *string    `json:"academicRank,omitempty" db:"academic_rank" example:"Professor"`
	OfficeNumber     *string    `json:"officeNumber,omitempty" db:"office_number" example:"A101"`
	HireDate         *time.Time `json:"hireDate,omitempty" db:"hire_date"`
	ProfileImagePath *string    `json:"profileImagePath,omitempty" db:"profile_image_path"`
	Version          int        `json:"version" db:"version"`
}

// FullName returns "First Last"
func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}

// TeacherFilter narrows teacher listings
type TeacherFilter struct {
	FirstName    string
	LastName     string
	Degree       string
	AcademicRank string
	Page         int
	Size         int
}
