package dto

import "github.com/yigit/enrollment/internal/app/models"

// EnrollStudentsRequest enrolls a selection of students for one period
type EnrollStudentsRequest struct {
	Year       int     `json:"year" binding:"required,min=1900,max=2100" example:"2024"`
	Semester   string  `json:"semester" example:"Winter"`
	StudentIDs []int64 `json:"studentIds" binding:"dive,min=1"`
}

// EnrollStudentsResponse reports which students were enrolled and why others were not
type EnrollStudentsResponse struct {
	Semester        models.Semester `json:"semester" example:"Winter"`
	Year            int             `json:"year" example:"2024"`
	Enrolled        []int64         `json:"enrolled"`
	Ineligible      []int64         `json:"ineligible"`
	AlreadyPassed   []int64         `json:"alreadyPassed"`
	AlreadyEnrolled []int64         `json:"alreadyEnrolled"`
}

// DeactivateStudentsRequest closes enrollments for one period
type DeactivateStudentsRequest struct {
	Year          int     `json:"year" binding:"required,min=1900,max=2100" example:"2024"`
	Semester      string  `json:"semester" example:"Winter"`
	EnrollmentIDs []int64 `json:"enrollmentIds" binding:"dive,min=1"`
	FinishDate    string  `json:"finishDate" example:"2025-02-01"`
}

// DeactivateStudentsResponse reports how many rows were closed
type DeactivateStudentsResponse struct {
	Updated int64 `json:"updated" example:"3"`
}

// GradeEditRequest overwrites the grading fields of one enrollment. Omitted
// or null values clear the stored value.
type GradeEditRequest struct {
	EnrollmentID     int64  `json:"enrollmentId" binding:"required,min=1" example:"1"`
	ExamPoints       *int   `json:"examPoints" binding:"omitempty,min=0,max=100" example:"45"`
	SeminarPoints    *int   `json:"seminarPoints" binding:"omitempty,min=0,max=100" example:"20"`
	ProjectPoints    *int   `json:"projectPoints" binding:"omitempty,min=0,max=100" example:"15"`
	AdditionalPoints *int   `json:"additionalPoints" binding:"omitempty,min=0,max=100" example:"5"`
	Grade            *int   `json:"grade" binding:"omitempty,min=0,max=10" example:"9"`
	FinishDate       string `json:"finishDate" example:"2025-02-01"`
}

// GradebookUpdateRequest is a teacher's batch of grade edits for one year
type GradebookUpdateRequest struct {
	Year  int                `json:"year" binding:"required,min=1900,max=2100" example:"2024"`
	Edits []GradeEditRequest `json:"edits" binding:"required,dive"`
}

// GradebookUpdateResponse lists which rows changed and which were closed already
type GradebookUpdateResponse struct {
	Updated []int64 `json:"updated"`
	Skipped []int64 `json:"skipped"`
}

// GradebookResponse is the teacher view of a course for one year
type GradebookResponse struct {
	Course      *models.Course       `json:"course"`
	Year        int                  `json:"year" example:"2024"`
	Years       []int                `json:"years"`
	Enrollments []*models.Enrollment `json:"enrollments"`
}

// StandingResponse is the student view of their own enrollment in a course
type StandingResponse struct {
	Course      *models.Course       `json:"course"`
	Year        int                  `json:"year" example:"2024"`
	Years       []int                `json:"years"`
	Enrollments []*models.Enrollment `json:"enrollments"`
}

// SubmissionRequest is the multipart form a student submits; the seminar
// file travels in the seminarFile part.
type SubmissionRequest struct {
	ProjectURL string `form:"projectUrl" binding:"max=255" example:"https://github.com/petar/project"`
}

// EnrollmentRequest is the admin create/update payload for a single enrollment
type EnrollmentRequest struct {
	CourseID         int64  `json:"courseId" binding:"required,min=1" example:"1"`
	StudentID        int64  `json:"studentId" binding:"required,min=1" example:"1"`
	Semester         string `json:"semester" example:"Winter"`
	Year             *int   `json:"year" binding:"omitempty,min=1900,max=2100" example:"2024"`
	Grade            *int   `json:"grade" binding:"omitempty,min=0,max=10"`
	SeminarURL       string `json:"seminarUrl" binding:"max=255"`
	ProjectURL       string `json:"projectUrl" binding:"max=255"`
	ExamPoints       *int   `json:"examPoints" binding:"omitempty,min=0,max=100"`
	SeminarPoints    *int   `json:"seminarPoints" binding:"omitempty,min=0,max=100"`
	ProjectPoints    *int   `json:"projectPoints" binding:"omitempty,min=0,max=100"`
	AdditionalPoints *int   `json:"additionalPoints" binding:"omitempty,min=0,max=100"`
	FinishDate       string `json:"finishDate" example:"2025-02-01"`
}

// EnrollmentListQuery holds enrollment list filters
type EnrollmentListQuery struct {
	CourseID   *int64 `form:"courseId" binding:"omitempty,min=1"`
	StudentID  *int64 `form:"studentId" binding:"omitempty,min=1"`
	Year       *int   `form:"year" binding:"omitempty,min=1900,max=2100"`
	Semester   string `form:"semester"`
	ActiveOnly bool   `form:"activeOnly"`
}
