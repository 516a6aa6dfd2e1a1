package dto

import "github.com/yigit/enrollment/internal/app/models"

// CourseRequest is the create/update payload for a course
type CourseRequest struct {
	Title           string `json:"title" binding:"required,max=100" example:"Databases"`
	Credits         int    `json:"credits" binding:"min=0,max=30" example:"6"`
	Semester        int    `json:"semester" binding:"min=1,max=12" example:"3"`
	Programme       string `json:"programme" binding:"max=100" example:"Software Engineering"`
	EducationLevel  string `json:"educationLevel" binding:"max=25" example:"Bachelor"`
	FirstTeacherID  *int64 `json:"firstTeacherId" binding:"omitempty,min=1" example:"1"`
	SecondTeacherID *int64 `json:"secondTeacherId" binding:"omitempty,min=1" example:"2"`
}

// CourseListQuery holds course list filters
type CourseListQuery struct {
	Title     string `form:"title"`
	Semester  *int   `form:"semester" binding:"omitempty,min=1"`
	Programme string `form:"programme"`
	TeacherID *int64 `form:"teacherId" binding:"omitempty,min=1"`
}

// CourseDetailsResponse is a course with the enrollments the caller may see
type CourseDetailsResponse struct {
	Course      *models.Course       `json:"course"`
	Enrollments []*models.Enrollment `json:"enrollments"`
}
